package receipts

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/landworks/registry-system/internal/core/domain"
	"github.com/landworks/registry-system/internal/core/ports"
)

func sampleSale() *ports.TransactionWithPlot {
	return &ports.TransactionWithPlot{
		Transaction: domain.Transaction{
			ID:               "tx-001",
			LandPlotID:       "plot-1",
			BuyerName:        "John Buyer",
			BuyerContact:     "+233241234567",
			SellerName:       "Kwame Mensah",
			SellerContact:    "+233209876543",
			SalePrice:        decimal.NewFromInt(50000),
			CommissionRate:   decimal.NewFromFloat(0.10),
			CommissionAmount: decimal.NewFromInt(5000),
			TransactionDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		},
		Plot: domain.LandPlot{
			ID:         "plot-1",
			PlotNumber: "GB001",
			Location:   "East Legon, Accra",
			Size:       decimal.NewFromFloat(2.5),
			SizeUnit:   domain.UnitAcres,
			Status:     domain.StatusSold,
		},
	}
}

func TestFileGenerator_WritesReceipt(t *testing.T) {
	dir := t.TempDir()
	gen, err := NewFileGenerator(dir)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}

	path, err := gen.Generate(context.Background(), sampleSale())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.HasSuffix(path, "receipt-tx-001.txt") {
		t.Errorf("unexpected path: %s", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read receipt: %v", err)
	}
	body := string(raw)
	for _, want := range []string{"GB001", "John Buyer", "Kwame Mensah", "50000.00", "5000.00", "45000.00", "2026-08-01"} {
		if !strings.Contains(body, want) {
			t.Errorf("receipt missing %q:\n%s", want, body)
		}
	}
}

func TestNewFileGenerator_CreatesDirectory(t *testing.T) {
	dir := t.TempDir() + "/nested/receipts"
	if _, err := NewFileGenerator(dir); err != nil {
		t.Fatalf("new generator: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf("directory not created: %v", err)
	}
}
