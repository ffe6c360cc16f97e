// Package receipts renders sale receipts to the local filesystem. It stands
// in for the document-generation collaborator: given a recorded transaction
// it produces a file and returns the storage path recorded on the
// transaction. Failures here never roll back the sale.
package receipts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/landworks/registry-system/internal/core/ports"
)

// FileGenerator writes one receipt file per transaction under Dir.
type FileGenerator struct {
	dir string
}

// NewFileGenerator creates the receipt directory if needed.
func NewFileGenerator(dir string) (*FileGenerator, error) {
	if dir == "" {
		dir = "receipts"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create receipt dir: %w", err)
	}
	return &FileGenerator{dir: dir}, nil
}

// Generate renders the receipt and returns its path.
func (g *FileGenerator) Generate(_ context.Context, tx *ports.TransactionWithPlot) (string, error) {
	path := filepath.Join(g.dir, fmt.Sprintf("receipt-%s.txt", tx.Transaction.ID))

	body := fmt.Sprintf(`LAND SALE RECEIPT
=================
Receipt No:   %s
Date:         %s

Plot:         %s (%s %s)
Location:     %s

Buyer:        %s (%s)
Seller:       %s (%s)

Sale Price:       %s
Commission Rate:  %s
Commission:       %s
Net to Seller:    %s

Generated at %s
`,
		tx.Transaction.ID,
		tx.Transaction.TransactionDate.Format("2006-01-02"),
		tx.Plot.PlotNumber,
		tx.Plot.Size.String(),
		tx.Plot.SizeUnit,
		tx.Plot.Location,
		tx.Transaction.BuyerName,
		tx.Transaction.BuyerContact,
		tx.Transaction.SellerName,
		tx.Transaction.SellerContact,
		tx.Transaction.SalePrice.StringFixed(2),
		tx.Transaction.CommissionRate.String(),
		tx.Transaction.CommissionAmount.StringFixed(2),
		tx.Transaction.SalePrice.Sub(tx.Transaction.CommissionAmount).StringFixed(2),
		time.Now().UTC().Format(time.RFC3339),
	)

	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", fmt.Errorf("write receipt: %w", err)
	}
	return path, nil
}
