package handler

import (
	"github.com/landworks/registry-system/internal/core/domain"
	"github.com/landworks/registry-system/internal/core/ports"
)

// --- Service result → HTTP response ---

func toTransactionResponse(tx domain.Transaction, plot domain.LandPlot, createdBy *ports.UserSummary) transactionResponse {
	resp := transactionResponse{
		ID:               tx.ID,
		LandPlotID:       tx.LandPlotID,
		BuyerName:        tx.BuyerName,
		BuyerContact:     tx.BuyerContact,
		SellerName:       tx.SellerName,
		SellerContact:    tx.SellerContact,
		SalePrice:        tx.SalePrice.StringFixed(2),
		CommissionRate:   tx.CommissionRate.String(),
		CommissionAmount: tx.CommissionAmount.StringFixed(2),
		TransactionDate:  tx.TransactionDate.UTC(),
		ReceiptPath:      tx.ReceiptPath,
		CreatedAt:        tx.CreatedAt.UTC(),
		Plot: plotSummaryResponse{
			ID:         plot.ID,
			PlotNumber: plot.PlotNumber,
			Location:   plot.Location,
			Size:       plot.Size.String(),
			SizeUnit:   string(plot.SizeUnit),
			Status:     string(plot.Status),
		},
	}
	if createdBy != nil {
		resp.CreatedBy = &userSummaryResponse{
			ID:        createdBy.ID,
			Email:     createdBy.Email,
			FirstName: createdBy.FirstName,
			LastName:  createdBy.LastName,
			Role:      createdBy.Role,
		}
	}
	return resp
}

func toCommissionResponse(b *ports.CommissionBreakdown) commissionResponse {
	return commissionResponse{
		SalePrice:            b.SalePrice.StringFixed(2),
		CommissionRate:       b.CommissionRate.String(),
		CommissionAmount:     b.CommissionAmount.StringFixed(2),
		NetAmount:            b.NetAmount.StringFixed(2),
		CommissionPercentage: b.CommissionPercentage,
	}
}

func toStatisticsResponse(s *ports.TransactionStats) statisticsResponse {
	monthly := make([]monthlyStatsResponse, len(s.Monthly))
	for i, m := range s.Monthly {
		monthly[i] = monthlyStatsResponse{
			Month:      m.Month,
			Count:      m.Count,
			Revenue:    m.Revenue.StringFixed(2),
			Commission: m.Commission.StringFixed(2),
		}
	}
	return statisticsResponse{
		Count:           s.Count,
		TotalRevenue:    s.TotalRevenue.StringFixed(2),
		TotalCommission: s.TotalCommission.StringFixed(2),
		NetRevenue:      s.NetRevenue.StringFixed(2),
		AvgSalePrice:    s.AvgSalePrice.StringFixed(2),
		MinSalePrice:    s.MinSalePrice.StringFixed(2),
		MaxSalePrice:    s.MaxSalePrice.StringFixed(2),
		Monthly:         monthly,
	}
}
