package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/landworks/registry-system/internal/core/domain"
	"github.com/landworks/registry-system/internal/core/ports"
)

const collectionTransactions = "transactions"

// sortFields whitelists caller-facing sort keys and maps them to storage
// fields. Unknown keys silently fall back to the transaction date.
var sortFields = map[string]string{
	"transactionDate":  "transaction_date",
	"salePrice":        "sale_price",
	"commissionAmount": "commission_amount",
	"buyerName":        "buyer_name",
	"sellerName":       "seller_name",
	"createdAt":        "created_at",
}

// TransactionRepository implements ports.TransactionRepository using MongoDB.
type TransactionRepository struct {
	col *mongo.Collection
}

func NewTransactionRepository(db *mongo.Database) *TransactionRepository {
	return &TransactionRepository{col: db.Collection(collectionTransactions)}
}

type transactionDoc struct {
	ID               string               `bson:"_id"`
	LandPlotID       string               `bson:"land_plot_id"`
	BuyerName        string               `bson:"buyer_name"`
	BuyerContact     string               `bson:"buyer_contact"`
	SellerName       string               `bson:"seller_name"`
	SellerContact    string               `bson:"seller_contact"`
	SalePrice        primitive.Decimal128 `bson:"sale_price"`
	CommissionRate   primitive.Decimal128 `bson:"commission_rate"`
	CommissionAmount primitive.Decimal128 `bson:"commission_amount"`
	TransactionDate  time.Time            `bson:"transaction_date"`
	ReceiptPath      string               `bson:"receipt_path,omitempty"`
	CreatedBy        string               `bson:"created_by"`
	CreatedAt        time.Time            `bson:"created_at"`
}

// joinedDoc is the $lookup projection of a transaction with its plot.
type joinedDoc struct {
	transactionDoc `bson:",inline"`
	Plot           landPlotDoc `bson:"plot"`
}

func toTransactionDoc(t *domain.Transaction) (transactionDoc, error) {
	price, err := toDecimal128(t.SalePrice)
	if err != nil {
		return transactionDoc{}, fmt.Errorf("encode sale price: %w", err)
	}
	rate, err := toDecimal128(t.CommissionRate)
	if err != nil {
		return transactionDoc{}, fmt.Errorf("encode commission rate: %w", err)
	}
	amount, err := toDecimal128(t.CommissionAmount)
	if err != nil {
		return transactionDoc{}, fmt.Errorf("encode commission amount: %w", err)
	}
	return transactionDoc{
		ID:               t.ID,
		LandPlotID:       t.LandPlotID,
		BuyerName:        t.BuyerName,
		BuyerContact:     t.BuyerContact,
		SellerName:       t.SellerName,
		SellerContact:    t.SellerContact,
		SalePrice:        price,
		CommissionRate:   rate,
		CommissionAmount: amount,
		TransactionDate:  t.TransactionDate,
		ReceiptPath:      t.ReceiptPath,
		CreatedBy:        t.CreatedBy,
		CreatedAt:        t.CreatedAt,
	}, nil
}

func (d transactionDoc) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:               d.ID,
		LandPlotID:       d.LandPlotID,
		BuyerName:        d.BuyerName,
		BuyerContact:     d.BuyerContact,
		SellerName:       d.SellerName,
		SellerContact:    d.SellerContact,
		SalePrice:        fromDecimal128(d.SalePrice),
		CommissionRate:   fromDecimal128(d.CommissionRate),
		CommissionAmount: fromDecimal128(d.CommissionAmount),
		TransactionDate:  d.TransactionDate,
		ReceiptPath:      d.ReceiptPath,
		CreatedBy:        d.CreatedBy,
		CreatedAt:        d.CreatedAt,
	}
}

func (r *TransactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toTransactionDoc(t)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id string) (*ports.TransactionWithPlot, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: bson.M{"_id": id}}},
		lookupPlotStage(),
		unwindPlotStage(),
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("find transaction: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []joinedDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode transaction: %w", err)
	}
	if len(docs) == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return &ports.TransactionWithPlot{
		Transaction: docs[0].toDomain(),
		Plot:        *docs[0].Plot.toDomain(),
	}, nil
}

// List filters, sorts and pages transactions joined with their land plots.
// The plot-number filter requires the join, so total counting happens in the
// same pipeline via $facet.
func (r *TransactionRepository) List(ctx context.Context, filter ports.ListTransactionsFilter) ([]*ports.TransactionWithPlot, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if filter.Buyer != "" {
		match["buyer_name"] = primitive.Regex{Pattern: escapeRegex(filter.Buyer), Options: "i"}
	}
	if filter.Seller != "" {
		match["seller_name"] = primitive.Regex{Pattern: escapeRegex(filter.Seller), Options: "i"}
	}
	if dateRange := rangeFilter(filter.DateFrom, filter.DateTo); dateRange != nil {
		match["transaction_date"] = dateRange
	}
	priceRange := bson.M{}
	if filter.MinPrice != nil {
		min, err := toDecimal128(*filter.MinPrice)
		if err != nil {
			return nil, 0, fmt.Errorf("encode min price: %w", err)
		}
		priceRange["$gte"] = min
	}
	if filter.MaxPrice != nil {
		max, err := toDecimal128(*filter.MaxPrice)
		if err != nil {
			return nil, 0, fmt.Errorf("encode max price: %w", err)
		}
		priceRange["$lte"] = max
	}
	if len(priceRange) > 0 {
		match["sale_price"] = priceRange
	}

	sortField, ok := sortFields[filter.SortBy]
	if !ok {
		sortField = "transaction_date"
	}
	sortDir := 1
	if filter.SortDesc {
		sortDir = -1
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		lookupPlotStage(),
		unwindPlotStage(),
	}
	if filter.PlotNumber != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
			"plot.plot_number": primitive.Regex{Pattern: escapeRegex(filter.PlotNumber), Options: "i"},
		}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$facet", Value: bson.M{
		"items": bson.A{
			bson.M{"$sort": bson.D{{Key: sortField, Value: sortDir}, {Key: "_id", Value: 1}}},
			bson.M{"$skip": int64((filter.Page - 1) * filter.Limit)},
			bson.M{"$limit": int64(filter.Limit)},
		},
		"total": bson.A{
			bson.M{"$count": "count"},
		},
	}}})

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer cursor.Close(ctx)

	var pages []struct {
		Items []joinedDoc `bson:"items"`
		Total []struct {
			Count int64 `bson:"count"`
		} `bson:"total"`
	}
	if err := cursor.All(ctx, &pages); err != nil {
		return nil, 0, fmt.Errorf("decode transactions: %w", err)
	}
	if len(pages) == 0 {
		return nil, 0, nil
	}

	items := make([]*ports.TransactionWithPlot, len(pages[0].Items))
	for i, d := range pages[0].Items {
		items[i] = &ports.TransactionWithPlot{
			Transaction: d.toDomain(),
			Plot:        *d.Plot.toDomain(),
		}
	}
	var total int64
	if len(pages[0].Total) > 0 {
		total = pages[0].Total[0].Count
	}
	return items, total, nil
}

// UpdateFields patches the whitelisted storage fields on one transaction.
func (r *TransactionRepository) UpdateFields(ctx context.Context, id string, fields map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// Delete removes one transaction. Only the sale-guard rollback path uses it.
func (r *TransactionRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}

// Statistics aggregates the filtered transaction set in a single pipeline:
// one facet for the grand totals, one grouped by calendar month (descending).
func (r *TransactionRepository) Statistics(ctx context.Context, from, to time.Time) (*ports.TransactionStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if dateRange := rangeFilter(from, to); dateRange != nil {
		match["transaction_date"] = dateRange
	}

	pipeline := mongo.Pipeline{
		bson.D{{Key: "$match", Value: match}},
		bson.D{{Key: "$facet", Value: bson.M{
			"totals": bson.A{
				bson.M{"$group": bson.M{
					"_id":              nil,
					"count":            bson.M{"$sum": 1},
					"total_revenue":    bson.M{"$sum": "$sale_price"},
					"total_commission": bson.M{"$sum": "$commission_amount"},
					"avg_price":        bson.M{"$avg": "$sale_price"},
					"min_price":        bson.M{"$min": "$sale_price"},
					"max_price":        bson.M{"$max": "$sale_price"},
				}},
			},
			"monthly": bson.A{
				bson.M{"$group": bson.M{
					"_id": bson.M{"$dateToString": bson.M{
						"format": "%Y-%m",
						"date":   "$transaction_date",
					}},
					"count":      bson.M{"$sum": 1},
					"revenue":    bson.M{"$sum": "$sale_price"},
					"commission": bson.M{"$sum": "$commission_amount"},
				}},
				bson.M{"$sort": bson.D{{Key: "_id", Value: -1}}},
			},
		}}},
	}

	cursor, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("transaction statistics: %w", err)
	}
	defer cursor.Close(ctx)

	var results []struct {
		Totals []struct {
			Count           int64                `bson:"count"`
			TotalRevenue    primitive.Decimal128 `bson:"total_revenue"`
			TotalCommission primitive.Decimal128 `bson:"total_commission"`
			AvgPrice        primitive.Decimal128 `bson:"avg_price"`
			MinPrice        primitive.Decimal128 `bson:"min_price"`
			MaxPrice        primitive.Decimal128 `bson:"max_price"`
		} `bson:"totals"`
		Monthly []struct {
			Month      string               `bson:"_id"`
			Count      int64                `bson:"count"`
			Revenue    primitive.Decimal128 `bson:"revenue"`
			Commission primitive.Decimal128 `bson:"commission"`
		} `bson:"monthly"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return nil, fmt.Errorf("decode statistics: %w", err)
	}

	stats := &ports.TransactionStats{
		TotalRevenue:    decimal.Zero,
		TotalCommission: decimal.Zero,
		NetRevenue:      decimal.Zero,
		AvgSalePrice:    decimal.Zero,
		MinSalePrice:    decimal.Zero,
		MaxSalePrice:    decimal.Zero,
		Monthly:         []ports.MonthlyStats{},
	}
	if len(results) == 0 {
		return stats, nil
	}

	if len(results[0].Totals) > 0 {
		t := results[0].Totals[0]
		stats.Count = t.Count
		stats.TotalRevenue = fromDecimal128(t.TotalRevenue)
		stats.TotalCommission = fromDecimal128(t.TotalCommission)
		stats.AvgSalePrice = fromDecimal128(t.AvgPrice)
		stats.MinSalePrice = fromDecimal128(t.MinPrice)
		stats.MaxSalePrice = fromDecimal128(t.MaxPrice)
	}
	for _, m := range results[0].Monthly {
		stats.Monthly = append(stats.Monthly, ports.MonthlyStats{
			Month:      m.Month,
			Count:      m.Count,
			Revenue:    fromDecimal128(m.Revenue),
			Commission: fromDecimal128(m.Commission),
		})
	}
	return stats, nil
}

// EnsureIndexes creates the query indexes for the list and join paths.
func (r *TransactionRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "land_plot_id", Value: 1}}},
		{Keys: bson.D{{Key: "transaction_date", Value: -1}}},
		{Keys: bson.D{{Key: "buyer_name", Value: 1}}},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func lookupPlotStage() bson.D {
	return bson.D{{Key: "$lookup", Value: bson.M{
		"from":         collectionLandPlots,
		"localField":   "land_plot_id",
		"foreignField": "_id",
		"as":           "plot",
	}}}
}

func unwindPlotStage() bson.D {
	return bson.D{{Key: "$unwind", Value: "$plot"}}
}

// rangeFilter builds an inclusive $gte/$lte bound pair; zero times disable
// the corresponding bound. Returns nil when both are zero.
func rangeFilter(from, to time.Time) bson.M {
	if from.IsZero() && to.IsZero() {
		return nil
	}
	out := bson.M{}
	if !from.IsZero() {
		out["$gte"] = from
	}
	if !to.IsZero() {
		out["$lte"] = to
	}
	return out
}
