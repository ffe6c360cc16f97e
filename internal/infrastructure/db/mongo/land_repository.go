package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/landworks/registry-system/internal/core/domain"
	"github.com/landworks/registry-system/internal/core/ports"
)

const collectionLandPlots = "land_plots"

// LandRepository implements ports.LandRepository using MongoDB.
type LandRepository struct {
	col *mongo.Collection
}

func NewLandRepository(db *mongo.Database) *LandRepository {
	return &LandRepository{col: db.Collection(collectionLandPlots)}
}

type landPlotDoc struct {
	ID               string               `bson:"_id"`
	PlotNumber       string               `bson:"plot_number"`
	Location         string               `bson:"location"`
	Size             primitive.Decimal128 `bson:"size"`
	SizeUnit         string               `bson:"size_unit"`
	Status           string               `bson:"status"`
	OwnerName        string               `bson:"owner_name"`
	Description      string               `bson:"description,omitempty"`
	RegistrationDate time.Time            `bson:"registration_date"`
	CreatedAt        time.Time            `bson:"created_at"`
	UpdatedAt        time.Time            `bson:"updated_at"`
}

// toDecimal128 converts a decimal into Mongo's exact numeric type. Storing
// money and sizes as Decimal128 keeps aggregation sums exact.
func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	return primitive.ParseDecimal128(d.String())
}

func fromDecimal128(d primitive.Decimal128) decimal.Decimal {
	out, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero
	}
	return out
}

func toLandPlotDoc(p *domain.LandPlot) (landPlotDoc, error) {
	size, err := toDecimal128(p.Size)
	if err != nil {
		return landPlotDoc{}, fmt.Errorf("encode size: %w", err)
	}
	return landPlotDoc{
		ID:               p.ID,
		PlotNumber:       p.PlotNumber,
		Location:         p.Location,
		Size:             size,
		SizeUnit:         string(p.SizeUnit),
		Status:           string(p.Status),
		OwnerName:        p.OwnerName,
		Description:      p.Description,
		RegistrationDate: p.RegistrationDate,
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}, nil
}

func (d landPlotDoc) toDomain() *domain.LandPlot {
	return &domain.LandPlot{
		ID:               d.ID,
		PlotNumber:       d.PlotNumber,
		Location:         d.Location,
		Size:             fromDecimal128(d.Size),
		SizeUnit:         domain.SizeUnit(d.SizeUnit),
		Status:           domain.PlotStatus(d.Status),
		OwnerName:        d.OwnerName,
		Description:      d.Description,
		RegistrationDate: d.RegistrationDate,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

func (r *LandRepository) Create(ctx context.Context, p *domain.LandPlot) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc, err := toLandPlotDoc(p)
	if err != nil {
		return err
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicatePlotNumber
		}
		return fmt.Errorf("insert land plot: %w", err)
	}
	return nil
}

func (r *LandRepository) FindByID(ctx context.Context, id string) (*domain.LandPlot, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *LandRepository) FindByPlotNumber(ctx context.Context, plotNumber string) (*domain.LandPlot, error) {
	return r.findOne(ctx, bson.M{"plot_number": domain.NormalizePlotNumber(plotNumber)})
}

func (r *LandRepository) findOne(ctx context.Context, filter bson.M) (*domain.LandPlot, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var d landPlotDoc
	if err := r.col.FindOne(ctx, filter).Decode(&d); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrPlotNotFound
		}
		return nil, fmt.Errorf("find land plot: %w", err)
	}
	return d.toDomain(), nil
}

// List returns a page of plots matching filter and the total match count.
func (r *LandRepository) List(ctx context.Context, filter ports.ListPlotsFilter) ([]*domain.LandPlot, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.SizeUnit != "" {
		query["size_unit"] = filter.SizeUnit
	}
	if filter.Search != "" {
		re := primitive.Regex{Pattern: escapeRegex(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"plot_number": re},
			bson.M{"owner_name": re},
		}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count land plots: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "registration_date", Value: -1}}).
		SetSkip(int64((filter.Page - 1) * filter.Limit)).
		SetLimit(int64(filter.Limit))

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list land plots: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []landPlotDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode land plots: %w", err)
	}

	plots := make([]*domain.LandPlot, len(docs))
	for i, d := range docs {
		plots[i] = d.toDomain()
	}
	return plots, total, nil
}

func (r *LandRepository) Update(ctx context.Context, p *domain.LandPlot) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	size, err := toDecimal128(p.Size)
	if err != nil {
		return fmt.Errorf("encode size: %w", err)
	}

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": bson.M{
		"location":    p.Location,
		"size":        size,
		"size_unit":   string(p.SizeUnit),
		"owner_name":  p.OwnerName,
		"description": p.Description,
		"updated_at":  time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update land plot: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPlotNotFound
	}
	return nil
}

func (r *LandRepository) UpdateStatus(ctx context.Context, id string, status domain.PlotStatus) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return fmt.Errorf("update plot status: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrPlotNotFound
	}
	return nil
}

// MarkSold is the check-then-act sale guard collapsed into one conditional
// update: "set status=SOLD where _id=? and status!=SOLD". Of two concurrent
// callers exactly one matches a document; the other reads the plot back to
// distinguish already-sold from not-found.
func (r *LandRepository) MarkSold(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$ne": string(domain.StatusSold)}},
		bson.M{"$set": bson.M{
			"status":     string(domain.StatusSold),
			"updated_at": time.Now().UTC(),
		}},
	)
	if err != nil {
		return fmt.Errorf("mark plot sold: %w", err)
	}
	if res.MatchedCount == 1 {
		return nil
	}

	if _, err := r.findOne(ctx, bson.M{"_id": id}); err != nil {
		return err
	}
	return domain.ErrPlotAlreadySold
}

// EnsureIndexes creates the unique plot number index. Plot numbers are stored
// normalized (uppercased, trimmed), making the constraint case-insensitive.
func (r *LandRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "plot_number", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
