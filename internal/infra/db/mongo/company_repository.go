package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
	domaincompany "fleetrent/internal/domain/company"
)

type CompanyRepository struct {
	col *mongo.Collection
}

func NewCompanyRepository(db *mongo.Database) *CompanyRepository {
	return &CompanyRepository{col: db.Collection("agg_company")}
}

func (r *CompanyRepository) ByID(ctx context.Context, id domaincar.CompanyID) (*domaincompany.Company, error) {
	var doc companyDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domaincompany.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CompanyRepository) Save(ctx context.Context, c *domaincompany.Company) error {
	doc := newCompanyDocument(c)
	filter := bson.M{"_id": doc.ID, "version": c.Version}
	doc.Version = c.Version + 1
	update := bson.M{"$set": doc}
	opts := options.Update().SetUpsert(true)
	res, err := r.col.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	c.Version = doc.Version
	return nil
}

func (r *CompanyRepository) List(ctx context.Context, params domaincompany.ListParams) ([]*domaincompany.Company, int, error) {
	filter := bson.M{"deleted": false}
	if params.OnlyActive {
		filter["service_active"] = true
	}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if params.Offset > 0 {
		opts = opts.SetSkip(int64(params.Offset))
	}
	if params.Limit > 0 {
		opts = opts.SetLimit(int64(params.Limit))
	}
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)
	var out []*domaincompany.Company
	for cursor.Next(ctx) {
		var doc companyDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, int(total), cursor.Err()
}

type tierDocument struct {
	Hours int `bson:"hours"`
	Rate  int `bson:"rate"`
}

type addressDocument struct {
	Country string `bson:"country"`
	State   string `bson:"state"`
	City    string `bson:"city"`
	Street  string `bson:"street"`
}

type companyDocument struct {
	ID            string          `bson:"_id"`
	Name          string          `bson:"name"`
	Email         string          `bson:"email"`
	Phone         string          `bson:"phone"`
	Address       addressDocument `bson:"address"`
	ServiceActive bool            `bson:"service_active"`
	Tiers         []tierDocument  `bson:"cancellation_tiers"`
	Deleted       bool            `bson:"deleted"`
	CreatedAt     int64           `bson:"created_at"`
	UpdatedAt     int64           `bson:"updated_at"`
	Version       int64           `bson:"version"`
}

func newCompanyDocument(c *domaincompany.Company) companyDocument {
	tiers := make([]tierDocument, 0, len(c.CancellationTiers))
	for _, t := range c.CancellationTiers {
		tiers = append(tiers, tierDocument{Hours: t.Hours, Rate: t.Rate})
	}
	return companyDocument{
		ID:    string(c.ID),
		Name:  c.Name,
		Email: c.Email,
		Phone: c.Phone,
		Address: addressDocument{
			Country: c.Address.Country,
			State:   c.Address.State,
			City:    c.Address.City,
			Street:  c.Address.Street,
		},
		ServiceActive: c.ServiceActive,
		Tiers:         tiers,
		Deleted:       c.Deleted,
		CreatedAt:     c.CreatedAt.UnixMilli(),
		UpdatedAt:     c.UpdatedAt.UnixMilli(),
		Version:       c.Version,
	}
}

func (d companyDocument) toAggregate() *domaincompany.Company {
	tiers := make([]domainbooking.PolicyTier, 0, len(d.Tiers))
	for _, t := range d.Tiers {
		tiers = append(tiers, domainbooking.PolicyTier{Hours: t.Hours, Rate: t.Rate})
	}
	return &domaincompany.Company{
		ID:    domaincar.CompanyID(d.ID),
		Name:  d.Name,
		Email: d.Email,
		Phone: d.Phone,
		Address: domaincompany.Address{
			Country: d.Address.Country,
			State:   d.Address.State,
			City:    d.Address.City,
			Street:  d.Address.Street,
		},
		ServiceActive:     d.ServiceActive,
		CancellationTiers: tiers,
		Deleted:           d.Deleted,
		CreatedAt:         timestampToTime(d.CreatedAt),
		UpdatedAt:         timestampToTime(d.UpdatedAt),
		Version:           d.Version,
	}
}
