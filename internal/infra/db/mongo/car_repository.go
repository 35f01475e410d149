package mongo

import (
	"context"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincar "fleetrent/internal/domain/car"
)

type CarRepository struct {
	col *mongo.Collection
}

func NewCarRepository(db *mongo.Database) *CarRepository {
	col := db.Collection("agg_car")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "company_id", Value: 1}},
	})
	return &CarRepository{col: col}
}

func (r *CarRepository) ByID(ctx context.Context, id domaincar.ID) (*domaincar.Car, error) {
	var doc carDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domaincar.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *CarRepository) Save(ctx context.Context, c *domaincar.Car) error {
	doc := newCarDocument(c)
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

func (r *CarRepository) List(ctx context.Context, params domaincar.ListParams) ([]*domaincar.Car, int, error) {
	filter := bson.M{"deleted": false}
	if params.CompanyID != "" {
		filter["company_id"] = params.CompanyID
	}
	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
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
	var out []*domaincar.Car
	for cursor.Next(ctx) {
		var doc carDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, int(total), cursor.Err()
}

type carDocument struct {
	ID             string             `bson:"_id"`
	CompanyID      string             `bson:"company_id"`
	Brand          string             `bson:"brand"`
	Model          string             `bson:"model"`
	Class          string             `bson:"class"`
	Transmission   string             `bson:"transmission"`
	LicencePlate   string             `bson:"licence_plate"`
	Color          string             `bson:"color"`
	Seats          int                `bson:"seats"`
	MileageLimitKM int                `bson:"mileage_limit_km"`
	RentPerDay     moneyDocument      `bson:"rent_per_day"`
	Calendar       map[string][]int64 `bson:"calendar"`
	Rating         float64            `bson:"rating"`
	Deleted        bool               `bson:"deleted"`
	CreatedAt      int64              `bson:"created_at"`
	UpdatedAt      int64              `bson:"updated_at"`
	Version        int64              `bson:"version"`
}

func newCarDocument(c *domaincar.Car) carDocument {
	calendar := make(map[string][]int64, len(c.Calendar.Months))
	for month, days := range c.Calendar.Months {
		stamps := make([]int64, 0, len(days))
		for _, day := range days {
			stamps = append(stamps, day.UnixMilli())
		}
		calendar[strconv.Itoa(int(month))] = stamps
	}
	return carDocument{
		ID:             string(c.ID),
		CompanyID:      string(c.CompanyID),
		Brand:          c.Brand,
		Model:          c.Model,
		Class:          c.Class,
		Transmission:   string(c.Transmission),
		LicencePlate:   c.LicencePlate,
		Color:          c.Color,
		Seats:          c.Seats,
		MileageLimitKM: c.MileageLimitKM,
		RentPerDay:     newMoneyDocument(c.RentPerDay),
		Calendar:       calendar,
		Rating:         c.Rating,
		Deleted:        c.Deleted,
		CreatedAt:      c.CreatedAt.UnixMilli(),
		UpdatedAt:      c.UpdatedAt.UnixMilli(),
		Version:        c.Version,
	}
}

func (d carDocument) toAggregate() *domaincar.Car {
	calendar := domaincar.NewCalendar()
	for key, stamps := range d.Calendar {
		monthNum, err := strconv.Atoi(key)
		if err != nil || monthNum < 1 || monthNum > 12 {
			continue
		}
		days := make([]time.Time, 0, len(stamps))
		for _, ms := range stamps {
			days = append(days, timestampToTime(ms))
		}
		calendar.Months[time.Month(monthNum)] = days
	}
	return &domaincar.Car{
		ID:             domaincar.ID(d.ID),
		CompanyID:      domaincar.CompanyID(d.CompanyID),
		Brand:          d.Brand,
		Model:          d.Model,
		Class:          d.Class,
		Transmission:   domaincar.Transmission(d.Transmission),
		LicencePlate:   d.LicencePlate,
		Color:          d.Color,
		Seats:          d.Seats,
		MileageLimitKM: d.MileageLimitKM,
		RentPerDay:     d.RentPerDay.toMoney(),
		Calendar:       calendar,
		Rating:         d.Rating,
		Deleted:        d.Deleted,
		CreatedAt:      timestampToTime(d.CreatedAt),
		UpdatedAt:      timestampToTime(d.UpdatedAt),
		Version:        d.Version,
	}
}
