package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
	domainrange "fleetrent/internal/domain/shared/daterange"
	"fleetrent/internal/domain/shared/money"
)

var ErrConcurrentUpdate = errors.New("mongo: concurrent update detected")

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	col := db.Collection("agg_booking")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "car_id", Value: 1}, {Key: "range.from", Value: 1}},
	})
	return &BookingRepository{col: col}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) ByNumber(ctx context.Context, number string) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"number": number}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainbooking.ErrNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
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
	b.Version = doc.Version
	return nil
}

func (r *BookingRepository) ActiveByCar(ctx context.Context, id domaincar.ID) ([]*domainbooking.Booking, error) {
	filter := bson.M{"car_id": id, "deleted": false}
	opts := options.Find().SetSort(bson.D{{Key: "range.from", Value: 1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

func (r *BookingRepository) List(ctx context.Context, params domainbooking.ListParams) ([]*domainbooking.Booking, error) {
	filter := bson.M{"deleted": false}
	if params.CustomerID != "" {
		filter["customer_id"] = params.CustomerID
	}
	if params.CompanyID != "" {
		filter["company_id"] = params.CompanyID
	}
	if params.CarID != "" {
		filter["car_id"] = params.CarID
	}
	if len(params.Statuses) > 0 {
		filter["trip_status"] = bson.M{"$in": params.Statuses}
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
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainbooking.Booking
	for cursor.Next(ctx) {
		var doc bookingDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAggregate())
	}
	return out, cursor.Err()
}

type moneyDocument struct {
	Amount   int64  `bson:"amount"`
	Currency string `bson:"currency"`
}

func newMoneyDocument(m money.Money) moneyDocument {
	return moneyDocument{Amount: m.Amount, Currency: m.Currency}
}

func (d moneyDocument) toMoney() money.Money {
	return money.Money{Amount: d.Amount, Currency: d.Currency}
}

type rangeDocument struct {
	From int64 `bson:"from"`
	To   int64 `bson:"to"`
}

type bookingDocument struct {
	ID                 string        `bson:"_id"`
	Number             string        `bson:"number"`
	CarID              string        `bson:"car_id"`
	CompanyID          string        `bson:"company_id"`
	CustomerID         string        `bson:"customer_id"`
	Range              rangeDocument `bson:"range"`
	Days               int           `bson:"days"`
	TripStatus         string        `bson:"trip_status"`
	RentPerDay         moneyDocument `bson:"rent_per_day"`
	TotalAmount        moneyDocument `bson:"total_amount"`
	CouponCode         string        `bson:"coupon_code"`
	CancellationRate   int           `bson:"cancellation_rate"`
	CancellationCharge moneyDocument `bson:"cancellation_charge"`
	AmountReturned     moneyDocument `bson:"amount_returned"`
	CancelReason       string        `bson:"cancel_reason"`
	CancelledAt        int64         `bson:"cancelled_at"`
	Deleted            bool          `bson:"deleted"`
	CreatedAt          int64         `bson:"created_at"`
	UpdatedAt          int64         `bson:"updated_at"`
	Version            int64         `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	doc := bookingDocument{
		ID:                 string(b.ID),
		Number:             b.Number,
		CarID:              string(b.CarID),
		CompanyID:          string(b.CompanyID),
		CustomerID:         b.CustomerID,
		Range:              rangeDocument{From: b.Range.From.UnixMilli(), To: b.Range.To.UnixMilli()},
		Days:               b.Days,
		TripStatus:         string(b.TripStatus),
		RentPerDay:         newMoneyDocument(b.RentPerDay),
		TotalAmount:        newMoneyDocument(b.TotalAmount),
		CouponCode:         b.CouponCode,
		CancellationRate:   b.CancellationRate,
		CancellationCharge: newMoneyDocument(b.CancellationCharge),
		AmountReturned:     newMoneyDocument(b.AmountReturned),
		CancelReason:       b.CancelReason,
		Deleted:            b.Deleted,
		CreatedAt:          b.CreatedAt.UnixMilli(),
		UpdatedAt:          b.UpdatedAt.UnixMilli(),
		Version:            b.Version,
	}
	if !b.CancelledAt.IsZero() {
		doc.CancelledAt = b.CancelledAt.UnixMilli()
	}
	return doc
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	agg := &domainbooking.Booking{
		ID:                 domainbooking.ID(d.ID),
		Number:             d.Number,
		CarID:              domaincar.ID(d.CarID),
		CompanyID:          domaincar.CompanyID(d.CompanyID),
		CustomerID:         d.CustomerID,
		Range:              domainrange.DateRange{From: timestampToTime(d.Range.From), To: timestampToTime(d.Range.To)},
		Days:               d.Days,
		TripStatus:         domainbooking.TripStatus(d.TripStatus),
		RentPerDay:         d.RentPerDay.toMoney(),
		TotalAmount:        d.TotalAmount.toMoney(),
		CouponCode:         d.CouponCode,
		CancellationRate:   d.CancellationRate,
		CancellationCharge: d.CancellationCharge.toMoney(),
		AmountReturned:     d.AmountReturned.toMoney(),
		CancelReason:       d.CancelReason,
		Deleted:            d.Deleted,
		CreatedAt:          timestampToTime(d.CreatedAt),
		UpdatedAt:          timestampToTime(d.UpdatedAt),
		Version:            d.Version,
	}
	if d.CancelledAt != 0 {
		agg.CancelledAt = timestampToTime(d.CancelledAt)
	}
	return agg
}

func timestampToTime(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
