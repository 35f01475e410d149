package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincar "fleetrent/internal/domain/car"
	domaincoupon "fleetrent/internal/domain/coupon"
)

type CouponRepository struct {
	col *mongo.Collection
}

func NewCouponRepository(db *mongo.Database) *CouponRepository {
	col := db.Collection("agg_coupon")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "code", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &CouponRepository{col: col}
}

func (r *CouponRepository) ByID(ctx context.Context, id string) (*domaincoupon.Coupon, error) {
	var doc couponDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domaincoupon.ErrNotFound
		}
		return nil, err
	}
	return doc.toCoupon(), nil
}

func (r *CouponRepository) ByCode(ctx context.Context, code string) (*domaincoupon.Coupon, error) {
	var doc couponDocument
	filter := bson.M{"code": domaincoupon.NormalizeCode(code)}
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domaincoupon.ErrNotFound
		}
		return nil, err
	}
	return doc.toCoupon(), nil
}

func (r *CouponRepository) Save(ctx context.Context, c *domaincoupon.Coupon) error {
	doc := newCouponDocument(c)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *CouponRepository) List(ctx context.Context, companyID domaincar.CompanyID) ([]*domaincoupon.Coupon, error) {
	filter := bson.M{"deleted": false}
	if companyID != "" {
		filter["company_id"] = string(companyID)
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domaincoupon.Coupon
	for cursor.Next(ctx) {
		var doc couponDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toCoupon())
	}
	return out, cursor.Err()
}

type couponDocument struct {
	ID           string `bson:"_id"`
	Code         string `bson:"code"`
	CompanyID    string `bson:"company_id"`
	DiscountRate int    `bson:"discount_rate"`
	Description  string `bson:"description"`
	Banner       string `bson:"banner"`
	Display      bool   `bson:"display"`
	Deleted      bool   `bson:"deleted"`
	CreatedAt    int64  `bson:"created_at"`
	UpdatedAt    int64  `bson:"updated_at"`
}

func newCouponDocument(c *domaincoupon.Coupon) couponDocument {
	return couponDocument{
		ID:           c.ID,
		Code:         c.Code,
		CompanyID:    string(c.CompanyID),
		DiscountRate: c.DiscountRate,
		Description:  c.Description,
		Banner:       c.Banner,
		Display:      c.Display,
		Deleted:      c.Deleted,
		CreatedAt:    c.CreatedAt.UnixMilli(),
		UpdatedAt:    c.UpdatedAt.UnixMilli(),
	}
}

func (d couponDocument) toCoupon() *domaincoupon.Coupon {
	return &domaincoupon.Coupon{
		ID:           d.ID,
		Code:         d.Code,
		CompanyID:    domaincar.CompanyID(d.CompanyID),
		DiscountRate: d.DiscountRate,
		Description:  d.Description,
		Banner:       d.Banner,
		Display:      d.Display,
		Deleted:      d.Deleted,
		CreatedAt:    timestampToTime(d.CreatedAt),
		UpdatedAt:    timestampToTime(d.UpdatedAt),
	}
}
