package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincar "fleetrent/internal/domain/car"
	domainreview "fleetrent/internal/domain/review"
)

type ReviewRepository struct {
	col *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) *ReviewRepository {
	col := db.Collection("agg_car_review")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "car_id", Value: 1}, {Key: "customer_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &ReviewRepository{col: col}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreview.ID) (*domainreview.Review, error) {
	var doc reviewDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainreview.ErrNotFound
		}
		return nil, err
	}
	return doc.toReview(), nil
}

func (r *ReviewRepository) ByCarAndCustomer(ctx context.Context, carID domaincar.ID, customerID string) (*domainreview.Review, error) {
	var doc reviewDocument
	filter := bson.M{"car_id": string(carID), "customer_id": customerID}
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainreview.ErrNotFound
		}
		return nil, err
	}
	return doc.toReview(), nil
}

func (r *ReviewRepository) ListByCar(ctx context.Context, carID domaincar.ID) ([]*domainreview.Review, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"car_id": string(carID)}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainreview.Review
	for cursor.Next(ctx) {
		var doc reviewDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toReview())
	}
	return out, cursor.Err()
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreview.Review) error {
	doc := newReviewDocument(review)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

type reviewDocument struct {
	ID         string `bson:"_id"`
	CarID      string `bson:"car_id"`
	CustomerID string `bson:"customer_id"`
	Username   string `bson:"username"`
	Stars      int    `bson:"stars"`
	Text       string `bson:"review_text"`
	CreatedAt  int64  `bson:"created_at"`
	UpdatedAt  int64  `bson:"updated_at"`
}

func newReviewDocument(review *domainreview.Review) reviewDocument {
	return reviewDocument{
		ID:         string(review.ID),
		CarID:      string(review.CarID),
		CustomerID: review.CustomerID,
		Username:   review.Username,
		Stars:      review.Stars,
		Text:       review.Text,
		CreatedAt:  review.CreatedAt.UnixMilli(),
		UpdatedAt:  review.UpdatedAt.UnixMilli(),
	}
}

func (d reviewDocument) toReview() *domainreview.Review {
	return &domainreview.Review{
		ID:         domainreview.ID(d.ID),
		CarID:      domaincar.ID(d.CarID),
		CustomerID: d.CustomerID,
		Username:   d.Username,
		Stars:      d.Stars,
		Text:       d.Text,
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
	}
}
