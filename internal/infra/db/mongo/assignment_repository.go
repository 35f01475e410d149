package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainagent "fleetrent/internal/domain/agent"
	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
)

type AssignmentRepository struct {
	col *mongo.Collection
}

func NewAssignmentRepository(db *mongo.Database) *AssignmentRepository {
	col := db.Collection("agg_assignment")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_number", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{{Key: "agent_id", Value: 1}},
	})
	return &AssignmentRepository{col: col}
}

func (r *AssignmentRepository) ByBookingNumber(ctx context.Context, number string) (*domainagent.Assignment, error) {
	var doc assignmentDocument
	if err := r.col.FindOne(ctx, bson.M{"booking_number": number}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainagent.ErrAssignmentNotFound
		}
		return nil, err
	}
	return doc.toAssignment(), nil
}

func (r *AssignmentRepository) Save(ctx context.Context, a *domainagent.Assignment) error {
	doc := newAssignmentDocument(a)
	filter := bson.M{"booking_number": doc.BookingNumber}
	update := bson.M{"$set": doc}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *AssignmentRepository) ListByAgent(ctx context.Context, agentID string) ([]*domainagent.Assignment, error) {
	filter := bson.M{"agent_id": agentID, "deleted": false}
	opts := options.Find().SetSort(bson.D{{Key: "assigned_at", Value: -1}})
	cursor, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainagent.Assignment
	for cursor.Next(ctx) {
		var doc assignmentDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toAssignment())
	}
	return out, cursor.Err()
}

// SyncTripStatus mirrors the booking's status onto its assignment. A
// booking without an assignment yields ErrAssignmentNotFound; callers
// decide whether that is a failure.
func (r *AssignmentRepository) SyncTripStatus(ctx context.Context, number string, status domainbooking.TripStatus) error {
	filter := bson.M{"booking_number": number, "deleted": false}
	update := bson.M{"$set": bson.M{
		"trip_status": string(status),
		"updated_at":  time.Now().UTC().UnixMilli(),
	}}
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainagent.ErrAssignmentNotFound
	}
	return nil
}

type assignmentDocument struct {
	ID            string `bson:"_id"`
	BookingNumber string `bson:"booking_number"`
	AgentID       string `bson:"agent_id"`
	CarID         string `bson:"car_id"`
	CompanyID     string `bson:"company_id"`
	TripStatus    string `bson:"trip_status"`
	AssignedAt    int64  `bson:"assigned_at"`
	UpdatedAt     int64  `bson:"updated_at"`
	Deleted       bool   `bson:"deleted"`
}

func newAssignmentDocument(a *domainagent.Assignment) assignmentDocument {
	return assignmentDocument{
		ID:            a.ID,
		BookingNumber: a.BookingNumber,
		AgentID:       a.AgentID,
		CarID:         string(a.CarID),
		CompanyID:     string(a.CompanyID),
		TripStatus:    string(a.TripStatus),
		AssignedAt:    a.AssignedAt.UnixMilli(),
		UpdatedAt:     a.UpdatedAt.UnixMilli(),
		Deleted:       a.Deleted,
	}
}

func (d assignmentDocument) toAssignment() *domainagent.Assignment {
	return &domainagent.Assignment{
		ID:            d.ID,
		BookingNumber: d.BookingNumber,
		AgentID:       d.AgentID,
		CarID:         domaincar.ID(d.CarID),
		CompanyID:     domaincar.CompanyID(d.CompanyID),
		TripStatus:    domainbooking.TripStatus(d.TripStatus),
		AssignedAt:    timestampToTime(d.AssignedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
		Deleted:       d.Deleted,
	}
}
