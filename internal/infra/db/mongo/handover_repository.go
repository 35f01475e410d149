package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincar "fleetrent/internal/domain/car"
	domainhandover "fleetrent/internal/domain/handover"
)

type HandoverRepository struct {
	col *mongo.Collection
}

func NewHandoverRepository(db *mongo.Database) *HandoverRepository {
	col := db.Collection("agg_handover")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_number", Value: 1}, {Key: "leg", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &HandoverRepository{col: col}
}

func (r *HandoverRepository) ByBookingAndLeg(ctx context.Context, number string, leg domainhandover.Leg) (*domainhandover.Record, error) {
	var doc handoverDocument
	filter := bson.M{"booking_number": number, "leg": string(leg)}
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainhandover.ErrNotFound
		}
		return nil, err
	}
	return doc.toRecord(), nil
}

// Upsert replaces any prior record for the same booking number and leg.
// The first write's created_at survives re-submission.
func (r *HandoverRepository) Upsert(ctx context.Context, rec *domainhandover.Record) error {
	doc := newHandoverDocument(rec)
	filter := bson.M{"booking_number": doc.BookingNumber, "leg": doc.Leg}
	update := bson.M{
		"$set": bson.M{
			"car_id":       doc.CarID,
			"company_id":   doc.CompanyID,
			"customer_id":  doc.CustomerID,
			"agent_id":     doc.AgentID,
			"defects":      doc.Defects,
			"odometer_km":  doc.OdometerKM,
			"fuel_percent": doc.FuelPercent,
			"notes":        doc.Notes,
			"signature":    doc.Signature,
			"gallery":      doc.Gallery,
			"updated_at":   doc.UpdatedAt,
		},
		"$setOnInsert": bson.M{"created_at": doc.CreatedAt},
	}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (r *HandoverRepository) ListByBooking(ctx context.Context, number string) ([]*domainhandover.Record, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.col.Find(ctx, bson.M{"booking_number": number}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainhandover.Record
	for cursor.Next(ctx) {
		var doc handoverDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toRecord())
	}
	return out, cursor.Err()
}

type defectDocument struct {
	Area        string `bson:"area"`
	Description string `bson:"description"`
}

type imageRefDocument struct {
	Name        string `bson:"name"`
	ContentType string `bson:"content_type"`
}

type handoverDocument struct {
	BookingNumber string             `bson:"booking_number"`
	Leg           string             `bson:"leg"`
	CarID         string             `bson:"car_id"`
	CompanyID     string             `bson:"company_id"`
	CustomerID    string             `bson:"customer_id"`
	AgentID       string             `bson:"agent_id"`
	Defects       []defectDocument   `bson:"defects"`
	OdometerKM    int                `bson:"odometer_km"`
	FuelPercent   int                `bson:"fuel_percent"`
	Notes         string             `bson:"notes"`
	Signature     imageRefDocument   `bson:"signature"`
	Gallery       []imageRefDocument `bson:"gallery"`
	CreatedAt     int64              `bson:"created_at"`
	UpdatedAt     int64              `bson:"updated_at"`
}

func newHandoverDocument(rec *domainhandover.Record) handoverDocument {
	defects := make([]defectDocument, 0, len(rec.Defects))
	for _, d := range rec.Defects {
		defects = append(defects, defectDocument{Area: d.Area, Description: d.Description})
	}
	gallery := make([]imageRefDocument, 0, len(rec.DefectGallery))
	for _, img := range rec.DefectGallery {
		gallery = append(gallery, imageRefDocument{Name: img.Name, ContentType: img.ContentType})
	}
	created := rec.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	return handoverDocument{
		BookingNumber: rec.BookingNumber,
		Leg:           string(rec.Leg),
		CarID:         string(rec.CarID),
		CompanyID:     string(rec.CompanyID),
		CustomerID:    rec.CustomerID,
		AgentID:       rec.AgentID,
		Defects:       defects,
		OdometerKM:    rec.OdometerKM,
		FuelPercent:   rec.FuelPercent,
		Notes:         rec.Notes,
		Signature:     imageRefDocument{Name: rec.Signature.Name, ContentType: rec.Signature.ContentType},
		Gallery:       gallery,
		CreatedAt:     created.UnixMilli(),
		UpdatedAt:     rec.UpdatedAt.UnixMilli(),
	}
}

func (d handoverDocument) toRecord() *domainhandover.Record {
	defects := make([]domainhandover.DefectPoint, 0, len(d.Defects))
	for _, p := range d.Defects {
		defects = append(defects, domainhandover.DefectPoint{Area: p.Area, Description: p.Description})
	}
	gallery := make([]domainhandover.ImageRef, 0, len(d.Gallery))
	for _, img := range d.Gallery {
		gallery = append(gallery, domainhandover.ImageRef{Name: img.Name, ContentType: img.ContentType})
	}
	return &domainhandover.Record{
		BookingNumber: d.BookingNumber,
		Leg:           domainhandover.Leg(d.Leg),
		CarID:         domaincar.ID(d.CarID),
		CompanyID:     domaincar.CompanyID(d.CompanyID),
		CustomerID:    d.CustomerID,
		AgentID:       d.AgentID,
		Defects:       defects,
		OdometerKM:    d.OdometerKM,
		FuelPercent:   d.FuelPercent,
		Notes:         d.Notes,
		Signature:     domainhandover.ImageRef{Name: d.Signature.Name, ContentType: d.Signature.ContentType},
		DefectGallery: gallery,
		CreatedAt:     timestampToTime(d.CreatedAt),
		UpdatedAt:     timestampToTime(d.UpdatedAt),
	}
}
