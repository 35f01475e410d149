package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaincar "fleetrent/internal/domain/car"
	domainreport "fleetrent/internal/domain/report"
)

type ReportRepository struct {
	col *mongo.Collection
}

func NewReportRepository(db *mongo.Database) *ReportRepository {
	col := db.Collection("agg_car_report")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys: bson.D{
			{Key: "car_id", Value: 1},
			{Key: "reporter_id", Value: 1},
			{Key: "report_type", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	return &ReportRepository{col: col}
}

func (r *ReportRepository) ByID(ctx context.Context, id domainreport.ID) (*domainreport.Report, error) {
	var doc reportDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainreport.ErrNotFound
		}
		return nil, err
	}
	return doc.toReport(), nil
}

func (r *ReportRepository) ByCarReporterAndType(ctx context.Context, carID domaincar.ID, reporterID, reportType string) (*domainreport.Report, error) {
	var doc reportDocument
	filter := bson.M{
		"car_id":      string(carID),
		"reporter_id": reporterID,
		"report_type": domainreport.NormalizeType(reportType),
	}
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domainreport.ErrNotFound
		}
		return nil, err
	}
	return doc.toReport(), nil
}

func (r *ReportRepository) ListByReporter(ctx context.Context, reporterID string) ([]*domainreport.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.col.Find(ctx, bson.M{"reporter_id": reporterID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var out []*domainreport.Report
	for cursor.Next(ctx) {
		var doc reportDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toReport())
	}
	return out, cursor.Err()
}

func (r *ReportRepository) Save(ctx context.Context, report *domainreport.Report) error {
	doc := newReportDocument(report)
	filter := bson.M{"_id": doc.ID}
	update := bson.M{"$set": doc}
	_, err := r.col.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

type reportDocument struct {
	ID         string `bson:"_id"`
	CarID      string `bson:"car_id"`
	ReporterID string `bson:"reporter_id"`
	Type       string `bson:"report_type"`
	Text       string `bson:"report_text"`
	Status     string `bson:"status"`
	CreatedAt  int64  `bson:"created_at"`
	UpdatedAt  int64  `bson:"updated_at"`
}

func newReportDocument(report *domainreport.Report) reportDocument {
	return reportDocument{
		ID:         string(report.ID),
		CarID:      string(report.CarID),
		ReporterID: report.ReporterID,
		Type:       report.Type,
		Text:       report.Text,
		Status:     string(report.Status),
		CreatedAt:  report.CreatedAt.UnixMilli(),
		UpdatedAt:  report.UpdatedAt.UnixMilli(),
	}
}

func (d reportDocument) toReport() *domainreport.Report {
	return &domainreport.Report{
		ID:         domainreport.ID(d.ID),
		CarID:      domaincar.ID(d.CarID),
		ReporterID: d.ReporterID,
		Type:       d.Type,
		Text:       d.Text,
		Status:     domainreport.Status(d.Status),
		CreatedAt:  timestampToTime(d.CreatedAt),
		UpdatedAt:  timestampToTime(d.UpdatedAt),
	}
}
