package report

import (
	"context"
	"errors"
	"strings"
	"time"

	"fleetrent/internal/domain/car"
)

var (
	ErrNotFound         = errors.New("report: not found")
	ErrCarRequired      = errors.New("report: car id is required")
	ErrReporterRequired = errors.New("report: reporter id is required")
	ErrTypeRequired     = errors.New("report: report type is required")
	ErrAlreadyPending   = errors.New("report: same issue already reported and pending")
	ErrAlreadyResolved  = errors.New("report: same issue already reported and resolved")
)

type ID string

type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
)

// Report is a customer-filed issue against a car, kept until company
// staff resolves it. One open report per customer, car and issue type.
type Report struct {
	ID         ID
	CarID      car.ID
	ReporterID string
	Type       string
	Text       string
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Report, error)
	// ByCarReporterAndType reports ErrNotFound when the reporter has no
	// report of that type against the car.
	ByCarReporterAndType(ctx context.Context, carID car.ID, reporterID, reportType string) (*Report, error)
	ListByReporter(ctx context.Context, reporterID string) ([]*Report, error)
	Save(ctx context.Context, report *Report) error
}

type FileParams struct {
	ID         ID
	CarID      car.ID
	ReporterID string
	Type       string
	Text       string
	CreatedAt  time.Time
}

func File(params FileParams) (*Report, error) {
	if strings.TrimSpace(string(params.CarID)) == "" {
		return nil, ErrCarRequired
	}
	if strings.TrimSpace(params.ReporterID) == "" {
		return nil, ErrReporterRequired
	}
	reportType := NormalizeType(params.Type)
	if reportType == "" {
		return nil, ErrTypeRequired
	}
	now := params.CreatedAt.UTC()
	return &Report{
		ID:         params.ID,
		CarID:      params.CarID,
		ReporterID: params.ReporterID,
		Type:       reportType,
		Text:       strings.TrimSpace(params.Text),
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// NormalizeType lowercases and trims a user-entered issue type so the
// one-open-report rule matches regardless of casing.
func NormalizeType(reportType string) string {
	return strings.ToLower(strings.TrimSpace(reportType))
}

func (r *Report) Resolve(now time.Time) error {
	if r.Status == StatusResolved {
		return ErrAlreadyResolved
	}
	r.Status = StatusResolved
	r.UpdatedAt = now.UTC()
	return nil
}
