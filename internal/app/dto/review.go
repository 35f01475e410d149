package dto

import (
	"time"

	domainreport "fleetrent/internal/domain/report"
	domainreview "fleetrent/internal/domain/review"
)

type Review struct {
	ID         string    `json:"id"`
	CarID      string    `json:"car_id"`
	CustomerID string    `json:"customer_id"`
	Username   string    `json:"username"`
	Stars      int       `json:"stars"`
	Text       string    `json:"review_text,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReviewCollection lists a car's reviews. Reviewed is set when the
// asking customer has a review in the list.
type ReviewCollection struct {
	Items    []Review `json:"items"`
	Total    int      `json:"total"`
	Reviewed bool     `json:"is_reviewed"`
}

func MapReview(review *domainreview.Review) Review {
	return Review{
		ID:         string(review.ID),
		CarID:      string(review.CarID),
		CustomerID: review.CustomerID,
		Username:   review.Username,
		Stars:      review.Stars,
		Text:       review.Text,
		CreatedAt:  review.CreatedAt,
		UpdatedAt:  review.UpdatedAt,
	}
}

type Report struct {
	ID         string    `json:"id"`
	CarID      string    `json:"car_id"`
	ReporterID string    `json:"reporter_id"`
	Type       string    `json:"report_type"`
	Text       string    `json:"report_text,omitempty"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type ReportCollection struct {
	Items []Report `json:"items"`
	Total int      `json:"total"`
}

func MapReport(report *domainreport.Report) Report {
	return Report{
		ID:         string(report.ID),
		CarID:      string(report.CarID),
		ReporterID: report.ReporterID,
		Type:       report.Type,
		Text:       report.Text,
		Status:     string(report.Status),
		CreatedAt:  report.CreatedAt,
		UpdatedAt:  report.UpdatedAt,
	}
}
