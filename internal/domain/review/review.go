package review

import (
	"context"
	"errors"
	"strings"
	"time"

	"fleetrent/internal/domain/car"
	"fleetrent/internal/domain/shared/events"
)

var (
	ErrNotFound         = errors.New("review: not found")
	ErrCarRequired      = errors.New("review: car id is required")
	ErrCustomerRequired = errors.New("review: customer id is required")
	ErrInvalidStars     = errors.New("review: stars must be between 1 and 5")
	ErrAlreadyReviewed  = errors.New("review: car already reviewed by this customer")
)

type ID string

// Review is one customer's rating of a car. A customer leaves at most
// one review per car; later edits go through Update.
type Review struct {
	ID         ID
	CarID      car.ID
	CustomerID string
	Username   string
	Stars      int
	Text       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Review, error)
	// ByCarAndCustomer reports ErrNotFound when the customer has not
	// reviewed the car yet.
	ByCarAndCustomer(ctx context.Context, carID car.ID, customerID string) (*Review, error)
	ListByCar(ctx context.Context, carID car.ID) ([]*Review, error)
	Save(ctx context.Context, review *Review) error
}

type SubmitParams struct {
	ID         ID
	CarID      car.ID
	CustomerID string
	Username   string
	Stars      int
	Text       string
	CreatedAt  time.Time
}

func Submit(params SubmitParams) (*Review, error) {
	if strings.TrimSpace(string(params.CarID)) == "" {
		return nil, ErrCarRequired
	}
	if strings.TrimSpace(params.CustomerID) == "" {
		return nil, ErrCustomerRequired
	}
	if params.Stars < 1 || params.Stars > 5 {
		return nil, ErrInvalidStars
	}
	now := params.CreatedAt.UTC()
	review := &Review{
		ID:         params.ID,
		CarID:      params.CarID,
		CustomerID: params.CustomerID,
		Username:   strings.TrimSpace(params.Username),
		Stars:      params.Stars,
		Text:       strings.TrimSpace(params.Text),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	review.Record(Submitted{
		ReviewID:   review.ID,
		CarID:      review.CarID,
		CustomerID: review.CustomerID,
		Stars:      review.Stars,
		At:         now,
	})
	return review, nil
}

func (r *Review) Update(stars int, text string, now time.Time) error {
	if stars < 1 || stars > 5 {
		return ErrInvalidStars
	}
	r.Stars = stars
	r.Text = strings.TrimSpace(text)
	r.UpdatedAt = now.UTC()
	r.Record(Updated{ReviewID: r.ID, CarID: r.CarID, Stars: r.Stars, At: r.UpdatedAt})
	return nil
}

// AverageStars is the arithmetic mean over the given reviews, 0 when
// there are none.
func AverageStars(reviews []*Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	total := 0
	for _, review := range reviews {
		total += review.Stars
	}
	return float64(total) / float64(len(reviews))
}
