package reviews

import (
	"context"

	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/queries"
	"fleetrent/internal/app/uow"
	domaincar "fleetrent/internal/domain/car"
)

const listCarReviewsKey = "reviews.car.list"

// ListCarReviewsQuery retrieves a car's reviews. When CustomerID is
// set their own review is surfaced first and flagged.
type ListCarReviewsQuery struct {
	CarID      string
	CustomerID string
}

func (q ListCarReviewsQuery) Key() string { return listCarReviewsKey }

type ListCarReviewsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListCarReviewsHandler) Handle(ctx context.Context, q ListCarReviewsQuery) (dto.ReviewCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReviewCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	carID := domaincar.ID(q.CarID)
	if _, err := unit.Cars().ByID(execCtx, carID); err != nil {
		return dto.ReviewCollection{}, err
	}
	all, err := unit.Reviews().ListByCar(execCtx, carID)
	if err != nil {
		return dto.ReviewCollection{}, err
	}

	items := make([]dto.Review, 0, len(all))
	reviewed := false
	for _, review := range all {
		mapped := dto.MapReview(review)
		if q.CustomerID != "" && review.CustomerID == q.CustomerID {
			reviewed = true
			items = append([]dto.Review{mapped}, items...)
			continue
		}
		items = append(items, mapped)
	}

	return dto.ReviewCollection{Items: items, Total: len(items), Reviewed: reviewed}, nil
}

var _ queries.Handler[ListCarReviewsQuery, dto.ReviewCollection] = (*ListCarReviewsHandler)(nil)
