package reviews

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/uow"
	domainreview "fleetrent/internal/domain/review"
)

const updateReviewKey = "reviews.update"

var ErrReviewOwnership = errors.New("reviews: review does not belong to current user")

type UpdateReviewCommand struct {
	ReviewID   string
	CustomerID string
	Stars      int
	Text       string
}

func (c UpdateReviewCommand) Key() string { return updateReviewKey }

type UpdateReviewHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
	Now        func() time.Time
}

func (h *UpdateReviewHandler) Handle(ctx context.Context, cmd UpdateReviewCommand) (dto.Review, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Review{}, err
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}

	review, err := unit.Reviews().ByID(execCtx, domainreview.ID(cmd.ReviewID))
	if err != nil {
		return dto.Review{}, finish(err)
	}
	if review.CustomerID != cmd.CustomerID {
		return dto.Review{}, finish(ErrReviewOwnership)
	}
	if err := review.Update(cmd.Stars, cmd.Text, now); err != nil {
		return dto.Review{}, finish(err)
	}
	if err := unit.Reviews().Save(execCtx, review); err != nil {
		return dto.Review{}, finish(err)
	}
	if err := recalculateCarRating(execCtx, unit, review.CarID, now); err != nil {
		return dto.Review{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.Review{}, err
	}

	if h.Logger != nil {
		h.Logger.Info("car review updated", "review_id", cmd.ReviewID, "car_id", review.CarID, "stars", cmd.Stars)
	}
	return dto.MapReview(review), nil
}

var _ commands.Handler[UpdateReviewCommand, dto.Review] = (*UpdateReviewHandler)(nil)
