package reviews

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/uow"
	domaincar "fleetrent/internal/domain/car"
	domainreview "fleetrent/internal/domain/review"
)

const submitReviewKey = "reviews.submit"

type SubmitReviewCommand struct {
	CarID      string
	CustomerID string
	Username   string
	Stars      int
	Text       string
}

func (c SubmitReviewCommand) Key() string { return submitReviewKey }

// SubmitReviewHandler stores a first-time review and refreshes the
// car's rating mirror.
type SubmitReviewHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
	Now        func() time.Time
}

func (h *SubmitReviewHandler) Handle(ctx context.Context, cmd SubmitReviewCommand) (dto.Review, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Review{}, err
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}

	carID := domaincar.ID(cmd.CarID)
	if _, err := unit.Cars().ByID(execCtx, carID); err != nil {
		return dto.Review{}, finish(err)
	}

	if _, err := unit.Reviews().ByCarAndCustomer(execCtx, carID, cmd.CustomerID); err == nil {
		return dto.Review{}, finish(domainreview.ErrAlreadyReviewed)
	} else if !errors.Is(err, domainreview.ErrNotFound) {
		return dto.Review{}, finish(err)
	}

	review, err := domainreview.Submit(domainreview.SubmitParams{
		ID:         domainreview.ID(uuid.NewString()),
		CarID:      carID,
		CustomerID: cmd.CustomerID,
		Username:   cmd.Username,
		Stars:      cmd.Stars,
		Text:       cmd.Text,
		CreatedAt:  now,
	})
	if err != nil {
		return dto.Review{}, finish(err)
	}
	if err := unit.Reviews().Save(execCtx, review); err != nil {
		return dto.Review{}, finish(err)
	}
	if err := recalculateCarRating(execCtx, unit, carID, now); err != nil {
		return dto.Review{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.Review{}, err
	}

	if h.Logger != nil {
		h.Logger.Info("car review submitted", "car_id", cmd.CarID, "customer_id", cmd.CustomerID, "stars", cmd.Stars)
	}
	return dto.MapReview(review), nil
}

var _ commands.Handler[SubmitReviewCommand, dto.Review] = (*SubmitReviewHandler)(nil)
