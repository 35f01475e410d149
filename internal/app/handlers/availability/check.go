package availability

import (
	"context"
	"time"

	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/queries"
	"fleetrent/internal/app/uow"
	domainavailability "fleetrent/internal/domain/availability"
	domaincar "fleetrent/internal/domain/car"
)

const checkAvailabilityKey = "availability.check"

type CheckAvailabilityQuery struct {
	CarID string
	From  time.Time
	Days  int
}

func (q CheckAvailabilityQuery) Key() string { return checkAvailabilityKey }

type CheckAvailabilityHandler struct {
	UoWFactory uow.UoWFactory
	Resolver   domainavailability.Resolver
}

func (h *CheckAvailabilityHandler) Handle(ctx context.Context, q CheckAvailabilityQuery) (dto.AvailabilityDecision, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.AvailabilityDecision{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	car, err := unit.Cars().ByID(execCtx, domaincar.ID(q.CarID))
	if err != nil {
		return dto.AvailabilityDecision{}, err
	}
	ledger, err := unit.Bookings().ActiveByCar(execCtx, car.ID)
	if err != nil {
		return dto.AvailabilityDecision{}, err
	}

	decision, err := h.Resolver.Check(car, ledger, q.From, q.Days)
	if err != nil {
		return dto.AvailabilityDecision{}, err
	}
	return dto.MapAvailabilityDecision(decision), nil
}

var _ queries.Handler[CheckAvailabilityQuery, dto.AvailabilityDecision] = (*CheckAvailabilityHandler)(nil)
