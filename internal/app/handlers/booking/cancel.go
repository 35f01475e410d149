package booking

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/middleware"
	"fleetrent/internal/app/outbox"
	"fleetrent/internal/app/uow"
	domainagent "fleetrent/internal/domain/agent"
)

const cancelBookingKey = "booking.cancel"

// Assignment sync outcomes reported alongside a successful booking write.
// The agent assignment mirror is updated after the booking; when that
// second write fails the booking change still stands and the caller is
// told the mirror is stale.
const (
	SyncOK     = "success"
	SyncFailed = "failed"
)

type CancelBookingCommand struct {
	BookingNumber   string
	Reason          string
	IdempotencyKeyV string
}

func (c CancelBookingCommand) Key() string { return cancelBookingKey }

func (c CancelBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CancelBookingCommand) ResultPrototype() any { return &CancelBookingResult{} }

type CancelBookingResult struct {
	BookingNumber  string `json:"booking_number"`
	ChargePercent  int    `json:"cancellation_rate"`
	Charge         int64  `json:"cancellation_charge"`
	Refund         int64  `json:"amount_returned"`
	Currency       string `json:"currency"`
	AssignmentSync string `json:"assignment_sync"`
}

type CancelBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Logger     *slog.Logger
	Now        func() time.Time
}

func (h *CancelBookingHandler) Handle(ctx context.Context, cmd CancelBookingCommand) (*CancelBookingResult, error) {
	unit, ok := uow.FromContext(ctx)
	managed := false
	committed := false
	if !ok {
		if h.UoWFactory == nil {
			return nil, ErrUnitOfWorkRequired
		}
		var err error
		unit, err = h.UoWFactory.Begin(ctx, uow.TxOptions{})
		if err != nil {
			return nil, err
		}
		if injector, ok := unit.(interface {
			InjectContext(context.Context) context.Context
		}); ok {
			ctx = injector.InjectContext(ctx)
		}
		ctx = uow.ContextWithUnitOfWork(ctx, unit)
		managed = true
	}
	if managed {
		defer func() {
			if !committed {
				_ = unit.Rollback(ctx)
			}
		}()
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}

	booking, err := unit.Bookings().ByNumber(ctx, cmd.BookingNumber)
	if err != nil {
		return nil, err
	}
	company, err := unit.Companies().ByID(ctx, booking.CompanyID)
	if err != nil {
		return nil, err
	}

	quote, err := booking.Cancel(cmd.Reason, now, company.CancellationTiers)
	if err != nil {
		return nil, err
	}
	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}

	pending := booking.PendingEvents()
	booking.ClearEvents()
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.encoder(), pending); err != nil {
		return nil, err
	}

	// Mirror write, after the booking. Its failure does not undo the
	// cancellation, and a booking that never had an agent assigned has
	// nothing to mirror.
	sync := SyncOK
	if err := unit.Assignments().SyncTripStatus(ctx, booking.Number, booking.TripStatus); err != nil &&
		!errors.Is(err, domainagent.ErrAssignmentNotFound) {
		sync = SyncFailed
		if h.Logger != nil {
			h.Logger.Warn("assignment status sync failed", "booking_number", booking.Number, "error", err)
		}
	}

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &CancelBookingResult{
		BookingNumber:  booking.Number,
		ChargePercent:  quote.ChargePercent,
		Charge:         quote.Charge.Amount,
		Refund:         quote.Refund.Amount,
		Currency:       quote.Refund.Currency,
		AssignmentSync: sync,
	}, nil
}

func (h *CancelBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CancelBookingCommand, *CancelBookingResult] = (*CancelBookingHandler)(nil)
var _ middleware.IdempotentCommand = CancelBookingCommand{}
