package booking

import (
	"context"
	"fmt"
	"time"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/outbox"
	"fleetrent/internal/app/uow"
	domainavailability "fleetrent/internal/domain/availability"
)

const extendBookingKey = "booking.extend"

type ExtendBookingCommand struct {
	BookingNumber string
	ExtraDays     int
}

func (c ExtendBookingCommand) Key() string { return extendBookingKey }

type ExtendBookingResult struct {
	BookingNumber string    `json:"booking_number"`
	DropDate      time.Time `json:"drop_date"`
	TotalAmount   int64     `json:"total_amount"`
	Currency      string    `json:"currency"`
}

type ExtendBookingHandler struct {
	UoWFactory uow.UoWFactory
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *ExtendBookingHandler) Handle(ctx context.Context, cmd ExtendBookingCommand) (*ExtendBookingResult, error) {
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
	car, err := unit.Cars().ByID(ctx, booking.CarID)
	if err != nil {
		return nil, err
	}
	ledger, err := unit.Bookings().ActiveByCar(ctx, booking.CarID)
	if err != nil {
		return nil, err
	}

	// The extension window is checked against everyone else's bookings;
	// the booking being extended is excluded from its own ledger.
	resolver := domainavailability.Resolver{Policy: domainavailability.Policy{
		ExcludeNumbers: []string{booking.Number},
	}}
	decision, err := resolver.Check(car, ledger, booking.Range.To, cmd.ExtraDays)
	if err != nil {
		return nil, err
	}
	if !decision.Available {
		return nil, fmt.Errorf("%w: %s", ErrCarUnavailable, decision.Reason)
	}

	if err := booking.Extend(cmd.ExtraDays, now); err != nil {
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

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &ExtendBookingResult{
		BookingNumber: booking.Number,
		DropDate:      booking.Range.To,
		TotalAmount:   booking.TotalAmount.Amount,
		Currency:      booking.TotalAmount.Currency,
	}, nil
}

func (h *ExtendBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[ExtendBookingCommand, *ExtendBookingResult] = (*ExtendBookingHandler)(nil)
