package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/middleware"
	"fleetrent/internal/app/outbox"
	"fleetrent/internal/app/uow"
	domainavailability "fleetrent/internal/domain/availability"
	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
	domaincoupon "fleetrent/internal/domain/coupon"
	domainrange "fleetrent/internal/domain/shared/daterange"
)

const createBookingKey = "booking.create"

var (
	ErrUnitOfWorkRequired = errors.New("booking: unit of work required")
	ErrCarUnavailable     = errors.New("booking: car is not available for the requested days")
)

type CreateBookingCommand struct {
	CommandID       string
	CarID           string
	CustomerID      string
	PickupDate      time.Time
	Days            int
	CouponCode      string
	IdempotencyKeyV string
}

func (c CreateBookingCommand) Key() string { return createBookingKey }

func (c CreateBookingCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (c CreateBookingCommand) ResultPrototype() any { return &CreateBookingResult{} }

type CreateBookingResult struct {
	BookingNumber string `json:"booking_number"`
	TotalAmount   int64  `json:"total_amount"`
	Currency      string `json:"currency"`
}

type CreateBookingHandler struct {
	UoWFactory uow.UoWFactory
	Resolver   domainavailability.Resolver
	Outbox     outbox.Outbox
	Encoder    outbox.EventEncoder
	Now        func() time.Time
}

func (h *CreateBookingHandler) Handle(ctx context.Context, cmd CreateBookingCommand) (*CreateBookingResult, error) {
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

	car, err := unit.Cars().ByID(ctx, domaincar.ID(cmd.CarID))
	if err != nil {
		return nil, err
	}
	ledger, err := unit.Bookings().ActiveByCar(ctx, car.ID)
	if err != nil {
		return nil, err
	}
	decision, err := h.Resolver.Check(car, ledger, cmd.PickupDate, cmd.Days)
	if err != nil {
		return nil, err
	}
	if !decision.Available {
		return nil, fmt.Errorf("%w: %s", ErrCarUnavailable, decision.Reason)
	}

	total := car.RentPerDay.Multiply(int64(cmd.Days))
	couponCode := ""
	if cmd.CouponCode != "" {
		coupon, err := unit.Coupons().ByCode(ctx, domaincoupon.NormalizeCode(cmd.CouponCode))
		if err != nil {
			return nil, err
		}
		rate, err := coupon.Redeem()
		if err != nil {
			return nil, err
		}
		discounted, err := total.Sub(total.Percent(rate))
		if err != nil {
			return nil, err
		}
		total = discounted
		couponCode = coupon.Code
	}

	requested, err := domainrange.FromDays(cmd.PickupDate, cmd.Days)
	if err != nil {
		return nil, err
	}
	booking, err := domainbooking.New(domainbooking.CreateParams{
		ID:          domainbooking.ID(cmd.CommandID),
		Number:      domainbooking.NewNumber(now),
		CarID:       car.ID,
		CompanyID:   car.CompanyID,
		CustomerID:  cmd.CustomerID,
		Range:       requested,
		RentPerDay:  car.RentPerDay,
		TotalAmount: total,
		CouponCode:  couponCode,
		CreatedAt:   now,
	})
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

	if managed {
		if err := unit.Commit(ctx); err != nil {
			return nil, err
		}
		committed = true
	}

	return &CreateBookingResult{
		BookingNumber: booking.Number,
		TotalAmount:   booking.TotalAmount.Amount,
		Currency:      booking.TotalAmount.Currency,
	}, nil
}

func (h *CreateBookingHandler) encoder() outbox.EventEncoder {
	if h.Encoder != nil {
		return h.Encoder
	}
	return outbox.JSONEventEncoder{}
}

var _ commands.Handler[CreateBookingCommand, *CreateBookingResult] = (*CreateBookingHandler)(nil)
var _ middleware.IdempotentCommand = CreateBookingCommand{}
