package booking

import (
	"context"
	"errors"
	"log/slog"

	"fleetrent/internal/app/commands"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/policies"
	"fleetrent/internal/app/uow"
	domainuser "fleetrent/internal/domain/user"
)

const resendInvoiceKey = "booking.invoice.resend"

var ErrNotifierUnavailable = errors.New("booking: notifier unavailable")

type ResendInvoiceCommand struct {
	BookingNumber string
}

func (c ResendInvoiceCommand) Key() string { return resendInvoiceKey }

type ResendInvoiceResult struct {
	BookingNumber string `json:"booking_number"`
	SentTo        string `json:"sent_to"`
}

type ResendInvoiceHandler struct {
	UoWFactory uow.UoWFactory
	Notifier   policies.Notifier
	Logger     *slog.Logger
}

func (h *ResendInvoiceHandler) Handle(ctx context.Context, cmd ResendInvoiceCommand) (*ResendInvoiceResult, error) {
	if h.Notifier == nil {
		return nil, ErrNotifierUnavailable
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	booking, err := unit.Bookings().ByNumber(execCtx, cmd.BookingNumber)
	if err != nil {
		return nil, err
	}
	customer, err := unit.Users().ByID(execCtx, domainuser.ID(booking.CustomerID))
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"booking_number": booking.Number,
		"pickup_date":    booking.Range.From,
		"drop_date":      booking.Range.To,
		"days":           booking.Days,
		"total_amount":   booking.TotalAmount.Amount,
		"currency":       booking.TotalAmount.Currency,
	}
	if err := h.Notifier.Send(execCtx, customer.Email, "booking_invoice", payload); err != nil {
		return nil, err
	}
	if h.Logger != nil {
		h.Logger.Info("invoice resent", "booking_number", booking.Number, "email", customer.Email)
	}
	return &ResendInvoiceResult{BookingNumber: booking.Number, SentTo: customer.Email}, nil
}

var _ commands.Handler[ResendInvoiceCommand, *ResendInvoiceResult] = (*ResendInvoiceHandler)(nil)
