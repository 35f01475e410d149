package booking

import (
	"context"
	"log/slog"

	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/queries"
	"fleetrent/internal/app/uow"
	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
)

const (
	listBookingsKey = "booking.list"
	getBookingKey   = "booking.get"
)

type ListBookingsQuery struct {
	CustomerID string
	CompanyID  string
	CarID      string
	Statuses   []string
	Offset     int
	Limit      int
}

func (q ListBookingsQuery) Key() string { return listBookingsKey }

type ListBookingsHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
}

func (h *ListBookingsHandler) Handle(ctx context.Context, q ListBookingsQuery) (dto.BookingCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	statuses := make([]domainbooking.TripStatus, 0, len(q.Statuses))
	for _, s := range q.Statuses {
		statuses = append(statuses, domainbooking.TripStatus(s))
	}
	bookings, err := unit.Bookings().List(execCtx, domainbooking.ListParams{
		CustomerID: q.CustomerID,
		CompanyID:  domaincar.CompanyID(q.CompanyID),
		CarID:      domaincar.ID(q.CarID),
		Statuses:   statuses,
		Offset:     q.Offset,
		Limit:      q.Limit,
	})
	if err != nil {
		return dto.BookingCollection{}, err
	}

	carCache := make(map[domaincar.ID]*domaincar.Car)
	items := make([]dto.BookingSummary, 0, len(bookings))
	for _, b := range bookings {
		car, err := loadCar(execCtx, unit.Cars(), b.CarID, carCache)
		if err != nil && h.Logger != nil {
			h.Logger.Warn("car snapshot missing for booking", "booking_number", b.Number, "car_id", b.CarID, "error", err)
		}
		items = append(items, dto.MapBookingSummary(b, car))
	}

	return dto.BookingCollection{Items: items}, nil
}

type GetBookingQuery struct {
	BookingNumber string
}

func (q GetBookingQuery) Key() string { return getBookingKey }

type GetBookingHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetBookingHandler) Handle(ctx context.Context, q GetBookingQuery) (dto.BookingDetails, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.BookingDetails{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	booking, err := unit.Bookings().ByNumber(execCtx, q.BookingNumber)
	if err != nil {
		return dto.BookingDetails{}, err
	}
	car, err := unit.Cars().ByID(execCtx, booking.CarID)
	if err != nil {
		car = nil
	}
	return dto.MapBookingDetails(booking, car), nil
}

func loadCar(
	ctx context.Context,
	repo domaincar.Repository,
	id domaincar.ID,
	cache map[domaincar.ID]*domaincar.Car,
) (*domaincar.Car, error) {
	if car, ok := cache[id]; ok {
		return car, nil
	}
	car, err := repo.ByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cache[id] = car
	return car, nil
}

var _ queries.Handler[ListBookingsQuery, dto.BookingCollection] = (*ListBookingsHandler)(nil)
var _ queries.Handler[GetBookingQuery, dto.BookingDetails] = (*GetBookingHandler)(nil)
