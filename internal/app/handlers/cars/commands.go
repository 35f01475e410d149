package cars

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/uow"
	domaincar "fleetrent/internal/domain/car"
	"fleetrent/internal/domain/shared/money"
)

const (
	createCarKey      = "cars.create"
	updateCarKey      = "cars.update"
	deleteCarKey      = "cars.delete"
	setCarCalendarKey = "cars.calendar.set"
)

type CreateCarCommand struct {
	CompanyID        string
	Brand            string
	Model            string
	Class            string
	Transmission     string
	LicencePlate     string
	Color            string
	Seats            int
	MileageLimitKM   int
	RentPerDayAmount int64
	Currency         string
}

func (c CreateCarCommand) Key() string { return createCarKey }

type CreateCarHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *CreateCarHandler) Handle(ctx context.Context, cmd CreateCarCommand) (dto.CarSummary, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CarSummary{}, err
	}

	rent, err := money.New(cmd.RentPerDayAmount, cmd.Currency)
	if err != nil {
		return dto.CarSummary{}, finish(err)
	}
	car, err := domaincar.New(domaincar.CreateParams{
		ID:             domaincar.ID(uuid.NewString()),
		CompanyID:      domaincar.CompanyID(cmd.CompanyID),
		Brand:          cmd.Brand,
		Model:          cmd.Model,
		Class:          cmd.Class,
		Transmission:   domaincar.Transmission(cmd.Transmission),
		LicencePlate:   cmd.LicencePlate,
		Color:          cmd.Color,
		Seats:          cmd.Seats,
		MileageLimitKM: cmd.MileageLimitKM,
		RentPerDay:     rent,
		CreatedAt:      h.now(),
	})
	if err != nil {
		return dto.CarSummary{}, finish(err)
	}
	if _, err := unit.Companies().ByID(execCtx, car.CompanyID); err != nil {
		return dto.CarSummary{}, finish(err)
	}
	if err := unit.Cars().Save(execCtx, car); err != nil {
		return dto.CarSummary{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.CarSummary{}, err
	}
	return dto.MapCarSummary(car), nil
}

func (h *CreateCarHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type UpdateCarCommand struct {
	CarID            string
	Class            *string
	Transmission     *string
	LicencePlate     *string
	Color            *string
	Seats            *int
	MileageLimitKM   *int
	RentPerDayAmount *int64
	Currency         string
}

func (c UpdateCarCommand) Key() string { return updateCarKey }

type UpdateCarHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *UpdateCarHandler) Handle(ctx context.Context, cmd UpdateCarCommand) (dto.CarSummary, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CarSummary{}, err
	}

	car, err := unit.Cars().ByID(execCtx, domaincar.ID(cmd.CarID))
	if err != nil {
		return dto.CarSummary{}, finish(err)
	}
	params := domaincar.UpdateParams{
		Class:          cmd.Class,
		LicencePlate:   cmd.LicencePlate,
		Color:          cmd.Color,
		Seats:          cmd.Seats,
		MileageLimitKM: cmd.MileageLimitKM,
	}
	if cmd.Transmission != nil {
		t := domaincar.Transmission(*cmd.Transmission)
		params.Transmission = &t
	}
	if cmd.RentPerDayAmount != nil {
		currency := cmd.Currency
		if currency == "" {
			currency = car.RentPerDay.Currency
		}
		rent, err := money.New(*cmd.RentPerDayAmount, currency)
		if err != nil {
			return dto.CarSummary{}, finish(err)
		}
		params.RentPerDay = &rent
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	if err := car.Update(params, now); err != nil {
		return dto.CarSummary{}, finish(err)
	}
	if err := unit.Cars().Save(execCtx, car); err != nil {
		return dto.CarSummary{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.CarSummary{}, err
	}
	return dto.MapCarSummary(car), nil
}

type DeleteCarCommand struct {
	CarID string
}

func (c DeleteCarCommand) Key() string { return deleteCarKey }

type DeleteCarResult struct {
	CarID string `json:"car_id"`
}

type DeleteCarHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *DeleteCarHandler) Handle(ctx context.Context, cmd DeleteCarCommand) (*DeleteCarResult, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}

	car, err := unit.Cars().ByID(execCtx, domaincar.ID(cmd.CarID))
	if err != nil {
		return nil, finish(err)
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	if err := car.SoftDelete(now); err != nil {
		return nil, finish(err)
	}
	if err := unit.Cars().Save(execCtx, car); err != nil {
		return nil, finish(err)
	}
	if err := finish(nil); err != nil {
		return nil, err
	}
	return &DeleteCarResult{CarID: string(car.ID)}, nil
}

type SetCarCalendarCommand struct {
	CarID string
	Month time.Month
	Days  []time.Time
}

func (c SetCarCalendarCommand) Key() string { return setCarCalendarKey }

type SetCarCalendarHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *SetCarCalendarHandler) Handle(ctx context.Context, cmd SetCarCalendarCommand) (dto.CarDetails, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CarDetails{}, err
	}

	car, err := unit.Cars().ByID(execCtx, domaincar.ID(cmd.CarID))
	if err != nil {
		return dto.CarDetails{}, finish(err)
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	if err := car.SetMonthAvailability(cmd.Month, cmd.Days, now); err != nil {
		return dto.CarDetails{}, finish(err)
	}
	if err := unit.Cars().Save(execCtx, car); err != nil {
		return dto.CarDetails{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.CarDetails{}, err
	}
	return dto.MapCarDetails(car), nil
}

var _ commands.Handler[CreateCarCommand, dto.CarSummary] = (*CreateCarHandler)(nil)
var _ commands.Handler[UpdateCarCommand, dto.CarSummary] = (*UpdateCarHandler)(nil)
var _ commands.Handler[DeleteCarCommand, *DeleteCarResult] = (*DeleteCarHandler)(nil)
var _ commands.Handler[SetCarCalendarCommand, dto.CarDetails] = (*SetCarCalendarHandler)(nil)
