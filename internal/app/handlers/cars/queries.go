package cars

import (
	"context"

	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/queries"
	"fleetrent/internal/app/uow"
	domaincar "fleetrent/internal/domain/car"
)

const (
	listCarsKey = "cars.list"
	getCarKey   = "cars.get"
)

type ListCarsQuery struct {
	CompanyID string
	Offset    int
	Limit     int
}

func (q ListCarsQuery) Key() string { return listCarsKey }

type ListCarsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListCarsHandler) Handle(ctx context.Context, q ListCarsQuery) (dto.CarCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CarCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	cars, total, err := unit.Cars().List(execCtx, domaincar.ListParams{
		CompanyID: domaincar.CompanyID(q.CompanyID),
		Offset:    q.Offset,
		Limit:     q.Limit,
	})
	if err != nil {
		return dto.CarCollection{}, err
	}
	items := make([]dto.CarSummary, 0, len(cars))
	for _, c := range cars {
		items = append(items, dto.MapCarSummary(c))
	}
	return dto.CarCollection{Items: items, Total: total}, nil
}

type GetCarQuery struct {
	CarID string
}

func (q GetCarQuery) Key() string { return getCarKey }

type GetCarHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetCarHandler) Handle(ctx context.Context, q GetCarQuery) (dto.CarDetails, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CarDetails{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	car, err := unit.Cars().ByID(execCtx, domaincar.ID(q.CarID))
	if err != nil {
		return dto.CarDetails{}, err
	}
	return dto.MapCarDetails(car), nil
}

var _ queries.Handler[ListCarsQuery, dto.CarCollection] = (*ListCarsHandler)(nil)
var _ queries.Handler[GetCarQuery, dto.CarDetails] = (*GetCarHandler)(nil)
