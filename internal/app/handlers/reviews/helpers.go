package reviews

import (
	"context"
	"time"

	"fleetrent/internal/app/uow"
	domaincar "fleetrent/internal/domain/car"
	domainreview "fleetrent/internal/domain/review"
)

func recalculateCarRating(ctx context.Context, unit uow.UnitOfWork, carID domaincar.ID, now time.Time) error {
	all, err := unit.Reviews().ListByCar(ctx, carID)
	if err != nil {
		return err
	}
	car, err := unit.Cars().ByID(ctx, carID)
	if err != nil {
		return err
	}
	car.UpdateRating(domainreview.AverageStars(all), now)
	return unit.Cars().Save(ctx, car)
}
