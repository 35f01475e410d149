package cars

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincar "fleetrent/internal/domain/car"
	domaincompany "fleetrent/internal/domain/company"
	"fleetrent/internal/domain/shared/money"
	"fleetrent/internal/infra/storage/memory"
)

var fixedNow = time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)

func newFactory(t *testing.T) memory.Factory {
	t.Helper()
	factory := memory.NewFactory()
	company, err := domaincompany.New(domaincompany.CreateParams{
		ID:        "co-1",
		Name:      "Desert Wheels",
		Email:     "ops@desertwheels.test",
		CreatedAt: fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.CompanyRepo.Save(context.Background(), company))
	return factory
}

func createCar(t *testing.T, factory memory.Factory) string {
	t.Helper()
	handler := &CreateCarHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}
	res, err := handler.Handle(context.Background(), CreateCarCommand{
		CompanyID:        "co-1",
		Brand:            "Toyota",
		Model:            "Corolla",
		Transmission:     "automatic",
		Seats:            5,
		RentPerDayAmount: 2500,
		Currency:         "AED",
	})
	require.NoError(t, err)
	return res.ID
}

func TestCreateCar(t *testing.T) {
	ctx := context.Background()

	t.Run("persists under the company", func(t *testing.T) {
		factory := newFactory(t)
		id := createCar(t, factory)

		saved, err := factory.CarRepo.ByID(ctx, domaincar.ID(id))
		require.NoError(t, err)
		assert.Equal(t, domaincar.CompanyID("co-1"), saved.CompanyID)
		assert.Equal(t, money.Must(2500, "AED"), saved.RentPerDay)
	})

	t.Run("rejects unknown company", func(t *testing.T) {
		factory := memory.NewFactory()
		handler := &CreateCarHandler{UoWFactory: factory}
		_, err := handler.Handle(ctx, CreateCarCommand{
			CompanyID:        "co-404",
			Brand:            "Toyota",
			Model:            "Corolla",
			Transmission:     "automatic",
			Seats:            5,
			RentPerDayAmount: 2500,
			Currency:         "AED",
		})
		assert.ErrorIs(t, err, domaincompany.ErrNotFound)
	})

	t.Run("rejects invalid transmission", func(t *testing.T) {
		factory := newFactory(t)
		handler := &CreateCarHandler{UoWFactory: factory}
		_, err := handler.Handle(ctx, CreateCarCommand{
			CompanyID:        "co-1",
			Brand:            "Toyota",
			Model:            "Corolla",
			Transmission:     "cvt",
			Seats:            5,
			RentPerDayAmount: 2500,
			Currency:         "AED",
		})
		assert.ErrorIs(t, err, domaincar.ErrInvalidTransmiss)
	})
}

func TestUpdateCar(t *testing.T) {
	ctx := context.Background()

	t.Run("reprices keeping the currency", func(t *testing.T) {
		factory := newFactory(t)
		id := createCar(t, factory)

		newRent := int64(3000)
		handler := &UpdateCarHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}
		res, err := handler.Handle(ctx, UpdateCarCommand{CarID: id, RentPerDayAmount: &newRent})
		require.NoError(t, err)
		assert.Equal(t, int64(3000), res.RentPerDay.Amount)
		assert.Equal(t, "AED", res.RentPerDay.Currency)
	})

	t.Run("unknown car", func(t *testing.T) {
		handler := &UpdateCarHandler{UoWFactory: memory.NewFactory()}
		_, err := handler.Handle(ctx, UpdateCarCommand{CarID: "car-404"})
		assert.ErrorIs(t, err, domaincar.ErrNotFound)
	})
}

func TestDeleteCar(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	id := createCar(t, factory)

	handler := &DeleteCarHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}
	_, err := handler.Handle(ctx, DeleteCarCommand{CarID: id})
	require.NoError(t, err)

	saved, err := factory.CarRepo.ByID(ctx, domaincar.ID(id))
	require.NoError(t, err)
	assert.True(t, saved.Deleted)

	// Second delete is a conflict, and listings hide the car.
	_, err = handler.Handle(ctx, DeleteCarCommand{CarID: id})
	assert.ErrorIs(t, err, domaincar.ErrDeleted)

	list, err := (&ListCarsHandler{UoWFactory: factory}).Handle(ctx, ListCarsQuery{CompanyID: "co-1"})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestSetCarCalendar(t *testing.T) {
	ctx := context.Background()
	factory := newFactory(t)
	id := createCar(t, factory)

	days := []time.Time{
		time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.July, 11, 0, 0, 0, 0, time.UTC),
	}
	handler := &SetCarCalendarHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}
	_, err := handler.Handle(ctx, SetCarCalendarCommand{CarID: id, Month: time.July, Days: days})
	require.NoError(t, err)

	saved, err := factory.CarRepo.ByID(ctx, domaincar.ID(id))
	require.NoError(t, err)
	assert.True(t, saved.Calendar.DayAvailable(days[0]))
	assert.False(t, saved.Calendar.DayAvailable(days[0].AddDate(0, 0, 5)))

	t.Run("day outside month rejected", func(t *testing.T) {
		_, err := handler.Handle(ctx, SetCarCalendarCommand{
			CarID: id,
			Month: time.July,
			Days:  []time.Time{time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)},
		})
		assert.ErrorIs(t, err, domaincar.ErrDayOutsideMonth)
	})
}
