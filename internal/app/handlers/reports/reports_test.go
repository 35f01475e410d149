package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincar "fleetrent/internal/domain/car"
	domainreport "fleetrent/internal/domain/report"
	"fleetrent/internal/domain/shared/money"
	"fleetrent/internal/infra/storage/memory"
)

var fixedNow = time.Date(2025, time.July, 20, 10, 0, 0, 0, time.UTC)

func seedCar(t *testing.T, factory memory.Factory, id string) {
	t.Helper()
	car, err := domaincar.New(domaincar.CreateParams{
		ID:           domaincar.ID(id),
		CompanyID:    "co-1",
		Brand:        "Honda",
		Model:        "Civic",
		Transmission: domaincar.TransmissionManual,
		Seats:        5,
		RentPerDay:   money.Must(2000, "AED"),
		CreatedAt:    fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.CarRepo.Save(context.Background(), car))
}

func TestFileReport(t *testing.T) {
	ctx := context.Background()

	t.Run("files a pending report", func(t *testing.T) {
		factory := memory.NewFactory()
		seedCar(t, factory, "car-1")
		handler := &FileReportHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}

		res, err := handler.Handle(ctx, FileReportCommand{
			CarID:      "car-1",
			ReporterID: "cust-1",
			Type:       "Damage",
			Text:       "scratched rear bumper",
		})
		require.NoError(t, err)
		assert.Equal(t, string(domainreport.StatusPending), res.Status)
		assert.Equal(t, "damage", res.Type)

		list := &ListReportsHandler{UoWFactory: factory}
		got, err := list.Handle(ctx, ListReportsQuery{ReporterID: "cust-1"})
		require.NoError(t, err)
		require.Equal(t, 1, got.Total)
		assert.Equal(t, "car-1", got.Items[0].CarID)
	})

	t.Run("same issue pending blocks a second report", func(t *testing.T) {
		factory := memory.NewFactory()
		seedCar(t, factory, "car-1")
		handler := &FileReportHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}

		_, err := handler.Handle(ctx, FileReportCommand{CarID: "car-1", ReporterID: "cust-1", Type: "damage"})
		require.NoError(t, err)
		// Type matching ignores case and padding.
		_, err = handler.Handle(ctx, FileReportCommand{CarID: "car-1", ReporterID: "cust-1", Type: " DAMAGE "})
		assert.ErrorIs(t, err, domainreport.ErrAlreadyPending)
	})

	t.Run("resolved issue reports the resolution", func(t *testing.T) {
		factory := memory.NewFactory()
		seedCar(t, factory, "car-1")
		handler := &FileReportHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}

		filed, err := handler.Handle(ctx, FileReportCommand{CarID: "car-1", ReporterID: "cust-1", Type: "damage"})
		require.NoError(t, err)
		resolve := &ResolveReportHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow.Add(time.Hour) }}
		_, err = resolve.Handle(ctx, ResolveReportCommand{ReportID: filed.ID})
		require.NoError(t, err)

		_, err = handler.Handle(ctx, FileReportCommand{CarID: "car-1", ReporterID: "cust-1", Type: "damage"})
		assert.ErrorIs(t, err, domainreport.ErrAlreadyResolved)
	})

	t.Run("different issue types coexist", func(t *testing.T) {
		factory := memory.NewFactory()
		seedCar(t, factory, "car-1")
		handler := &FileReportHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}

		_, err := handler.Handle(ctx, FileReportCommand{CarID: "car-1", ReporterID: "cust-1", Type: "damage"})
		require.NoError(t, err)
		_, err = handler.Handle(ctx, FileReportCommand{CarID: "car-1", ReporterID: "cust-1", Type: "cleanliness"})
		require.NoError(t, err)

		list := &ListReportsHandler{UoWFactory: factory}
		got, err := list.Handle(ctx, ListReportsQuery{ReporterID: "cust-1"})
		require.NoError(t, err)
		assert.Equal(t, 2, got.Total)
	})

	t.Run("missing type rejected", func(t *testing.T) {
		factory := memory.NewFactory()
		seedCar(t, factory, "car-1")
		handler := &FileReportHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}

		_, err := handler.Handle(ctx, FileReportCommand{CarID: "car-1", ReporterID: "cust-1", Type: "  "})
		assert.ErrorIs(t, err, domainreport.ErrTypeRequired)
	})

	t.Run("unknown car", func(t *testing.T) {
		factory := memory.NewFactory()
		handler := &FileReportHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}

		_, err := handler.Handle(ctx, FileReportCommand{CarID: "car-404", ReporterID: "cust-1", Type: "damage"})
		assert.ErrorIs(t, err, domaincar.ErrNotFound)
	})
}

func TestResolveReport(t *testing.T) {
	ctx := context.Background()

	t.Run("marks the report resolved once", func(t *testing.T) {
		factory := memory.NewFactory()
		seedCar(t, factory, "car-1")
		file := &FileReportHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}
		filed, err := file.Handle(ctx, FileReportCommand{CarID: "car-1", ReporterID: "cust-1", Type: "damage"})
		require.NoError(t, err)

		handler := &ResolveReportHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow.Add(time.Hour) }}
		res, err := handler.Handle(ctx, ResolveReportCommand{ReportID: filed.ID})
		require.NoError(t, err)
		assert.Equal(t, string(domainreport.StatusResolved), res.Status)

		_, err = handler.Handle(ctx, ResolveReportCommand{ReportID: filed.ID})
		assert.ErrorIs(t, err, domainreport.ErrAlreadyResolved)
	})

	t.Run("unknown report", func(t *testing.T) {
		factory := memory.NewFactory()
		handler := &ResolveReportHandler{UoWFactory: factory, Now: func() time.Time { return fixedNow }}
		_, err := handler.Handle(ctx, ResolveReportCommand{ReportID: "rep-404"})
		assert.ErrorIs(t, err, domainreport.ErrNotFound)
	})
}
