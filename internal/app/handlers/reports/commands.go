package reports

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/uow"
	domaincar "fleetrent/internal/domain/car"
	domainreport "fleetrent/internal/domain/report"
)

const (
	fileReportKey    = "reports.file"
	resolveReportKey = "reports.resolve"
)

type FileReportCommand struct {
	CarID      string
	ReporterID string
	Type       string
	Text       string
}

func (c FileReportCommand) Key() string { return fileReportKey }

// FileReportHandler stores a car issue report unless the reporter
// already has one of the same type against the car.
type FileReportHandler struct {
	UoWFactory uow.UoWFactory
	Logger     *slog.Logger
	Now        func() time.Time
}

func (h *FileReportHandler) Handle(ctx context.Context, cmd FileReportCommand) (dto.Report, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Report{}, err
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}

	carID := domaincar.ID(cmd.CarID)
	if _, err := unit.Cars().ByID(execCtx, carID); err != nil {
		return dto.Report{}, finish(err)
	}

	existing, err := unit.Reports().ByCarReporterAndType(execCtx, carID, cmd.ReporterID, cmd.Type)
	if err == nil {
		if existing.Status == domainreport.StatusResolved {
			return dto.Report{}, finish(domainreport.ErrAlreadyResolved)
		}
		return dto.Report{}, finish(domainreport.ErrAlreadyPending)
	} else if !errors.Is(err, domainreport.ErrNotFound) {
		return dto.Report{}, finish(err)
	}

	report, err := domainreport.File(domainreport.FileParams{
		ID:         domainreport.ID(uuid.NewString()),
		CarID:      carID,
		ReporterID: cmd.ReporterID,
		Type:       cmd.Type,
		Text:       cmd.Text,
		CreatedAt:  now,
	})
	if err != nil {
		return dto.Report{}, finish(err)
	}
	if err := unit.Reports().Save(execCtx, report); err != nil {
		return dto.Report{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.Report{}, err
	}

	if h.Logger != nil {
		h.Logger.Info("car issue reported", "car_id", cmd.CarID, "reporter_id", cmd.ReporterID, "report_type", report.Type)
	}
	return dto.MapReport(report), nil
}

type ResolveReportCommand struct {
	ReportID string
}

func (c ResolveReportCommand) Key() string { return resolveReportKey }

type ResolveReportHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *ResolveReportHandler) Handle(ctx context.Context, cmd ResolveReportCommand) (dto.Report, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Report{}, err
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}

	report, err := unit.Reports().ByID(execCtx, domainreport.ID(cmd.ReportID))
	if err != nil {
		return dto.Report{}, finish(err)
	}
	if err := report.Resolve(now); err != nil {
		return dto.Report{}, finish(err)
	}
	if err := unit.Reports().Save(execCtx, report); err != nil {
		return dto.Report{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.Report{}, err
	}
	return dto.MapReport(report), nil
}

var _ commands.Handler[FileReportCommand, dto.Report] = (*FileReportHandler)(nil)
var _ commands.Handler[ResolveReportCommand, dto.Report] = (*ResolveReportHandler)(nil)
