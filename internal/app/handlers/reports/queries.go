package reports

import (
	"context"

	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/queries"
	"fleetrent/internal/app/uow"
)

const listReportsKey = "reports.reporter.list"

// ListReportsQuery retrieves the reports a customer has filed.
type ListReportsQuery struct {
	ReporterID string
}

func (q ListReportsQuery) Key() string { return listReportsKey }

type ListReportsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListReportsHandler) Handle(ctx context.Context, q ListReportsQuery) (dto.ReportCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.ReportCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	all, err := unit.Reports().ListByReporter(execCtx, q.ReporterID)
	if err != nil {
		return dto.ReportCollection{}, err
	}
	items := make([]dto.Report, 0, len(all))
	for _, report := range all {
		items = append(items, dto.MapReport(report))
	}
	return dto.ReportCollection{Items: items, Total: len(items)}, nil
}

var _ queries.Handler[ListReportsQuery, dto.ReportCollection] = (*ListReportsHandler)(nil)
