package companies

import (
	"context"

	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/queries"
	"fleetrent/internal/app/uow"
	domaincar "fleetrent/internal/domain/car"
	domaincompany "fleetrent/internal/domain/company"
)

const (
	listCompaniesKey = "companies.list"
	getCompanyKey    = "companies.get"
)

type ListCompaniesQuery struct {
	OnlyActive bool
	Offset     int
	Limit      int
}

func (q ListCompaniesQuery) Key() string { return listCompaniesKey }

type ListCompaniesHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListCompaniesHandler) Handle(ctx context.Context, q ListCompaniesQuery) (dto.CompanyCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CompanyCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	companies, total, err := unit.Companies().List(execCtx, domaincompany.ListParams{
		OnlyActive: q.OnlyActive,
		Offset:     q.Offset,
		Limit:      q.Limit,
	})
	if err != nil {
		return dto.CompanyCollection{}, err
	}
	items := make([]dto.CompanySummary, 0, len(companies))
	for _, c := range companies {
		items = append(items, dto.MapCompanySummary(c))
	}
	return dto.CompanyCollection{Items: items, Total: total}, nil
}

type GetCompanyQuery struct {
	CompanyID string
}

func (q GetCompanyQuery) Key() string { return getCompanyKey }

type GetCompanyHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetCompanyHandler) Handle(ctx context.Context, q GetCompanyQuery) (dto.CompanyDetails, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CompanyDetails{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	company, err := unit.Companies().ByID(execCtx, domaincar.CompanyID(q.CompanyID))
	if err != nil {
		return dto.CompanyDetails{}, err
	}
	return dto.MapCompanyDetails(company), nil
}

var _ queries.Handler[ListCompaniesQuery, dto.CompanyCollection] = (*ListCompaniesHandler)(nil)
var _ queries.Handler[GetCompanyQuery, dto.CompanyDetails] = (*GetCompanyHandler)(nil)
