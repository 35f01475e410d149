package companies

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/uow"
	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
	domaincompany "fleetrent/internal/domain/company"
)

const (
	createCompanyKey   = "companies.create"
	updateCompanyKey   = "companies.update"
	changeStatusKey    = "companies.status.change"
	setCancellationKey = "companies.cancellation_policy.set"
	deleteCompanyKey   = "companies.delete"
)

type CreateCompanyCommand struct {
	Name    string
	Email   string
	Phone   string
	Address dto.CompanyAddress
}

func (c CreateCompanyCommand) Key() string { return createCompanyKey }

type CreateCompanyHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *CreateCompanyHandler) Handle(ctx context.Context, cmd CreateCompanyCommand) (dto.CompanySummary, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CompanySummary{}, err
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	company, err := domaincompany.New(domaincompany.CreateParams{
		ID:    domaincar.CompanyID(uuid.NewString()),
		Name:  cmd.Name,
		Email: cmd.Email,
		Phone: cmd.Phone,
		Address: domaincompany.Address{
			Country: cmd.Address.Country,
			State:   cmd.Address.State,
			City:    cmd.Address.City,
			Street:  cmd.Address.Street,
		},
		CreatedAt: now,
	})
	if err != nil {
		return dto.CompanySummary{}, finish(err)
	}
	if err := unit.Companies().Save(execCtx, company); err != nil {
		return dto.CompanySummary{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.CompanySummary{}, err
	}
	return dto.MapCompanySummary(company), nil
}

type UpdateCompanyCommand struct {
	CompanyID string
	Name      *string
	Email     *string
	Phone     *string
	Address   *dto.CompanyAddress
}

func (c UpdateCompanyCommand) Key() string { return updateCompanyKey }

type UpdateCompanyHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *UpdateCompanyHandler) Handle(ctx context.Context, cmd UpdateCompanyCommand) (dto.CompanySummary, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CompanySummary{}, err
	}

	company, err := unit.Companies().ByID(execCtx, domaincar.CompanyID(cmd.CompanyID))
	if err != nil {
		return dto.CompanySummary{}, finish(err)
	}
	params := domaincompany.UpdateParams{
		Name:  cmd.Name,
		Email: cmd.Email,
		Phone: cmd.Phone,
	}
	if cmd.Address != nil {
		params.Address = &domaincompany.Address{
			Country: cmd.Address.Country,
			State:   cmd.Address.State,
			City:    cmd.Address.City,
			Street:  cmd.Address.Street,
		}
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	if err := company.Update(params, now); err != nil {
		return dto.CompanySummary{}, finish(err)
	}
	if err := unit.Companies().Save(execCtx, company); err != nil {
		return dto.CompanySummary{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.CompanySummary{}, err
	}
	return dto.MapCompanySummary(company), nil
}

type ChangeCompanyStatusCommand struct {
	CompanyID string
	Active    bool
}

func (c ChangeCompanyStatusCommand) Key() string { return changeStatusKey }

type ChangeCompanyStatusHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *ChangeCompanyStatusHandler) Handle(ctx context.Context, cmd ChangeCompanyStatusCommand) (dto.CompanySummary, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CompanySummary{}, err
	}

	company, err := unit.Companies().ByID(execCtx, domaincar.CompanyID(cmd.CompanyID))
	if err != nil {
		return dto.CompanySummary{}, finish(err)
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	if err := company.ChangeStatus(cmd.Active, now); err != nil {
		return dto.CompanySummary{}, finish(err)
	}
	if err := unit.Companies().Save(execCtx, company); err != nil {
		return dto.CompanySummary{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.CompanySummary{}, err
	}
	return dto.MapCompanySummary(company), nil
}

type SetCancellationPolicyCommand struct {
	CompanyID string
	Tiers     []dto.CancellationTier
}

func (c SetCancellationPolicyCommand) Key() string { return setCancellationKey }

type SetCancellationPolicyHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *SetCancellationPolicyHandler) Handle(ctx context.Context, cmd SetCancellationPolicyCommand) (dto.CompanyDetails, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CompanyDetails{}, err
	}

	company, err := unit.Companies().ByID(execCtx, domaincar.CompanyID(cmd.CompanyID))
	if err != nil {
		return dto.CompanyDetails{}, finish(err)
	}
	tiers := make([]domainbooking.PolicyTier, 0, len(cmd.Tiers))
	for _, t := range cmd.Tiers {
		tiers = append(tiers, domainbooking.PolicyTier{Hours: t.Hours, Rate: t.Rate})
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	if err := company.SetCancellationPolicy(tiers, now); err != nil {
		return dto.CompanyDetails{}, finish(err)
	}
	if err := unit.Companies().Save(execCtx, company); err != nil {
		return dto.CompanyDetails{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.CompanyDetails{}, err
	}
	return dto.MapCompanyDetails(company), nil
}

type DeleteCompanyCommand struct {
	CompanyID string
}

func (c DeleteCompanyCommand) Key() string { return deleteCompanyKey }

type DeleteCompanyResult struct {
	CompanyID string `json:"company_id"`
}

type DeleteCompanyHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *DeleteCompanyHandler) Handle(ctx context.Context, cmd DeleteCompanyCommand) (*DeleteCompanyResult, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}

	company, err := unit.Companies().ByID(execCtx, domaincar.CompanyID(cmd.CompanyID))
	if err != nil {
		return nil, finish(err)
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	if err := company.SoftDelete(now); err != nil {
		return nil, finish(err)
	}
	if err := unit.Companies().Save(execCtx, company); err != nil {
		return nil, finish(err)
	}
	if err := finish(nil); err != nil {
		return nil, err
	}
	return &DeleteCompanyResult{CompanyID: string(company.ID)}, nil
}

var _ commands.Handler[CreateCompanyCommand, dto.CompanySummary] = (*CreateCompanyHandler)(nil)
var _ commands.Handler[UpdateCompanyCommand, dto.CompanySummary] = (*UpdateCompanyHandler)(nil)
var _ commands.Handler[ChangeCompanyStatusCommand, dto.CompanySummary] = (*ChangeCompanyStatusHandler)(nil)
var _ commands.Handler[SetCancellationPolicyCommand, dto.CompanyDetails] = (*SetCancellationPolicyHandler)(nil)
var _ commands.Handler[DeleteCompanyCommand, *DeleteCompanyResult] = (*DeleteCompanyHandler)(nil)
