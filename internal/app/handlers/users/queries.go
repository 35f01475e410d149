package users

import (
	"context"

	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/queries"
	"fleetrent/internal/app/uow"
	domaincar "fleetrent/internal/domain/car"
	domainuser "fleetrent/internal/domain/user"
)

const (
	listUsersKey = "users.list"
	getUserKey   = "users.get"
)

type ListUsersQuery struct {
	Role      string
	CompanyID string
	Offset    int
	Limit     int
}

func (q ListUsersQuery) Key() string { return listUsersKey }

type ListUsersHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListUsersHandler) Handle(ctx context.Context, q ListUsersQuery) (dto.UserCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.UserCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	users, total, err := unit.Users().List(execCtx, domainuser.ListParams{
		Role:      domainuser.Role(q.Role),
		CompanyID: domaincar.CompanyID(q.CompanyID),
		Offset:    q.Offset,
		Limit:     q.Limit,
	})
	if err != nil {
		return dto.UserCollection{}, err
	}
	items := make([]dto.UserSummary, 0, len(users))
	for _, u := range users {
		items = append(items, dto.MapUserSummary(u))
	}
	return dto.UserCollection{Items: items, Total: total}, nil
}

type GetUserQuery struct {
	UserID string
}

func (q GetUserQuery) Key() string { return getUserKey }

type GetUserHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetUserHandler) Handle(ctx context.Context, q GetUserQuery) (dto.UserSummary, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.UserSummary{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	user, err := unit.Users().ByID(execCtx, domainuser.ID(q.UserID))
	if err != nil {
		return dto.UserSummary{}, err
	}
	return dto.MapUserSummary(user), nil
}

var _ queries.Handler[ListUsersQuery, dto.UserCollection] = (*ListUsersHandler)(nil)
var _ queries.Handler[GetUserQuery, dto.UserSummary] = (*GetUserHandler)(nil)
