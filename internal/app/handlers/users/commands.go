package users

import (
	"context"
	"time"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/uow"
	domainuser "fleetrent/internal/domain/user"
)

const (
	verifyUserKey        = "users.verify"
	updateDeviceTokenKey = "users.device_token.update"
	deleteUserKey        = "users.delete"
)

type VerifyUserCommand struct {
	UserID string
}

func (c VerifyUserCommand) Key() string { return verifyUserKey }

type VerifyUserHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *VerifyUserHandler) Handle(ctx context.Context, cmd VerifyUserCommand) (dto.UserSummary, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.UserSummary{}, err
	}

	user, err := unit.Users().ByID(execCtx, domainuser.ID(cmd.UserID))
	if err != nil {
		return dto.UserSummary{}, finish(err)
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	user.Verify(now)
	if err := unit.Users().Save(execCtx, user); err != nil {
		return dto.UserSummary{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.UserSummary{}, err
	}
	return dto.MapUserSummary(user), nil
}

type UpdateDeviceTokenCommand struct {
	UserID      string
	DeviceToken string
}

func (c UpdateDeviceTokenCommand) Key() string { return updateDeviceTokenKey }

type UpdateDeviceTokenHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *UpdateDeviceTokenHandler) Handle(ctx context.Context, cmd UpdateDeviceTokenCommand) (dto.UserSummary, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.UserSummary{}, err
	}

	user, err := unit.Users().ByID(execCtx, domainuser.ID(cmd.UserID))
	if err != nil {
		return dto.UserSummary{}, finish(err)
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	user.UpdateDeviceToken(cmd.DeviceToken, now)
	if err := unit.Users().Save(execCtx, user); err != nil {
		return dto.UserSummary{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.UserSummary{}, err
	}
	return dto.MapUserSummary(user), nil
}

type DeleteUserCommand struct {
	UserID string
}

func (c DeleteUserCommand) Key() string { return deleteUserKey }

type DeleteUserResult struct {
	UserID string `json:"user_id"`
}

type DeleteUserHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) (*DeleteUserResult, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}

	user, err := unit.Users().ByID(execCtx, domainuser.ID(cmd.UserID))
	if err != nil {
		return nil, finish(err)
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	if err := user.SoftDelete(now); err != nil {
		return nil, finish(err)
	}
	if err := unit.Users().Save(execCtx, user); err != nil {
		return nil, finish(err)
	}
	if err := finish(nil); err != nil {
		return nil, err
	}
	return &DeleteUserResult{UserID: string(user.ID)}, nil
}

var _ commands.Handler[VerifyUserCommand, dto.UserSummary] = (*VerifyUserHandler)(nil)
var _ commands.Handler[UpdateDeviceTokenCommand, dto.UserSummary] = (*UpdateDeviceTokenHandler)(nil)
var _ commands.Handler[DeleteUserCommand, *DeleteUserResult] = (*DeleteUserHandler)(nil)
