package coupons

import (
	"context"
	"time"

	"github.com/google/uuid"

	"fleetrent/internal/app/commands"
	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/uow"
	domaincar "fleetrent/internal/domain/car"
	domaincoupon "fleetrent/internal/domain/coupon"
)

const (
	createCouponKey = "coupons.create"
	updateCouponKey = "coupons.update"
	deleteCouponKey = "coupons.delete"
)

type CreateCouponCommand struct {
	Code         string
	CompanyID    string
	DiscountRate int
	Description  string
	Banner       string
}

func (c CreateCouponCommand) Key() string { return createCouponKey }

type CreateCouponHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *CreateCouponHandler) Handle(ctx context.Context, cmd CreateCouponCommand) (dto.CouponSummary, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CouponSummary{}, err
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	if _, err := unit.Companies().ByID(execCtx, domaincar.CompanyID(cmd.CompanyID)); err != nil {
		return dto.CouponSummary{}, finish(err)
	}
	coupon, err := domaincoupon.New(domaincoupon.CreateParams{
		ID:           uuid.NewString(),
		Code:         cmd.Code,
		CompanyID:    domaincar.CompanyID(cmd.CompanyID),
		DiscountRate: cmd.DiscountRate,
		Description:  cmd.Description,
		Banner:       cmd.Banner,
		CreatedAt:    now,
	})
	if err != nil {
		return dto.CouponSummary{}, finish(err)
	}
	if err := unit.Coupons().Save(execCtx, coupon); err != nil {
		return dto.CouponSummary{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.CouponSummary{}, err
	}
	return dto.MapCouponSummary(coupon), nil
}

type UpdateCouponCommand struct {
	CouponID     string
	DiscountRate *int
	Description  *string
	Banner       *string
	Display      *bool
}

func (c UpdateCouponCommand) Key() string { return updateCouponKey }

type UpdateCouponHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *UpdateCouponHandler) Handle(ctx context.Context, cmd UpdateCouponCommand) (dto.CouponSummary, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CouponSummary{}, err
	}

	coupon, err := unit.Coupons().ByID(execCtx, cmd.CouponID)
	if err != nil {
		return dto.CouponSummary{}, finish(err)
	}
	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	err = coupon.Update(domaincoupon.UpdateParams{
		DiscountRate: cmd.DiscountRate,
		Description:  cmd.Description,
		Banner:       cmd.Banner,
		Display:      cmd.Display,
	}, now)
	if err != nil {
		return dto.CouponSummary{}, finish(err)
	}
	if err := unit.Coupons().Save(execCtx, coupon); err != nil {
		return dto.CouponSummary{}, finish(err)
	}
	if err := finish(nil); err != nil {
		return dto.CouponSummary{}, err
	}
	return dto.MapCouponSummary(coupon), nil
}

type DeleteCouponCommand struct {
	CouponID string
}

func (c DeleteCouponCommand) Key() string { return deleteCouponKey }

type DeleteCouponResult struct {
	CouponID string `json:"coupon_id"`
}

type DeleteCouponHandler struct {
	UoWFactory uow.UoWFactory
	Now        func() time.Time
}

func (h *DeleteCouponHandler) Handle(ctx context.Context, cmd DeleteCouponCommand) (*DeleteCouponResult, error) {
	unit, execCtx, finish, err := handlersupport.BeginWriteUnit(ctx, h.UoWFactory)
	if err != nil {
		return nil, err
	}

	coupon, err := unit.Coupons().ByID(execCtx, cmd.CouponID)
	if err != nil {
		return nil, finish(err)
	}
	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	if err := coupon.SoftDelete(now); err != nil {
		return nil, finish(err)
	}
	if err := unit.Coupons().Save(execCtx, coupon); err != nil {
		return nil, finish(err)
	}
	if err := finish(nil); err != nil {
		return nil, err
	}
	return &DeleteCouponResult{CouponID: coupon.ID}, nil
}

var _ commands.Handler[CreateCouponCommand, dto.CouponSummary] = (*CreateCouponHandler)(nil)
var _ commands.Handler[UpdateCouponCommand, dto.CouponSummary] = (*UpdateCouponHandler)(nil)
var _ commands.Handler[DeleteCouponCommand, *DeleteCouponResult] = (*DeleteCouponHandler)(nil)
