package coupons

import (
	"context"

	"fleetrent/internal/app/dto"
	handlersupport "fleetrent/internal/app/handlers/support"
	"fleetrent/internal/app/queries"
	"fleetrent/internal/app/uow"
	domaincar "fleetrent/internal/domain/car"
	domaincoupon "fleetrent/internal/domain/coupon"
)

const (
	listCouponsKey = "coupons.list"
	applyCouponKey = "coupons.apply"
)

type ListCouponsQuery struct {
	CompanyID string
}

func (q ListCouponsQuery) Key() string { return listCouponsKey }

type ListCouponsHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListCouponsHandler) Handle(ctx context.Context, q ListCouponsQuery) (dto.CouponCollection, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.CouponCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	coupons, err := unit.Coupons().List(execCtx, domaincar.CompanyID(q.CompanyID))
	if err != nil {
		return dto.CouponCollection{}, err
	}
	items := make([]dto.CouponSummary, 0, len(coupons))
	for _, c := range coupons {
		if c.Deleted {
			continue
		}
		items = append(items, dto.MapCouponSummary(c))
	}
	return dto.CouponCollection{Items: items}, nil
}

// ApplyCouponQuery prices a coupon against an amount without creating
// a booking. Used by clients to preview the discount.
type ApplyCouponQuery struct {
	Code   string
	Amount int64
}

func (q ApplyCouponQuery) Key() string { return applyCouponKey }

type ApplyCouponResult struct {
	Code         string `json:"code"`
	DiscountRate int    `json:"discount_rate"`
	Discount     int64  `json:"discount"`
	Payable      int64  `json:"payable"`
}

type ApplyCouponHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ApplyCouponHandler) Handle(ctx context.Context, q ApplyCouponQuery) (ApplyCouponResult, error) {
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return ApplyCouponResult{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	coupon, err := unit.Coupons().ByCode(execCtx, domaincoupon.NormalizeCode(q.Code))
	if err != nil {
		return ApplyCouponResult{}, err
	}
	rate, err := coupon.Redeem()
	if err != nil {
		return ApplyCouponResult{}, err
	}
	discount := q.Amount * int64(rate) / 100
	return ApplyCouponResult{
		Code:         coupon.Code,
		DiscountRate: rate,
		Discount:     discount,
		Payable:      q.Amount - discount,
	}, nil
}

var _ queries.Handler[ListCouponsQuery, dto.CouponCollection] = (*ListCouponsHandler)(nil)
var _ queries.Handler[ApplyCouponQuery, ApplyCouponResult] = (*ApplyCouponHandler)(nil)
