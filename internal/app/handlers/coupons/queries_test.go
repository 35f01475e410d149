package coupons

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincoupon "fleetrent/internal/domain/coupon"
	"fleetrent/internal/infra/storage/memory"
)

var fixedNow = time.Date(2025, time.July, 1, 12, 0, 0, 0, time.UTC)

func seedCoupon(t *testing.T, factory memory.Factory, code string, rate int) *domaincoupon.Coupon {
	t.Helper()
	c, err := domaincoupon.New(domaincoupon.CreateParams{
		ID:           "cp-" + code,
		Code:         code,
		CompanyID:    "co-1",
		DiscountRate: rate,
		CreatedAt:    fixedNow,
	})
	require.NoError(t, err)
	require.NoError(t, factory.CouponRepo.Save(context.Background(), c))
	return c
}

func TestApplyCoupon(t *testing.T) {
	ctx := context.Background()

	t.Run("prices the discount", func(t *testing.T) {
		factory := memory.NewFactory()
		seedCoupon(t, factory, "SAVE10", 10)

		handler := &ApplyCouponHandler{UoWFactory: factory}
		res, err := handler.Handle(ctx, ApplyCouponQuery{Code: " save10 ", Amount: 10000})
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", res.Code)
		assert.Equal(t, 10, res.DiscountRate)
		assert.Equal(t, int64(1000), res.Discount)
		assert.Equal(t, int64(9000), res.Payable)
	})

	t.Run("unknown code", func(t *testing.T) {
		handler := &ApplyCouponHandler{UoWFactory: memory.NewFactory()}
		_, err := handler.Handle(ctx, ApplyCouponQuery{Code: "NOPE", Amount: 10000})
		assert.ErrorIs(t, err, domaincoupon.ErrNotFound)
	})

	t.Run("hidden coupon not redeemable", func(t *testing.T) {
		factory := memory.NewFactory()
		c := seedCoupon(t, factory, "HIDDEN", 20)
		display := false
		require.NoError(t, c.Update(domaincoupon.UpdateParams{Display: &display}, fixedNow))
		require.NoError(t, factory.CouponRepo.Save(ctx, c))

		handler := &ApplyCouponHandler{UoWFactory: factory}
		_, err := handler.Handle(ctx, ApplyCouponQuery{Code: "HIDDEN", Amount: 10000})
		assert.ErrorIs(t, err, domaincoupon.ErrNotRedeemable)
	})
}

func TestListCoupons(t *testing.T) {
	ctx := context.Background()
	factory := memory.NewFactory()
	seedCoupon(t, factory, "AAA", 5)
	deleted := seedCoupon(t, factory, "BBB", 10)
	require.NoError(t, deleted.SoftDelete(fixedNow))
	require.NoError(t, factory.CouponRepo.Save(ctx, deleted))

	handler := &ListCouponsHandler{UoWFactory: factory}
	res, err := handler.Handle(ctx, ListCouponsQuery{CompanyID: "co-1"})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, "AAA", res.Items[0].Code)
}
