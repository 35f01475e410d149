package dto

import domaincoupon "fleetrent/internal/domain/coupon"

type CouponSummary struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	CompanyID    string `json:"company_id"`
	DiscountRate int    `json:"discount_rate"`
	Description  string `json:"description,omitempty"`
	Banner       string `json:"banner,omitempty"`
	Display      bool   `json:"display"`
}

type CouponCollection struct {
	Items []CouponSummary `json:"items"`
}

func MapCouponSummary(c *domaincoupon.Coupon) CouponSummary {
	return CouponSummary{
		ID:           c.ID,
		Code:         c.Code,
		CompanyID:    string(c.CompanyID),
		DiscountRate: c.DiscountRate,
		Description:  c.Description,
		Banner:       c.Banner,
		Display:      c.Display,
	}
}
