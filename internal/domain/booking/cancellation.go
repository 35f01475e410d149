package booking

import (
	"errors"
	"sort"
	"time"

	"fleetrent/internal/domain/shared/money"
)

var (
	ErrInvalidTierRate  = errors.New("booking: tier rate must be between 0 and 100")
	ErrInvalidTierHours = errors.New("booking: tier hours must not be negative")
)

// PolicyTier maps "hours remaining before pickup" to the percentage of
// the booking total charged when cancelling inside that window.
type PolicyTier struct {
	Hours int
	Rate  int
}

// NormalizeTiers validates and sorts tiers ascending by hours. Companies
// may enter tiers in any order; sorting on write makes the first-match
// walk below equivalent to picking the tightest threshold.
func NormalizeTiers(tiers []PolicyTier) ([]PolicyTier, error) {
	out := make([]PolicyTier, len(tiers))
	copy(out, tiers)
	for _, t := range out {
		if t.Rate < 0 || t.Rate > 100 {
			return nil, ErrInvalidTierRate
		}
		if t.Hours < 0 {
			return nil, ErrInvalidTierHours
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Hours < out[j].Hours })
	return out, nil
}

type CancellationInput struct {
	TotalAmount money.Money
	RentPerDay  money.Money
	Days        int
	PickupAt    time.Time
	CancelAt    time.Time
	Tiers       []PolicyTier
}

type CancellationQuote struct {
	ChargePercent int
	Charge        money.Money
	Refund        money.Money
	// Matched is false when the cancellation happened further out than
	// every tier threshold, i.e. free cancellation.
	Matched bool
}

// ComputeCancellation applies the tiered hours-before-pickup policy.
// It is a pure function of its input: calling it twice with identical
// arguments yields identical quotes.
//
// Tiers are walked in list order and the first tier whose hours
// threshold is >= the remaining hours wins. Cancelling after pickup
// yields negative remaining hours, which any tier threshold satisfies,
// so the first (tightest) tier applies.
//
// When no tier matches the refund is RentPerDay × Days rather than
// TotalAmount. The two can differ after a coupon discount; the
// asymmetry is kept deliberately and pinned by tests.
func ComputeCancellation(in CancellationInput) CancellationQuote {
	hoursUntilPickup := int(in.PickupAt.Sub(in.CancelAt).Hours())

	for _, tier := range in.Tiers {
		if tier.Hours >= hoursUntilPickup {
			charge := in.TotalAmount.Percent(tier.Rate)
			refund, err := in.TotalAmount.Sub(charge)
			if err != nil {
				refund = money.Money{Amount: 0, Currency: in.TotalAmount.Currency}
			}
			return CancellationQuote{
				ChargePercent: tier.Rate,
				Charge:        charge,
				Refund:        refund,
				Matched:       true,
			}
		}
	}

	return CancellationQuote{
		ChargePercent: 0,
		Charge:        money.Money{Amount: 0, Currency: in.TotalAmount.Currency},
		Refund:        in.RentPerDay.Multiply(int64(in.Days)),
		Matched:       false,
	}
}
