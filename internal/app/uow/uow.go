package uow

import (
	"context"

	domainagent "fleetrent/internal/domain/agent"
	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
	domaincompany "fleetrent/internal/domain/company"
	domaincoupon "fleetrent/internal/domain/coupon"
	domainhandover "fleetrent/internal/domain/handover"
	domainreport "fleetrent/internal/domain/report"
	domainreview "fleetrent/internal/domain/review"
	domainuser "fleetrent/internal/domain/user"
)

// UnitOfWork coordinates repositories inside a transaction boundary.
type UnitOfWork interface {
	Cars() domaincar.Repository
	Bookings() domainbooking.Repository
	Companies() domaincompany.Repository
	Handovers() domainhandover.Repository
	Assignments() domainagent.Repository
	Coupons() domaincoupon.Repository
	Users() domainuser.Repository
	Reviews() domainreview.Repository
	Reports() domainreport.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UoWFactory starts unit of work instances.
type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

// TxOptions configure transaction boundaries.
type TxOptions struct {
	ReadOnly bool
}
