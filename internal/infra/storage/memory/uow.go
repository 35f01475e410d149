package memory

import (
	"context"
	"errors"

	"fleetrent/internal/app/uow"
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

// Factory wires in-memory repositories into a unit-of-work boundary.
type Factory struct {
	CarRepo        domaincar.Repository
	BookingRepo    domainbooking.Repository
	CompanyRepo    domaincompany.Repository
	HandoverRepo   domainhandover.Repository
	AssignmentRepo domainagent.Repository
	CouponRepo     domaincoupon.Repository
	UserRepo       domainuser.Repository
	ReviewRepo     domainreview.Repository
	ReportRepo     domainreport.Repository
}

// NewFactory builds a factory over fresh empty repositories.
func NewFactory() Factory {
	return Factory{
		CarRepo:        NewCarRepository(),
		BookingRepo:    NewBookingRepository(),
		CompanyRepo:    NewCompanyRepository(),
		HandoverRepo:   NewHandoverRepository(),
		AssignmentRepo: NewAssignmentRepository(),
		CouponRepo:     NewCouponRepository(),
		UserRepo:       NewUserRepository(),
		ReviewRepo:     NewReviewRepository(),
		ReportRepo:     NewReportRepository(),
	}
}

// ErrFactoryMisconfigured indicates missing repositories.
var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Begin starts a lightweight transaction boundary. No isolation is provided but
// the abstraction matches the application ports.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.CarRepo == nil || f.BookingRepo == nil || f.CompanyRepo == nil ||
		f.HandoverRepo == nil || f.AssignmentRepo == nil || f.CouponRepo == nil ||
		f.UserRepo == nil || f.ReviewRepo == nil || f.ReportRepo == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{
		cars:        f.CarRepo,
		bookings:    f.BookingRepo,
		companies:   f.CompanyRepo,
		handovers:   f.HandoverRepo,
		assignments: f.AssignmentRepo,
		coupons:     f.CouponRepo,
		users:       f.UserRepo,
		reviews:     f.ReviewRepo,
		reports:     f.ReportRepo,
	}, nil
}

// Unit is a lightweight uow.UnitOfWork backed by in-memory stores.
type Unit struct {
	cars        domaincar.Repository
	bookings    domainbooking.Repository
	companies   domaincompany.Repository
	handovers   domainhandover.Repository
	assignments domainagent.Repository
	coupons     domaincoupon.Repository
	users       domainuser.Repository
	reviews     domainreview.Repository
	reports     domainreport.Repository
}

func (u *Unit) Cars() domaincar.Repository { return u.cars }

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Companies() domaincompany.Repository { return u.companies }

func (u *Unit) Handovers() domainhandover.Repository { return u.handovers }

func (u *Unit) Assignments() domainagent.Repository { return u.assignments }

func (u *Unit) Coupons() domaincoupon.Repository { return u.coupons }

func (u *Unit) Users() domainuser.Repository { return u.users }

func (u *Unit) Reviews() domainreview.Repository { return u.reviews }

func (u *Unit) Reports() domainreport.Repository { return u.reports }

func (u *Unit) Commit(ctx context.Context) error { return nil }

func (u *Unit) Rollback(ctx context.Context) error { return nil }

var _ uow.UoWFactory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
