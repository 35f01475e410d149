package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

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

// Factory wires Mongo transactions into the generic UnitOfWork interface.
type Factory struct {
	DB *mongo.Database

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

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// NewFactory builds a factory with repositories over the given database.
func NewFactory(db *mongo.Database) Factory {
	return Factory{
		DB:             db,
		CarRepo:        NewCarRepository(db),
		BookingRepo:    NewBookingRepository(db),
		CompanyRepo:    NewCompanyRepository(db),
		HandoverRepo:   NewHandoverRepository(db),
		AssignmentRepo: NewAssignmentRepository(db),
		CouponRepo:     NewCouponRepository(db),
		UserRepo:       NewUserRepository(db),
		ReviewRepo:     NewReviewRepository(db),
		ReportRepo:     NewReportRepository(db),
	}
}

// Begin starts a MongoDB session/transaction.
func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().SetReadConcern(f.DB.ReadConcern()).SetWriteConcern(f.DB.WriteConcern())
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{
		db:          f.DB,
		session:     session,
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

type Unit struct {
	db      *mongo.Database
	session mongo.Session

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

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	if err := u.session.CommitTransaction(ctx); err != nil {
		return err
	}
	return nil
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext ensures Mongo session is available in context for downstream repos.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
var _ uow.UnitOfWork = (*Unit)(nil)
