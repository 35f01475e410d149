package memory

import (
	"context"
	"sort"
	"sync"

	domainagent "fleetrent/internal/domain/agent"
	domainbooking "fleetrent/internal/domain/booking"
	domaincar "fleetrent/internal/domain/car"
	domaincompany "fleetrent/internal/domain/company"
	domaincoupon "fleetrent/internal/domain/coupon"
	domainhandover "fleetrent/internal/domain/handover"
)

// CarRepository is an in-memory implementation for dev and tests.
type CarRepository struct {
	mu    sync.RWMutex
	items map[domaincar.ID]*domaincar.Car
}

// NewCarRepository builds an empty repository.
func NewCarRepository() *CarRepository {
	return &CarRepository{items: make(map[domaincar.ID]*domaincar.Car)}
}

// ByID returns a car or car.ErrNotFound.
func (r *CarRepository) ByID(ctx context.Context, id domaincar.ID) (*domaincar.Car, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domaincar.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

// Save stores/updates a car entry.
func (r *CarRepository) Save(ctx context.Context, c *domaincar.Car) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Version++
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

// List returns cars matching the filter, newest first.
func (r *CarRepository) List(ctx context.Context, params domaincar.ListParams) ([]*domaincar.Car, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domaincar.Car, 0, len(r.items))
	for _, c := range r.items {
		if c.Deleted {
			continue
		}
		if params.CompanyID != "" && c.CompanyID != params.CompanyID {
			continue
		}
		clone := *c
		matches = append(matches, &clone)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	total := len(matches)
	return paginate(matches, params.Offset, params.Limit), total, nil
}

// BookingRepository keeps the booking ledger in memory.
type BookingRepository struct {
	mu       sync.RWMutex
	byID     map[domainbooking.ID]*domainbooking.Booking
	byNumber map[string]domainbooking.ID
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{
		byID:     make(map[domainbooking.ID]*domainbooking.Booking),
		byNumber: make(map[string]domainbooking.ID),
	}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.ID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.byID[id]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *BookingRepository) ByNumber(ctx context.Context, number string) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byNumber[number]
	if !ok {
		return nil, domainbooking.ErrNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b.Version++
	clone := *b
	clone.ClearEvents()
	r.byID[b.ID] = &clone
	r.byNumber[b.Number] = b.ID
	return nil
}

func (r *BookingRepository) ActiveByCar(ctx context.Context, id domaincar.ID) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainbooking.Booking, 0)
	for _, b := range r.byID {
		if b.Deleted || b.CarID != id {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Range.From.Before(out[j].Range.From)
	})
	return out, nil
}

func (r *BookingRepository) List(ctx context.Context, params domainbooking.ListParams) ([]*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domainbooking.Booking, 0)
	for _, b := range r.byID {
		if b.Deleted {
			continue
		}
		if params.CustomerID != "" && b.CustomerID != params.CustomerID {
			continue
		}
		if params.CompanyID != "" && b.CompanyID != params.CompanyID {
			continue
		}
		if params.CarID != "" && b.CarID != params.CarID {
			continue
		}
		if len(params.Statuses) > 0 && !statusIncluded(b.TripStatus, params.Statuses) {
			continue
		}
		clone := *b
		matches = append(matches, &clone)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return paginate(matches, params.Offset, params.Limit), nil
}

// CompanyRepository stores rental companies in memory.
type CompanyRepository struct {
	mu    sync.RWMutex
	items map[domaincar.CompanyID]*domaincompany.Company
}

func NewCompanyRepository() *CompanyRepository {
	return &CompanyRepository{items: make(map[domaincar.CompanyID]*domaincompany.Company)}
}

func (r *CompanyRepository) ByID(ctx context.Context, id domaincar.CompanyID) (*domaincompany.Company, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.items[id]
	if !ok {
		return nil, domaincompany.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *CompanyRepository) Save(ctx context.Context, c *domaincompany.Company) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c.Version++
	clone := *c
	r.items[c.ID] = &clone
	return nil
}

func (r *CompanyRepository) List(ctx context.Context, params domaincompany.ListParams) ([]*domaincompany.Company, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	matches := make([]*domaincompany.Company, 0, len(r.items))
	for _, c := range r.items {
		if c.Deleted {
			continue
		}
		if params.OnlyActive && !c.ServiceActive {
			continue
		}
		clone := *c
		matches = append(matches, &clone)
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].Name < matches[j].Name
	})
	total := len(matches)
	return paginate(matches, params.Offset, params.Limit), total, nil
}

type handoverKey struct {
	number string
	leg    domainhandover.Leg
}

// HandoverRepository stores leg completion records keyed by booking
// number and leg, so a resubmission overwrites the prior record.
type HandoverRepository struct {
	mu    sync.RWMutex
	items map[handoverKey]*domainhandover.Record
}

func NewHandoverRepository() *HandoverRepository {
	return &HandoverRepository{items: make(map[handoverKey]*domainhandover.Record)}
}

func (r *HandoverRepository) ByBookingAndLeg(ctx context.Context, number string, leg domainhandover.Leg) (*domainhandover.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.items[handoverKey{number: number, leg: leg}]
	if !ok {
		return nil, domainhandover.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *HandoverRepository) Upsert(ctx context.Context, rec *domainhandover.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := handoverKey{number: rec.BookingNumber, leg: rec.Leg}
	if prior, ok := r.items[key]; ok {
		rec.CreatedAt = prior.CreatedAt
	}
	clone := *rec
	r.items[key] = &clone
	return nil
}

func (r *HandoverRepository) ListByBooking(ctx context.Context, number string) ([]*domainhandover.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainhandover.Record, 0, 4)
	for key, rec := range r.items {
		if key.number != number {
			continue
		}
		clone := *rec
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out, nil
}

// AssignmentRepository mirrors booking trip status per agent assignment.
type AssignmentRepository struct {
	mu       sync.RWMutex
	byNumber map[string]*domainagent.Assignment
}

func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{byNumber: make(map[string]*domainagent.Assignment)}
}

func (r *AssignmentRepository) ByBookingNumber(ctx context.Context, number string) (*domainagent.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.byNumber[number]
	if !ok || a.Deleted {
		return nil, domainagent.ErrAssignmentNotFound
	}
	clone := *a
	return &clone, nil
}

func (r *AssignmentRepository) Save(ctx context.Context, a *domainagent.Assignment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *a
	r.byNumber[a.BookingNumber] = &clone
	return nil
}

func (r *AssignmentRepository) ListByAgent(ctx context.Context, agentID string) ([]*domainagent.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainagent.Assignment, 0)
	for _, a := range r.byNumber {
		if a.AgentID != agentID {
			continue
		}
		clone := *a
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].AssignedAt.After(out[j].AssignedAt)
	})
	return out, nil
}

func (r *AssignmentRepository) SyncTripStatus(ctx context.Context, number string, status domainbooking.TripStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.byNumber[number]
	if !ok || a.Deleted {
		return domainagent.ErrAssignmentNotFound
	}
	a.TripStatus = status
	return nil
}

// CouponRepository stores coupons in memory.
type CouponRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domaincoupon.Coupon
	byCode map[string]string
}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{
		byID:   make(map[string]*domaincoupon.Coupon),
		byCode: make(map[string]string),
	}
}

func (r *CouponRepository) ByID(ctx context.Context, id string) (*domaincoupon.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.byID[id]
	if !ok {
		return nil, domaincoupon.ErrNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *CouponRepository) ByCode(ctx context.Context, code string) (*domaincoupon.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byCode[domaincoupon.NormalizeCode(code)]
	if !ok {
		return nil, domaincoupon.ErrNotFound
	}
	clone := *r.byID[id]
	return &clone, nil
}

func (r *CouponRepository) Save(ctx context.Context, c *domaincoupon.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *c
	r.byID[c.ID] = &clone
	r.byCode[c.Code] = c.ID
	return nil
}

func (r *CouponRepository) List(ctx context.Context, companyID domaincar.CompanyID) ([]*domaincoupon.Coupon, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domaincoupon.Coupon, 0)
	for _, c := range r.byID {
		if companyID != "" && c.CompanyID != companyID {
			continue
		}
		clone := *c
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func statusIncluded(status domainbooking.TripStatus, statuses []domainbooking.TripStatus) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
