package memory

import (
	"context"
	"sort"
	"sync"

	domaincar "fleetrent/internal/domain/car"
	domainreport "fleetrent/internal/domain/report"
	domainreview "fleetrent/internal/domain/review"
)

// ReviewRepository stores car reviews in memory.
type ReviewRepository struct {
	mu   sync.RWMutex
	byID map[domainreview.ID]*domainreview.Review
}

func NewReviewRepository() *ReviewRepository {
	return &ReviewRepository{byID: make(map[domainreview.ID]*domainreview.Review)}
}

func (r *ReviewRepository) ByID(ctx context.Context, id domainreview.ID) (*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	review, ok := r.byID[id]
	if !ok {
		return nil, domainreview.ErrNotFound
	}
	clone := *review
	return &clone, nil
}

func (r *ReviewRepository) ByCarAndCustomer(ctx context.Context, carID domaincar.ID, customerID string) (*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, review := range r.byID {
		if review.CarID == carID && review.CustomerID == customerID {
			clone := *review
			return &clone, nil
		}
	}
	return nil, domainreview.ErrNotFound
}

func (r *ReviewRepository) ListByCar(ctx context.Context, carID domaincar.ID) ([]*domainreview.Review, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreview.Review, 0)
	for _, review := range r.byID {
		if review.CarID != carID {
			continue
		}
		clone := *review
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ReviewRepository) Save(ctx context.Context, review *domainreview.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *review
	clone.ClearEvents()
	r.byID[review.ID] = &clone
	return nil
}

// ReportRepository stores car issue reports in memory.
type ReportRepository struct {
	mu   sync.RWMutex
	byID map[domainreport.ID]*domainreport.Report
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{byID: make(map[domainreport.ID]*domainreport.Report)}
}

func (r *ReportRepository) ByID(ctx context.Context, id domainreport.ID) (*domainreport.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	report, ok := r.byID[id]
	if !ok {
		return nil, domainreport.ErrNotFound
	}
	clone := *report
	return &clone, nil
}

func (r *ReportRepository) ByCarReporterAndType(ctx context.Context, carID domaincar.ID, reporterID, reportType string) (*domainreport.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reportType = domainreport.NormalizeType(reportType)
	for _, report := range r.byID {
		if report.CarID == carID && report.ReporterID == reporterID && report.Type == reportType {
			clone := *report
			return &clone, nil
		}
	}
	return nil, domainreport.ErrNotFound
}

func (r *ReportRepository) ListByReporter(ctx context.Context, reporterID string) ([]*domainreport.Report, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainreport.Report, 0)
	for _, report := range r.byID {
		if report.ReporterID != reporterID {
			continue
		}
		clone := *report
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *ReportRepository) Save(ctx context.Context, report *domainreport.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *report
	r.byID[report.ID] = &clone
	return nil
}
