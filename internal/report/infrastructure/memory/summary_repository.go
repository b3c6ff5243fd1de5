package memory

import (
	"context"
	"sort"
	"sync"

	report "energy-report/internal/report/domain"
)

// SummaryRepository is an in-memory summary store used when no database is configured.
type SummaryRepository struct {
	mu   sync.RWMutex
	data map[string]report.Summary
}

// NewSummaryRepository constructs a repository.
func NewSummaryRepository() *SummaryRepository {
	return &SummaryRepository{
		data: make(map[string]report.Summary),
	}
}

// Save stores a copy of summary, replacing any previous one for the house.
func (r *SummaryRepository) Save(ctx context.Context, summary *report.Summary) error {
	_ = ctx
	if err := summary.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[summary.HouseID] = *summary
	return nil
}

// Get loads the summary for houseID.
func (r *SummaryRepository) Get(ctx context.Context, houseID string) (*report.Summary, error) {
	_ = ctx
	if houseID == "" {
		return nil, report.ErrEmptyHouseID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	summary, ok := r.data[houseID]
	if !ok {
		return nil, report.ErrSummaryNotFound
	}
	return &summary, nil
}

// List returns all summaries ordered by house id.
func (r *SummaryRepository) List(ctx context.Context) []report.Summary {
	_ = ctx
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]report.Summary, 0, len(r.data))
	for _, summary := range r.data {
		result = append(result, summary)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].HouseID < result[j].HouseID })
	return result
}
