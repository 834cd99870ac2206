package ports

import (
	"context"

	"github.com/forgeline/qc-system/internal/core/domain"
)

// CreateEntryInput carries a new test result destined for a date bucket.
type CreateEntryInput struct {
	Department    domain.Department
	Date          string // YYYY-MM-DD
	PartName      string
	DateCode      string
	Specification float64
	Observed      string
	Result        string
	Remarks       string
	Shift         string
	Operator      string
}

// DateRangeInput carries the optional bounds of a range query. An empty End
// extends the range through the end of the Start day.
type DateRangeInput struct {
	Start string
	End   string
}

// EntryService defines the use cases of entry-shaped departments.
type EntryService interface {
	Create(ctx context.Context, input CreateEntryInput) (*domain.DatedEntry, error)
	Update(ctx context.Context, dept domain.Department, entryID string, fields map[string]any) (*domain.Entry, error)
	Delete(ctx context.Context, dept domain.Department, entryID string) error

	// CurrentDate returns today's bucket, creating it when absent.
	CurrentDate(ctx context.Context, dept domain.Department) (*domain.DateBucket, error)
	GetByDate(ctx context.Context, dept domain.Department, date string) (*domain.DateBucket, error)
	// Filter flattens entries across the range, each annotated with its
	// parent bucket date.
	Filter(ctx context.Context, dept domain.Department, r DateRangeInput) ([]domain.DatedEntry, error)
	// Grouped returns the buckets of the range with entries intact.
	Grouped(ctx context.Context, dept domain.Department, r DateRangeInput) ([]*domain.DateBucket, error)
}
