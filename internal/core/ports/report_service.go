package ports

import (
	"context"

	"github.com/forgeline/qc-system/internal/core/domain"
)

// MergeSectionInput is the (date, section, payload) triple of a table-update
// request against a section-shaped department.
type MergeSectionInput struct {
	Department domain.Department
	Date       string // YYYY-MM-DD
	Section    string
	Payload    any
}

// ReportService defines the use cases of section-shaped departments.
type ReportService interface {
	MergeSection(ctx context.Context, input MergeSectionInput) (*domain.DateBucket, error)

	CurrentDate(ctx context.Context, dept domain.Department) (*domain.DateBucket, error)
	GetByDate(ctx context.Context, dept domain.Department, date string) (*domain.DateBucket, error)
	// Range serves both the grouped and filter routes; section buckets have
	// no sub-array to flatten.
	Range(ctx context.Context, dept domain.Department, r DateRangeInput) ([]*domain.DateBucket, error)
	DeleteBucket(ctx context.Context, dept domain.Department, bucketID string) error
}
