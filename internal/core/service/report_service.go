package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forgeline/qc-system/internal/core/domain"
	"github.com/forgeline/qc-system/internal/core/ports"
)

// ReportService implements section-department use cases: named-section merges
// and range reads over section buckets.
type ReportService struct {
	buckets ports.BucketRepository
	log     zerolog.Logger
}

func NewReportService(buckets ports.BucketRepository, log zerolog.Logger) *ReportService {
	return &ReportService{buckets: buckets, log: log}
}

// MergeSection finds-or-creates the date bucket and merges the payload into
// the named section per its registered kind. The write uses per-field update
// operators, so merges to sibling fields of the same section cannot clobber
// each other.
func (s *ReportService) MergeSection(ctx context.Context, input ports.MergeSectionInput) (*domain.DateBucket, error) {
	def, err := input.Department.Section(input.Section)
	if err != nil {
		return nil, err
	}
	day, err := domain.ParseDay(input.Date)
	if err != nil {
		return nil, err
	}

	bucket, err := s.buckets.EnsureBucket(ctx, input.Department, day)
	if err != nil {
		return nil, err
	}

	update, merged, err := domain.BuildSectionUpdate(def, bucket.Sections, input.Payload)
	if err != nil {
		return nil, err
	}
	if !update.IsEmpty() {
		if err := s.buckets.ApplySectionUpdate(ctx, input.Department, bucket.ID, update); err != nil {
			s.log.Error().Err(err).
				Str("department", string(input.Department)).
				Str("section", input.Section).
				Msg("section merge failed")
			return nil, err
		}
	}

	s.log.Info().
		Str("department", string(input.Department)).
		Str("date", input.Date).
		Str("section", input.Section).
		Msg("section merged")

	if bucket.Sections == nil {
		bucket.Sections = map[string]any{}
	}
	bucket.Sections[def.Name] = merged
	return bucket, nil
}

func (s *ReportService) CurrentDate(ctx context.Context, dept domain.Department) (*domain.DateBucket, error) {
	return s.buckets.EnsureBucket(ctx, dept, domain.Today())
}

func (s *ReportService) GetByDate(ctx context.Context, dept domain.Department, date string) (*domain.DateBucket, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return nil, err
	}
	bucket, err := s.buckets.FindByDay(ctx, dept, day)
	if err != nil {
		if errors.Is(err, domain.ErrBucketNotFound) {
			return domain.NewBucket(day), nil
		}
		return nil, err
	}
	return bucket, nil
}

func (s *ReportService) Range(ctx context.Context, dept domain.Department, r ports.DateRangeInput) ([]*domain.DateBucket, error) {
	from, to, err := resolveRange(r)
	if err != nil {
		return nil, err
	}
	return s.buckets.FindRange(ctx, dept, from, to)
}

func (s *ReportService) DeleteBucket(ctx context.Context, dept domain.Department, bucketID string) error {
	id, err := primitive.ObjectIDFromHex(bucketID)
	if err != nil {
		return domain.ErrBucketNotFound
	}
	return s.buckets.DeleteBucket(ctx, dept, id)
}
