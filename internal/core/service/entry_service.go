package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forgeline/qc-system/internal/core/domain"
	"github.com/forgeline/qc-system/internal/core/ports"
)

// EntryService implements entry-department use cases on top of the bucket store.
type EntryService struct {
	buckets ports.BucketRepository
	log     zerolog.Logger
}

func NewEntryService(buckets ports.BucketRepository, log zerolog.Logger) *EntryService {
	return &EntryService{buckets: buckets, log: log}
}

// Create appends a new test entry to the bucket for the given date, creating
// the bucket on first write for that day.
func (s *EntryService) Create(ctx context.Context, input ports.CreateEntryInput) (*domain.DatedEntry, error) {
	day, err := domain.ParseDay(input.Date)
	if err != nil {
		return nil, err
	}

	bucket, err := s.buckets.EnsureBucket(ctx, input.Department, day)
	if err != nil {
		return nil, err
	}

	entry := domain.Entry{
		ID:            primitive.NewObjectID(),
		PartName:      input.PartName,
		DateCode:      input.DateCode,
		Specification: input.Specification,
		Observed:      input.Observed,
		Result:        input.Result,
		Remarks:       input.Remarks,
		Shift:         input.Shift,
		Operator:      input.Operator,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.buckets.AppendEntry(ctx, input.Department, bucket.ID, &entry); err != nil {
		s.log.Error().Err(err).Str("department", string(input.Department)).Msg("append entry failed")
		return nil, err
	}

	s.log.Info().
		Str("department", string(input.Department)).
		Str("date", input.Date).
		Str("entry_id", entry.ID.Hex()).
		Msg("entry created")

	return &domain.DatedEntry{Date: bucket.Date, Entry: entry}, nil
}

// Update assigns allow-listed fields onto the embedded entry. Fields outside
// the allow-list, or carrying the wrong value type, reject the whole request.
func (s *EntryService) Update(ctx context.Context, dept domain.Department, entryID string, fields map[string]any) (*domain.Entry, error) {
	id, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		return nil, domain.ErrEntryNotFound
	}

	update, err := domain.ValidateEntryUpdate(fields)
	if err != nil {
		return nil, err
	}
	if len(update) > 0 {
		if err := s.buckets.UpdateEntry(ctx, dept, id, update); err != nil {
			return nil, err
		}
	}

	bucket, err := s.buckets.FindBucketByEntry(ctx, dept, id)
	if err != nil {
		return nil, err
	}
	for i := range bucket.Entries {
		if bucket.Entries[i].ID == id {
			return &bucket.Entries[i], nil
		}
	}
	return nil, domain.ErrEntryNotFound
}

func (s *EntryService) Delete(ctx context.Context, dept domain.Department, entryID string) error {
	id, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		return domain.ErrEntryNotFound
	}
	return s.buckets.DeleteEntry(ctx, dept, id)
}

// CurrentDate returns today's bucket, creating it when absent so the shift's
// form always has a document to write into.
func (s *EntryService) CurrentDate(ctx context.Context, dept domain.Department) (*domain.DateBucket, error) {
	return s.buckets.EnsureBucket(ctx, dept, domain.Today())
}

func (s *EntryService) GetByDate(ctx context.Context, dept domain.Department, date string) (*domain.DateBucket, error) {
	day, err := domain.ParseDay(date)
	if err != nil {
		return nil, err
	}
	bucket, err := s.buckets.FindByDay(ctx, dept, day)
	if err != nil {
		if errors.Is(err, domain.ErrBucketNotFound) {
			// No writes yet that day: an empty bucket view, not a 404.
			return domain.NewBucket(day), nil
		}
		return nil, err
	}
	return bucket, nil
}

// Filter flattens entries across the range, annotating each with its parent
// bucket date for traceability.
func (s *EntryService) Filter(ctx context.Context, dept domain.Department, r ports.DateRangeInput) ([]domain.DatedEntry, error) {
	from, to, err := resolveRange(r)
	if err != nil {
		return nil, err
	}
	buckets, err := s.buckets.FindRange(ctx, dept, from, to)
	if err != nil {
		return nil, err
	}

	entries := []domain.DatedEntry{}
	for _, b := range buckets {
		for _, e := range b.Entries {
			entries = append(entries, domain.DatedEntry{Date: b.Date, Entry: e})
		}
	}
	return entries, nil
}

// Grouped returns the buckets of the range with their entries intact,
// newest date first.
func (s *EntryService) Grouped(ctx context.Context, dept domain.Department, r ports.DateRangeInput) ([]*domain.DateBucket, error) {
	from, to, err := resolveRange(r)
	if err != nil {
		return nil, err
	}
	return s.buckets.FindRange(ctx, dept, from, to)
}

// resolveRange turns the optional start/end strings into inclusive bounds.
// Start-only ranges extend through 23:59:59.999 UTC of the start day; a fully
// empty range covers everything.
func resolveRange(r ports.DateRangeInput) (time.Time, time.Time, error) {
	var from, to time.Time

	if r.Start != "" {
		day, err := domain.ParseDay(r.Start)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		from = day
		to = domain.EndOfDay(day)
	}
	if r.End != "" {
		day, err := domain.ParseDay(r.End)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		to = domain.EndOfDay(day)
		if r.Start == "" {
			from = time.Time{}
		}
	}
	if r.Start == "" && r.End == "" {
		from = time.Time{}
		to = domain.EndOfDay(time.Now().UTC())
	}
	return from, to, nil
}
