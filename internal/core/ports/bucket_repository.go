package ports

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forgeline/qc-system/internal/core/domain"
)

// BucketRepository defines persistence operations over per-day date buckets.
// Every method is scoped to one department collection.
type BucketRepository interface {
	// EnsureBucket finds the bucket for the given UTC-midnight day, creating
	// an empty one on miss. Implementations must resolve the concurrent
	// find-or-create race against the unique date index by re-reading the
	// winner, never by surfacing the duplicate-key error.
	EnsureBucket(ctx context.Context, dept domain.Department, day time.Time) (*domain.DateBucket, error)

	// FindByDay returns the bucket for the day or domain.ErrBucketNotFound.
	FindByDay(ctx context.Context, dept domain.Department, day time.Time) (*domain.DateBucket, error)

	// FindRange returns buckets with from <= date <= to, newest first.
	FindRange(ctx context.Context, dept domain.Department, from, to time.Time) ([]*domain.DateBucket, error)

	AppendEntry(ctx context.Context, dept domain.Department, bucketID primitive.ObjectID, entry *domain.Entry) error

	// FindBucketByEntry locates the bucket owning the embedded entry id.
	FindBucketByEntry(ctx context.Context, dept domain.Department, entryID primitive.ObjectID) (*domain.DateBucket, error)

	// UpdateEntry applies the given field set to the embedded entry.
	UpdateEntry(ctx context.Context, dept domain.Department, entryID primitive.ObjectID, fields map[string]any) error

	// DeleteEntry pulls the embedded entry from its parent bucket.
	DeleteEntry(ctx context.Context, dept domain.Department, entryID primitive.ObjectID) error

	// ApplySectionUpdate writes a merge plan with per-field update operators.
	ApplySectionUpdate(ctx context.Context, dept domain.Department, bucketID primitive.ObjectID, update domain.SectionUpdate) error

	// DeleteBucket removes a whole bucket by id (admin path only).
	DeleteBucket(ctx context.Context, dept domain.Department, bucketID primitive.ObjectID) error

	// EnsureIndexes creates the unique per-date index for every department.
	EnsureIndexes(ctx context.Context) error
}
