package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/forgeline/qc-system/internal/metrics"
	"github.com/forgeline/qc-system/internal/core/domain"
)

// BucketRepository implements ports.BucketRepository over one collection per
// department. Buckets are keyed by their UTC-midnight date with a unique
// index, which is what makes EnsureBucket safe under concurrent creation.
type BucketRepository struct {
	db *mongo.Database
}

func NewBucketRepository(db *mongo.Database) *BucketRepository {
	return &BucketRepository{db: db}
}

func (r *BucketRepository) coll(dept domain.Department) *mongo.Collection {
	return r.db.Collection(dept.Collection())
}

// EnsureBucket finds the bucket for the day, inserting an empty one on miss.
// When two requests race past the find, the unique date index fails the
// loser's insert with a duplicate-key error; the loser then re-reads the
// winner's document instead of failing the request.
func (r *BucketRepository) EnsureBucket(ctx context.Context, dept domain.Department, day time.Time) (*domain.DateBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	day = domain.TruncateToDay(day)

	bucket, err := r.findByDay(ctx, dept, day)
	if err == nil {
		return bucket, nil
	}
	if !errors.Is(err, domain.ErrBucketNotFound) {
		return nil, err
	}

	fresh := domain.NewBucket(day)
	res, err := r.coll(dept).InsertOne(ctx, fresh)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			metrics.BucketCreateRacesTotal.Inc()
			return r.findByDay(ctx, dept, day)
		}
		return nil, fmt.Errorf("insert bucket: %w", err)
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		fresh.ID = id
	}
	return fresh, nil
}

func (r *BucketRepository) FindByDay(ctx context.Context, dept domain.Department, day time.Time) (*domain.DateBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()
	return r.findByDay(ctx, dept, domain.TruncateToDay(day))
}

func (r *BucketRepository) findByDay(ctx context.Context, dept domain.Department, day time.Time) (*domain.DateBucket, error) {
	var bucket domain.DateBucket
	err := r.coll(dept).FindOne(ctx, bson.M{"date": day}).Decode(&bucket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrBucketNotFound
		}
		return nil, fmt.Errorf("find bucket: %w", err)
	}
	return &bucket, nil
}

// FindRange returns buckets with from <= date <= to, newest first. A zero
// from bound is open-ended.
func (r *BucketRepository) FindRange(ctx context.Context, dept domain.Department, from, to time.Time) ([]*domain.DateBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	dateFilter := bson.M{"$lte": to}
	if !from.IsZero() {
		dateFilter["$gte"] = from
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}})
	cur, err := r.coll(dept).Find(ctx, bson.M{"date": dateFilter}, opts)
	if err != nil {
		return nil, fmt.Errorf("find buckets: %w", err)
	}
	defer cur.Close(ctx)

	buckets := []*domain.DateBucket{}
	for cur.Next(ctx) {
		var b domain.DateBucket
		if err := cur.Decode(&b); err != nil {
			return nil, fmt.Errorf("decode bucket: %w", err)
		}
		buckets = append(buckets, &b)
	}
	return buckets, cur.Err()
}

func (r *BucketRepository) AppendEntry(ctx context.Context, dept domain.Department, bucketID primitive.ObjectID, entry *domain.Entry) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"entries": entry},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.coll(dept).UpdateByID(ctx, bucketID, update)
	if err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBucketNotFound
	}
	return nil
}

func (r *BucketRepository) FindBucketByEntry(ctx context.Context, dept domain.Department, entryID primitive.ObjectID) (*domain.DateBucket, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var bucket domain.DateBucket
	err := r.coll(dept).FindOne(ctx, bson.M{"entries._id": entryID}).Decode(&bucket)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEntryNotFound
		}
		return nil, fmt.Errorf("find bucket by entry: %w", err)
	}
	return &bucket, nil
}

// UpdateEntry applies the field set to the matched embedded entry via the
// positional operator.
func (r *BucketRepository) UpdateEntry(ctx context.Context, dept domain.Department, entryID primitive.ObjectID, fields map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range fields {
		set["entries.$."+k] = v
	}

	res, err := r.coll(dept).UpdateOne(ctx, bson.M{"entries._id": entryID}, bson.M{"$set": set})
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

func (r *BucketRepository) DeleteEntry(ctx context.Context, dept domain.Department, entryID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{
		"$pull": bson.M{"entries": bson.M{"_id": entryID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}
	res, err := r.coll(dept).UpdateOne(ctx, bson.M{"entries._id": entryID}, update)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrEntryNotFound
	}
	return nil
}

// ApplySectionUpdate writes the merge plan with per-field operators so two
// concurrent merges touching different fields both survive.
func (r *BucketRepository) ApplySectionUpdate(ctx context.Context, dept domain.Department, bucketID primitive.ObjectID, update domain.SectionUpdate) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	for path, v := range update.Set {
		set[path] = v
	}
	doc := bson.M{"$set": set}

	if len(update.Push) > 0 {
		push := bson.M{}
		for path, rows := range update.Push {
			push[path] = bson.M{"$each": rows}
		}
		doc["$push"] = push
	}

	res, err := r.coll(dept).UpdateByID(ctx, bucketID, doc)
	if err != nil {
		return fmt.Errorf("apply section update: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrBucketNotFound
	}
	return nil
}

func (r *BucketRepository) DeleteBucket(ctx context.Context, dept domain.Department, bucketID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.coll(dept).DeleteOne(ctx, bson.M{"_id": bucketID})
	if err != nil {
		return fmt.Errorf("delete bucket: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBucketNotFound
	}
	return nil
}

// EnsureIndexes creates the unique per-date index on every department
// collection. The uniqueness guarantee is what EnsureBucket's retry relies on.
func (r *BucketRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	for _, dept := range domain.AllDepartments {
		model := mongo.IndexModel{
			Keys:    bson.D{{Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		}
		if _, err := r.coll(dept).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("ensure %s date index: %w", dept, err)
		}
	}
	return nil
}
