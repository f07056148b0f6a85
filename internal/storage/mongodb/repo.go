// Package mongodb is the MongoDB Repository: the dealerships and reviews
// collections plus a counters collection holding the review id sequence.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"dealer_reviews/internal/adapters/observability"
	"dealer_reviews/internal/domain"
)

const (
	DealershipsCollection = "dealerships"
	ReviewsCollection     = "reviews"
	CountersCollection    = "counters"

	reviewSeqID = "reviews"

	// a lost counter document is detected as a duplicate key on insert
	maxInsertAttempts = 3
)

var (
	dealershipsDef = CollectionDefinition{
		Name:    DealershipsCollection,
		Indexes: []IndexDescription{NewIndexDescription(false, "id"), NewIndexDescription(false, "state")},
	}
	reviewsDef = CollectionDefinition{
		Name:    ReviewsCollection,
		Indexes: []IndexDescription{NewIndexDescription(true, "id"), NewIndexDescription(false, "dealership")},
	}
	countersDef = CollectionDefinition{Name: CountersCollection}
)

type Repo struct {
	dealers  *mongo.Collection
	reviews  *mongo.Collection
	counters *mongo.Collection
}

// Open prepares the collections and brings the review sequence up to the
// current maximum id.
func Open(ctx context.Context, a *Access) (*Repo, error) {
	r := &Repo{}
	var err error
	if r.dealers, err = a.Collection(ctx, dealershipsDef); err != nil {
		return nil, err
	}
	if r.reviews, err = a.Collection(ctx, reviewsDef); err != nil {
		return nil, err
	}
	if r.counters, err = a.Collection(ctx, countersDef); err != nil {
		return nil, err
	}
	if err := r.syncReviewSeq(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrStorage, err)
}

func observe(collection, op string, start time.Time, err error) {
	observability.ObserveStore(collection, op, err, time.Since(start))
}

func (r *Repo) ListDealerships(ctx context.Context, f domain.DealershipFilter) (out []domain.Dealership, err error) {
	defer func(t time.Time) { observe(DealershipsCollection, "list", t, err) }(time.Now())
	filter := bson.D{}
	if f.State != nil {
		filter = bson.D{{Key: "state", Value: *f.State}}
	}
	return findAll[domain.Dealership](ctx, r.dealers, filter)
}

func (r *Repo) FindDealerships(ctx context.Context, id int64) (out []domain.Dealership, err error) {
	defer func(t time.Time) { observe(DealershipsCollection, "find", t, err) }(time.Now())
	return findAll[domain.Dealership](ctx, r.dealers, bson.D{{Key: "id", Value: id}})
}

func (r *Repo) ListReviews(ctx context.Context, dealershipID *int64) (out []domain.Review, err error) {
	defer func(t time.Time) { observe(ReviewsCollection, "list", t, err) }(time.Now())
	filter := bson.D{}
	if dealershipID != nil {
		filter = bson.D{{Key: "dealership", Value: *dealershipID}}
	}
	return findAll[domain.Review](ctx, r.reviews, filter)
}

func findAll[T any](ctx context.Context, c *mongo.Collection, filter bson.D) ([]T, error) {
	cur, err := c.Find(ctx, filter)
	if err != nil {
		return nil, storageErr("find "+c.Name(), err)
	}
	out := make([]T, 0)
	if err := cur.All(ctx, &out); err != nil {
		return nil, storageErr("decode "+c.Name(), err)
	}
	return out, nil
}

func (r *Repo) InsertReview(ctx context.Context, nr domain.NewReview) (rv domain.Review, err error) {
	defer func(t time.Time) { observe(ReviewsCollection, "insert", t, err) }(time.Now())
	for attempt := 1; ; attempt++ {
		id, err := r.nextReviewID(ctx)
		if err != nil {
			return domain.Review{}, err
		}
		rv = nr.WithID(id)
		_, err = r.reviews.InsertOne(ctx, rv)
		if err == nil {
			return rv, nil
		}
		if !IsDuplicate(err) || attempt == maxInsertAttempts {
			return domain.Review{}, storageErr("insert review", err)
		}
		if err := r.syncReviewSeq(ctx); err != nil {
			return domain.Review{}, err
		}
	}
}

// nextReviewID advances the sequence atomically on the server.
func (r *Repo) nextReviewID(ctx context.Context) (int64, error) {
	var c struct {
		Seq int64 `bson:"seq"`
	}
	err := r.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: reviewSeqID}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&c)
	if err != nil {
		return 0, storageErr("advance review sequence", err)
	}
	return c.Seq, nil
}

// syncReviewSeq raises the sequence to the current max review id. $max never
// lowers it, so a concurrent insert is never handed an id twice.
func (r *Repo) syncReviewSeq(ctx context.Context) error {
	top, err := r.maxReviewID(ctx)
	if err != nil {
		return err
	}
	_, err = r.counters.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: reviewSeqID}},
		bson.D{{Key: "$max", Value: bson.D{{Key: "seq", Value: top}}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return storageErr("sync review sequence", err)
	}
	return nil
}

func (r *Repo) maxReviewID(ctx context.Context) (int64, error) {
	var doc struct {
		ID int64 `bson:"id"`
	}
	err := r.reviews.FindOne(ctx, bson.D{},
		options.FindOne().SetSort(bson.D{{Key: "id", Value: -1}}).SetProjection(bson.D{{Key: "id", Value: 1}}),
	).Decode(&doc)
	if IsNotFound(err) {
		return 0, nil
	}
	if err != nil {
		return 0, storageErr("max review id", err)
	}
	return doc.ID, nil
}

func (r *Repo) ReplaceDealerships(ctx context.Context, ds []domain.Dealership) (err error) {
	defer func(t time.Time) { observe(DealershipsCollection, "replace", t, err) }(time.Now())
	return replaceAll(ctx, r.dealers, ds)
}

// ReplaceReviews resets the sequence with $set since the new max may be lower.
func (r *Repo) ReplaceReviews(ctx context.Context, rs []domain.Review) (err error) {
	defer func(t time.Time) { observe(ReviewsCollection, "replace", t, err) }(time.Now())
	if err := replaceAll(ctx, r.reviews, rs); err != nil {
		return err
	}
	_, err = r.counters.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: reviewSeqID}},
		bson.D{{Key: "$set", Value: bson.D{{Key: "seq", Value: domain.MaxReviewID(rs)}}}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return storageErr("reset review sequence", err)
	}
	return nil
}

func replaceAll[T any](ctx context.Context, c *mongo.Collection, items []T) error {
	if _, err := c.DeleteMany(ctx, bson.D{}); err != nil {
		return storageErr("clear "+c.Name(), err)
	}
	if len(items) == 0 {
		return nil
	}
	docs := make([]interface{}, len(items))
	for i := range items {
		docs[i] = items[i]
	}
	if _, err := c.InsertMany(ctx, docs); err != nil {
		return storageErr("insert "+c.Name(), err)
	}
	return nil
}
