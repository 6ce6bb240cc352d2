package models

import (
	"context"
	"forum-core/helpers"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// RateRecord is the stored per-address hit counter.
// A record whose window elapsed is logically absent - every filter below
// carries the cutoff, so readers never see stale windows (lazy expiry).
type RateRecord struct {
	Address     string    `json:"address" bson:"_id"`
	Hits        int64     `json:"hits" bson:"hits"`
	WindowStart time.Time `json:"windowStart" bson:"windowStart"`
}

// MongoHitStore keeps the hit counters in the document store.
// All mutations are conditional single-document updates; there is no
// read-then-write pair anywhere, so concurrent requests cannot lose
// increments or silently reset a window.
type MongoHitStore struct {
	Collection *mongo.Collection
	Now        helpers.Clock
}

// Hit implements HitStore
func (s *MongoHitStore) Hit(ctx context.Context, address string, window time.Duration, cap int64) (int64, bool, error) {

	now := s.now()
	cutoff := now.Add(-window)

	// 1. increment within a live window, guarded by the cap
	rec, err := s.increment(ctx, address, cutoff, cap)
	if err == nil {
		return rec.Hits, true, nil
	}
	if err != mongo.ErrNoDocuments {
		return 0, false, err
	}

	// 2. no live match - take over an elapsed window (supersedes the old record)
	rec, err = s.restart(ctx, address, cutoff, now)
	if err == nil {
		return rec.Hits, true, nil
	}
	if err != mongo.ErrNoDocuments {
		return 0, false, err
	}

	// 3. first request from this address
	_, err = s.Collection.InsertOne(ctx, RateRecord{Address: address, Hits: 1, WindowStart: now})
	if err == nil {
		return 1, true, nil
	}
	if !isDuplicateKey(err) {
		return 0, false, err
	}

	// 4. lost the creation race against a concurrent request;
	// the record exists and is live now, so count against it once more
	rec, err = s.increment(ctx, address, cutoff, cap)
	if err == nil {
		return rec.Hits, true, nil
	}
	if err != mongo.ErrNoDocuments {
		return 0, false, err
	}

	// live record at the cap - refused without mutation
	return cap, false, nil
}

// increment adds a hit to a live, not-yet-capped record
func (s *MongoHitStore) increment(ctx context.Context, address string, cutoff time.Time, cap int64) (*RateRecord, error) {

	filter := bson.D{
		{Key: "_id", Value: address},
		{Key: "windowStart", Value: bson.D{{Key: "$gt", Value: cutoff}}},
		{Key: "hits", Value: bson.D{{Key: "$lt", Value: cap}}},
	}

	fields := bson.D{
		{Key: "$inc", Value: bson.D{{Key: "hits", Value: 1}}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	rec := new(RateRecord)
	err := s.Collection.FindOneAndUpdate(ctx, filter, fields, opts).Decode(rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// restart begins a fresh window on top of an elapsed record
func (s *MongoHitStore) restart(ctx context.Context, address string, cutoff time.Time, now time.Time) (*RateRecord, error) {

	filter := bson.D{
		{Key: "_id", Value: address},
		{Key: "windowStart", Value: bson.D{{Key: "$lte", Value: cutoff}}},
	}

	fields := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "hits", Value: 1},
			{Key: "windowStart", Value: now},
		}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	rec := new(RateRecord)
	err := s.Collection.FindOneAndUpdate(ctx, filter, fields, opts).Decode(rec)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Sweep deletes records whose window elapsed. Purely an optimization to
// bound storage growth - correctness comes from the lazy-expiry filters.
// Usually called by a GO-routine that runs in a ticker.
func (s *MongoHitStore) Sweep() (int64, error) {

	filter := bson.D{
		{Key: "windowStart", Value: bson.D{{Key: "$lte", Value: s.now().Add(-RateLimitWindow)}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	res, err := s.Collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}
	return res.DeletedCount, nil
}

func (s *MongoHitStore) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// isDuplicateKey detects the E11000 unique-index violation
// (mongo-driver has no predicate for this in the pinned version)
func isDuplicateKey(err error) bool {
	we, ok := err.(mongo.WriteException)
	if !ok {
		return false
	}
	for _, e := range we.WriteErrors {
		if e.Code == 11000 {
			return true
		}
	}
	return false
}
