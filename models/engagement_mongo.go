package models

import (
	"context"
	"forum-core/apperror"
	"forum-core/helpers"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoContentStore applies the ledger primitives on the content documents.
// Every mutation is a single conditional single-document update - fetching
// the document, changing it in memory and writing it back would lose
// concurrent updates, so that pattern is banned here.
type MongoContentStore struct {
	// one collection per target type
	Collections map[string]*mongo.Collection
}

// Inc implements ContentStore
func (s *MongoContentStore) Inc(ctx context.Context, targetType string, targetID string, field string) error {

	col, err := s.collection(targetType)
	if err != nil {
		return err
	}

	filter := bson.D{{Key: "_id", Value: helpers.ObjectID(targetID)}}

	fields := bson.D{
		{Key: "$inc", Value: bson.D{{Key: field, Value: 1}}},
	}

	result, err := col.UpdateOne(ctx, filter, fields)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperror.ErrNoData
	}

	return nil
}

// SetInsert implements ContentStore.
// Filter and $addToSet together form the atomic membership check: a document
// that already contains the user simply doesn't match, so a concurrent
// duplicate request cannot insert a second entry.
func (s *MongoContentStore) SetInsert(ctx context.Context, targetType string, targetID string, field string, userID string) error {

	col, err := s.collection(targetType)
	if err != nil {
		return err
	}

	// the $ne clause is the precondition - there is no separate membership read
	filter := bson.D{
		{Key: "_id", Value: helpers.ObjectID(targetID)},
		{Key: field, Value: bson.D{{Key: "$ne", Value: userID}}},
	}

	fields := bson.D{
		{Key: "$addToSet", Value: bson.D{{Key: field, Value: userID}}},
	}

	result, err := col.UpdateOne(ctx, filter, fields)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// no match means precondition failed OR missing document
		return s.missOrConflict(ctx, col, targetID)
	}

	return nil
}

// SetRemove implements ContentStore (the mirror of SetInsert)
func (s *MongoContentStore) SetRemove(ctx context.Context, targetType string, targetID string, field string, userID string) error {

	col, err := s.collection(targetType)
	if err != nil {
		return err
	}

	filter := bson.D{
		{Key: "_id", Value: helpers.ObjectID(targetID)},
		{Key: field, Value: userID},
	}

	fields := bson.D{
		{Key: "$pull", Value: bson.D{{Key: field, Value: userID}}},
	}

	result, err := col.UpdateOne(ctx, filter, fields)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return s.missOrConflict(ctx, col, targetID)
	}

	return nil
}

// SetUpdated implements ContentStore (unconditional overwrite)
func (s *MongoContentStore) SetUpdated(ctx context.Context, targetType string, targetID string, updated Updated) error {

	col, err := s.collection(targetType)
	if err != nil {
		return err
	}

	filter := bson.D{{Key: "_id", Value: helpers.ObjectID(targetID)}}

	fields := bson.D{
		{Key: "$set", Value: bson.D{{Key: "updated", Value: updated}}},
	}

	result, err := col.UpdateOne(ctx, filter, fields)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return apperror.ErrNoData // document might have been deleted
	}

	return nil
}

// missOrConflict distinguishes "precondition failed" from "document gone".
// Only reached after the atomic update matched nothing, so this read
// cannot race the mutation itself.
func (s *MongoContentStore) missOrConflict(ctx context.Context, col *mongo.Collection, targetID string) error {

	fields := bson.D{{Key: "_id", Value: 1}}

	data := struct {
		ID primitive.ObjectID `bson:"_id"`
	}{}

	err := col.FindOne(ctx, bson.D{{Key: "_id", Value: helpers.ObjectID(targetID)}},
		options.FindOne().SetProjection(fields)).Decode(&data)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return apperror.ErrNoData
		}
		return err
	}

	return apperror.ErrConflict
}

func (s *MongoContentStore) collection(targetType string) (*mongo.Collection, error) {
	col, ok := s.Collections[targetType]
	if !ok {
		return nil, ErrInvalidTarget
	}
	return col, nil
}
