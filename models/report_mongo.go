package models

import (
	"context"
	"forum-core/apperror"
	"forum-core/helpers"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoReportStore keeps the moderation queue in the document store
type MongoReportStore struct {
	Collection *mongo.Collection
}

// Insert implements ReportStore
func (s *MongoReportStore) Insert(ctx context.Context, report *Report) error {
	_, err := s.Collection.InsertOne(ctx, report)
	return err
}

// ResolveOpen implements ReportStore.
// The conditional filter is the atomicity: only an open report matches, so
// the second of two racing resolutions cannot write (and cannot reset anything).
func (s *MongoReportStore) ResolveOpen(ctx context.Context, reportID string, resolverID string, at time.Time) (*Report, error) {

	filter := bson.D{
		{Key: "_id", Value: helpers.ObjectID(reportID)},
		{Key: "done", Value: false},
	}

	fields := bson.D{
		{Key: "$set", Value: bson.D{
			{Key: "done", Value: true},
			{Key: "resolvedId", Value: helpers.ObjectID(resolverID)},
			{Key: "resolvedAt", Value: at},
		}},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	report := new(Report)
	err := s.Collection.FindOneAndUpdate(ctx, filter, fields, opts).Decode(report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.ErrNoData
		}
		return nil, err
	}

	return report, nil
}

// Get implements ReportStore
func (s *MongoReportStore) Get(ctx context.Context, reportID string) (*Report, error) {

	filter := bson.D{{Key: "_id", Value: helpers.ObjectID(reportID)}}

	report := new(Report)
	err := s.Collection.FindOne(ctx, filter).Decode(report)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.ErrNoData
		}
		return nil, err
	}

	return report, nil
}

// ListPending implements ReportStore (oldest first)
func (s *MongoReportStore) ListPending(ctx context.Context, limit int64) ([]Report, error) {

	filter := bson.D{{Key: "done", Value: false}}

	sort := bson.D{{Key: "createdAt", Value: 1}}

	opts := options.Find().SetSort(sort).SetLimit(limit)

	cursor, err := s.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var reports []Report
	err = cursor.All(ctx, &reports)
	if err != nil {
		return nil, err
	}

	return reports, nil
}
