package models

import (
	"context"
	"forum-core/apperror"
	"forum-core/helpers"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// VerificationToken is the stored record.
// No uniqueness constraint on Subject - multiple live tokens are allowed.
type VerificationToken struct {
	Token     string    `bson:"_id"`
	Subject   string    `bson:"subject"`
	IssuedAt  time.Time `bson:"issuedAt"`
	ExpiresAt time.Time `bson:"expiresAt"`
}

// MongoTokenStore keeps tokens in the document store with an explicit
// expiresAt field (lazy expiry - the model checks it on every read).
type MongoTokenStore struct {
	Collection *mongo.Collection
	Now        helpers.Clock
}

// Save implements TokenStore
func (s *MongoTokenStore) Save(ctx context.Context, token string, subject string, issuedAt time.Time, expiresAt time.Time) error {

	rec := VerificationToken{
		Token:     token,
		Subject:   subject,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}

	_, err := s.Collection.InsertOne(ctx, rec)
	return err
}

// Take implements TokenStore.
// FindOneAndDelete makes the lookup and the removal one atomic operation,
// so two concurrent validations can never both succeed with the same token.
func (s *MongoTokenStore) Take(ctx context.Context, token string) (string, time.Time, error) {

	filter := bson.D{{Key: "_id", Value: token}}

	rec := new(VerificationToken)
	err := s.Collection.FindOneAndDelete(ctx, filter).Decode(rec)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return "", time.Time{}, apperror.ErrNoData
		}
		return "", time.Time{}, err
	}

	return rec.Subject, rec.ExpiresAt, nil
}

// Sweep garbage-collects expired tokens that were never presented.
// Optional - validation is correct without it (expire on read).
func (s *MongoTokenStore) Sweep() (int64, error) {

	filter := bson.D{
		{Key: "expiresAt", Value: bson.D{{Key: "$lte", Value: s.now()}}},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	res, err := s.Collection.DeleteMany(ctx, filter)
	if err != nil {
		return 0, helpers.WrapError(err, helpers.FuncName())
	}
	return res.DeletedCount, nil
}

func (s *MongoTokenStore) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
