package models

import (
	"context"
	"forum-core/apperror"
	"forum-core/helpers"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Topic is the "interface" used for client communication.
// The engagement fields (views, votes, likes, bookmarks) are owned by the
// EngagementModel - this model only creates them at zero and reads them back.
type Topic struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Title       string             `json:"title" bson:"title" binding:"required"`
	Body        string             `json:"body" bson:"body"`
	CreatedID   primitive.ObjectID `json:"createdID" bson:"createdID"`
	CreatedName string             `json:"createdName" bson:"createdName"`
	Views       int64              `json:"views" bson:"views"`
	UpVotes     int64              `json:"upVotes" bson:"upVotes"`
	DownVotes   int64              `json:"downVotes" bson:"downVotes"`
	Likes       []string           `json:"likes" bson:"likes"`
	Bookmarks   []string           `json:"bookmarks" bson:"bookmarks"`
	Updated     *Updated           `json:"updated,omitempty" bson:"updated,omitempty"`
}

// Comment belongs to a topic; only the vote counters are contended here
type Comment struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	TopicID     primitive.ObjectID `json:"topicId" bson:"topicId"`
	Comment     string             `json:"comment" bson:"comment" binding:"required"`
	CreatedID   primitive.ObjectID `json:"createdID" bson:"createdID"`
	CreatedName string             `json:"createdName" bson:"createdName"`
	UpVotes     int64              `json:"upVotes" bson:"upVotes"`
	DownVotes   int64              `json:"downVotes" bson:"downVotes"`
	Updated     *Updated           `json:"updated,omitempty" bson:"updated,omitempty"`
}

// TopicModel provides plain storage for the content documents.
// No concurrency hazard in here - all contended fields go through the ledger.
type TopicModel struct {
	Collection *mongo.Collection
	Comments   *mongo.Collection
	// injected from the user model
	GetUserNameOID func(userID primitive.ObjectID) (string, error)
}

// Create adds a new topic with all counters at zero and empty sets
func (m TopicModel) Create(topic *Topic) (string, error) {

	topic.Title = strings.TrimSpace(topic.Title)
	if topic.Title == "" {
		return "", apperror.ErrNoData
	}

	userName, err := m.GetUserNameOID(topic.CreatedID)
	if err != nil {
		return "", ErrInvalidUser
	}
	topic.CreatedName = userName

	topic.ID = primitive.NewObjectID()
	topic.Views = 0
	topic.UpVotes = 0
	topic.DownVotes = 0
	topic.Likes = []string{}
	topic.Bookmarks = []string{}
	topic.Updated = nil

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	res, err := m.Collection.InsertOne(ctx, topic)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}

// Get reads a single topic
func (m TopicModel) Get(topicID string) (*Topic, error) {

	filter := bson.D{{Key: "_id", Value: helpers.ObjectID(topicID)}}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	topic := new(Topic)
	err := m.Collection.FindOne(ctx, filter).Decode(topic)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperror.ErrNoData
		}
		return nil, helpers.WrapError(err, helpers.FuncName())
	}

	return topic, nil
}

// AddComment stores a new comment with zero vote counters
func (m TopicModel) AddComment(comment *Comment) (string, error) {

	comment.Comment = strings.TrimSpace(comment.Comment)
	if comment.Comment == "" {
		return "", apperror.ErrNoData
	}

	userName, err := m.GetUserNameOID(comment.CreatedID)
	if err != nil {
		return "", ErrInvalidUser
	}
	comment.CreatedName = userName

	comment.ID = primitive.NewObjectID()
	comment.UpVotes = 0
	comment.DownVotes = 0
	comment.Updated = nil

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel() // nach 10 Sekunden abbrechen

	res, err := m.Comments.InsertOne(ctx, comment)
	if err != nil {
		return "", helpers.WrapError(err, helpers.FuncName())
	}

	return res.InsertedID.(primitive.ObjectID).Hex(), nil
}
