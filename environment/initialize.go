package environment

import (
	"forum-core/analytics"
	"forum-core/client"
	"forum-core/database"
	"forum-core/lookups"
	"forum-core/models"
	"os"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
)

// Environment is used for dependency-injection (package de-coupling)
type Environment struct {
	Tracker      *analytics.Tracker
	Views        *client.Registry
	RateLimit    models.RateLimitModel
	Verification models.VerificationModel
	Engagement   models.EngagementModel
	Reports      models.ReportModel
	Topics       models.TopicModel
	Users        models.UserModel
}

// newEnv operates as the constructor to initialize the collection references (private)
func newEnv(mongoClient *mongo.Client, redisClient *redis.Client) *Environment {
	env := &Environment{}

	db := mongoClient.Database(os.Getenv("DB_NAME"))

	// always create the tracker so no further checking is needed in the controllers
	env.Tracker = new(analytics.Tracker)
	env.Tracker.SetConnections(database.GetInfluxConnection())

	env.Views = new(client.Registry)
	env.Views.Initialize()

	env.Users.Collection = db.Collection(database.CollectionUsers)

	env.Topics.Collection = db.Collection(database.CollectionTopics)
	env.Topics.Comments = db.Collection(database.CollectionComments)
	// inject user model functions after its initialization
	env.Topics.GetUserNameOID = env.Users.GetUserNameOID

	// the limiter and the token issuer run on either store backend;
	// both behave the same (lazy expiry vs. native TTL)
	switch os.Getenv("RATE_LIMITER_STORE") {
	case "redis":
		env.RateLimit.Store = &models.RedisHitStore{Client: redisClient}
	default:
		env.RateLimit.Store = &models.MongoHitStore{Collection: db.Collection(database.CollectionRateLimits)}
	}

	switch os.Getenv("TOKEN_STORE") {
	case "redis":
		env.Verification.Store = &models.RedisTokenStore{Client: redisClient}
	default:
		env.Verification.Store = &models.MongoTokenStore{Collection: db.Collection(database.CollectionVerifications)}
	}
	env.Verification.UserExists = env.Users.Exists

	env.Engagement.Store = &models.MongoContentStore{
		Collections: map[string]*mongo.Collection{
			lookups.TargetTopic:   db.Collection(database.CollectionTopics),
			lookups.TargetComment: db.Collection(database.CollectionComments),
		},
	}

	env.Reports.Store = &models.MongoReportStore{Collection: db.Collection(database.CollectionReports)}

	return env
}

// Env is the singleton registry
var Env *Environment

// InitializeModels injects the database connections into the models
// (do not confuse with package init)
func InitializeModels() {
	Env = newEnv(database.GetConnection(), database.GetRedisConnection())
}
