package controllers

import (
	"forum-core/authentication"
	"forum-core/environment"
	"forum-core/helpers"
	"forum-core/lookups"
	"forum-core/models"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CreateTopic adds a new topic for the caller
func CreateTopic(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	var topic models.Topic

	if err := c.ShouldBindJSON(&topic); err != nil {
		apiError := ErrorResponse{Code: InvalidJSON}
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	topic.CreatedID = helpers.ObjectID(userID)

	id, err := environment.Env.Topics.Create(&topic)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{ID: id})
}

// GetTopic reads a single topic including its engagement state
func GetTopic(c *gin.Context) {

	topic, err := environment.Env.Topics.Get(c.Param("id"))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, topic)
}

// AddComment stores a new comment below a topic
func AddComment(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	var comment models.Comment

	if err := c.ShouldBindJSON(&comment); err != nil {
		apiError := ErrorResponse{Code: InvalidJSON}
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	comment.TopicID = helpers.ObjectID(c.Param("id"))
	comment.CreatedID = helpers.ObjectID(userID)

	id, err := environment.Env.Topics.AddComment(&comment)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{ID: id})
}

// GetTopicStats returns the recent view count from the analytics store
// (last 7 days; the topic document carries the all-time total)
func GetTopicStats(c *gin.Context) {

	topicID := c.Param("id")

	views, err := environment.Env.Tracker.GetViews(
		lookups.TargetTopic, topicID, time.Now().AddDate(0, 0, -7))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"topicId": topicID, "recentViews": views})
}
