package controllers

import (
	"forum-core/authentication"
	"forum-core/environment"
	"forum-core/lookups"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ViewTopic counts a view on a topic.
// Anonymous - views need no login. The client registry filters page refreshes
// so the same visitor re-requesting the topic doesn't inflate the counter.
func ViewTopic(c *gin.Context) {

	topicID := c.Param("id")

	if !environment.Env.Views.CountView(c.ClientIP(), topicID) {
		// refresh of the same target, nothing to count
		c.Status(http.StatusNoContent)
		return
	}

	err := environment.Env.Engagement.RecordView(topicID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	environment.Env.Tracker.SaveView(lookups.TargetTopic, topicID, "")

	c.Status(http.StatusNoContent)
}

// LikeTopic adds the caller to the topic's likes.
// Liking twice answers 422 (AlreadyLiked) - the ledger refuses duplicates.
func LikeTopic(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	topicID := c.Param("id")

	err = environment.Env.Engagement.Like(topicID, userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	environment.Env.Tracker.SaveLike(topicID, userID, true)

	c.Status(http.StatusNoContent)
}

// UnlikeTopic removes the caller from the topic's likes
func UnlikeTopic(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	topicID := c.Param("id")

	err = environment.Env.Engagement.Unlike(topicID, userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	environment.Env.Tracker.SaveLike(topicID, userID, false)

	c.Status(http.StatusNoContent)
}

// BookmarkTopic adds the topic to the caller's bookmarks (same rules as like)
func BookmarkTopic(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	err = environment.Env.Engagement.Bookmark(c.Param("id"), userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusNoContent)
}

// UnbookmarkTopic removes the topic from the caller's bookmarks
func UnbookmarkTopic(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	err = environment.Env.Engagement.Unbookmark(c.Param("id"), userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusNoContent)
}

// VoteTopic counts a vote for or against a topic (direction "up" or "down")
func VoteTopic(c *gin.Context) {
	vote(c, lookups.TargetTopic)
}

// VoteComment counts a vote for or against a comment
func VoteComment(c *gin.Context) {
	vote(c, lookups.TargetComment)
}

func vote(c *gin.Context, targetType string) {

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	targetID := c.Param("id")
	direction := c.Param("direction")

	switch direction {
	case "up":
		err = environment.Env.Engagement.Upvote(targetType, targetID)
	case "down":
		err = environment.Env.Engagement.Downvote(targetType, targetID)
	default:
		apiError := ErrorResponse{Code: InvalidRequest}
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	environment.Env.Tracker.SaveVote(targetType, targetID, direction)

	c.Status(http.StatusNoContent)
}

// TouchTopic stamps the caller as the topic's last editor
func TouchTopic(c *gin.Context) {
	touch(c, lookups.TargetTopic)
}

// TouchComment stamps the caller as the comment's last editor
func TouchComment(c *gin.Context) {
	touch(c, lookups.TargetComment)
}

func touch(c *gin.Context, targetType string) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	err = environment.Env.Engagement.MarkUpdated(targetType, c.Param("id"), userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.Status(http.StatusNoContent)
}
