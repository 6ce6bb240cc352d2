package controllers

import (
	"forum-core/authentication"
	"forum-core/environment"
	"forum-core/helpers"
	"forum-core/models"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// FileReport accepts a new abuse report.
// Login is optional - anonymous reports are fine, but a logged-in caller
// gets recorded as the reporter.
func FileReport(c *gin.Context) {

	var report models.Report

	if err := c.ShouldBindJSON(&report); err != nil {
		apiError := ErrorResponse{Code: InvalidJSON}
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	userID, err := authentication.Authenticate(c.Request)
	if err == nil {
		report.ReporterID = helpers.ObjectID(userID)
	}

	id, err := environment.Env.Reports.File(&report)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{ID: id})
}

// ResolveReport flips a report to done and returns its final state.
// Re-resolving an already closed report answers 200 with the unchanged
// record, so moderator clients can retry without special handling.
func ResolveReport(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	report, err := environment.Env.Reports.Resolve(c.Param("id"), userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, report)
}

// ListPendingReports returns the open reports, oldest first
func ListPendingReports(c *gin.Context) {

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit < 1 {
		limit = 50
	}

	reports, err := environment.Env.Reports.ListPending(limit)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, reports)
}
