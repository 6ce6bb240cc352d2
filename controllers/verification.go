package controllers

import (
	"forum-core/authentication"
	"forum-core/environment"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequestVerification issues a fresh single-use token for the caller.
// The token would normally leave via mail; here it goes back in the body
// so the flow is testable end-to-end.
func RequestVerification(c *gin.Context) {

	userID, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	token, err := environment.Env.Verification.Issue(userID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"token": token})
}

// VerifyUser consumes a token and flags the subject as verified.
// No login required - the link lands in the subject's mailbox, possession
// of the token is the credential.
func VerifyUser(c *gin.Context) {

	subject, err := environment.Env.Verification.Validate(c.Param("token"))
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	err = environment.Env.Users.SetVerified(subject)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusOK, gin.H{"userId": subject})
}
