package controllers

import (
	"forum-core/authentication"
	"forum-core/environment"
	"forum-core/helpers"
	"forum-core/models"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
)

// Register creates a new user account (unverified until the token flow ran)
func Register(c *gin.Context) {

	var user models.User

	if err := c.ShouldBindJSON(&user); err != nil {
		apiError := ErrorResponse{Code: InvalidJSON}
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	id, err := environment.Env.Users.CreateUser(user)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	c.JSON(http.StatusCreated, Created{ID: id})
}

// Login checks the credentials and issues the token pair
func Login(c *gin.Context) {

	var credentials struct {
		LoginName string `json:"loginName" binding:"required"`
		Password  string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&credentials); err != nil {
		apiError := ErrorResponse{Code: InvalidJSON}
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnprocessableEntity, apiError)
		return
	}

	user, err := environment.Env.Users.GetUserByName(credentials.LoginName)
	if err != nil {
		// don't leak whether the name or the password was wrong
		apiError := ErrorResponse{Code: InvalidLogin}
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnauthorized, apiError)
		return
	}

	if !environment.Env.Users.CheckPassword(credentials.Password, user) {
		apiError := ErrorResponse{Code: InvalidLogin}
		apiError.Message = apiError.String(apiError.Code)
		c.JSON(http.StatusUnauthorized, apiError)
		return
	}

	err = authentication.CreateTokens(c, user.ID.Hex())
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, user)
}

// Logout invalidates the access token and removes the cookie
func Logout(c *gin.Context) {

	au, err := authentication.ExtractTokenMetadata(authentication.AT, c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	_, err = authentication.DeleteAuth(au.TokenUUID)
	if err != nil {
		status, apiError := HandleError(err)
		c.JSON(status, apiError)
		return
	}

	helpers.DelCookie(c, os.Getenv("JWTCK_NAME"))

	c.Status(http.StatusNoContent)
}
