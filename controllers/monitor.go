package controllers

import (
	"forum-core/authentication"
	"forum-core/environment"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ActiveClients reports how many distinct clients the view registry is tracking
func ActiveClients(c *gin.Context) {

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	c.JSON(http.StatusOK, gin.H{"clients": environment.Env.Views.Count()})
}

// DumpClients lists the last viewed target per client (capped)
func DumpClients(c *gin.Context) {

	_, err := authentication.Authenticate(c.Request)
	if err != nil {
		c.Status(http.StatusUnauthorized)
		return
	}

	max, err := strconv.Atoi(c.DefaultQuery("max", "100"))
	if err != nil || max < 1 {
		max = 100
	}

	c.JSON(http.StatusOK, environment.Env.Views.Dump(max))
}
