package main

import (
	"fmt"
	"forum-core/authentication"
	"forum-core/controllers"
	"forum-core/middleware"
	"os"
)

func handleRequests() {
	router.Use(middleware.CORSMiddleware())
	// every caller passes the limiter, logged-in or not
	router.Use(middleware.RateLimitMiddleware())

	router.GET("/lookups", controllers.ListLookups)

	// auth-related
	router.POST("/login", controllers.Login)
	router.POST("/logout", authentication.TokenAuthMiddleware(), controllers.Logout)
	router.POST("/register", controllers.Register)

	// verification (the validate link arrives by mail, hence no middleware)
	router.POST("/verification", authentication.TokenAuthMiddleware(), controllers.RequestVerification)
	router.POST("/verification/:token", controllers.VerifyUser)

	// content
	router.GET("/topics/:id", controllers.GetTopic)
	router.POST("/topics", authentication.TokenAuthMiddleware(), controllers.CreateTopic)
	router.POST("/topics/:id/comments", authentication.TokenAuthMiddleware(), controllers.AddComment)
	router.GET("/topics/:id/stats", controllers.GetTopicStats)

	// engagement
	// GET hat keinen BODY (Go/Gin & Postman unterstützen das zwar, Angular nicht) - deshalb Parameter
	router.POST("/topics/:id/view", controllers.ViewTopic)
	router.POST("/topics/:id/likes", authentication.TokenAuthMiddleware(), controllers.LikeTopic)
	router.DELETE("/topics/:id/likes", authentication.TokenAuthMiddleware(), controllers.UnlikeTopic)
	router.POST("/topics/:id/bookmarks", authentication.TokenAuthMiddleware(), controllers.BookmarkTopic)
	router.DELETE("/topics/:id/bookmarks", authentication.TokenAuthMiddleware(), controllers.UnbookmarkTopic)
	router.POST("/topics/:id/votes/:direction", authentication.TokenAuthMiddleware(), controllers.VoteTopic)
	router.POST("/comments/:id/votes/:direction", authentication.TokenAuthMiddleware(), controllers.VoteComment)
	router.POST("/topics/:id/touch", authentication.TokenAuthMiddleware(), controllers.TouchTopic)
	router.POST("/comments/:id/touch", authentication.TokenAuthMiddleware(), controllers.TouchComment)

	// moderation
	router.POST("/reports", controllers.FileReport) // anonymous reports allowed
	router.GET("/reports/pending", authentication.TokenAuthMiddleware(), controllers.ListPendingReports)
	router.PUT("/reports/:id/resolve", authentication.TokenAuthMiddleware(), controllers.ResolveReport)

	// ops
	router.GET("/monitor/clients", authentication.TokenAuthMiddleware(), controllers.ActiveClients)
	router.GET("/monitor/clients/dump", authentication.TokenAuthMiddleware(), controllers.DumpClients)

	switch os.Getenv("APP_ENV") {
	case "DEV":
		router.Run(":" + os.Getenv("API_PORT"))
	case "PRD":
		router.RunTLS(":"+os.Getenv("API_PORT"), os.Getenv("APP_CERTFILE"), os.Getenv("APP_KEYFILE"))
	default:
		panic(fmt.Errorf("APP_ENV must not set"))
	}
}
