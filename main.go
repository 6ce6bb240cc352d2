package main

import (
	"fmt"
	"forum-core/authentication"
	"forum-core/database"
	"forum-core/environment"
	"forum-core/models"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

var (
	router = gin.Default()
)

// wird VOR der Programmausführung (main) gerufen
// die Reihenfolge der Package-Inits ist aber undefiniert!
func init() {
	// Load Config
	err := godotenv.Load()
	if err != nil {
		log.Fatal("Error loading .env file")
	}
}

// housekeeper drops state that expired on its own terms: the view registry's
// stale clients and - on the lazy-expiry (mongo) backends - dead limiter
// windows and verification tokens. Correctness never depends on this; the
// models check expiry on every read, this just reclaims space.
func housekeeper() {
	for range time.Tick(15 * time.Minute) {
		environment.Env.Views.Flush()

		if store, ok := environment.Env.RateLimit.Store.(*models.MongoHitStore); ok {
			// ToDo: log Error
			_, _ = store.Sweep()
		}
		if store, ok := environment.Env.Verification.Store.(*models.MongoTokenStore); ok {
			// ToDo: log Error
			_, _ = store.Sweep()
		}
	}
}

func main() {
	// Connect to main database here (mongoDB)
	err := database.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseConnection()

	// connect to JWT Store (redis)
	err = authentication.OpenConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer authentication.CloseConnection()

	// connect to the limiter/token store (redis)
	err = database.OpenRedisConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseRedisConnection()

	// connect to Analysis-DB (influxDB)
	err = database.OpenInfluxConnection()
	if err != nil {
		log.Fatal(err)
	}
	defer database.CloseInfluxConnection()

	// Initialize the Models
	environment.InitializeModels()

	go housekeeper()

	fmt.Println("Forum-Core running...")
	handleRequests()
}
