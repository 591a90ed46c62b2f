package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv" // Loads .env files into the environment
	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"

	"github.com/locmanager/locmanager/internal/auth"
	"github.com/locmanager/locmanager/internal/config"
	"github.com/locmanager/locmanager/internal/database"
	"github.com/locmanager/locmanager/internal/handler"
	"github.com/locmanager/locmanager/internal/mailer"
	"github.com/locmanager/locmanager/internal/middleware"
	"github.com/locmanager/locmanager/internal/profile"
	"github.com/locmanager/locmanager/internal/queue"
	"github.com/locmanager/locmanager/internal/repository"
	"github.com/locmanager/locmanager/internal/router"
	queue_publisher "github.com/locmanager/locmanager/internal/service"
	"github.com/locmanager/locmanager/internal/verification"
)

func main() {
	// A missing .env is fine: deployments set real environment variables.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded, relying on environment")
	}

	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err) // No point serving without storage
	}
	defer db.Close()

	rdb := config.NewRedisClient() // Redis backs rate limiting and response caching

	// Repositories over the shared connection pool.
	credentials := repository.NewCredentialRepo(db)
	profiles := repository.NewProfileRepo(db, cfg.BcryptCost)
	tokens := repository.NewVerificationRepo(db)
	accounts := repository.NewAccountRepo(db, credentials, cfg.BcryptCost)
	activities := repository.NewActivityRepo(db)
	property := repository.NewPropertyRepo(db)
	complaints := repository.NewComplaintRepo(db)
	maintenance := repository.NewMaintenanceRepo(db)
	notifications := repository.NewNotificationRepo(db)
	stats := repository.NewStatsRepo(db)
	payments := repository.NewPaymentRepo(db)

	// Services: domain workflows over the repositories.
	publisher := queue_publisher.Publisher{}
	authSvc := auth.NewService(credentials, profiles, activities)
	verifySvc := verification.NewService(tokens, publisher)
	profileSvc := profile.NewService(profiles, property, publisher)

	// The mail consumer drains the outbox queue in the background and
	// reconnects on broker failure.
	go func() {
		if err := queue.StartMailConsumer(mailer.New(cfg)); err != nil {
			log.Printf("mail consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	e.Use(emw.Recover())
	e.Use(emw.CORSWithConfig(emw.CORSConfig{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.WhomHeader},
		AllowCredentials: true,
	}))
	e.Use(middleware.Whom()) // Caller identity from the whom header
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	e.Use(middleware.NewRedisCache(config.LoadCacheConfig(), rdb))

	router.RegisterRoutes(e) // Health check and catch-all
	router.RegisterAuth(e, handler.NewAuthHandler(authSvc, activities), handler.NewVerificationHandler(verifySvc, cfg.FrontendURL))
	router.RegisterAccounts(e, handler.NewAccountHandler(accounts, publisher))
	router.RegisterProfiles(e, handler.NewProfileHandler(profileSvc, profiles))
	router.RegisterProperty(e, handler.NewPropertyHandler(property))
	router.RegisterComplaints(e, handler.NewComplaintHandler(complaints))
	router.RegisterMaintenance(e, handler.NewMaintenanceHandler(maintenance, profiles))
	router.RegisterPayments(e, handler.NewPaymentHandler(payments, activities))
	router.RegisterDashboards(e, handler.NewDashboardHandler(profiles, stats, complaints, activities, property))
	router.RegisterNotifications(e, handler.NewNotificationHandler(notifications))
	router.RegisterSupport(e, handler.NewSupportHandler(publisher))

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
