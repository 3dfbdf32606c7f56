package main

import (
	"context"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"crackcode-tournament/handlers"
	"crackcode-tournament/models"
	"crackcode-tournament/services"
	"crackcode-tournament/utils"
	"crackcode-tournament/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Player{},
		&models.Match{},
		&models.Tournament{},
		&models.TournamentParticipant{},
		&models.Notification{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	cfg := services.LoadConfig()
	notifier := services.NewOutboxNotifier(db)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var snapshots services.SnapshotUploader
	if store, err := utils.NewR2SnapshotStore(); err != nil {
		log.Printf("⚠️  Bracket uploads disabled: %v", err)
	} else {
		snapshots = store
	}

	matchService := services.NewMatchService(db, notifier, cfg)
	pairingService := services.NewPairingService(db, rng)
	tournamentService := services.NewTournamentService(db, notifier, cfg, matchService, pairingService, snapshots)
	matchService.Status = tournamentService
	playerService := services.NewPlayerService(db, notifier, cfg, matchService, tournamentService)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sweeper := services.NewSweeper(db, notifier, cfg, tournamentService)
	if err := sweeper.Start(); err != nil {
		log.Fatal("failed to start sweeper:", err)
	}
	defer sweeper.Stop()

	webhookURL := os.Getenv("NOTIFY_WEBHOOK_URL")
	if webhookURL != "" {
		notificationWorker := workers.NewNotificationWorker(db, webhookURL)
		notificationWorker.Start(ctx)
	} else {
		log.Println("⚠️  NOTIFY_WEBHOOK_URL not set, notifications stay in the outbox")
	}

	app := fiber.New()
	app.Use(cors.New())

	adminKey := os.Getenv("ADMIN_KEY")
	handlers.SetupPlayerRoutes(app, playerService, matchService, tournamentService)
	handlers.SetupAdminRoutes(app, tournamentService, adminKey)

	port := os.Getenv("PORT")
	if port == "" {
		port = "5300"
	}
	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Sweeper running")

	<-ctx.Done()
	log.Println("Shutting down server...")
	_ = app.Shutdown()
}
