package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/jperalta/cinema-ticketing/internal/booking"
	"github.com/jperalta/cinema-ticketing/internal/config"
	"github.com/jperalta/cinema-ticketing/internal/database"
	"github.com/jperalta/cinema-ticketing/internal/handler"
	"github.com/jperalta/cinema-ticketing/internal/queue"
	"github.com/jperalta/cinema-ticketing/internal/repository"
	"github.com/jperalta/cinema-ticketing/internal/router"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on process environment")
	}

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and response cache disabled")
	}

	// Engine components share the one pool; each operation opens its own
	// transaction.
	inv := booking.NewInventory()
	ledger := booking.NewLedger(inv)
	manager := booking.NewManager(db, inv, ledger)
	processor := booking.NewProcessor(db, inv)
	sweeper := booking.NewSweeper(db, inv)

	userRepo := repository.NewUserRepo(db)
	catalogRepo := repository.NewCatalogRepo(db)
	reportRepo := repository.NewReportRepo(db)

	h := router.Handlers{
		User:        handler.NewUserHandler(userRepo, cfg.BcryptCost),
		Catalog:     handler.NewCatalogHandler(catalogRepo),
		Booking:     handler.NewBookingHandler(db, manager, processor, ledger),
		Maintenance: handler.NewMaintenanceHandler(sweeper),
		Report:      handler.NewReportHandler(reportRepo),
	}

	go func() {
		if err := queue.StartBookingConsumer(cfg.AMQPURL); err != nil {
			log.Printf("booking consumer stopped: %v", err)
		}
	}()

	e := router.New(h, rdb)
	log.Printf("starting server on :%s (%s)", cfg.Port, cfg.Env)
	if err := e.Start(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
