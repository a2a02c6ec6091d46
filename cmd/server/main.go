package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/example/orchid/internal/config"
	"github.com/example/orchid/internal/database"
	"github.com/example/orchid/internal/handlers"
	"github.com/example/orchid/internal/routes"
	"github.com/example/orchid/internal/services"
)

func main() {
	cfg := config.Load()

	db := database.Connect(cfg.DatabaseURL)
	rdb := database.ConnectRedis(cfg.RedisURL)

	carts := services.NewCartService(rdb, cfg.CartTTL)
	telegram := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramAdminChat)

	events := handlers.NewEventHub()
	go events.Run()

	app := fiber.New(fiber.Config{
		AppName:   "orchid-commerce",
		BodyLimit: int(cfg.MaxUploadBytes) + 1<<20,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New())

	routes.Register(app, db, cfg, carts, telegram, events)

	log.Printf("listening on :%s", cfg.AppPort)
	if err := app.Listen(":" + cfg.AppPort); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
