package routes

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/example/orchid/internal/config"
	"github.com/example/orchid/internal/handlers"
	"github.com/example/orchid/internal/middleware"
	"github.com/example/orchid/internal/services"
)

// Register wires all HTTP routes onto the app.
func Register(app *fiber.App, db *gorm.DB, cfg *config.Config, carts *services.CartService, telegram *services.TelegramService, events *handlers.EventHub) {
	authHandler := handlers.NewAuthHandler(db, cfg)
	passwordResetHandler := handlers.NewPasswordResetHandler(db, cfg, telegram)
	profileHandler := handlers.NewProfileHandler(db)
	catalogHandler := handlers.NewCatalogHandler(db)
	productHandler := handlers.NewProductHandler(db)
	couponHandler := handlers.NewCouponHandler(db, carts)
	cartHandler := handlers.NewCartHandler(db, carts)
	orderHandler := handlers.NewOrderHandler(db, carts, telegram, events)
	deliveryHandler := handlers.NewDeliveryHandler(db, events)
	returnHandler := handlers.NewReturnHandler(db, telegram, events)
	adminHandler := handlers.NewAdminHandler(db)
	marketingHandler := handlers.NewMarketingHandler(db)
	uploadHandler := handlers.NewUploadHandler(cfg)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/verify", authHandler.Verify)
	auth.Post("/forgot-password", passwordResetHandler.ForgotPassword)
	auth.Post("/verify-reset-code", passwordResetHandler.VerifyResetCode)
	auth.Post("/reset-password", passwordResetHandler.ResetPassword)

	// Public storefront reads.
	api.Get("/homepage", catalogHandler.GetHomepage)
	api.Get("/hero-images", marketingHandler.ListHeroImages)
	api.Get("/payment-methods", marketingHandler.ListPaymentMethods)
	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/categories/:id", catalogHandler.GetCategory)
	api.Get("/brands", catalogHandler.ListBrands)
	api.Get("/brands/:id", catalogHandler.GetBrand)
	productHandler.RegisterProductRoutes(api.Group("/products"))

	// Authenticated customer routes.
	authed := api.Group("", middleware.AuthMiddleware(cfg))

	profile := authed.Group("/profile")
	profile.Get("/", profileHandler.GetProfile)
	profile.Put("/", profileHandler.UpdateProfile)
	profile.Get("/addresses", profileHandler.ListAddresses)
	profile.Post("/addresses", profileHandler.CreateAddress)
	profile.Put("/addresses/:id", profileHandler.UpdateAddress)
	profile.Delete("/addresses/:id", profileHandler.DeleteAddress)

	cart := authed.Group("/cart")
	cart.Get("/", cartHandler.GetCart)
	cart.Delete("/", cartHandler.ClearCart)
	cart.Post("/items", cartHandler.AddItem)
	cart.Patch("/items/:productId", cartHandler.UpdateItem)
	cart.Delete("/items/:productId", cartHandler.RemoveItem)

	authed.Post("/coupons/apply", couponHandler.ApplyCoupon)
	authed.Delete("/coupons/apply", couponHandler.RemoveCoupon)

	orders := authed.Group("/orders")
	orders.Post("/", orderHandler.Checkout)
	orders.Get("/", orderHandler.ListMyOrders)
	orders.Get("/:id", orderHandler.GetMyOrder)
	orders.Post("/:id/cancel", orderHandler.CancelMyOrder)

	authed.Post("/returns", returnHandler.CreateReturn)
	authed.Get("/returns", returnHandler.ListMyReturns)

	// Admin console routes.
	admin := api.Group("/admin", middleware.AuthMiddleware(cfg), middleware.RequireAdmin())

	admin.Get("/dashboard", adminHandler.GetDashboard)
	admin.Get("/users", adminHandler.ListUsers)
	admin.Get("/orders/recent", adminHandler.GetRecentOrders)
	admin.Get("/orders/export", adminHandler.ExportOrders)

	admin.Get("/events", events.Upgrade, events.Serve())

	admin.Post("/categories", catalogHandler.CreateCategory)
	admin.Put("/categories/:id", catalogHandler.UpdateCategory)
	admin.Delete("/categories/:id", catalogHandler.DeleteCategory)
	admin.Post("/brands", catalogHandler.CreateBrand)
	admin.Put("/brands/:id", catalogHandler.UpdateBrand)
	admin.Delete("/brands/:id", catalogHandler.DeleteBrand)
	admin.Put("/homepage", catalogHandler.UpdateHomepage)

	productHandler.RegisterAdminProductRoutes(admin.Group("/products"))

	admin.Get("/coupons", couponHandler.ListCoupons)
	admin.Get("/coupons/:id", couponHandler.GetCoupon)
	admin.Post("/coupons", couponHandler.CreateCoupon)
	admin.Put("/coupons/:id", couponHandler.UpdateCoupon)
	admin.Delete("/coupons/:id", couponHandler.DeleteCoupon)

	admin.Get("/orders", orderHandler.ListOrders)
	admin.Get("/orders/:id", orderHandler.GetOrder)
	admin.Patch("/orders/:id/status", orderHandler.UpdateOrderStatus)

	admin.Get("/delivery", deliveryHandler.ListDeliveries)
	admin.Get("/delivery/:id/allowed-statuses", deliveryHandler.GetAllowedDeliveryStatuses)
	admin.Patch("/delivery/:id", deliveryHandler.UpdateDeliveryStatus)

	admin.Get("/returns", returnHandler.ListReturns)
	admin.Get("/returns/:id", returnHandler.GetReturn)
	admin.Get("/returns/:id/allowed-statuses", returnHandler.GetAllowedReturnStatuses)
	admin.Patch("/returns/:id", returnHandler.UpdateReturnStatus)

	admin.Post("/hero-images", marketingHandler.CreateHeroImage)
	admin.Put("/hero-images/:id", marketingHandler.UpdateHeroImage)
	admin.Delete("/hero-images/:id", marketingHandler.DeleteHeroImage)

	api.Post("/upload/admin", middleware.AuthMiddleware(cfg), middleware.RequireAdmin(), uploadHandler.UploadImage)
}
