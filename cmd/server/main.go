package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"

	"pos_manager/internal/config"
	"pos_manager/internal/handlers"
	"pos_manager/internal/models"
	"pos_manager/internal/repository"
	"pos_manager/internal/services"
	"pos_manager/internal/settlement"
	"pos_manager/internal/storage"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize storage
	store, err := newStore(cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}
	defer store.Close()

	// Initialize repositories (each loads its collection from the store)
	orderRepo, err := repository.NewOrderRepository(store)
	if err != nil {
		log.Fatal("Failed to load orders:", err)
	}
	tableRepo, err := repository.NewTableRepository(store)
	if err != nil {
		log.Fatal("Failed to load tables:", err)
	}
	staffRepo, err := repository.NewStaffRepository(store)
	if err != nil {
		log.Fatal("Failed to load staff:", err)
	}

	// Settlement collaborators per payment method
	gatewayDelay := time.Duration(cfg.GatewayDelayMS) * time.Millisecond
	settlers := map[models.PaymentMethod]settlement.Settler{
		models.MethodCash: settlement.NewCashSettler(),
		models.MethodCard: settlement.NewCardGateway(gatewayDelay),
		models.MethodQRIS: settlement.NewQRISGateway(gatewayDelay),
	}

	// Initialize services
	orderService := services.NewOrderService(orderRepo, tableRepo)
	tableService := services.NewTableService(tableRepo, orderRepo)
	staffService := services.NewStaffService(staffRepo)
	paymentService := services.NewPaymentService(
		orderRepo,
		tableRepo,
		settlers,
		time.Duration(cfg.SettleTimeout)*time.Second,
	)

	// Initialize handlers
	apiHandler := handlers.NewAPIHandler(orderService, tableService, staffService, paymentService)

	// Setup routes
	router := gin.Default()

	api := router.Group("/api")
	{
		api.POST("/orders", apiHandler.CreateOrder)
		api.GET("/orders", apiHandler.ListOrders)
		api.GET("/orders/:id", apiHandler.GetOrder)
		api.PUT("/orders/:id/status", apiHandler.UpdateOrderStatus)
		api.POST("/orders/:id/refund", apiHandler.RefundOrder)
		api.DELETE("/orders/:id", apiHandler.DeleteOrder)

		api.GET("/reports/revenue-today", apiHandler.RevenueToday)
		api.GET("/reports/orders-summary", apiHandler.OrdersSummary)
		api.GET("/reports/staff/:id/orders-today", apiHandler.StaffOrdersToday)

		api.POST("/tables", apiHandler.CreateTable)
		api.GET("/tables", apiHandler.ListTables)
		api.POST("/tables/:id/assign", apiHandler.AssignTable)
		api.POST("/tables/:id/release", apiHandler.ReleaseTable)

		api.POST("/staff", apiHandler.OnboardStaff)
		api.GET("/staff", apiHandler.ListStaff)
		api.POST("/staff/:id/verify-pin", apiHandler.VerifyStaffPIN)
		api.POST("/staff/:id/toggle-status", apiHandler.ToggleStaffStatus)
		api.PUT("/staff/:id/status", apiHandler.SetStaffStatus)
		api.GET("/staff/:id/worked-minutes", apiHandler.StaffWorkedMinutes)
		api.DELETE("/staff/:id", apiHandler.DeleteStaff)
		api.POST("/staff-bulk/role", apiHandler.BulkUpdateStaffRole)
		api.POST("/staff-bulk/status", apiHandler.BulkUpdateStaffStatus)
		api.POST("/staff-bulk/delete", apiHandler.BulkDeleteStaff)

		api.POST("/checkout", apiHandler.BeginCheckout)
		api.GET("/checkout/:id", apiHandler.GetCheckout)
		api.POST("/checkout/:id/method", apiHandler.SelectCheckoutMethod)
		api.POST("/checkout/:id/settle", apiHandler.SettleCheckout)
		api.POST("/checkout/:id/customer", apiHandler.CaptureCheckoutCustomer)
		api.POST("/checkout/:id/skip-customer", apiHandler.SkipCheckoutCustomer)
		api.DELETE("/checkout/:id", apiHandler.CancelCheckout)
	}

	// Start server
	log.Printf("Server starting on port %s", cfg.ServerPort)
	if err := router.Run(":" + cfg.ServerPort); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

func newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.StorageDriver {
	case "postgres":
		return storage.NewPostgresStore(cfg.DatabaseURL)
	case "memory":
		return storage.NewMemoryStore(), nil
	default:
		return storage.NewRedisStore(cfg.RedisURL)
	}
}
