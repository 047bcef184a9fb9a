package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"github.com/yeremiapane/orderdesk-app/client"
	"github.com/yeremiapane/orderdesk-app/config"
	"github.com/yeremiapane/orderdesk-app/database"
	"github.com/yeremiapane/orderdesk-app/middlewares"
	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/permissions"
	"github.com/yeremiapane/orderdesk-app/realtime"
	"github.com/yeremiapane/orderdesk-app/reconciler"
	"github.com/yeremiapane/orderdesk-app/router"
	"github.com/yeremiapane/orderdesk-app/services"
	"github.com/yeremiapane/orderdesk-app/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found: %v", err)
	}

	utils.InitLogger()

	db, err := config.InitDB()
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to connect to database: %v", err)
	}

	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	autoMigrate(db)

	// Field permission mapping: one instance consulted by both the table
	// and the dynamic form.
	permStore := permissions.NewStore(db)
	perms := permissions.NewModel(permStore.LoadFieldConfig())

	// Authoritative in-memory order collection.
	rec := reconciler.New()
	store := client.NewGormStore(db)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	orders, err := store.ListOrders(ctx)
	cancel()
	if err != nil {
		utils.ErrorLogger.Printf("Initial order load failed, starting empty: %v", err)
	} else {
		rec.Replace(orders)
		utils.InfoLogger.Printf("Loaded %d orders", len(orders))
	}

	// Push channel: websocket hub plus the adapter feeding the reconciler.
	hub := realtime.NewHub()
	adapter := realtime.NewAdapter(rec)
	adapter.Bind(hub)

	syncSvc := services.NewSyncService(rec, store, perms, hub)

	monitor := services.NewChangeMonitor(db, hub)
	monitor.Interval = 500 * time.Millisecond
	monitor.Start()
	defer monitor.Stop()

	refresher := services.NewRefreshMonitor(rec, store)
	refresher.Start()
	defer refresher.Stop()

	rateLimiter := middlewares.NewRateLimiter(50, 1)

	r := router.SetupRouter(router.Deps{
		DB:        db,
		Rec:       rec,
		Sync:      syncSvc,
		Store:     store,
		Hub:       hub,
		Perms:     perms,
		PermStore: permStore,
	})
	r.Use(rateLimiter.RateLimit())

	r.SetTrustedProxies([]string{"127.0.0.1", "localhost"})

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	utils.InfoLogger.Printf("Listening on port %s", port)
	if err := r.Run(":" + port); err != nil {
		utils.ErrorLogger.Fatal(err)
	}
}

func autoMigrate(db *gorm.DB) {
	err := db.AutoMigrate(
		&models.User{},
		&models.Vendor{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Demand{},
		&models.FieldConfig{},
		&models.DBChange{},
	)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to AutoMigrate: %v", err)
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	// Triggers only exist on mysql; sqlite development runs without the
	// change feed.
	if os.Getenv("DB_HOST") != "" {
		if err := database.ExecuteTriggers(db); err != nil {
			utils.ErrorLogger.Printf("Error setting up triggers: %v", err)
		}
	}
}
