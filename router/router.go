package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/orderdesk-app/client"
	"github.com/yeremiapane/orderdesk-app/controllers"
	"github.com/yeremiapane/orderdesk-app/middlewares"
	"github.com/yeremiapane/orderdesk-app/models"
	"github.com/yeremiapane/orderdesk-app/permissions"
	"github.com/yeremiapane/orderdesk-app/realtime"
	"github.com/yeremiapane/orderdesk-app/reconciler"
	"github.com/yeremiapane/orderdesk-app/services"
)

// Deps carries everything the route table wires together.
type Deps struct {
	DB        *gorm.DB
	Rec       *reconciler.Reconciler
	Sync      *services.SyncService
	Store     client.OrderAPI
	Hub       *realtime.Hub
	Perms     *permissions.Model
	PermStore *permissions.Store
}

func SetupRouter(deps Deps) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(deps.DB)
	vendorCtrl := controllers.NewVendorController(deps.DB)
	productCtrl := controllers.NewProductController(deps.DB)
	demandCtrl := controllers.NewDemandController(deps.DB)
	orderCtrl := controllers.NewOrderController(deps.Rec, deps.Sync, deps.Store, deps.Hub)
	dashCtrl := controllers.NewDashboardController(deps.Rec, deps.Perms)
	fieldCtrl := controllers.NewFieldConfigController(deps.Perms, deps.PermStore)
	streamCtrl := controllers.NewStreamController(deps.Hub)

	auth := r.Group("/api/auth")
	{
		auth.POST("/register", middlewares.NewStrictRateLimiter(), userCtrl.Register)
		auth.POST("/login", middlewares.NewStrictRateLimiter(), userCtrl.Login)
		auth.POST("/logout", middlewares.AuthMiddleware(), userCtrl.Logout)
	}

	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())
	{
		api.GET("/profile", userCtrl.GetProfile)
		api.GET("/users", userCtrl.GetAllUsers)

		api.GET("/orders", orderCtrl.GetAllOrders)
		api.POST("/orders", orderCtrl.CreateOrder)
		api.GET("/orders/:order_id", orderCtrl.GetOrderByID)
		api.PATCH("/orders/:order_id", orderCtrl.UpdateOrderHeader)
		api.PATCH("/orders/:order_id/items/:item_index", orderCtrl.UpdateOrderItem)
		api.DELETE("/orders/:order_id", orderCtrl.DeleteOrder)

		api.GET("/dashboard/rows", dashCtrl.GetDashboardRows)

		api.GET("/field-config", fieldCtrl.GetFieldConfig)
		api.PUT("/field-config", middlewares.RequireRole(models.RoleAdmin), fieldCtrl.UpdateFieldConfig)
		api.POST("/field-config/reset", middlewares.RequireRole(models.RoleAdmin), fieldCtrl.ResetFieldConfig)

		api.GET("/vendors", vendorCtrl.GetAllVendors)
		api.POST("/vendors", vendorCtrl.CreateVendor)
		api.PATCH("/vendors/:vendor_id", vendorCtrl.UpdateVendor)
		api.DELETE("/vendors/:vendor_id", vendorCtrl.DeleteVendor)

		api.GET("/products", productCtrl.GetAllProducts)
		api.POST("/products", productCtrl.CreateProduct)
		api.PATCH("/products/:product_id", productCtrl.UpdateProduct)
		api.DELETE("/products/:product_id", productCtrl.DeleteProduct)

		api.GET("/demands", demandCtrl.GetAllDemands)
		api.POST("/demands", demandCtrl.CreateDemand)
		api.PATCH("/demands/:demand_id", demandCtrl.UpdateDemandStatus)
	}

	r.GET("/ws", middlewares.WebSocketAuthMiddleware(), streamCtrl.Stream)

	return r
}
