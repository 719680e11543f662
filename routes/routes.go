package routes

import (
	"github.com/MuhammadMuzammil21/LocalBites-sub000/configs"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/controllers"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/entity"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/middlewares"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/repository"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/services"
	"github.com/MuhammadMuzammil21/LocalBites-sub000/ws"

	"github.com/gin-gonic/gin"
)

type Deps struct {
	Cfg           *configs.Config
	Auth          *services.AuthService
	Carts         *services.CartService
	Orders        *services.OrderService
	Payments      *services.PaymentService
	Reviews       *services.ReviewService
	Notifications *services.NotificationService
	RestRepo      *repository.RestaurantRepository
	MenuRepo      *repository.MenuRepository
	Hub           *ws.NotifyHub
}

func RegisterRoutes(r *gin.Engine, d *Deps) {
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	db := configs.DB()

	authCtrl := controllers.NewAuthController(d.Auth)
	cartCtrl := controllers.NewCartController(d.Carts)
	orderCtrl := controllers.NewOrderController(d.Orders)
	ownerOrderCtrl := controllers.NewOwnerOrderController(d.Orders)
	payCtrl := controllers.NewPaymentController(d.Payments)
	reviewCtrl := controllers.NewReviewController(d.Reviews)
	notifCtrl := controllers.NewNotificationController(d.Notifications)
	restCtrl := controllers.NewRestaurantController(db, d.RestRepo)
	menuCtrl := controllers.NewMenuController(d.MenuRepo, d.RestRepo)
	adminCtrl := controllers.NewAdminController(db)

	secret := d.Cfg.JWTSecret
	authLimit := middlewares.RateLimitMiddleware(5, 10)
	payLimit := middlewares.RateLimitMiddleware(10, 20)

	// Auth (public, rate limited)
	a := r.Group("/auth", authLimit)
	{
		a.POST("/register", authCtrl.Register)
		a.POST("/login", authCtrl.Login)
	}
	aAuth := r.Group("/auth", middlewares.AuthMiddleware(secret))
	{
		aAuth.GET("/me", authCtrl.Me)
		aAuth.PATCH("/me", authCtrl.UpdateMe)
	}

	// Public browsing
	r.GET("/restaurants", restCtrl.List)
	r.GET("/restaurants/:id", restCtrl.Detail)
	r.GET("/restaurants/:id/reviews", reviewCtrl.ListForRestaurant)
	r.GET("/orders/track/:code", orderCtrl.Track)

	// Customer (any authenticated user)
	u := r.Group("/", middlewares.AuthMiddleware(secret))
	{
		u.GET("/cart", cartCtrl.Get)
		u.POST("/cart/items", cartCtrl.Add)
		u.PATCH("/cart/items/qty", cartCtrl.UpdateQty)
		u.DELETE("/cart/items", cartCtrl.RemoveItem)
		u.DELETE("/cart", cartCtrl.Clear)

		u.POST("/orders/checkout", orderCtrl.Checkout)
		u.GET("/orders/:id", orderCtrl.Detail)
		u.POST("/orders/:id/cancel", orderCtrl.Cancel)
		u.POST("/orders/:id/reorder", orderCtrl.Reorder)

		u.POST("/payments/intent", payLimit, payCtrl.CreateIntent)
		u.POST("/payments/:id/confirm", payLimit, payCtrl.Confirm)

		u.POST("/reviews", reviewCtrl.Create)
		u.PUT("/reviews/:id", reviewCtrl.Update)
		u.DELETE("/reviews/:id", reviewCtrl.Delete)

		u.GET("/notifications", notifCtrl.List)
		u.GET("/notifications/unread-count", notifCtrl.UnreadCount)
		u.PATCH("/notifications/read-all", notifCtrl.MarkAllRead)
		u.PATCH("/notifications/:id/read", notifCtrl.MarkRead)
		u.DELETE("/notifications/:id", notifCtrl.Delete)

		u.GET("/ws/notifications", d.Hub.Serve)
	}

	// Profile
	profile := r.Group("/profile", middlewares.AuthMiddleware(secret))
	{
		profile.GET("/orders", orderCtrl.ListForMe)
		profile.GET("/payments", payCtrl.ListForMe)
		profile.GET("/reviews", reviewCtrl.ListForMe)
	}

	// Partner (owner/admin)
	partner := r.Group("/partner", middlewares.AuthMiddleware(secret, entity.RoleOwner, entity.RoleAdmin))
	{
		partner.POST("/restaurants", restCtrl.Create)
		partner.GET("/restaurants", restCtrl.ListMine)
		partner.PATCH("/restaurants/:id", restCtrl.Update)

		partner.GET("/restaurants/:id/menu", menuCtrl.List)
		partner.POST("/restaurants/:id/menu", menuCtrl.Create)
		partner.PATCH("/restaurants/:id/menu/:mid", menuCtrl.Update)
		partner.DELETE("/restaurants/:id/menu/:mid", menuCtrl.Delete)

		partner.GET("/restaurants/:id/orders", ownerOrderCtrl.List)
		partner.GET("/restaurants/:id/orders/:oid", ownerOrderCtrl.Detail)
		partner.PATCH("/orders/:id/status", ownerOrderCtrl.Advance)

		partner.POST("/payments/:id/refund", payCtrl.Refund)
		partner.POST("/reviews/:id/reply", reviewCtrl.Reply)
	}

	// Admin
	admin := r.Group("/admin", middlewares.AuthMiddleware(secret, entity.RoleAdmin))
	{
		admin.GET("/dashboard", adminCtrl.Dashboard)
		admin.GET("/restaurants", adminCtrl.Restaurants)
		admin.PATCH("/users/:id/role", adminCtrl.SetRole)
		admin.PATCH("/reviews/:id/visibility", reviewCtrl.Hide)
	}
}
