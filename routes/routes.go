package routes

import (
	"storefront/controllers"
	"storefront/middleware"

	"github.com/gin-gonic/gin"
)

type Controllers struct {
	Auth     *controllers.AuthController
	Account  *controllers.AccountController
	Admin    *controllers.AdminController
	Cart     *controllers.CartController
	Catalog  *controllers.CatalogController
	Checkout *controllers.CheckoutController
	Order    *controllers.OrderController
	Storage  *controllers.StorageController
}

// RegisterRoutes mounts every storefront route. All routes run inside the
// visitor's session.
func RegisterRoutes(r *gin.Engine, c Controllers, auth middleware.Authenticator) {
	r.POST("/signup", c.Auth.SignUp)
	r.POST("/signin", c.Auth.SignIn)
	r.POST("/logout", c.Auth.Logout)

	api := r.Group("/api")
	{
		api.GET("/home", c.Catalog.Home)
		api.GET("/categories", c.Catalog.Categories)
		api.GET("/categories/:slug/products", c.Catalog.CategoryProducts)
		api.GET("/products", c.Catalog.Products)
		api.GET("/products/:slug", c.Catalog.Product)
		api.GET("/collections/:name", c.Catalog.Collection)
		api.GET("/colors", c.Catalog.Colors)

		api.GET("/cart", c.Cart.GetCart)
		api.POST("/cart/items", c.Cart.AddItem)
		api.PATCH("/cart/items", c.Cart.UpdateItem)
		api.DELETE("/cart/items", c.Cart.RemoveItem)
		api.DELETE("/cart", c.Cart.ClearCart)

		api.POST("/orders", middleware.OptionalUser(auth), c.Order.PlaceOrder)

		api.GET("/storage/info", c.Storage.Info)
		api.GET("/storage/health", c.Storage.Health)
	}

	checkoutRoutes := r.Group("/checkout")
	{
		checkoutRoutes.GET("/step", c.Checkout.Resume)
		checkoutRoutes.GET("/step/:step", c.Checkout.ShowStep)
		checkoutRoutes.POST("/step/:step", c.Checkout.SaveStep)
		checkoutRoutes.GET("/progress", c.Checkout.Progress)
		checkoutRoutes.GET("/export", c.Checkout.Export)
		checkoutRoutes.GET("/success", c.Checkout.Success)
		checkoutRoutes.DELETE("", c.Checkout.Reset)
	}

	account := r.Group("/my-account")
	account.Use(middleware.RequireUser(auth))
	{
		account.GET("", c.Account.Overview)
		account.PUT("/profile", c.Account.UpdateProfile)
		account.GET("/addresses", c.Account.Addresses)
		account.GET("/addresses/default", c.Account.DefaultAddress)
		account.POST("/addresses", c.Account.CreateAddress)
		account.PUT("/addresses/:id", c.Account.UpdateAddress)
		account.DELETE("/addresses/:id", c.Account.DeleteAddress)
		account.POST("/addresses/:id/default", c.Account.SetDefaultAddress)
		account.GET("/orders", c.Account.Orders)
		account.GET("/orders/:orderId", c.Account.Order)
	}

	admin := r.Group("/admin")
	admin.Use(middleware.RequireAdmin(auth))
	{
		admin.GET("/orders", c.Admin.ListOrders)
		admin.GET("/orders/:id", c.Admin.GetOrder)
		admin.GET("/orders/number/:orderNumber", c.Admin.GetOrderByNumber)
		admin.PATCH("/orders/:id/status", c.Admin.UpdateStatus)
		admin.PATCH("/orders/:id/payment-status", c.Admin.UpdatePaymentStatus)
		admin.PATCH("/orders/:id/tracking", c.Admin.UpdateTracking)
		admin.POST("/products", c.Catalog.CreateProduct)
		admin.PATCH("/users/:id/role", middleware.RequireOwner(auth), c.Admin.UpdateUserRole)
	}
}
