package api

import (
	"time" // Session lifetime

	"makerspace/internal/middleware" // Session and admin guards
	"makerspace/internal/service"    // Business operations
	"makerspace/internal/utils"      // Redis cache

	"github.com/gin-gonic/gin" // Gin web framework
)

// Cache keys
const (
	catalogKeyPrefix = "shop:consumables:"
	usersKey         = "admin:users"
	rolesKey         = "admin:roles"
)

// Deps are the collaborators shared by every handler
type Deps struct {
	Service       *service.Service
	Cache         *utils.Cache // May be nil; caching is then skipped
	JWTSecret     string
	JWTTTL        time.Duration
	SecureCookies bool
}

// RegisterRoutes mounts every endpoint on r
func RegisterRoutes(r *gin.Engine, deps Deps) {
	// Auth routes
	auth := r.Group("/auth")
	auth.POST("/register", RegisterHandler(deps)) // Registration endpoint
	auth.POST("/login", LoginHandler(deps))       // Login endpoint
	auth.POST("/logout", LogoutHandler(deps))     // Logout endpoint

	// Member routes (protected by the session)
	member := r.Group("")
	member.Use(middleware.SessionAuthMiddleware(deps.JWTSecret))
	member.GET("/me", MeHandler(deps))                 // Current user
	member.GET("/profile", GetProfileHandler(deps))    // Own profile
	member.PUT("/profile", UpdateProfileHandler(deps)) // Edit contact details
	member.GET("/orders", OrdersHandler(deps))         // Own unpaid orders

	// Shop routes
	shopGroup := member.Group("/shop")
	shopGroup.GET("/consumables", CatalogHandler(deps))        // Catalog, optionally by category
	shopGroup.GET("/cart", GetCartHandler(deps))               // Priced cart
	shopGroup.POST("/cart/:id", AddToCartHandler(deps))        // Add one unit
	shopGroup.DELETE("/cart/:id", RemoveFromCartHandler(deps)) // Remove one unit
	shopGroup.GET("/checkout", QuoteHandler(deps))             // Checkout preview
	shopGroup.POST("/checkout", CheckoutHandler(deps))         // Commit the cart

	// Admin routes (protected, admin only)
	admin := member.Group("/admin")
	admin.Use(middleware.AdminOnlyMiddleware(deps.Service))
	admin.GET("/balances", BalancesHandler(deps))                        // Outstanding balances
	admin.POST("/purchases/:id/paid", MarkPaidHandler(deps))             // Mark an order paid
	admin.GET("/users", ListUsersHandler(deps))                          // All profiles
	admin.GET("/roles", ListRolesHandler(deps))                          // Role reference table
	admin.PUT("/users/:id/roles/:role", SetRoleHandler(deps, true))      // Grant a role
	admin.DELETE("/users/:id/roles/:role", SetRoleHandler(deps, false))  // Revoke a role
	admin.GET("/consumables/low-stock", LowStockHandler(deps))           // Reorder list
	admin.POST("/consumables/:id/adjustments", AdjustStockHandler(deps)) // Restock or correct
}
