package api

import (
	"net/http" // HTTP status codes

	"makerspace/internal/balance"    // Balance reports
	"makerspace/internal/domain"     // Domain models
	"makerspace/internal/middleware" // Current user

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/google/uuid"        // Identifiers
	"github.com/shopspring/decimal" // Money
	"github.com/sirupsen/logrus"    // Structured logging
)

// BalanceResponse is one user's balance with its display string
type BalanceResponse struct {
	balance.Balance
	TotalOwedDisplay string `json:"total_owed_display"`
}

// ReportResponse is the admin balances view
type ReportResponse struct {
	Balances                []BalanceResponse `json:"balances"`
	TotalOutstanding        decimal.Decimal   `json:"total_outstanding"`
	TotalOutstandingDisplay string            `json:"total_outstanding_display"`
	UnpaidOrders            int               `json:"unpaid_orders"`
	Sort                    balance.SortOrder `json:"sort"`
}

func newReportResponse(report balance.Report, order balance.SortOrder) ReportResponse {
	resp := ReportResponse{
		Balances:                make([]BalanceResponse, 0, len(report.Balances)),
		TotalOutstanding:        report.Total(),
		TotalOutstandingDisplay: balance.FormatAmount(report.Total()),
		UnpaidOrders:            report.OrderCount(),
		Sort:                    order,
	}
	for _, b := range report.Balances {
		resp.Balances = append(resp.Balances, BalanceResponse{Balance: b, TotalOwedDisplay: b.Display()})
	}
	return resp
}

// AdjustmentRequest is the body of POST /admin/consumables/:id/adjustments
type AdjustmentRequest struct {
	QuantityChange int    `json:"quantity_change" binding:"required"` // Signed delta, never zero
	Reason         string `json:"reason" binding:"max=100"`           // Defaults to "restock"
}

// parseSort reads ?sort=, answering 400 for unknown orders
func parseSort(c *gin.Context) (balance.SortOrder, bool) {
	order, err := balance.ParseSort(c.Query("sort"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	return order, true
}

// parseID reads a uuid path parameter, answering 400 when malformed
func parseID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

// BalancesHandler returns every user with unpaid orders and the total outstanding
func BalancesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := parseSort(c)
		if !ok {
			return
		}
		actorID, _ := middleware.CurrentUserID(c)
		report, err := deps.Service.Balances(c.Request.Context(), actorID, order)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newReportResponse(report, order))
	}
}

// MarkPaidHandler marks one unpaid order as paid and returns the updated balances
func MarkPaidHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, ok := parseID(c, "id")
		if !ok {
			return
		}
		order, ok := parseSort(c)
		if !ok {
			return
		}
		actorID, _ := middleware.CurrentUserID(c)
		report, err := deps.Service.MarkPaid(c.Request.Context(), actorID, orderID, order)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Order marked as paid",
			"report":  newReportResponse(report, order),
		})
	}
}

// ListUsersHandler returns every profile with its roles
func ListUsersHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []domain.UserProfile
		// If cached data found, return it
		if found, err := deps.Cache.Get(ctx, usersKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"users": cached, "cached": true})
			return
		}
		actorID, _ := middleware.CurrentUserID(c)
		users, err := deps.Service.Users(ctx, actorID)
		if err != nil {
			respondError(c, err)
			return
		}
		if users == nil {
			users = []domain.UserProfile{}
		}
		cacheStore(c, deps, usersKey, users)
		c.JSON(http.StatusOK, gin.H{"users": users, "cached": false})
	}
}

// ListRolesHandler returns the roles reference table
func ListRolesHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		var cached []domain.Role
		if found, err := deps.Cache.Get(ctx, rolesKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"roles": cached, "cached": true})
			return
		}
		actorID, _ := middleware.CurrentUserID(c)
		roles, err := deps.Service.Roles(ctx, actorID)
		if err != nil {
			respondError(c, err)
			return
		}
		if roles == nil {
			roles = []domain.Role{}
		}
		cacheStore(c, deps, rolesKey, roles)
		c.JSON(http.StatusOK, gin.H{"roles": roles, "cached": false})
	}
}

// SetRoleHandler grants (enabled) or revokes a role on a user
func SetRoleHandler(deps Deps, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		targetID, ok := parseID(c, "id")
		if !ok {
			return
		}
		actorID, _ := middleware.CurrentUserID(c)
		profile, err := deps.Service.SetRole(c.Request.Context(), actorID, targetID, c.Param("role"), enabled)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidate(c, deps, usersKey)
		c.JSON(http.StatusOK, profile)
	}
}

// LowStockHandler lists consumables at or below their reorder threshold
func LowStockHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, _ := middleware.CurrentUserID(c)
		items, err := deps.Service.LowStock(c.Request.Context(), actorID)
		if err != nil {
			respondError(c, err)
			return
		}
		if items == nil {
			items = []domain.Consumable{}
		}
		c.JSON(http.StatusOK, gin.H{"consumables": items})
	}
}

// AdjustStockHandler applies a signed stock change to one consumable
func AdjustStockHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		consumableID, ok := parseID(c, "id")
		if !ok {
			return
		}
		var req AdjustmentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		actorID, _ := middleware.CurrentUserID(c)
		item, err := deps.Service.Restock(c.Request.Context(), actorID, consumableID, req.QuantityChange, req.Reason)
		if err != nil {
			respondError(c, err)
			return
		}
		invalidateCatalog(c, deps)
		if item.NeedsReorder() {
			logrus.WithFields(logrus.Fields{
				"consumable_id": item.ID,
				"stock":         item.StockQuantity,
				"threshold":     item.ReorderThreshold,
			}).Warn("Consumable still at or below reorder threshold")
		}
		c.JSON(http.StatusOK, item)
	}
}
