package api

import (
	"errors"   // Error matching
	"io"       // Empty body detection
	"net/http" // HTTP status codes
	"time"     // Cookie lifetime

	"makerspace/internal/balance"    // Amount formatting
	"makerspace/internal/domain"     // Domain models
	"makerspace/internal/middleware" // Current user
	"makerspace/internal/service"    // Business operations
	"makerspace/internal/shop"       // Cart cookie codec

	"github.com/gin-gonic/gin"      // Gin web framework
	"github.com/google/uuid"        // Consumable identifiers
	"github.com/shopspring/decimal" // Money
	"github.com/sirupsen/logrus"    // Structured logging
)

// cartMaxAge keeps an abandoned cart around for a month
const cartMaxAge = int(30 * 24 * time.Hour / time.Second)

// CheckoutRequest optionally carries the cart in the body instead of the cookie
type CheckoutRequest struct {
	Cart shop.Cart `json:"cart"`
}

// QuoteLineResponse is one priced cart line
type QuoteLineResponse struct {
	ConsumableID uuid.UUID       `json:"consumable_id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	LineTotal    decimal.Decimal `json:"line_total"`
	Available    int             `json:"available"`
	InStock      bool            `json:"in_stock"`
}

// QuoteResponse is the priced cart
type QuoteResponse struct {
	Lines        []QuoteLineResponse `json:"lines"`
	Total        decimal.Decimal     `json:"total"`
	TotalDisplay string              `json:"total_display"`
	CanCheckout  bool                `json:"can_checkout"`
	Missing      []uuid.UUID         `json:"missing,omitempty"`
}

func newQuoteResponse(q service.Quote) QuoteResponse {
	resp := QuoteResponse{
		Lines:        make([]QuoteLineResponse, 0, len(q.Lines)),
		Total:        q.Total,
		TotalDisplay: balance.FormatAmount(q.Total),
		CanCheckout:  len(q.Lines) > 0 && q.Available(),
		Missing:      q.Missing,
	}
	for _, l := range q.Lines {
		resp.Lines = append(resp.Lines, QuoteLineResponse{
			ConsumableID: l.Consumable.ID,
			Name:         l.Consumable.Name,
			Unit:         l.Consumable.Unit,
			UnitPrice:    l.Consumable.Price,
			Quantity:     l.Quantity,
			LineTotal:    l.LineTotal,
			Available:    l.Consumable.StockQuantity,
			InStock:      l.InStock,
		})
	}
	return resp
}

// readCart decodes the cart cookie; a missing or corrupt cookie is an empty cart
func readCart(c *gin.Context) shop.Cart {
	value, err := c.Cookie(shop.CookieName)
	if err != nil {
		return shop.Cart{}
	}
	return shop.Decode(value)
}

// writeCart stores cart in its cookie, deleting the cookie for an empty cart
func writeCart(c *gin.Context, deps Deps, cart shop.Cart) error {
	if cart.Empty() {
		setCookie(c, deps, shop.CookieName, "", -1)
		return nil
	}
	value, err := cart.Encode()
	if err != nil {
		return err
	}
	setCookie(c, deps, shop.CookieName, value, cartMaxAge)
	return nil
}

// CatalogHandler lists consumables, optionally filtered by ?category=
func CatalogHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		category := domain.Category(c.Query("category"))
		cacheKey := catalogKeyPrefix + string(category) // Empty category is the full list

		var cached []domain.Consumable
		// If cached data found, return it
		if found, err := deps.Cache.Get(ctx, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{"consumables": cached, "cached": true})
			return
		} else if err != nil {
			logrus.WithFields(logrus.Fields{"key": cacheKey, "error": err.Error()}).Warn("Cache read failed")
		}

		items, err := deps.Service.Catalog(ctx, category)
		if err != nil {
			respondError(c, err)
			return
		}
		if items == nil {
			items = []domain.Consumable{}
		}
		cacheStore(c, deps, cacheKey, items) // Cache the response for future requests
		c.JSON(http.StatusOK, gin.H{"consumables": items, "cached": false})
	}
}

// GetCartHandler returns the priced cart from the cookie
func GetCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		quote, err := deps.Service.Quote(c.Request.Context(), readCart(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newQuoteResponse(quote))
	}
}

// AddToCartHandler adds one unit of a consumable to the cart
func AddToCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consumable id"})
			return
		}
		// Only existing consumables go into the cart; stock is checked at checkout
		if _, err := deps.Service.Consumable(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		cart := readCart(c)
		cart.Add(id)
		if err := writeCart(c, deps, cart); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

// RemoveFromCartHandler removes one unit of a consumable from the cart
func RemoveFromCartHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid consumable id"})
			return
		}
		cart := readCart(c)
		cart.Remove(id)
		if err := writeCart(c, deps, cart); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart": cart})
	}
}

// QuoteHandler previews checkout: every line priced, with its stock status
func QuoteHandler(deps Deps) gin.HandlerFunc {
	return GetCartHandler(deps)
}

// CheckoutHandler commits the cart. On success the cart cookie is cleared;
// on refusal it is left as it was.
func CheckoutHandler(deps Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, _ := middleware.CurrentUserID(c)
		cart := readCart(c)
		var req CheckoutRequest
		// An empty body means the cookie cart; chunked bodies have no length up front
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if req.Cart != nil {
			cart = req.Cart.Normalize()
		}

		purchases, err := deps.Service.Checkout(c.Request.Context(), userID, cart)
		if err != nil {
			respondError(c, err)
			return
		}

		total := decimal.Zero
		for _, p := range purchases {
			total = total.Add(p.TotalPrice)
		}
		setCookie(c, deps, shop.CookieName, "", -1) // Cart is spent
		invalidateCatalog(c, deps)                  // Stock changed
		c.JSON(http.StatusCreated, gin.H{
			"message":       "Order placed",
			"purchases":     purchases,
			"total":         total,
			"total_display": balance.FormatAmount(total),
		})
	}
}
