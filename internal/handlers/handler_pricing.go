package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	portssvc "github.com/kazehost/pricing-backend/internal/core/ports/services"
	"github.com/kazehost/pricing-backend/internal/dto"
	"github.com/kazehost/pricing-backend/internal/middleware"
)

// pricingHandler handles HTTP requests related to price rows and their history.
type pricingHandler struct {
	pricingService portssvc.PricingSvcFacade
}

// newPricingHandler creates a new pricingHandler.
func newPricingHandler(ps portssvc.PricingSvcFacade) *pricingHandler {
	return &pricingHandler{
		pricingService: ps,
	}
}

// registerPricingRoutes registers the admin pricing routes.
func registerPricingRoutes(rg *gin.RouterGroup, pricingService portssvc.PricingSvcFacade) {
	h := newPricingHandler(pricingService)

	prices := rg.Group("/prices")
	{
		prices.POST("", h.createPrice)
		prices.GET("/:id", h.getPrice)
		prices.PUT("/:id", h.updatePrice)
		prices.POST("/:id/activate", h.activatePrice)
		prices.GET("/:id/history", h.listPriceHistory)
	}

	rg.GET("/products/:productID/prices", h.listPricesForProduct)
}

// changeContext assembles the attribution for a mutation from the request.
func changeContext(c *gin.Context, reason *string) (portssvc.PriceChangeContext, bool) {
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		return portssvc.PriceChangeContext{}, false
	}
	ip := c.ClientIP()
	return portssvc.PriceChangeContext{
		ChangedBy: &userID,
		Reason:    reason,
		IPAddress: &ip,
	}, true
}

// createPrice godoc
// @Summary Create a price row
// @Description Creates a new price row for a product's pricing track; a future effective date leaves it pending (admin operation)
// @Tags prices
// @Accept  json
// @Produce  json
// @Param   price body dto.CreatePriceRequest true "Price details (amounts in minor units)"
// @Success 201 {object} dto.PriceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /prices [post]
func (h *pricingHandler) createPrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePrice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	ip := c.ClientIP()
	price, err := h.pricingService.CreatePrice(c.Request.Context(), req, creatorUserID, &ip)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to create price", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create price"})
		}
		return
	}

	logger.Info("Price created successfully", slog.String("price_id", price.PriceID))
	c.JSON(http.StatusCreated, dto.ToPriceResponse(price))
}

// getPrice godoc
// @Summary Get a price row
// @Description Retrieves one price row by ID (admin operation)
// @Tags prices
// @Produce  json
// @Param   id path string true "Price ID"
// @Success 200 {object} dto.PriceResponse
// @Failure 404 {object} map[string]string "Price not found"
// @Security BearerAuth
// @Router /prices/{id} [get]
func (h *pricingHandler) getPrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	priceID := c.Param("id")

	price, err := h.pricingService.GetPrice(c.Request.Context(), priceID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Price not found"})
			return
		}
		logger.Error("Failed to get price", slog.String("error", err.Error()), slog.String("price_id", priceID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve price"})
		return
	}

	c.JSON(http.StatusOK, dto.ToPriceResponse(price))
}

// listPricesForProduct godoc
// @Summary List price rows for a product
// @Description Retrieves every price row across the product's pricing tracks (admin operation)
// @Tags prices
// @Produce  json
// @Param   productID path string true "Product ID"
// @Success 200 {array} dto.PriceResponse
// @Security BearerAuth
// @Router /products/{productID}/prices [get]
func (h *pricingHandler) listPricesForProduct(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	productID := c.Param("productID")

	prices, err := h.pricingService.ListPricesForProduct(c.Request.Context(), productID)
	if err != nil {
		logger.Error("Failed to list prices", slog.String("error", err.Error()), slog.String("product_id", productID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve prices"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPriceResponse(prices))
}

// updatePrice godoc
// @Summary Update a price row
// @Description Applies partial updates; monetary changes to an activated row are recorded in the history (admin operation)
// @Tags prices
// @Accept  json
// @Produce  json
// @Param   id path string true "Price ID"
// @Param   price body dto.UpdatePriceRequest true "Fields to update"
// @Success 200 {object} dto.PriceResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Price not found"
// @Security BearerAuth
// @Router /prices/{id} [put]
func (h *pricingHandler) updatePrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	priceID := c.Param("id")

	var req dto.UpdatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	change, ok := changeContext(c, req.Reason)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	price, err := h.pricingService.UpdatePrice(c.Request.Context(), priceID, req, change)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Price not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to update price", slog.String("error", err.Error()), slog.String("price_id", priceID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update price"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPriceResponse(price))
}

// activatePrice godoc
// @Summary Activate a price row
// @Description Promotes the row to current for its pricing track, superseding siblings; idempotent (admin operation)
// @Tags prices
// @Accept  json
// @Produce  json
// @Param   id path string true "Price ID"
// @Param   activation body dto.ActivatePriceRequest false "Optional reason"
// @Success 204 "Price activated"
// @Failure 400 {object} map[string]string "Effective date not reached"
// @Failure 404 {object} map[string]string "Price not found"
// @Security BearerAuth
// @Router /prices/{id}/activate [post]
func (h *pricingHandler) activatePrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	priceID := c.Param("id")

	var req dto.ActivatePriceRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
			return
		}
	}

	change, ok := changeContext(c, req.Reason)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.pricingService.ActivatePrice(c.Request.Context(), priceID, change); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Price not found"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to activate price", slog.String("error", err.Error()), slog.String("price_id", priceID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to activate price"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// listPriceHistory godoc
// @Summary List a price row's audit history
// @Description Retrieves history entries newest first with keyset pagination (admin operation)
// @Tags prices
// @Produce  json
// @Param   id path string true "Price ID"
// @Param   limit query int false "Page size (default 20)"
// @Param   nextToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListPriceHistoryResponse
// @Failure 400 {object} map[string]string "Invalid pagination token"
// @Security BearerAuth
// @Router /prices/{id}/history [get]
func (h *pricingHandler) listPriceHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	priceID := c.Param("id")

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 100 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer between 1 and 100"})
			return
		}
		limit = parsed
	}

	var nextToken *string
	if raw := c.Query("nextToken"); raw != "" {
		nextToken = &raw
	}

	entries, next, err := h.pricingService.ListPriceHistory(c.Request.Context(), priceID, limit, nextToken)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		logger.Error("Failed to list price history", slog.String("error", err.Error()), slog.String("price_id", priceID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve price history"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPriceHistoryResponse(entries, next))
}

// cycleFromQuery parses the optional billing cycle query parameter.
func cycleFromQuery(c *gin.Context) (domain.BillingCycle, bool) {
	raw := c.Query("cycle")
	switch domain.BillingCycle(raw) {
	case domain.CycleNone, domain.CycleMonthly, domain.CycleQuarterly, domain.CycleSemiAnnual, domain.CycleAnnual:
		return domain.BillingCycle(raw), true
	default:
		return domain.CycleNone, false
	}
}
