package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	portssvc "github.com/kazehost/pricing-backend/internal/core/ports/services"
	"github.com/kazehost/pricing-backend/internal/dto"
	"github.com/kazehost/pricing-backend/internal/middleware"
)

// rateHandler handles HTTP requests related to exchange rates.
type rateHandler struct {
	rateService portssvc.RateProviderSvc
}

func newRateHandler(rs portssvc.RateProviderSvc) *rateHandler {
	return &rateHandler{rateService: rs}
}

// registerPublicRateRoutes registers the storefront rate lookup.
func registerPublicRateRoutes(rg *gin.RouterGroup, rateService portssvc.RateProviderSvc) {
	h := newRateHandler(rateService)
	rg.GET("/rates/:from/:to", h.getRate)
}

// registerRateAdminRoutes registers the admin rate diagnostics and cache controls.
func registerRateAdminRoutes(rg *gin.RouterGroup, rateService portssvc.RateProviderSvc) {
	h := newRateHandler(rateService)
	rg.GET("/rates/:from/:to/metadata", h.getRateMetadata)
	rg.DELETE("/rates/cache", h.clearCache)
}

// getRate godoc
// @Summary Get a pair conversion rate
// @Description Returns the conversion rate for a currency pair, marking static fallback rates
// @Tags rates
// @Produce  json
// @Param   from path string true "Source currency code"
// @Param   to path string true "Target currency code"
// @Success 200 {object} dto.RateResponse
// @Failure 404 {object} map[string]string "No rate available for the pair"
// @Router /rates/{from}/{to} [get]
func (h *rateHandler) getRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, to := c.Param("from"), c.Param("to")

	snapshot, err := h.rateService.GetRateSnapshot(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnsupportedCurrency) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No rate available for this currency pair"})
			return
		}
		logger.Error("Failed to get rate", slog.String("error", err.Error()), slog.String("pair", from+"/"+to))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate"})
		return
	}

	c.JSON(http.StatusOK, dto.RateResponse{
		From:       snapshot.From,
		To:         snapshot.To,
		Rate:       snapshot.Rate,
		IsFallback: snapshot.IsFallback,
	})
}

// getRateMetadata godoc
// @Summary Get rate diagnostics for a pair
// @Description Returns the cached rate, its age and refresh horizon (admin operation)
// @Tags rates
// @Produce  json
// @Param   from path string true "Source currency code"
// @Param   to path string true "Target currency code"
// @Success 200 {object} dto.RateMetadataResponse
// @Failure 404 {object} map[string]string "No rate available for the pair"
// @Security BearerAuth
// @Router /rates/{from}/{to}/metadata [get]
func (h *rateHandler) getRateMetadata(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, to := c.Param("from"), c.Param("to")

	meta, err := h.rateService.GetRateMetadata(c.Request.Context(), from, to)
	if err != nil {
		if errors.Is(err, apperrors.ErrUnsupportedCurrency) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No rate available for this currency pair"})
			return
		}
		logger.Error("Failed to get rate metadata", slog.String("error", err.Error()), slog.String("pair", from+"/"+to))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve rate metadata"})
		return
	}

	c.JSON(http.StatusOK, dto.ToRateMetadataResponse(*meta))
}

// clearCache godoc
// @Summary Clear the rate cache
// @Description Invalidates one pair (from and to query params) or the whole cache when both are omitted (admin operation)
// @Tags rates
// @Produce  json
// @Param   from query string false "Source currency code"
// @Param   to query string false "Target currency code"
// @Success 204 "Cache cleared"
// @Failure 400 {object} map[string]string "Only one of from/to supplied"
// @Security BearerAuth
// @Router /rates/cache [delete]
func (h *rateHandler) clearCache(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	from, to := c.Query("from"), c.Query("to")

	if (from == "") != (to == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Provide both from and to, or neither to clear the whole cache"})
		return
	}

	if err := h.rateService.ClearCache(c.Request.Context(), from, to); err != nil {
		logger.Error("Failed to clear rate cache", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to clear rate cache"})
		return
	}

	c.Status(http.StatusNoContent)
}

// displayPriceHandler handles the storefront display-price endpoint.
type displayPriceHandler struct {
	converter portssvc.ConverterSvc
}

// registerDisplayPriceRoutes registers the storefront display-price lookup.
func registerDisplayPriceRoutes(rg *gin.RouterGroup, converter portssvc.ConverterSvc) {
	h := &displayPriceHandler{converter: converter}
	rg.GET("/prices/display", h.getDisplayPrice)
}

// getDisplayPrice godoc
// @Summary Get a product's display price
// @Description Resolves the viewer's currency and returns the requested monetary field of the product's current price, converted and formatted
// @Tags prices
// @Produce  json
// @Param   productID query string true "Product ID"
// @Param   cycle query string false "Billing cycle (monthly, quarterly, semi_annually, annually; omit for domain pricing)"
// @Param   field query string false "Monetary field (register_price, renewal_price, transfer_price, redemption_price; default register_price)"
// @Param   currency query string false "Explicit currency override"
// @Success 200 {object} dto.DisplayPrice
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "No current price for the product"
// @Router /prices/display [get]
func (h *displayPriceHandler) getDisplayPrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	productID := c.Query("productID")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "productID is required"})
		return
	}

	cycle, ok := cycleFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid billing cycle"})
		return
	}

	field := c.DefaultQuery("field", domain.FieldRegisterPrice)

	sessionCurrency, _ := c.Cookie("currency")
	prefs := dto.CurrencyPreferences{
		RequestedCode: c.Query("currency"),
		SessionCode:   sessionCurrency,
		PreferredCode: c.GetHeader("X-Preferred-Currency"),
		CountryCode:   c.GetHeader("X-Country-Code"),
	}

	display, err := h.converter.GetDisplayPrice(c.Request.Context(), productID, cycle, field, prefs)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "No current price for this product"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to resolve display price", slog.String("error", err.Error()), slog.String("product_id", productID))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve display price"})
		}
		return
	}

	c.JSON(http.StatusOK, display)
}
