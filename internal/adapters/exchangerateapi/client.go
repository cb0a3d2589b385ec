package exchangerateapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/kazehost/pricing-backend/internal/apperrors"
	"github.com/kazehost/pricing-backend/internal/core/domain"
	"github.com/kazehost/pricing-backend/internal/core/ports/providers"
)

// Client calls the exchangerate-api.com v6 pair and latest endpoints.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

var _ providers.RateClient = (*Client)(nil)

func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

// apiResponse covers both the pair and latest endpoint payloads.
type apiResponse struct {
	Result             string             `json:"result"`
	ErrorType          string             `json:"error-type"`
	ConversionRate     float64            `json:"conversion_rate"`
	ConversionRates    map[string]float64 `json:"conversion_rates"`
	TimeLastUpdateUnix int64              `json:"time_last_update_unix"`
	TimeNextUpdateUnix int64              `json:"time_next_update_unix"`
}

// FetchPairRate retrieves the conversion rate for one currency pair.
func (c *Client) FetchPairRate(ctx context.Context, from, to string) (*domain.PairRate, error) {
	url := fmt.Sprintf("%s/%s/pair/%s/%s", c.baseURL, c.apiKey, from, to)

	c.logger.DebugContext(ctx, "Fetching pair rate", slog.String("from", from), slog.String("to", to))

	response, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}

	return &domain.PairRate{
		Rate:        response.ConversionRate,
		LastUpdated: time.Unix(response.TimeLastUpdateUnix, 0).UTC(),
		NextUpdate:  time.Unix(response.TimeNextUpdateUnix, 0).UTC(),
	}, nil
}

// FetchRates retrieves all conversion rates for a base currency.
func (c *Client) FetchRates(ctx context.Context, base string) (map[string]float64, error) {
	url := fmt.Sprintf("%s/%s/latest/%s", c.baseURL, c.apiKey, base)

	c.logger.DebugContext(ctx, "Fetching latest rates", slog.String("base", base))

	response, err := c.do(ctx, url)
	if err != nil {
		return nil, err
	}
	return response.ConversionRates, nil
}

func (c *Client) do(ctx context.Context, url string) (*apiResponse, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %v", apperrors.ErrRateProviderNetwork, err)
	}

	httpResponse, err := c.http.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrRateProviderNetwork, err)
	}
	defer httpResponse.Body.Close()

	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", apperrors.ErrRateProviderNetwork, err)
	}

	var response apiResponse
	if err := json.Unmarshal(body, &response); err != nil {
		if httpResponse.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: status %d", apperrors.ErrRateProviderNetwork, httpResponse.StatusCode)
		}
		return nil, fmt.Errorf("%w: decoding response: %v", apperrors.ErrRateProviderNetwork, err)
	}

	if response.Result != "success" {
		return nil, mapErrorType(response.ErrorType, httpResponse.StatusCode)
	}
	return &response, nil
}

// mapErrorType translates the provider's error-type strings into sentinel
// errors. Unknown types with a 5xx status count as network failures.
func mapErrorType(errorType string, statusCode int) error {
	switch errorType {
	case "invalid-key":
		return fmt.Errorf("%w: %s", apperrors.ErrRateProviderAuth, errorType)
	case "quota-reached":
		return fmt.Errorf("%w: %s", apperrors.ErrRateProviderQuotaExceeded, errorType)
	case "malformed-request":
		return fmt.Errorf("%w: %s", apperrors.ErrRateProviderMalformedRequest, errorType)
	case "inactive-account":
		return fmt.Errorf("%w: %s", apperrors.ErrRateProviderInactiveAccount, errorType)
	case "unsupported-code":
		return fmt.Errorf("%w: %s", apperrors.ErrUnsupportedCurrency, errorType)
	default:
		if statusCode >= 500 {
			return fmt.Errorf("%w: status %d", apperrors.ErrRateProviderNetwork, statusCode)
		}
		return fmt.Errorf("%w: unexpected error type %q", apperrors.ErrRateProviderMalformedRequest, errorType)
	}
}
