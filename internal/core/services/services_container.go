package services

import (
	"github.com/kazehost/pricing-backend/internal/core/ports/providers"
	portsrepo "github.com/kazehost/pricing-backend/internal/core/ports/repositories"
	portssvc "github.com/kazehost/pricing-backend/internal/core/ports/services"
	"github.com/kazehost/pricing-backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	rateClient providers.RateClient,
	rateCache providers.RateCache,
	clock providers.Clock,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Currency = NewCurrencyService(repos.CurrencyRepo, clock)
	container.Pricing = NewPricingService(repos.PriceRepo, repos.HistoryRepo, repos.CurrencyRepo, clock)

	container.RateProvider = NewExchangeRateService(rateClient, rateCache, clock, ExchangeRateConfig{
		CacheTTL:      cfg.RateCacheTTL,
		Retries:       cfg.RateAPIRetries,
		RetryDelay:    cfg.RateAPIRetryDelay,
		FallbackRates: cfg.FallbackRates,
	})

	container.Converter = NewConverterService(
		container.RateProvider,
		container.Currency,
		container.Pricing,
		cfg.CountryCurrencies,
	)

	return container
}

// Compile-time interface checks
var (
	_ portssvc.CurrencySvcFacade = (*CurrencyService)(nil)
	_ portssvc.PricingSvcFacade  = (*PricingService)(nil)
	_ portssvc.RateProviderSvc   = (*ExchangeRateService)(nil)
	_ portssvc.ConverterSvc      = (*ConverterService)(nil)
)
