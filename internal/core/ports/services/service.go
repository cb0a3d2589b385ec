package services

// ServiceContainer aggregates all service facades for handler wiring.
type ServiceContainer struct {
	Currency     CurrencySvcFacade
	Pricing      PricingSvcFacade
	RateProvider RateProviderSvc
	Converter    ConverterSvc
}
