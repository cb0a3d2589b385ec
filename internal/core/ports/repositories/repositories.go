package repositories

// RepositoryProvider aggregates all repository facades for service wiring.
type RepositoryProvider struct {
	CurrencyRepo CurrencyRepositoryWithTx
	PriceRepo    ProductPriceRepositoryWithTx
	HistoryRepo  PriceHistoryRepositoryFacade
}
