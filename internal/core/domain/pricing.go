package domain

import "time"

// BillingCycle discriminates hosting-plan pricing tracks. Domain TLD pricing
// carries no cycle (CycleNone).
type BillingCycle string

const (
	CycleNone       BillingCycle = ""
	CycleMonthly    BillingCycle = "monthly"
	CycleQuarterly  BillingCycle = "quarterly"
	CycleSemiAnnual BillingCycle = "semi_annually"
	CycleAnnual     BillingCycle = "annually"
)

// PriceScope is the tuple that uniquely identifies one pricing track. Within a
// scope, at most one ProductPrice row is current.
type PriceScope struct {
	ProductID    string       `json:"productID"`
	CurrencyCode string       `json:"currencyCode"`
	Cycle        BillingCycle `json:"cycle"`
}

// PriceState describes where a price row sits in its lifecycle.
type PriceState string

const (
	PricePending    PriceState = "pending"
	PriceCurrent    PriceState = "current"
	PriceSuperseded PriceState = "superseded"
)

// Monetary field names shared by the ledger and the history log.
const (
	FieldRegisterPrice   = "register_price"
	FieldRenewalPrice    = "renewal_price"
	FieldTransferPrice   = "transfer_price"
	FieldRedemptionPrice = "redemption_price"
)

// ProductPrice is one row of a pricing track. TLD pricing uses all four
// monetary fields; hosting-plan pricing uses RegisterPrice as the regular
// price and RenewalPrice, leaving the rest at zero. Amounts are integer minor
// units in the row's currency.
type ProductPrice struct {
	PriceID         string       `json:"priceID"` // Primary Key (UUID)
	ProductID       string       `json:"productID"`
	CurrencyCode    string       `json:"currencyCode"` // normalized ISO code
	Cycle           BillingCycle `json:"cycle"`
	RegisterPrice   int64        `json:"registerPrice"`
	RenewalPrice    int64        `json:"renewalPrice"`
	TransferPrice   int64        `json:"transferPrice"`
	RedemptionPrice int64        `json:"redemptionPrice"`
	IsCurrent       bool         `json:"isCurrent"`
	WasCurrent      bool         `json:"wasCurrent"` // has ever been activated
	EffectiveDate   time.Time    `json:"effectiveDate"`
	AuditFields
}

// Scope returns the pricing track this row belongs to.
func (p ProductPrice) Scope() PriceScope {
	return PriceScope{ProductID: p.ProductID, CurrencyCode: p.CurrencyCode, Cycle: p.Cycle}
}

// State derives the lifecycle state from the row's flags.
func (p ProductPrice) State() PriceState {
	switch {
	case p.IsCurrent:
		return PriceCurrent
	case p.WasCurrent:
		return PriceSuperseded
	default:
		return PricePending
	}
}

// MonetaryFields returns the row's monetary values keyed by field name.
func (p ProductPrice) MonetaryFields() map[string]int64 {
	return map[string]int64{
		FieldRegisterPrice:   p.RegisterPrice,
		FieldRenewalPrice:    p.RenewalPrice,
		FieldTransferPrice:   p.TransferPrice,
		FieldRedemptionPrice: p.RedemptionPrice,
	}
}

// PriceHistory is one append-only audit entry. Written whenever a price row's
// monetary fields change or the row is activated; never mutated afterwards.
type PriceHistory struct {
	HistoryID string           `json:"historyID"` // Primary Key (UUID)
	PriceID   string           `json:"priceID"`   // FK -> ProductPrice.PriceID
	OldValues map[string]int64 `json:"oldValues"`
	Changes   map[string]int64 `json:"changes"`
	ChangedBy *string          `json:"changedBy"` // nil for scheduled activation
	Reason    *string          `json:"reason"`
	IPAddress *string          `json:"ipAddress"`
	CreatedAt time.Time        `json:"createdAt"`
}

// ActivationReasonScheduled is recorded when the sweep promotes a pending row.
const ActivationReasonScheduled = "Automatically activated on effective date"

// DiffMonetaryFields returns the dirty monetary fields between two versions of
// a row: old values and new values, keyed by field name. Equal fields are
// omitted.
func DiffMonetaryFields(before, after ProductPrice) (oldValues, changes map[string]int64) {
	oldValues = map[string]int64{}
	changes = map[string]int64{}
	b, a := before.MonetaryFields(), after.MonetaryFields()
	for field, newVal := range a {
		if oldVal := b[field]; oldVal != newVal {
			oldValues[field] = oldVal
			changes[field] = newVal
		}
	}
	return oldValues, changes
}
