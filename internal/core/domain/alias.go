package domain

import (
	"regexp"
	"strings"
)

// currencyAliases maps legacy or colloquial currency codes to their ISO 4217
// replacement. Populated with well-known defaults and extended from config at
// startup (RegisterCurrencyAlias is not safe for concurrent use afterwards).
var currencyAliases = map[string]string{
	"FRW": "RWF", // legacy Rwandan Franc code
}

var currencyCodePattern = regexp.MustCompile(`^[A-Z]{3}$`)

// NormalizeCurrencyCode upper-cases a currency code and resolves it through the
// alias table. Every component must normalize before persisting or comparing
// currency codes.
func NormalizeCurrencyCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if iso, ok := currencyAliases[code]; ok {
		return iso
	}
	return code
}

// IsValidCurrencyCode reports whether the code is a plausible ISO 4217 code
// after normalization.
func IsValidCurrencyCode(code string) bool {
	return currencyCodePattern.MatchString(NormalizeCurrencyCode(code))
}

// RegisterCurrencyAlias adds a legacy-code to ISO-code mapping. Intended for
// startup configuration only.
func RegisterCurrencyAlias(legacy, iso string) {
	currencyAliases[strings.ToUpper(strings.TrimSpace(legacy))] = strings.ToUpper(strings.TrimSpace(iso))
}
