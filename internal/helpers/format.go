package helpers

import (
	"strings"

	"github.com/shopspring/decimal"
)

const currencySymbol = "₹"

// FormatAmount renders an amount the way the shop displays it, e.g. ₹1250 or ₹99.5.
func FormatAmount(amount decimal.Decimal) string {
	return currencySymbol + amount.String()
}

// ShortOrderID returns the last six characters of an order identifier.
func ShortOrderID(id string) string {
	if len(id) <= 6 {
		return id
	}
	return id[len(id)-6:]
}

// SplitFeatures turns the comma separated feature input into a trimmed list.
func SplitFeatures(input string) []string {
	var features []string
	for _, feature := range strings.Split(input, ",") {
		if feature = strings.TrimSpace(feature); feature != "" {
			features = append(features, feature)
		}
	}
	return features
}
