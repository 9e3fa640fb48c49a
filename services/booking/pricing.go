package booking

import (
	"math"

	"andino/config"
	"andino/models"
)

// PricingPolicy carries the business constants the engine scales prices with.
// Values come from configuration so regional deployments can differ.
type PricingPolicy struct {
	TaxRate     float64
	ChildWeight float64
	Currency    string
}

// PolicyFromConfig builds the pricing policy from loaded configuration.
func PolicyFromConfig() PricingPolicy {
	return PricingPolicy{
		TaxRate:     config.AppConfig.TaxRate,
		ChildWeight: config.AppConfig.ChildWeight,
		Currency:    config.AppConfig.Currency,
	}
}

// Nights returns the number of billable nights for a date range. Per-night
// units bill at least one night even when check-out equals check-in; every
// other unit bills exactly one.
func Nights(dr models.DateRange, unit string) int {
	if unit != models.UnitPerNight || dr.CheckOut == nil {
		return 1
	}
	days := math.Ceil(dr.CheckOut.Sub(dr.CheckIn).Hours() / 24)
	if days < 1 {
		return 1
	}
	return int(days)
}

// PartyMultiplier scales the base price by traveller composition. Children
// count at the configured weight; add-ons are never scaled.
func PartyMultiplier(p models.Party, childWeight float64) float64 {
	return float64(p.Adults) + float64(p.Children)*childWeight
}

// ComputeQuote computes the full price breakdown for a draft. It is pure and
// deterministic: identical inputs always yield identical quotes. Rounding
// happens only at the display boundary, never here.
func ComputeQuote(svc models.ServiceOffering, dr models.DateRange, party models.Party, addOnIDs []string, policy PricingPolicy) (models.Quote, error) {
	if svc.BasePrice <= 0 {
		return models.Quote{}, ErrNoBasePrice
	}

	nights := Nights(dr, svc.Unit)
	multiplier := PartyMultiplier(party, policy.ChildWeight)

	subtotal := svc.BasePrice * float64(nights) * multiplier
	for _, id := range addOnIDs {
		addOn, ok := svc.AddOnByID(id)
		if !ok {
			return models.Quote{}, NewValidationError("addOns", "unknown add-on "+id)
		}
		subtotal += addOn.Price
	}

	tax := subtotal * policy.TaxRate

	currency := svc.Currency
	if currency == "" {
		currency = policy.Currency
	}

	return models.Quote{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal + tax,
		Currency: currency,
	}, nil
}

// DisplayAmount rounds a computed amount for presentation. Kept separate so
// intermediate math stays unrounded.
func DisplayAmount(v float64) float64 {
	return math.Round(v)
}
