/**
 * @description
 * The exchange-rate catalog: an immutable in-memory snapshot of destination
 * countries and their USD-denominated rates, plus the richer live-rate
 * comparison list of competing institutions and the supported payment
 * methods. The snapshot is generated once at process start and is not
 * refreshed from any live source.
 *
 * @notes
 * - Accessors return copies so callers cannot mutate the snapshot.
 * - Best-rate lookup uses a strict greater-than comparison, so the first
 *   institution encountered keeps precedence on ties.
 */

package rates

import (
	"time"

	"github.com/diaremit/remit-service/internal/domain"
)

// Catalog holds the process-lifetime rate snapshot.
type Catalog struct {
	generatedAt time.Time
	rates       []domain.ExchangeRate
	live        []domain.LiveRateComparison
	methods     []domain.PaymentMethod
}

// NewCatalog builds the snapshot, stamping every entry with now.
func NewCatalog(now time.Time) *Catalog {
	return &Catalog{
		generatedAt: now,
		rates: []domain.ExchangeRate{
			{Country: "Ghana", Flag: "🇬🇭", Currency: "GHS", Rate: 12.5, Source: "Manual", Confidence: 0.8, LastUpdated: now},
			{Country: "Kenya", Flag: "🇰🇪", Currency: "KES", Rate: 153.2, Source: "Manual", Confidence: 0.8, LastUpdated: now},
			{Country: "Senegal", Flag: "🇸🇳", Currency: "XOF", Rate: 615.8, Source: "Manual", Confidence: 0.8, LastUpdated: now},
			{Country: "Uganda", Flag: "🇺🇬", Currency: "UGX", Rate: 3750.5, Source: "Manual", Confidence: 0.8, LastUpdated: now},
		},
		live: []domain.LiveRateComparison{
			{
				Country:             "Ghana",
				Flag:                "🇬🇭",
				Currency:            "GHS",
				BestRateInstitution: "institution_a",
				AverageRate:         12.45,
				Institutions: []domain.InstitutionRate{
					{
						ID:           "institution_a",
						Name:         "SwiftTransfer Pro",
						Rate:         12.65,
						Fee:          2.99,
						TransferTime: "1-2 hours",
						Rating:       4.8,
						Features:     []string{"Instant notifications", "24/7 support", "Mobile wallet"},
						LastUpdated:  now,
					},
					{
						ID:           "institution_b",
						Name:         "GlobalSend Express",
						Rate:         12.25,
						Fee:          4.99,
						TransferTime: "2-4 hours",
						Rating:       4.5,
						Features:     []string{"Bank transfer", "Cash pickup", "Online tracking"},
						LastUpdated:  now,
					},
				},
			},
		},
		methods: []domain.PaymentMethod{
			{ID: "bank_transfer", Name: "Bank Transfer", TransferTime: "1-2 business days", Description: "Direct to bank account"},
			{ID: "apple_pay", Name: "Apple Pay", TransferTime: "Within minutes", Description: "Quick and secure payments"},
			{ID: "paypal", Name: "PayPal", TransferTime: "Within minutes", Description: "PayPal account transfer"},
			{ID: "debit_card", Name: "Debit Card", TransferTime: "Within minutes", Description: "Instant transfer with card"},
		},
	}
}

// GeneratedAt reports when the snapshot was built.
func (c *Catalog) GeneratedAt() time.Time {
	return c.generatedAt
}

// ExchangeRates returns the ordered destination-country rate list.
func (c *Catalog) ExchangeRates() []domain.ExchangeRate {
	out := make([]domain.ExchangeRate, len(c.rates))
	copy(out, c.rates)
	return out
}

// RateForCountry looks up the rate snapshot for a destination country.
func (c *Catalog) RateForCountry(country string) (domain.ExchangeRate, bool) {
	for _, r := range c.rates {
		if r.Country == country {
			return r, true
		}
	}
	return domain.ExchangeRate{}, false
}

// CountryForCurrency maps a destination currency back to its country name,
// or "Unknown" for anything outside the catalog.
func (c *Catalog) CountryForCurrency(code string) string {
	for _, r := range c.rates {
		if r.Currency == code {
			return r.Country
		}
	}
	return "Unknown"
}

// LiveRates returns the institution comparison list.
func (c *Catalog) LiveRates() []domain.LiveRateComparison {
	out := make([]domain.LiveRateComparison, len(c.live))
	copy(out, c.live)
	return out
}

// LiveRatesForCountry returns the comparison entry for one country.
func (c *Catalog) LiveRatesForCountry(country string) (domain.LiveRateComparison, bool) {
	for _, l := range c.live {
		if l.Country == country {
			return l, true
		}
	}
	return domain.LiveRateComparison{}, false
}

// BestRateForCountry returns the institution with the strictly highest rate
// within a country. Ties keep the first institution encountered.
func (c *Catalog) BestRateForCountry(country string) (domain.InstitutionRate, bool) {
	comparison, ok := c.LiveRatesForCountry(country)
	if !ok || len(comparison.Institutions) == 0 {
		return domain.InstitutionRate{}, false
	}
	best := comparison.Institutions[0]
	for _, inst := range comparison.Institutions[1:] {
		if inst.Rate > best.Rate {
			best = inst
		}
	}
	return best, true
}

// Institution looks up a specific institution within a country.
func (c *Catalog) Institution(country, institutionID string) (domain.InstitutionRate, bool) {
	comparison, ok := c.LiveRatesForCountry(country)
	if !ok {
		return domain.InstitutionRate{}, false
	}
	for _, inst := range comparison.Institutions {
		if inst.ID == institutionID {
			return inst, true
		}
	}
	return domain.InstitutionRate{}, false
}

// PaymentMethods returns the supported funding options.
func (c *Catalog) PaymentMethods() []domain.PaymentMethod {
	out := make([]domain.PaymentMethod, len(c.methods))
	copy(out, c.methods)
	return out
}

// PaymentMethod looks up one funding option by id.
func (c *Catalog) PaymentMethod(id string) (domain.PaymentMethod, bool) {
	for _, m := range c.methods {
		if m.ID == id {
			return m, true
		}
	}
	return domain.PaymentMethod{}, false
}
