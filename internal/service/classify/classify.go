// Package classify maps provider categories and business names onto the place taxonomy.
package classify

import (
	"strings"

	"github.com/octobees/places-sync/internal/entity"
)

// Rule assigns Category when a name contains one of Keywords or a provider reports one of
// ProviderTypes. Google types (hindu_temple) and Yelp aliases (indpak) share one list.
type Rule struct {
	Category      entity.Category
	Keywords      []string
	ProviderTypes []string
}

// DefaultRules is evaluated top to bottom; the first hit wins. Specific places of worship come
// before the generic temple rule and shops before restaurants.
var DefaultRules = []Rule{
	{
		Category:      entity.CategoryGurdwara,
		Keywords:      []string{"gurdwara", "gurudwara", "sikh temple", "sikh society"},
		ProviderTypes: []string{"gurdwara", "sikh_temple"},
	},
	{
		Category:      entity.CategoryTemple,
		Keywords:      []string{"mandir", "temple", "hindu society", "sabha"},
		ProviderTypes: []string{"hindu_temple", "hindutemples", "buddhist_temple", "buddhist_temples"},
	},
	{
		Category:      entity.CategoryMosque,
		Keywords:      []string{"mosque", "masjid", "islamic centre", "islamic center"},
		ProviderTypes: []string{"mosque", "mosques"},
	},
	{
		Category:      entity.CategoryGrocery,
		Keywords:      []string{"grocery", "groceries", "supermarket", "bazaar", "spice house", "foods market"},
		ProviderTypes: []string{"grocery_store", "supermarket", "grocery", "ethnicgrocery", "intlgrocery", "markets"},
	},
	{
		Category:      entity.CategoryCafeDessert,
		Keywords:      []string{"sweets", "sweet house", "mithai", "chai", "cafe", "bakery", "dessert", "kulfi", "ice cream"},
		ProviderTypes: []string{"cafe", "bakery", "coffee_shop", "dessert_shop", "ice_cream_shop", "desserts", "coffee", "bakeries", "icecream", "tea"},
	},
	{
		Category:      entity.CategoryBeautySalon,
		Keywords:      []string{"salon", "beauty", "threading", "henna", "mehndi", "spa"},
		ProviderTypes: []string{"beauty_salon", "hair_salon", "nail_salon", "spa", "beautysvc", "hair", "eyebrowservices", "othersalons"},
	},
	{
		Category:      entity.CategoryClothing,
		Keywords:      []string{"boutique", "fashion", "saree", "sari", "lehenga", "bridal", "clothing", "apparel"},
		ProviderTypes: []string{"clothing_store", "fashion", "womenscloth", "menscloth", "bridal", "shoe_store"},
	},
	{
		Category:      entity.CategoryRestaurant,
		Keywords:      []string{"restaurant", "kitchen", "grill", "dhaba", "tandoor", "biryani", "curry", "eatery", "bistro"},
		ProviderTypes: []string{"restaurant", "indian_restaurant", "meal_takeaway", "meal_delivery", "food", "indpak", "pakistani", "bangladeshi", "srilankan", "himalayan", "restaurants"},
	},
}

// Classifier is a pure function over a rule table.
type Classifier struct {
	rules []Rule
}

// NewClassifier returns a classifier over rules, or DefaultRules when none are given.
func NewClassifier(rules ...Rule) *Classifier {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	return &Classifier{rules: rules}
}

// Classify picks a category for a place. Name keywords are checked across all rules before
// provider types, since the name is usually more specific ("Punjab Sweets" typed as restaurant).
func (c *Classifier) Classify(name string, providerTypes []string) entity.Category {
	lowered := strings.ToLower(name)
	for _, rule := range c.rules {
		if containsAny(lowered, rule.Keywords) {
			return rule.Category
		}
	}
	types := normalizeTypes(providerTypes)
	for _, rule := range c.rules {
		for _, t := range rule.ProviderTypes {
			if _, ok := types[t]; ok {
				return rule.Category
			}
		}
	}
	return entity.CategoryOther
}

// Tags returns the distinct rule keywords found in name plus the provider types known to any
// rule, in first-seen order.
func (c *Classifier) Tags(name string, providerTypes []string) []string {
	lowered := strings.ToLower(name)
	seen := make(map[string]struct{})
	var tags []string
	add := func(tag string) {
		if _, dup := seen[tag]; dup {
			return
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}

	for _, rule := range c.rules {
		for _, kw := range rule.Keywords {
			if strings.Contains(lowered, kw) {
				add(kw)
			}
		}
	}
	for _, raw := range providerTypes {
		t := normalizeType(raw)
		for _, rule := range c.rules {
			if contains(rule.ProviderTypes, t) {
				add(t)
				break
			}
		}
	}
	return tags
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func normalizeTypes(raw []string) map[string]struct{} {
	out := make(map[string]struct{}, len(raw))
	for _, r := range raw {
		if t := normalizeType(r); t != "" {
			out[t] = struct{}{}
		}
	}
	return out
}

func normalizeType(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
