package importer

import (
	"strings"

	"github.com/valeriaulyamaeva/neofin/models"
)

// keywordTable maps well-known merchant words to a category name users
// commonly create. Matching is by lowercase substring, first rule wins.
var keywordTable = []struct {
	category string
	keywords []string
}{
	{"groceries", []string{"supermarket", "grocery", "lidl", "aldi", "walmart", "evroopt"}},
	{"food", []string{"restaurant", "cafe", "coffee", "pizza", "burger", "mcdonald", "kfc", "starbucks"}},
	{"transport", []string{"uber", "taxi", "bolt", "metro", "fuel", "petrol", "parking"}},
	{"subscriptions", []string{"netflix", "spotify", "youtube", "apple.com", "icloud", "patreon"}},
	{"utilities", []string{"electric", "water", "internet", "mobile", "telecom"}},
	{"health", []string{"pharmacy", "apteka", "clinic", "dental", "hospital"}},
	{"shopping", []string{"amazon", "wildberries", "ozon", "ikea", "zara", "aliexpress"}},
	{"entertainment", []string{"cinema", "theatre", "steam", "playstation", "concert"}},
	{"rent", []string{"rent", "landlord", "lease"}},
	{"salary", []string{"salary", "payroll", "wage"}},
}

// Categorizer guesses a category for a statement line from the user's own
// category names first and the built-in keyword table second.
type Categorizer struct {
	byName map[string]models.Category
	cats   []models.Category
}

func NewCategorizer(categories []models.Category) *Categorizer {
	c := &Categorizer{byName: make(map[string]models.Category), cats: categories}
	for _, cat := range categories {
		c.byName[strings.ToLower(cat.Name)] = cat
	}
	return c
}

// Guess returns the matching category ID, or nil.
func (c *Categorizer) Guess(description, txnType string) *int {
	desc := strings.ToLower(description)
	if desc == "" {
		return nil
	}

	for _, cat := range c.cats {
		name := strings.ToLower(strings.TrimSpace(cat.Name))
		if name == "" || cat.Type != txnType {
			continue
		}
		if strings.Contains(desc, name) {
			id := cat.ID
			return &id
		}
	}

	for _, rule := range keywordTable {
		cat, ok := c.byName[rule.category]
		if !ok || cat.Type != txnType {
			continue
		}
		for _, kw := range rule.keywords {
			if strings.Contains(desc, kw) {
				id := cat.ID
				return &id
			}
		}
	}
	return nil
}
