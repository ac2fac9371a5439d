package ranking

import "strings"

type synonymEntry struct {
	term     string
	synonyms []string
}

// synonymCategories groups domain synonyms by the kind of intent they
// capture. A query containing an entry's term pulls in that entry's synonyms
// to improve similarity-search recall. Entries are ordered so expansion is
// deterministic for a given query.
var synonymCategories = [][]synonymEntry{
	// time urgency
	{
		{"quick", []string{"fast", "speedy", "rapid", "30-minute", "weeknight"}},
		{"fast", []string{"quick", "speedy", "express"}},
		{"instant", []string{"quick", "immediate", "no-cook"}},
		{"slow", []string{"braised", "simmered", "slow-cooked", "slow cooker"}},
	},
	// cooking method
	{
		{"grilled", []string{"barbecued", "charred", "bbq"}},
		{"baked", []string{"roasted", "oven-baked"}},
		{"fried", []string{"pan-fried", "sauteed", "crispy"}},
		{"steamed", []string{"poached", "gently cooked"}},
		{"raw", []string{"fresh", "no-cook", "uncooked"}},
	},
	// dietary label
	{
		{"vegetarian", []string{"meatless", "veggie", "plant-based"}},
		{"vegan", []string{"plant-based", "dairy-free", "meatless"}},
		{"healthy", []string{"nutritious", "light", "wholesome", "low-calorie"}},
		{"keto", []string{"low-carb", "high-fat", "ketogenic"}},
		{"gluten-free", []string{"wheat-free", "celiac-friendly"}},
	},
	// meal type
	{
		{"breakfast", []string{"brunch", "morning meal"}},
		{"lunch", []string{"midday meal", "light meal"}},
		{"dinner", []string{"supper", "evening meal", "main course"}},
		{"snack", []string{"appetizer", "bite", "finger food"}},
		{"dessert", []string{"sweet", "pastry", "treat"}},
	},
	// flavor profile
	{
		{"spicy", []string{"hot", "fiery", "chili", "piquant"}},
		{"sweet", []string{"sugary", "dessert", "honeyed"}},
		{"savory", []string{"umami", "hearty", "rich"}},
		{"tangy", []string{"sour", "citrus", "zesty"}},
		{"smoky", []string{"charred", "barbecue", "wood-fired"}},
	},
}

// Expander augments free-text queries with domain synonyms.
type Expander struct{}

// NewExpander creates a new Expander.
func NewExpander() *Expander {
	return &Expander{}
}

// Expand returns the query text to embed for similarity search. The original
// query is repeated ahead of the synonym terms so literal matches dominate
// vector relevance; synonyms are deduplicated in first-seen order.
func (e *Expander) Expand(query string) string {
	original := strings.TrimSpace(query)
	if original == "" {
		return ""
	}

	lower := strings.ToLower(original)
	seen := make(map[string]bool)
	for _, tok := range strings.Fields(lower) {
		seen[tok] = true
	}

	var extra []string
	for _, category := range synonymCategories {
		for _, entry := range category {
			if !strings.Contains(lower, entry.term) {
				continue
			}
			for _, syn := range entry.synonyms {
				if seen[syn] {
					continue
				}
				seen[syn] = true
				extra = append(extra, syn)
			}
		}
	}

	parts := []string{original, original}
	parts = append(parts, extra...)
	return strings.Join(parts, " ")
}
