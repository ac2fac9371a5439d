// Package cuisine maps free-text cuisine labels and recipe content onto a
// closed canonical vocabulary. Normalization never invents a cuisine: when no
// evidence exists the result is the empty string.
package cuisine

// Canonical is the closed cuisine vocabulary, in priority order. Detection
// ties are broken by position in this slice, so the order is load-bearing.
var Canonical = []string{
	"italian",
	"mexican",
	"chinese",
	"indian",
	"japanese",
	"thai",
	"french",
	"greek",
	"spanish",
	"korean",
	"vietnamese",
	"american",
	"mediterranean",
	"middle eastern",
}

// variants maps each canonical cuisine to the raw labels that resolve to it.
// Labels are matched lowercase; the canonical name itself always matches.
var variants = map[string][]string{
	"italian":        {"italy", "italiano", "tuscan", "sicilian", "roman"},
	"mexican":        {"mexico", "tex-mex", "tex mex", "latin", "latin american"},
	"chinese":        {"china", "cantonese", "szechuan", "sichuan", "hunan"},
	"indian":         {"india", "punjabi", "south indian", "north indian", "bengali"},
	"japanese":       {"japan", "sushi", "washoku"},
	"thai":           {"thailand", "siamese"},
	"french":         {"france", "provencal", "provençal", "parisian"},
	"greek":          {"greece", "hellenic"},
	"spanish":        {"spain", "catalan", "basque", "andalusian"},
	"korean":         {"korea", "south korean"},
	"vietnamese":     {"vietnam", "viet"},
	"american":       {"usa", "united states", "us", "southern", "cajun", "creole", "bbq", "barbecue"},
	"mediterranean":  {"mediteranean"},
	"middle eastern": {"middle-eastern", "lebanese", "persian", "israeli", "turkish", "moroccan", "arabic"},
}

// indicators maps each canonical cuisine to ingredient and title keywords that
// hint at it when no explicit label is available. Counting matches against
// these terms drives Detect.
var indicators = map[string][]string{
	"italian":        {"pasta", "parmesan", "mozzarella", "basil", "risotto", "prosciutto", "pesto", "gnocchi", "marinara"},
	"mexican":        {"tortilla", "taco", "salsa", "cilantro", "jalapeno", "jalapeño", "enchilada", "queso", "chipotle", "burrito"},
	"chinese":        {"soy sauce", "hoisin", "wok", "bok choy", "five spice", "oyster sauce", "dumpling", "stir fry", "stir-fry"},
	"indian":         {"curry", "garam masala", "turmeric", "naan", "tandoori", "masala", "ghee", "paneer", "cardamom", "cumin"},
	"japanese":       {"miso", "sake", "nori", "wasabi", "mirin", "dashi", "ramen", "tempura", "teriyaki", "tofu"},
	"thai":           {"fish sauce", "lemongrass", "coconut milk", "thai basil", "pad thai", "galangal", "kaffir"},
	"french":         {"baguette", "brie", "gruyere", "gruyère", "herbes de provence", "dijon", "creme fraiche", "crème fraîche", "ratatouille"},
	"greek":          {"feta", "tzatziki", "phyllo", "kalamata", "gyro", "moussaka", "oregano"},
	"spanish":        {"chorizo", "saffron", "paella", "manchego", "tapas", "sherry"},
	"korean":         {"gochujang", "kimchi", "bulgogi", "sesame oil", "bibimbap", "gochugaru"},
	"vietnamese":     {"pho", "rice paper", "nuoc cham", "banh mi", "hoisin"},
	"american":       {"burger", "mac and cheese", "fried chicken", "cornbread", "ranch", "buffalo", "meatloaf"},
	"mediterranean":  {"olive oil", "hummus", "couscous", "pita", "falafel", "tahini", "chickpea"},
	"middle eastern": {"za'atar", "sumac", "pomegranate molasses", "harissa", "shawarma", "baklava", "labneh"},
}
