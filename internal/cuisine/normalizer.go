package cuisine

import "strings"

// Normalize resolves a raw cuisine label to a canonical name. Resolution runs
// exact-match first, then substring match in both directions, and returns ""
// when the label matches nothing.
func Normalize(raw string) string {
	label := strings.ToLower(strings.TrimSpace(raw))
	if label == "" {
		return ""
	}

	for _, name := range Canonical {
		if label == name {
			return name
		}
		for _, v := range variants[name] {
			if label == v {
				return name
			}
		}
	}

	// Partial match: "authentic italian" or "ital" style labels. Terms
	// shorter than four characters are exact-only so that labels like
	// "delicious" cannot substring-match "us".
	for _, name := range Canonical {
		if strings.Contains(label, name) || (len(label) >= 4 && strings.Contains(name, label)) {
			return name
		}
		for _, v := range variants[name] {
			if len(v) >= 4 && strings.Contains(label, v) {
				return name
			}
		}
	}
	return ""
}

// Detect resolves a cuisine from a raw label, falling back to indicator-term
// counting over the recipe's title and ingredient names. The cuisine with the
// most indicator hits wins; ties go to the earlier entry in Canonical. With no
// hits at all Detect returns "".
func Detect(rawLabel, title string, ingredientNames []string) string {
	if c := Normalize(rawLabel); c != "" {
		return c
	}

	var b strings.Builder
	b.WriteString(strings.ToLower(title))
	for _, ing := range ingredientNames {
		b.WriteByte(' ')
		b.WriteString(strings.ToLower(ing))
	}
	text := b.String()
	if strings.TrimSpace(text) == "" {
		return ""
	}

	best := ""
	bestHits := 0
	for _, name := range Canonical {
		hits := 0
		for _, term := range indicators[name] {
			if strings.Contains(text, term) {
				hits++
			}
		}
		if hits > bestHits {
			best = name
			bestHits = hits
		}
	}
	return best
}
