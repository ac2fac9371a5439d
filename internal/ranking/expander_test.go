package ranking

import (
	"strings"
	"testing"
)

func TestExpand(t *testing.T) {
	e := NewExpander()

	tests := []struct {
		name        string
		query       string
		wantContain []string
		wantAbsent  []string
	}{
		{
			name:        "time urgency",
			query:       "quick dinner",
			wantContain: []string{"speedy", "weeknight", "supper"},
		},
		{
			name:        "dietary",
			query:       "vegan dessert",
			wantContain: []string{"plant-based", "dairy-free", "pastry"},
		},
		{
			name:        "flavor",
			query:       "spicy noodles",
			wantContain: []string{"fiery", "chili"},
			wantAbsent:  []string{"sugary"},
		},
		{
			name:       "no recognized tokens",
			query:      "chicken parmesan",
			wantAbsent: []string{"speedy", "fiery"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Expand(tt.query)
			for _, term := range tt.wantContain {
				if !strings.Contains(got, term) {
					t.Errorf("Expand(%q) = %q, missing %q", tt.query, got, term)
				}
			}
			for _, term := range tt.wantAbsent {
				if strings.Contains(got, term) {
					t.Errorf("Expand(%q) = %q, should not contain %q", tt.query, got, term)
				}
			}
		})
	}
}

func TestExpandRepeatsOriginalFirst(t *testing.T) {
	e := NewExpander()
	got := e.Expand("quick pasta")
	if !strings.HasPrefix(got, "quick pasta quick pasta") {
		t.Errorf("Expand() = %q, want original query doubled at the front", got)
	}
}

func TestExpandDeduplicates(t *testing.T) {
	e := NewExpander()
	// "quick" and "fast" cross-reference each other; shared synonyms appear once.
	got := e.Expand("quick fast meal")
	if n := strings.Count(got, "speedy"); n != 1 {
		t.Errorf("Expand() = %q, %q appears %d times, want 1", got, "speedy", n)
	}
}

func TestExpandEmpty(t *testing.T) {
	e := NewExpander()
	if got := e.Expand("   "); got != "" {
		t.Errorf("Expand(blank) = %q, want empty", got)
	}
}

func TestExpandDeterministic(t *testing.T) {
	e := NewExpander()
	first := e.Expand("quick healthy vegan breakfast")
	for i := 0; i < 10; i++ {
		if got := e.Expand("quick healthy vegan breakfast"); got != first {
			t.Fatalf("expansion unstable: %q vs %q", got, first)
		}
	}
}
