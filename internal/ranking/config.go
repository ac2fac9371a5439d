package ranking

// RankingConfig holds all configuration for the scoring system.
type RankingConfig struct {
	// Title match multipliers
	ExactTitleMultiplier     float64 `yaml:"exact_title_multiplier"`     // default: 1.5
	SubstringTitleMultiplier float64 `yaml:"substring_title_multiplier"` // default: 1.2

	// Rating tier multipliers
	RatingEnabled        *bool   `yaml:"rating_enabled"`         // default: true
	RatingHighMultiplier float64 `yaml:"rating_high_multiplier"` // default: 1.3 (> 4.5)
	RatingGoodMultiplier float64 `yaml:"rating_good_multiplier"` // default: 1.2 (> 4.0)
	RatingOkMultiplier   float64 `yaml:"rating_ok_multiplier"`   // default: 1.1 (> 3.5)

	// Completeness bonus per present key field
	CompletenessEnabled *bool   `yaml:"completeness_enabled"` // default: true
	CompletenessBonus   float64 `yaml:"completeness_bonus"`   // default: 0.05

	// Contextual boosts keyed on the original query text
	ContextEnabled          *bool   `yaml:"context_enabled"`           // default: true
	QuickUnder30Multiplier  float64 `yaml:"quick_under_30_multiplier"` // default: 1.3
	QuickUnder45Multiplier  float64 `yaml:"quick_under_45_multiplier"` // default: 1.2
	EasyMultiplier          float64 `yaml:"easy_multiplier"`           // default: 1.25
	HealthyMultiplier       float64 `yaml:"healthy_multiplier"`        // default: 1.2
	SimpleMultiplier        float64 `yaml:"simple_multiplier"`         // default: 1.2
	GourmetMultiplier       float64 `yaml:"gourmet_multiplier"`        // default: 1.15
	HealthyCalorieThreshold float64 `yaml:"healthy_calorie_threshold"` // default: 500
}

// RatingOn reports whether rating multipliers apply; unset means enabled.
func (c *RankingConfig) RatingOn() bool { return c.RatingEnabled == nil || *c.RatingEnabled }

// CompletenessOn reports whether the completeness bonus applies; unset means enabled.
func (c *RankingConfig) CompletenessOn() bool {
	return c.CompletenessEnabled == nil || *c.CompletenessEnabled
}

// ContextOn reports whether contextual boosts apply; unset means enabled.
func (c *RankingConfig) ContextOn() bool { return c.ContextEnabled == nil || *c.ContextEnabled }

// DefaultRankingConfig returns a RankingConfig with sensible defaults.
func DefaultRankingConfig() *RankingConfig {
	enabled := true
	return &RankingConfig{
		ExactTitleMultiplier:     1.5,
		SubstringTitleMultiplier: 1.2,

		RatingEnabled:        &enabled,
		RatingHighMultiplier: 1.3,
		RatingGoodMultiplier: 1.2,
		RatingOkMultiplier:   1.1,

		CompletenessEnabled: &enabled,
		CompletenessBonus:   0.05,

		ContextEnabled:          &enabled,
		QuickUnder30Multiplier:  1.3,
		QuickUnder45Multiplier:  1.2,
		EasyMultiplier:          1.25,
		HealthyMultiplier:       1.2,
		SimpleMultiplier:        1.2,
		GourmetMultiplier:       1.15,
		HealthyCalorieThreshold: 500,
	}
}

// ApplyDefaults fills zero-valued fields with defaults so a partially
// specified YAML config still scores sanely.
func (c *RankingConfig) ApplyDefaults() {
	d := DefaultRankingConfig()
	if c.RatingEnabled == nil {
		c.RatingEnabled = d.RatingEnabled
	}
	if c.CompletenessEnabled == nil {
		c.CompletenessEnabled = d.CompletenessEnabled
	}
	if c.ContextEnabled == nil {
		c.ContextEnabled = d.ContextEnabled
	}
	if c.ExactTitleMultiplier == 0 {
		c.ExactTitleMultiplier = d.ExactTitleMultiplier
	}
	if c.SubstringTitleMultiplier == 0 {
		c.SubstringTitleMultiplier = d.SubstringTitleMultiplier
	}
	if c.RatingHighMultiplier == 0 {
		c.RatingHighMultiplier = d.RatingHighMultiplier
	}
	if c.RatingGoodMultiplier == 0 {
		c.RatingGoodMultiplier = d.RatingGoodMultiplier
	}
	if c.RatingOkMultiplier == 0 {
		c.RatingOkMultiplier = d.RatingOkMultiplier
	}
	if c.CompletenessBonus == 0 {
		c.CompletenessBonus = d.CompletenessBonus
	}
	if c.QuickUnder30Multiplier == 0 {
		c.QuickUnder30Multiplier = d.QuickUnder30Multiplier
	}
	if c.QuickUnder45Multiplier == 0 {
		c.QuickUnder45Multiplier = d.QuickUnder45Multiplier
	}
	if c.EasyMultiplier == 0 {
		c.EasyMultiplier = d.EasyMultiplier
	}
	if c.HealthyMultiplier == 0 {
		c.HealthyMultiplier = d.HealthyMultiplier
	}
	if c.SimpleMultiplier == 0 {
		c.SimpleMultiplier = d.SimpleMultiplier
	}
	if c.GourmetMultiplier == 0 {
		c.GourmetMultiplier = d.GourmetMultiplier
	}
	if c.HealthyCalorieThreshold == 0 {
		c.HealthyCalorieThreshold = d.HealthyCalorieThreshold
	}
}
