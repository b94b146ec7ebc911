package model

// AppConfig holds application-wide preferences and defaults for new configurations.
type AppConfig struct {
	// Defaults applied to new configurations
	DefaultThickness     float64    `json:"default_thickness"`
	DefaultBackThickness float64    `json:"default_back_thickness"`
	DefaultSocle         Socle      `json:"default_socle"`
	DefaultDimensions    Dimensions `json:"default_dimensions"`
	DefaultMaterial      string     `json:"default_material"`
	Stock                StockSheet `json:"stock"` // board format for the cut plan

	// Engine preferences
	Currency     string  `json:"currency"`      // ISO 4217, e.g. "EUR"
	Language     string  `json:"language"`      // BCP 47 tag used to format prices
	Tolerance    float64 `json:"tolerance"`     // mm, "touches edge" comparisons
	DebounceMS   int     `json:"debounce_ms"`   // delay before recomputing after edits
	HistoryDepth int     `json:"history_depth"` // undo steps kept
	CacheSize    int     `json:"cache_size"`    // memoized resolves kept

	// Application preferences
	RecentConfigurations []string `json:"recent_configurations"`
	Theme                string   `json:"theme"` // "light", "dark", "system"
}

// DefaultAppConfig returns an AppConfig populated with sensible defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		DefaultThickness:     DefaultThickness,
		DefaultBackThickness: DefaultBackThickness,
		DefaultSocle:         Socle{Kind: SocleNone},
		DefaultDimensions:    Dimensions{Width: 1200, Height: 730, Depth: 400},
		DefaultMaterial:      DefaultMaterialName,
		Stock:                DefaultStockSheet(),
		Currency:             "EUR",
		Language:             "fr-FR",
		Tolerance:            0.05,
		DebounceMS:           150,
		HistoryDepth:         50,
		CacheSize:            64,
		RecentConfigurations: []string{},
		Theme:                "system",
	}
}

// ApplyTo copies the defaults into a configuration.
// This is used when creating a new configuration so it inherits the user's saved defaults.
func (c AppConfig) ApplyTo(cfg *Configuration) {
	cfg.Thickness = c.DefaultThickness
	cfg.BackThickness = c.DefaultBackThickness
	cfg.Socle = c.DefaultSocle
	if c.DefaultMaterial != "" {
		cfg.MaterialSelection.Structure = c.DefaultMaterial
	}
}

// NewConfiguration creates a configuration using the saved defaults.
func (c AppConfig) NewConfiguration(name string) Configuration {
	cfg := NewConfiguration(name, c.DefaultDimensions)
	c.ApplyTo(&cfg)
	return cfg
}

// AddRecent records path as the most recently opened configuration, keeping at most ten.
func (c *AppConfig) AddRecent(path string) {
	out := []string{path}
	for _, p := range c.RecentConfigurations {
		if p != path && len(out) < 10 {
			out = append(out, p)
		}
	}
	c.RecentConfigurations = out
}
