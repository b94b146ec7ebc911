// Package ui is the CaseForge desktop viewer.
//
// This file defines a compact Fyne theme for a dense layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CaseForgeTheme wraps the default Fyne theme with compact sizes and a
// forced light or dark variant.
type CaseForgeTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	forced  bool
}

// NewCaseForgeTheme returns the theme for a preference value: "light",
// "dark", or anything else to follow the system.
func NewCaseForgeTheme(pref string) *CaseForgeTheme {
	t := &CaseForgeTheme{base: theme.DefaultTheme()}
	switch pref {
	case "light":
		t.variant, t.forced = theme.VariantLight, true
	case "dark":
		t.variant, t.forced = theme.VariantDark, true
	}
	return t
}

// Color delegates to the base theme, overriding the variant when forced.
func (t *CaseForgeTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.forced {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

func (t *CaseForgeTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

func (t *CaseForgeTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *CaseForgeTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}

func (a *App) applyTheme() {
	if a.app != nil {
		a.app.Settings().SetTheme(NewCaseForgeTheme(a.config.Theme))
	}
}
