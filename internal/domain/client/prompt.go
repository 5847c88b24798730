package client

import (
	"fmt"
	"math"
	"strings"
)

// GenerateBrandColorsPrompt renders the palette as a prompt section
func GenerateBrandColorsPrompt(colors []BrandColor) string {
	if len(colors) == 0 {
		return ""
	}

	lines := make([]string, 0, len(colors))
	for _, c := range colors {
		lines = append(lines, fmt.Sprintf("- %s (%s): %s [%s]", c.Name, c.Hex, c.Description, c.Usage))
	}

	return "\nBRAND COLORS REFERENCE:\nThe client's official brand colors are:\n" +
		strings.Join(lines, "\n") +
		"\n\nWhen analyzing color palette, identify if these exact brand colors are present and note any deviations. " +
		"If colors are similar but not exact matches, note the difference."
}

// GenerateClientContext describes the client business for the LLM
func GenerateClientContext(c Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\nCLIENT: %s\n", c.Name)
	fmt.Fprintf(&b, "INDUSTRY: %s\n", c.Brand.Industry)
	fmt.Fprintf(&b, "TARGET AUDIENCE: %s\n", strings.Join(c.Brand.TargetAudience, ", "))
	fmt.Fprintf(&b, "PRODUCT FOCUS: %s\n", strings.Join(c.Brand.ProductCategories, ", "))
	fmt.Fprintf(&b, "BRAND PERSONALITY: %s\n", c.Brand.BrandPersonality)
	if c.Dashboard.Currency != "" {
		fmt.Fprintf(&b, "CURRENCY: %s (%s)\n", c.Dashboard.Currency, c.Symbol())
	}
	b.WriteString("\n")
	b.WriteString(GenerateBrandColorsPrompt(c.Brand.Colors))
	b.WriteString("\n\n")
	b.WriteString(c.Analysis.CustomPromptAdditions)
	if len(c.Analysis.FocusAreas) > 0 {
		fmt.Fprintf(&b, "\n\nFOCUS AREAS: Analyze specifically for %s.", strings.Join(c.Analysis.FocusAreas, ", "))
	}
	return b.String()
}

// FormatCurrency formats a value with a K/M suffix, e.g. "$1.2K".
// nil renders as "<symbol>0".
func FormatCurrency(value *float64, symbol string, decimals int) string {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return symbol + "0"
	}
	return symbol + compact(*value, decimals)
}

// FormatNumber is FormatCurrency without the symbol; nil renders as "0"
func FormatNumber(value *float64, decimals int) string {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return "0"
	}
	return compact(*value, decimals)
}

func compact(v float64, decimals int) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.*fM", decimals, v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.*fK", decimals, v/1_000)
	default:
		return fmt.Sprintf("%.*f", decimals, v)
	}
}
