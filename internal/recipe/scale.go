package recipe

import (
	"fmt"
	"regexp"
)

const (
	// MinServings and MaxServings bound the serving selector in the detail modal.
	MinServings = 1
	MaxServings = 99
)

var unitPattern = regexp.MustCompile(`(?i)\b(tablespoon|teaspoon)s?\b`)

// ScaledIngredient is an ingredient with its amount recomputed for a target serving count.
type ScaledIngredient struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Original string `json:"original"`
	Amount   string `json:"amount"`
	Unit     string `json:"unit"`
	Image    string `json:"image,omitempty"`
}

// ClampServings keeps n inside MinServings..MaxServings.
func ClampServings(n int) int {
	if n < MinServings {
		return MinServings
	}
	if n > MaxServings {
		return MaxServings
	}
	return n
}

// ScaleAmount scales amount linearly from original servings to target servings.
// A recipe without a known serving count is returned unscaled.
func ScaleAmount(amount float64, original, target int) float64 {
	if original <= 0 {
		return amount
	}
	return amount * float64(target) / float64(original)
}

// FormatAmount renders a scaled amount with two decimal places.
func FormatAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}

// AbbreviateUnit shortens tablespoon and teaspoon, leaving any other text untouched.
func AbbreviateUnit(unit string) string {
	return unitPattern.ReplaceAllStringFunc(unit, func(m string) string {
		if m[2] == 'b' || m[2] == 'B' {
			return "Tbsp"
		}
		return "Tsp"
	})
}

// ScaleIngredients computes the display list for d at target servings.
func ScaleIngredients(d *Detail, target int) []ScaledIngredient {
	if d == nil {
		return nil
	}
	out := make([]ScaledIngredient, 0, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		out = append(out, ScaledIngredient{
			ID:       ing.ID,
			Name:     ing.Name,
			Original: AbbreviateUnit(ing.Original),
			Amount:   FormatAmount(ScaleAmount(ing.Amount, d.Servings, target)),
			Unit:     AbbreviateUnit(ing.Unit),
			Image:    ing.Image,
		})
	}
	return out
}
