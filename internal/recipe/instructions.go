package recipe

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// NoInstructions is shown when a recipe carries no instruction text.
const NoInstructions = "Instructions not available"

// InstructionSteps strips markup from raw instruction text and splits it into steps.
// List items become one step each; anything else collapses into a single step.
func InstructionSteps(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return []string{collapse(raw)}
	}

	var steps []string
	doc.Find("li").Each(func(i int, s *goquery.Selection) {
		if text := collapse(s.Text()); text != "" {
			steps = append(steps, text)
		}
	})
	if len(steps) > 0 {
		return steps
	}

	if text := collapse(doc.Find("body").Text()); text != "" {
		return []string{text}
	}
	return nil
}

// PlainInstructions returns the instruction text without markup, one step per line.
func PlainInstructions(raw string) string {
	steps := InstructionSteps(raw)
	if len(steps) == 0 {
		return NoInstructions
	}
	return strings.Join(steps, "\n")
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
