package recipe

import (
	"encoding/json"
	"strings"
)

// Summary is a single recipe card as returned by search and random endpoints.
type Summary struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	Image          string `json:"image"`
	ReadyInMinutes int    `json:"readyInMinutes,omitempty"`
	Servings       int    `json:"servings,omitempty"`
	SourceURL      string `json:"sourceUrl,omitempty"`
}

// Ingredient is one entry of a recipe's extendedIngredients list.
type Ingredient struct {
	ID       int     `json:"id"`
	Original string  `json:"original"`
	Name     string  `json:"name,omitempty"`
	Amount   float64 `json:"amount,omitempty"`
	Unit     string  `json:"unit,omitempty"`
	Image    string  `json:"image,omitempty"`
}

// Detail represents the full recipe information shown in the modal.
type Detail struct {
	ID             int          `json:"id"`
	Title          string       `json:"title"`
	Image          string       `json:"image"`
	Servings       int          `json:"servings"`
	ReadyInMinutes int          `json:"readyInMinutes,omitempty"`
	SourceURL      string       `json:"sourceUrl,omitempty"`
	Cuisines       []string     `json:"cuisines,omitempty"`
	Diets          []string     `json:"diets,omitempty"`
	Instructions   string       `json:"instructions"`
	Ingredients    []Ingredient `json:"extendedIngredients"`
}

// UnmarshalJSON implements the json.Unmarshaler interface for Detail.
func (d *Detail) UnmarshalJSON(data []byte) error {
	type Alias Detail // Create an alias to avoid infinite recursion
	aux := &struct {
		*Alias
	}{
		Alias: (*Alias)(d),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	for i, c := range d.Cuisines {
		d.Cuisines[i] = strings.ToLower(c)
	}
	for i, diet := range d.Diets {
		d.Diets[i] = strings.ToLower(diet)
	}

	return nil
}

// Summary returns the card view of a detail record.
func (d *Detail) Summary() Summary {
	return Summary{
		ID:             d.ID,
		Title:          d.Title,
		Image:          d.Image,
		ReadyInMinutes: d.ReadyInMinutes,
		Servings:       d.Servings,
		SourceURL:      d.SourceURL,
	}
}

// MealPlanEntry is one meal of a generated plan. Day is set for week plans only.
type MealPlanEntry struct {
	ID             int    `json:"id"`
	Title          string `json:"title"`
	ImageType      string `json:"imageType,omitempty"`
	ReadyInMinutes int    `json:"readyInMinutes"`
	Servings       int    `json:"servings,omitempty"`
	SourceURL      string `json:"sourceUrl"`
	Day            string `json:"day,omitempty"`
}

// Nutrients holds the daily totals returned alongside a meal plan.
type Nutrients struct {
	Calories      float64 `json:"calories"`
	Protein       float64 `json:"protein"`
	Fat           float64 `json:"fat"`
	Carbohydrates float64 `json:"carbohydrates"`
}
