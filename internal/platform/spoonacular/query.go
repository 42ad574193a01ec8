package spoonacular

import (
	"net/url"
	"strconv"
	"strings"
)

// SearchQuery holds the ingredient search form. Query is the only field the
// search screen requires; every other filter is optional.
type SearchQuery struct {
	Query        string `form:"query" json:"query"`
	Diet         string `form:"diet" json:"diet,omitempty"`
	Cuisine      string `form:"cuisine" json:"cuisine,omitempty"`
	Intolerances string `form:"intolerances" json:"intolerances,omitempty"`
	MealType     string `form:"type" json:"type,omitempty"`
	MinCalories  string `form:"minCalories" json:"minCalories,omitempty"`
	MaxCalories  string `form:"maxCalories" json:"maxCalories,omitempty"`
	MinReadyTime string `form:"minReadyTime" json:"minReadyTime,omitempty"`
	MaxReadyTime string `form:"maxReadyTime" json:"maxReadyTime,omitempty"`
	Number       int    `form:"-" json:"number,omitempty"`
}

// Values encodes the query for /recipes/complexSearch.
func (q SearchQuery) Values() url.Values {
	v := url.Values{}
	set(v, "query", q.Query)
	set(v, "diet", q.Diet)
	set(v, "cuisine", q.Cuisine)
	set(v, "intolerances", q.Intolerances)
	set(v, "type", q.MealType)
	set(v, "minCalories", q.MinCalories)
	set(v, "maxCalories", q.MaxCalories)
	set(v, "minReadyTime", q.MinReadyTime)
	set(v, "maxReadyTime", q.MaxReadyTime)
	setInt(v, "number", q.Number)
	return v
}

// RandomQuery holds the "surprise me" filters. Cuisine is sent as a tag.
type RandomQuery struct {
	Number       int    `form:"-" json:"number,omitempty"`
	Cuisine      string `form:"cuisine" json:"cuisine,omitempty"`
	Diet         string `form:"diet" json:"diet,omitempty"`
	MaxReadyTime string `form:"prepTime" json:"prepTime,omitempty"`
}

// Values encodes the query for /recipes/random.
func (q RandomQuery) Values() url.Values {
	v := url.Values{}
	setInt(v, "number", q.Number)
	set(v, "tags", q.Cuisine)
	set(v, "diet", q.Diet)
	set(v, "maxReadyTime", q.MaxReadyTime)
	return v
}

// MealPlanQuery holds the meal planner form.
type MealPlanQuery struct {
	TimeFrame      string `form:"duration" json:"timeFrame"`
	TargetCalories string `form:"calorieGoal" json:"targetCalories"`
	Diet           string `form:"diet" json:"diet"`
	Exclude        string `form:"exclude" json:"exclude,omitempty"`
}

// Values encodes the query for /mealplanner/generate.
func (q MealPlanQuery) Values() url.Values {
	v := url.Values{}
	set(v, "timeFrame", q.TimeFrame)
	set(v, "targetCalories", q.TargetCalories)
	set(v, "diet", q.Diet)
	set(v, "exclude", q.Exclude)
	return v
}

// AutocompleteQuery holds a partial ingredient name.
type AutocompleteQuery struct {
	Query  string `form:"query" json:"query"`
	Number int    `form:"-" json:"number,omitempty"`
}

// Values encodes the query for /food/ingredients/autocomplete.
func (q AutocompleteQuery) Values() url.Values {
	v := url.Values{}
	set(v, "query", q.Query)
	setInt(v, "number", q.Number)
	return v
}

func set(v url.Values, key, value string) {
	if value = strings.TrimSpace(value); value != "" {
		v.Set(key, value)
	}
}

func setInt(v url.Values, key string, value int) {
	if value > 0 {
		v.Set(key, strconv.Itoa(value))
	}
}
