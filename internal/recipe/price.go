package recipe

import (
	"fmt"
	"math"
)

// IngredientCost is one row of the static price breakdown.
type IngredientCost struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

var priceBreakdown = []IngredientCost{
	{Name: "1 tablespoon brown sugar", Price: 0.04},
	{Name: "1 tablespoon brown sugar", Price: 0.04},
	{Name: "2 carrots", Price: 0.21},
	{Name: "2 cups cooked brown rice", Price: 0.42},
	{Name: "1 cup crimini mushrooms", Price: 0.4},
	{Name: "2 eggs", Price: 0.48},
	{Name: "2 tablespoons fresh ginger", Price: 0.08},
	{Name: "1 teaspoon garlic", Price: 0.07},
	{Name: "1 cup green beans", Price: 0.37},
	{Name: "½ cups scallions", Price: 0.33},
	{Name: "1 tablespoon sesame oil", Price: 0.34},
	{Name: "4 tablespoons soy sauce", Price: 0.49},
	{Name: "1 zucchini squash", Price: 0.56},
}

// ChartColors is the pie chart palette, applied in order and repeated when exhausted.
var ChartColors = []string{
	"#FF6384", "#36A2EB", "#FFCE56", "#4BC0C0", "#9966FF", "#FF9F40", "#D4E157",
	"#F06292", "#64B5F6", "#81C784", "#BA68C8", "#FFD54F", "#A1887F",
}

// PriceBreakdown returns a copy of the hard-coded ingredient costs.
func PriceBreakdown() []IngredientCost {
	out := make([]IngredientCost, len(priceBreakdown))
	copy(out, priceBreakdown)
	return out
}

// TotalCost sums the prices of costs.
func TotalCost(costs []IngredientCost) float64 {
	var total float64
	for _, c := range costs {
		total += c.Price
	}
	return total
}

// PieSlice is one wedge of the price chart, ready to be drawn as an SVG path.
type PieSlice struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
	Path    string  `json:"path"`
}

// PieSlices lays out costs as wedges of a circle centred on (cx, cy) with radius r,
// starting at twelve o'clock and going clockwise.
func PieSlices(costs []IngredientCost, cx, cy, r float64) []PieSlice {
	total := TotalCost(costs)
	if total <= 0 {
		return nil
	}

	slices := make([]PieSlice, 0, len(costs))
	angle := -math.Pi / 2
	for i, c := range costs {
		frac := c.Price / total
		sweep := frac * 2 * math.Pi
		slices = append(slices, PieSlice{
			Label:   c.Name,
			Value:   c.Price,
			Percent: frac * 100,
			Color:   ChartColors[i%len(ChartColors)],
			Path:    wedgePath(cx, cy, r, angle, sweep),
		})
		angle += sweep
	}
	return slices
}

func wedgePath(cx, cy, r, start, sweep float64) string {
	if sweep >= 2*math.Pi-1e-9 {
		// A single arc cannot close on itself; draw the full circle as two halves.
		return fmt.Sprintf("M %.2f %.2f A %.2f %.2f 0 1 1 %.2f %.2f A %.2f %.2f 0 1 1 %.2f %.2f Z",
			cx, cy-r, r, r, cx, cy+r, r, r, cx, cy-r)
	}
	x1, y1 := cx+r*math.Cos(start), cy+r*math.Sin(start)
	x2, y2 := cx+r*math.Cos(start+sweep), cy+r*math.Sin(start+sweep)
	large := 0
	if sweep > math.Pi {
		large = 1
	}
	return fmt.Sprintf("M %.2f %.2f L %.2f %.2f A %.2f %.2f 0 %d 1 %.2f %.2f Z",
		cx, cy, x1, y1, r, r, large, x2, y2)
}
