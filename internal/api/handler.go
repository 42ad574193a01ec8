package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"recipefinder/internal/platform/spoonacular"
	"recipefinder/internal/recipe"
	"recipefinder/internal/screen"
)

// ImageSource defines the interface for downloading recipe images.
type ImageSource interface {
	RecipeImage(ctx context.Context, id int, size string) ([]byte, error)
}

// Listing is a screen of recipe cards with a detail modal.
type Listing interface {
	Select(ctx context.Context, id int) error
	Overlay() *screen.Modal
}

// Handler handles HTTP requests.
type Handler struct {
	Sessions   *screen.Sessions
	Images     ImageSource
	ThumbWidth uint
	Timeout    time.Duration
}

// NewHandler creates a new Handler.
func NewHandler(sessions *screen.Sessions, images ImageSource, thumbWidth uint, timeout time.Duration) *Handler {
	return &Handler{Sessions: sessions, Images: images, ThumbWidth: thumbWidth, Timeout: timeout}
}

// Home renders the search screen.
func (h *Handler) Home(c *gin.Context) {
	view := session(c).Home.Snapshot()
	h.page(c, "home", "Find Recipes", view)
}

// Search handles the ingredient search form.
func (h *Handler) Search(c *gin.Context) {
	var q spoonacular.SearchQuery
	if err := c.ShouldBind(&q); err != nil {
		renderError(c, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	sess := session(c)
	sess.Home.Search(ctx, q)
	respond(c, "/", sess.Home.Snapshot())
}

// Autocomplete answers ingredient suggestions for the search box as JSON.
func (h *Handler) Autocomplete(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	c.JSON(http.StatusOK, session(c).Autocomplete.Suggest(ctx, c.Query("query")))
}

// Random renders the "surprise me" screen.
func (h *Handler) Random(c *gin.Context) {
	h.page(c, "random", "Random Recipes", session(c).Random.Snapshot())
}

// Surprise handles the "surprise me" form.
func (h *Handler) Surprise(c *gin.Context) {
	var q spoonacular.RandomQuery
	if err := c.ShouldBind(&q); err != nil {
		renderError(c, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	sess := session(c)
	sess.Random.Surprise(ctx, q)
	respond(c, "/random", sess.Random.Snapshot())
}

// Trending renders the carousel, loading it on first visit.
func (h *Handler) Trending(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	sess := session(c)
	sess.Trending.Load(ctx)
	h.page(c, "trending", "Trending Recipes", sess.Trending.Snapshot())
}

// MealPlan renders the meal planner.
func (h *Handler) MealPlan(c *gin.Context) {
	h.page(c, "meal-plan", "Meal Planning", session(c).MealPlan.Snapshot(), gin.H{
		"calorieGoals": screen.CalorieGoals,
		"diets":        screen.PlanDiets,
		"durations":    screen.PlanDurations,
	})
}

// GenerateMealPlan handles the meal planner form.
func (h *Handler) GenerateMealPlan(c *gin.Context) {
	var q spoonacular.MealPlanQuery
	if err := c.ShouldBind(&q); err != nil {
		renderError(c, http.StatusBadRequest, err)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	sess := session(c)
	sess.MealPlan.Generate(ctx, q)
	respond(c, "/meal-plan", sess.MealPlan.Snapshot())
}

// Trivia renders the trivia and jokes screen, loading it on first visit.
func (h *Handler) Trivia(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	sess := session(c)
	sess.Trivia.Load(ctx)
	h.page(c, "trivia", "Food Trivia & Jokes", sess.Trivia.Snapshot())
}

// RefreshTrivia fetches a new fact and joke.
func (h *Handler) RefreshTrivia(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	sess := session(c)
	sess.Trivia.Refresh(ctx)
	respond(c, "/trivia", sess.Trivia.Snapshot())
}

// PriceBreakdownView is the static cost table and its pie chart.
type PriceBreakdownView struct {
	Items  []recipe.IngredientCost `json:"items"`
	Total  float64                 `json:"total"`
	Slices []recipe.PieSlice       `json:"slices"`
}

// PriceBreakdown renders the static price breakdown.
func (h *Handler) PriceBreakdown(c *gin.Context) {
	costs := recipe.PriceBreakdown()
	view := PriceBreakdownView{
		Items:  costs,
		Total:  recipe.TotalCost(costs),
		Slices: recipe.PieSlices(costs, pieCenter, pieCenter, pieRadius),
	}
	h.page(c, "price-breakdown", "Price Breakdown", view)
}

const (
	pieCenter = 160
	pieRadius = 150
)

// SelectRecipe returns a handler that opens the detail modal on a listing screen.
func (h *Handler) SelectRecipe(pick func(*screen.Session) Listing, back string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			renderError(c, http.StatusBadRequest, errors.New("invalid recipe id"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
		defer cancel()

		l := pick(session(c))
		if err := l.Select(ctx, id); err != nil {
			if errors.Is(err, screen.ErrNotListed) {
				renderError(c, http.StatusNotFound, err)
				return
			}
			renderError(c, http.StatusInternalServerError, err)
			return
		}
		respond(c, back, l.Overlay().Snapshot())
	}
}

// SetServings returns a handler that changes the serving count of an open modal.
func (h *Handler) SetServings(pick func(*screen.Session) Listing, back string) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := strconv.Atoi(c.PostForm("servings"))
		if err != nil {
			renderError(c, http.StatusBadRequest, errors.New("servings must be a number"))
			return
		}

		m := pick(session(c)).Overlay()
		if _, err := m.SetServings(n); err != nil {
			renderError(c, http.StatusConflict, err)
			return
		}
		respond(c, back, m.Snapshot())
	}
}

// CloseModal returns a handler that closes the modal of a listing screen.
func (h *Handler) CloseModal(pick func(*screen.Session) Listing, back string) gin.HandlerFunc {
	return func(c *gin.Context) {
		m := pick(session(c)).Overlay()
		m.Close()
		respond(c, back, m.Snapshot())
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": h.Sessions.Len()})
}

// page renders a screen as HTML, or its snapshot as JSON when the client asks for it.
func (h *Handler) page(c *gin.Context, name, title string, view any, extra ...gin.H) {
	if wantsJSON(c) {
		c.JSON(http.StatusOK, view)
		return
	}
	data := gin.H{
		"title": title,
		"page":  name,
		"view":  view,
	}
	for _, e := range extra {
		for k, v := range e {
			data[k] = v
		}
	}
	c.HTML(http.StatusOK, name, data)
}

// respond finishes an action: JSON clients get the new snapshot, forms are sent back to the page.
func respond(c *gin.Context, back string, view any) {
	if wantsJSON(c) {
		c.JSON(http.StatusOK, view)
		return
	}
	c.Redirect(http.StatusSeeOther, back)
}

func wantsJSON(c *gin.Context) bool {
	return c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}

func renderError(c *gin.Context, code int, err error) {
	screen.Logger(c.Request.Context()).WithError(err).WithField("status", code).Warn("request failed")
	if wantsJSON(c) {
		c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
		return
	}
	c.HTML(code, "error", gin.H{
		"title":   http.StatusText(code),
		"status":  code,
		"message": err.Error(),
	})
	c.Abort()
}
