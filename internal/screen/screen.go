package screen

import (
	"context"
	"errors"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"recipefinder/internal/platform/spoonacular"
	"recipefinder/internal/recipe"
)

// Messages shown in place of content.
const (
	MsgEmptyQuery   = "Please enter some ingredients"
	MsgNoRecipes    = "No recipes found."
	MsgFetchRecipes = "Error fetching recipes. Please try again."
	MsgNoMealPlan   = "No data found. Try another combination."
	MsgFetchPlan    = "Error fetching meal plan. Please try again."
	MsgTriviaError  = "Unable to fetch trivia at the moment. Please try again later."
	MsgJokeError    = "Unable to fetch jokes at the moment. Please try again later."
	MsgNoTrivia     = "No trivia found. Try refreshing."
	MsgNoJoke       = "No joke found. Try refreshing."
	MsgNoTriviaData = "No data found. Try refreshing."
)

// Result counts requested per screen.
const (
	SearchResultCount   = 6
	SurpriseResultCount = 8
	TrendingResultCount = 12
	SuggestionCount     = 5
)

// ErrNotListed is returned when a recipe is selected that the screen is not showing.
var ErrNotListed = errors.New("recipe is not in the current results")

// RecipeSource is the upstream recipe API as the screens use it.
type RecipeSource interface {
	DetailSource
	SearchRecipes(ctx context.Context, q spoonacular.SearchQuery) (*spoonacular.SearchResponse, error)
	RandomRecipes(ctx context.Context, q spoonacular.RandomQuery) (*spoonacular.RandomResponse, error)
	AutocompleteIngredients(ctx context.Context, q spoonacular.AutocompleteQuery) ([]spoonacular.Suggestion, error)
	GenerateMealPlan(ctx context.Context, q spoonacular.MealPlanQuery) (*spoonacular.MealPlan, error)
	RandomTrivia(ctx context.Context) (string, error)
	RandomJoke(ctx context.Context) (string, error)
}

// listing is a grid or carousel of recipe cards with a detail modal on top.
type listing struct {
	src     RecipeSource
	Results Slot[[]recipe.Summary]
	Modal   Modal
}

// Select opens the modal for a recipe among the current results.
func (l *listing) Select(ctx context.Context, id int) error {
	for _, s := range l.Results.Snapshot().Value {
		if s.ID == id {
			l.Modal.Select(ctx, l.src, s)
			return nil
		}
	}
	return ErrNotListed
}

// Overlay returns the detail modal of the screen.
func (l *listing) Overlay() *Modal {
	return &l.Modal
}

func (l *listing) finish(ctx context.Context, gen uint64, recipes []recipe.Summary, err error, op string) {
	if err != nil {
		if l.Results.Fail(gen, MsgFetchRecipes) {
			Logger(ctx).WithError(err).Warn(op + " failed")
		}
		return
	}
	notice := ""
	if len(recipes) == 0 {
		notice = MsgNoRecipes
	}
	l.Results.Succeed(gen, recipes, notice)
}

// Home is the ingredient search screen.
type Home struct {
	listing
	mu   sync.Mutex
	form spoonacular.SearchQuery
}

// Search runs an ingredient search. An empty search term is rejected without a request.
func (h *Home) Search(ctx context.Context, q spoonacular.SearchQuery) {
	h.mu.Lock()
	h.form = q
	h.mu.Unlock()

	gen := h.Results.Begin()
	if strings.TrimSpace(q.Query) == "" {
		h.Results.Fail(gen, MsgEmptyQuery)
		return
	}

	q.Number = SearchResultCount
	resp, err := h.src.SearchRecipes(ctx, q)
	var results []recipe.Summary
	if resp != nil {
		results = resp.Results
	}
	h.finish(ctx, gen, results, err, "recipe search")
}

// HomeView is the rendered state of the search screen.
type HomeView struct {
	Form    spoonacular.SearchQuery `json:"form"`
	Results View[[]recipe.Summary]  `json:"results"`
	Modal   ModalView               `json:"modal"`
}

func (h *Home) Snapshot() HomeView {
	h.mu.Lock()
	form := h.form
	h.mu.Unlock()
	return HomeView{Form: form, Results: h.Results.Snapshot(), Modal: h.Modal.Snapshot()}
}

// Random is the "surprise me" screen.
type Random struct {
	listing
	mu   sync.Mutex
	form spoonacular.RandomQuery
}

// Surprise fetches a fresh random selection using the optional filters in q.
func (r *Random) Surprise(ctx context.Context, q spoonacular.RandomQuery) {
	r.mu.Lock()
	r.form = q
	r.mu.Unlock()

	gen := r.Results.Begin()
	q.Number = SurpriseResultCount
	resp, err := r.src.RandomRecipes(ctx, q)
	var results []recipe.Summary
	if resp != nil {
		results = resp.Recipes
	}
	r.finish(ctx, gen, results, err, "random recipes")
}

// RandomView is the rendered state of the random screen.
type RandomView struct {
	Form    spoonacular.RandomQuery `json:"form"`
	Results View[[]recipe.Summary]  `json:"results"`
	Modal   ModalView               `json:"modal"`
}

func (r *Random) Snapshot() RandomView {
	r.mu.Lock()
	form := r.form
	r.mu.Unlock()
	return RandomView{Form: form, Results: r.Results.Snapshot(), Modal: r.Modal.Snapshot()}
}

// Trending is the carousel screen.
type Trending struct {
	listing
}

// Load fills the carousel on first visit and after a failure. It is a no-op
// while a load is running or once one has succeeded.
func (t *Trending) Load(ctx context.Context) {
	gen, ok := t.Results.BeginIfNeeded()
	if !ok {
		return
	}
	resp, err := t.src.RandomRecipes(ctx, spoonacular.RandomQuery{Number: TrendingResultCount})
	var results []recipe.Summary
	if resp != nil {
		results = resp.Recipes
	}
	t.finish(ctx, gen, results, err, "trending recipes")
}

// TrendingView is the rendered state of the carousel screen.
type TrendingView struct {
	Results View[[]recipe.Summary] `json:"results"`
	Modal   ModalView              `json:"modal"`
}

func (t *Trending) Snapshot() TrendingView {
	return TrendingView{Results: t.Results.Snapshot(), Modal: t.Modal.Snapshot()}
}

// Meal planner form options.
var (
	CalorieGoals  = []string{"1200", "1500", "2000", "2500", "3000"}
	PlanDiets     = []string{"vegetarian", "vegan", "paleo", "keto", "gluten free"}
	PlanDurations = []string{"day", "week"}
)

// DefaultMealPlanQuery is the planner form before the user changes anything.
func DefaultMealPlanQuery() spoonacular.MealPlanQuery {
	return spoonacular.MealPlanQuery{TimeFrame: "day", TargetCalories: "2000", Diet: "vegetarian"}
}

// MealPlan is the meal planner screen.
type MealPlan struct {
	src  RecipeSource
	Plan Slot[*spoonacular.MealPlan]

	mu      sync.Mutex
	form    spoonacular.MealPlanQuery
	touched bool
}

// Generate requests a plan. Empty form fields fall back to the defaults.
func (m *MealPlan) Generate(ctx context.Context, q spoonacular.MealPlanQuery) {
	def := DefaultMealPlanQuery()
	if strings.TrimSpace(q.TimeFrame) == "" {
		q.TimeFrame = def.TimeFrame
	}
	if strings.TrimSpace(q.TargetCalories) == "" {
		q.TargetCalories = def.TargetCalories
	}
	if strings.TrimSpace(q.Diet) == "" {
		q.Diet = def.Diet
	}

	m.mu.Lock()
	m.form = q
	m.touched = true
	m.mu.Unlock()

	gen := m.Plan.Begin()
	plan, err := m.src.GenerateMealPlan(ctx, q)
	if err != nil {
		if m.Plan.Fail(gen, MsgFetchPlan) {
			Logger(ctx).WithError(err).Warn("meal plan generation failed")
		}
		return
	}
	notice := ""
	if plan == nil || len(plan.Meals) == 0 {
		notice = MsgNoMealPlan
	}
	m.Plan.Succeed(gen, plan, notice)
}

// MealPlanView is the rendered state of the planner.
type MealPlanView struct {
	Form spoonacular.MealPlanQuery   `json:"form"`
	Plan View[*spoonacular.MealPlan] `json:"plan"`
}

func (m *MealPlan) Snapshot() MealPlanView {
	m.mu.Lock()
	form := m.form
	if !m.touched {
		form = DefaultMealPlanQuery()
	}
	m.mu.Unlock()
	return MealPlanView{Form: form, Plan: m.Plan.Snapshot()}
}

// TriviaCard is one trivia fact and one joke.
type TriviaCard struct {
	Trivia string `json:"trivia"`
	Joke   string `json:"joke"`
}

// Trivia is the trivia and jokes screen.
type Trivia struct {
	src  RecipeSource
	Card Slot[TriviaCard]
}

// Refresh fetches a new fact and joke concurrently. Either failing fails both.
func (t *Trivia) Refresh(ctx context.Context) {
	gen := t.Card.Begin()
	t.fetch(ctx, gen)
}

// Load fetches on first visit and after a failure.
func (t *Trivia) Load(ctx context.Context) {
	if gen, ok := t.Card.BeginIfNeeded(); ok {
		t.fetch(ctx, gen)
	}
}

func (t *Trivia) fetch(ctx context.Context, gen uint64) {
	var card TriviaCard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		text, err := t.src.RandomTrivia(gctx)
		card.Trivia = text
		return err
	})
	g.Go(func() error {
		text, err := t.src.RandomJoke(gctx)
		card.Joke = text
		return err
	})
	if err := g.Wait(); err != nil {
		if t.Card.Fail(gen, MsgTriviaError) {
			Logger(ctx).WithError(err).Warn("trivia refresh failed")
		}
		return
	}
	notice := ""
	if card.Trivia == "" || card.Joke == "" {
		notice = MsgNoTriviaData
	}
	t.Card.Succeed(gen, card, notice)
}

// TriviaView is the rendered state of the trivia screen. On failure both cards
// carry their fallback text; an empty card carries a no-data notice.
type TriviaView struct {
	Status  Status `json:"status"`
	Trivia  string `json:"trivia"`
	Joke    string `json:"joke"`
	Message string `json:"message,omitempty"`
}

func (v TriviaView) Loading() bool { return v.Status == StatusLoading }

func (t *Trivia) Snapshot() TriviaView {
	cv := t.Card.Snapshot()
	view := TriviaView{Status: cv.Status, Trivia: cv.Value.Trivia, Joke: cv.Value.Joke, Message: cv.Message}
	switch {
	case cv.Failed():
		view.Trivia = MsgTriviaError
		view.Joke = MsgJokeError
		view.Message = ""
	case cv.Ready():
		if view.Trivia == "" {
			view.Trivia = MsgNoTrivia
		}
		if view.Joke == "" {
			view.Joke = MsgNoJoke
		}
	}
	return view
}

// Autocomplete suggests ingredient names while the search term is typed.
type Autocomplete struct {
	src         RecipeSource
	Suggestions Slot[[]spoonacular.Suggestion]
}

// SuggestResult is the outcome of one keystroke. Stale is set when a later
// keystroke superseded this one before its response arrived.
type SuggestResult struct {
	View[[]spoonacular.Suggestion]
	Stale bool `json:"stale"`
}

// Suggest fetches suggestions for text. One character or less clears the list.
func (a *Autocomplete) Suggest(ctx context.Context, text string) SuggestResult {
	text = strings.TrimSpace(text)
	if len([]rune(text)) <= 1 {
		a.Suggestions.Reset()
		return SuggestResult{View: a.Suggestions.Snapshot()}
	}

	gen := a.Suggestions.Begin()
	got, err := a.src.AutocompleteIngredients(ctx, spoonacular.AutocompleteQuery{Query: text, Number: SuggestionCount})
	var applied bool
	if err != nil {
		// Suggestions are best effort: a failure clears the list without a message.
		applied = a.Suggestions.Fail(gen, "")
		if applied {
			Logger(ctx).WithError(err).Debug("ingredient autocomplete failed")
		}
	} else {
		applied = a.Suggestions.Succeed(gen, got, "")
	}
	return SuggestResult{View: a.Suggestions.Snapshot(), Stale: !applied}
}
