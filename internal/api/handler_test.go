package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recipefinder/internal/platform/spoonacular"
	"recipefinder/internal/recipe"
	"recipefinder/internal/screen"
)

// mockRecipeSource is a hand-written stand-in for the Spoonacular client.
type mockRecipeSource struct {
	results     []recipe.Summary
	searchErr   error
	lastSearch  spoonacular.SearchQuery
	lastPlan    spoonacular.MealPlanQuery
	detail      *recipe.Detail
	triviaErr   error
	emptyTrivia bool
	image       []byte
	imageErr    error
	suggestions []spoonacular.Suggestion
}

func (m *mockRecipeSource) SearchRecipes(ctx context.Context, q spoonacular.SearchQuery) (*spoonacular.SearchResponse, error) {
	m.lastSearch = q
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return &spoonacular.SearchResponse{Results: m.results}, nil
}

func (m *mockRecipeSource) RecipeInformation(ctx context.Context, id int) (*recipe.Detail, error) {
	if m.detail == nil {
		return nil, spoonacular.ErrRequestFailed
	}
	d := *m.detail
	d.ID = id
	return &d, nil
}

func (m *mockRecipeSource) RandomRecipes(ctx context.Context, q spoonacular.RandomQuery) (*spoonacular.RandomResponse, error) {
	return &spoonacular.RandomResponse{Recipes: m.results}, nil
}

func (m *mockRecipeSource) AutocompleteIngredients(ctx context.Context, q spoonacular.AutocompleteQuery) ([]spoonacular.Suggestion, error) {
	return m.suggestions, nil
}

func (m *mockRecipeSource) GenerateMealPlan(ctx context.Context, q spoonacular.MealPlanQuery) (*spoonacular.MealPlan, error) {
	m.lastPlan = q
	return &spoonacular.MealPlan{Meals: []recipe.MealPlanEntry{
		{ID: 11, Title: "Oatmeal", ReadyInMinutes: 10, SourceURL: "https://example.com/oatmeal"},
	}}, nil
}

func (m *mockRecipeSource) RandomTrivia(ctx context.Context) (string, error) {
	if m.triviaErr != nil {
		return "", m.triviaErr
	}
	if m.emptyTrivia {
		return "", nil
	}
	return "Honey never spoils.", nil
}

func (m *mockRecipeSource) RandomJoke(ctx context.Context) (string, error) {
	if m.emptyTrivia {
		return "", nil
	}
	return "Lettuce be friends.", nil
}

func (m *mockRecipeSource) RecipeImage(ctx context.Context, id int, size string) ([]byte, error) {
	if m.imageErr != nil {
		return nil, m.imageErr
	}
	return m.image, nil
}

func newTestRouter(src *mockRecipeSource) *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	sessions := screen.NewSessions(src, time.Hour)
	h := NewHandler(sessions, src, 100, 5*time.Second)
	return NewRouter(h, log, RouterConfig{AllowedOrigins: []string{"http://localhost:8080"}, SessionTTL: time.Hour})
}

// client replays the session cookie between requests.
type client struct {
	t      *testing.T
	router *gin.Engine
	cookie *http.Cookie
}

func (c *client) do(method, path string, form url.Values, accept string) *httptest.ResponseRecorder {
	c.t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req, err := http.NewRequest(method, path, body)
	require.NoError(c.t, err)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.cookie != nil {
		req.AddCookie(c.cookie)
	}

	w := httptest.NewRecorder()
	c.router.ServeHTTP(w, req)
	for _, ck := range w.Result().Cookies() {
		if ck.Name == SessionCookie {
			c.cookie = ck
		}
	}
	return w
}

func summaries(n int) []recipe.Summary {
	out := make([]recipe.Summary, n)
	for i := range out {
		out[i] = recipe.Summary{ID: i + 1, Title: fmt.Sprintf("Recipe %d", i+1), Image: fmt.Sprintf("https://img.test/%d.jpg", i+1)}
	}
	return out
}

func TestSearchFlow(t *testing.T) {
	src := &mockRecipeSource{results: summaries(6)}
	c := &client{t: t, router: newTestRouter(src)}

	w := c.do(http.MethodPost, "/search", url.Values{"query": {"chicken"}, "diet": {"vegan"}}, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	require.NotNil(t, c.cookie)
	assert.Equal(t, "chicken", src.lastSearch.Query)
	assert.Equal(t, "vegan", src.lastSearch.Diet)

	w = c.do(http.MethodGet, "/", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 6, strings.Count(w.Body.String(), `class="recipe-card`))
	assert.Contains(t, w.Body.String(), "Recipe 6")

	w = c.do(http.MethodGet, "/", nil, "application/json")
	var view screen.HomeView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Equal(t, screen.StatusSuccess, view.Results.Status)
	assert.Len(t, view.Results.Value, 6)
	assert.Equal(t, "vegan", view.Form.Diet)
}

func TestSearchErrors(t *testing.T) {
	t.Run("EmptyQuery", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&mockRecipeSource{})}

		c.do(http.MethodPost, "/search", url.Values{"query": {""}}, "")
		w := c.do(http.MethodGet, "/", nil, "")
		assert.Contains(t, w.Body.String(), screen.MsgEmptyQuery)
	})

	t.Run("UpstreamFailure", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&mockRecipeSource{searchErr: spoonacular.ErrRequestFailed})}

		w := c.do(http.MethodPost, "/search", url.Values{"query": {"rice"}}, "application/json")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), screen.MsgFetchRecipes)
	})

	t.Run("NoResults", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&mockRecipeSource{})}

		c.do(http.MethodPost, "/search", url.Values{"query": {"zzz"}}, "")
		w := c.do(http.MethodGet, "/", nil, "")
		assert.Contains(t, w.Body.String(), screen.MsgNoRecipes)
	})
}

func TestSessionsAreIsolated(t *testing.T) {
	router := newTestRouter(&mockRecipeSource{results: summaries(2)})
	a := &client{t: t, router: router}
	b := &client{t: t, router: router}

	a.do(http.MethodPost, "/search", url.Values{"query": {"egg"}}, "")
	b.do(http.MethodGet, "/", nil, "")

	assert.NotEqual(t, a.cookie.Value, b.cookie.Value)
	w := b.do(http.MethodGet, "/", nil, "")
	assert.Zero(t, strings.Count(w.Body.String(), `class="recipe-card`))
}

func TestModalFlow(t *testing.T) {
	src := &mockRecipeSource{
		results: summaries(3),
		detail: &recipe.Detail{
			Title:        "Garlic Pasta",
			Servings:     4,
			Instructions: "<ol><li>Boil water.</li><li>Add <b>pasta</b>.</li></ol>",
			Ingredients:  []recipe.Ingredient{{ID: 1, Name: "olive oil", Original: "2 tablespoons olive oil", Amount: 2, Unit: "tablespoons"}},
		},
	}
	c := &client{t: t, router: newTestRouter(src)}
	c.do(http.MethodPost, "/search", url.Values{"query": {"pasta"}}, "")

	w := c.do(http.MethodPost, "/home/recipes/2", nil, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = c.do(http.MethodGet, "/", nil, "")
	body := w.Body.String()
	assert.Contains(t, body, "Garlic Pasta")
	assert.Contains(t, body, "2.00 Tbsp olive oil")
	assert.Contains(t, body, "<li>Add pasta.</li>")

	w = c.do(http.MethodPost, "/home/modal/servings", url.Values{"servings": {"8"}}, "application/json")
	var modal screen.ModalView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &modal))
	assert.Equal(t, 8, modal.Servings)
	assert.Equal(t, "4.00", modal.Ingredients[0].Amount)

	w = c.do(http.MethodPost, "/home/modal/servings", url.Values{"servings": {"0"}}, "application/json")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &modal))
	assert.Equal(t, recipe.MinServings, modal.Servings)

	w = c.do(http.MethodPost, "/home/modal/close", nil, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	w = c.do(http.MethodGet, "/", nil, "")
	assert.NotContains(t, w.Body.String(), "Garlic Pasta")

	w = c.do(http.MethodPost, "/home/modal/servings", url.Values{"servings": {"2"}}, "application/json")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSelectRecipeErrors(t *testing.T) {
	c := &client{t: t, router: newTestRouter(&mockRecipeSource{results: summaries(1)})}
	c.do(http.MethodPost, "/search", url.Values{"query": {"pasta"}}, "")

	w := c.do(http.MethodPost, "/home/recipes/abc", nil, "application/json")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = c.do(http.MethodPost, "/home/recipes/42", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), screen.ErrNotListed.Error())

	// Detail lookup failure keeps the modal open with a message.
	w = c.do(http.MethodPost, "/home/recipes/1", nil, "application/json")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), screen.MsgDetailError)
}

func TestAutocomplete(t *testing.T) {
	src := &mockRecipeSource{suggestions: []spoonacular.Suggestion{{Name: "tomato"}}}
	c := &client{t: t, router: newTestRouter(src)}

	w := c.do(http.MethodGet, "/autocomplete?query=tom", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var res screen.SuggestResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, []spoonacular.Suggestion{{Name: "tomato"}}, res.Value)
	assert.False(t, res.Stale)

	w = c.do(http.MethodGet, "/autocomplete?query=t", nil, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	assert.Equal(t, screen.StatusIdle, res.Status)
	assert.Empty(t, res.Value)
}

func TestRandomAndTrending(t *testing.T) {
	c := &client{t: t, router: newTestRouter(&mockRecipeSource{results: summaries(4)})}

	w := c.do(http.MethodPost, "/random/surprise", url.Values{"cuisine": {"italian"}, "prepTime": {"30"}}, "application/json")
	var random screen.RandomView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &random))
	assert.Len(t, random.Results.Value, 4)
	assert.Equal(t, "30", random.Form.MaxReadyTime)

	w = c.do(http.MethodGet, "/trending", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, strings.Count(w.Body.String(), `class="slide`))
	assert.Contains(t, w.Body.String(), "setInterval")
}

func TestMealPlan(t *testing.T) {
	src := &mockRecipeSource{}
	c := &client{t: t, router: newTestRouter(src)}

	w := c.do(http.MethodGet, "/meal-plan", nil, "")
	assert.Contains(t, w.Body.String(), `<option value="2000" selected>`)

	w = c.do(http.MethodPost, "/meal-plan", url.Values{"calorieGoal": {"1500"}, "diet": {"keto"}, "duration": {"week"}}, "")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, spoonacular.MealPlanQuery{TimeFrame: "week", TargetCalories: "1500", Diet: "keto"}, src.lastPlan)

	w = c.do(http.MethodGet, "/meal-plan", nil, "")
	body := w.Body.String()
	assert.Contains(t, body, "Oatmeal")
	assert.Contains(t, body, `src="/images/recipes/11"`)
	assert.Contains(t, body, "Ready in 10 minutes")
}

func TestTrivia(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&mockRecipeSource{})}

		w := c.do(http.MethodGet, "/trivia", nil, "")
		assert.Contains(t, w.Body.String(), "Honey never spoils.")
		assert.Contains(t, w.Body.String(), "Lettuce be friends.")
	})

	t.Run("Failure", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&mockRecipeSource{triviaErr: errors.New("quota")})}

		w := c.do(http.MethodPost, "/trivia/refresh", nil, "application/json")
		var view screen.TriviaView
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
		assert.Equal(t, screen.MsgTriviaError, view.Trivia)
		assert.Equal(t, screen.MsgJokeError, view.Joke)
	})

	t.Run("EmptyText", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&mockRecipeSource{emptyTrivia: true})}

		w := c.do(http.MethodGet, "/trivia", nil, "")
		assert.Contains(t, w.Body.String(), screen.MsgNoTrivia)
		assert.Contains(t, w.Body.String(), screen.MsgNoJoke)
		assert.Contains(t, w.Body.String(), screen.MsgNoTriviaData)
	})
}

func TestPriceBreakdown(t *testing.T) {
	c := &client{t: t, router: newTestRouter(&mockRecipeSource{})}

	w := c.do(http.MethodGet, "/price-breakdown", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "$3.83")
	assert.Equal(t, 13, strings.Count(w.Body.String(), "<path "))

	w = c.do(http.MethodGet, "/price-breakdown", nil, "application/json")
	var view PriceBreakdownView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.Len(t, view.Items, 13)
	assert.InDelta(t, 3.83, view.Total, 1e-9)
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRecipeThumbnail(t *testing.T) {
	t.Run("Resizes", func(t *testing.T) {
		src := &mockRecipeSource{image: pngBytes(t, 400, 200)}
		c := &client{t: t, router: newTestRouter(src)}

		w := c.do(http.MethodGet, "/images/recipes/11", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))

		img, err := jpeg.Decode(w.Body)
		require.NoError(t, err)
		assert.Equal(t, 100, img.Bounds().Dx())
		assert.Equal(t, 50, img.Bounds().Dy())

		etag := w.Header().Get("ETag")
		assert.Equal(t, `"`+imageHash(src.image)+`"`, etag)

		req := httptest.NewRequest(http.MethodGet, "/images/recipes/11", nil)
		req.Header.Set("If-None-Match", etag)
		rec := httptest.NewRecorder()
		c.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotModified, rec.Code)
	})

	t.Run("BadRequest", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&mockRecipeSource{})}
		assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/images/recipes/x", nil, "").Code)
		assert.Equal(t, http.StatusBadRequest, c.do(http.MethodGet, "/images/recipes/1?size=../../etc", nil, "").Code)
	})

	t.Run("UpstreamErrors", func(t *testing.T) {
		c := &client{t: t, router: newTestRouter(&mockRecipeSource{imageErr: spoonacular.ErrRequestFailed})}
		assert.Equal(t, http.StatusBadGateway, c.do(http.MethodGet, "/images/recipes/1", nil, "").Code)

		c = &client{t: t, router: newTestRouter(&mockRecipeSource{imageErr: fmt.Errorf("%w: %w", spoonacular.ErrRequestFailed, context.DeadlineExceeded)})}
		assert.Equal(t, http.StatusRequestTimeout, c.do(http.MethodGet, "/images/recipes/1", nil, "").Code)

		c = &client{t: t, router: newTestRouter(&mockRecipeSource{image: []byte("not an image")})}
		assert.Equal(t, http.StatusBadGateway, c.do(http.MethodGet, "/images/recipes/1", nil, "").Code)
	})
}

func TestHealth(t *testing.T) {
	c := &client{t: t, router: newTestRouter(&mockRecipeSource{})}

	w := c.do(http.MethodGet, "/healthz", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","sessions":0}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
