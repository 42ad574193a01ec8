package spoonacular

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"recipefinder/internal/config"
	"recipefinder/internal/recipe"
)

// ErrRequestFailed wraps every failed call, whatever the cause.
var ErrRequestFailed = errors.New("spoonacular request failed")

// Weekdays is the order in which week plans are flattened.
var Weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// Client is a client for the Spoonacular API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	imageURL   string
	apiKey     string
}

// NewClient creates a new Spoonacular client.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		baseURL:    strings.TrimRight(cfg.SpoonacularURL, "/"),
		imageURL:   strings.TrimRight(cfg.SpoonacularImageURL, "/"),
		apiKey:     cfg.SpoonacularAPIKey,
	}
}

// SearchResponse is the body of /recipes/complexSearch.
type SearchResponse struct {
	Results      []recipe.Summary `json:"results"`
	TotalResults int              `json:"totalResults"`
}

// RandomResponse is the body of /recipes/random.
type RandomResponse struct {
	Recipes []recipe.Summary `json:"recipes"`
}

// MealPlan is a generated plan. Week plans are flattened into Meals in weekday order.
type MealPlan struct {
	Meals     []recipe.MealPlanEntry `json:"meals"`
	Nutrients *recipe.Nutrients      `json:"nutrients,omitempty"`
}

type mealPlanDay struct {
	Meals     []recipe.MealPlanEntry `json:"meals"`
	Nutrients *recipe.Nutrients      `json:"nutrients"`
}

type mealPlanResponse struct {
	mealPlanDay
	Week map[string]mealPlanDay `json:"week"`
}

// Suggestion is one ingredient autocomplete hit.
type Suggestion struct {
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

type textResponse struct {
	Text string `json:"text"`
}

// SearchRecipes runs an ingredient/keyword search.
func (c *Client) SearchRecipes(ctx context.Context, q SearchQuery) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.get(ctx, "/recipes/complexSearch", q.Values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecipeInformation fetches the full record of a single recipe.
func (c *Client) RecipeInformation(ctx context.Context, id int) (*recipe.Detail, error) {
	var d recipe.Detail
	if err := c.get(ctx, fmt.Sprintf("/recipes/%d/information", id), url.Values{}, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// RandomRecipes fetches a random selection of recipes.
func (c *Client) RandomRecipes(ctx context.Context, q RandomQuery) (*RandomResponse, error) {
	var resp RandomResponse
	if err := c.get(ctx, "/recipes/random", q.Values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AutocompleteIngredients suggests ingredient names for a partial input.
func (c *Client) AutocompleteIngredients(ctx context.Context, q AutocompleteQuery) ([]Suggestion, error) {
	var resp []Suggestion
	if err := c.get(ctx, "/food/ingredients/autocomplete", q.Values(), &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GenerateMealPlan generates a day or week meal plan.
func (c *Client) GenerateMealPlan(ctx context.Context, q MealPlanQuery) (*MealPlan, error) {
	var resp mealPlanResponse
	if err := c.get(ctx, "/mealplanner/generate", q.Values(), &resp); err != nil {
		return nil, err
	}

	plan := &MealPlan{Meals: resp.Meals, Nutrients: resp.Nutrients}
	if len(resp.Week) > 0 {
		plan.Nutrients = nil
		for _, day := range Weekdays {
			d, ok := resp.Week[day]
			if !ok {
				continue
			}
			for _, m := range d.Meals {
				m.Day = day
				plan.Meals = append(plan.Meals, m)
			}
		}
	}
	return plan, nil
}

// RandomTrivia returns one random food trivia fact.
func (c *Client) RandomTrivia(ctx context.Context) (string, error) {
	var resp textResponse
	if err := c.get(ctx, "/food/trivia/random", url.Values{}, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// RandomJoke returns one random food joke.
func (c *Client) RandomJoke(ctx context.Context) (string, error) {
	var resp textResponse
	if err := c.get(ctx, "/food/jokes/random", url.Values{}, &resp); err != nil {
		return "", err
	}
	return resp.Text, nil
}

// RecipeImage downloads the stock image of a recipe. Size follows the CDN's
// naming, e.g. "556x370".
func (c *Client) RecipeImage(ctx context.Context, id int, size string) ([]byte, error) {
	endpoint := fmt.Sprintf("%s/%d-%s.jpg", c.imageURL, id, size)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %w", ErrRequestFailed, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to send request: %w", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: GET %s: status %d", ErrRequestFailed, endpoint, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read image: %w", ErrRequestFailed, err)
	}
	return data, nil
}

// get performs exactly one GET against path and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	q := url.Values{}
	for k, vs := range params {
		q[k] = vs
	}
	q.Set("apiKey", c.apiKey)
	endpoint := c.baseURL + path + "?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrRequestFailed, c.redact(err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to send request: %w", ErrRequestFailed, c.redact(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response body: %w", ErrRequestFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: GET %s: status %d: %s", ErrRequestFailed, path, resp.StatusCode, snippet(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: failed to decode %s response: %w", ErrRequestFailed, path, err)
	}
	return nil
}

// redact scrubs the API key from URLs carried by transport errors.
func (c *Client) redact(err error) error {
	var uerr *url.Error
	if errors.As(err, &uerr) && c.apiKey != "" {
		uerr.URL = strings.ReplaceAll(uerr.URL, url.QueryEscape(c.apiKey), "REDACTED")
	}
	return err
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		cut := max
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		return s[:cut] + "..."
	}
	return s
}
