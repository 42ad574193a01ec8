package screen

import (
	"context"
	"errors"
	"sync"

	"recipefinder/internal/recipe"
)

// MsgDetailError is shown in the modal when the detail lookup fails.
const MsgDetailError = "Error fetching recipe details. Please try again."

// ErrModalClosed is returned when the serving count is changed without an open recipe.
var ErrModalClosed = errors.New("no recipe selected")

// DetailSource looks up a single recipe.
type DetailSource interface {
	RecipeInformation(ctx context.Context, id int) (*recipe.Detail, error)
}

// Modal is the recipe detail overlay shared by the listing screens.
type Modal struct {
	mu       sync.Mutex
	selected *recipe.Summary
	servings int
	detail   Slot[*recipe.Detail]
}

// Select opens the modal for s and fetches its detail. A later Select or Close
// discards the result of this one.
func (m *Modal) Select(ctx context.Context, src DetailSource, s recipe.Summary) {
	m.mu.Lock()
	m.selected = &s
	m.servings = 0
	gen := m.detail.Begin()
	m.mu.Unlock()

	d, err := src.RecipeInformation(ctx, s.ID)

	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		if m.detail.Fail(gen, MsgDetailError) {
			Logger(ctx).WithError(err).WithField("recipe_id", s.ID).Warn("recipe detail lookup failed")
		}
		return
	}
	if m.detail.Succeed(gen, d, "") {
		m.servings = d.Servings
		if m.servings < recipe.MinServings {
			m.servings = recipe.MinServings
		}
	}
}

// Close clears the selection and the fetched detail.
func (m *Modal) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selected = nil
	m.servings = 0
	m.detail.Reset()
}

// SetServings changes the target serving count, clamped to the selector bounds.
// The count a recipe opens with is not clamped.
func (m *Modal) SetServings(n int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.selected == nil {
		return 0, ErrModalClosed
	}
	m.servings = recipe.ClampServings(n)
	return m.servings, nil
}

// ModalView is what the overlay renders.
type ModalView struct {
	Open        bool                      `json:"open"`
	Selected    *recipe.Summary           `json:"selected,omitempty"`
	Status      Status                    `json:"status"`
	Message     string                    `json:"message,omitempty"`
	Detail      *recipe.Detail            `json:"detail,omitempty"`
	Servings    int                       `json:"servings,omitempty"`
	Ingredients []recipe.ScaledIngredient `json:"ingredients,omitempty"`
	Steps       []string                  `json:"steps,omitempty"`
}

func (v ModalView) Loading() bool { return v.Status == StatusLoading }
func (v ModalView) Failed() bool  { return v.Status == StatusError }

// Snapshot computes the overlay at the current serving count.
func (m *Modal) Snapshot() ModalView {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.selected == nil {
		return ModalView{}
	}
	sel := *m.selected
	dv := m.detail.Snapshot()
	view := ModalView{
		Open:     true,
		Selected: &sel,
		Status:   dv.Status,
		Message:  dv.Message,
	}
	if dv.Ready() && dv.Value != nil {
		view.Detail = dv.Value
		view.Servings = m.servings
		view.Ingredients = recipe.ScaleIngredients(dv.Value, m.servings)
		view.Steps = recipe.InstructionSteps(dv.Value.Instructions)
		if len(view.Steps) == 0 {
			view.Steps = []string{recipe.NoInstructions}
		}
	}
	return view
}
