package api

import (
	"embed"
	"fmt"
	"html/template"
	"time"
	"unicode"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"recipefinder/internal/screen"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"money":      func(v float64) string { return fmt.Sprintf("$%.2f", v) },
	"percent":    func(v float64) string { return fmt.Sprintf("%.1f%%", v) },
	"kcal":       func(v float64) string { return fmt.Sprintf("%.0f", v) },
	"capitalize": capitalize,
	"dict":       dict,
	"add":        func(a, b int) int { return a + b },
}

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}

// RouterConfig holds the settings the router needs beyond the handler.
type RouterConfig struct {
	AllowedOrigins []string
	SessionTTL     time.Duration
}

// NewRouter wires every route onto a new gin engine.
func NewRouter(h *Handler, log logrus.FieldLogger, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), RequestLogger(log))

	if len(cfg.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.SetHTMLTemplate(Templates())

	r.GET("/healthz", h.Health)
	r.GET("/images/recipes/:id", h.RecipeThumbnail)
	r.GET("/price-breakdown", h.PriceBreakdown)

	s := r.Group("/", Sessions(h.Sessions, cfg.SessionTTL))
	s.GET("/", h.Home)
	s.POST("/search", h.Search)
	s.GET("/autocomplete", h.Autocomplete)
	s.GET("/random", h.Random)
	s.POST("/random/surprise", h.Surprise)
	s.GET("/trending", h.Trending)
	s.GET("/meal-plan", h.MealPlan)
	s.POST("/meal-plan", h.GenerateMealPlan)
	s.GET("/trivia", h.Trivia)
	s.POST("/trivia/refresh", h.RefreshTrivia)

	listings := map[string]func(*screen.Session) Listing{
		"home":     func(sess *screen.Session) Listing { return &sess.Home },
		"random":   func(sess *screen.Session) Listing { return &sess.Random },
		"trending": func(sess *screen.Session) Listing { return &sess.Trending },
	}
	for name, pick := range listings {
		back := "/" + name
		if name == "home" {
			back = "/"
		}
		s.POST("/"+name+"/recipes/:id", h.SelectRecipe(pick, back))
		s.POST("/"+name+"/modal/servings", h.SetServings(pick, back))
		s.POST("/"+name+"/modal/close", h.CloseModal(pick, back))
	}

	return r
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", kv[i])
		}
		m[key] = kv[i+1]
	}
	return m, nil
}
