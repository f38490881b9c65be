package main

import (
	"context"
	"embed"
	"html/template"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Server holds the handlers' collaborators. Everything a handler needs is
// passed in here; nothing is read from package state.
type Server struct {
	cfg      Config
	ledger   *ledger
	auth     *authenticator
	sessions SessionStore
	health   func(ctx context.Context) error
	logger   zerolog.Logger
}

func newServer(cfg Config, transactions TransactionStore, users UserStore, sessions SessionStore,
	health func(ctx context.Context) error, logger zerolog.Logger) *Server {
	return &Server{
		cfg:      cfg,
		ledger:   newLedger(transactions, logger),
		auth:     newAuthenticator(users, sessions, cfg.SessionTTL),
		sessions: sessions,
		health:   health,
		logger:   logger,
	}
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"usd": formatUSD,
	}).ParseFS(templatesFS, "templates/*.html")
}

// storeContext bounds a remote call by the request and the store timeout
func (s *Server) storeContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), s.cfg.StoreTimeout)
}

func (s *Server) routes() (*gin.Engine, error) {
	tmpl, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	r.SetHTMLTemplate(tmpl)
	// CORS sits on the engine so preflights are answered before routing
	if len(s.cfg.CORSOrigins) > 0 {
		r.Use(cors.New(corsConfig(s.cfg.CORSOrigins)))
	}
	r.Use(s.loadSession())

	r.GET("/health", s.healthCheck)

	// Pages
	r.GET("/", s.homePage)
	r.GET("/login", s.loginPage)
	r.POST("/login", s.login)
	r.GET("/register", s.registerPage)
	r.POST("/register", s.register)
	r.POST("/logout", s.logout)
	r.GET("/dashboard", s.dashboardPage)
	r.POST("/dashboard/transactions", s.submitTransactionForm)

	// JSON API
	api := r.Group("/api")
	api.Use(requireSession)
	api.GET("/transactions", s.getTransactions)
	api.POST("/transactions", s.addTransaction)
	api.GET("/chart", s.getChart)

	return r, nil
}

// corsConfig allows the given origins. Browsers refuse credentials with a
// wildcard origin, so "*" turns credentials off.
func corsConfig(origins []string) cors.Config {
	credentials := true
	for _, o := range origins {
		if o == "*" {
			credentials = false
		}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: credentials,
		MaxAge:           12 * time.Hour,
	}
}
