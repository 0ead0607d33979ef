// Package httpapi exposes the REST surface of the server: session
// endpoints, registration, profile, health, and the /graphql mount. All
// authentication decisions funnel through the Authenticator middleware.
package httpapi

import (
	"context"
	"net/http"

	"github.com/devhubhq/devhub/internal/logging"
	"github.com/devhubhq/devhub/internal/server/models"
	"github.com/devhubhq/devhub/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// UserSessions is the slice of the user service the HTTP layer needs.
type UserSessions interface {
	Register(ctx context.Context, name, email, password string) (*models.User, *services.TokenPair, error)
	Login(ctx context.Context, email, password string) (*models.User, *services.TokenPair, error)
	RefreshTokenPair(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	UserFromAccessToken(ctx context.Context, accessToken string) (*models.User, error)
	SessionFromCookie(ctx context.Context, cookieValue string) (*models.User, error)
	DestroySession(ctx context.Context, userID string) error
}

type Server struct {
	users       UserSessions
	cookies     CookiePolicy
	logger      logging.Logger
	graphql     http.Handler
	corsOrigins []string
}

func NewServer(users UserSessions, cookies CookiePolicy, logger logging.Logger, graphql http.Handler, corsOrigins []string) *Server {
	return &Server{
		users:       users,
		cookies:     cookies,
		logger:      logger,
		graphql:     graphql,
		corsOrigins: corsOrigins,
	}
}

// Router assembles the full HTTP surface.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.corsOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(s.Authenticator)

	r.Get("/up", s.handleUp)

	r.Post("/users", s.handleRegister)
	r.Post("/session", s.handleCreateSession)
	r.Delete("/session", s.handleDestroySession)
	r.Post("/session/refresh", s.handleRefreshSession)
	r.Get("/profile", s.handleProfile)

	if s.graphql != nil {
		r.Post("/graphql", s.graphql.ServeHTTP)
	}

	return r
}
