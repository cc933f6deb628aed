package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/sagarc03/settlersdb"
)

// Service is the part of settlersdb.Store the status API reads from.
type Service interface {
	LookupUser(ctx context.Context, name string) (string, bool, error)
	RetrieveRobotParams(ctx context.Context, name string) (settlersdb.RobotParams, bool, error)
	CountUsers(ctx context.Context) (int, error)
	SchemaInfo(ctx context.Context) (settlersdb.SchemaInfo, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

type HandlerConfig struct {
	CORS CORSConfig
}

// Handler serves read-only status about the account database.
//
// The underlying store holds a single connection and is not safe for
// concurrent use, so every route that touches it runs under one mutex.
type Handler struct {
	config  HandlerConfig
	service Service
	mu      sync.Mutex
}

// UserResponse is returned by GET /users/{name}.
type UserResponse struct {
	Nickname string `json:"nickname"`
}

// CountResponse is returned by GET /users/count.
type CountResponse struct {
	Count int `json:"count"`
}

// HealthResponse is returned by GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	return &Handler{
		config:  *config,
		service: service,
	}
}

// Router returns an http.Handler with the status routes configured.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.NotFound(writeNotFound)
	r.MethodNotAllowed(writeMethodNotAllowed)

	r.Get("/healthz", h.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(Serialize(&h.mu))
		r.Get("/schema", h.handleSchema)
		r.Get("/users/count", h.handleCountUsers)
		r.Get("/users/{name}", h.handleLookupUser)
		r.Get("/robots/{name}", h.handleRobotParams)
	})

	return r
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	_ = WriteJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) handleSchema(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.SchemaInfo(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, info)
}

func (h *Handler) handleCountUsers(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountUsers(r.Context())
	if err != nil {
		HandleError(w, err)
		return
	}
	if count < 0 {
		WriteError(w, http.StatusServiceUnavailable, "unavailable", "User count unavailable")
		return
	}

	_ = WriteJSON(w, http.StatusOK, CountResponse{Count: count})
}

func (h *Handler) handleLookupUser(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	nickname, found, err := h.service.LookupUser(r.Context(), name)
	if err != nil {
		HandleError(w, err)
		return
	}
	if !found {
		WriteError(w, http.StatusNotFound, "not_found", "User not found")
		return
	}

	_ = WriteJSON(w, http.StatusOK, UserResponse{Nickname: nickname})
}

func (h *Handler) handleRobotParams(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	params, found, err := h.service.RetrieveRobotParams(r.Context(), name)
	if err != nil {
		HandleError(w, err)
		return
	}
	if !found {
		WriteError(w, http.StatusNotFound, "not_found", "Robot not found")
		return
	}

	_ = WriteJSON(w, http.StatusOK, params)
}
