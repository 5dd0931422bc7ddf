// Package server exposes the skill as an HTTPS webhook along with version,
// readiness and metrics endpoints.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/tansive/redditreader/internal/common/apperrors"
	"github.com/tansive/redditreader/internal/common/httpx"
	"github.com/tansive/redditreader/internal/common/logtrace"
	"github.com/tansive/redditreader/internal/common/middleware"
	"github.com/tansive/redditreader/internal/readerskill/api"
)

// SkillHandler turns one request envelope into a response envelope. A nil
// envelope with a nil error means nothing is sent back.
type SkillHandler interface {
	Handle(ctx context.Context, env *api.RequestEnvelope) (*api.ResponseEnvelope, error)
}

// Options configure the server's middleware.
type Options struct {
	HandleCORS     bool
	RequestTimeout time.Duration
	RateLimit      middleware.RateLimitConfig // applied to the skill endpoint only
}

// SkillServer provides the HTTP server for the skill.
type SkillServer struct {
	Router *chi.Mux
	skill  SkillHandler
	opts   Options
}

// CreateNewServer creates a new SkillServer dispatching to skill.
func CreateNewServer(skill SkillHandler, opts Options) (*SkillServer, error) {
	if skill == nil {
		return nil, fmt.Errorf("skill handler is required")
	}
	return &SkillServer{
		Router: chi.NewRouter(),
		skill:  skill,
		opts:   opts,
	}, nil
}

// MountHandlers sets up middleware and routes.
func (s *SkillServer) MountHandlers() {
	s.Router.Use(middleware.RequestLogger)
	s.Router.Use(middleware.PanicHandler)
	s.Router.Use(middleware.SetTimeout(s.opts.RequestTimeout))
	if s.opts.HandleCORS {
		s.Router.Use(s.HandleCORS)
	}
	s.mountResourceHandlers(s.Router)
	if logtrace.IsTraceEnabled() {
		walkFunc := func(method string, route string, handler http.Handler, middlewares ...func(http.Handler) http.Handler) error {
			log.Trace().Str("method", method).Str("route", route).Msg("route")
			return nil
		}
		if err := chi.Walk(s.Router, walkFunc); err != nil {
			log.Error().Err(err).Msg("Error walking router")
		}
	}
}

func (s *SkillServer) mountResourceHandlers(r chi.Router) {
	r.With(middleware.RateLimit(s.opts.RateLimit)).
		Post("/skill", httpx.WrapHttpRsp(s.handleSkillRequest))
	r.Get("/version", s.getVersion)
	r.Get("/ready", s.getReadiness)
	r.Handle("/metrics", promhttp.Handler())
}

func (s *SkillServer) handleSkillRequest(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	env := &api.RequestEnvelope{}
	if err := httpx.GetRequestData(r, env); err != nil {
		return nil, err
	}
	if !IsEnvelopeVersionSupported(env.Version) {
		log.Ctx(ctx).Warn().Str("version", env.Version).Msg("unexpected envelope version")
	}
	log.Ctx(ctx).Debug().
		Str("type", env.Request.Type).
		Str("skill_request_id", env.Request.RequestID).
		Msg("skill request")

	rsp, err := s.skill.Handle(ctx, env)
	if err != nil {
		log.Ctx(ctx).Error().Str("error", apperrors.ErrorAll(err)).Str("type", env.Request.Type).Msg("skill request failed")
		return nil, err
	}
	if rsp == nil {
		return &httpx.Response{StatusCode: http.StatusNoContent}, nil
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   rsp,
	}, nil
}

// GetVersionRsp represents the response for version information.
type GetVersionRsp struct {
	ServerVersion string `json:"serverVersion"`
	ApiVersion    string `json:"apiVersion"`
}

func (s *SkillServer) getVersion(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("GetVersion")
	rsp := &GetVersionRsp{
		ServerVersion: "Reddit Reader Skill Server: " + Version,
		ApiVersion:    api.Version,
	}
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, rsp)
}

// getReadiness reports ready once the server is accepting connections.
func (s *SkillServer) getReadiness(w http.ResponseWriter, r *http.Request) {
	log.Ctx(r.Context()).Debug().Msg("Readiness check")
	httpx.SendJsonRsp(r.Context(), w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}

// HandleCORS provides CORS middleware for cross-origin requests.
func (s *SkillServer) HandleCORS(next http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "Content-Length", "Accept-Encoding"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	})(next)
}
