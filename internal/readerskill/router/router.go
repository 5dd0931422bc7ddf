// Package router dispatches inbound skill requests to the handler that builds
// the response, gating subscriber-only content on the user's entitlement.
package router

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/tansive/redditreader/internal/common/apperrors"
	"github.com/tansive/redditreader/internal/readerskill/api"
	"github.com/tansive/redditreader/internal/readerskill/entitlement"
	"github.com/tansive/redditreader/internal/readerskill/metrics"
	"github.com/tansive/redditreader/internal/readerskill/response"
	"github.com/tansive/redditreader/internal/readerskill/skillerrors"
)

// HeadlineSource produces the spoken headline text for a topic.
type HeadlineSource interface {
	PresentHeadlines(ctx context.Context, topic string, count int) (string, error)
}

// EntitlementSource reports whether the caller owns the add-on product.
type EntitlementSource interface {
	GetEntitlement(ctx context.Context, accessToken string) (entitlement.Info, error)
}

// FailurePolicy decides what an upstream outage does to an invocation.
type FailurePolicy string

const (
	// FailOnUpstreamError surfaces the upstream error to the caller.
	FailOnUpstreamError FailurePolicy = "fail"
	// ApologizeOnUpstreamError answers with an apology response instead.
	ApologizeOnUpstreamError FailurePolicy = "apologize"
)

const (
	DefaultPostCount = 5
	// AllTopic is the aggregate feed read by the free intent.
	AllTopic = "all"
)

// Options configure a Router.
type Options struct {
	PostCount       int           // headlines per read, DefaultPostCount when zero
	ProductID       string        // used when the catalog lists no product id
	UpstreamFailure FailurePolicy // FailOnUpstreamError when empty
}

// Router maps requests to responses. It holds no per-request state.
type Router struct {
	headlines    HeadlineSource
	entitlements EntitlementSource
	opts         Options
	intents      map[string]intentHandler
}

type intentHandler func(ctx context.Context, r *Router, env *api.RequestEnvelope) (*api.ResponseEnvelope, string, error)

// New creates a Router.
func New(headlines HeadlineSource, entitlements EntitlementSource, opts Options) *Router {
	if opts.PostCount <= 0 {
		opts.PostCount = DefaultPostCount
	}
	if opts.UpstreamFailure == "" {
		opts.UpstreamFailure = FailOnUpstreamError
	}
	return &Router{
		headlines:    headlines,
		entitlements: entitlements,
		opts:         opts,
		intents:      intentHandlers,
	}
}

// Handle produces the response for env. A nil envelope with a nil error
// means the platform expects no response (session end).
func (r *Router) Handle(ctx context.Context, env *api.RequestEnvelope) (*api.ResponseEnvelope, error) {
	if env == nil {
		return nil, skillerrors.ErrInvalidRequestType.Msg("empty request")
	}
	requestType := env.Request.Type
	metrics.RequestsTotal.WithLabelValues(metrics.Label(requestType,
		api.RequestTypeLaunch, api.RequestTypeIntent, api.RequestTypeConnectionResponse, api.RequestTypeSessionEnded)).Inc()

	switch requestType {
	case api.RequestTypeLaunch:
		return welcomeResponse(), nil

	case api.RequestTypeIntent:
		return r.onIntent(ctx, env)

	case api.RequestTypeConnectionResponse:
		rsp := r.onPurchaseResult(env.Request)
		logResponse(ctx, requestType, rsp)
		return rsp, nil

	case api.RequestTypeSessionEnded:
		log.Ctx(ctx).Debug().Str("reason", env.Request.Reason).Msg("session ended")
		return nil, nil

	default:
		return nil, skillerrors.ErrInvalidRequestType.Msg("invalid request type: " + requestType)
	}
}

func (r *Router) onIntent(ctx context.Context, env *api.RequestEnvelope) (*api.ResponseEnvelope, error) {
	if env.Request.Intent == nil {
		return nil, skillerrors.ErrInvalidIntent.Msg("intent request without an intent")
	}
	name := env.Request.Intent.Name
	handler, ok := r.intents[name]
	if !ok {
		metrics.IntentsTotal.WithLabelValues(metrics.Unknown, metrics.OutcomeRejected).Inc()
		return nil, skillerrors.ErrInvalidIntent.Msg("invalid intent: " + name)
	}

	rsp, outcome, err := handler(ctx, r, env)
	if err != nil {
		if errors.Is(err, skillerrors.ErrUpstreamFetch) && r.opts.UpstreamFailure == ApologizeOnUpstreamError {
			log.Ctx(ctx).Warn().Str("error", apperrors.ErrorAll(err)).Str("intent", name).Msg("upstream unavailable, apologizing")
			rsp, outcome = apologyResponse(err), metrics.OutcomeApology
		} else {
			outcome = metrics.OutcomeFailed
			if errors.Is(err, skillerrors.ErrInvalidSlot) {
				outcome = metrics.OutcomeRejected
			}
			metrics.IntentsTotal.WithLabelValues(name, outcome).Inc()
			return nil, err
		}
	}
	metrics.IntentsTotal.WithLabelValues(name, outcome).Inc()
	logResponse(ctx, name, rsp)
	return rsp, nil
}

// checkEntitlement performs the single catalog lookup of a gated handler.
func (r *Router) checkEntitlement(ctx context.Context, env *api.RequestEnvelope) (entitlement.Info, error) {
	info, err := r.entitlements.GetEntitlement(ctx, env.Context.System.APIAccessToken)
	if err != nil {
		metrics.UpstreamFailuresTotal.WithLabelValues(metrics.ServiceCatalog).Inc()
		return entitlement.NotEntitled, err
	}
	if !info.Found {
		log.Ctx(ctx).Debug().Msg("no product entitlement in catalog, treating as not entitled")
	}
	return info, nil
}

func (r *Router) presentHeadlines(ctx context.Context, topic string) (string, error) {
	text, err := r.headlines.PresentHeadlines(ctx, topic, r.opts.PostCount)
	if err != nil && errors.Is(err, skillerrors.ErrUpstreamFetch) {
		metrics.UpstreamFailuresTotal.WithLabelValues(metrics.ServiceFeed).Inc()
	}
	return text, err
}

// productID prefers the id the catalog reported over the configured one.
func (r *Router) productID(info entitlement.Info) string {
	if info.ProductID != "" {
		return info.ProductID
	}
	return r.opts.ProductID
}

// logResponse records the response for observability. A marshal failure is
// logged and otherwise ignored.
func logResponse(ctx context.Context, name string, rsp *api.ResponseEnvelope) {
	b, err := json.Marshal(rsp)
	if err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("name", name).Msg("unable to serialize response for logging")
		return
	}
	log.Ctx(ctx).Info().Str("name", name).RawJSON("response", b).Msg("skill response")
}

func welcomeResponse() *api.ResponseEnvelope {
	return response.Build(response.Params{
		Title:  "Welcome to reddit reader",
		Output: "Welcome to reddit reader, your one-stop-shop for reading reddit",
	})
}

func sessionEndResponse() *api.ResponseEnvelope {
	return response.Build(response.Params{
		Title:  "Session Ended",
		Output: "Thank you for using reddit reader",
	})
}

// apologyResponse names the upstream that failed: the subscription catalog
// or the reddit feed.
func apologyResponse(err error) *api.ResponseEnvelope {
	if errors.Is(err, entitlement.ErrCatalogFetch) {
		return response.Build(response.Params{
			Title:  "Subscriptions are unavailable",
			Output: "Sorry, I couldn't check your subscription right now. Please try again later.",
		})
	}
	return response.Build(response.Params{
		Title:  "Reddit is unavailable",
		Output: "Sorry, I couldn't reach reddit right now. Please try again later.",
	})
}
