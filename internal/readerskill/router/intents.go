package router

import (
	"context"
	"strings"

	"github.com/tansive/redditreader/internal/readerskill/api"
	"github.com/tansive/redditreader/internal/readerskill/metrics"
	"github.com/tansive/redditreader/internal/readerskill/response"
	"github.com/tansive/redditreader/internal/readerskill/skillerrors"
)

// Intent names the router dispatches.
const (
	IntentRead     = "read"
	IntentReadFrom = "read_from"
	IntentBuy      = "buy_subreddit_request"
	IntentRefund   = "refund_subreddit_requests"
	IntentHelp     = "AMAZON.HelpIntent"
	IntentCancel   = "AMAZON.CancelIntent"
	IntentStop     = "AMAZON.StopIntent"
)

// SlotSubreddit carries the topic of a read_from request.
const SlotSubreddit = "subreddit"

const upsellMessage = "Subreddit requests lets you request whatever subreddit you'd like. Do you want to purchase this functionality?"

var intentHandlers = map[string]intentHandler{
	IntentRead:     readIntent,
	IntentReadFrom: readFromIntent,
	IntentBuy:      buyIntent,
	IntentRefund:   refundIntent,
	IntentHelp:     helpIntent,
	IntentCancel:   stopIntent,
	IntentStop:     stopIntent,
}

func readIntent(ctx context.Context, r *Router, _ *api.RequestEnvelope) (*api.ResponseEnvelope, string, error) {
	output, err := r.presentHeadlines(ctx, AllTopic)
	if err != nil {
		return nil, "", err
	}
	return response.Build(response.Params{
		Title:  "Thanks for reading from reddit!",
		Output: output,
	}), metrics.OutcomeOK, nil
}

// readFromIntent reads a user-chosen subreddit. Users without the add-on get
// the upsell offer, never the free feed.
func readFromIntent(ctx context.Context, r *Router, env *api.RequestEnvelope) (*api.ResponseEnvelope, string, error) {
	topic := strings.TrimSpace(env.Request.Intent.SlotValue(SlotSubreddit))
	if topic == "" {
		return nil, "", skillerrors.ErrInvalidSlot.Msg("slot " + SlotSubreddit + " is required")
	}

	info, err := r.checkEntitlement(ctx, env)
	if err != nil {
		return nil, "", err
	}
	if !info.Entitled {
		return response.Build(response.Params{
			Title:      "Subreddit requests aren't enabled",
			Output:     "Sorry, you don't have subreddit requests enabled yet",
			Directives: []api.Directive{response.UpsellDirective(r.productID(info), upsellMessage)},
		}), metrics.OutcomeUpsell, nil
	}

	output, err := r.presentHeadlines(ctx, topic)
	if err != nil {
		return nil, "", err
	}
	return response.Build(response.Params{
		Title:  "Thanks for reading from r/" + topic,
		Output: output,
	}), metrics.OutcomeOK, nil
}

func buyIntent(ctx context.Context, r *Router, env *api.RequestEnvelope) (*api.ResponseEnvelope, string, error) {
	info, err := r.checkEntitlement(ctx, env)
	if err != nil {
		return nil, "", err
	}
	if info.Entitled {
		return response.Build(response.Params{
			Title:  "Subreddit requests are already enabled",
			Output: "You've already enabled subreddit requests",
		}), metrics.OutcomeOK, nil
	}
	return response.Build(response.Params{
		Title:      "Thanks for enabling subreddit requests!",
		Output:     "Thank you so much for enabling subreddit requests! Enjoy!",
		Directives: []api.Directive{response.BuyDirective(r.productID(info))},
	}), metrics.OutcomeOK, nil
}

// refundIntent starts a refund only for entitled users; everyone else gets a
// bare acknowledgment.
func refundIntent(ctx context.Context, r *Router, env *api.RequestEnvelope) (*api.ResponseEnvelope, string, error) {
	info, err := r.checkEntitlement(ctx, env)
	if err != nil {
		return nil, "", err
	}
	var directives []api.Directive
	if info.Entitled {
		directives = append(directives, response.CancelDirective(r.productID(info)))
	}
	return response.Build(response.Params{Directives: directives}), metrics.OutcomeOK, nil
}

func helpIntent(context.Context, *Router, *api.RequestEnvelope) (*api.ResponseEnvelope, string, error) {
	return welcomeResponse(), metrics.OutcomeOK, nil
}

func stopIntent(context.Context, *Router, *api.RequestEnvelope) (*api.ResponseEnvelope, string, error) {
	return sessionEndResponse(), metrics.OutcomeOK, nil
}
