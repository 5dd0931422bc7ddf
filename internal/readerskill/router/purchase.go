package router

import (
	"github.com/tansive/redditreader/internal/readerskill/api"
	"github.com/tansive/redditreader/internal/readerskill/metrics"
	"github.com/tansive/redditreader/internal/readerskill/response"
)

// Purchase result codes sent in the Connections.Response payload.
const (
	PurchaseAccepted         = "ACCEPTED"
	PurchaseDeclined         = "DECLINED"
	PurchaseAlreadyPurchased = "ALREADY_PURCHASED"
	PurchaseError            = "ERROR"
)

// PurchaseOutcome maps a purchase result and the echoed correlation token to
// the title and text spoken back to the user.
func PurchaseOutcome(result, token string) (title, output string) {
	switch result {
	case PurchaseAccepted:
		if token == response.TokenRefund {
			return "Sorry it wasn't what you hoped",
				"Sorry subreddit requests wasn't what you were after."
		}
		return "You've enabled subreddit requests!",
			"Now you can request to read from any of the top 1000 subreddits!"
	case PurchaseDeclined:
		return "Maybe later",
			"No problem, you can ask about subreddit requests again any time."
	case PurchaseAlreadyPurchased:
		return "Subreddit requests are already enabled",
			"You've already got access to subreddit requests"
	default:
		return "Something went wrong while purchasing subreddit requests",
			"I'm sorry, something went wrong while purchasing subreddit requests. " +
				"Check your payment information on your Amazon account and try again."
	}
}

func (r *Router) onPurchaseResult(req api.Request) *api.ResponseEnvelope {
	var result string
	if req.Payload != nil {
		result = req.Payload.PurchaseResult
	}
	metrics.PurchaseResultsTotal.WithLabelValues(
		metrics.Label(result, PurchaseAccepted, PurchaseDeclined, PurchaseAlreadyPurchased, PurchaseError),
		metrics.Label(req.Token, response.TokenBuy, response.TokenUpsell, response.TokenRefund),
	).Inc()

	title, output := PurchaseOutcome(result, req.Token)
	return response.Build(response.Params{Title: title, Output: output})
}
