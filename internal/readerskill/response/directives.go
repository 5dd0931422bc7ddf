package response

import (
	"github.com/tansive/redditreader/internal/readerskill/api"
)

const directiveTypeSendRequest = "Connections.SendRequest"

// Directive names understood by the platform.
const (
	DirectiveBuy    = "Buy"
	DirectiveUpsell = "Upsell"
	DirectiveCancel = "Cancel"
)

// Correlation tokens. The platform echoes them back in the
// Connections.Response callback.
const (
	TokenBuy    = "BUY"
	TokenUpsell = "UPSELL"
	TokenRefund = "REFUND"
)

// BuyDirective starts the purchase flow for productID.
func BuyDirective(productID string) api.Directive {
	return sendRequest(DirectiveBuy, TokenBuy, productID, "")
}

// UpsellDirective offers productID with the given pitch.
func UpsellDirective(productID, message string) api.Directive {
	return sendRequest(DirectiveUpsell, TokenUpsell, productID, message)
}

// CancelDirective starts the refund flow for productID.
func CancelDirective(productID string) api.Directive {
	return sendRequest(DirectiveCancel, TokenRefund, productID, "")
}

func sendRequest(name, token, productID, message string) api.Directive {
	return api.Directive{
		Type: directiveTypeSendRequest,
		Name: name,
		Payload: api.DirectivePayload{
			InSkillProduct: api.InSkillProduct{ProductID: productID},
			UpsellMessage:  message,
		},
		Token: token,
	}
}
