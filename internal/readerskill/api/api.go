// Package api defines the wire types exchanged with the voice platform: the
// inbound request envelope and the outbound response envelope.
package api

// Request types recognized by the router.
const (
	RequestTypeLaunch             = "LaunchRequest"
	RequestTypeIntent             = "IntentRequest"
	RequestTypeConnectionResponse = "Connections.Response"
	RequestTypeSessionEnded       = "SessionEndedRequest"
)

// Version is the response envelope format version.
const Version = "1.0"

// RequestEnvelope is the body the platform posts for every invocation.
type RequestEnvelope struct {
	Version string   `json:"version,omitempty"`
	Session *Session `json:"session,omitempty"`
	Request Request  `json:"request"`
	Context Context  `json:"context"`
}

// Session carries platform session state. Only attributes are read back.
type Session struct {
	New        bool           `json:"new"`
	SessionID  string         `json:"sessionId,omitempty"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Request is the tagged union of all request kinds. Type selects which of
// the remaining fields are meaningful.
type Request struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Locale    string `json:"locale,omitempty"`

	// IntentRequest
	Intent *Intent `json:"intent,omitempty"`

	// Connections.Response
	Name    string             `json:"name,omitempty"`
	Status  *ConnectionStatus  `json:"status,omitempty"`
	Payload *ConnectionPayload `json:"payload,omitempty"`
	Token   string             `json:"token,omitempty"`

	// SessionEndedRequest
	Reason string `json:"reason,omitempty"`
}

// Intent is a named user request with optional slot values.
type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

// Slot is a single named intent argument.
type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

// SlotValue returns the value of the named slot, or "" when absent.
func (i *Intent) SlotValue(name string) string {
	if i == nil {
		return ""
	}
	return i.Slots[name].Value
}

// ConnectionStatus is the transport status of a purchase connection.
type ConnectionStatus struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// ConnectionPayload carries the purchase outcome.
type ConnectionPayload struct {
	PurchaseResult string `json:"purchaseResult"`
	ProductID      string `json:"productId,omitempty"`
	Message        string `json:"message,omitempty"`
}

// Context is the per-invocation bag supplied by the platform.
type Context struct {
	System System `json:"System"`
}

// System holds the platform API credentials for this invocation.
type System struct {
	APIAccessToken string `json:"apiAccessToken"`
	APIEndpoint    string `json:"apiEndpoint,omitempty"`
}

// ResponseEnvelope is the canonical response returned to the platform.
type ResponseEnvelope struct {
	Version           string         `json:"version"`
	ShouldEndSession  bool           `json:"shouldEndSession"`
	SessionAttributes map[string]any `json:"sessionAttributes,omitempty"`
	Response          Response       `json:"response"`
}

// Response is the body of the envelope. Reprompt is always present.
type Response struct {
	OutputSpeech *OutputSpeech `json:"outputSpeech,omitempty"`
	Card         *Card         `json:"card,omitempty"`
	Reprompt     Reprompt      `json:"reprompt"`
	Directives   []Directive   `json:"directives,omitempty"`
}

// OutputSpeech is the spoken text.
type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Card is the display card shown in the companion app.
type Card struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Reprompt is spoken when the user does not answer.
type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

// Directive asks the platform to start a side flow such as a purchase.
type Directive struct {
	Type    string           `json:"type"`
	Name    string           `json:"name"`
	Payload DirectivePayload `json:"payload"`
	Token   string           `json:"token"`
}

// DirectivePayload identifies the product for a purchase directive.
type DirectivePayload struct {
	InSkillProduct InSkillProduct `json:"InSkillProduct"`
	UpsellMessage  string         `json:"upsellMessage,omitempty"`
}

// InSkillProduct names a purchasable add-on.
type InSkillProduct struct {
	ProductID string `json:"productId"`
}
