// Package response assembles the response envelope returned to the voice
// platform and the purchase directives embedded in it.
package response

import (
	"github.com/tansive/redditreader/internal/readerskill/api"
)

const (
	speechTypePlainText = "PlainText"
	cardTypeSimple      = "Simple"
)

// Params are the named inputs of Build. The zero value of KeepSessionOpen
// ends the session.
type Params struct {
	Title             string
	Output            string
	RepromptText      string
	KeepSessionOpen   bool
	SessionAttributes map[string]any
	Directives        []api.Directive
}

// Build assembles an envelope from p. Speech is set only for a non-empty
// Output, a card only when both Title and Output are set, and the reprompt
// falls back to Output. No text is validated.
func Build(p Params) *api.ResponseEnvelope {
	var rsp api.Response

	if p.Output != "" {
		rsp.OutputSpeech = &api.OutputSpeech{
			Type: speechTypePlainText,
			Text: p.Output,
		}
	}

	if p.Output != "" && p.Title != "" {
		rsp.Card = &api.Card{
			Type:    cardTypeSimple,
			Title:   p.Title,
			Content: p.Output,
		}
	}

	reprompt := p.RepromptText
	if reprompt == "" {
		reprompt = p.Output
	}
	rsp.Reprompt = api.Reprompt{
		OutputSpeech: api.OutputSpeech{
			Type: speechTypePlainText,
			Text: reprompt,
		},
	}

	if len(p.Directives) > 0 {
		rsp.Directives = p.Directives
	}

	env := &api.ResponseEnvelope{
		Version:          api.Version,
		ShouldEndSession: !p.KeepSessionOpen,
		Response:         rsp,
	}
	if len(p.SessionAttributes) > 0 {
		env.SessionAttributes = p.SessionAttributes
	}
	return env
}
