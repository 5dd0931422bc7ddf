package response

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/tansive/redditreader/internal/readerskill/api"
)

func TestBuild(t *testing.T) {
	t.Run("title and output produce speech and card", func(t *testing.T) {
		for _, tc := range []struct{ title, output string }{
			{"Welcome", "Hello there"},
			{"Thanks for reading from r/golang", "Here are the top 5 posts"},
			{"x", "y"},
		} {
			env := Build(Params{Title: tc.title, Output: tc.output})
			require.NotNil(t, env.Response.Card)
			assert.Equal(t, "Simple", env.Response.Card.Type)
			assert.Equal(t, tc.title, env.Response.Card.Title)
			assert.Equal(t, tc.output, env.Response.Card.Content)
			require.NotNil(t, env.Response.OutputSpeech)
			assert.Equal(t, "PlainText", env.Response.OutputSpeech.Type)
			assert.Equal(t, tc.output, env.Response.OutputSpeech.Text)
		}
	})

	t.Run("reprompt defaults to output", func(t *testing.T) {
		env := Build(Params{Output: "say something"})
		assert.Equal(t, "say something", env.Response.Reprompt.OutputSpeech.Text)
		assert.Nil(t, env.Response.Card, "no card without a title")

		env = Build(Params{Output: "say something", RepromptText: "still there?"})
		assert.Equal(t, "still there?", env.Response.Reprompt.OutputSpeech.Text)
	})

	t.Run("title without output has no card and no speech", func(t *testing.T) {
		env := Build(Params{Title: "only a title"})
		assert.Nil(t, env.Response.Card)
		assert.Nil(t, env.Response.OutputSpeech)
	})

	t.Run("empty params still carry a reprompt", func(t *testing.T) {
		env := Build(Params{})
		b, err := json.Marshal(env)
		require.NoError(t, err)
		assert.JSONEq(t, `{
			"version": "1.0",
			"shouldEndSession": true,
			"response": {
				"reprompt": {"outputSpeech": {"type": "PlainText", "text": ""}}
			}
		}`, string(b))
	})

	t.Run("directives and attributes omitted when empty", func(t *testing.T) {
		env := Build(Params{Title: "t", Output: "o", Directives: []api.Directive{}, SessionAttributes: map[string]any{}})
		b, err := json.Marshal(env)
		require.NoError(t, err)
		assert.False(t, gjson.GetBytes(b, "response.directives").Exists())
		assert.False(t, gjson.GetBytes(b, "sessionAttributes").Exists())
	})

	t.Run("session flag and attributes", func(t *testing.T) {
		env := Build(Params{Output: "o", KeepSessionOpen: true, SessionAttributes: map[string]any{"topic": "golang"}})
		assert.False(t, env.ShouldEndSession)
		assert.Equal(t, "golang", env.SessionAttributes["topic"])
	})
}

func TestDirectives(t *testing.T) {
	env := Build(Params{
		Title:      "t",
		Output:     "o",
		Directives: []api.Directive{UpsellDirective("amzn1.adg.product.1", "Want it?")},
	})
	b, err := json.Marshal(env)
	require.NoError(t, err)
	assert.JSONEq(t, `[{
		"type": "Connections.SendRequest",
		"name": "Upsell",
		"payload": {
			"InSkillProduct": {"productId": "amzn1.adg.product.1"},
			"upsellMessage": "Want it?"
		},
		"token": "UPSELL"
	}]`, gjson.GetBytes(b, "response.directives").Raw)

	buy := BuyDirective("p")
	assert.Equal(t, "Buy", buy.Name)
	assert.Equal(t, "BUY", buy.Token)
	assert.Empty(t, buy.Payload.UpsellMessage)

	cancel := CancelDirective("p")
	assert.Equal(t, "Cancel", cancel.Name)
	assert.Equal(t, "REFUND", cancel.Token)
	assert.Equal(t, "p", cancel.Payload.InSkillProduct.ProductID)
}
