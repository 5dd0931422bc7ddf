package apperrors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestError(t *testing.T) {
	t.Run("derived errors match their templates", func(t *testing.T) {
		ErrSkill := New("error in skill").SetStatusCode(http.StatusInternalServerError)
		assert.Equal(t, "error in skill", ErrSkill.Error())
		assert.ErrorIs(t, ErrSkill, ErrSkill)

		ErrInvalidIntent := ErrSkill.New("invalid intent").SetStatusCode(http.StatusBadRequest)
		assert.Equal(t, "invalid intent", ErrInvalidIntent.Error())
		assert.Equal(t, http.StatusBadRequest, ErrInvalidIntent.StatusCode())
		assert.ErrorIs(t, ErrInvalidIntent, ErrSkill)
		assert.NotErrorIs(t, ErrSkill, ErrInvalidIntent)

		withName := ErrInvalidIntent.Msg("invalid intent: unknown_intent")
		assert.Equal(t, "invalid intent: unknown_intent", withName.Error())
		assert.Equal(t, http.StatusBadRequest, withName.StatusCode())
		assert.ErrorIs(t, withName, ErrInvalidIntent)
		assert.ErrorIs(t, withName, ErrSkill)
	})

	t.Run("attached errors are matched and expanded", func(t *testing.T) {
		ErrUpstream := New("upstream fetch failed").SetStatusCode(http.StatusBadGateway).SetExpandError(true)
		cause := errors.New("connection refused")

		err := ErrUpstream.Err(cause)
		assert.Equal(t, "upstream fetch failed", err.Error())
		assert.Equal(t, "upstream fetch failed; connection refused", err.ErrorAll())
		assert.ErrorIs(t, err, ErrUpstream)
		assert.ErrorIs(t, err, cause)
		assert.Len(t, err.UnwrapAll(), 2)

		err = ErrUpstream.MsgErr("feed login failed", cause)
		assert.Equal(t, "feed login failed", err.Error())
		assert.Equal(t, "feed login failed; connection refused", err.ErrorAll())
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, http.StatusBadGateway, err.StatusCode())
	})

	t.Run("expansion is off by default", func(t *testing.T) {
		err := New("base").Err(errors.New("hidden"))
		assert.Equal(t, "base", err.ErrorAll())
	})

	t.Run("full message of any error", func(t *testing.T) {
		ErrUpstream := New("unable to fetch headlines").SetExpandError(true)
		cause := errors.New("context deadline exceeded")

		assert.Equal(t, "unable to fetch headlines; context deadline exceeded", ErrorAll(ErrUpstream.Err(cause)))
		assert.Equal(t, "unable to fetch headlines; context deadline exceeded",
			ErrorAll(errors.Wrap(ErrUpstream.Err(cause), "request 2")))
		assert.Equal(t, "plain", ErrorAll(errors.New("plain")))
		assert.Equal(t, "", ErrorAll(nil))
	})

	t.Run("setters copy", func(t *testing.T) {
		base := New("base")
		withCode := base.SetStatusCode(http.StatusTeapot)
		assert.Equal(t, 0, base.StatusCode())
		assert.Equal(t, http.StatusTeapot, withCode.StatusCode())
	})
}
