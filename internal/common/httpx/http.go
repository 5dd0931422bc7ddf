// Package httpx provides HTTP request/response handling utilities. It includes
// support for JSON request parsing, JSON responses and mapping application
// errors to HTTP error bodies.
package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/tansive/redditreader/internal/common/apperrors"
)

// GetRequestData parses the JSON request body into data. Only POST and PUT
// are accepted.
func GetRequestData(r *http.Request, data any) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPut {
		return ErrReqMethodNotSupported()
	}
	if r.Body == nil || r.Body == http.NoBody {
		log.Ctx(r.Context()).Error().Msg("Empty request body")
		return ErrUnableToParseReqData()
	}
	if err := json.NewDecoder(r.Body).Decode(data); err != nil {
		log.Ctx(r.Context()).Debug().Err(err).Msg("unable to decode request body")
		return ErrUnableToParseReqData()
	}
	return nil
}

// Response is what a RequestHandler hands back to WrapHttpRsp.
// A StatusNoContent response is written without a body.
type Response struct {
	StatusCode int
	Response   any
}

// RequestHandler defines a function type for handling HTTP requests.
type RequestHandler func(r *http.Request) (*Response, error)

// WrapHttpRsp adapts a RequestHandler into an http.HandlerFunc with uniform
// error mapping. Bodies are always written as JSON.
func WrapHttpRsp(handler RequestHandler) http.HandlerFunc {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rsp, err := handler(r)
		if err != nil {
			errorFrom(err).Send(w)
			return
		}
		if rsp == nil {
			ErrApplicationError().Send(w)
			return
		}
		if rsp.StatusCode == http.StatusNoContent {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		SendJsonRsp(r.Context(), w, rsp.StatusCode, rsp.Response)
	})
}

// errorFrom converts any handler error into an HTTP error.
func errorFrom(err error) *Error {
	var httperror *Error
	if errors.As(err, &httperror) {
		return httperror
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrRequestTimeout()
	}
	var appErr apperrors.Error
	if errors.As(err, &appErr) {
		statusCode := appErr.StatusCode()
		if statusCode == 0 {
			statusCode = http.StatusInternalServerError
		}
		return &Error{
			StatusCode:  statusCode,
			Description: appErr.ErrorAll(),
		}
	}
	return ErrApplicationError(err.Error())
}
