// Package skillerrors declares the error kinds shared by the skill packages.
package skillerrors

import (
	"net/http"

	"github.com/tansive/redditreader/internal/common/apperrors"
)

var (
	// ErrSkillError is the base error for all skill errors.
	ErrSkillError apperrors.Error = apperrors.New("error in processing skill request").SetStatusCode(http.StatusInternalServerError)

	// ErrInvalidRequestType is returned for a request type the router does not dispatch.
	ErrInvalidRequestType apperrors.Error = ErrSkillError.New("invalid request type").SetStatusCode(http.StatusBadRequest)

	// ErrInvalidIntent is returned for an unrecognized intent name.
	ErrInvalidIntent apperrors.Error = ErrSkillError.New("invalid intent").SetStatusCode(http.StatusBadRequest)

	// ErrInvalidSlot is returned when a required slot value is missing.
	ErrInvalidSlot apperrors.Error = ErrSkillError.New("missing or empty slot").SetStatusCode(http.StatusBadRequest)

	// ErrInvalidArgument is returned when a client is called with unusable arguments.
	ErrInvalidArgument apperrors.Error = ErrSkillError.New("invalid argument").SetStatusCode(http.StatusBadRequest)

	// ErrUpstreamFetch is returned when the feed or catalog service fails or
	// answers with an unexpected shape.
	ErrUpstreamFetch apperrors.Error = ErrSkillError.New("upstream fetch failed").SetStatusCode(http.StatusBadGateway).SetExpandError(true)
)
