package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tansive/redditreader/internal/common/middleware"
	"github.com/tansive/redditreader/internal/readerskill/entitlement"
	"github.com/tansive/redditreader/internal/readerskill/router"
)

type stubHeadlines struct {
	text string
	err  error
}

func (s stubHeadlines) PresentHeadlines(context.Context, string, int) (string, error) {
	return s.text, s.err
}

type stubEntitlements struct {
	info entitlement.Info
}

func (s stubEntitlements) GetEntitlement(context.Context, string) (entitlement.Info, error) {
	return s.info, nil
}

func newTestServer(t *testing.T, skill SkillHandler, opts Options) *SkillServer {
	t.Helper()
	s, err := CreateNewServer(skill, opts)
	require.NoError(t, err, "create new server")
	s.MountHandlers()
	return s
}

func defaultSkill(h stubHeadlines) SkillHandler {
	return router.New(h, stubEntitlements{}, router.Options{})
}

func executeTestRequest(t *testing.T, s *SkillServer, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func newSkillRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, "/skill", io.NopCloser(bytes.NewBufferString(body)))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func checkHeader(t *testing.T, h http.Header) {
	t.Helper()
	assert.Equal(t, "application/json", h.Get("Content-Type"))
	assert.NotEmpty(t, h.Get(middleware.RequestIDHeader), "No Request Id")
}
