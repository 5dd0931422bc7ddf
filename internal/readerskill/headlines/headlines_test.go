package headlines

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tansive/redditreader/internal/readerskill/skillerrors"
)

type fakeFeed struct {
	t          *testing.T
	logins     int
	lastLimit  string
	lastTopic  string
	feedBody   string
	feedStatus int
	loginFails bool
}

func (f *fakeFeed) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		f.logins++
		assert.Equal(f.t, http.MethodPost, r.Method)
		assert.NoError(f.t, r.ParseForm())
		assert.Equal(f.t, "reader", r.PostForm.Get("user"))
		assert.Equal(f.t, "hunter2", r.PostForm.Get("password"))
		assert.Equal(f.t, "json", r.PostForm.Get("api_type"))
		assert.Equal(f.t, "I am testing Alexa: reader", r.Header.Get("User-Agent"))
		if f.loginFails {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "reddit_session", Value: "s1", Path: "/"})
		w.Write([]byte(`{"json":{"errors":[]}}`))
	})
	mux.HandleFunc("/r/", func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie("reddit_session")
		if assert.NoError(f.t, err, "login cookie should be sent") {
			assert.Equal(f.t, "s1", c.Value)
		}
		assert.Equal(f.t, "I am testing Alexa: reader", r.Header.Get("User-Agent"))
		f.lastTopic = strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/r/"), "/.json")
		f.lastLimit = r.URL.Query().Get("limit")
		if f.feedStatus != 0 {
			w.WriteHeader(f.feedStatus)
		}
		w.Write([]byte(f.feedBody))
	})
	return mux
}

func listing(titles ...string) string {
	var children []string
	for _, title := range titles {
		children = append(children, fmt.Sprintf(`{"kind":"t3","data":{"title":%q,"score":1}}`, title))
	}
	return `{"kind":"Listing","data":{"children":[` + strings.Join(children, ",") + `]}}`
}

func newTestFetcher(t *testing.T, feed *fakeFeed) *Fetcher {
	feed.t = t
	srv := httptest.NewServer(feed.handler())
	t.Cleanup(srv.Close)
	return New(Config{
		LoginURL: srv.URL + "/api/login",
		BaseURL:  srv.URL,
		Username: "reader",
		Password: "hunter2",
	}, srv.Client())
}

func TestFetchHeadlines(t *testing.T) {
	t.Run("joins titles without trailing separator", func(t *testing.T) {
		feed := &fakeFeed{feedBody: listing("A", "B", "C")}
		f := newTestFetcher(t, feed)

		got, err := f.FetchHeadlines(context.Background(), "golang", 3)
		require.NoError(t, err)
		assert.Equal(t, "A... B... C", got)
		assert.Equal(t, 1, feed.logins)
		assert.Equal(t, "golang", feed.lastTopic)
		assert.Equal(t, "3", feed.lastLimit)
	})

	t.Run("transliterates titles", func(t *testing.T) {
		feed := &fakeFeed{feedBody: listing("Café naïve", "“Quoted” title…")}
		f := newTestFetcher(t, feed)

		got, err := f.FetchHeadlines(context.Background(), "all", 5)
		require.NoError(t, err)
		assert.Equal(t, `Cafe naive... "Quoted" title...`, got)
	})

	t.Run("keeps at most count titles", func(t *testing.T) {
		feed := &fakeFeed{feedBody: listing("1", "2", "3", "4")}
		f := newTestFetcher(t, feed)

		got, err := f.FetchHeadlines(context.Background(), "all", 2)
		require.NoError(t, err)
		assert.Equal(t, "1... 2", got)
	})

	t.Run("empty listing", func(t *testing.T) {
		feed := &fakeFeed{feedBody: listing()}
		f := newTestFetcher(t, feed)

		got, err := f.FetchHeadlines(context.Background(), "all", 5)
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("zero count skips the upstream", func(t *testing.T) {
		feed := &fakeFeed{}
		f := newTestFetcher(t, feed)

		got, err := f.FetchHeadlines(context.Background(), "all", 0)
		require.NoError(t, err)
		assert.Equal(t, "", got)
		assert.Equal(t, 0, feed.logins)
	})

	t.Run("invalid arguments", func(t *testing.T) {
		f := newTestFetcher(t, &fakeFeed{})
		_, err := f.FetchHeadlines(context.Background(), "  ", 5)
		assert.ErrorIs(t, err, skillerrors.ErrInvalidArgument)
		_, err = f.FetchHeadlines(context.Background(), "all", -1)
		assert.ErrorIs(t, err, skillerrors.ErrInvalidArgument)
	})
}

func TestFetchHeadlinesUpstreamErrors(t *testing.T) {
	tests := []struct {
		name string
		feed *fakeFeed
	}{
		{name: "login fails", feed: &fakeFeed{loginFails: true}},
		{name: "feed error status", feed: &fakeFeed{feedStatus: http.StatusTooManyRequests, feedBody: "slow down"}},
		{name: "non json body", feed: &fakeFeed{feedBody: "<html>nope</html>"}},
		{name: "missing children", feed: &fakeFeed{feedBody: `{"data":{}}`}},
		{name: "child without title", feed: &fakeFeed{feedBody: `{"data":{"children":[{"data":{"score":3}}]}}`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newTestFetcher(t, tt.feed)
			_, err := f.FetchHeadlines(context.Background(), "golang", 5)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrFeedFetch)
			assert.ErrorIs(t, err, skillerrors.ErrUpstreamFetch)
		})
	}
}

func TestLoginDelayHonorsContext(t *testing.T) {
	feed := &fakeFeed{feedBody: listing("A")}
	f := newTestFetcher(t, feed)
	f.cfg.LoginDelay = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := f.FetchHeadlines(ctx, "golang", 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
	assert.Equal(t, 1, feed.logins)
	assert.Empty(t, feed.lastTopic, "feed must not be requested before the delay elapses")
}

func TestPresentHeadlines(t *testing.T) {
	feed := &fakeFeed{feedBody: listing("A", "B")}
	f := newTestFetcher(t, feed)

	got, err := f.PresentHeadlines(context.Background(), "golang", 2)
	require.NoError(t, err)
	assert.Equal(t, "Here are the top 2 posts from are slash golang: A... B", got)
}

func TestTransliterate(t *testing.T) {
	tests := map[string]string{
		"plain ascii":   "plain ascii",
		"Ｆｕｌｌｗｉｄｔｈ":     "Fullwidth",
		"crème brûlée":  "creme brulee",
		"wait for it…":  "wait for it...",
		"‘single’ ones": "'single' ones",
	}
	for in, want := range tests {
		assert.Equal(t, want, Transliterate(in), "input %q", in)
	}
}
