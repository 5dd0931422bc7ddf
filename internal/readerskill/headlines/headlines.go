// Package headlines fetches post titles from the Reddit topic feeds and joins
// them into a single string suitable for speech synthesis.
package headlines

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/tansive/redditreader/internal/common/httpclient"
	"github.com/tansive/redditreader/internal/readerskill/skillerrors"
)

const (
	DefaultLoginURL   = "https://www.reddit.com/api/login"
	DefaultBaseURL    = "https://reddit.com"
	DefaultUserAgent  = "I am testing Alexa"
	DefaultLoginDelay = time.Second

	// Separator is placed between consecutive titles.
	Separator = "... "
)

// ErrFeedFetch is returned for every feed failure. It matches
// skillerrors.ErrUpstreamFetch.
var ErrFeedFetch = skillerrors.ErrUpstreamFetch.New("unable to fetch headlines")

// Config holds the feed account and endpoints. The credentials are shared by
// every invocation.
type Config struct {
	LoginURL   string
	BaseURL    string
	Username   string
	Password   string
	UserAgent  string
	LoginDelay time.Duration // pause after login to respect upstream rate limits
}

// Fetcher retrieves headlines. It is safe for concurrent use; each fetch
// logs in with its own cookie session.
type Fetcher struct {
	cfg    Config
	client *http.Client
}

// New returns a Fetcher. A nil client uses a default http.Client. Empty
// endpoint and user agent fields take their defaults; a zero LoginDelay
// disables the pause.
func New(cfg Config, client *http.Client) *Fetcher {
	if cfg.LoginURL == "" {
		cfg.LoginURL = DefaultLoginURL
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Fetcher{cfg: cfg, client: client}
}

// FetchHeadlines returns up to count titles of the topic's feed, transliterated
// to ASCII and joined with Separator.
func (f *Fetcher) FetchHeadlines(ctx context.Context, topic string, count int) (string, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return "", skillerrors.ErrInvalidArgument.Msg("topic is required")
	}
	if count < 0 {
		return "", skillerrors.ErrInvalidArgument.Msg("count must not be negative")
	}
	if count == 0 {
		return "", nil
	}

	client, err := f.session()
	if err != nil {
		return "", ErrFeedFetch.Err(err)
	}
	headers := map[string]string{
		"User-Agent": f.cfg.UserAgent + ": " + f.cfg.Username,
	}

	if err := f.login(ctx, client, headers); err != nil {
		return "", ErrFeedFetch.MsgErr("feed login failed", err)
	}

	if err := wait(ctx, f.cfg.LoginDelay); err != nil {
		return "", ErrFeedFetch.Err(err)
	}

	body, err := httpclient.DoRequest(ctx, client, httpclient.RequestOptions{
		URL:         strings.TrimSuffix(f.cfg.BaseURL, "/") + "/r/" + url.PathEscape(topic) + "/.json",
		QueryParams: map[string]string{"limit": strconv.Itoa(count)},
		Headers:     headers,
	})
	if err != nil {
		return "", ErrFeedFetch.Err(err)
	}

	titles, err := parseTitles(body, count)
	if err != nil {
		return "", ErrFeedFetch.Err(err)
	}
	log.Ctx(ctx).Debug().Str("topic", topic).Int("titles", len(titles)).Msg("fetched headlines")
	return strings.Join(titles, Separator), nil
}

// PresentHeadlines wraps the fetched headlines in an introduction sentence.
func (f *Fetcher) PresentHeadlines(ctx context.Context, topic string, count int) (string, error) {
	headlines, err := f.FetchHeadlines(ctx, topic, count)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Here are the top %d posts from are slash %s: %s", count, topic, headlines), nil
}

// session returns a copy of the client with a fresh cookie jar so the login
// cookie lives only for one fetch.
func (f *Fetcher) session() (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	c := *f.client
	c.Jar = jar
	return &c, nil
}

func (f *Fetcher) login(ctx context.Context, client *http.Client, headers map[string]string) error {
	form := url.Values{
		"user":     {f.cfg.Username},
		"password": {f.cfg.Password},
		"api_type": {"json"},
	}
	loginHeaders := map[string]string{"Content-Type": "application/x-www-form-urlencoded"}
	for k, v := range headers {
		loginHeaders[k] = v
	}
	_, err := httpclient.DoRequest(ctx, client, httpclient.RequestOptions{
		Method:  http.MethodPost,
		URL:     f.cfg.LoginURL,
		Headers: loginHeaders,
		Body:    []byte(form.Encode()),
	})
	return err
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// parseTitles extracts data.children[*].data.title, keeping at most count.
func parseTitles(body []byte, count int) ([]string, error) {
	if !gjson.ValidBytes(body) {
		return nil, errors.New("feed response is not valid JSON")
	}
	children := gjson.GetBytes(body, "data.children")
	if !children.IsArray() {
		return nil, errors.New("feed response has no data.children list")
	}
	var titles []string
	for i, child := range children.Array() {
		if len(titles) == count {
			break
		}
		title := child.Get("data.title")
		if !title.Exists() {
			return nil, errors.Errorf("feed post %d has no title", i)
		}
		titles = append(titles, Transliterate(title.String()))
	}
	return titles, nil
}
