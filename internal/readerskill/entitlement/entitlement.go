// Package entitlement queries the in-skill product catalog to find out whether
// the current user owns the skill's purchasable add-on.
//
// The skill sells exactly one product. Only the first entry of the catalog's
// product list is consulted; additional products are not disambiguated.
package entitlement

import (
	"context"
	"net/http"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"github.com/tansive/redditreader/internal/common/httpclient"
	"github.com/tansive/redditreader/internal/readerskill/skillerrors"
)

const (
	DefaultCatalogURL     = "https://api.amazonalexa.com/v1/users/~current/skills/~current/inSkillProducts"
	DefaultAcceptLanguage = "en-US"

	entitledValue = "ENTITLED"
)

// ErrCatalogFetch is returned when the catalog cannot be read. It matches
// skillerrors.ErrUpstreamFetch.
var ErrCatalogFetch = skillerrors.ErrUpstreamFetch.New("unable to fetch in-skill products")

// Info is the entitlement state of the add-on product.
type Info struct {
	ProductID string
	Entitled  bool
	Found     bool // false when the catalog listed no usable product
}

// NotEntitled is returned when the catalog has no product entry or the
// entry lacks an entitlement field.
var NotEntitled = Info{}

// Config holds the catalog endpoint settings.
type Config struct {
	CatalogURL     string
	AcceptLanguage string
}

// Client reads entitlements. It is safe for concurrent use.
type Client struct {
	cfg    Config
	client *http.Client
}

// New returns a Client. Empty fields take their defaults; a nil client uses
// a default http.Client.
func New(cfg Config, client *http.Client) *Client {
	if cfg.CatalogURL == "" {
		cfg.CatalogURL = DefaultCatalogURL
	}
	if cfg.AcceptLanguage == "" {
		cfg.AcceptLanguage = DefaultAcceptLanguage
	}
	if client == nil {
		client = &http.Client{}
	}
	return &Client{cfg: cfg, client: client}
}

// GetEntitlement fetches the catalog with the caller's access token and
// returns the state of the first listed product. Missing product data is
// reported as NotEntitled, never as an error.
func (c *Client) GetEntitlement(ctx context.Context, accessToken string) (Info, error) {
	body, err := httpclient.DoRequest(ctx, c.client, httpclient.RequestOptions{
		URL: c.cfg.CatalogURL,
		Headers: map[string]string{
			"Accept-Language": c.cfg.AcceptLanguage,
			"Authorization":   "bearer " + accessToken,
		},
	})
	if err != nil {
		return NotEntitled, ErrCatalogFetch.Err(err)
	}
	if !gjson.ValidBytes(body) {
		return NotEntitled, ErrCatalogFetch.Err(errors.New("catalog response is not valid JSON"))
	}

	return parseFirstProduct(body), nil
}

func parseFirstProduct(body []byte) Info {
	product := gjson.GetBytes(body, "inSkillProducts.0")
	if !product.Exists() {
		return NotEntitled
	}
	entitled := product.Get("entitled")
	if !entitled.Exists() {
		return NotEntitled
	}
	return Info{
		ProductID: product.Get("productId").String(),
		Entitled:  entitled.String() == entitledValue,
		Found:     true,
	}
}
