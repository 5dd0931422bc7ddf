package cli

import (
	"net/http"

	"github.com/tansive/redditreader/internal/readerskill/config"
	"github.com/tansive/redditreader/internal/readerskill/entitlement"
	"github.com/tansive/redditreader/internal/readerskill/headlines"
	"github.com/tansive/redditreader/internal/readerskill/router"
)

// newSkill assembles the router and its upstream clients from cfg. Both
// clients share one transport.
func newSkill(cfg *config.ConfigParam) *router.Router {
	client := &http.Client{}

	fetcher := headlines.New(headlines.Config{
		LoginURL:   cfg.Feed.LoginURL,
		BaseURL:    cfg.Feed.BaseURL,
		Username:   cfg.Feed.Username,
		Password:   cfg.Feed.Password,
		UserAgent:  cfg.Feed.UserAgent,
		LoginDelay: cfg.Feed.LoginDelay,
	}, client)

	catalog := entitlement.New(entitlement.Config{
		CatalogURL:     cfg.Catalog.URL,
		AcceptLanguage: cfg.Catalog.AcceptLanguage,
	}, client)

	return router.New(fetcher, catalog, router.Options{
		PostCount:       cfg.Feed.PostCount,
		ProductID:       cfg.Skill.ProductID,
		UpstreamFailure: router.FailurePolicy(cfg.Skill.UpstreamFailure),
	})
}
