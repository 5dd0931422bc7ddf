// Package config loads the skill's TOML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// ConfigFormatVersion is the current version of the configuration file format.
// Files declaring any 0.1.x version are accepted.
const ConfigFormatVersion = "0.1.0"

const (
	DefaultServerPort     = "8080"
	DefaultRequestTimeout = 10 * time.Second
	DefaultPostCount      = 5
	DefaultLoginDelay     = time.Second
	DefaultLogLevel       = "info"
)

// RateLimitConfig bounds requests per client address. Requests == 0 disables
// the limiter.
type RateLimitConfig struct {
	Requests int           `toml:"requests" validate:"gte=0"`
	Window   time.Duration `toml:"window" validate:"gte=0s"`
}

// FeedConfig holds the reddit account used to read headlines.
type FeedConfig struct {
	LoginURL   string        `toml:"login_url" validate:"omitempty,url"`
	BaseURL    string        `toml:"base_url" validate:"omitempty,url"`
	Username   string        `toml:"username" validate:"required"`
	Password   string        `toml:"password" validate:"required"`
	UserAgent  string        `toml:"user_agent"`
	LoginDelay time.Duration `toml:"login_delay" validate:"gte=0s"`         // zero means DefaultLoginDelay
	PostCount  int           `toml:"post_count" validate:"gte=0,lte=100"` // headlines per read
}

// CatalogConfig holds the in-skill product catalog endpoint.
type CatalogConfig struct {
	URL            string `toml:"url" validate:"omitempty,url"`
	AcceptLanguage string `toml:"accept_language" validate:"omitempty,bcp47_language_tag"`
}

// SkillConfig holds product and failure-handling settings.
type SkillConfig struct {
	ProductID       string `toml:"product_id"`                                                 // used when the catalog omits one
	UpstreamFailure string `toml:"upstream_failure" validate:"omitempty,oneof=fail apologize"` // fail or apologize
}

// ConfigParam holds all configuration parameters for the skill server
type ConfigParam struct {
	// Configuration version
	FormatVersion string `toml:"format_version" validate:"required"`

	// Server configuration
	ServerPort     string        `toml:"server_port" validate:"omitempty,numeric"`
	HandleCORS     bool          `toml:"handle_cors"`
	LogLevel       string        `toml:"log_level" validate:"omitempty,oneof=trace debug info warn error"`
	RequestTimeout time.Duration `toml:"request_timeout" validate:"gte=0s"`

	RateLimit RateLimitConfig `toml:"rate_limit"`
	Feed      FeedConfig      `toml:"feed"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Skill     SkillConfig     `toml:"skill"`
}

var cfg *ConfigParam

// Config returns the configuration loaded by LoadConfig.
func Config() *ConfigParam {
	return cfg
}

var (
	validate           = validator.New(validator.WithRequiredStructEnabled())
	formatVersionRange = mustConstraint("~" + ConfigFormatVersion)
)

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// ValidateConfig checks the configuration and fills in defaults.
func ValidateConfig(cfg *ConfigParam) error {
	v, err := semver.NewVersion(cfg.FormatVersion)
	if err != nil || !formatVersionRange.Check(v) {
		return fmt.Errorf("unsupported config file format version: %q", cfg.FormatVersion)
	}

	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid value for %s: failed %q check", fe.Namespace(), fe.Tag())
		}
		return err
	}

	if cfg.RateLimit.Requests > 0 && cfg.RateLimit.Window == 0 {
		return fmt.Errorf("rate_limit.window is required when rate_limit.requests is set")
	}

	if cfg.ServerPort == "" {
		cfg.ServerPort = DefaultServerPort
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = DefaultLogLevel
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.Feed.LoginDelay == 0 {
		cfg.Feed.LoginDelay = DefaultLoginDelay
	}
	if cfg.Feed.PostCount == 0 {
		cfg.Feed.PostCount = DefaultPostCount
	}
	if cfg.Skill.UpstreamFailure == "" {
		cfg.Skill.UpstreamFailure = "fail"
	}
	return nil
}

// Parse decodes and validates raw TOML after expanding environment
// placeholders. envDir is searched for a .env file.
func Parse(raw []byte, envDir string) (*ConfigParam, error) {
	content, err := Preprocess(raw, envDir)
	if err != nil {
		return nil, err
	}

	c := &ConfigParam{}
	md, err := toml.Decode(string(content), c)
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %v", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key: %s", undecoded[0].String())
	}

	if err := ValidateConfig(c); err != nil {
		return nil, fmt.Errorf("invalid configuration: %v", err)
	}
	return c, nil
}

// LoadConfig loads configuration from a file and makes it available through
// Config.
func LoadConfig(filename string) error {
	if filename == "" {
		return fmt.Errorf("config filename is required")
	}

	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("error reading config file: %v", err)
	}

	c, err := Parse(content, filepath.Dir(filename))
	if err != nil {
		return err
	}
	cfg = c
	return nil
}
