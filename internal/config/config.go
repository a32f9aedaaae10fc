package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"omnivox-backend/internal/browser"
	"omnivox-backend/internal/components/chrono"
	"omnivox-backend/internal/components/telemetry"
	"omnivox-backend/internal/portal"
	"omnivox-backend/pkg/configutil"
)

type SmtpConfig struct {
	Host     string   `json:"host"`
	Port     int      `json:"port"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	From     string   `json:"from"`
	To       []string `json:"to"`
}

func (c SmtpConfig) Enabled() bool {
	return c.Host != "" && c.From != "" && len(c.To) > 0
}

type Config struct {
	Institutions          map[string]portal.Institution `json:"institutions"`
	RequestTimeoutSeconds int                           `json:"request_timeout_seconds"`
	RequestsPerSecond     float64                       `json:"requests_per_second"`
	Timezone              string                        `json:"timezone"`
	// BypassCloudflare is a pointer so an explicit false survives merging defaults.
	BypassCloudflare *bool            `json:"bypass_cloudflare"`
	Telemetry        telemetry.Config `json:"telemetry"`
	Smtp             SmtpConfig       `json:"smtp"`
}

func Default() Config {
	bypass := true
	return Config{
		Institutions: map[string]portal.Institution{
			"champlain": {
				Driver:      "champlain",
				BaseUrl:     "https://champlaincollege-st-lambert.omnivox.ca",
				DisplayName: "Champlain College Saint-Lambert",
			},
			"maisonneuve": {
				Driver:      "maisonneuve",
				BaseUrl:     "https://cmaisonneuve.omnivox.ca",
				DisplayName: "Collège de Maisonneuve",
			},
		},
		RequestTimeoutSeconds: 10,
		RequestsPerSecond:     2,
		Timezone:              "America/Montreal",
		BypassCloudflare:      &bypass,
	}
}

// Load reads the json5 config at path (plus its .local override) and fills what it leaves
// out from Default. A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	config, err := configutil.ReadConfig[Config](path)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	config, err = configutil.WithDefaults(config, Default())
	if err != nil {
		return Config{}, fmt.Errorf("merge config defaults: %w", err)
	}
	return config, config.Validate()
}

func (c Config) Validate() error {
	var errs []error
	for id, inst := range c.Institutions {
		if inst.Driver == "" {
			errs = append(errs, fmt.Errorf("institution '%s' has no driver", id))
		}
		if inst.BaseUrl == "" {
			errs = append(errs, fmt.Errorf("institution '%s' has no base_url", id))
		}
	}
	if c.RequestTimeoutSeconds < 0 {
		errs = append(errs, fmt.Errorf("request_timeout_seconds must not be negative"))
	}
	return errors.Join(errs...)
}

func (c Config) BrowserOptions() browser.Options {
	return browser.Options{
		Timeout:           time.Duration(c.RequestTimeoutSeconds) * time.Second,
		RequestsPerSecond: c.RequestsPerSecond,
		BypassCloudflare:  c.BypassCloudflare != nil && *c.BypassCloudflare,
	}
}

func (c Config) Clock() (chrono.StandardTime, error) {
	return chrono.NewStandardTime(c.Timezone)
}
