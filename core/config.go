package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const DefaultRequestTimeoutMS = 6000

type CallbackConfig struct {
	ListenAddr  string `koanf:"listen_addr" mapstructure:"listen_addr"`
	Path        string `koanf:"path" mapstructure:"path"`
	ServiceName string `koanf:"service_name" mapstructure:"service_name"`
}

type Config struct {
	ServiceName      string         `koanf:"service_name" mapstructure:"service_name"`
	Disabled         bool           `koanf:"disabled" mapstructure:"disabled"`
	MoneyServerURL   string         `koanf:"money_server_url" mapstructure:"money_server_url"`
	UserServerURL    string         `koanf:"user_server_url" mapstructure:"user_server_url"`
	SellEnabled      bool           `koanf:"sell_enabled" mapstructure:"sell_enabled"`
	RequestTimeoutMS int            `koanf:"request_timeout_ms" mapstructure:"request_timeout_ms"`
	Callback         CallbackConfig `koanf:"callback" mapstructure:"callback"`
	Prices           PriceSchedule  `koanf:"prices" mapstructure:"prices"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:      "currency",
		RequestTimeoutMS: DefaultRequestTimeoutMS,
		Callback: CallbackConfig{
			ListenAddr:  ":9000",
			Path:        "/rpc",
			ServiceName: "MoneyModule",
		},
		Prices: DefaultPriceSchedule(),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return errInvalidConfig("service_name", "is required")
	}
	if c.RequestTimeoutMS <= 0 {
		return errInvalidConfig("request_timeout_ms", "must be positive")
	}
	for key, raw := range map[string]string{
		"money_server_url": c.MoneyServerURL,
		"user_server_url":  c.UserServerURL,
	} {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return errInvalidConfig(key, fmt.Sprintf("invalid url %q", raw))
		}
	}
	if c.Callback.Path != "" && !strings.HasPrefix(c.Callback.Path, "/") {
		return errInvalidConfig("callback.path", "must start with /")
	}
	return nil
}

func (c Config) LedgerConfigured() bool {
	return strings.TrimSpace(c.MoneyServerURL) != ""
}

func (c Config) RequestTimeout() time.Duration {
	if c.RequestTimeoutMS <= 0 {
		return DefaultRequestTimeoutMS * time.Millisecond
	}
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}
