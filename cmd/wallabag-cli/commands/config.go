package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"pocheclient/lib/configutil"
	"pocheclient/lib/messages"
	"pocheclient/lib/restyutil"
	"pocheclient/lib/scrapers/wallabag/core"
)

type HttpAuthConfig struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Config struct {
	Endpoint         string          `json:"endpoint"`
	Username         string          `json:"username"`
	Password         string          `json:"password"`
	Language         string          `json:"language"`
	TimeoutSeconds   int             `json:"timeout_seconds"`
	HttpAuth         *HttpAuthConfig `json:"http_auth"`
	CloudflareBypass bool            `json:"cloudflare_bypass"`
}

func (c Config) ClientOptions() core.ClientOptions {
	opts := core.ClientOptions{
		BaseUrl:          c.Endpoint,
		Username:         c.Username,
		Password:         c.Password,
		Timeout:          time.Duration(c.TimeoutSeconds) * time.Second,
		CloudflareBypass: c.CloudflareBypass,
		Messages:         messages.Parse(c.Language),
	}
	if c.HttpAuth != nil && c.HttpAuth.Username != "" {
		opts.HttpAuth = &core.BasicAuth{
			Username: c.HttpAuth.Username,
			Password: c.HttpAuth.Password,
		}
	}
	return opts
}

func readConfig() (Config, error) {
	cfg, err := configutil.ReadConfig[Config](*configPath)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", *configPath, err)
	}
	return cfg, nil
}

func enableDump() error {
	if !*dump {
		return nil
	}
	out, err := restyutil.NewFilesystemOutput("<dev_state>/resty_telemetry/wallabag")
	if err != nil {
		return fmt.Errorf("create dump directory: %w", err)
	}
	core.SetRestyInstrumentOutput(out)
	slog.Info("dumping http messages", "dir", out.Directory())
	return nil
}

func createClient(ctx context.Context) (*core.Client, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}
	err = enableDump()
	if err != nil {
		return nil, err
	}

	client, err := core.NewClient(ctx, cfg.ClientOptions())
	if err != nil {
		return nil, err
	}
	slog.Debug("using endpoint", "url", client.BaseUrl.String(), "username", cfg.Username)
	return client, nil
}
