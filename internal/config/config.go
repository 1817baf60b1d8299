package config

import (
	"fmt"
	"os"

	"github.com/go-core-fx/config"
)

type http struct {
	Address     string   `koanf:"address"`
	ProxyHeader string   `koanf:"proxy_header"`
	Proxies     []string `koanf:"proxies"`

	OpenAPI openAPIConfig `koanf:"openapi"`
}

type openAPIConfig struct {
	Enabled    bool   `koanf:"enabled"`
	PublicHost string `koanf:"public_host"`
	PublicPath string `koanf:"public_path"`
}

type storageConfig struct {
	DataDir string `koanf:"data_dir"`
}

type gitConfig struct {
	// Path of the working tree the facade is bound to. Empty leaves the
	// facade unbound.
	Path string `koanf:"path"`

	AuthorName    string `koanf:"author_name"`
	AuthorEmail   string `koanf:"author_email"`
	DefaultRemote string `koanf:"default_remote"`
}

type Config struct {
	HTTP http `koanf:"http"`

	Storage storageConfig `koanf:"storage"`
	Git     gitConfig     `koanf:"git"`
}

func Default() Config {
	//nolint:exhaustruct //default values
	return Config{
		HTTP: http{
			Address:     "127.0.0.1:3000",
			ProxyHeader: "X-Forwarded-For",
			Proxies:     []string{},
			OpenAPI: openAPIConfig{
				Enabled: true,
			},
		},

		Storage: storageConfig{
			DataDir: "./data",
		},

		Git: gitConfig{
			DefaultRemote: "origin",
		},
	}
}

func New() (Config, error) {
	cfg := Default()

	options := []config.Option{}
	if yamlPath := os.Getenv("CONFIG_PATH"); yamlPath != "" {
		options = append(options, config.WithLocalYAML(yamlPath))
	}

	if err := config.Load(&cfg, options...); err != nil {
		return Config{}, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}
