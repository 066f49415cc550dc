package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const ENV_FILE = ".env"
const CONFIG_FILE = "config.yaml"

// DefaultModel is the model used when a caller does not name one.
const DefaultModel = "llama3"

type AppConfig struct {
	Logging      LoggingConfig     `yaml:"logging"`
	DefaultModel string            `yaml:"default_model"`
	API          APIConfig         `yaml:"api"`
	ChatService  ChatServiceConfig `yaml:"chat_service"`
	Routes       RoutesConfig      `yaml:"routes"`
	Web          WebConfig         `yaml:"web"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// APIConfig configures the primary conversation/ollama client.
// Variant selects the path prefix of the deployment: "proxied" serves the API
// under /back, "direct" serves it at the root. BasePath, when set, wins over
// Variant.
type APIConfig struct {
	BaseURL  string        `yaml:"base_url"`
	Variant  string        `yaml:"variant"`
	BasePath string        `yaml:"base_path"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ChatServiceConfig configures the message-role client, which always talks to
// an absolute base URL.
type ChatServiceConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type RoutesConfig struct {
	// Assistant enables the /assistant/:id navigation route.
	Assistant bool `yaml:"assistant"`
}

type WebConfig struct {
	Addr           string   `yaml:"addr"`
	UpstreamURL    string   `yaml:"upstream_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

var config *AppConfig

// Default returns the configuration used when no config.yaml is present.
func Default() AppConfig {
	return AppConfig{
		Logging:      LoggingConfig{Level: "info"},
		DefaultModel: DefaultModel,
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Variant: "proxied",
			Timeout: 10 * time.Second,
		},
		ChatService: ChatServiceConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Routes: RoutesConfig{Assistant: true},
		Web: WebConfig{
			Addr:           ":8080",
			UpstreamURL:    "http://localhost:8000",
			AllowedOrigins: []string{"*"},
		},
	}
}

// Load reads the yaml file at path on top of Default and applies environment
// overrides. A missing file is not an error.
func Load(path string) (AppConfig, error) {
	c := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, &c); err != nil {
				return AppConfig{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return AppConfig{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	applyEnv(&c)
	if strings.TrimSpace(c.DefaultModel) == "" {
		c.DefaultModel = DefaultModel
	}
	return c, nil
}

func applyEnv(c *AppConfig) {
	if v := os.Getenv("API_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("API_VARIANT"); v != "" {
		c.API.Variant = v
	}
	if v := os.Getenv("CHAT_SERVICE_BASE_URL"); v != "" {
		c.ChatService.BaseURL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

func InitApp() {
	// load environment variables
	_ = godotenv.Load(filepath.Join(GetBasePath(), ENV_FILE))

	path := ""
	if base := GetBasePath(); base != "" {
		path = filepath.Join(base, CONFIG_FILE)
	}
	c, err := Load(path)
	if err != nil {
		panic(err)
	}
	config = &c
}

func GetConfig() AppConfig {
	if config == nil {
		InitApp()
	}

	return *config
}

// GetBasePath walks up from the working directory to the first directory
// holding config.yaml. It returns "" when there is none.
func GetBasePath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		cfgPath := filepath.Join(dir, CONFIG_FILE)
		if info, err := os.Stat(cfgPath); err == nil && !info.IsDir() {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}
