package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Portal        PortalConfig        `yaml:"portal"`
	Leaderboard   LeaderboardConfig   `yaml:"leaderboard"`
	History       HistoryConfig       `yaml:"history"`
	Theme         ThemeConfig         `yaml:"theme"`
	Google        GoogleConfig        `yaml:"google"`
	Dashboard     DashboardConfig     `yaml:"dashboard"`
	Observability ObservabilityConfig `yaml:"observability"`
	StatePath     string              `yaml:"state_path"`
}

// PortalConfig holds the backend API settings.
type PortalConfig struct {
	BaseURL        string        `yaml:"base_url"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	RateLimit      float64       `yaml:"rate_limit"` // requests per second
	RateBurst      int           `yaml:"rate_burst"`
	LandingPath    string        `yaml:"landing_path"`

	// GET by default; some deployments only accept POST.
	LeaderboardMethod string `yaml:"leaderboard_method"`
}

// LeaderboardConfig holds polling and animation settings.
type LeaderboardConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	Stagger      time.Duration `yaml:"stagger"`
	IntroStagger time.Duration `yaml:"intro_stagger"`
}

// HistoryConfig holds score history chart settings.
type HistoryConfig struct {
	MinStep time.Duration `yaml:"min_step"`
	Width   int           `yaml:"width"`
	Height  int           `yaml:"height"`

	// Upper bound on the rebuilt time axis; longer series are refused.
	MaxSamples int `yaml:"max_samples"`
}

// ThemeConfig holds the two declared stylesheet references.
type ThemeConfig struct {
	LightHref      string `yaml:"light_href"`
	LightIntegrity string `yaml:"light_integrity"`
	DarkHref       string `yaml:"dark_href"`
	DarkIntegrity  string `yaml:"dark_integrity"`
}

// GoogleConfig holds the OAuth2 client used by the login command.
type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	HostedDomain string `yaml:"hosted_domain"`
	CallbackAddr string `yaml:"callback_addr"`
}

// DashboardConfig holds the local dashboard server settings.
type DashboardConfig struct {
	Address        string   `yaml:"address"`
	SecureCookies  bool     `yaml:"secure_cookies"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds configuration for logging and metrics.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"log_level"`
	LogFormat   string `yaml:"log_format"` // text|json
	Environment string `yaml:"environment"`
	ServiceName string `yaml:"service_name"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		Portal: PortalConfig{
			BaseURL:           "http://localhost:8080",
			RequestTimeout:    15 * time.Second,
			RateLimit:         5,
			RateBurst:         10,
			LandingPath:       "/",
			LeaderboardMethod: "GET",
		},
		Leaderboard: LeaderboardConfig{
			PollInterval: 5 * time.Minute,
			Stagger:      250 * time.Millisecond,
			IntroStagger: 250 * time.Millisecond,
		},
		History: HistoryConfig{
			MinStep:    time.Hour,
			Width:      1024,
			Height:     512,
			MaxSamples: 20000,
		},
		Theme: ThemeConfig{
			LightHref:      "https://cdn.jsdelivr.net/npm/bootswatch@4.5.2/dist/flatly/bootstrap.min.css",
			LightIntegrity: "sha384-qF/QmIAj5ZaYFAeQcrQ6bfVMAh4zZlrGwTPY7T/M+iTTLJqJBJjwwnsE5Y0mV7QK",
			DarkHref:       "https://cdn.jsdelivr.net/npm/bootswatch@4.5.2/dist/darkly/bootstrap.min.css",
			DarkIntegrity:  "sha384-nNK9n28pDUDDgIiIqZ/MiyO3F4/9vsMtReZK39klb/MtkZI3/LtjSjlmyVPS3KdN",
		},
		Google: GoogleConfig{
			CallbackAddr: "127.0.0.1:8765",
		},
		Dashboard: DashboardConfig{
			Address: "127.0.0.1:8090",
		},
		Observability: ObservabilityConfig{
			LogLevel:    "info",
			LogFormat:   "text",
			Environment: "development",
			ServiceName: "cuwais-portal",
		},
		StatePath: defaultStatePath(),
	}
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// --- OVERRIDE WITH ENV VARS IF PRESENT ---
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	cfg := Default()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("PORTAL_BASE_URL"); v != "" {
		cfg.Portal.BaseURL = v
	}
	if v := os.Getenv("PORTAL_REQUEST_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PORTAL_REQUEST_TIMEOUT value: %w", err)
		}
		cfg.Portal.RequestTimeout = d
	}
	if v := os.Getenv("PORTAL_RATE_LIMIT"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid PORTAL_RATE_LIMIT value: %w", err)
		}
		cfg.Portal.RateLimit = f
	}
	if v := os.Getenv("PORTAL_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid PORTAL_POLL_INTERVAL value: %w", err)
		}
		cfg.Leaderboard.PollInterval = d
	}
	if v := os.Getenv("HISTORY_MAX_SAMPLES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid HISTORY_MAX_SAMPLES value: %w", err)
		}
		cfg.History.MaxSamples = n
	}
	if v := os.Getenv("PORTAL_STATE_PATH"); v != "" {
		cfg.StatePath = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Google.ClientID = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_SECRET"); v != "" {
		cfg.Google.ClientSecret = v
	}
	if v := os.Getenv("DASHBOARD_ADDRESS"); v != "" {
		cfg.Dashboard.Address = v
	}
	if v := os.Getenv("DASHBOARD_SECURE_COOKIES"); v != "" {
		cfg.Dashboard.SecureCookies = v == "true"
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	return nil
}

// Validate reports settings that would make the client misbehave.
func (c *Config) Validate() error {
	if c.Portal.BaseURL == "" {
		return fmt.Errorf("portal.base_url must be set")
	}
	if c.Leaderboard.PollInterval <= 0 {
		return fmt.Errorf("leaderboard.poll_interval must be positive, got %s", c.Leaderboard.PollInterval)
	}
	if c.Leaderboard.Stagger < 0 || c.Leaderboard.IntroStagger < 0 {
		return fmt.Errorf("leaderboard stagger values must not be negative")
	}
	switch c.Portal.LeaderboardMethod {
	case "GET", "POST":
	default:
		return fmt.Errorf("portal.leaderboard_method must be GET or POST, got %q", c.Portal.LeaderboardMethod)
	}
	if c.Portal.RateLimit <= 0 {
		return fmt.Errorf("portal.rate_limit must be positive, got %v", c.Portal.RateLimit)
	}
	if c.History.MaxSamples <= 0 {
		return fmt.Errorf("history.max_samples must be positive, got %d", c.History.MaxSamples)
	}
	for _, o := range c.Dashboard.AllowedOrigins {
		u, err := url.Parse(o)
		if err != nil || u.Scheme == "" || u.Host == "" || u.Path != "" || u.RawQuery != "" {
			return fmt.Errorf("dashboard.allowed_origins entry %q must be scheme://host[:port]", o)
		}
	}
	return nil
}

func defaultStatePath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "cuwais-portal-state.yaml"
	}
	return filepath.Join(dir, "cuwais-portal", "state.yaml")
}
