// Package config loads server settings from defaults, an optional TOML file
// and the environment, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/terraincognita07/budgetplanner/internal/logging"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	// ConfigPathEnv names the TOML file when --config is not given.
	ConfigPathEnv = "BUDGET_CONFIG"

	minSecretKeyLength = 32
)

var insecureSecretKeys = map[string]struct{}{
	"change_me_in_production":                   {},
	"replace_with_at_least_32_random_characters": {},
	"changeme":                                   {},
	"secret":                                     {},
}

type Config struct {
	Env      string   `toml:"env"`
	Server   Server   `toml:"server"`
	Database Database `toml:"database"`
	Auth     Auth     `toml:"auth"`
	Google   Google   `toml:"google"`
	Log      Log      `toml:"log"`
	Debug    Debug    `toml:"debug"`
}

type Server struct {
	Port         int    `toml:"port"`
	BaseURL      string `toml:"base_url"`
	CookieSecure bool   `toml:"cookie_secure"`
}

type Database struct {
	Path string `toml:"path"`
}

type Auth struct {
	SecretKey           string   `toml:"secret_key"`
	TokenTTL            Duration `toml:"token_ttl"`
	LoginAttemptsLimit  int      `toml:"login_attempts_limit"`
	LoginAttemptsWindow Duration `toml:"login_attempts_window"`
}

type Google struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

type Debug struct {
	// Routes is nil until set by the file or DEBUG_ROUTES; nil means
	// "enabled unless running in production".
	Routes *bool `toml:"routes"`
}

// Duration reads TOML strings such as "60m" or "1h30m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() Config {
	return Config{
		Env: EnvDevelopment,
		Server: Server{
			Port:    8080,
			BaseURL: "http://localhost:8080",
		},
		Database: Database{Path: "data/budget.db"},
		Auth: Auth{
			TokenTTL:            Duration{60 * time.Minute},
			LoginAttemptsLimit:  8,
			LoginAttemptsWindow: Duration{15 * time.Minute},
		},
		Log: Log{Level: "info", Format: logging.FormatText},
	}
}

// Load builds the configuration. path may be empty, in which case
// BUDGET_CONFIG is consulted; a missing file is only an error when named
// explicitly. The result is not validated.
func Load(path string) (Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg := Default()

	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = strings.TrimSpace(os.Getenv(ConfigPathEnv))
		explicit = path != ""
	}
	if explicit {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString(&cfg.Env, "ENV")
	setString(&cfg.Database.Path, "DB_PATH")
	setString(&cfg.Auth.SecretKey, "SECRET_KEY")
	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	setString(&cfg.Google.ClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&cfg.Server.BaseURL, "SERVER_BASE_URL")

	var problems []error
	if err := setInt(&cfg.Server.Port, "PORT"); err != nil {
		problems = append(problems, err)
	}
	if err := setInt(&cfg.Auth.LoginAttemptsLimit, "LOGIN_ATTEMPTS_LIMIT"); err != nil {
		problems = append(problems, err)
	}
	if err := setDuration(&cfg.Auth.TokenTTL, "TOKEN_TTL"); err != nil {
		problems = append(problems, err)
	}
	if err := setDuration(&cfg.Auth.LoginAttemptsWindow, "LOGIN_ATTEMPTS_WINDOW"); err != nil {
		problems = append(problems, err)
	}
	if err := setBool(&cfg.Server.CookieSecure, "COOKIE_SECURE"); err != nil {
		problems = append(problems, err)
	}
	if raw := strings.TrimSpace(os.Getenv("DEBUG_ROUTES")); raw != "" {
		enabled, err := strconv.ParseBool(raw)
		if err != nil {
			problems = append(problems, fmt.Errorf("DEBUG_ROUTES: %w", err))
		} else {
			cfg.Debug.Routes = &enabled
		}
	}
	return errors.Join(problems...)
}

func setString(target *string, key string) {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		*target = value
	}
}

func setInt(target *int, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = parsed
	return nil
}

func setBool(target *bool, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = parsed
	return nil
}

// setDuration accepts Go durations ("90m") or a bare number of minutes.
func setDuration(target *Duration, key string) error {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	if minutes, err := strconv.Atoi(raw); err == nil {
		target.Duration = time.Duration(minutes) * time.Minute
		return nil
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	target.Duration = parsed
	return nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []string

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		problems = append(problems, fmt.Sprintf("port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		problems = append(problems, "database path is required")
	}
	if err := validateSecretKey(c.Auth.SecretKey); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Auth.TokenTTL.Duration <= 0 {
		problems = append(problems, "token ttl must be positive")
	}
	if c.Auth.LoginAttemptsLimit < 1 {
		problems = append(problems, "login attempts limit must be at least 1")
	}
	if c.Auth.LoginAttemptsWindow.Duration <= 0 {
		problems = append(problems, "login attempts window must be positive")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		problems = append(problems, err.Error())
	}
	switch strings.ToLower(strings.TrimSpace(c.Log.Format)) {
	case logging.FormatText, logging.FormatJSON:
	default:
		problems = append(problems, fmt.Sprintf("log format must be text or json, got %q", c.Log.Format))
	}
	hasID := strings.TrimSpace(c.Google.ClientID) != ""
	hasSecret := strings.TrimSpace(c.Google.ClientSecret) != ""
	if hasID != hasSecret {
		problems = append(problems, "google client id and client secret must be set together")
	}
	if hasID && strings.TrimSpace(c.Server.BaseURL) == "" {
		problems = append(problems, "server base url is required for google login")
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

func validateSecretKey(secret string) error {
	trimmed := strings.TrimSpace(secret)
	if trimmed == "" {
		return errors.New("secret key is required")
	}
	if _, insecure := insecureSecretKeys[strings.ToLower(trimmed)]; insecure {
		return errors.New("secret key uses an insecure placeholder value")
	}
	if len(trimmed) < minSecretKeyLength {
		return fmt.Errorf("secret key must be at least %d characters", minSecretKeyLength)
	}
	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Env), EnvProduction)
}

func (c Config) DebugRoutesEnabled() bool {
	if c.Debug.Routes != nil {
		return *c.Debug.Routes
	}
	return !c.IsProduction()
}

func (c Config) GoogleEnabled() bool {
	return strings.TrimSpace(c.Google.ClientID) != "" && strings.TrimSpace(c.Google.ClientSecret) != ""
}

func (c Config) ListenAddress() string {
	return ":" + strconv.Itoa(c.Server.Port)
}
