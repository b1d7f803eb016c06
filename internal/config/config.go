package config

import (
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "strings"

    "github.com/joho/godotenv"
)

// InsecureDefaultAPIKey is used when no key is configured. Never deploy with it.
const InsecureDefaultAPIKey = "change-me"

type Server struct {
    Port              string `json:"port"`
    RequestTimeoutSec int    `json:"request_timeout_sec"`
    MaxSymbols        int    `json:"max_symbols"`
}

type Auth struct {
    APIKey string `json:"api_key"`
}

// Provider selects and paces the market-data backend.
type Provider struct {
    Name                  string `json:"name"` // yahoo | financego | polygon
    HistoryDays           int    `json:"history_days"`
    MaxConcurrency        int    `json:"max_concurrency"`
    MaxRequestsPerMinute  int    `json:"max_requests_per_minute"`
    MinRequestIntervalSec int    `json:"min_request_interval_sec"`
    Burst                 int    `json:"burst"`
}

type Yahoo struct {
    BaseURL  string `json:"base_url"`
    Interval string `json:"interval"`
}

type Polygon struct {
    APIKey   string `json:"api_key"`
    Timezone string `json:"timezone"`
}

type FinanceGo struct {
    Timezone string `json:"timezone"`
}

type Log struct {
    Level  string `json:"level"`
    Format string `json:"format"` // text | json
}

type Config struct {
    Server    Server    `json:"server"`
    Auth      Auth      `json:"auth"`
    Provider  Provider  `json:"provider"`
    Yahoo     Yahoo     `json:"yahoo"`
    Polygon   Polygon   `json:"polygon"`
    FinanceGo FinanceGo `json:"financego"`
    Log       Log       `json:"log"`

    // UsingDefaultAPIKey is set when the key fell back to InsecureDefaultAPIKey.
    UsingDefaultAPIKey bool `json:"-"`
}

func Default() Config {
    return Config{
        Server: Server{Port: "8080", RequestTimeoutSec: 15, MaxSymbols: 100},
        Provider: Provider{
            Name:           "yahoo",
            HistoryDays:    7,
            MaxConcurrency: 4,
        },
        Yahoo:     Yahoo{Interval: "1d"},
        Polygon:   Polygon{Timezone: "America/New_York"},
        FinanceGo: FinanceGo{Timezone: "Asia/Tokyo"},
        Log:       Log{Level: "info", Format: "text"},
    }
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. A .env file in the working directory is loaded first;
// environment variables then override select fields for secrecy.
func Load(path string) (Config, error) {
    _ = godotenv.Load()

    cfg := Default()
    if path == "" {
        if _, err := os.Stat("config.json"); err == nil {
            path = "config.json"
        }
    }
    if path != "" {
        b, err := os.ReadFile(path)
        if err != nil && !errors.Is(err, os.ErrNotExist) {
            return cfg, fmt.Errorf("read config: %w", err)
        }
        if err == nil {
            if err := json.Unmarshal(b, &cfg); err != nil {
                return cfg, fmt.Errorf("parse config: %w", err)
            }
        }
    }
    applyEnv(&cfg)

    if strings.TrimSpace(cfg.Auth.APIKey) == "" {
        cfg.Auth.APIKey = InsecureDefaultAPIKey
        cfg.UsingDefaultAPIKey = true
    }
    if err := cfg.Validate(); err != nil {
        return cfg, err
    }
    return cfg, nil
}

// Validate checks values that would otherwise fail late at request time.
func (c Config) Validate() error {
    switch strings.ToLower(c.Provider.Name) {
    case "yahoo", "financego":
    case "polygon":
        if c.Polygon.APIKey == "" {
            return fmt.Errorf("config: provider polygon requires POLYGON_API_KEY")
        }
    default:
        return fmt.Errorf("config: unknown provider %q", c.Provider.Name)
    }
    if c.Server.MaxSymbols <= 0 {
        return fmt.Errorf("config: server.max_symbols must be positive")
    }
    return nil
}

func applyEnv(cfg *Config) {
    if v := os.Getenv("PORT"); v != "" { cfg.Server.Port = v }
    if v := os.Getenv("REQUEST_TIMEOUT_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.RequestTimeoutSec = x }
    }
    if v := os.Getenv("MAX_SYMBOLS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Server.MaxSymbols = x }
    }
    if v := os.Getenv("API_KEY"); v != "" { cfg.Auth.APIKey = v }

    if v := os.Getenv("PROVIDER"); v != "" { cfg.Provider.Name = strings.ToLower(strings.TrimSpace(v)) }
    if v := os.Getenv("HISTORY_DAYS"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Provider.HistoryDays = x }
    }
    if v := os.Getenv("PROVIDER_MAX_CONCURRENCY"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Provider.MaxConcurrency = x }
    }
    if v := os.Getenv("PROVIDER_MAX_RPM"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Provider.MaxRequestsPerMinute = x }
    }
    if v := os.Getenv("PROVIDER_MIN_INTERVAL_SEC"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x >= 0 { cfg.Provider.MinRequestIntervalSec = x }
    }
    if v := os.Getenv("PROVIDER_BURST"); v != "" {
        var x int; fmt.Sscanf(v, "%d", &x); if x > 0 { cfg.Provider.Burst = x }
    }

    if v := os.Getenv("YAHOO_BASE_URL"); v != "" { cfg.Yahoo.BaseURL = v }
    if v := os.Getenv("POLYGON_API_KEY"); v != "" { cfg.Polygon.APIKey = v }
    if v := os.Getenv("POLYGON_TIMEZONE"); v != "" { cfg.Polygon.Timezone = v }
    if v := os.Getenv("FINANCEGO_TIMEZONE"); v != "" { cfg.FinanceGo.Timezone = v }

    if v := os.Getenv("LOG_LEVEL"); v != "" { cfg.Log.Level = v }
    if v := os.Getenv("LOG_FORMAT"); v != "" { cfg.Log.Format = strings.ToLower(v) }
}
