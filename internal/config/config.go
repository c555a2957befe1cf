package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env           string
	Port          int
	APIBaseURL    string
	APIKey        string
	TenantID      string
	PollInterval  time.Duration
	PageLimit     int
	PrintDebounce time.Duration
	PrinterAddr   string
	SessionDBPath string
	JWTSecret     string
	LogJSON       bool
}

func Default() Config {
	return Config{
		Env:           "dev",
		Port:          7070,
		APIBaseURL:    "https://pedidos.dmtn.com.br",
		APIKey:        "tamboril-burguer-api-key-2024-secure",
		TenantID:      "tamboril-burguer",
		PollInterval:  5 * time.Second,
		PageLimit:     20,
		PrintDebounce: time.Second,
		PrinterAddr:   "",
		SessionDBPath: "./pedidos-agent.db",
		JWTSecret:     "",
		LogJSON:       true,
	}
}

// EnvDefaults loads .env/.env.local when present and overlays PEDIDOS_*
// variables on the defaults. Flags in main override both.
func EnvDefaults() Config {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()
	return fromEnv(Default())
}

func fromEnv(c Config) Config {
	if v := os.Getenv("PEDIDOS_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("PEDIDOS_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Port = p
		}
	}
	if v := os.Getenv("PEDIDOS_API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("PEDIDOS_API_KEY"); v != "" {
		c.APIKey = v
	}
	if v := os.Getenv("PEDIDOS_TENANT_ID"); v != "" {
		c.TenantID = v
	}
	if v := os.Getenv("PEDIDOS_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			c.PollInterval = d
		}
	}
	if v := os.Getenv("PEDIDOS_PAGE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PageLimit = n
		}
	}
	if v := os.Getenv("PEDIDOS_PRINT_DEBOUNCE"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			c.PrintDebounce = d
		}
	}
	if v := os.Getenv("PEDIDOS_PRINTER_ADDR"); v != "" {
		c.PrinterAddr = v
	}
	if v := os.Getenv("PEDIDOS_SESSION_DB"); v != "" {
		c.SessionDBPath = v
	}
	if v := os.Getenv("PEDIDOS_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("PEDIDOS_LOG_JSON"); v != "" {
		switch v {
		case "1", "true", "TRUE":
			c.LogJSON = true
		case "0", "false", "FALSE":
			c.LogJSON = false
		}
	}
	return c
}
