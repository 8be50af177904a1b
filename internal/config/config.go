package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
// It follows the 12-factor app methodology by prioritizing environment variables.
type Config struct {
	Server     ServerConfig
	Session    SessionConfig
	Simulation SimulationConfig
}

type ServerConfig struct {
	Port        string
	Environment string
}

// SessionConfig identifies the local viewer. The engine serves exactly one
// viewer per process; identity comes from the hosting session, not from auth.
type SessionConfig struct {
	ViewerID   string
	ViewerName string
}

type SimulationConfig struct {
	Enabled  bool
	MinDelay time.Duration
	MaxDelay time.Duration
}

// LoadConfig loads configuration from environment variables.
// Defaults can be set here if needed.
func LoadConfig() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:        getEnv("SERVER_PORT", "8080"),
			Environment: getEnv("APP_ENV", "development"),
		},
		Session: SessionConfig{
			ViewerID:   getEnv("VIEWER_ID", "1"),
			ViewerName: getEnv("VIEWER_NAME", "Local User"),
		},
		Simulation: SimulationConfig{
			Enabled:  getEnvAsBool("SIMULATION_ENABLED", true),
			MinDelay: getEnvAsDuration("SIMULATION_MIN_DELAY", 500*time.Millisecond),
			MaxDelay: getEnvAsDuration("SIMULATION_MAX_DELAY", 3*time.Second),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
