package config

import (
	"os"
	"strings"
)

const (
	appNameVar = "APP_NAME"
	folderVar  = "MARKET_DATA_DIR"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "marketctl")
}

func (EnvVars) GetDataFolder() string {
	if folder := GetEnv(folderVar, ""); folder != "" {
		return folder
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "./data"
	}
	return home + "/.marketctl"
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return strings.ToUpper(env)
}

// GetEnv returns the value of the environment variable named by key, or
// defaultValue if it is unset or empty.
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
