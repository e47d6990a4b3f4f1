package util

import (
	"os"
	"strconv"

	"github.com/OFFIS-RIT/symphony/pkg/logger"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file from the working directory if there is one.
// Variables already set in the environment win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using system environment variables")
	}
}

func GetEnv(key string) string {
	return os.Getenv(key)
}

// GetEnvString treats an empty variable like a missing one.
func GetEnvString(key string, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvNumeric parses key as a float. Missing or malformed values yield
// defaultValue.
func GetEnvNumeric(key string, defaultValue int) float64 {
	value, ok := lookup(key)
	if !ok {
		return float64(defaultValue)
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		logger.Warn("Ignoring malformed number", "key", key, "value", value)
		return float64(defaultValue)
	}
	return n
}

// GetEnvInt is GetEnvNumeric truncated to an int.
func GetEnvInt(key string, defaultValue int) int {
	return int(GetEnvNumeric(key, defaultValue))
}

// GetEnvBool accepts the forms strconv.ParseBool does (true, 1, FALSE, ...).
func GetEnvBool(key string, defaultValue bool) bool {
	value, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		logger.Warn("Ignoring malformed boolean", "key", key, "value", value)
		return defaultValue
	}
	return b
}

// lookup returns the variable's value unless it is unset or empty.
func lookup(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	return value, ok && value != ""
}
