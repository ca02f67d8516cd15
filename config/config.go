/*
config.go - Environment based configuration

PURPOSE:
  Reads the settings of the server and the CLI from the environment,
  optionally seeded from a .env file. Missing files are not an error;
  malformed values are.

KEYS:
  PORT                             HTTP port (default: 8080)
  DATABASE_PATH                    SQLite path (default: worktime.db)
  DEFAULT_FEDERAL_STATE            Tenant federal state (default: NONE)
  DEFAULT_WORKS_ON_PUBLIC_HOLIDAY  Tenant public holiday rule (default: false)
  LOCK_TIMEENTRIES_DAYS_IN_PAST    Report lock window in days, -1 disables
  LOG_LEVEL                        logrus level (default: info)
  HOLIDAYS_FILE                    Holiday JSON imported on startup
  CORS_ALLOWED_ORIGINS             Comma separated origins

SEE ALSO:
  - cmd/server/main.go, cmd/worktime: Consumers
  - holiday/holiday.go: HOLIDAYS_FILE format
*/
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/warp/worktime-engine/core"
	"github.com/warp/worktime-engine/workingtime"
)

// Config holds the application configuration.
type Config struct {
	Port               int
	DatabasePath       string
	CORSAllowedOrigins []string

	FederalState         core.FederalState
	WorksOnPublicHoliday bool
	LockDaysInPast       int

	LogLevel     logrus.Level
	HolidaysFile string
}

// Load reads the given .env files (".env" when none is given) into the
// environment without overriding variables that are already set, then
// builds the Config.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, file := range files {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
	}

	cfg := &Config{
		DatabasePath:       getEnv("DATABASE_PATH", "worktime.db"),
		CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:5173", "http://localhost:8080"}),
		HolidaysFile:       getEnv("HOLIDAYS_FILE", ""),
	}

	var err error
	if cfg.Port, err = getEnvAsInt("PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.LockDaysInPast, err = getEnvAsInt("LOCK_TIMEENTRIES_DAYS_IN_PAST", -1); err != nil {
		return nil, err
	}
	if cfg.WorksOnPublicHoliday, err = getEnvAsBool("DEFAULT_WORKS_ON_PUBLIC_HOLIDAY", false); err != nil {
		return nil, err
	}

	state, err := core.ParseFederalState(getEnv("DEFAULT_FEDERAL_STATE", string(core.FederalStateNone)))
	if err != nil {
		return nil, fmt.Errorf("invalid DEFAULT_FEDERAL_STATE: %w", err)
	}
	if state == core.FederalStateGlobal {
		// the tenant default cannot inherit from itself
		state = core.FederalStateNone
	}
	cfg.FederalState = state

	if cfg.LogLevel, err = logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	return cfg, nil
}

// Settings returns the tenant federal state defaults.
func (c *Config) Settings() workingtime.FederalStateSettings {
	return workingtime.FederalStateSettings{
		FederalState:         c.FederalState,
		WorksOnPublicHoliday: c.WorksOnPublicHoliday,
	}
}

// FederalStateSettings implements workingtime.SettingsSource.
func (c *Config) FederalStateSettings(context.Context) (workingtime.FederalStateSettings, error) {
	return c.Settings(), nil
}

// Logger creates a logrus logger at the configured level.
func (c *Config) Logger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(c.LogLevel)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return log
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string { return fmt.Sprintf(":%d", c.Port) }

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) (int, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal, nil
	}
	val, err := strconv.Atoi(valStr)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return val, nil
}

func getEnvAsBool(key string, defaultVal bool) (bool, error) {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal, nil
	}
	val, err := strconv.ParseBool(valStr)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return val, nil
}

func getEnvAsSlice(key string, defaultVal []string) []string {
	valStr := getEnv(key, "")
	if valStr == "" {
		return defaultVal
	}
	var out []string
	for _, v := range strings.Split(valStr, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
