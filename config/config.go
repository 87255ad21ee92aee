package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// Config collects everything the dashboard reads from the environment.
type Config struct {
	APIBaseURL   string
	RestaurantID uint
	BranchID     *uint

	NotificationInterval time.Duration
	SubscriptionInterval time.Duration
	ToastDuration        time.Duration

	SoundEnabled bool
	ChimePath    string
	DBPath       string
}

// Load reads .env (when present) and the process environment, falling
// back to the documented defaults.
func Load() Config {
	utils.InitLogger()
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Printf("No .env file loaded: %v", err)
	}

	cfg := Config{
		APIBaseURL:           getEnv("API_BASE_URL", "http://localhost:8080"),
		RestaurantID:         uint(getEnvInt("RESTAURANT_ID", 1)),
		NotificationInterval: getEnvDuration("NOTIFICATION_INTERVAL", 5*time.Second),
		SubscriptionInterval: getEnvDuration("SUBSCRIPTION_INTERVAL", 2*time.Second),
		ToastDuration:        getEnvDuration("TOAST_DURATION", 8*time.Second),
		SoundEnabled:         getEnvBool("SOUND_ENABLED", true),
		ChimePath:            getEnv("CHIME_PATH", "assets/new_order.wav"),
		DBPath:               getEnv("DASHBOARD_DB", "dashboard.db"),
	}

	if v := os.Getenv("BRANCH_ID"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 32); err == nil {
			branch := uint(id)
			cfg.BranchID = &branch
		} else {
			utils.ErrorLogger.Printf("Ignoring invalid BRANCH_ID %q: %v", v, err)
		}
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		utils.ErrorLogger.Printf("Ignoring invalid %s %q: %v", key, v, err)
		return fallback
	}
	return n
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		utils.ErrorLogger.Printf("Ignoring invalid %s %q: %v", key, v, err)
		return fallback
	}
	return b
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		utils.ErrorLogger.Printf("Ignoring invalid %s %q: %v", key, v, err)
		return fallback
	}
	return d
}
