package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Firebase FirebaseConfig
	Calendar CalendarConfig
	Users    UsersConfig
	Redis    RedisConfig
	App      AppConfig
}

type ServerConfig struct {
	Port        string
	CORSOrigins []string
}

type FirebaseConfig struct {
	ProjectID       string
	CredentialsPath string
	APIKey          string
	// AuthURL is the Identity Toolkit base, e.g. https://identitytoolkit.googleapis.com/v1
	AuthURL string
	// FirestoreMode is "user" (storage credential as bearer token) or "admin" (service account).
	FirestoreMode string
}

type CalendarConfig struct {
	UsersServiceURL string
	EventStore      string
	IdentityTimeout time.Duration
}

type UsersConfig struct {
	SessionStore          string
	SchoolID              string
	VerifyIDTokens        bool
	LoginRateLimit        float64
	LoginBurst            int
	SessionReportSchedule string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
}

const (
	FirestoreModeUser  = "user"
	FirestoreModeAdmin = "admin"

	EventStoreFirestore = "firestore"
	EventStoreMemory    = "memory"

	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			CORSOrigins: getEnvAsList("CORS_ORIGINS", []string{"*"}),
		},
		Firebase: FirebaseConfig{
			ProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
			CredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
			APIKey:          getEnv("FIREBASE_API_KEY", ""),
			AuthURL:         getEnv("FIREBASE_AUTH_URL", "https://identitytoolkit.googleapis.com/v1"),
			FirestoreMode:   getEnv("FIRESTORE_MODE", FirestoreModeUser),
		},
		Calendar: CalendarConfig{
			UsersServiceURL: getEnv("USERS_SERVICE_URL", "http://localhost:8081"),
			EventStore:      getEnv("EVENT_STORE", EventStoreFirestore),
			IdentityTimeout: getEnvAsDuration("IDENTITY_TIMEOUT", 10*time.Second),
		},
		Users: UsersConfig{
			SessionStore:          getEnv("SESSION_STORE", SessionStoreMemory),
			SchoolID:              getEnv("SCHOOL_ID", ""),
			VerifyIDTokens:        getEnvAsBool("VERIFY_ID_TOKENS", false),
			LoginRateLimit:        getEnvAsFloat("LOGIN_RATE_LIMIT", 1),
			LoginBurst:            getEnvAsInt("LOGIN_BURST", 5),
			SessionReportSchedule: getEnv("SESSION_REPORT_SCHEDULE", "@every 10m"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the settings shared by both services.
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	switch c.Firebase.FirestoreMode {
	case FirestoreModeUser, FirestoreModeAdmin:
	default:
		return fmt.Errorf("FIRESTORE_MODE must be %q or %q, got %q", FirestoreModeUser, FirestoreModeAdmin, c.Firebase.FirestoreMode)
	}

	return nil
}

// ValidateCalendar checks the settings the calendar service needs on top of Validate.
func (c *Config) ValidateCalendar() error {
	if c.Calendar.UsersServiceURL == "" {
		return fmt.Errorf("USERS_SERVICE_URL is required")
	}

	switch c.Calendar.EventStore {
	case EventStoreMemory:
	case EventStoreFirestore:
		if c.Firebase.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required when EVENT_STORE=%s", EventStoreFirestore)
		}
	default:
		return fmt.Errorf("EVENT_STORE must be %q or %q, got %q", EventStoreFirestore, EventStoreMemory, c.Calendar.EventStore)
	}

	return nil
}

// ValidateUsers checks the settings the users service needs on top of Validate.
func (c *Config) ValidateUsers() error {
	if c.Firebase.ProjectID == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID is required")
	}
	if c.Firebase.AuthURL == "" {
		return fmt.Errorf("FIREBASE_AUTH_URL is required")
	}

	switch c.Users.SessionStore {
	case SessionStoreMemory:
	case SessionStoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=%s", SessionStoreRedis)
		}
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q, got %q", SessionStoreMemory, SessionStoreRedis, c.Users.SessionStore)
	}

	if c.Users.LoginRateLimit <= 0 || c.Users.LoginBurst <= 0 {
		return fmt.Errorf("LOGIN_RATE_LIMIT and LOGIN_BURST must be positive")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %v", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid duration for %s, using default: %s", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
