package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	Port         string
	CORSOrigins  []string
	DB           DBConfig
	Redis        RedisConfig
	Auth         AuthConfig
	Closing      ClosingConfig
	Twilio       TwilioConfig
	Location     *time.Location
	SlowRequest  time.Duration
	AuthRateSpec string
}

type DBConfig struct {
	Driver string // postgres or sqlite
	URL    string
}

// Configured reports whether a storage backend was provided. Without one
// the server runs in setup mode.
func (c DBConfig) Configured() bool {
	return strings.TrimSpace(c.URL) != ""
}

type AuthConfig struct {
	JWTSecret           string
	ExpiryHours         int
	BootstrapAdminEmail string
}

type ClosingConfig struct {
	Cron       string
	OwnerPhone string
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != ""
}

// App is the configuration loaded at startup.
var App Config

func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	expiryHours, err := strconv.Atoi(getEnv("JWT_EXPIRY_HOURS", "24"))
	if err != nil || expiryHours <= 0 {
		expiryHours = 24
	}
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	slowMS, err := strconv.Atoi(getEnv("SLOW_REQUEST_MS", "200"))
	if err != nil {
		slowMS = 200
	}

	tz := getEnv("APP_TIMEZONE", "America/Sao_Paulo")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("Unknown APP_TIMEZONE %q, falling back to UTC: %v", tz, err)
		loc = time.UTC
	}

	return Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")),
		DB: DBConfig{
			Driver: getEnv("DB_DRIVER", "postgres"),
			URL:    getEnv("DB_URL", ""),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Auth: AuthConfig{
			JWTSecret:           getEnv("JWT_SECRET", ""),
			ExpiryHours:         expiryHours,
			BootstrapAdminEmail: strings.ToLower(strings.TrimSpace(getEnv("BOOTSTRAP_ADMIN_EMAIL", ""))),
		},
		Closing: ClosingConfig{
			Cron:       getEnv("CLOSING_CRON", "55 23 * * *"),
			OwnerPhone: getEnv("OWNER_PHONE", ""),
		},
		Twilio: TwilioConfig{
			AccountSID:     getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:      getEnv("TWILIO_AUTH_TOKEN", ""),
			PhoneNumber:    getEnv("TWILIO_PHONE_NUMBER", ""),
			WhatsAppNumber: getEnv("TWILIO_WHATSAPP_NUMBER", ""),
		},
		Location:     loc,
		SlowRequest:  time.Duration(slowMS) * time.Millisecond,
		AuthRateSpec: getEnv("AUTH_RATE_LIMIT", "20-M"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
