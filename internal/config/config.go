package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	AppEnv     string
	AppPort    string
	APIVersion string

	DBDSN         string
	JWTSecret     string
	JWTExpiresMin int
	BcryptCost    int

	FrontendBaseURL string
	CORSOrigins     string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	EmailHost        string
	EmailPort        int
	EmailUser        string
	EmailPassword    string
	EmailFrom        string
	EmailFromName    string
	MailerSendAPIKey string

	LogLevel    string
	LogEncoding string

	AuthRateLimit     int
	AuthRateWindowSec int
	AuthRateBlockSec  int

	VerificationTTLMin int
	ResetTTLMin        int
}

func Load() Config {
	return Config{
		AppEnv:     get("APP_ENV", "development"),
		AppPort:    get("APP_PORT", "8080"),
		APIVersion: get("API_VERSION", "v1"),

		DBDSN:         must("DB_DSN"),
		JWTSecret:     must("JWT_SECRET"),
		JWTExpiresMin: getInt("JWT_EXPIRES_MIN", 10080),
		BcryptCost:    getInt("BCRYPT_COST", 12),

		FrontendBaseURL: strings.TrimRight(get("FRONTEND_BASE_URL", "http://localhost:3000"), "/"),
		CORSOrigins:     get("CORS_ORIGINS", "http://localhost:3000, http://127.0.0.1:3000"),

		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),
		RedisDB:       getInt("REDIS_DB", 0),

		EmailHost:        get("EMAIL_HOST", ""),
		EmailPort:        getInt("EMAIL_PORT", 587),
		EmailUser:        get("EMAIL_USER", ""),
		EmailPassword:    get("EMAIL_PASSWORD", ""),
		EmailFrom:        get("EMAIL_FROM", "noreply@maids.com"),
		EmailFromName:    get("EMAIL_FROM_NAME", "Maids Services"),
		MailerSendAPIKey: get("MAILERSEND_API_KEY", ""),

		LogLevel:    get("LOG_LEVEL", "info"),
		LogEncoding: get("LOG_ENCODING", "json"),

		AuthRateLimit:     getInt("AUTH_RATE_LIMIT", 20),
		AuthRateWindowSec: getInt("AUTH_RATE_WINDOW_SEC", 900),
		AuthRateBlockSec:  getInt("AUTH_RATE_BLOCK_SEC", 900),

		VerificationTTLMin: getInt("VERIFICATION_TTL_MIN", 1440),
		ResetTTLMin:        getInt("RESET_TTL_MIN", 10),
	}
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

func (c Config) VerificationTTL() time.Duration {
	return time.Duration(c.VerificationTTLMin) * time.Minute
}

func (c Config) ResetTTL() time.Duration {
	return time.Duration(c.ResetTTLMin) * time.Minute
}

func (c Config) AuthRateWindow() time.Duration {
	return time.Duration(c.AuthRateWindowSec) * time.Second
}

func (c Config) AuthRateBlock() time.Duration {
	return time.Duration(c.AuthRateBlockSec) * time.Second
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getInt(k string, def int) int {
	v, err := strconv.Atoi(get(k, strconv.Itoa(def)))
	if err != nil {
		return def
	}
	return v
}

func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
