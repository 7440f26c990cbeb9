package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server Server
	Mongo  Mongo
	Redis  Redis
	Kafka  Kafka
	Auth   Auth
	Client Client
	Orders Orders
}

type Server struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type Mongo struct {
	URI      string
	Database string
	User     string
	Password string
}

type Redis struct {
	Addr string
}

type Kafka struct {
	Brokers []string
	Enabled bool
}

type Auth struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type Client struct {
	// BaseURL is the SPA origin used for CORS and for the claim link
	// encoded into event QR codes.
	BaseURL string
}

type Orders struct {
	// DuplicatePolicy controls whether a guest may order the same cocktail
	// more than once: "allow" or "reject".
	DuplicatePolicy string
	GuestLockTTL    time.Duration
}

const (
	DuplicateAllow  = "allow"
	DuplicateReject = "reject"
)

func Load() *Config {
	return &Config{
		Server: Server{
			Port:         getEnv("PORT", ":8085"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Mongo: Mongo{
			URI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGO_DATABASE", "coupons"),
			User:     getEnv("MONGO_USER", ""),
			Password: getEnv("MONGO_PASSWORD", ""),
		},
		Redis: Redis{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Kafka: Kafka{
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Enabled: getEnvBool("KAFKA_ENABLED", true),
		},
		Auth: Auth{
			JWTSecret: getEnv("JWT_SECRET", "supersecretjwtkey"),
			TokenTTL:  time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 60)) * time.Minute,
		},
		Client: Client{
			BaseURL: getEnv("CLIENT_URL", "http://localhost:3000"),
		},
		Orders: Orders{
			DuplicatePolicy: getEnv("ORDER_DUPLICATE_POLICY", DuplicateAllow),
			GuestLockTTL:    time.Duration(getEnvInt("GUEST_LOCK_TTL_SECONDS", 10)) * time.Second,
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
