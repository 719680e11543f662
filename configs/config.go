package configs

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBSource  string
	Port      string
	JWTSecret string
	JWTTTL    time.Duration

	// Pricing knobs live in configuration, not as constants in code.
	Currency              string
	FlatDeliveryFee       int64
	FreeDeliveryThreshold int64
	TaxRate               float64

	// External payment gateway.
	GatewayBaseURL   string
	GatewaySecretKey string
	GatewayTimeout   time.Duration

	// Background sweeps.
	NotificationTTL   time.Duration
	SweepInterval     time.Duration
	ReconcileInterval time.Duration
}

func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file, using environment")
	}

	return &Config{
		DBSource:  getEnv("DB_SOURCE", "localbites.db"),
		Port:      getEnv("PORT", "8000"),
		JWTSecret: getEnv("JWT_SECRET", "changeme"),
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),

		Currency:              getEnv("CURRENCY", "PKR"),
		FlatDeliveryFee:       getInt64("FLAT_DELIVERY_FEE", 150),
		FreeDeliveryThreshold: getInt64("FREE_DELIVERY_THRESHOLD", 1000),
		TaxRate:               getFloat("TAX_RATE", 0.15),

		GatewayBaseURL:   getEnv("GATEWAY_BASE_URL", "https://api.stripe.com"),
		GatewaySecretKey: os.Getenv("GATEWAY_SECRET_KEY"),
		GatewayTimeout:   getDuration("GATEWAY_TIMEOUT", 15*time.Second),

		NotificationTTL:   getDuration("NOTIFICATION_TTL", 30*24*time.Hour),
		SweepInterval:     getDuration("SWEEP_INTERVAL", time.Hour),
		ReconcileInterval: getDuration("RECONCILE_INTERVAL", 5*time.Minute),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getInt64(key string, fallback int64) int64 {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
