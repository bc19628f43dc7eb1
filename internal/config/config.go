package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string

	// Payment gateway credentials, bound once at process start.
	GatewayURL        string
	GatewayMerchantID string
	GatewayPublicKey  string
	GatewayPrivateKey string
}

func Load() Config {
	// Best-effort: a missing .env just means plain env vars.
	_ = godotenv.Load()

	cfg := Config{
		Port:              getenv("PORT", "8080"),
		DBDSN:             getenv("DB_DSN", "shopkart.db"),
		LogFile:           getenv("LOG_FILE", "./shopkart.log"),
		GatewayURL:        getenv("GATEWAY_URL", "https://sandbox.gateway.test"),
		GatewayMerchantID: os.Getenv("GATEWAY_MERCHANT_ID"),
		GatewayPublicKey:  os.Getenv("GATEWAY_PUBLIC_KEY"),
		GatewayPrivateKey: os.Getenv("GATEWAY_PRIVATE_KEY"),
	}
	log.Printf("[config] PORT=%s DB_DSN=%s GATEWAY_URL=%s", cfg.Port, cfg.DBDSN, cfg.GatewayURL)
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
