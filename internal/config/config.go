package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	AppPort    string
	AppEnv     string

	// Alipay open-platform credentials. Keys are PEM bodies without the
	// armor lines, as the SDK expects.
	AlipayAppID      string
	AlipayPrivateKey string
	AlipayPublicKey  string
	AlipayProduction bool

	// Company recorded as the owner of every face-to-face order.
	CompanyName string

	// Pixel size of the rendered payment QR image.
	QRImageSize int
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		DBHost:           os.Getenv("DB_HOST"),
		DBUser:           os.Getenv("DB_USER"),
		DBPassword:       os.Getenv("DB_PASSWORD"),
		DBName:           os.Getenv("DB_NAME"),
		DBPort:           os.Getenv("DB_PORT"),
		AppPort:          os.Getenv("APP_PORT"),
		AppEnv:           os.Getenv("APP_ENV"),
		AlipayAppID:      os.Getenv("ALIPAY_APP_ID"),
		AlipayPrivateKey: os.Getenv("ALIPAY_PRIVATE_KEY"),
		AlipayPublicKey:  os.Getenv("ALIPAY_PUBLIC_KEY"),
		AlipayProduction: os.Getenv("ALIPAY_PRODUCTION") == "true",
		CompanyName:      os.Getenv("COMPANY_NAME"),
		QRImageSize:      envInt("QR_IMAGE_SIZE", 512),
	}

	if cfg.DBHost == "" {
		log.Fatal("Environment variables not loaded properly")
	}

	return cfg
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}
