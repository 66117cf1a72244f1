package config

import (
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config ค่าตั้งค่าทั้งหมดของ service อ่านจาก .env / environment
type Config struct {
	MongoURI             string
	MongoDBName          string
	MongoConnectTimeout  time.Duration
	MongoQueryTimeout    time.Duration
	MongoUseTransactions bool
	SeedSampleData       bool

	Port           string
	AllowedOrigins string
	PublicFormURL  string

	JWTSecret       string
	AdminAPIKeyHash string
	RedisURI        string

	LogFile string
}

const (
	defaultMongoURI = "mongodb://localhost:27017/formsdb"
	defaultDBName   = "formsdb"
	defaultPort     = "4000"
	defaultFormURL  = "http://localhost:3000/forms"
	defaultSecret   = "your_secret_key" // fallback for development
)

// Load reads .env (if present) and the environment, applying defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ Warning: No .env file found")
	}

	cfg := Config{
		MongoURI:             getEnv("MONGO_URI", defaultMongoURI),
		MongoConnectTimeout:  getDuration("MONGO_CONNECT_TIMEOUT", 5*time.Second),
		MongoQueryTimeout:    getDuration("MONGO_QUERY_TIMEOUT", 5*time.Second),
		MongoUseTransactions: getBool("MONGO_USE_TRANSACTIONS", false),
		SeedSampleData:       getBool("SEED_SAMPLE_DATA", false),
		Port:                 getEnv("PORT", getEnv("APP_URI", defaultPort)),
		AllowedOrigins:       getEnv("ALLOWED_ORIGINS", "*"),
		PublicFormURL:        getEnv("PUBLIC_FORM_URL", defaultFormURL),
		JWTSecret:            getEnv("JWT_SECRET", defaultSecret),
		AdminAPIKeyHash:      os.Getenv("ADMIN_API_KEY_HASH"),
		RedisURI:             os.Getenv("REDIS_URI"),
		LogFile:              os.Getenv("LOG_FILE"),
	}
	cfg.MongoDBName = getEnv("MONGO_DB_NAME", dbNameFromURI(cfg.MongoURI))
	return cfg
}

// dbNameFromURI returns the database in the URI path, e.g. formsdb in
// mongodb://host:27017/formsdb.
func dbNameFromURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return defaultDBName
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return defaultDBName
	}
	return name
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("⚠️ Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("⚠️ Invalid %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return d
}
