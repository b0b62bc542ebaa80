package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Backends the data layer can run against.
const (
	BackendFirestore = "firestore"
	BackendMongo     = "mongo"
)

type Config struct {
	Environment        string // ENV: production, development, etc.
	StoreBackend       string // STORE_BACKEND: firestore (default) or mongo
	FirestoreProjectID string
	CredentialsFile    string // GOOGLE_APPLICATION_CREDENTIALS; empty means ambient credentials
	MongoURI           string
	MongoDatabase      string
	RedisURI           string
	ProbeURL           string // endpoint used by the connectivity probe
	ProbeTimeout       time.Duration
}

// Load reads configuration from the environment, loading a .env file first
// when one is present.
func Load() *Config {
	// No .env file is fine; environment variables still apply.
	_ = godotenv.Load()

	env := strings.ToLower(strings.TrimSpace(getEnv("ENV", "development")))

	backend := strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", BackendFirestore)))
	if backend != BackendFirestore && backend != BackendMongo {
		backend = BackendFirestore
	}

	probeTimeout := 5 * time.Second
	if raw := os.Getenv("PROBE_TIMEOUT_SECONDS"); raw != "" {
		if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
			probeTimeout = time.Duration(secs) * time.Second
		}
	}

	return &Config{
		Environment:        env,
		StoreBackend:       backend,
		FirestoreProjectID: getEnv("GOOGLE_PROJECT_ID", ""),
		CredentialsFile:    getEnv("GOOGLE_APPLICATION_CREDENTIALS", ""),
		MongoURI:           getEnv("MONGODB_URI", getEnv("MONGO_URI", "mongodb://localhost:27017/iceberg")),
		MongoDatabase:      getEnv("MONGO_DATABASE", "iceberg"),
		RedisURI:           getEnv("REDIS_URI", "redis://localhost:6379/0"),
		ProbeURL:           getEnv("PROBE_URL", "https://clients3.google.com/generate_204"),
		ProbeTimeout:       probeTimeout,
	}
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
