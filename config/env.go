// Package config loads application configuration from the environment.
//
// Values are resolved in order: process environment, .env file (via godotenv),
// then compiled-in defaults. Call config.Load() once at boot; every accessor
// calls it lazily so tests work without explicit setup.
package config

import (
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
)

const (
	defaultAppEnv       = "local"
	defaultAppPort      = "8080"
	defaultGRPCPort     = "9090"
	defaultMongoURI     = "mongodb://localhost:27017"
	defaultMongoDB      = "bazario"
	defaultRedisAddr    = "localhost:6379"
	defaultJWTSecret    = "change-me-in-production"
	defaultPhotoDisk    = "mongo"
	defaultGatewayURL   = "https://api.sandbox.braintreegateway.com"
	defaultStorageRoot  = "storage"
	defaultStorageURL   = "http://localhost:8080/storage"
	defaultCORSOrigins  = "*"
	defaultQueueDriver  = "memory"
	defaultQueueWorkers = "4"
)

var (
	loadOnce sync.Once

	mu     sync.RWMutex
	values = defaultValues()
)

func defaultValues() map[string]string {
	return map[string]string{
		"APP_ENV":       defaultAppEnv,
		"APP_PORT":      defaultAppPort,
		"GRPC_PORT":     defaultGRPCPort,
		"MONGO_URI":     defaultMongoURI,
		"MONGO_DB":      defaultMongoDB,
		"REDIS_ADDR":    defaultRedisAddr,
		"JWT_SECRET":    defaultJWTSecret,
		"PHOTO_DISK":    defaultPhotoDisk,
		"GATEWAY_URL":   defaultGatewayURL,
		"STORAGE_ROOT":  defaultStorageRoot,
		"STORAGE_URL":   defaultStorageURL,
		"CORS_ORIGINS":  defaultCORSOrigins,
		"QUEUE_DRIVER":  defaultQueueDriver,
		"QUEUE_WORKERS": defaultQueueWorkers,
	}
}

// Load reads the .env file (if present) and overlays the compiled-in defaults.
// Safe to call from multiple goroutines; only the first call does work.
func Load() error {
	loadOnce.Do(func() {
		loaded := defaultValues()

		// .env is optional — absence is not an error.
		if env, err := godotenv.Read(".env"); err == nil {
			for k, v := range env {
				loaded[strings.ToUpper(strings.TrimSpace(k))] = strings.TrimSpace(v)
			}
		}

		mu.Lock()
		values = loaded
		mu.Unlock()
	})
	return nil
}

func get(key, fallback string) string {
	// Process env always wins, so `APP_PORT=9000 ./bazario serve` works.
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	mu.RLock()
	defer mu.RUnlock()

	if v := strings.TrimSpace(values[key]); v != "" {
		return v
	}
	return fallback
}

// Get reads any config key by name with an optional fallback.
func Get(key, fallback string) string {
	_ = Load()
	return get(key, fallback)
}

// ── Application ──────────────────────────────────────────────────────────────

func AppEnv() string   { return Get("APP_ENV", defaultAppEnv) }
func AppPort() string  { return Get("APP_PORT", defaultAppPort) }
func GRPCPort() string { return Get("GRPC_PORT", defaultGRPCPort) }

// IsProduction reports whether the app runs with APP_ENV=production.
func IsProduction() bool {
	env := AppEnv()
	return env == "production" || env == "prod"
}

// ── Datastores ───────────────────────────────────────────────────────────────

func MongoURI() string      { return Get("MONGO_URI", defaultMongoURI) }
func MongoDatabase() string { return Get("MONGO_DB", defaultMongoDB) }
func RedisAddr() string     { return Get("REDIS_ADDR", defaultRedisAddr) }
func RedisPassword() string { return Get("REDIS_PASSWORD", "") }

// ── Auth ─────────────────────────────────────────────────────────────────────

func JWTSecret() string { return Get("JWT_SECRET", defaultJWTSecret) }

// AppKey is the AES key material for pkg/crypt. Falls back to the JWT secret
// so a single secret is enough for development.
func AppKey() string { return Get("APP_KEY", JWTSecret()) }

// ── Payment gateway ──────────────────────────────────────────────────────────

func GatewayURL() string        { return Get("GATEWAY_URL", defaultGatewayURL) }
func GatewayMerchantID() string { return Get("GATEWAY_MERCHANT_ID", "") }
func GatewayPublicKey() string  { return Get("GATEWAY_PUBLIC_KEY", "") }
func GatewayPrivateKey() string { return Get("GATEWAY_PRIVATE_KEY", "") }

// ── Photo storage ────────────────────────────────────────────────────────────

// PhotoDisk selects where product photo bytes live: "mongo" (in-document),
// "local", or "s3".
func PhotoDisk() string { return Get("PHOTO_DISK", defaultPhotoDisk) }

func StorageRoot() string { return Get("STORAGE_ROOT", defaultStorageRoot) }
func StorageURL() string  { return Get("STORAGE_URL", defaultStorageURL) }

func S3Bucket() string   { return Get("S3_BUCKET", "") }
func S3Region() string   { return Get("S3_REGION", "us-east-1") }
func S3Key() string      { return Get("S3_KEY", "") }
func S3Secret() string   { return Get("S3_SECRET", "") }
func S3Endpoint() string { return Get("S3_ENDPOINT", "") }
func S3URL() string      { return Get("S3_URL", "") }

// ── Workers / queue ──────────────────────────────────────────────────────────

func QueueDriver() string  { return Get("QUEUE_DRIVER", defaultQueueDriver) }
func QueueWorkers() string { return Get("QUEUE_WORKERS", defaultQueueWorkers) }

// ── Misc ─────────────────────────────────────────────────────────────────────

func CORSOrigins() []string {
	raw := Get("CORS_ORIGINS", defaultCORSOrigins)
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func SlackWebhook() string { return Get("SLACK_WEBHOOK", "") }
func LogToMongo() bool     { return strings.EqualFold(Get("LOG_MONGO", "false"), "true") }
