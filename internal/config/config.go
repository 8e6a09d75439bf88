package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	AuthModeFirebase = "firebase"
	AuthModeJWT      = "jwt"
	AuthModeDev      = "dev"

	StoreFirestore = "firestore"
	StoreMongo     = "mongo"
	StoreFile      = "file"
)

type Config struct {
	ServerAddress     string
	AuthMode          string
	SessionCookieName string
	JWTSecret         string
	JWTEmailClaim     string

	FirebaseProjectID       string
	FirebaseCredentialsJSON string

	StoreBackend    string
	MongoURI        string
	MongoDatabase   string
	DataDir         string
	UsersCollection string

	RequestTimeout time.Duration
	AllowedOrigins []string
}

func Load() *Config {
	return &Config{
		ServerAddress:     getEnv("SERVER_ADDRESS", ":8080"),
		AuthMode:          strings.ToLower(getEnv("AUTH_MODE", AuthModeFirebase)),
		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "session"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTEmailClaim:     getEnv("JWT_EMAIL_CLAIM", "email"),

		FirebaseProjectID:       getEnv("FIREBASE_PROJECT_ID", ""),
		FirebaseCredentialsJSON: getEnv("FIREBASE_CREDENTIALS_JSON", ""),

		StoreBackend:    strings.ToLower(getEnv("STORE_BACKEND", StoreFirestore)),
		MongoURI:        getEnv("MONGO_URI", ""),
		MongoDatabase:   getEnv("MONGO_DATABASE", "app"),
		DataDir:         getEnv("DATA_DIR", "./data"),
		UsersCollection: getEnv("USERS_COLLECTION", "users"),

		RequestTimeout: getDuration("REQUEST_TIMEOUT", 10*time.Second),
		AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

// Validate reports settings that the selected auth mode or store backend cannot run without.
func (c *Config) Validate() error {
	switch c.AuthMode {
	case AuthModeFirebase, AuthModeDev:
	case AuthModeJWT:
		if c.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_MODE=%s", AuthModeJWT)
		}
	default:
		return fmt.Errorf("unknown AUTH_MODE %q", c.AuthMode)
	}

	switch c.StoreBackend {
	case StoreFirestore, StoreFile:
	case StoreMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_BACKEND=%s", StoreMongo)
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}

	if c.UsersCollection == "" {
		return fmt.Errorf("USERS_COLLECTION must not be empty")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

// NeedsFirebase is true when either auth or storage talks to Firebase.
func (c *Config) NeedsFirebase() bool {
	return c.AuthMode == AuthModeFirebase || c.StoreBackend == StoreFirestore
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil {
		return defaultValue
	}
	return d
}

func getList(key string, defaultValue []string) []string {
	raw, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
