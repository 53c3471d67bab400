package config

import (
	lobby_constants "Playroom/constants/lobby"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Settings collects the environment driven knobs of the server and the client CLI.
// Connection strings for Postgres and Redis stay in ConnectGORM and Connect_redis.
type Settings struct {
	Port            string
	UseHTTPS        bool
	Prod            bool
	MigratePostgres bool
	CertFile        string
	KeyFile         string

	SessionKey string
	JWTSecret  string
	TokenTTL   time.Duration

	StaleAfter      time.Duration
	CleanupInterval time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	APIBaseURL     string
	CachePath      string
	RequestTimeout time.Duration

	LogLevel logrus.Level
}

// LoadSettings reads Settings from the environment. Call godotenv.Load first to
// pick up a .env file.
func LoadSettings() (*Settings, error) {
	s := &Settings{
		Port:            os.Getenv("PORT"),
		UseHTTPS:        os.Getenv("USE_HTTPS") == "true",
		Prod:            os.Getenv("PROD") == "true",
		MigratePostgres: os.Getenv("MIGRATE_POSTGRES") == "true",
		CertFile:        os.Getenv("TLS_CERT_FILE"),
		KeyFile:         os.Getenv("TLS_KEY_FILE"),
		SessionKey:      os.Getenv("KEY"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		KafkaTopic:      envOr("KAFKA_TOPIC", "playroom.rooms"),
		APIBaseURL:      envOr("PLAYROOM_API_URL", "http://localhost:8080"),
		CachePath:       os.Getenv("PLAYROOM_CACHE_PATH"),
		LogLevel:        logrus.InfoLevel,
	}
	if s.Port == "" {
		s.Port = "8080"
		if s.UseHTTPS {
			s.Port = "443"
		}
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				s.KafkaBrokers = append(s.KafkaBrokers, b)
			}
		}
	}

	var err error
	if s.TokenTTL, err = durationEnv("TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if s.StaleAfter, err = durationEnv("STALE_ROOM_AFTER", lobby_constants.STALE_ROOM_AFTER); err != nil {
		return nil, err
	}
	if s.CleanupInterval, err = durationEnv("CLEANUP_INTERVAL", lobby_constants.CLEANUP_INTERVAL); err != nil {
		return nil, err
	}
	if s.RequestTimeout, err = durationEnv("REQUEST_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		if s.LogLevel, err = logrus.ParseLevel(lvl); err != nil {
			return nil, fmt.Errorf("LOG_LEVEL: %w", err)
		}
	}
	return s, nil
}

// RequireSecrets fails when the server would run with empty signing keys
func (s *Settings) RequireSecrets() error {
	if s.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if s.SessionKey == "" {
		return fmt.Errorf("KEY must be set")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, v)
	}
	return d, nil
}
