package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// envPrefix is prepended to every variable: MEDID_ADDR, MEDID_DATABASE_URL, ...
const envPrefix = "medid"

// Server captures process-level configuration.
type Server struct {
	Addr     string `envconfig:"ADDR"      default:":8080"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Embedded so their variables are not prefixed with the group name.
	Storage
	Auth
	Redis
	Documents
	Audit
	RateLimit
}

// Storage selects the relational store.
type Storage struct {
	Driver         string        `envconfig:"STORAGE_DRIVER"  default:"memory"`
	DatabaseURL    string        `envconfig:"DATABASE_URL"`
	DatabaseDriver string        `envconfig:"DATABASE_DRIVER" default:"pgx"`
	StoreTimeout   time.Duration `envconfig:"STORE_TIMEOUT"   default:"5s"`
}

// Auth configures token issuance, secret hashing and token revocation.
type Auth struct {
	JWTSigningKey     string        `envconfig:"JWT_SIGNING_KEY"`
	JWTIssuer         string        `envconfig:"JWT_ISSUER"         default:"medid"`
	JWTAudience       string        `envconfig:"JWT_AUDIENCE"       default:"medid-api"`
	TokenTTL          time.Duration `envconfig:"TOKEN_TTL"          default:"2h"`
	BcryptCost        int           `envconfig:"BCRYPT_COST"        default:"10"`
	RevocationBackend string        `envconfig:"REVOCATION_BACKEND" default:"memory"`
}

// Redis configures the client shared by token revocation and rate limiting.
type Redis struct {
	URL          string        `envconfig:"REDIS_URL"`
	PoolSize     int           `envconfig:"REDIS_POOL_SIZE"      default:"10"`
	MinIdleConns int           `envconfig:"REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"REDIS_DIAL_TIMEOUT"   default:"5s"`
	ReadTimeout  time.Duration `envconfig:"REDIS_READ_TIMEOUT"   default:"3s"`
	WriteTimeout time.Duration `envconfig:"REDIS_WRITE_TIMEOUT"  default:"3s"`
}

// Documents selects the document store and bounds uploads.
type Documents struct {
	Backend           string        `envconfig:"DOCUMENT_BACKEND"     default:"memory"`
	BaseURL           string        `envconfig:"DOCUMENT_BASE_URL"    default:"memory://documents"`
	GCSBucket         string        `envconfig:"GCS_BUCKET"`
	GCSCredentials    string        `envconfig:"GCS_CREDENTIALS_FILE"`
	UploadTimeout     time.Duration `envconfig:"UPLOAD_TIMEOUT"       default:"15s"`
	MaxSize           int64         `envconfig:"DOCUMENT_MAX_BYTES"   default:"10485760"`
	ReconcileInterval time.Duration `envconfig:"RECONCILE_INTERVAL"   default:"1m"`
}

// Audit configures where audit events go. An empty broker list keeps
// events in the structured log.
type Audit struct {
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	Topic        string   `envconfig:"AUDIT_TOPIC"  default:"medid.audit"`
	BufferSize   int      `envconfig:"AUDIT_BUFFER" default:"1024"`
}

// RateLimit bounds public request rates and failed logins. Public budgets
// are shared through Redis when MEDID_REDIS_URL is set; lockouts live in
// PostgreSQL when storage does.
type RateLimit struct {
	Disabled          bool          `envconfig:"RATE_LIMIT_DISABLED"`
	PublicRequests    int           `envconfig:"PUBLIC_RATE_LIMIT"   default:"60"`
	PublicWindow      time.Duration `envconfig:"PUBLIC_RATE_WINDOW"  default:"1m"`
	LoginMaxAttempts  int           `envconfig:"LOGIN_MAX_ATTEMPTS"  default:"5"`
	LoginWindow       time.Duration `envconfig:"LOGIN_WINDOW"        default:"15m"`
	LoginLockDuration time.Duration `envconfig:"LOGIN_LOCK_DURATION" default:"15m"`
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return Server{}, fmt.Errorf("error processing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate rejects combinations that cannot start.
func (c Server) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Storage.DatabaseURL == "" {
			return fmt.Errorf("MEDID_DATABASE_URL is required when MEDID_STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	switch c.Auth.RevocationBackend {
	case "memory":
	case "redis":
		if c.Redis.URL == "" {
			return fmt.Errorf("MEDID_REDIS_URL is required when MEDID_REVOCATION_BACKEND=redis")
		}
	case "postgres":
		if c.Storage.Driver != "postgres" {
			return fmt.Errorf("postgres revocation backend requires postgres storage")
		}
	default:
		return fmt.Errorf("unknown revocation backend %q", c.Auth.RevocationBackend)
	}

	switch c.Documents.Backend {
	case "memory":
	case "gcs":
		if c.Documents.GCSBucket == "" {
			return fmt.Errorf("MEDID_GCS_BUCKET is required when MEDID_DOCUMENT_BACKEND=gcs")
		}
	default:
		return fmt.Errorf("unknown document backend %q", c.Documents.Backend)
	}

	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("token ttl must be positive")
	}
	return nil
}

// KafkaEnabled reports whether audit events should be streamed to Kafka.
func (c Audit) KafkaEnabled() bool {
	for _, b := range c.KafkaBrokers {
		if strings.TrimSpace(b) != "" {
			return true
		}
	}
	return false
}
