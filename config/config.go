package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Document store backends.
const (
	DocumentStoreMongo     = "mongo"
	DocumentStoreFirestore = "firestore"
	DocumentStoreMemory    = "memory"
)

// Asset store backends.
const (
	AssetStoreDrive      = "drive"
	AssetStoreFirebase   = "firebase"
	AssetStoreCloudinary = "cloudinary"
	AssetStoreS3         = "s3"
)

// Config holds all configuration values.
type Config struct {
	AppPort            string        `mapstructure:"APP_PORT"`
	Env                string        `mapstructure:"ENV"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin  int           `mapstructure:"MAX_REQUESTS_PER_MIN"`
	RequestTimeout     time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	CORSAllowedOrigins string        `mapstructure:"CORS_ALLOWED_ORIGINS"`
	TrustedProxies     string        `mapstructure:"TRUSTED_PROXIES"`
	MaxUploadMB        int64         `mapstructure:"MAX_UPLOAD_MB"`

	// Document store.
	DocumentStore string `mapstructure:"DOCUMENT_STORE"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`

	// Firebase / Google credentials, shared by firestore, firebase storage, drive and FCM.
	FirebaseCredentials     string `mapstructure:"FIREBASE_CREDENTIALS"`
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
	FirebaseProjectID       string `mapstructure:"FIREBASE_PROJECT_ID"`
	FirebaseBucket          string `mapstructure:"FIREBASE_BUCKET"`
	FCMAdminTopic           string `mapstructure:"FCM_ADMIN_TOPIC"`

	// Asset store.
	AssetStore      string        `mapstructure:"ASSET_STORE"`
	DriveFolderID   string        `mapstructure:"DRIVE_FOLDER_ID"`
	CloudinaryURL   string        `mapstructure:"CLOUDINARY_URL"`
	S3Bucket        string        `mapstructure:"S3_BUCKET"`
	S3Region        string        `mapstructure:"S3_REGION"`
	S3Endpoint      string        `mapstructure:"S3_ENDPOINT"`
	S3AccessKeyID   string        `mapstructure:"S3_ACCESS_KEY_ID"`
	S3SecretKey     string        `mapstructure:"S3_SECRET_ACCESS_KEY"`
	S3PublicBaseURL string        `mapstructure:"S3_PUBLIC_BASE_URL"`
	DownloadLinkTTL time.Duration `mapstructure:"DOWNLOAD_LINK_TTL"`

	// Outbound mail.
	SMTPHost         string        `mapstructure:"SMTP_HOST"`
	SMTPPort         int           `mapstructure:"SMTP_PORT"`
	MailUsername     string        `mapstructure:"MAIL_USERNAME"`
	MailPassword     string        `mapstructure:"MAIL_PASSWORD"`
	MailFrom         string        `mapstructure:"MAIL_FROM"`
	AdminEmail       string        `mapstructure:"ADMIN_EMAIL"`
	MailTimeout      time.Duration `mapstructure:"MAIL_TIMEOUT"`
	ConsultationName string        `mapstructure:"CONSULTATION_NAME"`

	// Admin credentials. A bcrypt hash takes precedence over the plain password.
	AdminPassword     string `mapstructure:"ADMIN_PASSWORD"`
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`

	// Redis configuration. An empty address disables the product listing cache.
	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB    int           `mapstructure:"REDIS_CACHE_DB"`
	ProductCacheTTL time.Duration `mapstructure:"PRODUCT_CACHE_TTL"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	v.SetDefault("REQUEST_TIMEOUT", 15*time.Second)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("TRUSTED_PROXIES", "")
	v.SetDefault("MAX_UPLOAD_MB", 32)

	v.SetDefault("DOCUMENT_STORE", DocumentStoreMongo)
	v.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	v.SetDefault("DATABASE_NAME", "astrodesk")

	v.SetDefault("FIREBASE_CREDENTIALS", "")
	v.SetDefault("FIREBASE_CREDENTIALS_FILE", "serviceAccountKey.json")
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_BUCKET", "")
	v.SetDefault("FCM_ADMIN_TOPIC", "")

	v.SetDefault("ASSET_STORE", AssetStoreCloudinary)
	v.SetDefault("DRIVE_FOLDER_ID", "")
	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_REGION", "eu-central-1")
	v.SetDefault("S3_ENDPOINT", "")
	v.SetDefault("S3_ACCESS_KEY_ID", "")
	v.SetDefault("S3_SECRET_ACCESS_KEY", "")
	v.SetDefault("S3_PUBLIC_BASE_URL", "")
	v.SetDefault("DOWNLOAD_LINK_TTL", 7*24*time.Hour)

	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("MAIL_USERNAME", "")
	v.SetDefault("MAIL_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "")
	v.SetDefault("ADMIN_EMAIL", "")
	v.SetDefault("MAIL_TIMEOUT", 20*time.Second)
	v.SetDefault("CONSULTATION_NAME", "General Astrological Consultation")

	v.SetDefault("ADMIN_PASSWORD", "")
	v.SetDefault("ADMIN_PASSWORD_HASH", "")

	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_CACHE_DB", 0)
	v.SetDefault("PRODUCT_CACHE_TTL", 5*time.Minute)
}

// LoadConfig reads .env, an optional config.yaml and the environment, in that order of precedence
// (environment wins).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on the process environment")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: failed to decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects backend selections the server cannot build.
func (c *Config) Validate() error {
	c.DocumentStore = strings.ToLower(strings.TrimSpace(c.DocumentStore))
	c.AssetStore = strings.ToLower(strings.TrimSpace(c.AssetStore))

	switch c.DocumentStore {
	case DocumentStoreMongo, DocumentStoreFirestore, DocumentStoreMemory:
	default:
		return fmt.Errorf("config: unknown DOCUMENT_STORE %q", c.DocumentStore)
	}
	switch c.AssetStore {
	case AssetStoreDrive, AssetStoreFirebase, AssetStoreCloudinary, AssetStoreS3:
	default:
		return fmt.Errorf("config: unknown ASSET_STORE %q", c.AssetStore)
	}
	if c.DownloadLinkTTL <= 0 {
		return fmt.Errorf("config: DOWNLOAD_LINK_TTL must be positive")
	}
	return nil
}

// IsProduction checks if the environment is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// TrustedProxyList splits TRUSTED_PROXIES on commas. An empty list trusts no proxy, so
// forwarding headers are ignored and the peer address is the client.
func (c *Config) TrustedProxyList() []string {
	var out []string
	for _, p := range strings.Split(c.TrustedProxies, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
