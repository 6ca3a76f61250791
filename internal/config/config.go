package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Analysis AnalysisConfig `yaml:"analysis"`
	Protocol ProtocolConfig `yaml:"protocol"`
	Document DocumentConfig `yaml:"document"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	Migrate         bool          `yaml:"migrate"            env:"DATABASE_MIGRATE"            env-default:"false"`
}

// AuthConfig holds the capability checks performed at the transport boundary:
// a shared secret for the intake collaborator and a JWT secret for the admin
// surface. Authentication screens themselves live outside this service.
type AuthConfig struct {
	IntakeSharedSecret string        `yaml:"intake_shared_secret" env:"AUTH_INTAKE_SHARED_SECRET" env-required:"true"`
	JWTSecret          string        `yaml:"jwt_secret"           env:"AUTH_JWT_SECRET"           env-required:"true"`
	JWTIssuer          string        `yaml:"jwt_issuer"           env:"AUTH_JWT_ISSUER"           env-default:"occurrence-backend"`
	AccessTokenTTL     time.Duration `yaml:"access_token_ttl"     env:"AUTH_ACCESS_TOKEN_TTL"     env-default:"12h"`
}

// AnalysisConfig holds settings for the external AI analysis webhook.
type AnalysisConfig struct {
	WebhookURL string        `yaml:"webhook_url" env:"ANALYSIS_WEBHOOK_URL" env-required:"true"`
	Timeout    time.Duration `yaml:"timeout"     env:"ANALYSIS_TIMEOUT"     env-default:"30s"`
}

// ProtocolConfig holds protocol numbering settings.
type ProtocolConfig struct {
	Prefix string `yaml:"prefix" env:"PROTOCOL_PREFIX" env-default:"IMAGO"`
}

// DocumentConfig holds document storage settings.
type DocumentConfig struct {
	// Driver selects the blob backend: "fs", "s3", or "memory".
	Driver string `yaml:"driver" env:"DOCUMENT_DRIVER" env-default:"fs"`

	// BaseURL is the public prefix under which stored documents are served.
	BaseURL string `yaml:"base_url" env:"DOCUMENT_BASE_URL" env-default:"/api/v1/documents"`

	// FSRoot is the directory used by the fs driver.
	FSRoot string `yaml:"fs_root" env:"DOCUMENT_FS_ROOT" env-default:"./data/documents"`

	S3 S3Config `yaml:"s3"`
}

// S3Config holds settings for the S3-compatible document backend.
type S3Config struct {
	Bucket         string `yaml:"bucket"           env:"DOCUMENT_S3_BUCKET"`
	Region         string `yaml:"region"           env:"DOCUMENT_S3_REGION"           env-default:"us-east-1"`
	Endpoint       string `yaml:"endpoint"         env:"DOCUMENT_S3_ENDPOINT"`
	AccessKey      string `yaml:"access_key"       env:"DOCUMENT_S3_ACCESS_KEY"`
	SecretKey      string `yaml:"secret_key"       env:"DOCUMENT_S3_SECRET_KEY"`
	ForcePathStyle bool   `yaml:"force_path_style" env:"DOCUMENT_S3_FORCE_PATH_STYLE" env-default:"true"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Shared-Secret"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}
