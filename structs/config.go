package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Cache     *CacheConfig
	Storage   *StorageConfig
	Camera    *CameraConfig
	RateLimit *RateLimitConfig
}

type ServerConfig struct {
	AppName         string        // Lager
	Environment     string        // development, production
	Port            string        // :8082
	ReadTimeout     time.Duration // in seconds
	WriteTimeout    time.Duration // in seconds
	IdleTimeout     time.Duration // in seconds
	ShutdownTimeout time.Duration
	MaxHeaderBytes  int // in bytes
	MaxBodyBytes    int64
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// DatabaseConfig holds either a full URL or the individual connection fields.
type DatabaseConfig struct {
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	Driver       string // pgx, pgdriver
	MaxConns     int
	MaxIdleConns int
	MaxLifetime  time.Duration
	MaxIdleTime  time.Duration
	QueryTimeout time.Duration
	SlowQuery    time.Duration
}

type CacheConfig struct {
	Enabled      bool
	Address      string
	Username     string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	MaxRetries   int
	ProductTTL   time.Duration
}

type StorageConfig struct {
	Disk        string // local, s3
	LocalRoot   string // static
	URL         string // public prefix for local files
	BarcodeDir  string // barcodes
	PhotoDir    string // product_img
	S3Bucket    string
	S3Region    string
	S3Key       string
	S3Secret    string
	S3Endpoint  string
	S3PublicURL string
}

type CameraConfig struct {
	Enabled      bool
	Device       string
	InputFormat  string // v4l2, avfoundation, dshow
	FFmpegPath   string
	Width        int
	Height       int
	WarmupFrames int
	ScanTimeout  time.Duration // zero means wait until cancelled
}

type RateLimitConfig struct {
	Enabled     bool
	CameraLimit int
	Window      time.Duration
}
