package config

import (
	"errors"
	"fmt"
	"lager_server/structs"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

var ErrNoDatabaseConfig = errors.New("database not configured: set DATABASE_URL or DATABASE_HOST")

// GetConfig loads the configuration once per process.
func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = Load()
	})
	return configInstance
}

// Load reads the configuration from the environment.
func Load() *structs.Config {
	return &structs.Config{
		Server: &structs.ServerConfig{
			AppName:         getEnvAsString("APP_NAME", "Lager"),
			Environment:     getEnvAsString("APP_ENV", "development"),
			Port:            getEnvAsString("APP_PORT", ":8082"),
			ReadTimeout:     getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
			WriteTimeout:    getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 0),
			IdleTimeout:     getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
			ShutdownTimeout: getEnvAsTimeDuration("SERVER_SHUTDOWN_TIME_OUT", 10*time.Second),
			MaxHeaderBytes:  getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
			MaxBodyBytes:    int64(getEnvAsInt("SERVER_MAX_BODY_BYTES", 1<<20)),
		},
		Cors: &structs.CorsConfig{
			AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
			AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "OPTIONS"}),
			AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
			ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length", "Location"}),
			AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", false),
			MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
		},
		Database: &structs.DatabaseConfig{
			URL:          getEnvAsString("DATABASE_URL", ""),
			Host:         getEnvAsString("DATABASE_HOST", ""),
			Port:         getEnvAsInt("DATABASE_PORT", 5432),
			User:         getEnvAsString("DATABASE_USER", ""),
			Password:     getEnvAsString("DATABASE_PASSWORD", ""),
			Name:         getEnvAsString("DATABASE_NAME", ""),
			SSLMode:      getEnvAsString("DB_SSLMODE", "require"),
			Driver:       getEnvAsString("DB_DRIVER", "pgx"),
			MaxConns:     getEnvAsInt("DB_MAX_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
			MaxIdleTime:  getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
			QueryTimeout: getEnvAsTimeDuration("DB_QUERY_TIMEOUT", 5*time.Second),
			SlowQuery:    getEnvAsTimeDuration("DB_SLOW_QUERY", time.Second),
		},
		Cache: &structs.CacheConfig{
			Enabled:      getEnvAsBool("CACHE_ENABLED", false),
			Address:      getEnvAsString("REDIS_ADDRESS", "localhost:6379"),
			Username:     getEnvAsString("REDIS_USERNAME", ""),
			Password:     getEnvAsString("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 1),
			DialTimeout:  getEnvAsTimeDuration("REDIS_DIAL_TIMEOUT", 2*time.Second),
			ReadTimeout:  getEnvAsTimeDuration("REDIS_READ_TIMEOUT", time.Second),
			WriteTimeout: getEnvAsTimeDuration("REDIS_WRITE_TIMEOUT", time.Second),
			MaxRetries:   getEnvAsInt("REDIS_MAX_RETRIES", 2),
			ProductTTL:   getEnvAsTimeDuration("CACHE_PRODUCT_TTL", 5*time.Minute),
		},
		Storage: &structs.StorageConfig{
			Disk:        getEnvAsString("STORAGE_DISK", "local"),
			LocalRoot:   getEnvAsString("STORAGE_LOCAL_ROOT", "static"),
			URL:         getEnvAsString("STORAGE_URL", "/static"),
			BarcodeDir:  getEnvAsString("STORAGE_BARCODE_DIR", "barcodes"),
			PhotoDir:    getEnvAsString("STORAGE_PHOTO_DIR", "product_img"),
			S3Bucket:    getEnvAsString("S3_BUCKET", ""),
			S3Region:    getEnvAsString("S3_REGION", "eu-north-1"),
			S3Key:       getEnvAsString("S3_KEY", ""),
			S3Secret:    getEnvAsString("S3_SECRET", ""),
			S3Endpoint:  getEnvAsString("S3_ENDPOINT", ""),
			S3PublicURL: getEnvAsString("S3_URL", ""),
		},
		Camera: &structs.CameraConfig{
			Enabled:      getEnvAsString("ENABLE_CAMERA", "0") == "1",
			Device:       getEnvAsString("CAMERA_DEVICE", "/dev/video0"),
			InputFormat:  getEnvAsString("CAMERA_INPUT_FORMAT", "v4l2"),
			FFmpegPath:   getEnvAsString("CAMERA_FFMPEG_PATH", "ffmpeg"),
			Width:        getEnvAsInt("CAMERA_WIDTH", 640),
			Height:       getEnvAsInt("CAMERA_HEIGHT", 480),
			WarmupFrames: getEnvAsInt("CAMERA_WARMUP_FRAMES", 10),
			ScanTimeout:  getEnvAsTimeDuration("CAMERA_SCAN_TIMEOUT", 0),
		},
		RateLimit: &structs.RateLimitConfig{
			Enabled:     getEnvAsBool("RATE_LIMIT_ENABLED", false),
			CameraLimit: getEnvAsInt("RATE_LIMIT_CAMERA", 10),
			Window:      getEnvAsTimeDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}
}

// DatabaseDSN returns DATABASE_URL when set, otherwise a postgres URL built
// from the individual fields.
func DatabaseDSN(cfg *structs.DatabaseConfig) (string, error) {
	if cfg.URL != "" {
		return cfg.URL, nil
	}
	if cfg.Host == "" {
		return "", ErrNoDatabaseConfig
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:   "/" + cfg.Name,
	}
	if cfg.User != "" {
		u.User = url.UserPassword(cfg.User, cfg.Password)
	}
	q := url.Values{}
	q.Set("sslmode", cfg.SSLMode)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Validate reports configuration that cannot start the server.
func Validate(cfg *structs.Config) error {
	if _, err := DatabaseDSN(cfg.Database); err != nil {
		return err
	}
	switch cfg.Database.Driver {
	case "pgx", "pgdriver":
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", cfg.Database.Driver)
	}
	switch cfg.Storage.Disk {
	case "local":
	case "s3":
		if cfg.Storage.S3Bucket == "" {
			return errors.New("STORAGE_DISK=s3 requires S3_BUCKET")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DISK %q", cfg.Storage.Disk)
	}
	return nil
}

func GetLogLevel(cfg *structs.Config) string {
	if IsProduction(cfg) {
		return "info"
	}
	return "debug"
}

func IsProduction(cfg *structs.Config) bool {
	return cfg.Server.Environment == "production"
}
