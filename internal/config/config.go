package config

import (
	"os"      // For environment variables
	"strconv" // For string to number conversion
	"time"    // For token lifetimes

	"github.com/joho/godotenv" // For loading .env files
)

// Default values used when the environment leaves a setting empty or malformed
const (
	DefaultAppPort         = "8000"
	DefaultDBDriver        = "mysql"
	DefaultSQLitePath      = "condominium.db"
	DefaultAccessTokenTTL  = 60 * time.Minute
	DefaultRefreshTokenTTL = 24 * time.Hour
	DefaultFaceTolerance   = 0.6
	DefaultS3Region        = "us-east-1"
	DefaultMaxImageBytes   = 10 << 20
)

// Config holds the application configuration
type Config struct {
	AppPort         string        // Application port
	DBDriver        string        // Database driver: mysql or sqlite
	DBUser          string        // Database user
	DBPassword      string        // Database password
	DBHost          string        // Database host
	DBPort          string        // Database port
	DBName          string        // Database name
	SQLitePath      string        // SQLite file used when DBDriver is sqlite
	JWTSecret       string        // JWT secret key
	AccessTokenTTL  time.Duration // Lifetime of access tokens
	RefreshTokenTTL time.Duration // Lifetime of refresh tokens
	RedisAddr       string        // Redis server address, empty disables caching
	RedisPass       string        // Redis password
	RedisDB         int           // Redis database number
	IsProd          bool          // Is production environment
	LogLevel        string        // Logrus level name
	FaceModelsDir   string        // Directory holding the dlib model files
	FaceTolerance   float64       // Maximum descriptor distance accepted as a match
	ChromeRemoteURL string        // Remote Chrome DevTools endpoint for PDF rendering
	MaxImageBytes   int64         // Body size limit of the image upload routes
	Storage         StorageConfig // Object storage for captured images
}

// StorageConfig holds the S3-compatible object storage settings
type StorageConfig struct {
	Endpoint     string
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// Enabled reports whether enough settings are present to talk to a bucket
func (s StorageConfig) Enabled() bool {
	return s.Bucket != "" && s.AccessKey != "" && s.SecretKey != ""
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	_ = godotenv.Load() // Load .env file if present
	return &Config{
		AppPort:         getEnv("APP_PORT", DefaultAppPort),
		DBDriver:        getEnv("DB_DRIVER", DefaultDBDriver),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBHost:          os.Getenv("DB_HOST"),
		DBPort:          os.Getenv("DB_PORT"),
		DBName:          os.Getenv("DB_NAME"),
		SQLitePath:      getEnv("SQLITE_PATH", DefaultSQLitePath),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", DefaultAccessTokenTTL),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", DefaultRefreshTokenTTL),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPass:       os.Getenv("REDIS_PASS"),
		RedisDB:         getInt("REDIS_DB", 0),
		IsProd:          os.Getenv("IS_PROD") == "true",
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		FaceModelsDir:   getEnv("FACE_MODELS_DIR", "models"),
		FaceTolerance:   getFloat("FACE_TOLERANCE", DefaultFaceTolerance),
		ChromeRemoteURL: os.Getenv("CHROME_REMOTE_URL"),
		MaxImageBytes:   int64(getInt("MAX_IMAGE_BYTES", DefaultMaxImageBytes)),
		Storage: StorageConfig{
			Endpoint:     os.Getenv("S3_ENDPOINT"),
			Region:       getEnv("S3_REGION", DefaultS3Region),
			Bucket:       os.Getenv("S3_BUCKET"),
			AccessKey:    os.Getenv("S3_ACCESS_KEY"),
			SecretKey:    os.Getenv("S3_SECRET_KEY"),
			UsePathStyle: os.Getenv("S3_USE_PATH_STYLE") == "true",
		},
	}
}

// MySQLDSN builds the Data Source Name for the MySQL driver
func (c *Config) MySQLDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return v
}

func getFloat(key string, fallback float64) float64 {
	v, err := strconv.ParseFloat(os.Getenv(key), 64)
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
