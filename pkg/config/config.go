package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"carrental/pkg/client"
	kafkaconfig "carrental/pkg/kafka/config"
	"carrental/pkg/logger"

	"github.com/joho/godotenv"
)

// DriverDefaults describes the driver attached to with-driver bookings when
// no other driver is chosen. The record is created on first use.
type DriverDefaults struct {
	Name          string
	Email         string
	Phone         string
	LicenseNumber string
}

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration
	MongoOpTimeout    time.Duration

	Port string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout     time.Duration
	IdempotencyTTL     time.Duration
	IdempotencyBackend string
	MaxRequestSize     int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CarCacheTTL   time.Duration

	RazorpayKeyID  string
	RazorpaySecret string

	JWTSecret string
	JWTTTL    time.Duration

	VehicleLockTTL  time.Duration
	VehicleLockWait time.Duration
	DefaultDriver   DriverDefaults

	AdminEmail    string
	AdminPassword string

	KafkaEnabled bool
	Kafka        *kafkaconfig.Config

	Log    *logger.Logger
	Client *client.Client
}

// Load reads an optional .env file, then the environment. Invalid
// configuration is fatal.
func Load(serviceName string) *Config {
	_ = godotenv.Load()

	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),
		MongoOpTimeout:    getEnvDuration(EnvMongoOpTimeout, DefaultMongoOpTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout:     getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL:     getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		IdempotencyBackend: getEnvStr(EnvIdempotencyBackend, DefaultIdempotencyBackend),
		MaxRequestSize:     getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		RedisAddr:     getEnvStr(EnvRedisAddr, DefaultRedisAddr),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),
		CarCacheTTL:   getEnvDuration(EnvCarCacheTTL, DefaultCarCacheTTL),

		RazorpayKeyID:  getEnvStr(EnvRazorpayKeyID, ""),
		RazorpaySecret: getEnvStr(EnvRazorpaySecret, ""),

		JWTSecret: getEnvStr(EnvJWTSecret, DefaultJWTSecret),
		JWTTTL:    getEnvDuration(EnvJWTTTL, DefaultJWTTTL),

		VehicleLockTTL:  getEnvDuration(EnvVehicleLockTTL, DefaultVehicleLockTTL),
		VehicleLockWait: getEnvDuration(EnvVehicleLockWait, DefaultVehicleLockWait),
		DefaultDriver: DriverDefaults{
			Name:          getEnvStr(EnvDefaultDriverName, DefaultDriverName),
			Email:         getEnvStr(EnvDefaultDriverEmail, DefaultDriverEmail),
			Phone:         getEnvStr(EnvDefaultDriverPhone, DefaultDriverPhone),
			LicenseNumber: getEnvStr(EnvDefaultDriverLicense, DefaultDriverLicense),
		},

		AdminEmail:    getEnvStr(EnvAdminEmail, ""),
		AdminPassword: getEnvStr(EnvAdminPassword, ""),

		KafkaEnabled: getEnvBool(EnvKafkaEnabled, true),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    getEnvStr(EnvLogFormat, DefaultLogFormat),
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if cfg.KafkaEnabled {
		kcfg, err := kafkaconfig.Load()
		if err != nil {
			cfg.Log.Fatal(err.Error())
		}
		cfg.Kafka = kcfg
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

// SetRedis connects the optional Redis client. A failed ping leaves it unset
// and callers fall back to their in-process or Mongo paths.
func (cfg *Config) SetRedis() {
	cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	positive := []struct {
		name  string
		value time.Duration
	}{
		{"MongoConnTimeout", cfg.MongoConnTimeout},
		{"MongoOpTimeout", cfg.MongoOpTimeout},
		{"RateLimitWindow", cfg.RateLimitWindow},
		{"RequestTimeout", cfg.RequestTimeout},
		{"IdempotencyTTL", cfg.IdempotencyTTL},
		{"ReadTimeout", cfg.ReadTimeout},
		{"WriteTimeout", cfg.WriteTimeout},
		{"IdleTimeout", cfg.IdleTimeout},
		{"ShutdownTimeout", cfg.ShutdownTimeout},
		{"CarCacheTTL", cfg.CarCacheTTL},
		{"JWTTTL", cfg.JWTTTL},
		{"VehicleLockTTL", cfg.VehicleLockTTL},
		{"VehicleLockWait", cfg.VehicleLockWait},
	}
	for _, p := range positive {
		if p.value <= 0 {
			errors = append(errors, fmt.Sprintf("%s must be positive, got: %s", p.name, p.value))
		}
	}

	if cfg.VehicleLockWait >= cfg.RequestTimeout {
		errors = append(errors, fmt.Sprintf("VehicleLockWait must be shorter than RequestTimeout, got: %s >= %s", cfg.VehicleLockWait, cfg.RequestTimeout))
	}

	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}
	if cfg.IdempotencyBackend != IdempotencyBackendMemory && cfg.IdempotencyBackend != IdempotencyBackendRedis {
		errors = append(errors, fmt.Sprintf("IdempotencyBackend must be %q or %q, got: %s", IdempotencyBackendMemory, IdempotencyBackendRedis, cfg.IdempotencyBackend))
	}
	if len(cfg.JWTSecret) < 16 {
		errors = append(errors, "JWTSecret must be at least 16 characters")
	}
	if (cfg.RazorpayKeyID == "") != (cfg.RazorpaySecret == "") {
		errors = append(errors, "RazorpayKeyID and RazorpaySecret must be set together")
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		errors = append(errors, "AdminEmail and AdminPassword must be set together")
	}
	if cfg.DefaultDriver.Email == "" || cfg.DefaultDriver.Name == "" {
		errors = append(errors, "DefaultDriver name and email cannot be empty")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"mongo_op_timeout", cfg.MongoOpTimeout,
		"port", cfg.Port,
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"idempotency_backend", cfg.IdempotencyBackend,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"redis_addr", cfg.RedisAddr,
		"car_cache_ttl", cfg.CarCacheTTL,
		"razorpay_key_id", redactKey(cfg.RazorpayKeyID),
		"razorpay_secret_set", cfg.RazorpaySecret != "",
		"jwt_secret_set", cfg.JWTSecret != DefaultJWTSecret,
		"jwt_ttl", cfg.JWTTTL,
		"vehicle_lock_ttl", cfg.VehicleLockTTL,
		"vehicle_lock_wait", cfg.VehicleLockWait,
		"default_driver_email", cfg.DefaultDriver.Email,
		"admin_bootstrap", cfg.AdminEmail != "",
		"kafka_enabled", cfg.KafkaEnabled,
	)
	if cfg.Kafka != nil {
		cfg.Kafka.LogConfiguration(cfg.Log.Info)
	}
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func redactKey(key string) string {
	if len(key) <= 12 {
		return key
	}
	return key[:12] + "..."
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown(cfg.Log, cfg.ShutdownTimeout)
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = DefaultPageSize
	} else if limit > DefaultPaginationLimit {
		limit = DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
