package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "car_rental"
	DefaultMongoConnTimeout  = 10 * time.Second
	DefaultMongoOpTimeout    = 5 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout     = 30 * time.Second
	DefaultIdempotencyTTL     = 24 * time.Hour
	DefaultIdempotencyBackend = IdempotencyBackendMemory
	DefaultMaxRequestSize     = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultRedisAddr   = "localhost:6379"
	DefaultRedisDB     = 0
	DefaultCarCacheTTL = 5 * time.Minute

	DefaultJWTSecret = "dev-only-secret-change-me-please"
	DefaultJWTTTL    = 24 * time.Hour

	DefaultVehicleLockTTL  = 30 * time.Second
	DefaultVehicleLockWait = 5 * time.Second

	DefaultDriverName    = "Mike Johnson"
	DefaultDriverEmail   = "mike.johnson@example.com"
	DefaultDriverPhone   = "+91 6381014350"
	DefaultDriverLicense = "DL1420110012345"

	DefaultPaginationLimit = 100
	DefaultPageSize        = 20

	IdempotencyBackendMemory = "memory"
	IdempotencyBackendRedis  = "redis"
)
