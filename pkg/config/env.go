package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"
	EnvMongoOpTimeout    = "MONGO_OP_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout     = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL     = "IDEMPOTENCY_TTL"
	EnvIdempotencyBackend = "IDEMPOTENCY_BACKEND"
	EnvMaxRequestSize     = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvRedisAddr     = "REDIS_ADDR"
	EnvRedisPassword = "REDIS_PASSWORD"
	EnvRedisDB       = "REDIS_DB"
	EnvCarCacheTTL   = "CAR_CACHE_TTL"

	EnvRazorpayKeyID  = "RAZORPAY_KEY_ID"
	EnvRazorpaySecret = "RAZORPAY_KEY_SECRET"

	EnvJWTSecret = "JWT_SECRET"
	EnvJWTTTL    = "JWT_TTL"

	EnvVehicleLockTTL  = "VEHICLE_LOCK_TTL"
	EnvVehicleLockWait = "VEHICLE_LOCK_WAIT"

	EnvDefaultDriverName    = "DEFAULT_DRIVER_NAME"
	EnvDefaultDriverEmail   = "DEFAULT_DRIVER_EMAIL"
	EnvDefaultDriverPhone   = "DEFAULT_DRIVER_PHONE"
	EnvDefaultDriverLicense = "DEFAULT_DRIVER_LICENSE"

	EnvAdminEmail    = "ADMIN_EMAIL"
	EnvAdminPassword = "ADMIN_PASSWORD"

	EnvKafkaEnabled = "KAFKA_ENABLED"
)
