package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvSessionTTL         = "SESSION_TTL"
	EnvAdminPassword      = "ADMIN_PASSWORD"
	EnvUserPassword       = "USER_PASSWORD"
	EnvSessionCookieName  = "SESSION_COOKIE_NAME"
	EnvSecureCookies      = "SECURE_COOKIES"
	EnvEventBufferSize    = "EVENT_BUFFER_SIZE"
	EnvEventHeartbeat     = "EVENT_HEARTBEAT"
	EnvChangeLogHardLimit = "CHANGE_LOG_HARD_LIMIT"

	EnvKafkaBrokers      = "KAFKA_BROKERS"
	EnvKafkaChangesTopic = "KAFKA_CHANGES_TOPIC"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
)
