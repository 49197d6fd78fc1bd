package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "orgboard"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultSessionTTL        = 24 * time.Hour
	DefaultSessionCookieName = "orgboard_sid"

	// Bootstrap credentials are only applied when the users collection is empty.
	DefaultAdminPassword = "Admin123"
	DefaultUserPassword  = "User123"

	DefaultEventBufferSize    = 64
	DefaultEventHeartbeat     = 25 * time.Second
	DefaultChangeLogHardLimit = 2000
	DefaultChangeLogLimit     = 200

	DefaultKafkaChangesTopic = "orgboard.changes"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
)
