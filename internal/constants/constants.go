package constants

import "time"

var GenerationConfig = struct {
	MaxRetries   int
	MinNameWords int
	MaxNameWords int
}{
	MaxRetries:   2, // total attempts = retries + 1
	MinNameWords: 2,
	MaxNameWords: 3,
}

var SafetyConfig = struct {
	MaxAttempts int
}{
	MaxAttempts: 3,
}

var BackoffConfig = struct {
	MaxAttempts int
	BaseDelay   time.Duration
}{
	MaxAttempts: 3,
	BaseDelay:   1 * time.Second, // doubles per attempt: 1s, 2s, 4s
}

var CircuitBreakerConfig = struct {
	FailureThreshold    int
	ResetTimeout        time.Duration
	RateLimitTimeout    time.Duration
	HealthCheckInterval time.Duration
	HealthCheckTimeout  time.Duration
}{
	FailureThreshold:    3,
	ResetTimeout:        30 * time.Second,
	RateLimitTimeout:    1 * time.Hour, // separate timeout for 429s
	HealthCheckInterval: 10 * time.Minute,
	HealthCheckTimeout:  10 * time.Second,
}

var CacheTTL = struct {
	Embedding time.Duration
}{
	Embedding: 24 * time.Hour, // embeddings are pure functions of the input text
}

var RedisConfig = struct {
	ReadyTimeout time.Duration
}{
	ReadyTimeout: 5 * time.Second,
}

var InputLimits = struct {
	MaxFirstNameLength int
}{
	MaxFirstNameLength: 100,
}

var ServerConfig = struct {
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}{
	ReadTimeout:     10 * time.Second,
	WriteTimeout:    60 * time.Second,
	IdleTimeout:     120 * time.Second,
	RequestTimeout:  90 * time.Second, // covers generation plus safety retries
	ShutdownTimeout: 10 * time.Second,
}

var WebSocketConfig = struct {
	ReadDeadline   time.Duration
	WriteDeadline  time.Duration
	MaxMessageSize int64
}{
	ReadDeadline:   5 * time.Minute,
	WriteDeadline:  10 * time.Second,
	MaxMessageSize: 4096,
}
