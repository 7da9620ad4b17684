// Package redis opens the shared Redis connection, retrying with
// exponential backoff while the server comes up.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/harbor/internal/logger"
	"github.com/redis/go-redis/v9"
)

// ConnectOptions defines Redis connection retry behavior.
type ConnectOptions struct {
	Addr         string // Redis address (ex: "localhost:6379")
	User         string
	Password     string
	RedisDB      int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	PoolSize     int

	ConnectTimeout time.Duration // total time allowed for connection attempts (ex: 30s)
	RetryInterval  time.Duration // initial wait between retries, doubled each attempt
	MaxWait        time.Duration // cap on the wait between retries
	PingTimeout    time.Duration // timeout for each ping attempt
	WarnThreshold  int           // attempts logged at warn before switching to error
}

func (o ConnectOptions) validate() error {
	durations := []struct {
		name  string
		value time.Duration
	}{
		{"ConnectTimeout", o.ConnectTimeout},
		{"RetryInterval", o.RetryInterval},
		{"MaxWait", o.MaxWait},
		{"PingTimeout", o.PingTimeout},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be > 0, got %v", d.name, d.value)
		}
	}
	if o.WarnThreshold < 0 {
		return fmt.Errorf("WarnThreshold must be >= 0, got %d", o.WarnThreshold)
	}
	return nil
}

// Connector dials Redis and waits for it to answer.
type Connector struct {
	opts   ConnectOptions
	logger logger.Logger
}

// NewConnector validates opts.
func NewConnector(opts ConnectOptions, log logger.Logger) (*Connector, error) {
	if err := opts.validate(); err != nil {
		log.Error("invalid redis connect options", logger.Error(err))
		return nil, err
	}
	return &Connector{
		opts:   opts,
		logger: log.With(logger.String("addr", opts.Addr)),
	}, nil
}

// New creates a Redis client and blocks until it answers PING or
// ConnectTimeout elapses.
func New(ctx context.Context, opts ConnectOptions, log logger.Logger) (*redis.Client, error) {
	c, err := NewConnector(opts, log)
	if err != nil {
		return nil, err
	}
	return c.Connect(ctx)
}

// Connect keeps pinging with exponential backoff until Redis answers.
// The client is closed when the attempt fails.
func (c *Connector) Connect(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         c.opts.Addr,
		Username:     c.opts.User,
		Password:     c.opts.Password,
		DB:           c.opts.RedisDB,
		DialTimeout:  c.opts.DialTimeout,
		ReadTimeout:  c.opts.ReadTimeout,
		WriteTimeout: c.opts.WriteTimeout,
		PoolSize:     c.opts.PoolSize,
	})

	ctx, cancel := context.WithTimeout(ctx, c.opts.ConnectTimeout)
	defer cancel()

	c.logger.Info("connecting to redis", logger.Duration("timeout", c.opts.ConnectTimeout))
	start := time.Now()
	wait := c.opts.RetryInterval

	for attempt := 1; ; attempt++ {
		err := Ping(ctx, client, c.opts.PingTimeout)
		if err == nil {
			c.logConnected(attempt, time.Since(start))
			return client, nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			_ = client.Close()
			c.logger.Error("redis unavailable, giving up",
				logger.Int("attempts", attempt),
				logger.Duration("timeout", c.opts.ConnectTimeout),
				logger.Error(err))
			return nil, fmt.Errorf("redis unavailable at %s after %d attempts (timeout: %v): %w",
				c.opts.Addr, attempt, c.opts.ConnectTimeout, err)
		case <-timer.C:
			c.logRetry(ctx, attempt, wait, err)
			wait = backoff(wait, c.opts.MaxWait)
		}
	}
}

// Ping checks the connection within timeout.
func Ping(ctx context.Context, client *redis.Client, timeout time.Duration) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return client.Ping(pingCtx).Err()
}

func backoff(wait, maxWait time.Duration) time.Duration {
	wait *= 2
	if wait > maxWait {
		return maxWait
	}
	return wait
}

func (c *Connector) logConnected(attempts int, elapsed time.Duration) {
	if attempts > 1 {
		c.logger.Warn("connected to redis after retry",
			logger.Int("attempts", attempts),
			logger.Duration("elapsed", elapsed))
		return
	}
	c.logger.Info("connected to redis")
}

func (c *Connector) logRetry(ctx context.Context, attempt int, next time.Duration, err error) {
	fields := []logger.Field{
		logger.Int("attempt", attempt),
		logger.Duration("next_retry_in", next),
		logger.Error(err),
	}

	remaining := time.Duration(0)
	if deadline, ok := ctx.Deadline(); ok {
		remaining = time.Until(deadline)
	}

	switch {
	case remaining < 10*time.Second:
		c.logger.Error("redis still down, timeout approaching",
			append(fields, logger.Duration("remaining", remaining))...)
	case attempt <= c.opts.WarnThreshold:
		c.logger.Warn("redis connection failed, retrying", fields...)
	default:
		c.logger.Error("redis still unavailable", fields...)
	}
}
