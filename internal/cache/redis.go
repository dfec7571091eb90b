package cache

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"

	"draftline/internal/observability"
)

var client *redis.Client

// metricsHook counts Redis command failures so degraded cache availability shows up in metrics.
type metricsHook struct{}

func (metricsHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			observability.RedisErrorRate.Inc()
		}
		return conn, err
	}
}

func (metricsHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		err := next(ctx, cmd)
		if err != nil && err != redis.Nil {
			observability.RedisErrorRate.Inc()
		}
		return err
	}
}

func (metricsHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		err := next(ctx, cmds)
		if err != nil {
			observability.RedisErrorRate.Inc()
		}
		return err
	}
}

// InitRedis connects to Redis using the given URL and verifies the connection.
func InitRedis(redisURL string) error {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return fmt.Errorf("invalid redis url: %w", err)
	}

	c := redis.NewClient(opts)
	c.AddHook(metricsHook{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}

	client = c
	return nil
}

// SetClient replaces the global client. Intended for tests.
func SetClient(c *redis.Client) {
	client = c
}

// GetClient returns the global Redis client, or nil if InitRedis has not run.
func GetClient() *redis.Client {
	return client
}

// Close shuts down the Redis connection.
func Close() error {
	if client == nil {
		return nil
	}
	err := client.Close()
	client = nil
	return err
}

// analysisReuseWindow bounds how long a stored analysis is considered fresh
// enough to reuse without re-running the provider.
const analysisReuseWindow = time.Hour

func analysisKey(documentID string) string {
	return "analysis:fresh:" + documentID
}

// MarkAnalysisFresh records that documentID was analyzed just now.
func MarkAnalysisFresh(ctx context.Context, documentID string) {
	if client == nil {
		return
	}
	client.Set(ctx, analysisKey(documentID), time.Now().UTC().Format(time.RFC3339), analysisReuseWindow)
}

// AnalysisFresh reports whether documentID has an analysis inside the reuse window.
func AnalysisFresh(ctx context.Context, documentID string) bool {
	if client == nil {
		return false
	}
	_, err := client.Get(ctx, analysisKey(documentID)).Result()
	return err == nil
}

// InvalidateAnalysis drops the freshness marker, forcing the next analyze to hit the provider.
func InvalidateAnalysis(ctx context.Context, documentID string) {
	if client == nil {
		return
	}
	client.Del(ctx, analysisKey(documentID))
}

// BlacklistToken stores a revoked JWT ID until the token's natural expiry.
func BlacklistToken(ctx context.Context, jti string, ttl time.Duration) error {
	if client == nil {
		return fmt.Errorf("redis not initialized")
	}
	return client.Set(ctx, "blacklist:"+jti, "1", ttl).Err()
}

// TokenBlacklisted reports whether a JWT ID has been revoked.
func TokenBlacklisted(ctx context.Context, jti string) bool {
	if client == nil {
		return false
	}
	_, err := client.Get(ctx, "blacklist:"+jti).Result()
	return err == nil
}
