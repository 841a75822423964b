package redisClient

import (
	"net"

	"github.com/go-redis/redis"
)

type RedisClient struct {
	Client *redis.Client
}

func NewRedis(redisClient *redis.Client) *RedisClient {
	return &RedisClient{Client: redisClient}
}

// Connect dials redis and pings it once so startup fails fast.
func Connect(host, port string) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort(host, port),
		DB:   0,
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedis(client), nil
}

func (r *RedisClient) Close() error {
	return r.Client.Close()
}
