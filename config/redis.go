package config

import (
	"Playroom/services/redis"
	"os"

	"github.com/sirupsen/logrus"
)

// Connect_redis connects to REDIS_URL, or to the local default when unset
func Connect_redis() (*redis.RedisClient, error) {
	redisUri := os.Getenv("REDIS_URL")
	if redisUri == "" {
		redisUri = "localhost:6379"
	}
	redisClient, err := redis.InitRedis(redisUri, 0)
	if err != nil {
		logrus.WithError(err).Error("[REDIS] error connecting")
		return nil, err
	}
	logrus.Info("[REDIS] connection established")
	return redisClient, nil
}
