// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package morpho

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-redis/redis/v8"
)

// RedisCache stores analysis results in redis with a sliding TTL.
type RedisCache struct {
	conf        *CacheConf
	redisClient *redis.Client
}

func (rc *RedisCache) createCacheID(word string) string {
	return fmt.Sprintf("namegen:ma:%s", word)
}

func (rc *RedisCache) ttl() time.Duration {
	return time.Duration(rc.conf.TTLSecs) * time.Second
}

func (rc *RedisCache) Get(ctx context.Context, word string) (WordInfo, error) {
	cacheID := rc.createCacheID(word)
	val, err := rc.redisClient.Get(ctx, cacheID).Result()
	if err == redis.Nil {
		return WordInfo{}, ErrCacheMiss

	} else if err != nil {
		return WordInfo{}, err
	}
	if _, err := rc.redisClient.Expire(ctx, cacheID, rc.ttl()).Result(); err != nil {
		return WordInfo{}, err
	}
	var ans WordInfo
	if err := sonic.Unmarshal([]byte(val), &ans); err != nil {
		return WordInfo{}, err
	}
	return ans, nil
}

func (rc *RedisCache) Set(ctx context.Context, word string, info WordInfo) error {
	rawData, err := sonic.Marshal(info)
	if err != nil {
		return err
	}
	return rc.redisClient.Set(ctx, rc.createCacheID(word), rawData, rc.ttl()).Err()
}

func NewRedisCache(conf *CacheConf) *RedisCache {
	return &RedisCache{
		conf: conf,
		redisClient: redis.NewClient(&redis.Options{
			Addr: conf.RedisAddr,
			DB:   conf.RedisDB,
		}),
	}
}
