// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package morpho

import (
	"context"
	"errors"
	"fmt"
)

var ErrCacheMiss = errors.New("cache miss")

// CacheConf configures the analysis cache. Exactly one backend is
// selected: fileRootPath → file cache, redisAddr → redis cache,
// neither → no caching.
type CacheConf struct {
	FileRootPath string `json:"fileRootPath"`
	RedisAddr    string `json:"redisAddr"`
	RedisDB      int    `json:"redisDb"`
	TTLSecs      int    `json:"ttlSecs"`
}

func (conf *CacheConf) Validate(context string) error {
	if conf.FileRootPath != "" && conf.RedisAddr != "" {
		return fmt.Errorf("%s: fileRootPath and redisAddr are mutually exclusive", context)
	}
	if (conf.FileRootPath != "" || conf.RedisAddr != "") && conf.TTLSecs <= 0 {
		return fmt.Errorf("%s.ttlSecs must be a positive integer", context)
	}
	return nil
}

// Cache stores per-word analysis results between runs. Implementations
// signal an absent entry with ErrCacheMiss.
type Cache interface {
	Get(ctx context.Context, word string) (WordInfo, error)
	Set(ctx context.Context, word string, info WordInfo) error
}

// NullCache misses always and stores nothing.
type NullCache struct{}

func (NullCache) Get(ctx context.Context, word string) (WordInfo, error) {
	return WordInfo{}, ErrCacheMiss
}

func (NullCache) Set(ctx context.Context, word string, info WordInfo) error {
	return nil
}

func NewNullCache() NullCache {
	return NullCache{}
}
