// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package morpho

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
)

// CachedAnalyzer decorates an Analyzer with a word-level cache.
// Only the words missing from the cache reach the underlying
// analyzer; unknown words (empty analysis list) are cached too,
// so repeatedly failing words do not re-trigger subprocess calls.
type CachedAnalyzer struct {
	analyzer Analyzer
	cache    Cache
}

func (ca *CachedAnalyzer) Analyze(ctx context.Context, words []string) (map[string]WordInfo, error) {
	ans := make(map[string]WordInfo, len(words))
	missing := make([]string, 0, len(words))
	for _, w := range words {
		info, err := ca.cache.Get(ctx, w)
		if err == nil {
			ans[w] = info
			continue
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Warn().Err(err).Str("word", w).Msg("failed to read analysis cache")
		}
		missing = append(missing, w)
	}
	if len(missing) == 0 {
		return ans, nil
	}
	fresh, err := ca.analyzer.Analyze(ctx, missing)
	for w, info := range fresh {
		ans[w] = info
		if err == nil {
			if cacheErr := ca.cache.Set(ctx, w, info); cacheErr != nil {
				log.Warn().Err(cacheErr).Str("word", w).Msg("failed to write analysis cache")
			}
		}
	}
	return ans, err
}

func (ca *CachedAnalyzer) Derivations(ctx context.Context, lemma string) ([]DerivedWord, error) {
	return ca.analyzer.Derivations(ctx, lemma)
}

func NewCachedAnalyzer(analyzer Analyzer, cache Cache) *CachedAnalyzer {
	return &CachedAnalyzer{analyzer: analyzer, cache: cache}
}

// CacheFromConf instantiates the configured cache backend.
func CacheFromConf(conf *CacheConf) Cache {
	if conf.FileRootPath != "" {
		log.Info().Msgf("using file analysis cache (path: %s)", conf.FileRootPath)
		return NewFileCache(conf)

	} else if conf.RedisAddr != "" {
		log.Info().Msgf("using redis analysis cache (addr: %s, db: %d)", conf.RedisAddr, conf.RedisDB)
		return NewRedisCache(conf)
	}
	log.Info().Msg("using NULL analysis cache (no backend specified)")
	return NewNullCache()
}
