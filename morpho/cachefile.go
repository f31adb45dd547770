// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package morpho

import (
	"context"
	"crypto/sha1"
	"fmt"
	"os"
	"path"
	"time"

	"github.com/bytedance/sonic"
	"github.com/czcorpus/cnc-gokit/fs"
)

// FileCache stores one JSON file per analyzed word under a root
// directory, sharded by the first hex character of the word's hash.
// Entries older than the configured TTL count as misses; hits get
// their mtime refreshed.
type FileCache struct {
	conf *CacheConf
}

func (fc *FileCache) createItemPath(word string) string {
	h := sha1.New()
	h.Write([]byte(word))
	bs := fmt.Sprintf("%x.json", h.Sum(nil))
	return path.Join(fc.conf.FileRootPath, bs[0:1], bs)
}

func (fc *FileCache) Get(ctx context.Context, word string) (WordInfo, error) {
	filePath := fc.createItemPath(word)
	isFile, err := fs.IsFile(filePath)
	if err != nil {
		return WordInfo{}, err
	}
	if !isFile {
		return WordInfo{}, ErrCacheMiss
	}
	mtime, err := fs.GetFileMtime(filePath)
	if err != nil {
		return WordInfo{}, err
	}
	if time.Since(mtime) > time.Duration(fc.conf.TTLSecs)*time.Second {
		return WordInfo{}, ErrCacheMiss
	}
	now := time.Now()
	if err := os.Chtimes(filePath, now, now); err != nil {
		return WordInfo{}, err
	}
	rawData, err := os.ReadFile(filePath)
	if err != nil {
		return WordInfo{}, err
	}
	var ans WordInfo
	if err := sonic.Unmarshal(rawData, &ans); err != nil {
		return WordInfo{}, err
	}
	return ans, nil
}

func (fc *FileCache) Set(ctx context.Context, word string, info WordInfo) error {
	targetPath := fc.createItemPath(word)
	if err := os.MkdirAll(path.Dir(targetPath), os.ModePerm); err != nil {
		return err
	}
	rawData, err := sonic.Marshal(info)
	if err != nil {
		return err
	}
	return os.WriteFile(targetPath, rawData, 0644)
}

func NewFileCache(conf *CacheConf) *FileCache {
	return &FileCache{conf: conf}
}
