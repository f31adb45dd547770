// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocateConfigPicksFirstExisting(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "second.json")
	assert.NoError(t, os.WriteFile(second, []byte("{}"), 0644))
	third := filepath.Join(dir, "third.json")
	assert.NoError(t, os.WriteFile(third, []byte("{}"), 0644))

	found, err := locateConfig([]string{
		filepath.Join(dir, "missing.json"),
		second,
		third,
	})
	assert.NoError(t, err)
	assert.Equal(t, second, found)
}

func TestLocateConfigNoMatch(t *testing.T) {
	_, err := locateConfig([]string{filepath.Join(t.TempDir(), "missing.json")})
	assert.Error(t, err)
}
