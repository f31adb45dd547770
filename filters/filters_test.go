// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmptyConfAcceptsEverything(t *testing.T) {
	f := NewNamesFilter(&Conf{})
	assert.True(t, f.Accepts("Praha", "cs"))
	assert.True(t, f.Accepts("北京", ""))
}

func TestLanguageAllowList(t *testing.T) {
	f := NewNamesFilter(&Conf{Languages: []string{"cs", LangUnknown}})
	assert.True(t, f.AcceptsLanguage("cs"))
	assert.False(t, f.AcceptsLanguage("en"))
	assert.True(t, f.AcceptsLanguage(""), "empty language counts as UNKNOWN")
	assert.True(t, f.AcceptsLanguage("UNKNOWN"))
}

func TestNameRegexIsAnchored(t *testing.T) {
	conf := &Conf{NameRegex: `[A-ZÁ-Ž].*`}
	assert.NoError(t, conf.Validate("filters"))
	f := NewNamesFilter(conf)
	assert.True(t, f.AcceptsName("Praha"))
	assert.False(t, f.AcceptsName("praha"))
}

func TestAllowedAlphaChars(t *testing.T) {
	f := NewNamesFilter(&Conf{
		AllowedAlphaChars: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZáéíPr",
	})
	assert.True(t, f.AcceptsName("Praha"))
	assert.True(t, f.AcceptsName("Praha 10"), "digits and spaces always pass")
	assert.False(t, f.AcceptsName("Plzeň"), "ň is not in the allowed set")
}

func TestScriptRestriction(t *testing.T) {
	f := NewNamesFilter(&Conf{Script: "latin"})
	assert.True(t, f.AcceptsName("Ústí nad Labem"))
	assert.False(t, f.AcceptsName("Москва"))
	assert.True(t, f.AcceptsName("č. 7"), "non-alphabetic characters are ignored")
}

func TestValidateRejectsBadRegex(t *testing.T) {
	conf := &Conf{NameRegex: "("}
	assert.Error(t, conf.Validate("filters"))
}
