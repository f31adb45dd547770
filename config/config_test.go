// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package config

import (
	"os"
	"path/filepath"
	"testing"

	"namegen/grammar"

	"github.com/stretchr/testify/assert"
)

func TestMatchingConfValidate(t *testing.T) {
	conf := &MatchingConf{AnalyzeUnknownClasses: []string{"noun", "adjective"}}
	assert.NoError(t, conf.Validate("matching"))

	conf = &MatchingConf{AnalyzeUnknownClasses: []string{"verb"}}
	assert.Error(t, conf.Validate("matching"))
}

func TestMatchingConfPriorityFiltration(t *testing.T) {
	conf := &MatchingConf{}
	assert.True(t, conf.PriorityFiltration(), "unset means enabled")

	no := false
	conf = &MatchingConf{AllowPriorityFiltration: &no}
	assert.False(t, conf.PriorityFiltration())

	yes := true
	conf = &MatchingConf{AllowPriorityFiltration: &yes}
	assert.True(t, conf.PriorityFiltration())
}

func TestMatchingConfUnknownClasses(t *testing.T) {
	conf := &MatchingConf{AnalyzeUnknownClasses: []string{"noun"}}
	assert.Equal(t, []grammar.WordClass{grammar.ClassNoun}, conf.UnknownClasses())
}

func TestConfigurationValidate(t *testing.T) {
	conf := validConfiguration(t)
	assert.NoError(t, conf.Validate())

	conf = validConfiguration(t)
	conf.Language.Code = ""
	assert.Error(t, conf.Validate())

	conf = validConfiguration(t)
	conf.NumParallel = -1
	assert.Error(t, conf.Validate())
}

func validConfiguration(t *testing.T) *Configuration {
	maPath := filepath.Join(t.TempDir(), "ma")
	assert.NoError(t, os.WriteFile(maPath, []byte("#!/bin/sh\n"), 0755))
	conf := &Configuration{}
	conf.Language.Code = "cs"
	conf.Language.Directory = "/opt/namegen/data/cs"
	conf.Language.GrammarMale = "male.json"
	conf.Language.GrammarFemale = "female.json"
	conf.Language.GrammarLocation = "locations.json"
	conf.Language.GrammarEvents = "events.json"
	conf.Language.TitlesFile = "titles.txt"
	conf.MorphoAnalyzer.Path = maPath
	return conf
}
