// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package config

import (
	"encoding/json"
	"fmt"
	"os"

	"namegen/filters"
	"namegen/generate"
	"namegen/grammar"
	"namegen/language"
	"namegen/morpho"

	"github.com/rs/zerolog/log"
)

const (
	DfltServerReadTimeoutSecs  = 10
	DfltServerWriteTimeoutSecs = 30
	DftlServerPort             = 8080
	DfltServerHost             = "localhost"
)

// MatchingConf tunes the grammar matching and output modes.
type MatchingConf struct {

	// AllowPriorityFiltration enables pruning of competing derivations
	// by terminal rank. Unset means enabled.
	AllowPriorityFiltration *bool `json:"allowPriorityFiltration"`

	// AnalyzeUnknownClasses lists the terminal classes which may bind
	// words the analyzer does not know (typically ["noun"]).
	AnalyzeUnknownClasses []string `json:"analyzeUnknownClasses"`

	// WholeNamesOnly suppresses records for which not all seven cases
	// could be generated.
	WholeNamesOnly bool `json:"wholeNamesOnly"`

	// IncludeNoMorphs emits also records with an empty forms field
	// (unmatched names, filter rejections).
	IncludeNoMorphs bool `json:"includeNoMorphs"`
}

func (conf *MatchingConf) Validate(confContext string) error {
	for _, c := range conf.AnalyzeUnknownClasses {
		if !grammar.WordClass(c).Valid() {
			return fmt.Errorf("%s.analyzeUnknownClasses contains an unknown class: %s", confContext, c)
		}
	}
	return nil
}

// PriorityFiltration resolves the tri-state flag (unset = enabled).
func (conf *MatchingConf) PriorityFiltration() bool {
	return conf.AllowPriorityFiltration == nil || *conf.AllowPriorityFiltration
}

// UnknownClasses converts the configured class names.
func (conf *MatchingConf) UnknownClasses() []grammar.WordClass {
	ans := make([]grammar.WordClass, len(conf.AnalyzeUnknownClasses))
	for i, c := range conf.AnalyzeUnknownClasses {
		ans[i] = grammar.WordClass(c)
	}
	return ans
}

// OutputConf describes the optional extra outputs of a batch run.
type OutputConf struct {

	// Path is the main output file; empty means stdout.
	Path string `json:"path"`

	// GivenNamesPath collects words matched as given names.
	GivenNamesPath string `json:"givenNamesPath"`

	// SurnamesPath collects words matched as surnames.
	SurnamesPath string `json:"surnamesPath"`

	// LocationsPath collects words matched as location words.
	LocationsPath string `json:"locationsPath"`

	// ErrorWordsPath collects words the analyzer does not know.
	ErrorWordsPath string `json:"errorWordsPath"`
}

type Configuration struct {
	Language               language.Conf `json:"language"`
	MorphoAnalyzer         morpho.Conf   `json:"morphoAnalyzer"`
	Filters                filters.Conf  `json:"filters"`
	Generators             generate.Conf `json:"generators"`
	Matching               MatchingConf  `json:"matching"`
	Output                 OutputConf    `json:"output"`
	NumParallel            int           `json:"numParallel"`
	ServerHost             string        `json:"serverHost"`
	ServerPort             int           `json:"serverPort"`
	ServerReadTimeoutSecs  int           `json:"serverReadTimeoutSecs"`
	ServerWriteTimeoutSecs int           `json:"serverWriteTimeoutSecs"`

	// ServerRateLimitPerSec caps the request rate of the HTTP service
	// (zero disables the limiter).
	ServerRateLimitPerSec float64 `json:"serverRateLimitPerSec"`
	ServerRateLimitBurst  int     `json:"serverRateLimitBurst"`

	// WatchGrammars makes the HTTP service reload the language data
	// when any of its files changes.
	WatchGrammars bool `json:"watchGrammars"`

	LogPath  string `json:"logPath"`
	LogLevel string `json:"logLevel"`
}

func (c *Configuration) Validate() error {
	var err error
	if err = c.Language.Validate("language"); err != nil {
		return err
	}
	if err = c.MorphoAnalyzer.Validate("morphoAnalyzer"); err != nil {
		return err
	}
	if err = c.Filters.Validate("filters"); err != nil {
		return err
	}
	if err = c.Generators.Validate("generators"); err != nil {
		return err
	}
	if err = c.Matching.Validate("matching"); err != nil {
		return err
	}
	if c.NumParallel < 0 {
		return fmt.Errorf("numParallel must not be negative")
	}
	return nil
}

func LoadConfig(path string) *Configuration {
	if path == "" {
		log.Fatal().Msg("Cannot load config - path not specified")
	}
	rawData, err := os.ReadFile(path)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	var conf Configuration
	err = json.Unmarshal(rawData, &conf)
	if err != nil {
		log.Fatal().Err(err).Msg("Cannot load config")
	}
	return &conf
}
