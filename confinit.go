// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package main

import (
	"fmt"
	"path"
	"runtime"
	"strings"

	"namegen/config"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

// locateConfig returns the first path of the list which is an existing
// regular file.
func locateConfig(srchPaths []string) (string, error) {
	for _, p := range srchPaths {
		isFile, err := fs.IsFile(p)
		if err != nil {
			return "", fmt.Errorf("failed to test configuration file %s: %w", p, err)
		}
		if isFile {
			return p, nil
		}
	}
	return "", fmt.Errorf(
		"cannot find any suitable configuration file (searched in: %s)",
		strings.Join(srchPaths, ", "),
	)
}

func findAndLoadConfig(explicitPath string, cmdOpts *CmdOptions) *config.Configuration {
	confPath := explicitPath
	if confPath == "" {
		_, srcFile, _, _ := runtime.Caller(0)
		var err error
		confPath, err = locateConfig([]string{
			path.Join(path.Dir(srcFile), "conf.json"),
			"/usr/local/etc/namegen/conf.json",
			defaultConfigPath,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("")
		}
	}
	conf := config.LoadConfig(confPath)
	if cmdOpts.LogLevel != "" {
		conf.LogLevel = cmdOpts.LogLevel

	} else if conf.LogLevel == "" {
		conf.LogLevel = "info"
	}
	setupLog(conf.LogPath, conf.LogLevel)
	log.Info().Msgf("loaded configuration from %s", confPath)
	log.Info().Msgf("using logging level '%s'", conf.LogLevel)
	overrideConfWithCmd(conf, cmdOpts)
	validErr := conf.Validate()
	if validErr != nil {
		log.Fatal().Err(validErr).Msg("")
	}
	return conf
}

func overrideConfWithCmd(origConf *config.Configuration, cmdConf *CmdOptions) {
	if cmdConf.Host != "" {
		origConf.ServerHost = cmdConf.Host

	} else if origConf.ServerHost == "" {
		log.Warn().Msgf(
			"serverHost not specified, using default value %s",
			config.DfltServerHost,
		)
		origConf.ServerHost = config.DfltServerHost
	}
	if cmdConf.Port != 0 {
		origConf.ServerPort = cmdConf.Port

	} else if origConf.ServerPort == 0 {
		log.Warn().Msgf(
			"serverPort not specified, using default value %d",
			config.DftlServerPort,
		)
		origConf.ServerPort = config.DftlServerPort
	}
	if cmdConf.ReadTimeoutSecs != 0 {
		origConf.ServerReadTimeoutSecs = cmdConf.ReadTimeoutSecs

	} else if origConf.ServerReadTimeoutSecs == 0 {
		log.Warn().Msgf(
			"serverReadTimeoutSecs not specified, using default value %d",
			config.DfltServerReadTimeoutSecs,
		)
		origConf.ServerReadTimeoutSecs = config.DfltServerReadTimeoutSecs
	}
	if cmdConf.WriteTimeoutSecs != 0 {
		origConf.ServerWriteTimeoutSecs = cmdConf.WriteTimeoutSecs

	} else if origConf.ServerWriteTimeoutSecs == 0 {
		log.Warn().Msgf(
			"serverWriteTimeoutSecs not specified, using default value %d",
			config.DfltServerWriteTimeoutSecs,
		)
		origConf.ServerWriteTimeoutSecs = config.DfltServerWriteTimeoutSecs
	}
	if cmdConf.LogPath != "" {
		origConf.LogPath = cmdConf.LogPath

	} else if origConf.LogPath == "" {
		log.Warn().Msg("logPath not specified, using stderr")
	}
	if cmdConf.OutputPath != "" {
		origConf.Output.Path = cmdConf.OutputPath
	}
	if cmdConf.GivenNamesPath != "" {
		origConf.Output.GivenNamesPath = cmdConf.GivenNamesPath
	}
	if cmdConf.SurnamesPath != "" {
		origConf.Output.SurnamesPath = cmdConf.SurnamesPath
	}
	if cmdConf.LocationsPath != "" {
		origConf.Output.LocationsPath = cmdConf.LocationsPath
	}
	if cmdConf.ErrorWordsPath != "" {
		origConf.Output.ErrorWordsPath = cmdConf.ErrorWordsPath
	}
	if cmdConf.IncludeNoMorphs {
		origConf.Matching.IncludeNoMorphs = true
	}
	if cmdConf.NumParallel > 0 {
		origConf.NumParallel = cmdConf.NumParallel
	}
}
