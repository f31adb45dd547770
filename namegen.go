// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// VersionInfo describes the application build.
type VersionInfo struct {
	Version   string `json:"version"`
	BuildDate string `json:"buildDate"`
	GitCommit string `json:"gitCommit"`
}

var (
	defaultConfigPath string
	version           string
	buildDate         string
	gitCommit         string
	versionInfo       = VersionInfo{
		Version:   version,
		BuildDate: buildDate,
		GitCommit: gitCommit,
	}
	levelMapping = map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"warning": zerolog.WarnLevel,
		"warn":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
	}
)

type CmdOptions struct {
	Host             string
	Port             int
	ReadTimeoutSecs  int
	WriteTimeoutSecs int
	LogPath          string
	LogLevel         string
	OutputPath       string
	GivenNamesPath   string
	SurnamesPath     string
	LocationsPath    string
	ErrorWordsPath   string
	IncludeNoMorphs  bool
	NumParallel      int
}

func init() {
	if defaultConfigPath == "" {
		defaultConfigPath = "/usr/local/etc/namegen.json"
	}
}

func setupLog(path, level string) {
	lev, ok := levelMapping[level]
	if !ok {
		log.Fatal().Msgf("invalid logging level: %s", level)
	}
	zerolog.SetGlobalLevel(lev)
	if path != "" {
		logf, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Fatal().Msgf("Failed to initialize log. File: %s", path)
		}
		log.Logger = log.Output(logf)

	} else {
		log.Logger = log.Output(
			zerolog.ConsoleWriter{
				Out:        os.Stderr,
				TimeFormat: time.RFC3339,
			},
		)
	}
}

func main() {
	cmdOpts := new(CmdOptions)
	flag.StringVar(&cmdOpts.Host, "host", "", "Host to listen on")
	flag.IntVar(&cmdOpts.Port, "port", 0, "Port to listen on")
	flag.IntVar(&cmdOpts.ReadTimeoutSecs, "read-timeout", 0, "Server read timeout in seconds")
	flag.IntVar(&cmdOpts.WriteTimeoutSecs, "write-timeout", 0, "Server write timeout in seconds")
	flag.StringVar(&cmdOpts.LogPath, "log-path", "", "A file to log to (if empty then stderr is used)")
	flag.StringVar(&cmdOpts.LogLevel, "log-level", "", "A log level (debug, info, warn/warning, error)")
	flag.StringVar(&cmdOpts.OutputPath, "output", "", "A file to write the output records to (if empty then stdout is used)")
	flag.StringVar(&cmdOpts.GivenNamesPath, "given-names", "", "A file to collect words matched as given names")
	flag.StringVar(&cmdOpts.SurnamesPath, "surnames", "", "A file to collect words matched as surnames")
	flag.StringVar(&cmdOpts.LocationsPath, "locations", "", "A file to collect words matched as location words")
	flag.StringVar(&cmdOpts.ErrorWordsPath, "error-words", "", "A file to collect words unknown to the morphological analyzer")
	flag.BoolVar(&cmdOpts.IncludeNoMorphs, "include-no-morphs", false, "Write also records for which no forms could be generated")
	flag.IntVar(&cmdOpts.NumParallel, "num-parallel", 0, "Max. number of records processed in parallel (0 = number of CPUs)")

	flag.Usage = func() {
		fmt.Fprintf(
			os.Stderr,
			"namegen - inflection of proper names across grammatical cases"+
				"\n\nUsage:"+
				"\n\t%s [options] run [input file] [conf.json]"+
				"\n\t%s [options] derivate [input file] [conf.json]"+
				"\n\t%s [options] server [conf.json]"+
				"\n\t%s [options] version\n",
			filepath.Base(os.Args[0]), filepath.Base(os.Args[0]),
			filepath.Base(os.Args[0]), filepath.Base(os.Args[0]),
		)
		flag.PrintDefaults()
	}
	flag.Parse()

	action := flag.Arg(0)

	switch action {
	case "version":
		fmt.Printf("CNC Namegen %s\nbuild date: %s\nlast commit: %s\n",
			versionInfo.Version, versionInfo.BuildDate, versionInfo.GitCommit)
		return
	case "run":
		conf := findAndLoadConfig(flag.Arg(2), cmdOpts)
		runBatch(conf, flag.Arg(1))
	case "derivate":
		conf := findAndLoadConfig(flag.Arg(2), cmdOpts)
		runDerivate(conf, flag.Arg(1))
	case "server":
		conf := findAndLoadConfig(flag.Arg(1), cmdOpts)
		log.Info().
			Str("version", versionInfo.Version).
			Str("buildDate", versionInfo.BuildDate).
			Str("last commit", versionInfo.GitCommit).
			Msg("Starting CNC Namegen")
		runService(conf)
	default:
		fmt.Printf("Unknown action [%s]. Try -h for help\n", flag.Arg(0))
		os.Exit(1)
	}
}
