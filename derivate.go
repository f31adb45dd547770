// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package main

import (
	"context"
	"time"

	"namegen/config"
	"namegen/filters"
	"namegen/generate"
	"namegen/language"

	"github.com/rs/zerolog/log"
)

// runDerivate is the `derivate' action: for each single-word person
// record it obtains the words derived from the matched word (and the
// members of its equivalence class), inflects them and writes the
// resulting records with their derivation-type codes. The source
// records themselves are not written.
func runDerivate(conf *config.Configuration, inputPath string) {
	ctx := context.Background()
	lang, err := language.Load(&conf.Language)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load language data")
	}
	analyzer := createAnalyzer(conf)
	pipeline := NewPipeline(
		lang,
		analyzer,
		filters.NewNamesFilter(&conf.Filters),
		generate.NewDerivedForms(&conf.Generators, analyzer, lang.Equivalences),
		&conf.Matching,
	).GeneratedRecordsOnly()

	records, unparsed := readRecords(inputPath)
	log.Info().Int("records", len(records)).Int("unparsed", unparsed).Msg("loaded input records")
	primeAnalyzer(ctx, analyzer, records)

	t0 := time.Now()
	results, duplicates := processRecords(ctx, conf, pipeline, records)

	out, closeFn := openOutput(conf.Output.Path)
	defer closeFn()
	var generated, timedOut int
	for _, res := range results {
		for _, line := range res.Lines {
			out.WriteString(line)
			out.WriteByte('\n')
		}
		generated += len(res.Lines)
		if res.TimedOut {
			timedOut++
		}
	}
	log.Info().
		Int("records", len(records)).
		Int("duplicates", duplicates).
		Int("generated", generated).
		Int("timedOut", timedOut).
		Dur("took", time.Since(t0)).
		Msg("finished derivation run")
}
