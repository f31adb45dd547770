// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package main

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"namegen/common"
	"namegen/config"
	"namegen/filters"
	"namegen/generate"
	"namegen/grammar"
	"namegen/language"
	"namegen/morpho"
	"namegen/name"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func createAnalyzer(conf *config.Configuration) morpho.Analyzer {
	return morpho.NewCachedAnalyzer(
		morpho.NewSubprocAnalyzer(&conf.MorphoAnalyzer),
		morpho.CacheFromConf(&conf.MorphoAnalyzer.Cache),
	)
}

func createGenerators(conf *config.Configuration) generate.Generator {
	var gens generate.Multi
	if conf.Generators.AbbrevPrepositions {
		gens = append(gens, generate.NewAbbrevPrepositions(conf.Generators.AbbrevPrepositionsOn))
	}
	if len(gens) == 0 {
		return generate.Nope{}
	}
	return gens
}

func createPipeline(conf *config.Configuration, lang *language.Language, analyzer morpho.Analyzer) *Pipeline {
	return NewPipeline(
		lang,
		analyzer,
		filters.NewNamesFilter(&conf.Filters),
		createGenerators(conf),
		&conf.Matching,
	)
}

func numWorkers(conf *config.Configuration) int {
	if conf.NumParallel > 0 {
		return conf.NumParallel
	}
	return runtime.GOMAXPROCS(0)
}

// primeAnalyzer analyzes all distinct words of the batch in a single
// subprocess run so the workers hit the cache only.
func primeAnalyzer(ctx context.Context, analyzer morpho.Analyzer, records []name.Name) {
	texts := make([]string, len(records))
	for i, rec := range records {
		texts[i] = rec.Text
	}
	words := language.AnalyzedWords(texts)
	t0 := time.Now()
	if _, err := analyzer.Analyze(ctx, words); err != nil {
		log.Warn().Err(err).Msg("batch analysis failed, continuing with partial data")
	}
	log.Info().
		Int("words", len(words)).
		Dur("took", time.Since(t0)).
		Msg("analyzed batch vocabulary")
}

// readRecords loads the input records, skipping (and counting)
// malformed lines.
func readRecords(path string) ([]name.Name, int) {
	src := os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot open input file")
		}
		defer f.Close()
		src = f
	}
	rd := name.NewReader(src)
	var records []name.Name
	var unparsed int
	for {
		rec, err := rd.Read()
		if err == io.EOF {
			return records, unparsed

		} else if errors.Is(err, name.ErrMalformedRecord) {
			log.Warn().Err(err).Msg("skipping malformed input record")
			unparsed++

		} else if err != nil {
			log.Fatal().Err(err).Msg("cannot read input records")

		} else {
			records = append(records, rec)
		}
	}
}

func openOutput(path string) (*bufio.Writer, func()) {
	if path == "" {
		w := bufio.NewWriter(os.Stdout)
		return w, func() { w.Flush() }
	}
	f, err := os.Create(path)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot create output file")
	}
	w := bufio.NewWriter(f)
	return w, func() {
		w.Flush()
		f.Close()
	}
}

// wordTags maps collected words to the set of lntrf tags they were
// matched with.
type wordTags map[string]map[string]bool

func (wt wordTags) add(word, tag string) {
	tags := wt[word]
	if tags == nil {
		tags = make(map[string]bool)
		wt[word] = tags
	}
	if tag != "" {
		tags[tag] = true
	}
}

// writeWordList writes the collected words of one role as lntrf
// records (`word \t j<Mark> \t tag:: tag::`), sorted; an empty path
// disables the output.
func writeWordList(path string, mark grammar.Mark, words wordTags) {
	if path == "" {
		return
	}
	items := make([]string, 0, len(words))
	for w := range words {
		items = append(items, w)
	}
	sort.Strings(items)
	w, closeFn := openOutput(path)
	defer closeFn()
	for _, item := range items {
		tags := make([]string, 0, len(words[item]))
		for tag := range words[item] {
			tags = append(tags, tag+"::")
		}
		sort.Strings(tags)
		w.WriteString(item)
		w.WriteString("\tj")
		w.WriteString(string(mark))
		w.WriteByte('\t')
		w.WriteString(strings.Join(tags, " "))
		w.WriteByte('\n')
	}
}

// writeErrorWords writes words the analyzer does not know, with a
// guessed nominative tag for person given names/surnames and the
// records the word appeared in.
func writeErrorWords(path string, items []UnknownWord) {
	if path == "" {
		return
	}
	type entry struct {
		word  string
		mark  grammar.Mark
		kind  common.NameKind
		seen  map[string]bool
		names []string
	}
	byKey := make(map[string]*entry)
	var keys []string
	for _, item := range items {
		key := item.Word + "\t" + string(item.Mark) + "\t" + item.Record.Kind.String()
		e := byKey[key]
		if e == nil {
			e = &entry{
				word: item.Word,
				mark: item.Mark,
				kind: item.Record.Kind,
				seen: make(map[string]bool),
			}
			byKey[key] = e
			keys = append(keys, key)
		}
		ref := item.Record.Text
		if len(item.Record.Additional) > 0 {
			ref += "\t" + item.Record.Additional[0]
		}
		if !e.seen[ref] {
			e.seen[ref] = true
			e.names = append(e.names, ref)
		}
	}
	sort.Strings(keys)
	w, closeFn := openOutput(path)
	defer closeFn()
	for _, key := range keys {
		e := byKey[key]
		w.WriteString(e.word)
		w.WriteString("\tj")
		w.WriteString(string(e.mark))
		if e.mark == grammar.MarkGivenName || e.mark == grammar.MarkSurname {
			switch e.kind.Gender() {
			case common.GenderFemale:
				w.WriteString("\tk1gFnSc1::")
			case common.GenderMale:
				w.WriteString("\tk1gMnSc1::")
			}
		}
		w.WriteByte('\t')
		w.WriteString(e.kind.String())
		w.WriteString("\t@\t")
		w.WriteString(strings.Join(e.names, "\t"))
		w.WriteByte('\n')
	}
}

// processRecords runs all records through the pipeline using a bounded
// worker pool. Results keep the input order; a duplicate record is
// skipped and counted, leaving a zero result at its position.
func processRecords(
	ctx context.Context,
	conf *config.Configuration,
	pipeline *Pipeline,
	records []name.Name,
) ([]RecordResult, int) {
	results := make([]RecordResult, len(records))
	var eg errgroup.Group
	eg.SetLimit(numWorkers(conf))
	seen := make(map[string]bool)
	var duplicates int
	for i, rec := range records {
		if seen[rec.Key()] {
			log.Warn().Str("name", rec.Text).Msg("skipping duplicate record")
			duplicates++
			continue
		}
		seen[rec.Key()] = true
		eg.Go(func() error {
			res, err := pipeline.Process(ctx, rec)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		log.Fatal().Err(err).Msg("batch processing failed")
	}
	return results, duplicates
}

// runBatch is the `run' action: it inflects all input records and
// writes the result in input order.
func runBatch(conf *config.Configuration, inputPath string) {
	ctx := context.Background()
	lang, err := language.Load(&conf.Language)
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load language data")
	}
	analyzer := createAnalyzer(conf)
	pipeline := createPipeline(conf, lang, analyzer)

	records, unparsed := readRecords(inputPath)
	log.Info().Int("records", len(records)).Int("unparsed", unparsed).Msg("loaded input records")
	primeAnalyzer(ctx, analyzer, records)

	t0 := time.Now()
	results, duplicates := processRecords(ctx, conf, pipeline, records)

	out, closeFn := openOutput(conf.Output.Path)
	defer closeFn()
	var matched, rejected, timedOut int
	givenNames := make(wordTags)
	surnames := make(wordTags)
	locations := make(wordTags)
	var errorWords []UnknownWord
	distinctUnknown := make(map[string]bool)
	for _, res := range results {
		for _, line := range res.Lines {
			out.WriteString(line)
			out.WriteByte('\n')
		}
		if res.Matched {
			matched++
		}
		if res.Rejected {
			rejected++
		}
		if res.TimedOut {
			timedOut++
		}
		for _, wr := range res.Words {
			switch wr.Mark {
			case grammar.MarkGivenName:
				givenNames.add(wr.Word, wr.Tag)
			case grammar.MarkSurname:
				surnames.add(wr.Word, wr.Tag)
			case grammar.MarkLocation:
				locations.add(wr.Word, wr.Tag)
			}
		}
		errorWords = append(errorWords, res.UnknownWords...)
		for _, uw := range res.UnknownWords {
			distinctUnknown[uw.Word] = true
		}
	}
	writeWordList(conf.Output.GivenNamesPath, grammar.MarkGivenName, givenNames)
	writeWordList(conf.Output.SurnamesPath, grammar.MarkSurname, surnames)
	writeWordList(conf.Output.LocationsPath, grammar.MarkLocation, locations)
	writeErrorWords(conf.Output.ErrorWordsPath, errorWords)

	log.Info().
		Int("records", len(records)).
		Int("unparsed", unparsed).
		Int("duplicates", duplicates).
		Int("matched", matched).
		Int("unmatched", len(records)-matched-rejected-duplicates).
		Int("rejected", rejected).
		Int("timedOut", timedOut).
		Int("unknownWords", len(distinctUnknown)).
		Dur("took", time.Since(t0)).
		Msg("finished batch run")
}
