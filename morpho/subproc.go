// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package morpho

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/czcorpus/cnc-gokit/fs"
	"github.com/rs/zerolog/log"
)

// Conf configures the external morphological analyzer subprocess.
type Conf struct {
	// Path is the analyzer executable.
	Path string `json:"path"`

	// Args are fixed arguments prepended to every invocation.
	Args []string `json:"args"`

	// DeriveArg is the argument switching the analyzer into
	// derivation-listing mode.
	DeriveArg string `json:"deriveArg"`

	// TimeoutSecs limits a single analyzer invocation. Zero means
	// no limit.
	TimeoutSecs int `json:"timeoutSecs"`

	Cache CacheConf `json:"cache"`
}

func (conf *Conf) Validate(context string) error {
	if conf.Path == "" {
		return fmt.Errorf("%s.path is missing", context)
	}
	isFile, err := fs.IsFile(conf.Path)
	if err != nil {
		return fmt.Errorf("failed to test %s.path: %w", context, err)
	}
	if !isFile {
		return fmt.Errorf("%s.path does not point to an executable file", context)
	}
	if conf.DeriveArg == "" {
		conf.DeriveArg = "--derive"
	}
	return nil
}

// SubprocAnalyzer invokes an external analyzer executable. The whole
// word batch goes through a single invocation: words on stdin (one per
// line), a line protocol on stdout:
//
//	W <tab> surface-word
//	A <tab> lemma <tab> lntrf-tag <tab> paradigm-id <tab> note
//	F <tab> form <tab> lntrf-tag
//
// A-lines belong to the preceding W-line, F-lines (paradigm forms) to
// the preceding A-line. In derivation mode (DeriveArg) the output uses
//
//	D <tab> derived-word <tab> type-code <tab> note
//
// Any subprocess failure is local to the affected words: the caller
// receives whatever was parsed plus the error, and must degrade the
// rest to unknown-analysis tokens. The process handle is always
// released, also on parse errors and timeouts.
type SubprocAnalyzer struct {
	conf *Conf
	runner
}

// runner is separated to allow a test stub for process invocation.
type runner interface {
	run(ctx context.Context, conf *Conf, extraArgs []string, stdin string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) run(ctx context.Context, conf *Conf, extraArgs []string, stdin string) ([]byte, error) {
	if conf.TimeoutSecs > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(conf.TimeoutSecs)*time.Second)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, conf.Path, append(append([]string{}, conf.Args...), extraArgs...)...)
	cmd.Stdin = strings.NewReader(stdin)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Run waits for the process on all paths which guarantees
	// the handle release required even on analyzer crash.
	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			log.Warn().Str("stderr", stderr.String()).Msg("analyzer subprocess failed")
		}
		return stdout.Bytes(), fmt.Errorf("analyzer subprocess: %w", err)
	}
	return stdout.Bytes(), nil
}

func (a *SubprocAnalyzer) Analyze(ctx context.Context, words []string) (map[string]WordInfo, error) {
	ans := make(map[string]WordInfo, len(words))
	for _, w := range words {
		ans[w] = WordInfo{Word: w}
	}
	if len(words) == 0 {
		return ans, nil
	}
	out, err := a.run(ctx, a.conf, nil, strings.Join(words, "\n")+"\n")
	if parseErr := parseAnalyses(out, ans); parseErr != nil && err == nil {
		err = parseErr
	}
	return ans, err
}

func (a *SubprocAnalyzer) Derivations(ctx context.Context, lemma string) ([]DerivedWord, error) {
	out, err := a.run(ctx, a.conf, []string{a.conf.DeriveArg}, lemma+"\n")
	if err != nil {
		return nil, err
	}
	return parseDerivations(out)
}

func parseAnalyses(data []byte, ans map[string]WordInfo) error {
	var (
		currWord string
		currInfo WordInfo
	)
	flush := func() {
		if currWord != "" {
			ans[currWord] = currInfo
		}
	}
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		items := strings.Split(line, "\t")
		switch items[0] {
		case "W":
			if len(items) < 2 {
				return fmt.Errorf("malformed analyzer W-line: %s", line)
			}
			flush()
			currWord = items[1]
			currInfo = WordInfo{Word: currWord}
		case "A":
			if len(items) < 4 || currWord == "" {
				return fmt.Errorf("malformed analyzer A-line: %s", line)
			}
			tag, err := ParseTag(items[2])
			if err != nil {
				return fmt.Errorf("malformed analyzer A-line: %w", err)
			}
			anl := Analysis{Lemma: items[1], Tag: tag, Paradigm: items[3]}
			if len(items) > 4 {
				anl.Note = items[4]
			}
			currInfo.Analyses = append(currInfo.Analyses, anl)
		case "F":
			if len(items) < 3 || len(currInfo.Analyses) == 0 {
				return fmt.Errorf("malformed analyzer F-line: %s", line)
			}
			tag, err := ParseTag(items[2])
			if err != nil {
				return fmt.Errorf("malformed analyzer F-line: %w", err)
			}
			last := &currInfo.Analyses[len(currInfo.Analyses)-1]
			last.Forms = append(last.Forms, TaggedForm{Form: items[1], Tag: tag})
		default:
			return fmt.Errorf("unknown analyzer record type: %s", line)
		}
	}
	flush()
	return sc.Err()
}

func parseDerivations(data []byte) ([]DerivedWord, error) {
	var ans []DerivedWord
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		items := strings.Split(line, "\t")
		if items[0] != "D" || len(items) < 3 {
			return nil, fmt.Errorf("malformed analyzer D-line: %s", line)
		}
		dw := DerivedWord{Word: items[1], Type: items[2]}
		if len(items) > 3 {
			dw.Note = items[3]
		}
		ans = append(ans, dw)
	}
	return ans, sc.Err()
}

func NewSubprocAnalyzer(conf *Conf) *SubprocAnalyzer {
	return &SubprocAnalyzer{conf: conf, runner: execRunner{}}
}
