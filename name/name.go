// Copyright 2024 Tomas Machalek <tomas.machalek@gmail.com>
// Copyright 2024 Martin Zimandl <martin.zimandl@gmail.com>
// Copyright 2024 Charles University - Faculty of Arts,
//                Institute of the Czech National Corpus
// All rights reserved.

package name

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"namegen/common"
)

// ErrMalformedRecord marks input lines which could not be parsed;
// callers may skip such lines and keep reading.
var ErrMalformedRecord = errors.New("malformed record")

// Name is one input record: the name text, its language tag, its kind
// and any additional fields (typically source URLs) which are carried
// through to the output untouched.
type Name struct {
	Text     string
	Language string
	Kind     common.NameKind

	// Additional holds the remaining tab-separated input fields.
	Additional []string

	// DerivType is the derivation-type code for records produced by
	// derivation generation; empty for ordinary input records.
	DerivType string
}

func (n Name) String() string {
	return n.Text
}

// Key identifies the record for duplicate detection.
func (n Name) Key() string {
	return n.Text + "\t" + n.Language + "\t" + n.Kind.String()
}

// WithKind returns a copy of the record with the kind replaced
// (used when an incomplete person kind gets its gender guessed).
func (n Name) WithKind(kind common.NameKind) Name {
	n.Kind = kind
	return n
}

// OutputRecord assembles the record's output line: the input fields
// plus the inflected-forms field (seven case forms joined by '|',
// possibly empty) and, for derived records, the derivation-type code.
func (n Name) OutputRecord(morphs string) string {
	var sb strings.Builder
	sb.WriteString(n.Text)
	sb.WriteByte('\t')
	sb.WriteString(n.Language)
	sb.WriteByte('\t')
	sb.WriteString(n.Kind.String())
	sb.WriteByte('\t')
	sb.WriteString(morphs)
	if n.DerivType != "" {
		sb.WriteByte('\t')
		sb.WriteString(n.DerivType)
	}
	for _, add := range n.Additional {
		sb.WriteByte('\t')
		sb.WriteString(add)
	}
	return sb.String()
}

// Reader reads tab-separated name records (name, language, kind,
// additional fields). Blank lines are skipped.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(src io.Reader) *Reader {
	scanner := bufio.NewScanner(src)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{scanner: scanner}
}

// Read returns the next record or io.EOF.
func (r *Reader) Read() (Name, error) {
	for r.scanner.Scan() {
		r.line++
		line := strings.TrimRight(r.scanner.Text(), "\r\n")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		ans := Name{Text: strings.TrimSpace(fields[0])}
		if ans.Text == "" {
			return Name{}, fmt.Errorf("%w at line %d: empty name field", ErrMalformedRecord, r.line)
		}
		if len(fields) > 1 {
			ans.Language = fields[1]
		}
		if len(fields) > 2 && fields[2] != "" {
			kind, err := common.ParseNameKind(fields[2])
			if err != nil {
				return Name{}, fmt.Errorf("%w at line %d: %v", ErrMalformedRecord, r.line, err)
			}
			ans.Kind = kind
		}
		if len(fields) > 3 {
			ans.Additional = fields[3:]
		}
		return ans, nil
	}
	if err := r.scanner.Err(); err != nil {
		return Name{}, err
	}
	return Name{}, io.EOF
}

// ReadAll drains the reader.
func (r *Reader) ReadAll() ([]Name, error) {
	var ans []Name
	for {
		rec, err := r.Read()
		if err == io.EOF {
			return ans, nil

		} else if err != nil {
			return ans, err
		}
		ans = append(ans, rec)
	}
}
