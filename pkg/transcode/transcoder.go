/*
Copyright © 2023 Kovalev Pavel kovalev5690@gmail.com
*/

// Package transcode rewrites the register #defines of a vendor C header
// as column-aligned constant declarations.
//
// Lines are handled one at a time. Recognised definitions are collected
// into a section until a comment, a blank line or the end of input, and
// the section is then written out with names and types padded to a
// common width. Comments and blank lines pass through unchanged. Header
// guards and anything else are dropped.
package transcode

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/Pavel7004/hdrconst/pkg/domain"
	"github.com/Pavel7004/hdrconst/pkg/header"
)

var ErrSkippedDefines = errors.New("Some #define lines were not recognised")

// DefaultKeyword starts every generated declaration.
const DefaultKeyword = "const"

type Transcoder struct {
	labels  domain.TypeLabels
	keyword string
	rules   []Rule
	log     log.Logger
}

type Option func(*Transcoder)

func WithTypeLabels(l domain.TypeLabels) Option {
	return func(t *Transcoder) {
		t.labels = l
	}
}

// WithRules replaces the default rules. Order matters: the first rule
// whose pattern matches builds the definition.
func WithRules(rules []Rule) Option {
	return func(t *Transcoder) {
		t.rules = slices.Clone(rules)
	}
}

// WithKeyword sets the text in front of each declared name, e.g.
// "pub const" for constants exported from their module.
func WithKeyword(kw string) Option {
	return func(t *Transcoder) {
		t.keyword = kw
	}
}

func WithLogger(l log.Logger) Option {
	return func(t *Transcoder) {
		t.log = l
	}
}

func New(opts ...Option) *Transcoder {
	t := &Transcoder{
		labels:  domain.DefaultTypeLabels,
		keyword: DefaultKeyword,
		rules:   DefaultRules(),
		log:     log.NewLogger(log.DiscardHandler()),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Run transcodes r into w.
func (t *Transcoder) Run(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	return t.RunReader(ctx, header.NewReaderFrom(r), w)
}

// RunReader is Run over an opened header.Reader. Cancelling ctx closes
// the input stream if it can be closed, so a blocked read gives up.
func (t *Transcoder) RunReader(ctx context.Context, hr *header.Reader, w io.Writer) (Stats, error) {
	var stats Stats

	stop := hr.CloseOnDone(ctx)
	defer stop()

	out := bufio.NewWriter(w)
	sec := domain.NewSection()

	flush := func() error {
		if sec.Len() == 0 {
			return nil
		}
		if err := renderSection(out, sec, t.keyword, t.labels); err != nil {
			return err
		}
		stats.Sections++
		stats.Definitions += sec.Len()
		sec.Reset()
		return nil
	}

	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		line, err := hr.ReadLine()
		if err != nil {
			if cerr := ctx.Err(); cerr != nil {
				return stats, cerr
			}
			if !errors.Is(err, io.EOF) {
				return stats, fmt.Errorf("read %s: %w", hr.Filename, err)
			}
			break
		}
		stats.Lines++

		trimmed := strings.TrimSpace(line)
		switch {
		case isGuard(line):
			stats.Guards++
		case strings.HasPrefix(trimmed, "//"), trimmed == "":
			if err := flush(); err != nil {
				return stats, fmt.Errorf("write section: %w", err)
			}
			if _, err := fmt.Fprintln(out, line); err != nil {
				return stats, fmt.Errorf("write line: %w", err)
			}
		case !strings.HasPrefix(line, "#define"):
			stats.Ignored++
		default:
			def, rule := match(t.rules, line)
			if def == nil {
				stats.Skipped++
				t.log.Debug("Skipped unrecognised define", "line", hr.Line(), "text", line)
				continue
			}
			t.log.Trace("Matched define", "line", hr.Line(), "rule", rule, "name", def.Name, "kind", def.Kind)
			sec.Add(def)
		}
	}

	if err := flush(); err != nil {
		return stats, fmt.Errorf("write section: %w", err)
	}
	if err := out.Flush(); err != nil {
		return stats, fmt.Errorf("write output: %w", err)
	}
	return stats, nil
}
