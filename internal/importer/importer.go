// Package importer merges arbitrary tabular batches into the entry store.
// Each row is sanitized through the validate package and then upserted by
// date. Per-row problems never abort the batch: they are collected as
// messages and processing continues with the next row.
package importer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ptarn/studylog/internal/model"
	"github.com/ptarn/studylog/internal/storage"
	"github.com/ptarn/studylog/internal/validate"
)

// Defaults applied to absent or non-coercible numeric fields. Messy
// imports are deliberately lenient here: a bad minutes/confidence cell is
// silently defaulted, not reported.
const (
	DefaultMinutes    = 0
	DefaultConfidence = 3
)

// Row is one tabular input row, header name → raw cell value. Header
// lookup is case-insensitive.
type Row map[string]string

func (r Row) get(name string) string {
	for k, v := range r {
		if strings.EqualFold(strings.TrimSpace(k), name) {
			return v
		}
	}
	return ""
}

// Options controls a batch run.
type Options struct {
	// DryRun performs every validation and counting step without writing
	// to the store. Counts and messages are identical to a real run.
	DryRun bool
	// Atomic refuses to commit anything when any row is skipped or
	// carries a fatal message. The default is per-row commit: earlier
	// rows stay committed even if later ones fail.
	Atomic bool
}

// Result aggregates the outcome of one batch.
type Result struct {
	Inserted int
	Updated  int
	Skipped  int
	Messages []validate.Message
}

// HasFatal reports whether the batch produced any fatal finding,
// including skipped rows.
func (r Result) HasFatal() bool {
	return validate.HasFatal(r.Messages)
}

// ImportBatch reconciles rows into the store in input order. A row without
// a parsable date is skipped and reported; every other problem is reported
// but the row is still written with its sanitized values. Whether a row
// counts as inserted or updated is decided by an existence check before
// any write, so re-importing the same batch is idempotent in stored state
// while reporting updates the second time.
func ImportBatch(st *storage.Store, rows []Row, opts Options) Result {
	if opts.Atomic && !opts.DryRun {
		// Shadow pass first; commit only a fully clean batch.
		probe := run(st, rows, false)
		if probe.HasFatal() {
			probe.Messages = append(probe.Messages, validate.Message{
				Severity: validate.Advisory,
				Text:     "Atomic import aborted; no rows were committed",
			})
			return probe
		}
		return run(st, rows, true)
	}
	return run(st, rows, !opts.DryRun)
}

func run(st *storage.Store, rows []Row, commit bool) Result {
	var res Result
	if len(rows) == 0 {
		res.Messages = append(res.Messages, validate.Message{
			Severity: validate.Advisory,
			Text:     "No rows to import.",
		})
		return res
	}

	for i, row := range rows {
		n := i + 1

		rawDate := strings.TrimSpace(row.get("date"))
		if rawDate == "" {
			res.Skipped++
			res.Messages = append(res.Messages, rowMsg(validate.Fatal, n, "missing date"))
			continue
		}
		date, err := model.ParseDate(rawDate)
		if err != nil {
			// The date failure is reported alone; no further checks run
			// for this row.
			res.Skipped++
			res.Messages = append(res.Messages, rowMsg(validate.Fatal, n, "unparsable date %q", rawDate))
			continue
		}

		sanitized, msgs := validate.Validate(validate.Fields{
			Topic:      row.get("topic"),
			Minutes:    coerceInt(row.get("minutes"), DefaultMinutes),
			Confidence: coerceInt(row.get("confidence"), DefaultConfidence),
			Practiced:  row.get("practiced"),
			Challenges: row.get("challenges"),
			Wins:       row.get("wins"),
			Tags:       row.get("tags"),
		})

		// Insert vs update is decided before the write.
		_, existed, err := st.Get(date)
		if err != nil {
			res.Skipped++
			res.Messages = append(res.Messages, rowMsg(validate.Fatal, n, "%v", err))
			continue
		}

		if commit {
			err := st.Upsert(model.Entry{
				Date:       date,
				Topic:      sanitized.Topic,
				Minutes:    sanitized.Minutes,
				Practiced:  sanitized.Practiced,
				Challenges: sanitized.Challenges,
				Wins:       sanitized.Wins,
				Confidence: sanitized.Confidence,
				Tags:       sanitized.Tags,
			})
			if err != nil {
				res.Skipped++
				res.Messages = append(res.Messages, rowMsg(validate.Fatal, n, "%v", err))
				continue
			}
		}

		if existed {
			res.Updated++
		} else {
			res.Inserted++
		}
		for _, m := range msgs {
			res.Messages = append(res.Messages, rowMsg(m.Severity, n, "%s", m.Text))
		}
	}
	return res
}

func rowMsg(sev validate.Severity, row int, format string, args ...any) validate.Message {
	return validate.Message{
		Severity: sev,
		Text:     fmt.Sprintf("Row %d: %s", row, fmt.Sprintf(format, args...)),
	}
}

// coerceInt parses a numeric cell, defaulting silently when it is empty or
// not a number. Fractional values like "30.0" round toward zero.
func coerceInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return def
}
