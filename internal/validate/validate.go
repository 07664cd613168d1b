// Package validate holds the pure sanitization rules applied to entry
// fields before they reach the store: length truncation, numeric clamping,
// and tag normalization. Functions here never do I/O and never fail; they
// report problems as typed messages.
package validate

import (
	"fmt"
	"strings"
)

// Field limits enforced at write time. Values read back from the store
// always satisfy these bounds.
const (
	MaxTopicLen = 200
	MaxTextLen  = 2000
	MaxTags     = 10
	MaxTagLen   = 32

	MinMinutes    = 0
	MaxMinutes    = 1440
	MinConfidence = 1
	MaxConfidence = 5
)

// Severity classifies a validation message.
type Severity int

const (
	// Advisory messages report silent fixes (truncation, dropped tags);
	// they never block acceptance.
	Advisory Severity = iota
	// Fatal messages report a missing required field or an out-of-bounds
	// value. The sanitized result is still usable (clamped), but
	// interactive callers should refuse to commit it.
	Fatal
)

// Message is one validation finding.
type Message struct {
	Severity Severity
	Text     string
}

func (m Message) String() string { return m.Text }

func advisory(format string, args ...any) Message {
	return Message{Severity: Advisory, Text: fmt.Sprintf(format, args...)}
}

func fatal(format string, args ...any) Message {
	return Message{Severity: Fatal, Text: fmt.Sprintf(format, args...)}
}

// HasFatal reports whether any message in the list is fatal.
func HasFatal(msgs []Message) bool {
	for _, m := range msgs {
		if m.Severity == Fatal {
			return true
		}
	}
	return false
}

// Fields is the raw, pre-sanitization input for one entry. The same shape
// is returned sanitized by Validate.
type Fields struct {
	Topic      string
	Minutes    int
	Confidence int
	Practiced  string
	Challenges string
	Wins       string
	Tags       string
}

// truncate caps s at max runes. The second result reports whether anything
// was cut.
func truncate(s string, max int) (string, bool) {
	r := []rune(s)
	if len(r) > max {
		return string(r[:max]), true
	}
	return s, false
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NormalizeTags parses a comma-separated tag string into its canonical
// form: tokens trimmed, empties dropped, duplicates removed
// case-insensitively keeping the first-seen casing and order, each token
// capped at MaxTagLen runes, at most MaxTags tokens, rejoined with ", ".
// Empty input yields empty output and no messages. The function is
// idempotent: normalizing an already-normal string is a no-op.
func NormalizeTags(raw string) (string, []Message) {
	var msgs []Message
	if strings.TrimSpace(raw) == "" {
		return "", msgs
	}

	seen := make(map[string]bool)
	var uniq []string
	for _, part := range strings.Split(raw, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if seen[key] {
			continue
		}
		seen[key] = true
		uniq = append(uniq, tag)
	}

	tags := make([]string, 0, len(uniq))
	for _, tag := range uniq {
		if cut, wasCut := truncate(tag, MaxTagLen); wasCut {
			tags = append(tags, cut)
			msgs = append(msgs, advisory("Tag %q truncated to %d characters", tag, MaxTagLen))
		} else {
			tags = append(tags, tag)
		}
	}

	if len(tags) > MaxTags {
		msgs = append(msgs, advisory("Only first %d tags kept; others were dropped", MaxTags))
		tags = tags[:MaxTags]
	}

	return strings.Join(tags, ", "), msgs
}

// Validate sanitizes one entry's fields and reports every finding. It
// always returns a usable result: text fields are truncated and trimmed,
// numeric fields clamped into range, tags normalized. Out-of-bounds
// numerics and a missing topic additionally produce fatal messages so the
// caller can decide whether the clamped values are acceptable (interactive
// saves block on them; lenient batch imports do not).
func Validate(f Fields) (Fields, []Message) {
	var msgs []Message

	topic, topicCut := truncate(f.Topic, MaxTopicLen)
	topic = strings.TrimSpace(topic)
	if topic == "" {
		msgs = append(msgs, fatal("Topic is required."))
	}
	if topicCut {
		msgs = append(msgs, advisory("Topic truncated to %d characters", MaxTopicLen))
	}

	practiced, cut := truncate(f.Practiced, MaxTextLen)
	if cut {
		msgs = append(msgs, advisory("'What you practiced' truncated to %d characters", MaxTextLen))
	}
	challenges, cut := truncate(f.Challenges, MaxTextLen)
	if cut {
		msgs = append(msgs, advisory("'Challenges' truncated to %d characters", MaxTextLen))
	}
	wins, cut := truncate(f.Wins, MaxTextLen)
	if cut {
		msgs = append(msgs, advisory("'Wins' truncated to %d characters", MaxTextLen))
	}

	minutes := f.Minutes
	if minutes < MinMinutes || minutes > MaxMinutes {
		msgs = append(msgs, fatal("Minutes must be between %d and %d.", MinMinutes, MaxMinutes))
		minutes = clamp(minutes, MinMinutes, MaxMinutes)
	}
	confidence := f.Confidence
	if confidence < MinConfidence || confidence > MaxConfidence {
		msgs = append(msgs, fatal("Confidence must be between %d and %d.", MinConfidence, MaxConfidence))
		confidence = clamp(confidence, MinConfidence, MaxConfidence)
	}

	tags, tagMsgs := NormalizeTags(f.Tags)
	msgs = append(msgs, tagMsgs...)

	return Fields{
		Topic:      topic,
		Minutes:    minutes,
		Confidence: confidence,
		Practiced:  strings.TrimSpace(practiced),
		Challenges: strings.TrimSpace(challenges),
		Wins:       strings.TrimSpace(wins),
		Tags:       tags,
	}, msgs
}
