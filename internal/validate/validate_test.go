package validate_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/ptarn/studylog/internal/validate"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"go", "go"},
		{" go , sql ", "go, sql"},
		{"go,,sql,", "go, sql"},
		{"Go,go,GO,sql", "Go, sql"},
		{"go, sql", "go, sql"}, // already normal
	}
	for _, tt := range tests {
		got, msgs := validate.NormalizeTags(tt.raw)
		if got != tt.want {
			t.Errorf("NormalizeTags(%q) = %q, want %q", tt.raw, got, tt.want)
		}
		if len(msgs) != 0 {
			t.Errorf("NormalizeTags(%q) messages = %v, want none", tt.raw, msgs)
		}
	}
}

func TestNormalizeTagsIdempotent(t *testing.T) {
	inputs := []string{
		"",
		"go",
		"Go,go,sql,  rust ,",
		strings.Repeat("x", 40) + ",short",
		"a,b,c,d,e,f,g,h,i,j,k,l",
	}
	for _, raw := range inputs {
		once, _ := validate.NormalizeTags(raw)
		twice, msgs := validate.NormalizeTags(once)
		if twice != once {
			t.Errorf("NormalizeTags not idempotent for %q: %q != %q", raw, twice, once)
		}
		if len(msgs) != 0 {
			t.Errorf("second NormalizeTags(%q) emitted messages: %v", once, msgs)
		}
	}
}

func TestNormalizeTagsTruncatesLongTag(t *testing.T) {
	long := strings.Repeat("y", validate.MaxTagLen+5)
	got, msgs := validate.NormalizeTags(long)
	if len(got) != validate.MaxTagLen {
		t.Errorf("tag length = %d, want %d", len(got), validate.MaxTagLen)
	}
	if len(msgs) != 1 || msgs[0].Severity != validate.Advisory {
		t.Fatalf("expected one advisory message, got %v", msgs)
	}
	if !strings.Contains(msgs[0].Text, "truncated") {
		t.Errorf("message = %q, want truncation notice", msgs[0].Text)
	}
}

func TestNormalizeTagsMaxCount(t *testing.T) {
	var parts []string
	for i := 0; i < validate.MaxTags+5; i++ {
		parts = append(parts, fmt.Sprintf("tag%d", i))
	}
	got, msgs := validate.NormalizeTags(strings.Join(parts, ","))
	if n := len(strings.Split(got, ", ")); n != validate.MaxTags {
		t.Errorf("kept %d tags, want %d", n, validate.MaxTags)
	}
	if len(msgs) != 1 || msgs[0].Severity != validate.Advisory {
		t.Fatalf("expected a single advisory, got %v", msgs)
	}
}

func TestValidateRequiresTopic(t *testing.T) {
	for _, topic := range []string{"", "   ", "\t\n"} {
		_, msgs := validate.Validate(validate.Fields{Topic: topic, Minutes: 30, Confidence: 3})
		if !validate.HasFatal(msgs) {
			t.Errorf("Validate(topic=%q): expected fatal message", topic)
		}
	}
}

func TestValidateClampsAndFlagsOutOfBounds(t *testing.T) {
	tests := []struct {
		minutes, confidence         int
		wantMinutes, wantConfidence int
		wantFatal                   bool
	}{
		{30, 3, 30, 3, false},
		{0, 1, 0, 1, false},
		{1440, 5, 1440, 5, false},
		{-5, 3, 0, 3, true},
		{2000, 3, 1440, 3, true},
		{30, 0, 30, 1, true},
		{30, 9, 30, 5, true},
		{-1, 99, 0, 5, true},
	}
	for _, tt := range tests {
		got, msgs := validate.Validate(validate.Fields{
			Topic:      "Algebra",
			Minutes:    tt.minutes,
			Confidence: tt.confidence,
		})
		if got.Minutes != tt.wantMinutes || got.Confidence != tt.wantConfidence {
			t.Errorf("Validate(%d, %d) = (%d, %d), want (%d, %d)",
				tt.minutes, tt.confidence, got.Minutes, got.Confidence,
				tt.wantMinutes, tt.wantConfidence)
		}
		if validate.HasFatal(msgs) != tt.wantFatal {
			t.Errorf("Validate(%d, %d) fatal = %v, want %v",
				tt.minutes, tt.confidence, validate.HasFatal(msgs), tt.wantFatal)
		}
	}
}

func TestValidateTruncatesTextFields(t *testing.T) {
	long := strings.Repeat("a", validate.MaxTextLen+1)
	got, msgs := validate.Validate(validate.Fields{
		Topic:      strings.Repeat("t", validate.MaxTopicLen+10),
		Minutes:    10,
		Confidence: 3,
		Practiced:  long,
		Challenges: long,
		Wins:       long,
	})
	if len(got.Topic) != validate.MaxTopicLen {
		t.Errorf("topic length = %d, want %d", len(got.Topic), validate.MaxTopicLen)
	}
	for name, s := range map[string]string{
		"practiced": got.Practiced, "challenges": got.Challenges, "wins": got.Wins,
	} {
		if len(s) != validate.MaxTextLen {
			t.Errorf("%s length = %d, want %d", name, len(s), validate.MaxTextLen)
		}
	}
	if validate.HasFatal(msgs) {
		t.Errorf("truncation should be advisory only, got %v", msgs)
	}
	if len(msgs) != 4 {
		t.Errorf("expected 4 truncation advisories, got %d: %v", len(msgs), msgs)
	}
}

func TestValidateFoldsTagWarnings(t *testing.T) {
	_, msgs := validate.Validate(validate.Fields{
		Topic:      "Graphs",
		Minutes:    20,
		Confidence: 4,
		Tags:       strings.Repeat("z", validate.MaxTagLen+1),
	})
	if len(msgs) != 1 || msgs[0].Severity != validate.Advisory {
		t.Fatalf("expected tag advisory to be folded in, got %v", msgs)
	}
}
