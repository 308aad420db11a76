package logging

import (
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/coffersTech/logveil/internal/policy"
)

var testTime = time.Date(2019, time.June, 19, 15, 4, 5, 42_000_000, time.UTC)

func TestFormatter_Format(t *testing.T) {
	f, err := NewFormatter(policy.Default())
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}

	got := string(f.Format("user_data", slog.LevelInfo, testTime, "name=Bob;email=bob@x.com;password=hunter2;", ""))
	want := "[LOGVEIL] user_data INFO 2019-06-19 15:04:05,042: name=Bob;email=***;password=***;\n"
	if got != want {
		t.Errorf("Format = %q, want %q", got, want)
	}
}

func TestFormatter_RedactsPayloadOnly(t *testing.T) {
	// A logger literally named "email" must keep its name in the frame even
	// though "email" is a sensitive field; only the payload is redacted.
	f, err := NewFormatter(policy.Default())
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	got := string(f.Format("email", slog.LevelWarn, testTime, "email=a@b;", ""))
	if !strings.HasPrefix(got, "[LOGVEIL] email WARN ") {
		t.Errorf("frame was redacted: %q", got)
	}
	if !strings.Contains(got, "email=***;") {
		t.Errorf("payload was not redacted: %q", got)
	}
}

func TestFormatter_JSONPayload(t *testing.T) {
	f, err := NewFormatter(policy.Default())
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}

	got := string(f.Format("api", slog.LevelInfo, testTime, `{"email":"a@b","name":"bob"}`, ""))
	if !strings.Contains(got, `"email":"***"`) {
		t.Errorf("JSON field not masked: %q", got)
	}
	if !strings.Contains(got, `"name":"bob"`) {
		t.Errorf("benign JSON field altered: %q", got)
	}

	// Broken JSON falls back to key=value matching.
	got = string(f.Format("api", slog.LevelInfo, testTime, `{"oops"; email=a@b;`, ""))
	if !strings.Contains(got, "email=***;") {
		t.Errorf("fallback matching did not run: %q", got)
	}
}

func TestFormatter_AttrTail(t *testing.T) {
	f, err := NewFormatter(policy.Default())
	if err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}

	// The tail is redacted on its own; a JSON message stays parseable and
	// both sides come out masked.
	got := string(f.Format("api", slog.LevelInfo, testTime, `{"email":"a@b","name":"bob"}`, "password=hunter2;attempts=3"))
	if !strings.Contains(got, `"email":"***"`) {
		t.Errorf("JSON field not masked with attr tail present: %q", got)
	}
	if !strings.Contains(got, "password=***") || !strings.Contains(got, "attempts=3") {
		t.Errorf("attr tail not redacted correctly: %q", got)
	}
	if strings.Contains(got, "a@b") || strings.Contains(got, "hunter2") {
		t.Errorf("sensitive value survived: %q", got)
	}

	// Plain messages join the tail with one separator, no doubling when the
	// message already ends with it.
	got = string(f.Format("api", slog.LevelInfo, testTime, "user=alice;", "attempts=3"))
	if !strings.Contains(got, ": user=alice;attempts=3\n") {
		t.Errorf("tail join doubled the separator: %q", got)
	}
	got = string(f.Format("api", slog.LevelInfo, testTime, "login ok", "attempts=3"))
	if !strings.Contains(got, ": login ok;attempts=3\n") {
		t.Errorf("tail join missing separator: %q", got)
	}
}

func TestNewFormatter_RejectsInvalidPolicy(t *testing.T) {
	if _, err := NewFormatter(policy.Policy{Mask: "***", Separator: ";"}); err == nil {
		t.Error("empty field set should fail construction")
	}
	if _, err := NewFormatter(policy.Policy{Fields: []string{"email"}, Mask: "***", Separator: "ab"}); err == nil {
		t.Error("multi-character separator should fail construction")
	}
}

func TestNewFormatter_DoesNotMutateFields(t *testing.T) {
	fields := []string{"email", "email", "ssn"}
	p := policy.Policy{Fields: fields, Mask: "***", Separator: ";"}
	if _, err := NewFormatter(p); err != nil {
		t.Fatalf("NewFormatter: %v", err)
	}
	if fields[0] != "email" || fields[1] != "email" || fields[2] != "ssn" {
		t.Errorf("caller slice mutated: %v", fields)
	}
}
