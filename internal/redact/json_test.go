package redact

import (
	"strings"
	"testing"
)

func TestJSONRedactor_Redact(t *testing.T) {
	jr := NewJSONRedactor([]string{"email", "password", "ssn"}, "***")

	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{
			name:    "flat object",
			payload: `{"email":"a@b","name":"bob"}`,
			want:    `{"email":"***","name":"bob"}`,
		},
		{
			name:    "nested object",
			payload: `{"user":{"password":"hunter2","id":7}}`,
			want:    `{"user":{"password":"***","id":7}}`,
		},
		{
			name:    "array of objects",
			payload: `{"rows":[{"ssn":"111"},{"ssn":"222","ok":true}]}`,
			want:    `{"rows":[{"ssn":"***"},{"ssn":"***","ok":true}]}`,
		},
		{
			name:    "non-string sensitive value",
			payload: `{"ssn":123456789}`,
			want:    `{"ssn":"***"}`,
		},
		{
			name:    "nothing sensitive",
			payload: `{"name":"bob","age":30}`,
			want:    `{"name":"bob","age":30}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := jr.Redact(tt.payload)
			if !ok {
				t.Fatalf("Redact(%q) reported not-JSON", tt.payload)
			}
			if got != tt.want {
				t.Errorf("Redact(%q) = %q, want %q", tt.payload, got, tt.want)
			}
		})
	}
}

func TestJSONRedactor_FallbackSignal(t *testing.T) {
	jr := NewJSONRedactor([]string{"email"}, "***")

	for _, payload := range []string{
		`{"email":"a@b"`,  // truncated
		`[1,2,3]`,         // not an object
		`email=a@b;`,      // key=value text
		`{broken json!!}`, // garbage
	} {
		if _, ok := jr.Redact(payload); ok {
			t.Errorf("Redact(%q) should report ok=false", payload)
		}
	}
}

func TestJSONRedactor_ValueNeverSurvives(t *testing.T) {
	jr := NewJSONRedactor([]string{"password"}, "***")
	out, ok := jr.Redact(`{"password":"s3cr3t-value","note":"keep"}`)
	if !ok {
		t.Fatal("expected JSON parse to succeed")
	}
	if strings.Contains(out, "s3cr3t-value") {
		t.Errorf("sensitive value survived: %q", out)
	}
	if !strings.Contains(out, "keep") {
		t.Errorf("benign value lost: %q", out)
	}
}
