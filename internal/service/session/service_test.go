package session

import (
	"errors"
	"strings"
	"testing"
)

func TestIssueAndValidate(t *testing.T) {
	svc := New()
	id := svc.Issue()
	if id == svc.Issue() {
		t.Fatalf("expected unique session ids")
	}
	got, err := svc.Validate(strings.ToUpper(id))
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got != id {
		t.Fatalf("expected normalised id %s, got %s", id, got)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	svc := New()
	for _, id := range []string{"", "abc", "../../etc/passwd"} {
		if _, err := svc.Validate(id); !errors.Is(err, ErrInvalidSession) {
			t.Fatalf("expected ErrInvalidSession for %q, got %v", id, err)
		}
	}
	if svc.TTLSeconds() != 30*24*3600 {
		t.Fatalf("unexpected ttl %d", svc.TTLSeconds())
	}
}
