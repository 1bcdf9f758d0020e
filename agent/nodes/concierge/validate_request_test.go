package conciergenode

import (
	"errors"
	"testing"
	"time"
)

func fixedNow() time.Time {
	return time.Date(2026, 8, 1, 12, 0, 0, 0, time.FixedZone("BRT", -3*3600))
}

func TestValidateRequestNormalizesPhone(t *testing.T) {
	t.Parallel()

	st, err := ValidateRequest(GraphInput{Phone: "(61) 99999-0000", Text: " olá "}, fixedNow)
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	if st.Phone != "61999990000" {
		t.Fatalf("phone not normalized: %q", st.Phone)
	}
	if st.Text != "olá" {
		t.Fatalf("text not trimmed: %q", st.Text)
	}
	if st.SessionID != "61999990000" {
		t.Fatalf("session must default to the phone: %q", st.SessionID)
	}
	if st.Now.Location() != time.UTC {
		t.Fatalf("timestamp not in UTC: %v", st.Now)
	}
}

func TestValidateRequestExplicitSession(t *testing.T) {
	t.Parallel()

	st, err := ValidateRequest(GraphInput{Phone: "61999990000", SessionID: " web-11 ", Text: "oi"}, fixedNow)
	if err != nil {
		t.Fatalf("ValidateRequest() error = %v", err)
	}
	if st.SessionID != "web-11" {
		t.Fatalf("unexpected session: %q", st.SessionID)
	}
}

func TestValidateRequestRejectsBadInput(t *testing.T) {
	t.Parallel()

	if _, err := ValidateRequest(GraphInput{Phone: "sem numero", Text: "oi"}, fixedNow); !errors.Is(err, ErrInvalidPhone) {
		t.Fatalf("expected ErrInvalidPhone, got %v", err)
	}
	if _, err := ValidateRequest(GraphInput{Phone: "61999990000", Text: "   "}, fixedNow); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got %v", err)
	}
}
