package model

import (
	"encoding/json"
	"testing"
)

// TestVerdictKindString tests the string form of each verdict kind.
func TestVerdictKindString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind VerdictKind
		want string
	}{
		{VerdictFound, "found"},
		{VerdictNotFound, "not_found"},
		{VerdictUncertain, "uncertain"},
		{VerdictSkipped, "skipped"},
		{VerdictError, "error"},
		{VerdictKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("VerdictKind(%d).String() = %q, want %q", int(tt.kind), got, tt.want)
		}
	}
}

// TestVerdictKindMarshalJSON tests that kinds serialize as strings.
func TestVerdictKindMarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(Verdict{Kind: VerdictUncertain, Reason: "rate limited"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `{"verdict":"uncertain","reason":"rate limited"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

// TestVerdictWithMetadata tests that WithMetadata copies rather than mutates.
func TestVerdictWithMetadata(t *testing.T) {
	t.Parallel()

	base := Verdict{Kind: VerdictFound}
	withBio := base.WithMetadata("bio", "gopher")

	if base.Metadata != nil {
		t.Error("original verdict must not be modified")
	}
	if withBio.Metadata["bio"] != "gopher" {
		t.Errorf("metadata not attached: %v", withBio.Metadata)
	}

	second := withBio.WithMetadata("exif.Make", "Canon")
	if len(withBio.Metadata) != 1 {
		t.Error("WithMetadata must not mutate the receiver's map")
	}
	if len(second.Metadata) != 2 {
		t.Errorf("expected 2 metadata entries, got %d", len(second.Metadata))
	}
}
