package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/nao1215/userscan/internal/catalog"
	"github.com/nao1215/userscan/internal/model"
)

// TestExtractTags tests that non-EXIF data is handled gracefully.
func TestExtractTags(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"not an image", []byte("hello world")},
		{"png header without exif", []byte("\x89PNG\r\n\x1a\n0000")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ExtractTags(tt.data); len(got) != 0 {
				t.Errorf("ExtractTags = %v, want none", got)
			}
		})
	}
}

// TestAvatarEXIFEnrich tests the enrichment walk: which results trigger a
// fetch and that failures never alter verdicts.
func TestAvatarEXIFEnrich(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches.Add(1)
		_, _ = w.Write([]byte("no exif here"))
	}))
	defer srv.Close()

	cat := &catalog.Catalog{Sites: []catalog.Descriptor{
		{Name: "with-avatar", URLTemplate: "https://a.example/{}", AvatarURLTemplate: srv.URL + "/{}.jpg"},
		{Name: "no-avatar", URLTemplate: "https://b.example/{}"},
	}}

	report := &model.RunReport{Results: []model.TaskVerdict{
		{
			Task:    model.ProbeTask{SiteName: "with-avatar", Username: "alice"},
			Verdict: model.Verdict{Kind: model.VerdictFound},
		},
		{
			Task:    model.ProbeTask{SiteName: "no-avatar", Username: "alice"},
			Verdict: model.Verdict{Kind: model.VerdictFound},
		},
		{
			Task:    model.ProbeTask{SiteName: "with-avatar", Username: "bob"},
			Verdict: model.Verdict{Kind: model.VerdictNotFound},
		},
	}}

	pass := NewAvatarEXIF(srv.Client())
	pass.Enrich(context.Background(), report, cat)

	if fetches.Load() != 1 {
		t.Errorf("fetches = %d, want 1 (only Found results on avatar sites)", fetches.Load())
	}
	for i, r := range report.Results {
		if len(r.Verdict.Metadata) != 0 {
			t.Errorf("result[%d] gained metadata from an EXIF-free image: %v", i, r.Verdict.Metadata)
		}
	}
	if report.Results[2].Verdict.Kind != model.VerdictNotFound {
		t.Error("enrichment must never change a verdict kind")
	}
}

// TestAvatarEXIFEnrichCancelled tests that a cancelled context stops the
// pass without fetching.
func TestAvatarEXIFEnrichCancelled(t *testing.T) {
	t.Parallel()

	var fetches atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fetches.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cat := &catalog.Catalog{Sites: []catalog.Descriptor{
		{Name: "s", URLTemplate: "https://a.example/{}", AvatarURLTemplate: srv.URL + "/{}.jpg"},
	}}
	report := &model.RunReport{Results: []model.TaskVerdict{
		{
			Task:    model.ProbeTask{SiteName: "s", Username: "alice"},
			Verdict: model.Verdict{Kind: model.VerdictFound},
		},
	}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewAvatarEXIF(srv.Client()).Enrich(ctx, report, cat)
	if fetches.Load() != 0 {
		t.Errorf("fetches = %d, want 0 after cancellation", fetches.Load())
	}
}
