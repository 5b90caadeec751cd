package services

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kacemyassine/league-tracker/models"
)

func TestArchiveCapturesStylesheets(t *testing.T) {
	const css = "body { background: navy; }"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/theme.css" {
			w.Header().Set("Content-Type", "text/css")
			w.Write([]byte(css))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	league, _ := newTestLeague(t)
	archiver := NewArchiveService(league, server.Client(), testLogger())

	archive, err := archiver.Archive(context.Background(), models.ArchiveMetadata{
		Name:           "Season 2024/25",
		StylesheetURLs: []string{server.URL + "/theme.css", server.URL + "/missing.css"},
	})
	if err != nil {
		t.Fatalf("Archive: %v", err)
	}

	styles := archive.Metadata.Styles
	if len(styles) != 2 {
		t.Fatalf("captured %d styles, want 2", len(styles))
	}
	if styles[0].CSS != css {
		t.Errorf("captured CSS = %q, want %q", styles[0].CSS, css)
	}
	// A failed capture keeps the URL and degrades to empty CSS.
	if styles[1].URL == "" || styles[1].CSS != "" {
		t.Errorf("failed capture should keep the bare URL, got %+v", styles[1])
	}

	if len(archive.Snapshot.Teams) != len(league.Teams()) {
		t.Errorf("archive snapshot incomplete")
	}
}

func TestArchiveRequiresName(t *testing.T) {
	league, _ := newTestLeague(t)
	archiver := NewArchiveService(league, nil, testLogger())

	if _, err := archiver.Archive(context.Background(), models.ArchiveMetadata{}); !errors.Is(err, ErrArchiveNameRequired) {
		t.Errorf("Archive error = %v, want ErrArchiveNameRequired", err)
	}
}
