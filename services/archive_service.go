package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kacemyassine/league-tracker/models"
)

const (
	styleCaptureTimeout = 10 * time.Second
	styleCaptureLimit   = 1 << 20 // 1MB per stylesheet
)

type ArchiveService interface {
	// Archive captures the referenced stylesheets, then freezes the current
	// league snapshot together with the supplied metadata.
	Archive(ctx context.Context, meta models.ArchiveMetadata) (*models.ArchivedLeague, error)
}

type archiveService struct {
	league LeagueService
	client *http.Client
	logger *slog.Logger
}

func NewArchiveService(league LeagueService, client *http.Client, logger *slog.Logger) ArchiveService {
	if client == nil {
		client = &http.Client{Timeout: styleCaptureTimeout}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &archiveService{league: league, client: client, logger: logger}
}

func (s *archiveService) Archive(ctx context.Context, meta models.ArchiveMetadata) (*models.ArchivedLeague, error) {
	if meta.Name == "" {
		return nil, ErrArchiveNameRequired
	}

	meta.Styles = s.captureStyles(ctx, meta.StylesheetURLs)
	return s.league.ArchiveCurrentLeague(ctx, meta)
}

// captureStyles fetches the referenced stylesheets concurrently so archived
// pages keep rendering when the live styles change. A failed fetch degrades
// to storing the bare URL; it never fails the archive.
func (s *archiveService) captureStyles(ctx context.Context, urls []string) []models.CapturedStyle {
	if len(urls) == 0 {
		return nil
	}

	styles := make([]models.CapturedStyle, len(urls))
	g, gctx := errgroup.WithContext(ctx)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			styles[i] = models.CapturedStyle{URL: url}
			css, err := s.fetchStylesheet(gctx, url)
			if err != nil {
				s.logger.Warn("stylesheet capture failed", slog.String("url", url), slog.Any("error", err))
				return nil
			}
			styles[i].CSS = css
			return nil
		})
	}
	// Workers only report failures through the log; Wait just joins them.
	_ = g.Wait()
	return styles
}

func (s *archiveService) fetchStylesheet(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("stylesheet fetch returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, styleCaptureLimit))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
