package models

import "time"

// CapturedStyle is a stylesheet snapshotted at archive time so archived
// pages keep rendering after the live site changes. CSS may be empty when
// the capture failed; the URL is kept either way.
type CapturedStyle struct {
	URL string `json:"url"`
	CSS string `json:"css,omitempty"`
}

// ArchiveMetadata is the descriptive part of an archive, supplied by the
// admin when closing out a season.
type ArchiveMetadata struct {
	Name           string          `json:"name"`
	CoverImage     string          `json:"coverImage,omitempty"`
	Description    string          `json:"description,omitempty"` // free-text/HTML
	StylesheetURLs []string        `json:"stylesheetUrls,omitempty"`
	Styles         []CapturedStyle `json:"styles,omitempty"`
}

// ArchivedLeague is a frozen snapshot of a completed season. It is never
// mutated after creation.
type ArchivedLeague struct {
	ID         string          `json:"id"`
	Metadata   ArchiveMetadata `json:"metadata"`
	Snapshot   LeagueSnapshot  `json:"snapshot"`
	ArchivedAt time.Time       `json:"archivedAt"`
}
