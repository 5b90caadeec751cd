package models

// LeagueSnapshot is the full serializable state of the league at a point in
// time. The JSON shape is shared between local storage and the remote
// document, so field names must not change.
type LeagueSnapshot struct {
	Teams   []Team   `json:"teams"`
	Players []Player `json:"players"`
	Matches []Match  `json:"matches"`
}

// Normalize replaces nil collections with empty ones so the encoded document
// always carries the three arrays.
func (s *LeagueSnapshot) Normalize() {
	if s.Teams == nil {
		s.Teams = []Team{}
	}
	if s.Players == nil {
		s.Players = []Player{}
	}
	if s.Matches == nil {
		s.Matches = []Match{}
	}
}

// Clone returns a deep copy. Callers outside the engine only ever see copies.
func (s *LeagueSnapshot) Clone() *LeagueSnapshot {
	out := &LeagueSnapshot{
		Teams:   make([]Team, len(s.Teams)),
		Players: make([]Player, len(s.Players)),
		Matches: make([]Match, len(s.Matches)),
	}
	copy(out.Teams, s.Teams)
	for i, p := range s.Players {
		if p.Image != nil {
			img := *p.Image
			p.Image = &img
		}
		out.Players[i] = p
	}
	for i, m := range s.Matches {
		if m.Scorers != nil {
			scorers := make([]ScorerEvent, len(m.Scorers))
			copy(scorers, m.Scorers)
			m.Scorers = scorers
		}
		out.Matches[i] = m
	}
	return out
}

// TeamByID returns a pointer into the snapshot's team slice, or nil.
func (s *LeagueSnapshot) TeamByID(id string) *Team {
	for i := range s.Teams {
		if s.Teams[i].ID == id {
			return &s.Teams[i]
		}
	}
	return nil
}

// PlayerByID returns a pointer into the snapshot's player slice, or nil.
func (s *LeagueSnapshot) PlayerByID(id string) *Player {
	for i := range s.Players {
		if s.Players[i].ID == id {
			return &s.Players[i]
		}
	}
	return nil
}

// MatchIndex returns the position of the match in the log, or -1.
func (s *LeagueSnapshot) MatchIndex(id string) int {
	for i := range s.Matches {
		if s.Matches[i].ID == id {
			return i
		}
	}
	return -1
}
