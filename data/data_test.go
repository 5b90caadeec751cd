package data

import "testing"

func TestDefaultSnapshot(t *testing.T) {
	snap := DefaultSnapshot()

	if len(snap.Teams) != 8 {
		t.Fatalf("teams = %d, want 8", len(snap.Teams))
	}
	if len(snap.Players) != 24 {
		t.Fatalf("players = %d, want 24", len(snap.Players))
	}
	if len(snap.Matches) != 0 {
		t.Errorf("matches = %d, want an empty log", len(snap.Matches))
	}

	teamIDs := make(map[string]bool, len(snap.Teams))
	for _, team := range snap.Teams {
		if team.ID == "" || team.Name == "" {
			t.Errorf("team missing identity: %+v", team)
		}
		if teamIDs[team.ID] {
			t.Errorf("duplicate team id %q", team.ID)
		}
		teamIDs[team.ID] = true

		if team.Played != 0 || team.Won != 0 || team.Drawn != 0 || team.Lost != 0 ||
			team.GoalsFor != 0 || team.GoalsAgainst != 0 || team.Points != 0 {
			t.Errorf("team %s starts with non-zero aggregates: %+v", team.ID, team)
		}
	}

	seen := make(map[string]bool, len(snap.Players))
	for _, player := range snap.Players {
		if !teamIDs[player.TeamID] {
			t.Errorf("player %s references unknown team %q", player.ID, player.TeamID)
		}
		if seen[player.ID] {
			t.Errorf("duplicate player id %q", player.ID)
		}
		seen[player.ID] = true
		if player.Goals != 0 {
			t.Errorf("player %s starts with %d goals", player.ID, player.Goals)
		}
	}
}

func TestDefaultSnapshotReturnsFreshCopies(t *testing.T) {
	first := DefaultSnapshot()
	first.Teams[0].Points = 99
	first.Players[0].Goals = 7

	second := DefaultSnapshot()
	if second.Teams[0].Points != 0 || second.Players[0].Goals != 0 {
		t.Errorf("mutating one copy leaked into the next: %+v", second.Teams[0])
	}
}
