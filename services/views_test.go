package services

import (
	"testing"
	"time"

	"github.com/kacemyassine/league-tracker/models"
)

func TestBuildStandingsOrdering(t *testing.T) {
	tests := []struct {
		name  string
		teams []models.Team
		want  []string // expected team ids, in rank order
	}{
		{
			name: "points dominate goal difference",
			teams: []models.Team{
				{ID: "a", Points: 6, GoalsFor: 20, GoalsAgainst: 0},
				{ID: "b", Points: 9, GoalsFor: 1, GoalsAgainst: 0},
			},
			want: []string{"b", "a"},
		},
		{
			name: "goal difference breaks point ties",
			teams: []models.Team{
				{ID: "a", Points: 6, GoalsFor: 5, GoalsAgainst: 4},
				{ID: "b", Points: 6, GoalsFor: 9, GoalsAgainst: 2},
			},
			want: []string{"b", "a"},
		},
		{
			name: "goals scored break goal-difference ties",
			teams: []models.Team{
				{ID: "a", Points: 6, GoalsFor: 3, GoalsAgainst: 1},
				{ID: "b", Points: 6, GoalsFor: 7, GoalsAgainst: 5},
			},
			want: []string{"b", "a"},
		},
		{
			name: "full ties keep input order",
			teams: []models.Team{
				{ID: "first", Points: 3, GoalsFor: 2, GoalsAgainst: 1},
				{ID: "second", Points: 3, GoalsFor: 2, GoalsAgainst: 1},
			},
			want: []string{"first", "second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			standings := BuildStandings(tt.teams)
			if len(standings) != len(tt.want) {
				t.Fatalf("got %d rows, want %d", len(standings), len(tt.want))
			}
			for i, id := range tt.want {
				if standings[i].Team.ID != id {
					t.Errorf("rank %d = %s, want %s", i+1, standings[i].Team.ID, id)
				}
				if standings[i].Rank != i+1 {
					t.Errorf("rank field = %d, want %d", standings[i].Rank, i+1)
				}
			}
		})
	}
}

func TestBuildStandingsDoesNotMutateInput(t *testing.T) {
	teams := []models.Team{
		{ID: "a", Points: 1},
		{ID: "b", Points: 5},
	}
	BuildStandings(teams)
	if teams[0].ID != "a" || teams[1].ID != "b" {
		t.Errorf("input slice reordered: %+v", teams)
	}
}

func TestBuildTopScorers(t *testing.T) {
	players := []models.Player{
		{ID: "mid", Goals: 3},
		{ID: "top", Goals: 9},
		{ID: "tied-first", Goals: 3},
		{ID: "zero", Goals: 0},
	}

	scorers := BuildTopScorers(players)
	gotOrder := []string{scorers[0].Player.ID, scorers[1].Player.ID, scorers[2].Player.ID, scorers[3].Player.ID}
	wantOrder := []string{"top", "mid", "tied-first", "zero"}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("order = %v, want %v", gotOrder, wantOrder)
		}
	}
}

func TestBuildPointsProgression(t *testing.T) {
	day := func(d int) time.Time {
		return time.Date(2025, 4, d, 20, 0, 0, 0, time.UTC)
	}
	snap := &models.LeagueSnapshot{
		Teams: []models.Team{
			{ID: "a", Name: "A"},
			{ID: "b", Name: "B"},
			{ID: "idle", Name: "Idle"},
		},
		// Out of date order on purpose; the fold must sort first.
		Matches: []models.Match{
			{ID: "m2", HomeTeamID: "a", AwayTeamID: "b", HomeGoals: 1, AwayGoals: 1, Date: day(2)},
			{ID: "m1", HomeTeamID: "b", AwayTeamID: "a", HomeGoals: 0, AwayGoals: 2, Date: day(1)},
		},
	}

	progressions := BuildPointsProgression(snap)
	byTeam := map[string]models.PointsProgression{}
	for _, p := range progressions {
		byTeam[p.TeamID] = p
	}

	a := byTeam["a"].Series
	if len(a) != 2 || a[0].Points != 3 || a[1].Points != 4 {
		t.Errorf("team a series = %+v, want cumulative 3 then 4", a)
	}
	b := byTeam["b"].Series
	if len(b) != 2 || b[0].Points != 0 || b[1].Points != 1 {
		t.Errorf("team b series = %+v, want cumulative 0 then 1", b)
	}
	if idle := byTeam["idle"].Series; len(idle) != 0 {
		t.Errorf("idle team should have an empty series, got %+v", idle)
	}
}
