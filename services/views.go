package services

import (
	"sort"

	"github.com/kacemyassine/league-tracker/models"
)

// Derived views are pure functions over the engine's collections; they are
// recomputed on every read and never stored.

// BuildStandings ranks teams by points, then goal difference, then goals
// scored. The sort is stable, so teams with fully equal keys keep their
// input order (no further tie-break is defined).
func BuildStandings(teams []models.Team) []models.Standing {
	ranked := make([]models.Team, len(teams))
	copy(ranked, teams)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Points != ranked[j].Points {
			return ranked[i].Points > ranked[j].Points
		}
		di, dj := ranked[i].GoalDifference(), ranked[j].GoalDifference()
		if di != dj {
			return di > dj
		}
		return ranked[i].GoalsFor > ranked[j].GoalsFor
	})

	standings := make([]models.Standing, len(ranked))
	for i, t := range ranked {
		standings[i] = models.Standing{
			Rank:           i + 1,
			Team:           t,
			GoalDifference: t.GoalDifference(),
		}
	}
	return standings
}

// BuildTopScorers ranks players by goals, stable for ties.
func BuildTopScorers(players []models.Player) []models.ScorerRank {
	ranked := make([]models.Player, len(players))
	copy(ranked, players)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Goals > ranked[j].Goals
	})

	scorers := make([]models.ScorerRank, len(ranked))
	for i, p := range ranked {
		scorers[i] = models.ScorerRank{Rank: i + 1, Player: p}
	}
	return scorers
}

// BuildPointsProgression folds the match log in date order into a
// cumulative points series per team, for the points-over-time chart.
func BuildPointsProgression(snap *models.LeagueSnapshot) []models.PointsProgression {
	matches := make([]models.Match, len(snap.Matches))
	copy(matches, snap.Matches)
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Date.Before(matches[j].Date)
	})

	running := make(map[string]int, len(snap.Teams))
	series := make(map[string][]models.PointsSample, len(snap.Teams))

	for _, m := range matches {
		var homePts, awayPts int
		switch {
		case m.HomeWin():
			homePts = 3
		case m.AwayWin():
			awayPts = 3
		default:
			homePts, awayPts = 1, 1
		}
		running[m.HomeTeamID] += homePts
		running[m.AwayTeamID] += awayPts
		series[m.HomeTeamID] = append(series[m.HomeTeamID], models.PointsSample{Date: m.Date, Points: running[m.HomeTeamID]})
		series[m.AwayTeamID] = append(series[m.AwayTeamID], models.PointsSample{Date: m.Date, Points: running[m.AwayTeamID]})
	}

	out := make([]models.PointsProgression, 0, len(snap.Teams))
	for _, t := range snap.Teams {
		s := series[t.ID]
		if s == nil {
			s = []models.PointsSample{}
		}
		out = append(out, models.PointsProgression{TeamID: t.ID, TeamName: t.Name, Series: s})
	}
	return out
}
