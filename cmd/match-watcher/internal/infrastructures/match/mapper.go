package match

import (
	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/models"
	matchv1 "github.com/ozzus/fan-live/protos/gen/go/match/v1"
)

func ToSnapshot(resp *matchv1.MatchResponse) models.Snapshot {
	var cards []string
	if src := resp.GetCards(); len(src) > 0 {
		cards = append(make([]string, 0, len(src)), src...)
	}

	return models.Snapshot{
		MatchID:    models.MatchID(resp.GetMatchId()),
		HomeTeam:   resp.GetHomeTeam(),
		AwayTeam:   resp.GetAwayTeam(),
		HomeScore:  resp.GetHomeScore(),
		AwayScore:  resp.GetAwayScore(),
		Status:     resp.GetStatus(),
		LastEvent:  resp.GetLastEvent(),
		Possession: resp.GetPossession(),
		Shots:      resp.GetShots(),
		Fouls:      resp.GetFouls(),
		Cards:      cards,
	}
}
