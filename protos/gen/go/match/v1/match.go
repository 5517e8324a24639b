// Package matchv1 holds the client contract of the match update service:
// request/response messages and the MatchService stubs. Messages travel in
// the protobuf wire format (wire.go, codec.go); the json tags match the
// frames the WebSocket hub sends.
package matchv1

type MatchRequest struct {
	MatchId string `json:"match_id,omitempty"`
}

func (x *MatchRequest) GetMatchId() string {
	if x != nil {
		return x.MatchId
	}
	return ""
}

type MatchResponse struct {
	MatchId    string   `json:"match_id,omitempty"`
	HomeTeam   string   `json:"home_team,omitempty"`
	AwayTeam   string   `json:"away_team,omitempty"`
	Status     string   `json:"status,omitempty"`
	HomeScore  int32    `json:"home_score,omitempty"`
	AwayScore  int32    `json:"away_score,omitempty"`
	LastEvent  string   `json:"last_event,omitempty"`
	Possession int32    `json:"possession,omitempty"`
	Shots      int32    `json:"shots,omitempty"`
	Fouls      int32    `json:"fouls,omitempty"`
	Cards      []string `json:"cards,omitempty"`
}

func (x *MatchResponse) GetMatchId() string {
	if x != nil {
		return x.MatchId
	}
	return ""
}

func (x *MatchResponse) GetHomeTeam() string {
	if x != nil {
		return x.HomeTeam
	}
	return ""
}

func (x *MatchResponse) GetAwayTeam() string {
	if x != nil {
		return x.AwayTeam
	}
	return ""
}

func (x *MatchResponse) GetStatus() string {
	if x != nil {
		return x.Status
	}
	return ""
}

func (x *MatchResponse) GetHomeScore() int32 {
	if x != nil {
		return x.HomeScore
	}
	return 0
}

func (x *MatchResponse) GetAwayScore() int32 {
	if x != nil {
		return x.AwayScore
	}
	return 0
}

func (x *MatchResponse) GetLastEvent() string {
	if x != nil {
		return x.LastEvent
	}
	return ""
}

func (x *MatchResponse) GetPossession() int32 {
	if x != nil {
		return x.Possession
	}
	return 0
}

func (x *MatchResponse) GetShots() int32 {
	if x != nil {
		return x.Shots
	}
	return 0
}

func (x *MatchResponse) GetFouls() int32 {
	if x != nil {
		return x.Fouls
	}
	return 0
}

func (x *MatchResponse) GetCards() []string {
	if x != nil {
		return x.Cards
	}
	return nil
}

type UpdateMatchEventRequest struct {
	MatchId         string `json:"match_id,omitempty"`
	EventType       string `json:"event_type,omitempty"`
	Description     string `json:"description,omitempty"`
	HomeScoreChange int32  `json:"home_score_change,omitempty"`
	AwayScoreChange int32  `json:"away_score_change,omitempty"`
	CardColor       string `json:"card_color,omitempty"`
}

func (x *UpdateMatchEventRequest) GetMatchId() string {
	if x != nil {
		return x.MatchId
	}
	return ""
}

func (x *UpdateMatchEventRequest) GetEventType() string {
	if x != nil {
		return x.EventType
	}
	return ""
}

func (x *UpdateMatchEventRequest) GetDescription() string {
	if x != nil {
		return x.Description
	}
	return ""
}

func (x *UpdateMatchEventRequest) GetHomeScoreChange() int32 {
	if x != nil {
		return x.HomeScoreChange
	}
	return 0
}

func (x *UpdateMatchEventRequest) GetAwayScoreChange() int32 {
	if x != nil {
		return x.AwayScoreChange
	}
	return 0
}

func (x *UpdateMatchEventRequest) GetCardColor() string {
	if x != nil {
		return x.CardColor
	}
	return ""
}
