package models

type MatchID string

// Snapshot is one received update describing the current state of a match.
type Snapshot struct {
	MatchID    MatchID
	HomeTeam   string
	AwayTeam   string
	HomeScore  int32
	AwayScore  int32
	Status     string
	LastEvent  string
	Possession int32
	Shots      int32
	Fouls      int32
	Cards      []string
}

type StatusCode uint32

const StatusOK StatusCode = 0

type StatusReport struct {
	Code    StatusCode
	Details string
}

func (r StatusReport) OK() bool {
	return r.Code == StatusOK
}

// Update is a single stream item. Exactly one of Snapshot or Status is set.
type Update struct {
	Snapshot *Snapshot
	Status   *StatusReport
}
