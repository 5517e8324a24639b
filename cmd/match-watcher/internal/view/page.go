// Package view holds the page the watcher renders into: a fixed set of
// elements addressed by id, each with a text and a visibility flag.
package view

import (
	"fmt"
	"sync"

	"github.com/ozzus/fan-live/cmd/match-watcher/internal/domain/models"
)

const (
	ElementLoading      = "loading"
	ElementError        = "error"
	ElementMatchDisplay = "match-display"
	ElementTeamNames    = "team-names"
	ElementScore        = "score"
	ElementStatus       = "status"
	ElementLastEvent    = "last-event"
	ElementSimulateGoal = "simulate-goal-btn"
)

const (
	placeholderHome      = "Home"
	placeholderAway      = "Away"
	placeholderLastEvent = "N/A"

	loadingText = "Loading match data..."
)

// State is a copy of the page at one point in time.
type State struct {
	LoadingVisible bool   `json:"loading_visible"`
	ErrorVisible   bool   `json:"error_visible"`
	MatchVisible   bool   `json:"match_visible"`
	LoadingText    string `json:"loading_text"`
	ErrorText      string `json:"error_text"`
	TeamNames      string `json:"team_names"`
	Score          string `json:"score"`
	Status         string `json:"status"`
	LastEvent      string `json:"last_event"`
	Version        uint64 `json:"version"`
}

// Text returns the text content of the element with the given id.
func (s State) Text(id string) string {
	switch id {
	case ElementLoading:
		return s.LoadingText
	case ElementError:
		return s.ErrorText
	case ElementTeamNames:
		return s.TeamNames
	case ElementScore:
		return s.Score
	case ElementStatus:
		return s.Status
	case ElementLastEvent:
		return s.LastEvent
	default:
		return ""
	}
}

// Visible reports whether a panel is shown. Elements inside the match panel
// follow it.
func (s State) Visible(id string) bool {
	switch id {
	case ElementLoading:
		return s.LoadingVisible
	case ElementError:
		return s.ErrorVisible
	case ElementMatchDisplay, ElementTeamNames, ElementScore, ElementStatus, ElementLastEvent:
		return s.MatchVisible
	case ElementSimulateGoal:
		return true
	default:
		return false
	}
}

type Page struct {
	mu        sync.RWMutex
	state     State
	observers []func(State)
}

func NewPage() *Page {
	return &Page{
		state: State{
			LoadingVisible: true,
			LoadingText:    loadingText,
		},
	}
}

// Observe registers fn to be called with the new state after every change.
// Observers run synchronously on the writer's goroutine.
func (p *Page) Observe(fn func(State)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, fn)
}

func (p *Page) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

func (p *Page) ShowMatch(snapshot models.Snapshot) {
	p.update(func(s *State) {
		s.TeamNames = fmt.Sprintf("%s vs %s",
			orDefault(snapshot.HomeTeam, placeholderHome),
			orDefault(snapshot.AwayTeam, placeholderAway),
		)
		s.Score = fmt.Sprintf("%d - %d", snapshot.HomeScore, snapshot.AwayScore)
		s.Status = fmt.Sprintf("Status: %s", snapshot.Status)
		s.LastEvent = fmt.Sprintf("Last Event: %s", orDefault(snapshot.LastEvent, placeholderLastEvent))

		s.LoadingVisible = false
		s.ErrorVisible = false
		s.MatchVisible = true
	})
}

func (p *Page) ShowError(message string) {
	p.update(func(s *State) {
		s.LoadingVisible = false
		s.MatchVisible = false
		s.ErrorVisible = true
		s.ErrorText = errorText(message)
	})
}

// ShowStatusError reports a non-OK stream status. The match panel keeps
// whatever visibility it had.
func (p *Page) ShowStatusError(message string) {
	p.update(func(s *State) {
		s.LoadingVisible = false
		s.ErrorVisible = true
		s.ErrorText = errorText(message)
	})
}

func (p *Page) update(fn func(*State)) {
	p.mu.Lock()
	fn(&p.state)
	p.state.Version++
	state := p.state
	observers := make([]func(State), len(p.observers))
	copy(observers, p.observers)
	p.mu.Unlock()

	for _, observe := range observers {
		observe(state)
	}
}

func errorText(message string) string {
	return "Error: " + message
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
