package handlers

import (
	"html/template"
	"net/http"

	"github.com/ozzus/fan-live/cmd/match-watcher/internal/view"
	"go.uber.org/zap"
)

type StateReader interface {
	State() view.State
}

type PageHandler struct {
	log  *zap.Logger
	page StateReader
}

func NewPageHandler(log *zap.Logger, page StateReader) *PageHandler {
	return &PageHandler{log: log, page: page}
}

type pageData struct {
	State view.State
	IDs   pageIDs
}

type pageIDs struct {
	Loading, Error, MatchDisplay, TeamNames, Score, Status, LastEvent, SimulateGoal string
}

var ids = pageIDs{
	Loading:      view.ElementLoading,
	Error:        view.ElementError,
	MatchDisplay: view.ElementMatchDisplay,
	TeamNames:    view.ElementTeamNames,
	Score:        view.ElementScore,
	Status:       view.ElementStatus,
	LastEvent:    view.ElementLastEvent,
	SimulateGoal: view.ElementSimulateGoal,
}

func (h *PageHandler) Index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, pageData{State: h.page.State(), IDs: ids}); err != nil {
		h.log.Error("render page failed", zap.Error(err))
	}
}

func (h *PageHandler) State(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.page.State())
}

var pageTemplate = template.Must(template.New("page").Funcs(template.FuncMap{
	"display": func(visible bool) string {
		if visible {
			return "block"
		}
		return "none"
	},
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="2">
<title>Live Match</title>
</head>
<body>
<div id="{{.IDs.Loading}}" style="display: {{display .State.LoadingVisible}}">{{.State.LoadingText}}</div>
<div id="{{.IDs.Error}}" style="display: {{display .State.ErrorVisible}}">{{.State.ErrorText}}</div>
<div id="{{.IDs.MatchDisplay}}" style="display: {{display .State.MatchVisible}}">
  <h2 id="{{.IDs.TeamNames}}">{{.State.TeamNames}}</h2>
  <p id="{{.IDs.Score}}">{{.State.Score}}</p>
  <p id="{{.IDs.Status}}">{{.State.Status}}</p>
  <p id="{{.IDs.LastEvent}}">{{.State.LastEvent}}</p>
</div>
<button id="{{.IDs.SimulateGoal}}" onclick="fetch('/api/simulate-goal', {method: 'POST'}).then(function () { location.reload(); })">Simulate Goal</button>
</body>
</html>
`))
