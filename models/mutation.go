package models

import "time"

// The engine never writes to storage itself. Every change it wants is
// returned as one of the intents below and executed by the hosting layer.

// InsertMatches asks storage to insert new match rows: a generated schedule
// or a freshly created knockout stage.
type InsertMatches struct {
	Stage   MatchType `json:"stage"`
	Matches []Match   `json:"matches"`
}

// ResultUpdate sets a match's score, technical flag and date and replaces its
// goal events as a whole (delete-then-insert, not a merge).
type ResultUpdate struct {
	MatchID     int        `json:"match_id"`
	HomeGoals   *int       `json:"home_goals"`
	AwayGoals   *int       `json:"away_goals"`
	Played      bool       `json:"played"`
	IsTechnical bool       `json:"is_technical"`
	MatchDate   *time.Time `json:"match_date,omitempty"`
	Goals       []Goal     `json:"goals"`
}

// DeleteStages removes every match of the given types.
type DeleteStages struct {
	Types []MatchType `json:"types"`
}

// ClearResult resets a match to unplayed, drops its goals and removes every
// knockout stage whose participants were derived from it.
type ClearResult struct {
	Reset   ResultUpdate `json:"reset"`
	Cascade DeleteStages `json:"cascade"`
}
