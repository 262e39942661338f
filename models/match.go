package models

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MatchType is the stage a match belongs to. The set is closed: group plus
// the four knockout stages.
type MatchType string

const (
	MatchTypeGroup MatchType = "group"
	MatchTypeQual  MatchType = "qual"
	MatchTypeQF    MatchType = "qf"
	MatchTypeSF    MatchType = "sf"
	MatchTypeFinal MatchType = "final"
)

// KnockoutStages lists the knockout stages in bracket order.
var KnockoutStages = []MatchType{MatchTypeQual, MatchTypeQF, MatchTypeSF, MatchTypeFinal}

func ParseMatchType(s string) (MatchType, error) {
	switch t := MatchType(strings.ToLower(strings.TrimSpace(s))); t {
	case MatchTypeGroup, MatchTypeQual, MatchTypeQF, MatchTypeSF, MatchTypeFinal:
		return t, nil
	default:
		return "", fmt.Errorf("unknown match type %q", s)
	}
}

func (t MatchType) Valid() bool {
	_, err := ParseMatchType(string(t))
	return err == nil
}

func (t MatchType) IsKnockout() bool {
	return t.Valid() && t != MatchTypeGroup
}

// Order returns the position of the stage in the tournament: group=0 ... final=4.
func (t MatchType) Order() int {
	switch t {
	case MatchTypeGroup:
		return 0
	case MatchTypeQual:
		return 1
	case MatchTypeQF:
		return 2
	case MatchTypeSF:
		return 3
	case MatchTypeFinal:
		return 4
	default:
		return -1
	}
}

// Downstream returns the knockout stages strictly after t. Their participants
// are derived from t's results.
func (t MatchType) Downstream() []MatchType {
	switch t {
	case MatchTypeQual:
		return []MatchType{MatchTypeQF, MatchTypeSF, MatchTypeFinal}
	case MatchTypeQF:
		return []MatchType{MatchTypeSF, MatchTypeFinal}
	case MatchTypeSF:
		return []MatchType{MatchTypeFinal}
	default:
		return nil
	}
}

// Slot is the stable bracket position of a knockout match, independent of
// its storage id. Its text form (q1, qf3, sf2, final) is what gets persisted.
type Slot struct {
	Stage    MatchType `json:"stage"`
	Position int       `json:"position"`
}

var slotPrefixes = map[MatchType]string{
	MatchTypeQual:  "q",
	MatchTypeQF:    "qf",
	MatchTypeSF:    "sf",
	MatchTypeFinal: "final",
}

// SlotsPerStage is how many matches each knockout stage holds.
var SlotsPerStage = map[MatchType]int{
	MatchTypeQual:  2,
	MatchTypeQF:    4,
	MatchTypeSF:    2,
	MatchTypeFinal: 1,
}

func NewSlot(stage MatchType, position int) Slot {
	return Slot{Stage: stage, Position: position}
}

func (s Slot) Valid() bool {
	n, ok := SlotsPerStage[s.Stage]
	return ok && s.Position >= 1 && s.Position <= n
}

func (s Slot) String() string {
	if s.Stage == MatchTypeFinal {
		return "final"
	}
	return slotPrefixes[s.Stage] + strconv.Itoa(s.Position)
}

func ParseSlot(raw string) (Slot, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "final" {
		return Slot{Stage: MatchTypeFinal, Position: 1}, nil
	}
	// qf/sf must be checked before the bare "q" prefix.
	for _, stage := range []MatchType{MatchTypeQF, MatchTypeSF, MatchTypeQual} {
		prefix := slotPrefixes[stage]
		if !strings.HasPrefix(s, prefix) {
			continue
		}
		pos, err := strconv.Atoi(strings.TrimPrefix(s, prefix))
		if err != nil {
			return Slot{}, fmt.Errorf("invalid slot %q", raw)
		}
		slot := Slot{Stage: stage, Position: pos}
		if !slot.Valid() {
			return Slot{}, fmt.Errorf("slot %q out of range", raw)
		}
		return slot, nil
	}
	return Slot{}, fmt.Errorf("invalid slot %q", raw)
}

func (s Slot) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid slot %+v", s)
	}
	return []byte(s.String()), nil
}

func (s *Slot) UnmarshalText(b []byte) error {
	parsed, err := ParseSlot(string(b))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Scan implements sql.Scanner so the legacy slot column maps onto Slot.
func (s *Slot) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return s.UnmarshalText([]byte(v))
	case []byte:
		return s.UnmarshalText(v)
	default:
		return fmt.Errorf("unsupported slot type %T", src)
	}
}

func (s Slot) Value() (driver.Value, error) {
	return s.String(), nil
}

type Match struct {
	ID          int        `json:"id" db:"id"`
	Type        MatchType  `json:"match_type" db:"match_type"`
	Slot        *Slot      `json:"slot,omitempty" db:"slot"`
	Round       *int       `json:"round,omitempty" db:"round"`
	HomeID      int        `json:"home_id" db:"home_id"`
	AwayID      int        `json:"away_id" db:"away_id"`
	HomeGoals   *int       `json:"home_goals" db:"home_goals"`
	AwayGoals   *int       `json:"away_goals" db:"away_goals"`
	Played      bool       `json:"played" db:"played"`
	IsTechnical bool       `json:"is_technical" db:"is_technical"`
	MatchDate   *time.Time `json:"match_date,omitempty" db:"match_date"`
}

// RoundOrZero returns the matchday, treating a missing round as 0.
func (m Match) RoundOrZero() int {
	if m.Round == nil {
		return 0
	}
	return *m.Round
}

func (m Match) HasScore() bool {
	return m.Played && m.HomeGoals != nil && m.AwayGoals != nil
}

// Winner returns the id of the side with the strictly higher score.
// Unplayed and drawn matches have no winner.
func (m Match) Winner() (int, bool) {
	if !m.HasScore() {
		return 0, false
	}
	switch {
	case *m.HomeGoals > *m.AwayGoals:
		return m.HomeID, true
	case *m.AwayGoals > *m.HomeGoals:
		return m.AwayID, true
	default:
		return 0, false
	}
}

func (m Match) Loser() (int, bool) {
	w, ok := m.Winner()
	if !ok {
		return 0, false
	}
	return m.Opponent(w), true
}

// Opponent returns the other side of the match, or 0 if teamID is not playing.
func (m Match) Opponent(teamID int) int {
	switch teamID {
	case m.HomeID:
		return m.AwayID
	case m.AwayID:
		return m.HomeID
	default:
		return 0
	}
}

func (m Match) Involves(teamID int) bool {
	return teamID == m.HomeID || teamID == m.AwayID
}

// IntPtr is a small helper for optional integer fields.
func IntPtr(v int) *int {
	return &v
}
