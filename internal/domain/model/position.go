// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Position is a closed set of on-pitch roles.
type Position string

// Positions, in the order they are reported.
const (
	GK Position = "GK"
	CB Position = "CB"
	LB Position = "LB"
	RB Position = "RB"
	DM Position = "DM"
	CM Position = "CM"
	AM Position = "AM"
	LW Position = "LW"
	RW Position = "RW"
	ST Position = "ST"
)

// Positions lists every valid position in reporting order.
var Positions = []Position{GK, CB, LB, RB, DM, CM, AM, LW, RW, ST}

// ParsePosition parses a position code case-insensitively.
func ParsePosition(s string) (Position, error) {
	p := Position(strings.ToUpper(strings.TrimSpace(s)))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownPosition, s)
	}
	return p, nil
}

// Valid reports whether p is one of the known positions.
func (p Position) Valid() bool {
	switch p {
	case GK, CB, LB, RB, DM, CM, AM, LW, RW, ST:
		return true
	}
	return false
}

// Group returns the roster group the position belongs to.
func (p Position) Group() Group {
	switch p {
	case GK:
		return Goalkeepers
	case CB, LB, RB:
		return Defenders
	case DM, CM, AM:
		return Midfielders
	default:
		return Forwards
	}
}

// IsFullback reports whether p is a fullback.
func (p Position) IsFullback() bool { return p == LB || p == RB }

// Group names a roster section.
type Group string

// Roster groups, in reporting order.
const (
	Goalkeepers Group = "goalkeepers"
	Defenders   Group = "defenders"
	Midfielders Group = "midfielders"
	Forwards    Group = "forwards"
)

// Groups lists every roster group in reporting order.
var Groups = []Group{Goalkeepers, Defenders, Midfielders, Forwards}

// Valid reports whether g is a known group.
func (g Group) Valid() bool {
	switch g {
	case Goalkeepers, Defenders, Midfielders, Forwards:
		return true
	}
	return false
}
