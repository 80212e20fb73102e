package squad

import (
	"encoding/json"
	"fmt"
	"math/bits"

	"github.com/okian/barcarate/internal/domain/model"
)

// Weakness is a structural gap in the roster.
type Weakness uint8

// Weakness labels. The zero value is not a label.
const (
	_ Weakness = iota
	GoalkeeperQuality
	GoalkeeperDepth
	AgingSquad
	CriticalAging
	StrikerDepth
	StrikerAging
	CBDepth
	CBFuture
	DMDepth
	DMQuality
	FullbackDepth
	DefensiveQuality
	MidfieldQuality
	weaknessCount
)

var weaknessLabels = [weaknessCount]string{
	GoalkeeperQuality: "goalkeeper_quality",
	GoalkeeperDepth:   "goalkeeper_depth",
	AgingSquad:        "aging_squad",
	CriticalAging:     "critical_aging",
	StrikerDepth:      "striker_depth",
	StrikerAging:      "striker_aging",
	CBDepth:           "cb_depth",
	CBFuture:          "cb_future",
	DMDepth:           "dm_depth",
	DMQuality:         "dm_quality",
	FullbackDepth:     "fullback_depth",
	DefensiveQuality:  "defensive_quality",
	MidfieldQuality:   "midfield_quality",
}

var weaknessDescriptions = [weaknessCount]string{
	GoalkeeperQuality: "No goalkeeper under 30 at elite level; long-term number one needed",
	GoalkeeperDepth:   "Fewer than two reliable goalkeepers under 33",
	AgingSquad:        "Too many players over 30; squad needs renewal",
	CriticalAging:     "Several players over 33; imminent departures to replace",
	StrikerDepth:      "Not enough strikers under 32 to rotate",
	StrikerAging:      "Striker line depends on a veteran; succession planning required",
	CBDepth:           "Center-back depth too thin for a full season",
	CBFuture:          "Few young, proven center-backs for the next cycle",
	DMDepth:           "Not enough defensive midfielders",
	DMQuality:         "No defensive midfielder at first-team elite level",
	FullbackDepth:     "Fullback positions lack cover",
	DefensiveQuality:  "Average defender rating below the club standard",
	MidfieldQuality:   "Average midfielder rating below the club standard",
}

// AllWeaknesses lists every label in declaration order.
func AllWeaknesses() []Weakness {
	out := make([]Weakness, 0, weaknessCount-1)
	for w := GoalkeeperQuality; w < weaknessCount; w++ {
		out = append(out, w)
	}
	return out
}

// Valid reports whether w is a declared label.
func (w Weakness) Valid() bool { return w > 0 && w < weaknessCount }

// String returns the wire label, e.g. "cb_future".
func (w Weakness) String() string {
	if !w.Valid() {
		return fmt.Sprintf("weakness(%d)", uint8(w))
	}
	return weaknessLabels[w]
}

// Description returns the human-readable explanation of the label.
func (w Weakness) Description() string {
	if !w.Valid() {
		return ""
	}
	return weaknessDescriptions[w]
}

// MarshalText implements encoding.TextMarshaler.
func (w Weakness) MarshalText() ([]byte, error) {
	if !w.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownWeakness, uint8(w))
	}
	return []byte(weaknessLabels[w]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (w *Weakness) UnmarshalText(b []byte) error {
	p, err := ParseWeakness(string(b))
	if err != nil {
		return err
	}
	*w = p
	return nil
}

// ParseWeakness maps a wire label back to its Weakness.
func ParseWeakness(s string) (Weakness, error) {
	for w := GoalkeeperQuality; w < weaknessCount; w++ {
		if weaknessLabels[w] == s {
			return w, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownWeakness, s)
}

// urgentFor lists, per candidate position, the labels that make a signing
// there urgent.
var urgentFor = map[model.Position][]Weakness{
	model.GK: {GoalkeeperQuality, GoalkeeperDepth},
	model.CB: {CBDepth, CBFuture, DefensiveQuality},
	model.LB: {FullbackDepth, DefensiveQuality},
	model.RB: {FullbackDepth, DefensiveQuality},
	model.DM: {DMDepth, DMQuality, MidfieldQuality},
	model.CM: {MidfieldQuality},
	model.AM: {MidfieldQuality},
	model.ST: {StrikerDepth, StrikerAging},
}

// UrgentFor returns the labels that make a signing at pos urgent.
func UrgentFor(pos model.Position) []Weakness {
	return append([]Weakness(nil), urgentFor[pos]...)
}

// Set is a set of weakness labels. The zero value is empty and Sets are
// comparable with ==.
type Set uint16

// NewSet builds a set from labels.
func NewSet(ws ...Weakness) Set {
	var s Set
	for _, w := range ws {
		s = s.Add(w)
	}
	return s
}

// Add returns s with w included.
func (s Set) Add(w Weakness) Set {
	if !w.Valid() {
		return s
	}
	return s | 1<<w
}

// Has reports whether w is present.
func (s Set) Has(w Weakness) bool { return w.Valid() && s&(1<<w) != 0 }

// Len returns the number of labels.
func (s Set) Len() int { return bits.OnesCount16(uint16(s)) }

// Labels returns the labels in declaration order.
func (s Set) Labels() []Weakness {
	out := make([]Weakness, 0, s.Len())
	for w := GoalkeeperQuality; w < weaknessCount; w++ {
		if s.Has(w) {
			out = append(out, w)
		}
	}
	return out
}

// Urgent returns the labels in s that are urgent for pos.
func (s Set) Urgent(pos model.Position) []Weakness {
	var out []Weakness
	for _, w := range urgentFor[pos] {
		if s.Has(w) {
			out = append(out, w)
		}
	}
	return out
}

// Strings returns the wire labels in declaration order.
func (s Set) Strings() []string {
	ls := s.Labels()
	out := make([]string, len(ls))
	for i, w := range ls {
		out[i] = w.String()
	}
	return out
}

// MarshalJSON encodes the set as an array of labels.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

// UnmarshalJSON decodes an array of labels.
func (s *Set) UnmarshalJSON(b []byte) error {
	var labels []string
	if err := json.Unmarshal(b, &labels); err != nil {
		return err
	}
	var out Set
	for _, l := range labels {
		w, err := ParseWeakness(l)
		if err != nil {
			return err
		}
		out = out.Add(w)
	}
	*s = out
	return nil
}
