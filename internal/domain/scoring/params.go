package scoring

import "github.com/okian/barcarate/internal/domain/model"

// QualityBand awards Score to ratings at or above Min.
type QualityBand struct {
	Min   float64 `koanf:"min" json:"min"`
	Score float64 `koanf:"score" json:"score"`
	Label string  `koanf:"label" json:"label"`
}

// AgePhase covers ages up to and including MaxAge. Scores are indexed by
// rating band: high, mid, low.
type AgePhase struct {
	MaxAge int        `koanf:"max_age" json:"max_age"`
	Scores [3]float64 `koanf:"scores" json:"scores"`
	Label  string     `koanf:"label" json:"label"`
}

// ValueBand is a transfer fee bracket. Exceptional applies when the player
// is at most ExceptionalAge and rated at least ExceptionalRating.
type ValueBand struct {
	MaxValue          float64 `koanf:"max_value" json:"max_value"`
	Score             float64 `koanf:"score" json:"score"`
	Exceptional       float64 `koanf:"exceptional" json:"exceptional"`
	ExceptionalAge    int     `koanf:"exceptional_age" json:"exceptional_age"`
	ExceptionalRating float64 `koanf:"exceptional_rating" json:"exceptional_rating"`
	Label             string  `koanf:"label" json:"label"`
}

// QualityParams configures the quality calculator. Bands are ordered by
// descending Min.
type QualityParams struct {
	Bands      []QualityBand `koanf:"bands" json:"bands"`
	Floor      float64       `koanf:"floor" json:"floor"`
	FloorLabel string        `koanf:"floor_label" json:"floor_label"`
}

// AgeParams configures the age calculator. Phases are ordered by ascending
// MaxAge; the last phase catches every older age.
type AgeParams struct {
	HighRating float64    `koanf:"high_rating" json:"high_rating"`
	MidRating  float64    `koanf:"mid_rating" json:"mid_rating"`
	Phases     []AgePhase `koanf:"phases" json:"phases"`
}

// FinancialParams configures the financial risk calculator. Bands are
// ordered by ascending MaxValue; the last band has no upper bound.
type FinancialParams struct {
	FreeScore      float64     `koanf:"free_score" json:"free_score"`
	Bands          []ValueBand `koanf:"bands" json:"bands"`
	VeteranAge     int         `koanf:"veteran_age" json:"veteran_age"`
	VeteranPenalty float64     `koanf:"veteran_penalty" json:"veteran_penalty"`
	ValueCeiling   float64     `koanf:"value_ceiling" json:"value_ceiling"`
	PerPointLimit  float64     `koanf:"per_point_limit" json:"per_point_limit"`
	PoorValue      float64     `koanf:"poor_value" json:"poor_value"`
}

// PositionParams configures the position need calculator.
type PositionParams struct {
	Base            map[model.Position]float64 `koanf:"base" json:"base"`
	UrgentFirst     float64                    `koanf:"urgent_first" json:"urgent_first"`
	UrgentExtra     float64                    `koanf:"urgent_extra" json:"urgent_extra"`
	UrgentCap       float64                    `koanf:"urgent_cap" json:"urgent_cap"`
	YoungAge        int                        `koanf:"young_age" json:"young_age"`
	YoungBonus      float64                    `koanf:"young_bonus" json:"young_bonus"`
	RenewalBonus    float64                    `koanf:"renewal_bonus" json:"renewal_bonus"`
	OldAge          int                        `koanf:"old_age" json:"old_age"`
	OldPenalty      float64                    `koanf:"old_penalty" json:"old_penalty"`
	VeryOldAge      int                        `koanf:"very_old_age" json:"very_old_age"`
	VeryOldPenalty  float64                    `koanf:"very_old_penalty" json:"very_old_penalty"`
	ActiveAgeBelow  int                        `koanf:"active_age_below" json:"active_age_below"`
	Ceiling         map[model.Position]int     `koanf:"ceiling" json:"ceiling"`
	Penalty         map[model.Position]float64 `koanf:"penalty" json:"penalty"`
	PerExtraPenalty float64                    `koanf:"per_extra_penalty" json:"per_extra_penalty"`
}

// SpecialParams configures the special factors calculator.
type SpecialParams struct {
	HomeClub         string   `koanf:"home_club" json:"home_club"`
	League           string   `koanf:"league" json:"league"`
	Rival            string   `koanf:"rival" json:"rival"`
	RivalBonus       float64  `koanf:"rival_bonus" json:"rival_bonus"`
	LeagueClubs      []string `koanf:"league_clubs" json:"league_clubs"`
	LeagueBonus      float64  `koanf:"league_bonus" json:"league_bonus"`
	ProspectAge      int      `koanf:"prospect_age" json:"prospect_age"`
	ProspectRating   float64  `koanf:"prospect_rating" json:"prospect_rating"`
	ProspectBonus    float64  `koanf:"prospect_bonus" json:"prospect_bonus"`
	GalacticoValue   float64  `koanf:"galactico_value" json:"galactico_value"`
	GalacticoPenalty float64  `koanf:"galactico_penalty" json:"galactico_penalty"`
}

// RiskParams configures the informational risk factors.
type RiskParams struct {
	Age            int     `koanf:"age" json:"age"`
	Value          float64 `koanf:"value" json:"value"`
	CrowdedPenalty float64 `koanf:"crowded_penalty" json:"crowded_penalty"`
}

// Params holds every constant the engine uses.
type Params struct {
	Quality   QualityParams   `koanf:"quality" json:"quality"`
	Age       AgeParams       `koanf:"age" json:"age"`
	Financial FinancialParams `koanf:"financial" json:"financial"`
	Position  PositionParams  `koanf:"position" json:"position"`
	Special   SpecialParams   `koanf:"special" json:"special"`
	Risk      RiskParams      `koanf:"risk" json:"risk"`
	Floor     float64         `koanf:"floor" json:"floor"`
	Cap       float64         `koanf:"cap" json:"cap"`
}

// Default display bounds for final ratings.
const (
	DefaultFloor = 1.0
	DefaultCap   = 9.5
)

// DefaultParams returns the club's standard scoring constants.
func DefaultParams() Params {
	return Params{
		Quality: QualityParams{
			Bands: []QualityBand{
				{Min: 90, Score: 3.0, Label: "world-class quality"},
				{Min: 87, Score: 2.5, Label: "elite quality"},
				{Min: 84, Score: 2.0, Label: "excellent quality"},
				{Min: 81, Score: 1.5, Label: "very good quality"},
				{Min: 78, Score: 1.0, Label: "good quality"},
				{Min: 75, Score: 0.5, Label: "squad-level quality"},
			},
			Floor:      -0.5,
			FloorLabel: "below Barcelona standard",
		},
		Age: AgeParams{
			HighRating: 85,
			MidRating:  80,
			Phases: []AgePhase{
				{MaxAge: 19, Scores: [3]float64{2.0, 1.5, 1.0}, Label: "teenage prospect"},
				{MaxAge: 24, Scores: [3]float64{1.5, 1.0, 0.5}, Label: "young with room to grow"},
				{MaxAge: 28, Scores: [3]float64{1.0, 0.5, 0.0}, Label: "in peak years"},
				{MaxAge: 31, Scores: [3]float64{0.3, 0.0, -0.5}, Label: "late prime"},
				{MaxAge: 34, Scores: [3]float64{-0.3, -0.8, -1.2}, Label: "veteran"},
				{MaxAge: model.MaxAge, Scores: [3]float64{-1.0, -1.5, -2.0}, Label: "end of career"},
			},
		},
		Financial: FinancialParams{
			FreeScore: 1.0,
			Bands: []ValueBand{
				{MaxValue: 20e6, Score: 0.5, Exceptional: 0.8, ExceptionalAge: 23, ExceptionalRating: 80, Label: "affordable fee"},
				{MaxValue: 60e6, Score: -0.3, Exceptional: 0.3, ExceptionalAge: 24, ExceptionalRating: 84, Label: "significant fee"},
				{Score: -1.2, Exceptional: 0.0, ExceptionalAge: 23, ExceptionalRating: 87, Label: "premium fee"},
			},
			VeteranAge:     30,
			VeteranPenalty: -0.5,
			ValueCeiling:   0.5,
			PerPointLimit:  500000,
			PoorValue:      -0.3,
		},
		Position: PositionParams{
			Base: map[model.Position]float64{
				model.GK: 0.0, model.CB: 0.8, model.LB: 0.3, model.RB: 0.5, model.DM: 0.8,
				model.CM: -0.3, model.AM: -0.5, model.LW: -0.3, model.RW: -0.5, model.ST: 1.2,
			},
			UrgentFirst:    0.8,
			UrgentExtra:    0.4,
			UrgentCap:      1.6,
			YoungAge:       23,
			YoungBonus:     0.3,
			RenewalBonus:   0.2,
			OldAge:         31,
			OldPenalty:     -0.3,
			VeryOldAge:     34,
			VeryOldPenalty: -0.6,
			ActiveAgeBelow: 32,
			Ceiling: map[model.Position]int{
				model.GK: 2, model.CB: 4, model.LB: 2, model.RB: 2, model.DM: 3,
				model.CM: 3, model.AM: 2, model.LW: 2, model.RW: 2, model.ST: 3,
			},
			Penalty: map[model.Position]float64{
				model.GK: -1.0, model.CB: -0.8, model.LB: -0.6, model.RB: -0.6, model.DM: -0.6,
				model.CM: -0.8, model.AM: -0.8, model.LW: -1.0, model.RW: -1.0, model.ST: -0.8,
			},
			PerExtraPenalty: -0.2,
		},
		Special: SpecialParams{
			HomeClub:   "FC Barcelona",
			League:     "La Liga",
			Rival:      "Real Madrid CF",
			RivalBonus: 0.5,
			LeagueClubs: []string{
				"FC Barcelona", "Real Madrid CF", "Atlético Madrid", "Athletic Bilbao",
				"Real Betis", "Villarreal CF", "Real Sociedad", "Sevilla FC", "Valencia CF",
				"Celta Vigo", "Getafe CF", "CA Osasuna", "UD Las Palmas", "Rayo Vallecano",
				"RCD Mallorca", "Girona FC", "Deportivo Alavés", "RCD Espanyol",
				"CD Leganés", "Real Valladolid",
			},
			LeagueBonus:      0.2,
			ProspectAge:      21,
			ProspectRating:   83,
			ProspectBonus:    0.5,
			GalacticoValue:   100e6,
			GalacticoPenalty: -0.5,
		},
		Risk: RiskParams{
			Age:            31,
			Value:          80e6,
			CrowdedPenalty: -0.8,
		},
		Floor: DefaultFloor,
		Cap:   DefaultCap,
	}
}
