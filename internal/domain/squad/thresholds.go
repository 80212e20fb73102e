package squad

import "github.com/okian/barcarate/internal/domain/model"

// Thresholds holds every cut-off the analyzer uses. Ages marked "below" are
// exclusive upper bounds; "above" bounds are exclusive lower bounds.
type Thresholds struct {
	GKQualityAgeBelow  int     `koanf:"gk_quality_age_below" json:"gk_quality_age_below"`
	GKQualityMinRating float64 `koanf:"gk_quality_min_rating" json:"gk_quality_min_rating"`
	GKDepthAgeBelow    int     `koanf:"gk_depth_age_below" json:"gk_depth_age_below"`
	GKDepthMinRating   float64 `koanf:"gk_depth_min_rating" json:"gk_depth_min_rating"`
	GKDepthMin         int     `koanf:"gk_depth_min" json:"gk_depth_min"`

	AgingAgeAbove    int `koanf:"aging_age_above" json:"aging_age_above"`
	AgingMin         int `koanf:"aging_min" json:"aging_min"`
	CriticalAgeAbove int `koanf:"critical_age_above" json:"critical_age_above"`
	CriticalMin      int `koanf:"critical_min" json:"critical_min"`

	StrikerAgeBelow int `koanf:"striker_age_below" json:"striker_age_below"`
	StrikerDepthMin int `koanf:"striker_depth_min" json:"striker_depth_min"`
	StrikerVeteran  int `koanf:"striker_veteran" json:"striker_veteran"`
	StrikerAgingMin int `koanf:"striker_aging_min" json:"striker_aging_min"`

	CBDepthMin        int     `koanf:"cb_depth_min" json:"cb_depth_min"`
	CBFutureMaxAge    int     `koanf:"cb_future_max_age" json:"cb_future_max_age"`
	CBFutureMinRating float64 `koanf:"cb_future_min_rating" json:"cb_future_min_rating"`
	CBFutureMin       int     `koanf:"cb_future_min" json:"cb_future_min"`

	DMDepthMin       int     `koanf:"dm_depth_min" json:"dm_depth_min"`
	DMQualityRating  float64 `koanf:"dm_quality_rating" json:"dm_quality_rating"`
	FullbackDepthMin int     `koanf:"fullback_depth_min" json:"fullback_depth_min"`

	DefenderMeanFloor   float64 `koanf:"defender_mean_floor" json:"defender_mean_floor"`
	MidfielderMeanFloor float64 `koanf:"midfielder_mean_floor" json:"midfielder_mean_floor"`

	YoungAgeBelow int `koanf:"young_age_below" json:"young_age_below"`
	VeteranAge    int `koanf:"veteran_age" json:"veteran_age"`

	// Succession is the age from which a member should already have a
	// successor lined up.
	Succession map[model.Position]int `koanf:"succession" json:"succession"`
}

// DefaultThresholds returns the club's standard cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		GKQualityAgeBelow:  30,
		GKQualityMinRating: 85,
		GKDepthAgeBelow:    33,
		GKDepthMinRating:   80,
		GKDepthMin:         2,

		AgingAgeAbove:    30,
		AgingMin:         6,
		CriticalAgeAbove: 33,
		CriticalMin:      3,

		StrikerAgeBelow: 32,
		StrikerDepthMin: 2,
		StrikerVeteran:  33,
		StrikerAgingMin: 1,

		CBDepthMin:        4,
		CBFutureMaxAge:    23,
		CBFutureMinRating: 75,
		CBFutureMin:       2,

		DMDepthMin:       2,
		DMQualityRating:  80,
		FullbackDepthMin: 4,

		DefenderMeanFloor:   80,
		MidfielderMeanFloor: 80,

		YoungAgeBelow: 23,
		VeteranAge:    30,

		Succession: map[model.Position]int{
			model.GK: 33,
			model.CB: 32,
			model.LB: 30,
			model.RB: 30,
			model.DM: 31,
			model.CM: 30,
			model.AM: 29,
			model.LW: 29,
			model.RW: 29,
			model.ST: 32,
		},
	}
}
