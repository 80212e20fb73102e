package scoring

// Tier is a recommendation band with an inclusive lower bound.
type Tier struct {
	Min         float64 `json:"min"`
	Label       string  `json:"label"`
	Description string  `json:"description"`
}

// Tiers lists the bands from best to worst.
var Tiers = []Tier{
	{Min: 9.0, Label: "Dream Signing", Description: "Generational fit, move before rivals do"},
	{Min: 8.0, Label: "Excellent Signing", Description: "Strong upgrade, worth stretching the budget"},
	{Min: 7.0, Label: "Good Signing", Description: "Solid addition that fills a real need"},
	{Min: 5.5, Label: "Decent Option", Description: "Useful depth at the right price"},
	{Min: 4.0, Label: "Risky Signing", Description: "Significant doubts on fit, age or value"},
	{Min: 0, Label: "Not Recommended", Description: "Does not improve the squad"},
}

// TierFor returns the band containing rating.
func TierFor(rating float64) Tier {
	for _, t := range Tiers {
		if rating >= t.Min {
			return t
		}
	}
	return Tiers[len(Tiers)-1]
}
