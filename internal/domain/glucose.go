package domain

// Trend is the glucose trend reported alongside a continuous glucose reading.
type Trend string

const (
	TrendConstant     Trend = "constant"
	TrendSlowRise     Trend = "slowRise"
	TrendSlowFall     Trend = "slowFall"
	TrendModerateRise Trend = "moderateRise"
	TrendModerateFall Trend = "moderateFall"
	TrendRapidRise    Trend = "rapidRise"
	TrendRapidFall    Trend = "rapidFall"
)

// Arrow returns a single-character representation for terminal display.
func (t Trend) Arrow() string {
	switch t {
	case TrendConstant:
		return "→"
	case TrendSlowRise:
		return "↗"
	case TrendSlowFall:
		return "↘"
	case TrendModerateRise:
		return "↑"
	case TrendModerateFall:
		return "↓"
	case TrendRapidRise:
		return "⇈"
	case TrendRapidFall:
		return "⇊"
	default:
		return ""
	}
}

// WarningLevel classifies how concerning a glucose reading is.
type WarningLevel int

const (
	WarningLevelNone WarningLevel = iota
	WarningLevelWarning
	WarningLevelCritical
)

func (w WarningLevel) String() string {
	switch w {
	case WarningLevelWarning:
		return "warning"
	case WarningLevelCritical:
		return "critical"
	default:
		return "none"
	}
}

// mg/dL thresholds for warning classification.
const (
	highWarningAbove  = 250.0
	lowWarningFloor   = 55.0
	lowWarningCeiling = 70.0
)

// ClassifyReading maps a glucose reading in mg/dL to a warning level.
// The low band [55, 70) is a warning; anything below it is critical.
func ClassifyReading(mgdl float64) WarningLevel {
	switch {
	case mgdl > highWarningAbove:
		return WarningLevelWarning
	case mgdl < lowWarningFloor:
		return WarningLevelCritical
	case mgdl < lowWarningCeiling:
		return WarningLevelWarning
	default:
		return WarningLevelNone
	}
}
