package method

import "strings"

// Madhab selects the Asr shadow ratio.
type Madhab int

const (
	Shafi Madhab = iota
	Hanafi
)

// ShadowRatio is the object-to-shadow multiple that marks the start of Asr.
func (m Madhab) ShadowRatio() float64 {
	if m == Hanafi {
		return 2
	}
	return 1
}

func (m Madhab) String() string {
	if m == Hanafi {
		return "Hanafi"
	}
	return "Shafi"
}

// ParseMadhab accepts "shafi"/"hanafi" in any case, and the Al Adhan
// school numbers "0"/"1".
func ParseMadhab(s string) (Madhab, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "shafi", "standard", "0":
		return Shafi, nil
	case "hanafi", "1":
		return Hanafi, nil
	}
	return Shafi, &ConfigurationError{Field: "madhab", Value: s}
}

// HighLatitudeRule picks how Fajr and Isha are bounded when twilight never
// fully ends.
type HighLatitudeRule int

const (
	MiddleOfTheNight HighLatitudeRule = iota
	SeventhOfTheNight
	TwilightAngle
)

var ruleNames = map[HighLatitudeRule]string{
	MiddleOfTheNight:  "MiddleOfTheNight",
	SeventhOfTheNight: "SeventhOfTheNight",
	TwilightAngle:     "TwilightAngle",
}

func (r HighLatitudeRule) String() string {
	if s, ok := ruleNames[r]; ok {
		return s
	}
	return "MiddleOfTheNight"
}

// ParseHighLatitudeRule matches rule names case-insensitively.
func ParseHighLatitudeRule(s string) (HighLatitudeRule, error) {
	for r, name := range ruleNames {
		if strings.EqualFold(name, strings.TrimSpace(s)) {
			return r, nil
		}
	}
	return MiddleOfTheNight, &ConfigurationError{Field: "high_latitude_rule", Value: s}
}

// NightPortion is the fraction of the night between sunset and sunrise
// allotted to a twilight of the given angle.
func (r HighLatitudeRule) NightPortion(angle float64) float64 {
	switch r {
	case SeventhOfTheNight:
		return 1.0 / 7.0
	case TwilightAngle:
		return angle / 60.0
	default:
		return 0.5
	}
}
