package services

// MeterLine is one utility cost line computed from a meter delta.
type MeterLine struct {
	Units float64 `json:"units"`
	Cost  float64 `json:"cost"`
}

// CalcMeterLine turns (previous reading, current reading, rate) into a
// cost line item. A negative delta (meter rollback or data-entry typo)
// is clamped to zero units rather than raising an error, so a meter
// reset silently produces a zero-cost line.
func CalcMeterLine(last, current, rate float64) MeterLine {
	units := current - last
	if units < 0 {
		units = 0
	}
	return MeterLine{Units: units, Cost: units * rate}
}
