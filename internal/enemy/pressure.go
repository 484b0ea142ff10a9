package enemy

// Pressure is accumulated damage. An entity whose pressure reaches Max is
// defeated.
type Pressure struct {
	Current float64
	Max     float64
}

// NewPressure returns an empty gauge with the given maximum.
func NewPressure(limit float64) Pressure {
	return Pressure{Max: limit}
}

// Add applies damage (negative values relieve) clamped to [0, Max].
func (p *Pressure) Add(dmg float64) {
	p.Current = min(max(p.Current+dmg, 0), p.Max)
}

// Full reports whether the gauge has reached its maximum.
func (p Pressure) Full() bool {
	return p.Current >= p.Max
}

// Fraction returns Current/Max in [0, 1].
func (p Pressure) Fraction() float64 {
	if p.Max <= 0 {
		return 1
	}
	return p.Current / p.Max
}
