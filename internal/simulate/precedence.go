package simulate

// Step names one dispatch in the balancing loop.
type Step string

const (
	StepEV         Step = "ev"
	StepDataCentre Step = "data_centre"
	StepESS        Step = "ess"
)

// Precedence is the order flexible components are dispatched in each
// timestep of the balancing phase. The battery is always last so it covers
// whatever the flexible loads leave.
type Precedence []Step

// PrecedenceFor picks the dispatch order for the flexible components present.
func PrecedenceFor(evFlexible, dcFlexible bool) Precedence {
	switch {
	case evFlexible && dcFlexible:
		return Precedence{StepEV, StepDataCentre, StepESS}
	case evFlexible:
		return Precedence{StepEV, StepESS}
	case dcFlexible:
		return Precedence{StepDataCentre, StepESS}
	default:
		return Precedence{StepESS}
	}
}

// Dual reports whether EV and data centre compete for the same headroom.
func (p Precedence) Dual() bool {
	var ev, dc bool
	for _, s := range p {
		ev = ev || s == StepEV
		dc = dc || s == StepDataCentre
	}
	return ev && dc
}
