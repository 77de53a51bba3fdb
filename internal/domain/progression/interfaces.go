package progression

import "math/rand/v2"

// Roller yields uniform random numbers in [0, 1) for click rolls.
type Roller interface {
	Roll() float64
}

type randRoller struct{}

func (randRoller) Roll() float64 {
	return rand.Float64()
}

func chance(r Roller, p float64) bool {
	return r.Roll() < p
}

// Recorder observes rejected transitions. Accepted transitions are reported
// through the event outbox instead.
type Recorder interface {
	TransitionRejected(op string, err error)
}

type nopRecorder struct{}

func (nopRecorder) TransitionRejected(string, error) {}
