package progression

import "errors"

// Rejected transitions return one of these and leave the state untouched.
var (
	ErrUnknownUpgrade       = errors.New("unknown upgrade")
	ErrUnknownProducer      = errors.New("unknown producer")
	ErrMaxLevel             = errors.New("upgrade already at max level")
	ErrInsufficientResource = errors.New("insufficient resource")
	ErrTierLocked           = errors.New("tier not unlocked")
	ErrPrestigeUnavailable  = errors.New("prestige reward is zero")
)
