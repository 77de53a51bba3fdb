package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/eggsim/internal/domain/progression"
	"github.com/rpggio/eggsim/internal/domain/save"
)

// ErrInvalidParams indicates tool arguments outside their accepted range.
var ErrInvalidParams = errors.New("invalid parameters")

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint == "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s (hint: %s)", e.Code, e.Message, e.RecoveryHint)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check the tool input schema"}
	case errors.Is(err, progression.ErrUnknownUpgrade):
		return &APIError{Code: "UNKNOWN_UPGRADE", Message: err.Error(), RecoveryHint: "Call get_catalog for valid upgrade ids"}
	case errors.Is(err, progression.ErrUnknownProducer):
		return &APIError{Code: "UNKNOWN_PRODUCER", Message: err.Error(), RecoveryHint: "Call get_catalog for valid producer ids"}
	case errors.Is(err, progression.ErrMaxLevel):
		return &APIError{Code: "MAX_LEVEL", Message: err.Error(), RecoveryHint: "Pick another upgrade"}
	case errors.Is(err, progression.ErrInsufficientResource):
		return &APIError{Code: "INSUFFICIENT_RESOURCE", Message: err.Error(), RecoveryHint: "Click or wait for producers, then retry"}
	case errors.Is(err, progression.ErrTierLocked):
		return &APIError{Code: "TIER_LOCKED", Message: err.Error(), RecoveryHint: "Earn more lifetime resource to unlock it"}
	case errors.Is(err, progression.ErrPrestigeUnavailable):
		return &APIError{Code: "PRESTIGE_UNAVAILABLE", Message: err.Error(), RecoveryHint: "Check prestige_reward in get_state"}
	case errors.Is(err, save.ErrMalformedSave):
		return &APIError{Code: "MALFORMED_SAVE", Message: err.Error(), RecoveryHint: "Pass the exact string returned by export_save"}
	case errors.Is(err, save.ErrStorage):
		return &APIError{Code: "STORAGE_ERROR", Message: err.Error(), RecoveryHint: "Retry later; progress is kept in memory"}
	default:
		return nil
	}
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
