package save

import "errors"

var (
	// ErrMalformedSave indicates a payload that cannot be decoded into a snapshot.
	ErrMalformedSave = errors.New("malformed save data")
	// ErrStorage indicates the save backend failed.
	ErrStorage = errors.New("save storage failure")
)
