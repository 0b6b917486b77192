package dashboard

import "errors"

var (
	// ErrInvalidSelection is returned for a site that is neither
	// types.AllSites nor present in the table.
	ErrInvalidSelection = errors.New("invalid selection")

	// ErrInvalidRange is returned for a payload range that is inverted,
	// negative or not finite.
	ErrInvalidRange = errors.New("invalid payload range")
)
