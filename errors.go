package studioicons

import "errors"

// Sentinel errors for the failure modes of a build. Returned errors wrap one
// of these together with the underlying cause; test with errors.Is.
var (
	// ErrSettings indicates the settings file is missing or malformed.
	ErrSettings = errors.New("settings error")

	// ErrSourceAsset indicates a source image could not be read.
	ErrSourceAsset = errors.New("source asset error")

	// ErrDestination indicates the output tree could not be created, written
	// or removed. Creating an output directory that already exists is one.
	ErrDestination = errors.New("destination error")
)
