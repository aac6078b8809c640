package types

import "github.com/m-mizutani/goerr/v2"

// Sentinel errors shared across retrieval and generation
var (
	// ErrSourceUnavailable indicates an evidence source failed or timed out.
	// Callers degrade to the remaining sources instead of aborting.
	ErrSourceUnavailable = goerr.New("evidence source unavailable")

	// ErrGenerationEmpty indicates the model produced an empty or whitespace-only answer
	ErrGenerationEmpty = goerr.New("generation returned empty output")

	// ErrGenerationRejected indicates the generated output failed the safety guard
	ErrGenerationRejected = goerr.New("generated output rejected by guard")

	// ErrMalformedExtraction indicates structured extraction output could not be parsed
	ErrMalformedExtraction = goerr.New("malformed extraction output")

	// ErrConfigurationMissing indicates a required credential or setting is absent.
	// Fatal only at construction time; running components never surface it mid-conversation.
	ErrConfigurationMissing = goerr.New("required configuration missing")
)
