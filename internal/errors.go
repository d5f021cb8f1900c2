package internal

import "errors"

var (
	// Setup-time failures, fatal to initialization.
	ErrCorpusNotFound = errors.New("principle corpus not found")
	ErrEmptyCorpus    = errors.New("no principles found in corpus")

	// Per-query failures; they abort one analysis and leave the session intact.
	ErrNoRelevantPrinciples = errors.New("no relevant principles found")
	ErrGeneration           = errors.New("generation failed")

	// Audio boundary. ErrAmbiguousAudio is recoverable (prompt the user to
	// speak again); ErrTranscriptionService is fatal for the attempt.
	ErrAmbiguousAudio       = errors.New("could not understand audio")
	ErrTranscriptionService = errors.New("transcription service unavailable")

	// Index persistence. ErrIndexNotFound means nothing is saved yet;
	// ErrIndexLoad means the saved blob is corrupt or incompatible. Both
	// trigger a rebuild from the corpus instead of crashing.
	ErrIndexNotFound = errors.New("no persisted index")
	ErrIndexLoad     = errors.New("persisted index unusable")

	ErrNoSuchEntry = errors.New("no such history entry")
)
