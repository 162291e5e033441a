package models

// Difficulty is the requested interview difficulty.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// SupportedDifficulties maps the accepted difficulty labels.
var SupportedDifficulties = map[Difficulty]bool{
	DifficultyBeginner:     true,
	DifficultyIntermediate: true,
	DifficultyAdvanced:     true,
}

// SupportedQuestionCounts are the interview lengths a client may request.
var SupportedQuestionCounts = map[int]bool{
	3: true, 5: true, 7: true, 10: true, 12: true, 15: true,
}

// error codes used in ErrorResponse bodies
const (
	CodeUnauthorized        = "unauthorized"
	CodeInvalidRequest      = "invalid_request"
	CodeConflict            = "conflict"
	CodeNotFound            = "not_found"
	CodeUpstreamUnavailable = "upstream_unavailable"
	CodeAnalysisFailed      = "analysis_failed"
	CodeSpeechUnavailable   = "speech_unavailable"
	CodeTranscriptionFailed = "transcription_failed"
	CodeInternalError       = "internal_error"
)
