package utils

import "errors"

// ErrorAnalysisUnavailable is returned when no analysis could be produced for a request.
var ErrorAnalysisUnavailable = errors.New("analysis unavailable")
