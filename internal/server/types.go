// Package server provides the HTTP surface of the speech emotion analysis
// service. It includes handlers, middleware, routes, and DTOs separated from
// domain types.
package server

// EmotionsDTO is the JSON shape of the four emotion percentages.
type EmotionsDTO struct {
	Calm    float64 `json:"calm"`
	Tense   float64 `json:"tense"`
	Angry   float64 `json:"angry"`
	Excited float64 `json:"excited"`
}

// AnalyzeResponse is the HTTP response for a successful analysis.
type AnalyzeResponse struct {
	// Success is always true in this shape; failures use ErrorResponse.
	Success bool `json:"success"`
	// Emotions is the scored distribution, percentages summing to 100.
	Emotions EmotionsDTO `json:"emotions"`
	// Risk is the conflict-risk percentage in [0,100].
	Risk float64 `json:"risk"`
	// Duration is the analyzed clip length in seconds, two decimals.
	Duration float64 `json:"duration"`
	// Timestamp is the wall-clock capture time, formatted HH:MM:SS.
	Timestamp string `json:"timestamp"`
	// Chart is the base64-encoded PNG bar chart of the emotions, if rendered.
	Chart string `json:"chart,omitempty"`
	// Waveform is the base64-encoded PNG waveform trace, if enabled.
	Waveform string `json:"waveform,omitempty"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	// Success is always false in this shape.
	Success bool `json:"success"`
	// Error is the human-readable error message.
	Error string `json:"error"`
}

// HealthResponse is the HTTP response for the health check endpoint.
type HealthResponse struct {
	// Status is the health status of the service.
	Status string `json:"status"`
}
