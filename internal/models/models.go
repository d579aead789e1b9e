package models

import "time"

// CaptionResponse is the envelope returned by every caption endpoint
type CaptionResponse struct {
	Success   bool      `json:"success"`
	Caption   string    `json:"caption,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewSuccessResponse builds a success envelope for the given caption
func NewSuccessResponse(caption string) CaptionResponse {
	return CaptionResponse{
		Success:   true,
		Caption:   caption,
		Timestamp: time.Now(),
	}
}

// NewErrorResponse builds a failure envelope with the given message
func NewErrorResponse(message string) CaptionResponse {
	return CaptionResponse{
		Success:   false,
		Error:     message,
		Timestamp: time.Now(),
	}
}
