package dto

import "time"

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Message      string    `json:"message" example:"invalid month"`
	ErrorDetails string    `json:"error_details,omitempty" example:"missing column \"Fonte\""`
	Timestamp    time.Time `json:"timestamp"`
}

func (e ErrorResponse) Error() string {
	if e.ErrorDetails == "" {
		return e.Message
	}
	return e.Message + ": " + e.ErrorDetails
}

// NewErrorResponse builds an ErrorResponse stamped with the current time.
// err may be nil.
func NewErrorResponse(message string, err error) ErrorResponse {
	resp := ErrorResponse{Message: message, Timestamp: time.Now()}
	if err != nil {
		resp.ErrorDetails = err.Error()
	}
	return resp
}
