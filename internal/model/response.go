package model

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

type StatusResponse struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type MessageResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func NewStatusResponse(details string) StatusResponse {
	return StatusResponse{Status: StatusSuccess, Details: details}
}

func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Status: StatusSuccess, Message: message}
}

func NewErrorResponse(message string) MessageResponse {
	return MessageResponse{Status: StatusError, Message: message}
}
