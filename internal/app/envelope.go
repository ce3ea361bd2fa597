package app

// ResponseEnvelope is the uniform reply shape for every request handler.
// Failure always carries a human-readable message and no response body.
type ResponseEnvelope[T any] struct {
	IsOK     bool   `json:"isOK"`
	Message  string `json:"message,omitempty"`
	Response *T     `json:"response,omitempty"`
}

func envOK[T any](resp T) ResponseEnvelope[T] {
	return ResponseEnvelope[T]{IsOK: true, Response: &resp}
}

func envOKMsg[T any](resp T, msg string) ResponseEnvelope[T] {
	return ResponseEnvelope[T]{IsOK: true, Message: msg, Response: &resp}
}

func envFail[T any](msg string) ResponseEnvelope[T] {
	return ResponseEnvelope[T]{IsOK: false, Message: msg}
}
