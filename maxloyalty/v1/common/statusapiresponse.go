package common

type StatusAPIResponse[T any] struct {
	Status  bool   `json:"status"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   any    `json:"error,omitempty"`
}

// ErrorMessage picks the human readable text out of an error body.
func (r *StatusAPIResponse[T]) ErrorMessage() string {
	if r.Message != "" {
		return r.Message
	}
	switch e := r.Error.(type) {
	case string:
		return e
	case map[string]any:
		if m, ok := e["message"].(string); ok {
			return m
		}
	}
	return ""
}
