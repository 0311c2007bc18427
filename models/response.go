package models

import "encoding/json"

// Response is the platform's JSON envelope. Data stays raw so callers decode
// it into the concrete type they expect.
type Response struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}
