// Package generate defines the blueprint generation request and the prompt
// contract sent to LLM providers.
package generate

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Request carries the wizard answers a blueprint is generated from.
type Request struct {
	Topic         string   `json:"topic" validate:"required"`
	Organization  string   `json:"organization" validate:"required"`
	Role          string   `json:"role" validate:"required"`
	Audience      string   `json:"audience,omitempty"`
	DurationWeeks int      `json:"duration_weeks,omitempty" validate:"omitempty,min=1,max=104"`
	Goals         []string `json:"goals,omitempty" validate:"omitempty,dive,required"`

	// Provider optionally pins a specific LLM backend.
	Provider string `json:"provider,omitempty" validate:"omitempty,oneof=ollama claude perplexity"`
}

// EventID derives a stable id from the request content so duplicate
// submissions collapse onto one blueprint row.
func (r Request) EventID() string {
	b, _ := json.Marshal(r)
	sum := sha256.Sum256(b)
	return "reqsha256:" + hex.EncodeToString(sum[:])
}
