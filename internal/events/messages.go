// Package events carries analysis requests and status updates over AMQP.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Update statuses, in the order a request moves through them.
const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// AnalysisRequest asks a worker to analyze a resume previously uploaded to
// blob storage under ResumeKey.
type AnalysisRequest struct {
	ID             string `json:"id" validate:"required,uuid"`
	ResumeKey      string `json:"resume_key" validate:"required"`
	Mime           string `json:"mime"`
	Filename       string `json:"filename,omitempty"`
	JobDescription string `json:"job_description"`
	SelectedRole   string `json:"selected_role,omitempty" validate:"omitempty,max=100"`
}

var validate = validator.New()

// DecodeRequest parses and validates a queued request body.
func DecodeRequest(body []byte) (*AnalysisRequest, error) {
	var req AnalysisRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return &req, fmt.Errorf("failed to decode analysis request: %w", err)
	}
	if err := validate.Struct(&req); err != nil {
		return &req, fmt.Errorf("invalid analysis request: %w", err)
	}
	return &req, nil
}

// AnalysisUpdate reports the progress of one request.
type AnalysisUpdate struct {
	ID           string    `json:"id"`
	Status       string    `json:"status"`
	OverallScore *float64  `json:"overall_score,omitempty"`
	ReportKey    string    `json:"report_key,omitempty"`
	Message      string    `json:"message"`
	Timestamp    time.Time `json:"timestamp"`
}

// RoutingKey returns the topic routing key updates for id are published with.
func RoutingKey(id string) string {
	if id == "" {
		id = "unknown"
	}
	return "analysis." + id
}
