package model

type CalculationRequest struct {
	RequestID string           `json:"request_id,omitempty"`
	Input     InheritanceInput `json:"input"`
}
