package dto

import "time"

// ProcessOrderInput represents a new repair order request
type ProcessOrderInput struct {
	OrderNumber        uint64  `json:"order_number"`
	Vehicle            string  `json:"vehicle"`
	DamageDescription  *string `json:"damage_description,omitempty"`
	HasOutstandingDebt bool    `json:"has_outstanding_debt"`
	IsBanned           bool    `json:"is_banned"`
}

// ProcessOrderOutput represents where a repair order ended
type ProcessOrderOutput struct {
	OrderNumber   uint64   `json:"order_number"`
	FinalState    string   `json:"final_state"`
	CheckpointIDs []string `json:"checkpoint_ids,omitempty"`
	ResumedFrom   string   `json:"resumed_from,omitempty"` // state of the checkpoint a resume started from
}

// ServiceOrderOutput represents the end of the servicing lifecycle
type ServiceOrderOutput struct {
	OrderNumber      uint64   `json:"order_number"`
	FinalState       string   `json:"final_state"` // Paid or Rejected
	Invoice          string   `json:"invoice,omitempty"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
}

// CheckpointDTO represents one stored checkpoint
type CheckpointDTO struct {
	ID        string    `json:"id"`
	State     string    `json:"state"`
	Format    string    `json:"format"`
	CreatedAt time.Time `json:"created_at"`
	Summary   string    `json:"summary"`
}
