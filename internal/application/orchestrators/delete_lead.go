package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
)

// LeadStoreForDelete defines the store interface needed by DeleteLead.
type LeadStoreForDelete interface {
	Delete(ctx context.Context, id string) error
}

// DeleteLeadInput carries input for DeleteLead.
type DeleteLeadInput struct {
	LeadID string
}

// DeleteLeadDeps holds dependencies for DeleteLead.
type DeleteLeadDeps struct {
	LeadStore LeadStoreForDelete
}

// ExecuteDeleteLead removes a lead. The student can submit the same form again afterwards.
// PRE: LeadStore is non-nil
// POST: Lead and its status history are gone; returns an error wrapping lead.ErrNotFound for unknown IDs
func ExecuteDeleteLead(ctx context.Context, input DeleteLeadInput, deps DeleteLeadDeps) error {
	if err := deps.LeadStore.Delete(ctx, input.LeadID); err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	slog.Info("lead_deleted", "lead_id", input.LeadID)
	return nil
}
