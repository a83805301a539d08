package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/lead"
)

// LeadStoreForStatus defines the store interface needed by UpdateLeadStatus.
type LeadStoreForStatus interface {
	UpdateStatus(ctx context.Context, change lead.StatusChange) (lead.StatusChange, error)
}

// UpdateLeadStatusInput carries input for UpdateLeadStatus.
type UpdateLeadStatusInput struct {
	LeadID    string
	Status    string
	ChangedBy string
	Notes     string
}

// UpdateLeadStatusDeps holds dependencies for UpdateLeadStatus.
type UpdateLeadStatusDeps struct {
	LeadStore  LeadStoreForStatus
	GenerateID func() string
	Now        func() time.Time
}

// ExecuteUpdateLeadStatus moves a lead along the pipeline and records who moved it.
// PRE: LeadStore, GenerateID and Now are non-nil
// POST: On success the lead holds the new status and one history entry was appended;
// returns lead.ErrInvalidStatus, lead.ErrNotesTooLong or lead.ErrNotFound for rejected changes
func ExecuteUpdateLeadStatus(ctx context.Context, input UpdateLeadStatusInput, deps UpdateLeadStatusDeps) (lead.StatusChange, error) {
	status, err := lead.ParseStatus(input.Status)
	if err != nil {
		return lead.StatusChange{}, err
	}

	change := lead.StatusChange{
		ID:        deps.GenerateID(),
		LeadID:    strings.TrimSpace(input.LeadID),
		NewStatus: status,
		ChangedBy: strings.TrimSpace(input.ChangedBy),
		Notes:     strings.TrimSpace(input.Notes),
		ChangedAt: deps.Now(),
	}
	if err := change.Validate(); err != nil {
		return lead.StatusChange{}, err
	}

	saved, err := deps.LeadStore.UpdateStatus(ctx, change)
	if err != nil {
		return lead.StatusChange{}, fmt.Errorf("update lead status: %w", err)
	}
	slog.Info("lead_status_changed", "lead_id", saved.LeadID, "from", saved.OldStatus, "to", saved.NewStatus, "changed_by", saved.ChangedBy)
	return saved, nil
}
