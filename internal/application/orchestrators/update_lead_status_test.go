package orchestrators

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/lead"
)

// TestExecuteUpdateLeadStatus_Valid tests a transition is stored with its audit fields.
func TestExecuteUpdateLeadStatus_Valid(t *testing.T) {
	store := newMockLifecycleStore("lead-1")

	got, err := ExecuteUpdateLeadStatus(context.Background(), UpdateLeadStatusInput{
		LeadID:    "lead-1",
		Status:    " Engaging ",
		ChangedBy: " counselor-7 ",
		Notes:     "Đã tư vấn qua Zalo",
	}, UpdateLeadStatusDeps{LeadStore: store, GenerateID: fixedID, Now: fixedNow})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := lead.StatusChange{
		ID:        "test-id-001",
		LeadID:    "lead-1",
		OldStatus: lead.StatusLead,
		NewStatus: lead.StatusEngaging,
		ChangedBy: "counselor-7",
		Notes:     "Đã tư vấn qua Zalo",
		ChangedAt: fixedTime,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("change mismatch (-want +got):\n%s", diff)
	}
	if store.statuses["lead-1"] != lead.StatusEngaging {
		t.Errorf("stored status = %q", store.statuses["lead-1"])
	}
}

// TestExecuteUpdateLeadStatus_Rejected tests that invalid changes never reach the store.
func TestExecuteUpdateLeadStatus_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		input   UpdateLeadStatusInput
		wantErr error
	}{
		{"unknown status", UpdateLeadStatusInput{LeadID: "lead-1", Status: "Won"}, lead.ErrInvalidStatus},
		{"blank status", UpdateLeadStatusInput{LeadID: "lead-1"}, lead.ErrInvalidStatus},
		{"notes too long", UpdateLeadStatusInput{LeadID: "lead-1", Status: lead.StatusArchived, Notes: strings.Repeat("x", lead.MaxNotesLength+1)}, lead.ErrNotesTooLong},
		{"unknown lead", UpdateLeadStatusInput{LeadID: "lead-9", Status: lead.StatusArchived}, lead.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newMockLifecycleStore("lead-1")
			_, err := ExecuteUpdateLeadStatus(context.Background(), tt.input,
				UpdateLeadStatusDeps{LeadStore: store, GenerateID: fixedID, Now: fixedNow})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if len(store.history) != 0 || store.statuses["lead-1"] != lead.StatusLead {
				t.Errorf("rejected change was applied: %+v", store)
			}
		})
	}
}

// TestExecuteDeleteLead tests deletion and the not-found case.
func TestExecuteDeleteLead(t *testing.T) {
	store := newMockLifecycleStore("lead-1")
	deps := DeleteLeadDeps{LeadStore: store}

	if err := ExecuteDeleteLead(context.Background(), DeleteLeadInput{LeadID: "lead-1"}, deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := store.statuses["lead-1"]; ok {
		t.Error("lead should be gone")
	}
	if err := ExecuteDeleteLead(context.Background(), DeleteLeadInput{LeadID: "lead-1"}, deps); !errors.Is(err, lead.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
