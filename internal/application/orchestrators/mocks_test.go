package orchestrators

import (
	"context"
	"fmt"
	"sync"
	"time"

	emailAdapter "github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/email"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/gender"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/course"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/lead"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/outbox"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/submission"
)

var fixedTime = time.Date(2025, 6, 17, 10, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

// sequentialIDs returns a generator yielding id-1, id-2, ...
func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

// mockCandidateSource implements CandidateSource for testing.
type mockCandidateSource struct {
	records  []submission.Record
	err      error
	gotKey   string
	gotLimit int
	calls    int
}

func (m *mockCandidateSource) ListCandidates(_ context.Context, key string, limit int) ([]submission.Record, error) {
	m.calls++
	m.gotKey, m.gotLimit = key, limit
	return m.records, m.err
}

// mockLeadStore implements LeadStoreForSubmit for testing.
type mockLeadStore struct {
	leads map[string]lead.Lead
	err   error
}

func newMockLeadStore() *mockLeadStore {
	return &mockLeadStore{leads: make(map[string]lead.Lead)}
}

func (m *mockLeadStore) Save(_ context.Context, l lead.Lead) error {
	if m.err != nil {
		return m.err
	}
	m.leads[l.ID] = l
	return nil
}

// mockSender implements email.Sender for testing.
type mockSender struct {
	mu   sync.Mutex
	sent []emailAdapter.SendRequest
	err  error
}

func (m *mockSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return emailAdapter.SendResult{}, m.err
	}
	m.sent = append(m.sent, req)
	return emailAdapter.SendResult{MessageID: fmt.Sprintf("msg-%d", len(m.sent)), SentAt: fixedTime}, nil
}

// mockOutboxStore implements OutboxStoreForOrchestrator and OutboxStoreForProcessor for testing.
type mockOutboxStore struct {
	entries map[string]outbox.Entry
	order   []string
	err     error
}

func newMockOutboxStore() *mockOutboxStore {
	return &mockOutboxStore{entries: make(map[string]outbox.Entry)}
}

func (m *mockOutboxStore) Save(_ context.Context, e outbox.Entry) error {
	if m.err != nil {
		return m.err
	}
	if _, ok := m.entries[e.ID]; !ok {
		m.order = append(m.order, e.ID)
	}
	m.entries[e.ID] = e
	return nil
}

func (m *mockOutboxStore) ListPending(_ context.Context, limit int) ([]outbox.Entry, error) {
	var out []outbox.Entry
	for _, id := range m.order {
		e := m.entries[id]
		if e.Status == outbox.StatusPending || e.Status == outbox.StatusRetrying {
			out = append(out, e)
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// mockNotifier implements Notifier for testing.
type mockNotifier struct {
	messages []string
}

func (m *mockNotifier) Broadcast(message string) {
	m.messages = append(m.messages, message)
}

// mockPredictor implements GenderPredictor for testing.
type mockPredictor struct {
	pred    gender.Prediction
	err     error
	gotName string
}

func (m *mockPredictor) Predict(_ context.Context, name string) (gender.Prediction, error) {
	m.gotName = name
	return m.pred, m.err
}

// mockCourseStore implements CourseStoreForSeed for testing.
type mockCourseStore struct {
	count    int
	replaced []course.Category
	calls    int
}

func (m *mockCourseStore) CountCategories(_ context.Context) (int, error) {
	return m.count, nil
}

func (m *mockCourseStore) Replace(_ context.Context, cats []course.Category) error {
	m.calls++
	m.replaced = cats
	m.count = len(cats)
	return nil
}

// mockLifecycleStore implements LeadStoreForStatus and LeadStoreForDelete for testing.
type mockLifecycleStore struct {
	statuses map[string]string
	history  []lead.StatusChange
	err      error
}

func newMockLifecycleStore(ids ...string) *mockLifecycleStore {
	m := &mockLifecycleStore{statuses: make(map[string]string)}
	for _, id := range ids {
		m.statuses[id] = lead.StatusLead
	}
	return m
}

func (m *mockLifecycleStore) UpdateStatus(_ context.Context, change lead.StatusChange) (lead.StatusChange, error) {
	if m.err != nil {
		return lead.StatusChange{}, m.err
	}
	old, ok := m.statuses[change.LeadID]
	if !ok {
		return lead.StatusChange{}, fmt.Errorf("%w: %s", lead.ErrNotFound, change.LeadID)
	}
	change.OldStatus = old
	m.statuses[change.LeadID] = change.NewStatus
	m.history = append(m.history, change)
	return change, nil
}

func (m *mockLifecycleStore) Delete(_ context.Context, id string) error {
	if _, ok := m.statuses[id]; !ok {
		return fmt.Errorf("%w: %s", lead.ErrNotFound, id)
	}
	delete(m.statuses, id)
	return nil
}
