package lead

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/storage"
	domain "github.com/PhuD203/Admissions-consultant-sub001/internal/domain/lead"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/submission"
)

// dateLayout is fixed-width so stored timestamps sort lexically.
const dateLayout = "2006-01-02T15:04:05.000000000Z07:00"

const defaultListLimit = 100

const leadColumns = `id, student_name, email, phone_number, zalo_phone, link_facebook, date_of_birth, gender,
	current_education_level, other_education_level_description, high_school_name, city, source,
	other_source_description, notification_consent, other_notification_consent_description,
	interested_courses_details, current_status, registration_date, dedupe_key, created_at`

// SQLiteStore implements the lead Store interface using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// Compile-time check that SQLiteStore satisfies Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new lead store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a lead by its ID.
// PRE: id is non-empty
// POST: Returns the lead or an error wrapping lead.ErrNotFound
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Lead, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+leadColumns+` FROM student_lead WHERE id = ?`, id)
	l, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Lead{}, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	if err != nil {
		return domain.Lead{}, fmt.Errorf("get lead %s: %w", id, err)
	}
	return l, nil
}

// Save persists a lead (insert or update).
// PRE: lead has been validated and DedupeKey is set
// POST: Lead is persisted
func (s *SQLiteStore) Save(ctx context.Context, l domain.Lead) error {
	if l.DedupeKey == "" {
		return errors.New("lead dedupe key is required")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO student_lead (`+leadColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   student_name=excluded.student_name, email=excluded.email, phone_number=excluded.phone_number,
		   zalo_phone=excluded.zalo_phone, link_facebook=excluded.link_facebook,
		   date_of_birth=excluded.date_of_birth, gender=excluded.gender,
		   current_education_level=excluded.current_education_level,
		   other_education_level_description=excluded.other_education_level_description,
		   high_school_name=excluded.high_school_name, city=excluded.city, source=excluded.source,
		   other_source_description=excluded.other_source_description,
		   notification_consent=excluded.notification_consent,
		   other_notification_consent_description=excluded.other_notification_consent_description,
		   interested_courses_details=excluded.interested_courses_details,
		   current_status=excluded.current_status, registration_date=excluded.registration_date,
		   dedupe_key=excluded.dedupe_key`,
		l.ID, l.StudentName, l.Email, l.PhoneNumber, l.ZaloPhone, l.LinkFacebook, l.DateOfBirth, l.Gender,
		l.CurrentEducationLevel, l.OtherEducationLevelDescription, l.HighSchoolName, l.City, l.Source,
		l.OtherSourceDescription, l.NotificationConsent, l.OtherNotificationConsentDescription,
		l.InterestedCoursesDetails, l.CurrentStatus, l.RegistrationDate, l.DedupeKey,
		l.CreatedAt.UTC().Format(dateLayout))
	if err != nil {
		return fmt.Errorf("save lead %s: %w", l.ID, err)
	}
	return nil
}

// ListCandidates returns earlier submissions sharing a dedupe key.
// PRE: key is non-empty; limit > 0
// POST: Returns at most limit records, newest first
func (s *SQLiteStore) ListCandidates(ctx context.Context, key string, limit int) ([]submission.Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, student_name, email, interested_courses_details, registration_date
		 FROM student_lead WHERE dedupe_key = ? ORDER BY created_at DESC LIMIT ?`, key, limit)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var out []submission.Record
	for rows.Next() {
		var r submission.Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Email, &r.InterestedCourseDetail, &r.RegisteredAt); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// List returns leads matching the filter, newest first.
// PRE: none
// POST: Returns at most filter.Limit leads (defaultListLimit when unset)
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Lead, error) {
	where, args := filterClause(filter)
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	query := `SELECT ` + leadColumns + ` FROM student_lead` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	var out []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// Count returns the number of leads matching the filter. Limit and Offset are ignored.
func (s *SQLiteStore) Count(ctx context.Context, filter ListFilter) (int, error) {
	where, args := filterClause(filter)
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM student_lead`+where, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count leads: %w", err)
	}
	return n, nil
}

func filterClause(filter ListFilter) (string, []any) {
	var where []string
	var args []any
	if filter.Email != "" {
		where = append(where, "email = ?")
		args = append(args, filter.Email)
	}
	if filter.Status != "" {
		where = append(where, "current_status = ?")
		args = append(args, filter.Status)
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

// UpdateStatus moves a lead to change.NewStatus and appends the change to its history.
// PRE: change has been validated
// POST: Returns change with OldStatus filled, or an error wrapping lead.ErrNotFound
func (s *SQLiteStore) UpdateStatus(ctx context.Context, change domain.StatusChange) (domain.StatusChange, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.StatusChange{}, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `SELECT current_status FROM student_lead WHERE id = ?`, change.LeadID).Scan(&change.OldStatus)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.StatusChange{}, fmt.Errorf("%w: %s", domain.ErrNotFound, change.LeadID)
	}
	if err != nil {
		return domain.StatusChange{}, fmt.Errorf("read status of lead %s: %w", change.LeadID, err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE student_lead SET current_status = ? WHERE id = ?`,
		change.NewStatus, change.LeadID); err != nil {
		return domain.StatusChange{}, fmt.Errorf("update status of lead %s: %w", change.LeadID, err)
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO lead_status_history (id, lead_id, old_status, new_status, changed_by, notes, changed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		change.ID, change.LeadID, change.OldStatus, change.NewStatus, change.ChangedBy, change.Notes,
		change.ChangedAt.UTC().Format(dateLayout)); err != nil {
		return domain.StatusChange{}, fmt.Errorf("record status change %s: %w", change.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return domain.StatusChange{}, fmt.Errorf("commit status change: %w", err)
	}
	return change, nil
}

// ListStatusHistory returns a lead's status changes, oldest first.
func (s *SQLiteStore) ListStatusHistory(ctx context.Context, leadID string) ([]domain.StatusChange, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, lead_id, old_status, new_status, changed_by, notes, changed_at
		 FROM lead_status_history WHERE lead_id = ? ORDER BY changed_at ASC, rowid ASC`, leadID)
	if err != nil {
		return nil, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	var out []domain.StatusChange
	for rows.Next() {
		var c domain.StatusChange
		var changedAt string
		if err := rows.Scan(&c.ID, &c.LeadID, &c.OldStatus, &c.NewStatus, &c.ChangedBy, &c.Notes, &changedAt); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		c.ChangedAt, _ = time.Parse(dateLayout, changedAt)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a lead and its status history.
// PRE: id is non-empty
// POST: Returns an error wrapping lead.ErrNotFound when no lead has the ID
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM student_lead WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete lead %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete lead %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanLead(sc scanner) (domain.Lead, error) {
	var l domain.Lead
	var createdAt string
	err := sc.Scan(&l.ID, &l.StudentName, &l.Email, &l.PhoneNumber, &l.ZaloPhone, &l.LinkFacebook,
		&l.DateOfBirth, &l.Gender, &l.CurrentEducationLevel, &l.OtherEducationLevelDescription,
		&l.HighSchoolName, &l.City, &l.Source, &l.OtherSourceDescription, &l.NotificationConsent,
		&l.OtherNotificationConsentDescription, &l.InterestedCoursesDetails, &l.CurrentStatus,
		&l.RegistrationDate, &l.DedupeKey, &createdAt)
	if err != nil {
		return domain.Lead{}, err
	}
	l.CreatedAt, _ = time.Parse(dateLayout, createdAt)
	return l, nil
}
