package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/http/middleware"
	leadStore "github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/storage/lead"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/application/listutil"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/application/orchestrators"
	courseDomain "github.com/PhuD203/Admissions-consultant-sub001/internal/domain/course"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/lead"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/outbox"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Client-facing messages returned by the intake API.
const (
	msgSubmitted      = "Đăng ký thành công"
	msgInvalidForm    = "Dữ liệu không hợp lệ"
	msgMissingFields  = "Thiếu trường bắt buộc"
	msgEmailSent      = "Email đã được gửi"
	msgEmailFailed    = "Lỗi khi gửi email"
	msgMissingName    = "Missing name"
	msgPredictFailed  = "Prediction failed"
	msgLeadNotFound   = "Lead not found"
	msgInvalidStatus  = "Invalid status update"
	msgLeadDeleted    = "Lead deleted"
	msgServiceMissing = "Service unavailable"
)

// internalError logs the real error and returns a generic jsend error to the client.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("internal_error", "error", err.Error(), "path", r.URL.Path, "request_id", middleware.RequestIDFrom(r.Context()))
	writeJSON(w, http.StatusInternalServerError, errorEnvelope("internal server error"))
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// decodeForm decodes the registration form. Unknown fields are ignored: the
// public site may post extra UI state alongside the form.
func decodeForm(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

// handleSubmitForm records a consulting form. Duplicates never reach it.
func (s *server) handleSubmitForm(w http.ResponseWriter, r *http.Request) {
	var form lead.Form
	if err := decodeForm(w, r, &form); err != nil {
		writeJSON(w, http.StatusBadRequest, fail(msgInvalidForm, map[string]string{"error": "malformed JSON body"}))
		return
	}

	result, err := orchestrators.ExecuteSubmitForm(r.Context(), orchestrators.SubmitFormInput{Form: form}, orchestrators.SubmitFormDeps{
		LeadStore:   s.LeadStore,
		EmailSender: s.Sender,
		OutboxStore: s.OutboxStore,
		Notifier:    s.Notifier,
		Policy:      s.Policy,
		GenerateID:  s.GenerateID,
		Now:         s.Now,
	})
	if err != nil {
		if errors.Is(err, lead.ErrEmptyName) || errors.Is(err, lead.ErrInvalidEmail) || errors.Is(err, lead.ErrEmptyPhone) {
			writeJSON(w, http.StatusBadRequest, fail(msgInvalidForm, map[string]string{"error": err.Error()}))
			return
		}
		internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, success(map[string]any{
		"message":      msgSubmitted,
		"dataReceived": []lead.Lead{result.Lead},
		"emailSent":    result.EmailSent,
		"emailQueued":  result.EmailQueued,
	}))
}

// sendEmailRequest is the body of POST /api/uploadform/sendemail.
type sendEmailRequest struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

func (s *server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	var req sendEmailRequest
	if err := strictDecode(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope(msgMissingFields))
		return
	}
	if s.Sender == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorEnvelope(msgServiceMissing))
		return
	}

	_, err := orchestrators.ExecuteSendEmail(r.Context(), orchestrators.SendEmailInput{
		To:      req.To,
		Subject: req.Subject,
		Text:    req.Text,
		HTML:    req.HTML,
	}, orchestrators.SendEmailDeps{Sender: s.Sender})
	switch {
	case errors.Is(err, orchestrators.ErrMissingEmailFields):
		writeJSON(w, http.StatusBadRequest, errorEnvelope(msgMissingFields))
	case err != nil:
		slog.Error("email_event", "event", "send_failed", "error", err, "request_id", middleware.RequestIDFrom(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorEnvelope(msgEmailFailed))
	default:
		writeJSON(w, http.StatusOK, success(map[string]string{"message": msgEmailSent}))
	}
}

func (s *server) handlePredictGender(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := strictDecode(w, r, &req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorEnvelope(msgMissingName))
		return
	}
	if s.Predictor == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorEnvelope(msgServiceMissing))
		return
	}

	result, err := orchestrators.ExecutePredictGender(r.Context(), orchestrators.PredictGenderInput{Name: req.Name},
		orchestrators.PredictGenderDeps{Predictor: s.Predictor})
	switch {
	case errors.Is(err, orchestrators.ErrMissingName):
		writeJSON(w, http.StatusBadRequest, errorEnvelope(msgMissingName))
	case err != nil:
		slog.Warn("gender_prediction_failed", "error", err, "request_id", middleware.RequestIDFrom(r.Context()))
		writeJSON(w, http.StatusInternalServerError, errorEnvelope(msgPredictFailed))
	default:
		writeJSON(w, http.StatusOK, success(result))
	}
}

// handleDatauser returns the bare course catalog; the registration site reads it without an envelope.
func (s *server) handleDatauser(w http.ResponseWriter, r *http.Request) {
	cats, err := s.CourseStore.List(r.Context())
	if err != nil {
		slog.Error("internal_error", "error", err.Error(), "path", r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Server error"})
		return
	}
	if cats == nil {
		cats = []courseDomain.Category{}
	}
	writeJSON(w, http.StatusOK, cats)
}

// leadPage is the data of GET /api/leads.
type leadPage struct {
	Leads []lead.Lead       `json:"leads"`
	Page  listutil.PageInfo `json:"page"`
}

// handleListLeads lists captured leads for counselors, newest first.
func (s *server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	pp := listutil.ParsePageParams(q)
	fp := listutil.ParseFilterParams(q, []string{"email", "status"})
	filter := leadStore.ListFilter{Email: fp["email"]}
	if raw := fp["status"]; raw != "" {
		status, err := lead.ParseStatus(raw)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, fail(msgInvalidStatus, map[string]any{"status": err.Error(), "allowed": lead.Statuses}))
			return
		}
		filter.Status = status
	}

	total, err := s.LeadStore.Count(r.Context(), filter)
	if err != nil {
		internalError(w, r, err)
		return
	}
	info := listutil.NewPageInfo(pp.Page, pp.PerPage, total)
	filter.Limit = info.PerPage
	filter.Offset = info.Offset()

	leads, err := s.LeadStore.List(r.Context(), filter)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if leads == nil {
		leads = []lead.Lead{}
	}
	writeJSON(w, http.StatusOK, success(leadPage{Leads: leads, Page: info}))
}

func (s *server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	l, err := s.LeadStore.GetByID(r.Context(), r.PathValue("id"))
	if errors.Is(err, lead.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, fail(msgLeadNotFound, nil))
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success(l))
}

// statusUpdate is the PATCH /api/leads/{id} body.
type statusUpdate struct {
	Status    string `json:"status"`
	ChangedBy string `json:"changed_by"`
	Notes     string `json:"notes"`
}

// handleUpdateLeadStatus moves a lead to another pipeline status.
func (s *server) handleUpdateLeadStatus(w http.ResponseWriter, r *http.Request) {
	var body statusUpdate
	if err := strictDecode(w, r, &body); err != nil {
		writeJSON(w, http.StatusBadRequest, fail(msgInvalidStatus, map[string]string{"error": "malformed JSON body"}))
		return
	}

	change, err := orchestrators.ExecuteUpdateLeadStatus(r.Context(), orchestrators.UpdateLeadStatusInput{
		LeadID:    r.PathValue("id"),
		Status:    body.Status,
		ChangedBy: body.ChangedBy,
		Notes:     body.Notes,
	}, orchestrators.UpdateLeadStatusDeps{
		LeadStore:  s.LeadStore,
		GenerateID: s.GenerateID,
		Now:        s.Now,
	})
	switch {
	case errors.Is(err, lead.ErrNotFound):
		writeJSON(w, http.StatusNotFound, fail(msgLeadNotFound, nil))
	case errors.Is(err, lead.ErrInvalidStatus):
		writeJSON(w, http.StatusBadRequest, fail(msgInvalidStatus, map[string]any{"status": err.Error(), "allowed": lead.Statuses}))
	case errors.Is(err, lead.ErrNotesTooLong):
		writeJSON(w, http.StatusBadRequest, fail(msgInvalidStatus, map[string]string{"notes": err.Error()}))
	case err != nil:
		internalError(w, r, err)
	default:
		writeJSON(w, http.StatusOK, success(change))
	}
}

// handleDeleteLead removes a lead and its history.
func (s *server) handleDeleteLead(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	err := orchestrators.ExecuteDeleteLead(r.Context(), orchestrators.DeleteLeadInput{LeadID: id},
		orchestrators.DeleteLeadDeps{LeadStore: s.LeadStore})
	if errors.Is(err, lead.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, fail(msgLeadNotFound, nil))
		return
	}
	if err != nil {
		internalError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, success(map[string]string{"message": msgLeadDeleted, "id": id}))
}

// handleLeadHistory lists a lead's status changes, oldest first.
func (s *server) handleLeadHistory(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.LeadStore.GetByID(r.Context(), id); err != nil {
		if errors.Is(err, lead.ErrNotFound) {
			writeJSON(w, http.StatusNotFound, fail(msgLeadNotFound, nil))
			return
		}
		internalError(w, r, err)
		return
	}
	history, err := s.LeadStore.ListStatusHistory(r.Context(), id)
	if err != nil {
		internalError(w, r, err)
		return
	}
	if history == nil {
		history = []lead.StatusChange{}
	}
	writeJSON(w, http.StatusOK, success(map[string]any{"history": history}))
}

// metricsWindow is how far back /api/metrics looks.
const metricsWindow = 15 * time.Minute

// handleMetrics summarises recent request latency from the in-memory collector.
func (s *server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.Collector.Snapshot(s.Now().Add(-metricsWindow), 10)
	writeJSON(w, http.StatusOK, success(snap))
}

// handleHealth reports database reachability and the outbox backlog.
func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok", "database": "up"}
	status := http.StatusOK

	if s.DB != nil {
		if err := s.DB.PingContext(r.Context()); err != nil {
			slog.Error("health_check_failed", "error", err)
			body["status"] = "degraded"
			body["database"] = "down"
			status = http.StatusServiceUnavailable
		}
	}
	if s.OutboxStore != nil && status == http.StatusOK {
		if n, err := s.OutboxStore.CountByStatus(r.Context(), outbox.StatusPending); err == nil {
			body["outbox_pending"] = n
		}
	}
	body["time"] = s.Now().UTC().Format(time.RFC3339)

	writeJSON(w, status, body)
}
