package web

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/email"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/http/middleware"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/http/perf"
	courseStore "github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/storage/course"
	leadStore "github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/storage/lead"
	outboxStore "github.com/PhuD203/Admissions-consultant-sub001/internal/adapters/storage/outbox"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/application/orchestrators"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/config"
	"github.com/PhuD203/Admissions-consultant-sub001/internal/domain/submission"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Deps holds everything the HTTP layer needs. Sender, Notifier, Predictor,
// OutboxStore and DB are optional; the matching routes degrade when nil.
type Deps struct {
	LeadStore   leadStore.Store
	CourseStore courseStore.Store
	OutboxStore outboxStore.Store
	Sender      email.Sender
	Notifier    orchestrators.Notifier
	Predictor   orchestrators.GenderPredictor
	DB          Pinger

	Policy         submission.Policy
	CandidateLimit int

	// Limiter is owned by the caller, which must Close it on shutdown. Nil disables rate limiting.
	Limiter        *middleware.RateLimiter
	// CSRFKey is the 32-byte gorilla/csrf secret. Nil disables CSRF protection.
	CSRFKey        []byte
	SecureCookies  bool
	TrustedOrigins []string
	CORS           config.CORSConfig
	SlowRequest    time.Duration
	// Collector receives request timings for /api/metrics. Nil creates one.
	Collector      *perf.Collector

	Now        func() time.Time
	GenerateID func() string
}

// server carries Deps into the handlers.
type server struct {
	Deps
}

// NewMux wires HTTP handlers and the middleware chain for the intake API.
// PRE: LeadStore and CourseStore are non-nil
// POST: Returned handler serves every /api/uploadform route plus /health
func NewMux(d Deps) http.Handler {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.GenerateID == nil {
		d.GenerateID = generateID
	}
	if d.Collector == nil {
		d.Collector = perf.NewCollector(perf.DefaultRingSize)
	}
	s := &server{Deps: d}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	// Apply middleware: Recovery -> RequestID -> Timing -> CORS -> SecurityHeaders -> CSRF -> RateLimit -> Mux
	mws := []func(http.Handler) http.Handler{}
	if d.Limiter != nil {
		mws = append(mws, middleware.RateLimit(d.Limiter))
	}
	if d.CSRFKey != nil {
		mws = append(mws, middleware.CSRF(d.CSRFKey, d.SecureCookies, d.TrustedOrigins))
	}
	mws = append(mws,
		middleware.SecurityHeaders,
		middleware.CORS(d.CORS),
		middleware.Timing(d.SlowRequest, d.Collector),
		middleware.RequestID,
		middleware.Recovery,
	)
	return middleware.Chain(mux, mws...)
}

// registerRoutes maps every endpoint onto mux.
func (s *server) registerRoutes(mux *http.ServeMux) {
	duplicate := middleware.DuplicateCheck(s.checkDuplicate)

	mux.Handle("POST /api/uploadform/submitform", duplicate(http.HandlerFunc(s.handleSubmitForm)))
	mux.HandleFunc("POST /api/uploadform/sendemail", s.handleSendEmail)
	mux.HandleFunc("POST /api/uploadform/predict-gender", s.handlePredictGender)
	mux.HandleFunc("GET /api/uploadform/Datauser", s.handleDatauser)
	mux.HandleFunc("GET /api/leads", s.handleListLeads)
	mux.HandleFunc("GET /api/leads/{id}", s.handleGetLead)
	mux.HandleFunc("PATCH /api/leads/{id}", s.handleUpdateLeadStatus)
	mux.HandleFunc("DELETE /api/leads/{id}", s.handleDeleteLead)
	mux.HandleFunc("GET /api/leads/{id}/history", s.handleLeadHistory)
	mux.HandleFunc("GET /api/metrics", s.handleMetrics)
	mux.HandleFunc("GET /health", s.handleHealth)
}

// checkDuplicate adapts ExecuteCheckDuplicate to the middleware's CheckFunc.
func (s *server) checkDuplicate(ctx context.Context, candidate submission.Record) (submission.Verdict, error) {
	return orchestrators.ExecuteCheckDuplicate(ctx, orchestrators.CheckDuplicateInput{Candidate: candidate}, orchestrators.CheckDuplicateDeps{
		Candidates: s.LeadStore,
		Policy:     s.Policy,
		Limit:      s.CandidateLimit,
	})
}

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}
