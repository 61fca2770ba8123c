package web

import (
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/example/icecheck/internal/domain/availability"
	"github.com/example/icecheck/internal/domain/facility"
	"github.com/example/icecheck/internal/internaltypes"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Checker runs one set of filters. usecases.CheckService satisfies it.
type Checker interface {
	Run(ctx context.Context, f availability.Filters) ([]availability.Result, error)
}

type Options struct {
	Addr     string
	Catalog  *facility.Catalog
	Defaults []int64
	Presets  []availability.Preset
	Location *time.Location
	// PasswordHash is a bcrypt hash. Empty disables the login page.
	PasswordHash string
	Now          func() time.Time
}

type Server struct {
	opts     Options
	sessions *SessionManager
	checks   Checker
	tmpl     *template.Template
	log      *zap.Logger
}

func New(opts Options, sessions *SessionManager, checks Checker, tmpl *template.Template, log *zap.Logger) *Server {
	if opts.Catalog == nil {
		opts.Catalog = facility.NewCatalog(nil)
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{opts: opts, sessions: sessions, checks: checks, tmpl: tmpl, log: log}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	mux.HandleFunc("/login", s.handleLogin)
	mux.HandleFunc("/logout", s.handleLogout)
	mux.HandleFunc("/api/check", s.requireAuth(s.handleAPICheck))
	mux.HandleFunc("/", s.requireAuth(s.handleHome))
	return s.logging(mux)
}

// ListenAndServe blocks until ctx is done, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.opts.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Duration("took", time.Since(start)))
	})
}

func (s *Server) authEnabled() bool { return s.opts.PasswordHash != "" }

func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authEnabled() && !s.sessions.Authenticated(r) {
			if strings.HasPrefix(r.URL.Path, "/api/") {
				writeErr(w, internaltypes.ErrUnauthorized, http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r)
	}
}

func writeErr(w http.ResponseWriter, err error, code int) {
	w.WriteHeader(code)
	_, _ = w.Write([]byte(err.Error()))
}

func (s *Server) render(w http.ResponseWriter, name string, data any) {
	w.Header().Set("content-type", "text/html; charset=utf-8")
	if err := s.tmpl.ExecuteTemplate(w, name, data); err != nil {
		s.log.Error("render", zap.String("template", name), zap.Error(err))
		writeErr(w, err, http.StatusInternalServerError)
	}
}

type loginData struct {
	Error string
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if !s.authEnabled() {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	switch r.Method {
	case http.MethodGet:
		s.render(w, "login.html", loginData{})
	case http.MethodPost:
		_ = r.ParseForm()
		err := bcrypt.CompareHashAndPassword([]byte(s.opts.PasswordHash), []byte(r.FormValue("password")))
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			s.render(w, "login.html", loginData{Error: "Invalid password"})
			return
		}
		if err := s.sessions.SetAuthenticated(w, r); err != nil {
			writeErr(w, err, http.StatusInternalServerError)
			return
		}
		http.Redirect(w, r, "/", http.StatusFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.sessions.Clear(w)
	http.Redirect(w, r, "/login", http.StatusFound)
}

type dayFilterOption struct {
	Value   string
	Checked bool
}

type resultsView struct {
	Warning   string
	From, To  string
	Start     string
	End       string
	Available []availability.Result
	NoneFound bool
	Partial   bool
	// NoDates means the filters matched no date; only the message is shown.
	NoDates bool
}

type dashboardData struct {
	Form       formState
	Facilities []facilityOption
	DayFilters []dayFilterOption
	Presets    []availability.Preset
	MaxDays    int
	Auth       bool
	Results    *resultsView
}

func (s *Server) today() time.Time {
	t := s.opts.Now().In(s.opts.Location)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, s.opts.Location)
}

// initialForm is the cookie's form, or the defaults when there is none.
func (s *Server) initialForm(r *http.Request) formState {
	if f, ok := s.sessions.LoadForm(r); ok {
		return f
	}
	f := defaultForm(s.today())
	f.Facilities = append([]int64(nil), s.opts.Defaults...)
	return f
}

func (s *Server) dashboard(f formState, results *resultsView) dashboardData {
	days := make([]dayFilterOption, 0, len(availability.DayFilters))
	for _, d := range availability.DayFilters {
		days = append(days, dayFilterOption{Value: string(d), Checked: strings.EqualFold(string(d), f.DayFilter)})
	}
	return dashboardData{
		Form:       f,
		Facilities: f.options(s.opts.Catalog),
		DayFilters: days,
		Presets:    s.opts.Presets,
		MaxDays:    maxDays,
		Auth:       s.authEnabled(),
		Results:    results,
	}
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	form := s.initialForm(r)
	switch r.Method {
	case http.MethodGet:
		s.render(w, "dashboard.html", s.dashboard(form, nil))
		return
	case http.MethodPost:
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	_ = r.ParseForm()
	form = readForm(r, form)
	var results *resultsView

	action := r.FormValue("action")
	switch {
	case action == "select_all":
		form.Facilities = idsOf(s.opts.Catalog.All())
	case action == "clear_all":
		form.Facilities = nil
	case strings.HasPrefix(action, "preset:"):
		name := strings.TrimPrefix(action, "preset:")
		p, ok := availability.FindPreset(s.opts.Presets, name)
		if !ok {
			writeErr(w, internaltypes.ErrNotFound, http.StatusBadRequest)
			return
		}
		form = form.withPreset(p, s.opts.Defaults)
	default:
		results = s.check(r.Context(), form)
	}

	if err := s.sessions.SaveForm(w, r, form); err != nil {
		s.log.Warn("save filters", zap.Error(err))
	}
	s.render(w, "dashboard.html", s.dashboard(form, results))
}

func idsOf(fs []facility.Facility) []int64 {
	out := make([]int64, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.ExtID)
	}
	return out
}

func (s *Server) check(ctx context.Context, form formState) *resultsView {
	f, err := form.filters(s.opts.Location, s.opts.Catalog)
	if err != nil {
		return &resultsView{Warning: err.Error()}
	}
	view := &resultsView{Start: f.Start, End: f.End}
	if dates := f.Dates(); len(dates) > 0 {
		view.From, view.To = dates[0], dates[len(dates)-1]
	}

	start := time.Now()
	results, err := s.checks.Run(ctx, f)
	switch {
	case errors.Is(err, internaltypes.ErrNoFacilities):
		view.Warning = "Please select at least one facility."
		return view
	case errors.Is(err, internaltypes.ErrNoDates):
		view.NoDates = true
		return view
	case err != nil:
		s.log.Error("check", zap.Error(err))
		view.Warning = err.Error()
		return view
	}

	sum := availability.Summarize(results)
	view.Available = sum.Available
	view.NoneFound = sum.NoneAvailable()
	view.Partial = sum.Partial()
	s.log.Info("dashboard check finished",
		zap.Int("dates", len(results)),
		zap.Int("available", len(sum.Available)),
		zap.Duration("elapsed", time.Since(start)))
	return view
}

type apiRequest struct {
	StartDate  string  `json:"start_date"`
	Days       int     `json:"days"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	DayFilter  string  `json:"day_filter"`
	Facilities []int64 `json:"facilities"`
	// FacilityNames are matched against facility descriptions and added
	// to Facilities.
	FacilityNames []string `json:"facility_names"`
	Preset        string   `json:"preset"`
}

type apiResult struct {
	Date      string `json:"date"`
	Available bool   `json:"available"`
	Link      string `json:"link"`
	Millis    int64  `json:"duration_ms"`
}

type apiResponse struct {
	Results []apiResult `json:"results"`
}

// handleAPICheck runs a check from a JSON body. Omitted fields fall back to
// the dashboard defaults; a preset name overrides window and facilities.
func (s *Server) handleAPICheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var req apiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}

	form := defaultForm(s.today())
	form.Facilities = append([]int64(nil), s.opts.Defaults...)
	if req.Preset != "" {
		p, ok := availability.FindPreset(s.opts.Presets, req.Preset)
		if !ok {
			writeErr(w, internaltypes.ErrNotFound, http.StatusNotFound)
			return
		}
		form = form.withPreset(p, s.opts.Defaults)
	}
	if req.StartDate != "" {
		form.StartDate = req.StartDate
	}
	if req.Days > 0 {
		form.Days = req.Days
	}
	if req.Start != "" {
		form.Start = req.Start
	}
	if req.End != "" {
		form.End = req.End
	}
	if req.DayFilter != "" {
		form.DayFilter = req.DayFilter
	}
	if req.Facilities != nil || req.FacilityNames != nil {
		form.Facilities = append(append([]int64(nil), req.Facilities...), s.opts.Catalog.IDs(req.FacilityNames)...)
	}

	f, err := form.filters(s.opts.Location, s.opts.Catalog)
	if err != nil {
		writeErr(w, err, http.StatusBadRequest)
		return
	}
	results, err := s.checks.Run(r.Context(), f)
	switch {
	case errors.Is(err, internaltypes.ErrNoFacilities):
		writeErr(w, err, http.StatusUnprocessableEntity)
		return
	case errors.Is(err, internaltypes.ErrNoDates):
		results = nil
	case err != nil:
		writeErr(w, err, http.StatusInternalServerError)
		return
	}

	availability.SortByDate(results)
	resp := apiResponse{Results: make([]apiResult, 0, len(results))}
	for _, res := range results {
		resp.Results = append(resp.Results, apiResult{
			Date:      res.Date,
			Available: res.Available,
			Link:      res.Link,
			Millis:    res.Duration.Milliseconds(),
		})
	}
	w.Header().Set("content-type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
