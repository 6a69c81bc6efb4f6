// Package webregtest provides an in-process fake of the WebReg portal for
// tests of code built on webreg.Client.
package webregtest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"
	"webweg/lib/platforms/webreg"

	"github.com/google/uuid"
)

const SessionCookieName = "jlinksessionidx"

// LoginPage is served in place of JSON to requests without a valid session,
// like the single sign-on page is on the real portal.
const LoginPage = `<!DOCTYPE html>
<html>
<head><title>Single Sign-On</title></head>
<body>
<a class="skip" href="#main">Skip to main content</a>
<main id="main"><form method="post"><input name="username"><input name="password" type="password"></form></main>
</body>
</html>`

// Request is a request the server received from a valid session.
type Request struct {
	Method   string
	Endpoint webreg.Endpoint
	Params   url.Values
}

// Server is a fake WebReg. Sessions are created with NewSession and are
// only usable for the terms they have been associated with, every other
// term gets the verification failure marker back.
type Server struct {
	*httptest.Server
	logger *slog.Logger

	mutex sync.RWMutex
	// session id -> associated terms
	sessions  map[string]map[string]bool
	requests  []Request
	failures  map[webreg.Endpoint]string
	statuses  map[webreg.Endpoint]int
	terms     []webreg.RawTermListItem
	courses   map[string][]webreg.RawWebRegMeeting
	prereqs   map[string][]webreg.RawPrerequisite
	schedules map[string][]webreg.RawScheduledMeeting
	events    []webreg.RawEvent
	subjects  []webreg.RawSubjectElement
	depts     []webreg.RawDepartmentElement

	AccountName      string
	VerifyFailMarker string
}

// NewServer starts a server that is closed when the test ends.
func NewServer(t testing.TB) *Server {
	s := &Server{
		logger:           slog.Default().With("component", "webregtest"),
		sessions:         map[string]map[string]bool{},
		failures:         map[webreg.Endpoint]string{},
		statuses:         map[webreg.Endpoint]int{},
		courses:          map[string][]webreg.RawWebRegMeeting{},
		prereqs:          map[string][]webreg.RawPrerequisite{},
		schedules:        map[string][]webreg.RawScheduledMeeting{webreg.DefaultScheduleName: nil},
		AccountName:      "Doe, Jane",
		VerifyFailMarker: webreg.DefaultVerifyFailMarker,
	}

	mux := http.NewServeMux()
	get := func(endpoint webreg.Endpoint, handler http.HandlerFunc) {
		mux.HandleFunc("GET "+string(endpoint), handler)
	}
	post := func(endpoint webreg.Endpoint, handler http.HandlerFunc) {
		mux.HandleFunc("POST "+string(endpoint), handler)
	}

	get(webreg.EndpointTermList, s.handleTermList)
	get(webreg.EndpointAccountName, s.requireSession(s.handleAccountName))
	get(webreg.EndpointPing, s.requireSession(s.handlePing))
	get(webreg.EndpointStatusStart, s.requireSession(s.handleAssociate))
	get(webreg.EndpointCheckEligibility, s.requireSession(s.handleAssociate))

	get(webreg.EndpointCourseData, s.requireTerm(s.handleCourseData))
	get(webreg.EndpointPrerequisites, s.requireTerm(s.handlePrerequisites))
	get(webreg.EndpointSearch, s.requireTerm(s.handleSearch))
	get(webreg.EndpointSearchSection, s.requireTerm(s.handleSearchSection))
	get(webreg.EndpointDepartmentList, s.requireTerm(s.handleDepartments))
	get(webreg.EndpointSubjectList, s.requireTerm(s.handleSubjects))
	get(webreg.EndpointSchedule, s.requireTerm(s.handleSchedule))
	get(webreg.EndpointScheduleNames, s.requireTerm(s.handleScheduleNames))
	get(webreg.EndpointEventList, s.requireTerm(s.handleEvents))

	post(webreg.EndpointSendEmail, s.requireTerm(s.handleSendEmail))
	post(webreg.EndpointRenameSchedule, s.requireTerm(s.mutation(s.renameSchedule)))
	post(webreg.EndpointRemoveSchedule, s.requireTerm(s.mutation(s.removeSchedule)))
	post(webreg.EndpointEventAdd, s.requireTerm(s.mutation(s.addEvent)))
	post(webreg.EndpointEventEdit, s.requireTerm(s.mutation(s.editEvent)))
	post(webreg.EndpointEventRemove, s.requireTerm(s.mutation(s.removeEvent)))
	for _, endpoint := range []webreg.Endpoint{
		webreg.EndpointChangeEnroll,
		webreg.EndpointPlanAdd,
		webreg.EndpointPlanRemove,
		webreg.EndpointPlanEdit,
		webreg.EndpointPlanRemoveAll,
		webreg.EndpointEnrollAdd,
		webreg.EndpointEnrollEdit,
		webreg.EndpointEnrollDrop,
		webreg.EndpointWaitlistAdd,
		webreg.EndpointWaitlistEdit,
		webreg.EndpointWaitlistDrop,
	} {
		post(endpoint, s.requireTerm(s.mutation(nil)))
	}

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Server.Close)
	return s
}

// NewSession creates a session associated with the given terms and returns
// the Cookie header that authenticates it.
func (s *Server) NewSession(terms ...string) string {
	id := uuid.New().String()
	associated := map[string]bool{}
	for _, term := range terms {
		associated[term] = true
	}

	s.mutex.Lock()
	s.sessions[id] = associated
	s.mutex.Unlock()

	return fmt.Sprintf("%s=%s", SessionCookieName, id)
}

// ExpireSessions invalidates every session.
func (s *Server) ExpireSessions() {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sessions = map[string]map[string]bool{}
}

func courseKey(subject, course string) string {
	return strings.ToUpper(strings.TrimSpace(subject)) + "|" +
		webreg.FormatCourseCode(strings.ToUpper(strings.TrimSpace(course)))
}

func (s *Server) SetCourse(subject, course string, rows []webreg.RawWebRegMeeting) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.courses[courseKey(subject, course)] = rows
}

func (s *Server) SetPrerequisites(subject, course string, rows []webreg.RawPrerequisite) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.prereqs[courseKey(subject, course)] = rows
}

func (s *Server) SetSchedule(name string, rows []webreg.RawScheduledMeeting) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.schedules[name] = rows
}

func (s *Server) SetTerms(terms []webreg.RawTermListItem) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.terms = terms
}

func (s *Server) SetEvents(events []webreg.RawEvent) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.events = events
}

func (s *Server) SetCodes(subjects []webreg.RawSubjectElement, depts []webreg.RawDepartmentElement) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.subjects = subjects
	s.depts = depts
}

// Fail makes every following request to endpoint fail with reason, as
// the portal does when it refuses a mutation.
func (s *Server) Fail(endpoint webreg.Endpoint, reason string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.failures[endpoint] = reason
}

// SetStatus makes every following request to endpoint respond with code.
func (s *Server) SetStatus(endpoint webreg.Endpoint, code int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.statuses[endpoint] = code
}

// Requests returns every request made by a valid session, in order.
func (s *Server) Requests() []Request {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return slices.Clone(s.requests)
}

// Endpoints returns the endpoint of every request made by a valid session,
// in order.
func (s *Server) Endpoints() []webreg.Endpoint {
	var out []webreg.Endpoint
	for _, r := range s.Requests() {
		out = append(out, r.Endpoint)
	}
	return out
}

// Schedules returns the names of every schedule, sorted.
func (s *Server) Schedules() []string {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	var names []string
	for name := range s.schedules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (s *Server) Events() []webreg.RawEvent {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return slices.Clone(s.events)
}

func (s *Server) writeJson(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(value)
	if err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) sessionTerms(r *http.Request) (map[string]bool, bool) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	terms, ok := s.sessions[cookie.Value]
	return terms, ok
}

// requireSession serves the login page to requests without a valid
// session, and records the ones that have one.
func (s *Server) requireSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := s.sessionTerms(r); !ok {
			s.logger.Debug("no valid session", "path", r.URL.Path)
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, LoginPage)
			return
		}

		err := r.ParseForm()
		if err != nil {
			http.Error(w, "Bad Request: Could not parse form", http.StatusBadRequest)
			return
		}

		endpoint := webreg.Endpoint(r.URL.Path)
		s.mutex.Lock()
		s.requests = append(s.requests, Request{
			Method:   r.Method,
			Endpoint: endpoint,
			Params:   r.Form,
		})
		status, hasStatus := s.statuses[endpoint]
		s.mutex.Unlock()

		if hasStatus {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// requireTerm additionally checks that the session is associated with the
// requested termcode.
func (s *Server) requireTerm(next http.HandlerFunc) http.HandlerFunc {
	return s.requireSession(func(w http.ResponseWriter, r *http.Request) {
		terms, _ := s.sessionTerms(r)
		if !terms[r.Form.Get("termcode")] {
			w.Header().Set("Content-Type", "text/plain")
			fmt.Fprint(w, s.VerifyFailMarker)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleTermList(w http.ResponseWriter, r *http.Request) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	s.writeJson(w, s.terms)
}

func (s *Server) handleAccountName(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	fmt.Fprint(w, s.AccountName)
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, map[string]bool{"SESSION_OK": true})
}

func (s *Server) handleAssociate(w http.ResponseWriter, r *http.Request) {
	term := r.Form.Get("termcode")
	cookie, _ := r.Cookie(SessionCookieName) // checked by requireSession

	s.mutex.Lock()
	known := slices.ContainsFunc(s.terms, func(t webreg.RawTermListItem) bool {
		return t.TermCode == term
	})
	if known {
		s.sessions[cookie.Value][term] = true
	}
	s.mutex.Unlock()

	if !known {
		http.Error(w, fmt.Sprintf("Bad Request: unknown term `%s`", term), http.StatusBadRequest)
		return
	}
	s.writeJson(w, map[string]any{"term_associated": term})
}

func (s *Server) handleCourseData(w http.ResponseWriter, r *http.Request) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	rows := s.courses[courseKey(r.Form.Get("subjcode"), r.Form.Get("crsecode"))]
	if rows == nil {
		rows = []webreg.RawWebRegMeeting{}
	}
	s.writeJson(w, rows)
}

func (s *Server) handlePrerequisites(w http.ResponseWriter, r *http.Request) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	rows := s.prereqs[courseKey(r.Form.Get("subjcode"), r.Form.Get("crsecode"))]
	if rows == nil {
		rows = []webreg.RawPrerequisite{}
	}
	s.writeJson(w, rows)
}

// searchItems must be called with the mutex held, keep filters which course
// keys are returned.
func (s *Server) searchItems(keep func(key string, rows []webreg.RawWebRegMeeting) bool) []webreg.RawWebRegSearchResultItem {
	keys := make([]string, 0, len(s.courses))
	for key := range s.courses {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	items := []webreg.RawWebRegSearchResultItem{}
	for _, key := range keys {
		if !keep(key, s.courses[key]) {
			continue
		}
		subject, course, _ := strings.Cut(key, "|")
		items = append(items, webreg.RawWebRegSearchResultItem{
			SubjectCode: subject,
			CourseCode:  course,
			MinUnits:    4,
			MaxUnits:    4,
		})
	}
	return items
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var subjects []string
	if raw := r.Form.Get("subjcode"); raw != "" {
		subjects = strings.Split(raw, ":")
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	s.writeJson(w, s.searchItems(func(key string, _ []webreg.RawWebRegMeeting) bool {
		subject, _, _ := strings.Cut(key, "|")
		return subjects == nil || slices.Contains(subjects, subject)
	}))
}

func (s *Server) handleSearchSection(w http.ResponseWriter, r *http.Request) {
	ids := strings.Split(r.Form.Get("sectionid"), ":")

	s.mutex.RLock()
	defer s.mutex.RUnlock()
	s.writeJson(w, s.searchItems(func(_ string, rows []webreg.RawWebRegMeeting) bool {
		return slices.ContainsFunc(rows, func(row webreg.RawWebRegMeeting) bool {
			return slices.Contains(ids, strings.TrimSpace(row.SectionId))
		})
	}))
}

func (s *Server) handleDepartments(w http.ResponseWriter, r *http.Request) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	s.writeJson(w, s.depts)
}

func (s *Server) handleSubjects(w http.ResponseWriter, r *http.Request) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	s.writeJson(w, s.subjects)
}

func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	rows := s.schedules[r.Form.Get("schedname")]
	if rows == nil {
		rows = []webreg.RawScheduledMeeting{}
	}
	s.writeJson(w, rows)
}

func (s *Server) handleScheduleNames(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, s.Schedules())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	events := s.Events()
	if events == nil {
		events = []webreg.RawEvent{}
	}
	s.writeJson(w, events)
}

func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	s.mutex.RLock()
	_, failing := s.failures[webreg.EndpointSendEmail]
	s.mutex.RUnlock()

	if failing {
		s.writeJson(w, map[string]string{"RESULT": "NO"})
		return
	}
	s.writeJson(w, map[string]string{"RESULT": "YES"})
}

type postResponse struct {
	Ops    string `json:"OPS"`
	Reason string `json:"REASON,omitempty"`
}

// mutation answers a POST the way the portal does, a canned failure wins,
// otherwise apply (which may be nil) updates the server's state and may
// itself refuse with a reason.
func (s *Server) mutation(apply func(form url.Values) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mutex.Lock()
		reason, failing := s.failures[webreg.Endpoint(r.URL.Path)]
		if !failing && apply != nil {
			reason = apply(r.PostForm)
			failing = reason != ""
		}
		s.mutex.Unlock()

		if failing {
			s.writeJson(w, postResponse{Ops: "FAIL", Reason: reason})
			return
		}
		s.writeJson(w, postResponse{Ops: "SUCCESS"})
	}
}

func (s *Server) renameSchedule(form url.Values) string {
	oldName := form.Get("oldschedname")
	rows, ok := s.schedules[oldName]
	if !ok {
		return fmt.Sprintf("Schedule <b>%s</b> does not exist.", oldName)
	}
	delete(s.schedules, oldName)
	s.schedules[form.Get("newschedname")] = rows
	return ""
}

func (s *Server) removeSchedule(form url.Values) string {
	name := form.Get("schedname")
	if _, ok := s.schedules[name]; !ok {
		return fmt.Sprintf("Schedule <b>%s</b> does not exist.", name)
	}
	delete(s.schedules, name)
	return ""
}

func eventFromForm(form url.Values, timestamp string) webreg.RawEvent {
	return webreg.RawEvent{
		Location:    form.Get("aelocation"),
		StartTime:   form.Get("aestarttime"),
		EndTime:     form.Get("aeendtime"),
		Description: form.Get("aename"),
		Days:        form.Get("aedays"),
		TimeStamp:   timestamp,
	}
}

func (s *Server) addEvent(form url.Values) string {
	timestamp := fmt.Sprintf("2024-01-01 00:00:%02d.0", len(s.events))
	s.events = append(s.events, eventFromForm(form, timestamp))
	return ""
}

func (s *Server) editEvent(form url.Values) string {
	timestamp := form.Get("aetimestamp")
	for i, e := range s.events {
		if e.TimeStamp == timestamp {
			s.events[i] = eventFromForm(form, timestamp)
			return ""
		}
	}
	return "Event not found."
}

func (s *Server) removeEvent(form url.Values) string {
	timestamp := form.Get("aetimestamp")
	for i, e := range s.events {
		if e.TimeStamp == timestamp {
			s.events = slices.Delete(s.events, i, i+1)
			return ""
		}
	}
	return "Event not found."
}
