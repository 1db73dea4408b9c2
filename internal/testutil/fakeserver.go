package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"tasklist/internal/service"
)

// CSRFCookieName is the cookie the fake server issues its token in.
const CSRFCookieName = "PLAY_CSRF_TOKEN"

// FakeServer is an httptest server speaking the /api/tasks contract.
// Mutating requests must carry the issued token in X-CSRF-Token.
type FakeServer struct {
	*httptest.Server

	mu      sync.Mutex
	tasks   []service.Task
	nextID  int
	token   string
	admin   string
	deleted []int
	headers []string

	// FailStatus, when non-zero, makes every /api/tasks request answer with
	// that status and a success=false envelope.
	FailStatus int

	// Malformed makes /api/tasks answer with a non-JSON body.
	Malformed bool

	// Reject, when set, makes every /api/tasks request answer 200 with a
	// success=false envelope carrying this message.
	Reject string
}

// NewFakeServer starts a FakeServer issuing token as its anti-forgery token.
// Call Close when done.
func NewFakeServer(token string) *FakeServer {
	s := &FakeServer{nextID: 1, token: token}

	r := mux.NewRouter()
	r.Use(s.issueCookie)
	r.HandleFunc("/api/tasks", s.listTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks", s.createTask).Methods(http.MethodPost)
	r.HandleFunc("/api/tasks/{id:[0-9]+}", s.updateTask).Methods(http.MethodPut)
	r.HandleFunc("/api/tasks/{id:[0-9]+}", s.deleteTask).Methods(http.MethodDelete)
	r.HandleFunc("/admin/users", s.adminPage).Methods(http.MethodGet)
	r.HandleFunc("/admin/users/{id:[0-9]+}/delete", s.deleteUser).Methods(http.MethodPost)

	s.Server = httptest.NewServer(r)
	return s
}

// AddTask seeds a task.
func (s *FakeServer) AddTask(id int, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, service.Task{ID: id, Description: description})
	if id >= s.nextID {
		s.nextID = id + 1
	}
}

// SetAdminPage sets the HTML served at /admin/users.
func (s *FakeServer) SetAdminPage(html string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.admin = html
}

// Tasks returns a copy of the server-side tasks.
func (s *FakeServer) Tasks() []service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// DeletedUsers returns the user ids whose delete form was submitted.
func (s *FakeServer) DeletedUsers() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.deleted...)
}

// CSRFHeaders returns the X-CSRF-Token value of every request, in order.
func (s *FakeServer) CSRFHeaders() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.headers...)
}

func (s *FakeServer) issueCookie(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.headers = append(s.headers, r.Header.Get("X-CSRF-Token"))
		s.mu.Unlock()

		if _, err := r.Cookie(CSRFCookieName); err != nil {
			http.SetCookie(w, &http.Cookie{Name: CSRFCookieName, Value: s.token, Path: "/"})
		}
		next.ServeHTTP(w, r)
	})
}

func (s *FakeServer) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// guard applies failure injection and the CSRF check. Returns false if the
// response has already been written.
func (s *FakeServer) guard(w http.ResponseWriter, r *http.Request, mutating bool) bool {
	if s.Malformed {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>oops</html>"))
		return false
	}
	if s.Reject != "" {
		s.writeJSON(w, http.StatusOK, map[string]any{"success": false, "message": s.Reject})
		return false
	}
	if s.FailStatus != 0 {
		s.writeJSON(w, s.FailStatus, map[string]any{"success": false, "message": "Server exploded"})
		return false
	}
	if mutating && r.Header.Get("X-CSRF-Token") != s.token {
		s.writeJSON(w, http.StatusForbidden, map[string]any{"success": false, "message": "Invalid CSRF token"})
		return false
	}
	return true
}

func (s *FakeServer) listTasks(w http.ResponseWriter, r *http.Request) {
	if !s.guard(w, r, false) {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "tasks": s.Tasks()})
}

func decodeDescription(r *http.Request) (string, bool) {
	var body struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return "", false
	}
	d := strings.TrimSpace(body.Description)
	return d, d != ""
}

func (s *FakeServer) createTask(w http.ResponseWriter, r *http.Request) {
	if !s.guard(w, r, true) {
		return
	}
	desc, ok := decodeDescription(r)
	if !ok {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Description cannot be empty"})
		return
	}

	s.mu.Lock()
	task := service.Task{ID: s.nextID, Description: desc}
	s.nextID++
	s.tasks = append(s.tasks, task)
	s.mu.Unlock()

	s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "task": task, "message": "Task created successfully!"})
}

func (s *FakeServer) updateTask(w http.ResponseWriter, r *http.Request) {
	if !s.guard(w, r, true) {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	desc, ok := decodeDescription(r)
	if !ok {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"success": false, "message": "Description cannot be empty"})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks[i].Description = desc
			s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "task": s.tasks[i], "message": "Task updated successfully!"})
			return
		}
	}
	s.writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Task not found"})
}

func (s *FakeServer) deleteTask(w http.ResponseWriter, r *http.Request) {
	if !s.guard(w, r, true) {
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, t := range s.tasks {
		if t.ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			s.writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Task deleted successfully!"})
			return
		}
	}
	s.writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "Task not found"})
}

func (s *FakeServer) adminPage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	html := s.admin
	s.mu.Unlock()
	w.Header().Set("Content-Type", "text/html")
	w.Write([]byte(html))
}

func (s *FakeServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostForm.Get("csrfToken") != s.token {
		http.Error(w, "Invalid CSRF token", http.StatusForbidden)
		return
	}
	id, _ := strconv.Atoi(mux.Vars(r)["id"])
	s.mu.Lock()
	s.deleted = append(s.deleted, id)
	s.mu.Unlock()
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
