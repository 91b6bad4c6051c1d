package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"taskboard/internal/service"
)

// Request is one call seen by a Backend.
type Request struct {
	Method string
	Path   string
	Auth   string
	Body   []byte
}

// Key returns "METHOD /path".
func (r Request) Key() string {
	return r.Method + " " + r.Path
}

// Backend is an httptest server speaking the board's REST dialect on top of
// a FakeService. Every request is recorded before it is handled.
type Backend struct {
	*httptest.Server
	Fake *FakeService

	mu       sync.Mutex
	requests []Request
	fail     map[string]int
}

// NewBackend starts a Backend and registers its shutdown with t.
func NewBackend(t *testing.T) *Backend {
	t.Helper()
	b := &Backend{Fake: NewFakeService(), fail: make(map[string]int)}
	b.Server = httptest.NewServer(b.router())
	t.Cleanup(b.Close)
	return b
}

// Requests returns every request received so far.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Keys returns the "METHOD /path" of every request received so far.
func (b *Backend) Keys() []string {
	var out []string
	for _, r := range b.Requests() {
		out = append(out, r.Key())
	}
	return out
}

// FailWith makes every request matching "METHOD /path" answer with status.
func (b *Backend) FailWith(key string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.fail[key] = status
}

func (b *Backend) router() http.Handler {
	r := mux.NewRouter()
	r.Use(b.record)

	r.HandleFunc("/auth/login", b.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/register", b.register).Methods(http.MethodPost)

	api := r.NewRoute().Subrouter()
	api.Use(requireBearer)

	api.HandleFunc("/users/{id}", func(w http.ResponseWriter, r *http.Request) {
		u, err := b.Fake.GetUser(r.Context(), pathID(r, "id"))
		reply(w, http.StatusOK, u, err)
	}).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}", b.updateUser).Methods(http.MethodPut)

	api.HandleFunc("/workspaces/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		out, err := b.Fake.ListWorkspaces(r.Context(), pathID(r, "id"))
		reply(w, http.StatusOK, out, err)
	}).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/user/{id}", func(w http.ResponseWriter, r *http.Request) {
		var ws service.Workspace
		if !decode(w, r, &ws) {
			return
		}
		out, err := b.Fake.CreateWorkspace(r.Context(), pathID(r, "id"), ws)
		reply(w, http.StatusCreated, out, err)
	}).Methods(http.MethodPost)
	api.HandleFunc("/workspaces/{id}", func(w http.ResponseWriter, r *http.Request) {
		out, err := b.Fake.GetWorkspace(r.Context(), pathID(r, "id"))
		reply(w, http.StatusOK, out, err)
	}).Methods(http.MethodGet)
	api.HandleFunc("/workspaces/{id}", func(w http.ResponseWriter, r *http.Request) {
		var ws service.Workspace
		if !decode(w, r, &ws) {
			return
		}
		ws.ID = pathID(r, "id")
		_, err := b.Fake.UpdateWorkspace(r.Context(), ws)
		// Like the real backend, the update answers without the stored entity.
		reply(w, http.StatusOK, nil, err)
	}).Methods(http.MethodPut)
	api.HandleFunc("/workspaces/{id}", b.deleter(b.Fake.DeleteWorkspace)).Methods(http.MethodDelete)

	api.HandleFunc("/lists/workspace/{id}", func(w http.ResponseWriter, r *http.Request) {
		out, err := b.Fake.ListLists(r.Context(), pathID(r, "id"))
		reply(w, http.StatusOK, out, err)
	}).Methods(http.MethodGet)
	api.HandleFunc("/lists", func(w http.ResponseWriter, r *http.Request) {
		var l service.List
		if !decode(w, r, &l) {
			return
		}
		out, err := b.Fake.CreateList(r.Context(), l)
		reply(w, http.StatusCreated, out, err)
	}).Methods(http.MethodPost)
	api.HandleFunc("/lists/{id}", func(w http.ResponseWriter, r *http.Request) {
		var l service.List
		if !decode(w, r, &l) {
			return
		}
		l.ID = pathID(r, "id")
		out, err := b.Fake.UpdateList(r.Context(), l)
		reply(w, http.StatusOK, out, err)
	}).Methods(http.MethodPut)
	api.HandleFunc("/lists/{id}", b.deleter(b.Fake.DeleteList)).Methods(http.MethodDelete)

	api.HandleFunc("/tasks/list/{id}", func(w http.ResponseWriter, r *http.Request) {
		out, err := b.Fake.ListTasks(r.Context(), pathID(r, "id"))
		reply(w, http.StatusOK, out, err)
	}).Methods(http.MethodGet)
	api.HandleFunc("/tasks", func(w http.ResponseWriter, r *http.Request) {
		var t service.Task
		if !decode(w, r, &t) {
			return
		}
		out, err := b.Fake.CreateTask(r.Context(), t)
		reply(w, http.StatusCreated, out, err)
	}).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		var t service.Task
		if !decode(w, r, &t) {
			return
		}
		t.ID = pathID(r, "id")
		out, err := b.Fake.UpdateTask(r.Context(), t)
		reply(w, http.StatusOK, out, err)
	}).Methods(http.MethodPut)
	api.HandleFunc("/tasks/{id}", b.deleter(b.Fake.DeleteTask)).Methods(http.MethodDelete)

	api.HandleFunc("/labels", func(w http.ResponseWriter, r *http.Request) {
		out, err := b.Fake.ListLabels(r.Context())
		reply(w, http.StatusOK, out, err)
	}).Methods(http.MethodGet)
	api.HandleFunc("/labels", func(w http.ResponseWriter, r *http.Request) {
		var l service.Label
		if !decode(w, r, &l) {
			return
		}
		out, err := b.Fake.CreateLabel(r.Context(), l)
		reply(w, http.StatusCreated, out, err)
	}).Methods(http.MethodPost)
	api.HandleFunc("/labels/tasks/{taskId}", func(w http.ResponseWriter, r *http.Request) {
		out, err := b.Fake.TaskLabels(r.Context(), pathID(r, "taskId"))
		reply(w, http.StatusOK, out, err)
	}).Methods(http.MethodGet)
	api.HandleFunc("/labels/{id}", func(w http.ResponseWriter, r *http.Request) {
		var l service.Label
		if !decode(w, r, &l) {
			return
		}
		l.ID = pathID(r, "id")
		out, err := b.Fake.UpdateLabel(r.Context(), l)
		reply(w, http.StatusOK, out, err)
	}).Methods(http.MethodPut)
	api.HandleFunc("/labels/{id}", b.deleter(b.Fake.DeleteLabel)).Methods(http.MethodDelete)
	api.HandleFunc("/labels/{id}/tasks/{taskId}", func(w http.ResponseWriter, r *http.Request) {
		err := b.Fake.AttachLabel(r.Context(), pathID(r, "id"), pathID(r, "taskId"))
		reply(w, http.StatusCreated, nil, err)
	}).Methods(http.MethodPost)
	api.HandleFunc("/labels/{id}/tasks/{taskId}", func(w http.ResponseWriter, r *http.Request) {
		err := b.Fake.DetachLabel(r.Context(), pathID(r, "id"), pathID(r, "taskId"))
		reply(w, http.StatusOK, nil, err)
	}).Methods(http.MethodDelete)

	api.HandleFunc("/attachments/task/{id}", func(w http.ResponseWriter, r *http.Request) {
		out, err := b.Fake.ListAttachments(r.Context(), pathID(r, "id"))
		reply(w, http.StatusOK, out, err)
	}).Methods(http.MethodGet)
	api.HandleFunc("/attachments/task/{id}", func(w http.ResponseWriter, r *http.Request) {
		var a service.Attachment
		if !decode(w, r, &a) {
			return
		}
		out, err := b.Fake.CreateAttachment(r.Context(), pathID(r, "id"), a)
		reply(w, http.StatusCreated, out, err)
	}).Methods(http.MethodPost)
	api.HandleFunc("/attachments/{id}", func(w http.ResponseWriter, r *http.Request) {
		var a service.Attachment
		if !decode(w, r, &a) {
			return
		}
		a.ID = pathID(r, "id")
		out, err := b.Fake.UpdateAttachment(r.Context(), a)
		reply(w, http.StatusOK, out, err)
	}).Methods(http.MethodPut)
	api.HandleFunc("/attachments/{id}", b.deleter(b.Fake.DeleteAttachment)).Methods(http.MethodDelete)

	return r
}

// record logs the request and applies any injected failure.
func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(strings.NewReader(string(body)))

		req := Request{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization"), Body: body}
		b.mu.Lock()
		b.requests = append(b.requests, req)
		status, fail := b.fail[req.Key()]
		b.mu.Unlock()

		if fail {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requireBearer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") || strings.TrimPrefix(auth, "Bearer ") == "" {
			http.Error(w, "missing bearer token", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds service.Credentials
	if !decode(w, r, &creds) {
		return
	}
	token, err := b.Fake.Login(r.Context(), creds)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	reply(w, http.StatusOK, map[string]string{"token": token}, nil)
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var reg service.Registration
	if err := json.Unmarshal([]byte(r.FormValue("user")), &reg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := b.Fake.Register(r.Context(), reg); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	// The real backend answers registration with plain text.
	w.WriteHeader(http.StatusCreated)
	io.WriteString(w, "User registered")
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	upd := service.ProfileUpdate{
		FirstName: r.FormValue("firstName"),
		LastName:  r.FormValue("lastName"),
		Email:     r.FormValue("email"),
	}
	if f, hdr, err := r.FormFile("profileImage"); err == nil {
		upd.ProfileImage, _ = io.ReadAll(f)
		upd.ProfileImageName = hdr.Filename
		f.Close()
	}
	u, err := b.Fake.UpdateUser(r.Context(), pathID(r, "id"), upd)
	reply(w, http.StatusOK, u, err)
}

func (b *Backend) deleter(del func(context.Context, int64) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := del(r.Context(), pathID(r, "id")); err != nil {
			reply(w, 0, nil, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func pathID(r *http.Request, name string) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	return id
}

func decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}
	return true
}

// reply writes a {status, data} envelope, or an HTTP error for err.
func reply(w http.ResponseWriter, status int, data interface{}, err error) {
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, service.ErrNotFound) {
			code = http.StatusNotFound
		}
		http.Error(w, err.Error(), code)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"status": status, "data": data})
}
