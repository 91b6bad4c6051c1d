package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// State is a snapshot of a Resource.
type State struct {
	Loading bool
	Err     string
	Data    json.RawMessage
}

// Resource holds the outcome of the most recent request: loading, an error
// message, or the parsed body. Calls are neither cancelled nor de-duplicated;
// the last one to finish owns the state.
type Resource struct {
	client *http.Client

	mu    sync.RWMutex
	state State
}

// NewResource returns an idle Resource that sends through client.
func NewResource(client *http.Client) *Resource {
	return &Resource{client: client}
}

// Do runs req and records the outcome. The returned error is the same one
// recorded in State.
func (r *Resource) Do(ctx context.Context, req Request) error {
	r.mu.Lock()
	r.state.Loading = true
	r.state.Err = ""
	r.mu.Unlock()

	data, err := r.send(ctx, req)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Loading = false
	if err != nil {
		r.state.Err = err.Error()
		r.state.Data = nil
		return err
	}
	r.state.Data = data
	return nil
}

func (r *Resource) send(ctx context.Context, req Request) (json.RawMessage, error) {
	body, err := Send(ctx, r.client, req)
	if err != nil {
		return nil, err
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("invalid response: not JSON")
	}
	return json.RawMessage(body), nil
}

// State returns a snapshot.
func (r *Resource) State() State {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Decode unmarshals the current data into v. It is a no-op without data.
func (r *Resource) Decode(v interface{}) error {
	st := r.State()
	if st.Data == nil {
		return nil
	}
	return json.Unmarshal(st.Data, v)
}
