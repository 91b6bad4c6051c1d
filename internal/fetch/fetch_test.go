package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
)

func TestResource_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":200,"data":[{"id":1}]}`))
	}))
	defer srv.Close()

	res := NewResource(srv.Client())
	if err := res.Do(context.Background(), Request{URL: srv.URL}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	st := res.State()
	if st.Loading {
		t.Error("expected loading to be false after completion")
	}
	if st.Err != "" {
		t.Errorf("expected no error, got %q", st.Err)
	}
	if st.Data == nil {
		t.Fatal("expected data")
	}

	var items []struct{ ID int64 }
	if err := DecodeEnvelope(st.Data, 200, &items); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 || items[0].ID != 1 {
		t.Errorf("unexpected items %+v", items)
	}
}

func TestResource_FailureReplacesData(t *testing.T) {
	var fail atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status":200,"data":null}`))
	}))
	defer srv.Close()

	res := NewResource(srv.Client())
	if err := res.Do(context.Background(), Request{URL: srv.URL}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	fail.Store(true)
	err := res.Do(context.Background(), Request{URL: srv.URL})
	if StatusCode(err) != http.StatusInternalServerError {
		t.Fatalf("expected 500 status error, got %v", err)
	}

	st := res.State()
	if st.Loading {
		t.Error("expected loading to be false after failure")
	}
	if st.Err != "Error 500: Internal Server Error" {
		t.Errorf("unexpected error message %q", st.Err)
	}
	if st.Data != nil {
		t.Error("expected data to be cleared after failure")
	}
}

func TestResource_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	res := NewResource(srv.Client())
	if err := res.Do(context.Background(), Request{URL: url}); err == nil {
		t.Fatal("expected transport error")
	}
	st := res.State()
	if st.Loading || st.Err == "" || st.Data != nil {
		t.Errorf("unexpected state %+v", st)
	}
}

func TestResource_ExactlyOneOutcome(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("fail") != "" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte(`{"status":200}`))
	}))
	defer srv.Close()

	res := NewResource(srv.Client())
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			url := srv.URL
			if i%2 == 0 {
				url += "?fail=1"
			}
			res.Do(context.Background(), Request{URL: url})
		}(i)
	}
	wg.Wait()

	st := res.State()
	if st.Loading {
		t.Error("expected loading false")
	}
	if (st.Err == "") == (st.Data == nil) {
		t.Errorf("expected exactly one of error/data, got %+v", st)
	}
}

func TestDecodeEnvelope_StatusMismatch(t *testing.T) {
	err := DecodeEnvelope([]byte(`{"status":400,"data":"bad"}`), 201, nil)
	var ee *EnvelopeError
	if !errors.As(err, &ee) {
		t.Fatalf("expected EnvelopeError, got %v", err)
	}
	if ee.Got != 400 || ee.Want != 201 {
		t.Errorf("unexpected %+v", ee)
	}
}

func TestSend_NotJSONForResource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("registered"))
	}))
	defer srv.Close()

	body, err := Send(context.Background(), srv.Client(), Request{URL: srv.URL})
	if err != nil || string(body) != "registered" {
		t.Fatalf("Send should return raw body, got %q, %v", body, err)
	}

	res := NewResource(srv.Client())
	if err := res.Do(context.Background(), Request{URL: srv.URL}); err == nil {
		t.Fatal("expected parse error from Resource")
	}
}
