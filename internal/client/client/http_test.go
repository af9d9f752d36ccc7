package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memTokens struct {
	mu      sync.Mutex
	token   string
	cleared int
}

func (m *memTokens) Token(context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memTokens) ClearToken(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.cleared++
	return nil
}

func (m *memTokens) set(t string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = t
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.HandlerFunc, tokens *memTokens, opts ...Option) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/api/", tokens, opts...)
}

func TestDo_BearerHeaderFollowsStore(t *testing.T) {
	var got []string
	var mu sync.Mutex
	tokens := &memTokens{}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		got = append(got, r.Header.Get("Authorization"))
		mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}, tokens)

	ctx := context.Background()
	require.NoError(t, c.Do(ctx, Request{Endpoint: "/ping"}, nil))

	tokens.set("abc")
	require.NoError(t, c.Do(ctx, Request{Endpoint: "/ping"}, nil))

	tokens.set("xyz")
	require.NoError(t, c.Do(ctx, Request{Endpoint: "/ping"}, nil))

	_ = tokens.ClearToken(ctx)
	require.NoError(t, c.Do(ctx, Request{Endpoint: "/ping"}, nil))

	assert.Equal(t, []string{"", "Bearer abc", "Bearer xyz", ""}, got)
}

func TestDo_Headers(t *testing.T) {
	var hdr http.Header
	var path, method string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		hdr = r.Header.Clone()
		path, method = r.URL.Path, r.Method
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}, &memTokens{token: "abc"})

	err := c.Do(context.Background(), Request{
		Endpoint: "/auth/me",
		Headers:  map[string]string{"X-Trace": "1", "Authorization": "Custom override"},
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, "/api/auth/me", path)
	assert.Equal(t, http.MethodGet, method)
	assert.Equal(t, "application/json", hdr.Get("Content-Type"))
	assert.Equal(t, "1", hdr.Get("X-Trace"))
	assert.Equal(t, "Custom override", hdr.Get("Authorization"))
	assert.NotEmpty(t, hdr.Get("X-Request-ID"))
}

func TestDo_SendsJSONBody(t *testing.T) {
	var body map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}, &memTokens{})

	req := Request{Endpoint: "/x", Method: http.MethodPost, Body: map[string]string{"a": "b"}}
	require.NoError(t, c.Do(context.Background(), req, nil))
	assert.Equal(t, map[string]string{"a": "b"}, body)
}

func TestDo_UnauthorizedClearsToken(t *testing.T) {
	tokens := &memTokens{token: "stale"}
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Token expired"})
	}, tokens)

	err := c.Do(context.Background(), Request{Endpoint: "/auth/me"}, nil)
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "Token expired", FailureMessage(err))
	assert.Equal(t, "", tokens.Token(context.Background()))
	assert.Equal(t, 1, tokens.cleared)

	var rf *RequestFailedError
	require.ErrorAs(t, err, &rf)
	assert.Equal(t, http.StatusUnauthorized, rf.Status)
	assert.Equal(t, UnauthorizedFailure, rf.Kind)
}

func TestDo_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		message string
	}{
		{"server message", http.StatusBadRequest, `{"success":false,"message":"QR code already activated"}`, "QR code already activated"},
		{"no message field", http.StatusInternalServerError, `{"success":false}`, "request failed"},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "request failed"},
		{"empty body", http.StatusNotFound, ``, "request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := &memTokens{token: "abc"}
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, tokens)

			err := c.Do(context.Background(), Request{Endpoint: "/x"}, nil)
			require.Error(t, err)
			assert.Equal(t, tt.message, FailureMessage(err))
			assert.False(t, errors.Is(err, ErrUnauthorized))
			assert.False(t, errors.Is(err, ErrUnavailable))
			// only a 401 touches the session
			assert.Equal(t, "abc", tokens.Token(context.Background()))
		})
	}
}

func TestDo_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	tokens := &memTokens{token: "abc"}
	c := NewHTTPClient(srv.URL, tokens)

	err := c.Do(context.Background(), Request{Endpoint: "/x"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnavailable))
	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.Equal(t, "request failed", FailureMessage(err))
	assert.Equal(t, "abc", tokens.Token(context.Background()))
}

func TestDo_MalformedSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("{not json"))
	}, &memTokens{})

	var out map[string]any
	err := c.Do(context.Background(), Request{Endpoint: "/x"}, &out)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_EmptySuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}, &memTokens{})

	var out map[string]any
	assert.NoError(t, c.Do(context.Background(), Request{Endpoint: "/x"}, &out))
	assert.Nil(t, out)
}

func TestDo_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, &memTokens{}, WithTimeout(50*time.Millisecond))

	err := c.Do(context.Background(), Request{Endpoint: "/slow"}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestDo_ContextCancelled(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}, &memTokens{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := c.Do(ctx, Request{Endpoint: "/x"}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func flakyTransport(failures int32, calls *atomic.Int32) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		if calls.Add(1) <= failures {
			return nil, errors.New("connection reset")
		}
		return http.DefaultTransport.RoundTrip(r)
	})
}

func TestDo_RetriesIdempotentTransportFailures(t *testing.T) {
	var served atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served.Add(1)
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	}))
	defer srv.Close()

	var calls atomic.Int32
	c := NewHTTPClient(srv.URL, &memTokens{},
		WithHTTPClient(&http.Client{Transport: flakyTransport(2, &calls)}),
		WithRetries(3, time.Millisecond),
	)

	require.NoError(t, c.Do(context.Background(), Request{Endpoint: "/x"}, nil))
	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, int32(1), served.Load())
}

func TestDo_DoesNotRetryPost(t *testing.T) {
	var calls atomic.Int32
	c := NewHTTPClient("http://example.invalid", &memTokens{},
		WithHTTPClient(&http.Client{Transport: flakyTransport(5, &calls)}),
		WithRetries(3, time.Millisecond),
	)

	err := c.Do(context.Background(), Request{Endpoint: "/x", Method: http.MethodPost}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestDo_DoesNotRetryStatusErrors(t *testing.T) {
	var served atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		served.Add(1)
		writeJSON(w, http.StatusInternalServerError, map[string]any{"success": false})
	}, &memTokens{}, WithRetries(3, time.Millisecond))

	err := c.Do(context.Background(), Request{Endpoint: "/x"}, nil)
	require.Error(t, err)
	assert.Equal(t, int32(1), served.Load())
}

func TestDo_RetriesGiveUp(t *testing.T) {
	var calls atomic.Int32
	c := NewHTTPClient("http://example.invalid", &memTokens{},
		WithHTTPClient(&http.Client{Transport: flakyTransport(100, &calls)}),
		WithRetries(2, time.Millisecond),
	)

	err := c.Do(context.Background(), Request{Endpoint: "/x"}, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(3), calls.Load())
}

func TestDo_ConcurrentCalls(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": r.URL.Query().Get("n")})
	}, &memTokens{token: "abc"})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var env Envelope[string]
			assert.NoError(t, c.Do(context.Background(), Request{Endpoint: "/x?n=1"}, &env))
			assert.Equal(t, "1", env.Data)
		}()
	}
	wg.Wait()
}

func TestRequestFailedError_Error(t *testing.T) {
	e := &RequestFailedError{Message: "request failed", Err: errors.New("dial tcp")}
	assert.Equal(t, "request failed: dial tcp", e.Error())
	assert.Equal(t, "Invalid credentials", (&RequestFailedError{Message: "Invalid credentials"}).Error())
	assert.Equal(t, "", FailureMessage(nil))
	assert.Equal(t, "plain", FailureMessage(errors.New("plain")))
	assert.Equal(t, "application", ApplicationFailure.String())
}
