package identity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"ory-session-page/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.IdentityConfig{
		PublicURL: srv.URL + "/",
		Timeout:   2 * time.Second,
	}, opts...)
	require.NoError(t, err)

	return client
}

func TestNewClient_RejectsRelativeURL(t *testing.T) {
	_, err := NewClient(config.IdentityConfig{PublicURL: "/relative"})
	assert.Error(t, err)
}

func TestClient_ToSession(t *testing.T) {
	t.Run("forwards credentials and returns the payload verbatim", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, PathWhoAmI, r.URL.Path)
			assert.Equal(t, "ory_session=abc", r.Header.Get("Cookie"))
			assert.Equal(t, "tok", r.Header.Get("X-Session-Token"))
			assert.Equal(t, "application/json", r.Header.Get("Accept"))

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id":"u1","active":true}`))
		})

		session, err := client.ToSession(context.Background(), Credentials{Cookie: "ory_session=abc", SessionToken: "tok"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"u1","active":true}`, string(session))
	})

	t.Run("unauthorized keeps the response payload", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"code":401,"status":"Unauthorized"}}`))
		})

		session, err := client.ToSession(context.Background(), Credentials{})
		require.Error(t, err)
		assert.Nil(t, session)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
		assert.Equal(t, "request failed with status code 401", err.Error())
		assert.JSONEq(t, `{"error":{"code":401,"status":"Unauthorized"}}`, string(ResponseBody(err)))
		assert.True(t, IsUnauthorized(err))
	})

	t.Run("non json error body is kept as a string", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream exploded", http.StatusBadGateway)
		})

		_, err := client.ToSession(context.Background(), Credentials{})
		require.Error(t, err)

		var body string
		require.NoError(t, json.Unmarshal(ResponseBody(err), &body))
		assert.Equal(t, "upstream exploded\n", body)
		assert.False(t, IsUnauthorized(err))
	})

	t.Run("null session", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`null`))
		})

		_, err := client.ToSession(context.Background(), Credentials{})
		assert.ErrorIs(t, err, ErrEmptySession)
	})

	t.Run("invalid json", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		})

		_, err := client.ToSession(context.Background(), Credentials{})
		require.Error(t, err)
		assert.Nil(t, ResponseBody(err))
	})

	t.Run("oversized body is rejected", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"` + strings.Repeat("a", maxResponseBytes) + `"}`))
		})

		_, err := client.ToSession(context.Background(), Credentials{})
		assert.ErrorIs(t, err, ErrResponseTooLarge)
	})

	t.Run("canceled context aborts the request", func(t *testing.T) {
		var calls atomic.Int32
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			_, _ = w.Write([]byte(`{"id":"u1"}`))
		})

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := client.ToSession(ctx, Credentials{})
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, int32(0), calls.Load())
	})
}

func TestClient_CreateBrowserLogoutFlow(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, PathBrowserLogout, r.URL.Path)
			assert.Equal(t, "ory_session=abc", r.Header.Get("Cookie"))
			_, _ = w.Write([]byte(`{"logout_url":"https://idp/logout?flow=1","logout_token":"t1"}`))
		})

		flow, err := client.CreateBrowserLogoutFlow(context.Background(), Credentials{Cookie: "ory_session=abc"})
		require.NoError(t, err)
		assert.Equal(t, "https://idp/logout?flow=1", flow.LogoutURL)
		assert.Equal(t, "t1", flow.LogoutToken)
	})

	t.Run("server error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		flow, err := client.CreateBrowserLogoutFlow(context.Background(), Credentials{})
		assert.Nil(t, flow)
		assert.EqualError(t, err, "request failed with status code 500")
		assert.Nil(t, ResponseBody(err))
	})

	t.Run("missing logout url", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"logout_token":"t1"}`))
		})

		_, err := client.CreateBrowserLogoutFlow(context.Background(), Credentials{})
		assert.ErrorIs(t, err, ErrEmptyLogoutURL)
	})
}

func TestCredentialsFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.True(t, CredentialsFromRequest(req).IsEmpty())

	req.Header.Set("Cookie", "ory_session=abc")
	req.Header.Add("Cookie", "csrf_token=xyz")
	req.Header.Set("Authorization", "Bearer tok")

	creds := CredentialsFromRequest(req)
	assert.Equal(t, "ory_session=abc; csrf_token=xyz", creds.Cookie)
	assert.Equal(t, "tok", creds.SessionToken)
	assert.False(t, creds.IsEmpty())
}

func TestClient_RecordsSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PathWhoAmI:
			w.WriteHeader(http.StatusUnauthorized)
		default:
			_, _ = w.Write([]byte(`{"logout_url":"https://idp/logout"}`))
		}
	}, WithTracerProvider(tp))

	_, err := client.ToSession(context.Background(), Credentials{})
	require.Error(t, err)

	_, err = client.CreateBrowserLogoutFlow(context.Background(), Credentials{})
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	session := spans[0]
	assert.Equal(t, "identity.ToSession", session.Name())
	assert.Equal(t, trace.SpanKindClient, session.SpanKind())
	assert.Equal(t, codes.Error, session.Status().Code)
	assert.Equal(t, "request failed with status code 401", session.Status().Description)
	assert.Contains(t, session.Attributes(), attribute.Int("http.response.status_code", http.StatusUnauthorized))
	assert.Contains(t, session.Attributes(), attribute.String("url.path", PathWhoAmI))

	logout := spans[1]
	assert.Equal(t, "identity.CreateBrowserLogoutFlow", logout.Name())
	assert.Equal(t, codes.Unset, logout.Status().Code)
}

type countingTransport struct {
	calls atomic.Int32
	next  http.RoundTripper
}

func (c *countingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	c.calls.Add(1)
	return c.next.RoundTrip(r)
}

func TestClient_WithHTTPClient(t *testing.T) {
	transport := &countingTransport{next: http.DefaultTransport}

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"u1"}`))
	}, WithHTTPClient(&http.Client{Transport: transport}))

	_, err := client.ToSession(context.Background(), Credentials{})
	require.NoError(t, err)
	assert.Equal(t, int32(1), transport.calls.Load())
}
