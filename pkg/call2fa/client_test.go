package call2fa

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// newAPIServer spins up a fake Call2FA API issuing the given JWT and serving
// handlers keyed by "<METHOD> <path>".
func newAPIServer(t *testing.T, jwt string, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/", func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("auth body decode: %v", err)
		}
		if req["login"] == "" || req["password"] == "" {
			t.Errorf("auth request missing credentials: %v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"jwt": jwt})
	})
	for pattern, h := range handlers {
		mux.HandleFunc(pattern, h)
	}

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newTestClient(t *testing.T, srv *httptest.Server, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{WithBaseURI(srv.URL)}, opts...)
	client, err := NewClient(context.Background(), "login", "password", opts...)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return client
}

func TestNewClientRejectsEmptyCredentials(t *testing.T) {
	if _, err := NewClient(context.Background(), "", "password"); !errors.Is(err, ErrEmptyLogin) {
		t.Fatalf("expected ErrEmptyLogin, got %v", err)
	}
	if _, err := NewClient(context.Background(), "login", ""); !errors.Is(err, ErrEmptyPassword) {
		t.Fatalf("expected ErrEmptyPassword, got %v", err)
	}
}

func TestNewClientAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"bad credentials"}`, http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(context.Background(), "login", "password", WithBaseURI(srv.URL))
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("StatusCode = %d, want 403", apiErr.StatusCode)
	}
	if apiErr.Body == "" {
		t.Fatalf("expected error body snippet")
	}
}

func TestNewClientMissingJWT(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	if _, err := NewClient(context.Background(), "login", "password", WithBaseURI(srv.URL)); !errors.Is(err, ErrJWTNotFound) {
		t.Fatalf("expected ErrJWTNotFound, got %v", err)
	}
}

func TestCallSuccess(t *testing.T) {
	var gotAuth, gotBody string
	srv := newAPIServer(t, "jwt-123", map[string]http.HandlerFunc{
		"POST /v1/call/": func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			buf, _ := io.ReadAll(r.Body)
			gotBody = string(buf)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"call_id":"95831458"}`))
		},
	})

	client := newTestClient(t, srv)
	result, err := client.Call(context.Background(), "+380631010121", "https://example.com/cb")
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if result.CallID != "95831458" {
		t.Fatalf("CallID = %q, want 95831458", result.CallID)
	}
	if gotAuth != "Bearer jwt-123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if !strings.Contains(gotBody, `"callback_url":"https://example.com/cb"`) {
		t.Fatalf("request body missing callback_url: %s", gotBody)
	}
}

func TestCallOmitsEmptyCallbackURL(t *testing.T) {
	var gotBody string
	srv := newAPIServer(t, "jwt", map[string]http.HandlerFunc{
		"POST /v1/call/": func(w http.ResponseWriter, r *http.Request) {
			buf, _ := io.ReadAll(r.Body)
			gotBody = string(buf)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"call_id":"1"}`))
		},
	})

	client := newTestClient(t, srv)
	if _, err := client.Call(context.Background(), "+380631010121", ""); err != nil {
		t.Fatalf("Call: %v", err)
	}
	if strings.Contains(gotBody, "callback_url") {
		t.Fatalf("empty callback_url should be omitted, body: %s", gotBody)
	}
}

func TestCallRejectsBadNumberBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := newAPIServer(t, "jwt", map[string]http.HandlerFunc{
		"POST /v1/call/": func(w http.ResponseWriter, _ *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"call_id":"1"}`))
		},
	})

	client := newTestClient(t, srv)
	if _, err := client.Call(context.Background(), "", ""); !errors.Is(err, ErrEmptyPhoneNumber) {
		t.Fatalf("expected ErrEmptyPhoneNumber, got %v", err)
	}
	if _, err := client.Call(context.Background(), "not-a-number", ""); !errors.Is(err, ErrInvalidPhoneNumber) {
		t.Fatalf("expected ErrInvalidPhoneNumber, got %v", err)
	}
	if n := calls.Load(); n != 0 {
		t.Fatalf("expected no call requests, server saw %d", n)
	}
}

func TestCallAPIError(t *testing.T) {
	srv := newAPIServer(t, "jwt", map[string]http.HandlerFunc{
		"POST /v1/call/": func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":"insufficient balance"}`, http.StatusPaymentRequired)
		},
	})

	client := newTestClient(t, srv)
	_, err := client.Call(context.Background(), "+380631010121", "")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusPaymentRequired {
		t.Fatalf("StatusCode = %d, want 402", apiErr.StatusCode)
	}
	if !strings.Contains(apiErr.Error(), "insufficient balance") {
		t.Fatalf("error should carry body snippet: %v", apiErr)
	}
}

func TestCallMalformedResponse(t *testing.T) {
	srv := newAPIServer(t, "jwt", map[string]http.HandlerFunc{
		"POST /v1/call/": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"call_id":`))
		},
	})

	client := newTestClient(t, srv)
	if _, err := client.Call(context.Background(), "+380631010121", ""); err == nil {
		t.Fatalf("expected decode error on malformed body")
	}
}

func TestCallNetworkTimeout(t *testing.T) {
	srv := newAPIServer(t, "jwt", map[string]http.HandlerFunc{
		"POST /v1/call/": func(w http.ResponseWriter, _ *http.Request) {
			time.Sleep(500 * time.Millisecond)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"call_id":"1"}`))
		},
	})

	client := newTestClient(t, srv)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	result, err := client.Call(ctx, "+380631010121", "")
	if err == nil {
		t.Fatalf("expected timeout error, got result %+v", result)
	}
}

func TestCallViaLastDigitsPaths(t *testing.T) {
	var gotPath string
	handler := func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"call_id":"7"}`))
	}
	srv := newAPIServer(t, "jwt", map[string]http.HandlerFunc{
		"POST /v1/pool/pool-9/call/":            handler,
		"POST /v1/pool/pool-9/call/six-digits/": handler,
	})

	client := newTestClient(t, srv)

	if _, err := client.CallViaLastDigits(context.Background(), "+380631010121", "pool-9", false); err != nil {
		t.Fatalf("CallViaLastDigits: %v", err)
	}
	if gotPath != "/v1/pool/pool-9/call/" {
		t.Fatalf("path = %q", gotPath)
	}

	if _, err := client.CallViaLastDigits(context.Background(), "+380631010121", "pool-9", true); err != nil {
		t.Fatalf("CallViaLastDigits six digits: %v", err)
	}
	if gotPath != "/v1/pool/pool-9/call/six-digits/" {
		t.Fatalf("six digits path = %q", gotPath)
	}

	if _, err := client.CallViaLastDigits(context.Background(), "+380631010121", "", false); !errors.Is(err, ErrEmptyPoolID) {
		t.Fatalf("expected ErrEmptyPoolID, got %v", err)
	}
}

func TestCallWithCodeValidation(t *testing.T) {
	var gotBody string
	srv := newAPIServer(t, "jwt", map[string]http.HandlerFunc{
		"POST /v1/code/call/": func(w http.ResponseWriter, r *http.Request) {
			buf, _ := io.ReadAll(r.Body)
			gotBody = string(buf)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"call_id":"3"}`))
		},
	})

	client := newTestClient(t, srv)

	if _, err := client.CallWithCode(context.Background(), "+380631010121", "", "uk"); !errors.Is(err, ErrEmptyCode) {
		t.Fatalf("expected ErrEmptyCode, got %v", err)
	}
	if _, err := client.CallWithCode(context.Background(), "+380631010121", "1234", ""); !errors.Is(err, ErrEmptyLang) {
		t.Fatalf("expected ErrEmptyLang, got %v", err)
	}

	if _, err := client.CallWithCode(context.Background(), "+380631010121", "1234", "uk"); err != nil {
		t.Fatalf("CallWithCode: %v", err)
	}
	for _, want := range []string{`"code":"1234"`, `"lang":"uk"`} {
		if !strings.Contains(gotBody, want) {
			t.Fatalf("request body missing %s: %s", want, gotBody)
		}
	}
}

func TestInfo(t *testing.T) {
	srv := newAPIServer(t, "jwt", map[string]http.HandlerFunc{
		"GET /v1/call/95831458/": func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"call_id":"95831458","phone_number":"+380631010121","status":"answered"}`))
		},
	})

	client := newTestClient(t, srv)

	info, err := client.Info(context.Background(), "95831458")
	if err != nil {
		t.Fatalf("Info: %v", err)
	}
	if info.Status != "answered" || info.PhoneNumber != "+380631010121" {
		t.Fatalf("unexpected info: %+v", info)
	}

	if _, err := client.Info(context.Background(), ""); !errors.Is(err, ErrEmptyCallID) {
		t.Fatalf("expected ErrEmptyCallID, got %v", err)
	}
}

func TestSetVersionChangesPaths(t *testing.T) {
	var gotPath string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/auth/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"jwt":"jwt"}`))
	})
	mux.HandleFunc("POST /v2/call/", func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"call_id":"1"}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client := newTestClient(t, srv)
	if client.Version() != DefaultVersion {
		t.Fatalf("Version = %q, want %q", client.Version(), DefaultVersion)
	}

	client.SetVersion("v2")
	if _, err := client.Call(context.Background(), "+380631010121", ""); err != nil {
		t.Fatalf("Call after SetVersion: %v", err)
	}
	if gotPath != "/v2/call/" {
		t.Fatalf("path = %q, want /v2/call/", gotPath)
	}
}
