package cachestore

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func staticResolver(url string) URLResolver {
	return func(string) string { return url }
}

func TestHTTPStoreGetDecodesBlob(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"value":"hello"}`)
	}))
	defer srv.Close()

	store := NewHTTPStore(staticResolver(srv.URL+"/feed/home.json"), zap.NewNop())

	var dest struct {
		Value string `json:"value"`
	}
	found, err := store.Get(context.Background(), "feed/home", &dest)
	if err != nil {
		t.Fatal(err)
	}
	if !found || dest.Value != "hello" {
		t.Errorf("blob not decoded: found=%v value=%q", found, dest.Value)
	}
}

func TestHTTPStoreGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	store := NewHTTPStore(staticResolver(srv.URL+"/feed/home.json"), zap.NewNop())

	var dest map[string]any
	found, err := store.Get(context.Background(), "feed/home", &dest)
	if err != nil {
		t.Fatalf("404 must not be an error, got %v", err)
	}
	if found {
		t.Error("404 must report not-found")
	}
}

func TestHTTPStoreGetServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	store := NewHTTPStore(staticResolver(srv.URL+"/feed/home.json"), zap.NewNop())

	var dest map[string]any
	if _, err := store.Get(context.Background(), "feed/home", &dest); err == nil {
		t.Error("5xx must surface as an error")
	}
}

func TestHTTPStoreGetMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "<html>not json</html>")
	}))
	defer srv.Close()

	store := NewHTTPStore(staticResolver(srv.URL+"/feed/home.json"), zap.NewNop())

	var dest map[string]any
	if _, err := store.Get(context.Background(), "feed/home", &dest); err == nil {
		t.Error("malformed body must surface as an error")
	}
}

func TestHTTPStorePutDirect(t *testing.T) {
	var mu sync.Mutex
	var gotMethod string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		gotMethod = r.Method
		gotBody, _ = io.ReadAll(r.Body)
	}))
	defer srv.Close()

	store := NewHTTPStore(staticResolver(srv.URL+"/feed/home.json"), zap.NewNop())

	err := store.Put(context.Background(), "feed/home", map[string]string{"k": "v"})
	if err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if gotMethod != http.MethodPut {
		t.Errorf("expected direct PUT, got %s", gotMethod)
	}
	var decoded map[string]string
	if err := json.Unmarshal(gotBody, &decoded); err != nil || decoded["k"] != "v" {
		t.Errorf("body not delivered intact: %s", gotBody)
	}
}

func TestHTTPStorePutFallsBackToMultipart(t *testing.T) {
	var mu sync.Mutex
	var uploadPath string
	var uploadQuery string
	var fileContent []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Method == http.MethodPost {
			mu.Lock()
			defer mu.Unlock()
			uploadPath = r.URL.Path
			uploadQuery = r.URL.RawQuery
			file, _, err := r.FormFile("file")
			if err != nil {
				t.Errorf("multipart file field missing: %v", err)
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			defer file.Close()
			fileContent, _ = io.ReadAll(file)
			return
		}
		w.WriteHeader(http.StatusMethodNotAllowed)
	}))
	defer srv.Close()

	store := NewHTTPStore(staticResolver(srv.URL+"/feed/home.json?token=abc"), zap.NewNop())

	err := store.Put(context.Background(), "feed/home", map[string]string{"k": "v"})
	if err != nil {
		t.Fatal(err)
	}

	mu.Lock()
	defer mu.Unlock()
	if uploadPath != "/feed/upload" {
		t.Errorf("upload endpoint should strip the file segment, got %q", uploadPath)
	}
	if !strings.Contains(uploadQuery, "token=abc") {
		t.Errorf("token query must be preserved, got %q", uploadQuery)
	}
	var decoded map[string]string
	if err := json.Unmarshal(fileContent, &decoded); err != nil || decoded["k"] != "v" {
		t.Errorf("uploaded file content mangled: %s", fileContent)
	}
}

func TestHTTPStorePutBothPathsFailing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	store := NewHTTPStore(staticResolver(srv.URL+"/feed/home.json"), zap.NewNop())

	if err := store.Put(context.Background(), "feed/home", map[string]string{}); err == nil {
		t.Error("both write paths failing must surface an error")
	}
}

func TestHTTPStoreEmptyURLIsNoop(t *testing.T) {
	store := NewHTTPStore(staticResolver(""), zap.NewNop())

	var dest map[string]any
	found, err := store.Get(context.Background(), "feed/home", &dest)
	if found || err != nil {
		t.Errorf("unresolvable key must be a silent miss, got found=%v err=%v", found, err)
	}
	if err := store.Put(context.Background(), "feed/home", map[string]string{}); err != nil {
		t.Errorf("unresolvable key must make Put a no-op, got %v", err)
	}
}

func TestDeriveUploadEndpoint(t *testing.T) {
	tests := []struct {
		rawURL       string
		key          string
		wantURL      string
		wantFilename string
	}{
		{
			rawURL:       "https://store.example/feed/home.json?token=abc",
			key:          "feed/home",
			wantURL:      "https://store.example/feed/upload?token=abc",
			wantFilename: "home.json",
		},
		{
			rawURL:       "https://store.example/ratings/tt0111161.json",
			key:          "ratings/tt0111161",
			wantURL:      "https://store.example/ratings/upload",
			wantFilename: "tt0111161.json",
		},
	}

	for _, tt := range tests {
		gotURL, gotFilename := deriveUploadEndpoint(tt.rawURL, tt.key)
		if gotURL != tt.wantURL {
			t.Errorf("deriveUploadEndpoint(%q) url = %q, want %q", tt.rawURL, gotURL, tt.wantURL)
		}
		if gotFilename != tt.wantFilename {
			t.Errorf("deriveUploadEndpoint(%q) filename = %q, want %q", tt.rawURL, gotFilename, tt.wantFilename)
		}
	}
}
