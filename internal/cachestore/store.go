package cachestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/seonu/homefeed-go/internal/constants"
	"github.com/seonu/homefeed-go/pkg/errors"
	"go.uber.org/zap"
)

// Store is the blob contract both cache backends implement. Keys are
// logical resource names like "feed/home" or "ratings/tt0111161"; each
// backend maps them to its own addressing scheme.
type Store interface {
	// Get reads the blob into dest, reporting whether it existed at all.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Put writes the blob. Best-effort semantics are the caller's concern.
	Put(ctx context.Context, key string, value any) error
	// Ping reports backend reachability for health probes.
	Ping(ctx context.Context) error
}

// URLResolver maps a logical key to the concrete blob URL.
type URLResolver func(key string) string

// HTTPStore is the remote JSON blob store. Writes try a direct PUT first
// and fall back to a multipart form POST against the store's generic upload
// endpoint, derived by stripping the resource segment from the blob URL.
type HTTPStore struct {
	resolve    URLResolver
	httpClient *http.Client
	logger     *zap.Logger
}

func NewHTTPStore(resolve URLResolver, logger *zap.Logger) *HTTPStore {
	return &HTTPStore{
		resolve: resolve,
		httpClient: &http.Client{
			Timeout: constants.APIConfig.CacheTimeout,
		},
		logger: logger,
	}
}

func (s *HTTPStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	rawURL := s.resolve(key)
	if rawURL == "" {
		return false, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return false, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return false, errors.NewCacheError("blob fetch failed", "get", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, errors.NewCacheError(fmt.Sprintf("blob fetch status %d", resp.StatusCode), "get", key, nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, errors.NewCacheError("blob read failed", "get", key, err)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return false, errors.NewCacheError("blob unmarshal failed", "get", key, err)
	}
	return true, nil
}

func (s *HTTPStore) Put(ctx context.Context, key string, value any) error {
	rawURL := s.resolve(key)
	if rawURL == "" {
		return nil
	}

	body, err := json.Marshal(value)
	if err != nil {
		return errors.NewCacheError("blob marshal failed", "put", key, err)
	}

	if err := s.directPut(ctx, rawURL, body); err != nil {
		s.logger.Warn("direct put failed, trying multipart upload",
			zap.String("key", key),
			zap.Error(err),
		)
		return s.multipartUpload(ctx, rawURL, key, body)
	}
	return nil
}

func (s *HTTPStore) Ping(ctx context.Context) error {
	rawURL := s.resolve("feed/home")
	if rawURL == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return err
	}
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func (s *HTTPStore) directPut(ctx context.Context, rawURL string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, rawURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("put status %d", resp.StatusCode)
	}
	return nil
}

func (s *HTTPStore) multipartUpload(ctx context.Context, rawURL, key string, body []byte) error {
	uploadURL, filename := deriveUploadEndpoint(rawURL, key)
	if uploadURL == "" {
		return fmt.Errorf("no upload endpoint derivable from %s", rawURL)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(body); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return errors.NewCacheError("multipart upload failed", "put", key, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewCacheError(fmt.Sprintf("multipart upload status %d", resp.StatusCode), "put", key, nil)
	}
	return nil
}

// deriveUploadEndpoint strips the resource-specific path segment from the
// blob URL, leaving the store's generic upload endpoint. The query string
// (token included) is preserved.
func deriveUploadEndpoint(rawURL, key string) (string, string) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", ""
	}
	filename := path.Base(parsed.Path)
	if filename == "." || filename == "/" {
		filename = strings.ReplaceAll(key, "/", "_") + ".json"
	}
	dir := path.Dir(parsed.Path)
	if dir == "." {
		dir = "/"
	}
	parsed.Path = strings.TrimRight(dir, "/") + "/upload"
	return parsed.String(), filename
}
