package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"maxloyalty.com/backoffice/listmanager"
	"maxloyalty.com/backoffice/maxloyalty/v1/common"
)

const DefaultTimeout = 30 * time.Second

type Response struct {
	StatusCode int
	Data       []byte
}

// APIError is a non-2xx answer from the back office API.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s %s failed with status code %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// UserMessage is the text the server asked to show the operator.
func (e *APIError) UserMessage() string {
	return e.Message
}

// Transport handles low-level HTTP and authentication
type Transport struct {
	BaseURL   string
	AuthToken string
	// SessionCookie, when set, sends the token as a cookie of that name
	// instead of a bearer header.
	SessionCookie string
	HTTPClient    *http.Client
}

// NewTransport creates a transport with base URL and auth
func NewTransport(baseURL, token string, timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Transport{
		BaseURL:    baseURL,
		AuthToken:  token,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// helper: build full URL with query params
func (t *Transport) buildURL(path string, query map[string]string) (string, error) {
	u, err := url.Parse(t.BaseURL + path)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for k, v := range query {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (t *Transport) do(ctx context.Context, method, path string, query map[string]string, body io.Reader, contentType string) (*Response, error) {
	fullURL, err := t.buildURL(path, query)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if t.AuthToken != "" {
		if t.SessionCookie != "" {
			req.AddCookie(&http.Cookie{Name: t.SessionCookie, Value: t.AuthToken})
		} else {
			req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", t.AuthToken))
		}
	}

	resp, err := t.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	resdata, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Body:       string(resdata),
		}
		var status common.StatusAPIResponse[any]
		if json.Unmarshal(resdata, &status) == nil {
			apiErr.Message = status.ErrorMessage()
		}
		return nil, apiErr
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Data:       resdata,
	}, nil
}

// Get sends a GET request
func (t *Transport) Get(ctx context.Context, path string, query map[string]string) (*Response, error) {
	return t.do(ctx, http.MethodGet, path, query, nil, "")
}

// Delete sends a DELETE request
func (t *Transport) Delete(ctx context.Context, path string) (*Response, error) {
	return t.do(ctx, http.MethodDelete, path, nil, nil, "")
}

func (t *Transport) sendJSON(ctx context.Context, method, path string, data any) (*Response, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return t.do(ctx, method, path, nil, bytes.NewReader(body), "application/json")
}

// PostJSON sends a POST request with JSON body
func (t *Transport) PostJSON(ctx context.Context, path string, data any) (*Response, error) {
	return t.sendJSON(ctx, http.MethodPost, path, data)
}

// PutJSON sends a PUT request with JSON body
func (t *Transport) PutJSON(ctx context.Context, path string, data any) (*Response, error) {
	return t.sendJSON(ctx, http.MethodPut, path, data)
}

// PatchJSON sends a PATCH request with JSON body
func (t *Transport) PatchJSON(ctx context.Context, path string, data any) (*Response, error) {
	return t.sendJSON(ctx, http.MethodPatch, path, data)
}

// PostMultipart sends the record as multipart/form-data with its uploads
// attached as file parts.
func (t *Transport) PostMultipart(ctx context.Context, path string, record any, uploads []listmanager.Upload) (*Response, error) {
	return t.sendMultipart(ctx, http.MethodPost, path, record, uploads)
}

// PutMultipart is PostMultipart for updates.
func (t *Transport) PutMultipart(ctx context.Context, path string, record any, uploads []listmanager.Upload) (*Response, error) {
	return t.sendMultipart(ctx, http.MethodPut, path, record, uploads)
}

func (t *Transport) sendMultipart(ctx context.Context, method, path string, record any, uploads []listmanager.Upload) (*Response, error) {
	var buf bytes.Buffer
	contentType, err := EncodeMultipart(&buf, record, uploads)
	if err != nil {
		return nil, err
	}
	return t.do(ctx, method, path, nil, &buf, contentType)
}

// EncodeMultipart writes the record's text fields followed by one file
// part per upload and returns the form's content type.
func EncodeMultipart(w io.Writer, record any, uploads []listmanager.Upload) (string, error) {
	values, err := listmanager.FormValues(record)
	if err != nil {
		return "", err
	}

	mw := multipart.NewWriter(w)
	for _, v := range values {
		if err := mw.WriteField(v.Name, v.Value); err != nil {
			return "", err
		}
	}
	for _, up := range uploads {
		filename := up.Filename
		if filename == "" {
			filename = up.Field
		}
		part, err := mw.CreateFormFile(up.Field, filename)
		if err != nil {
			return "", err
		}
		if _, err := part.Write(up.Content); err != nil {
			return "", err
		}
	}
	if err := mw.Close(); err != nil {
		return "", err
	}
	return mw.FormDataContentType(), nil
}
