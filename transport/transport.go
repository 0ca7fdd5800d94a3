// Package transport implements the form request contract over net/http.
// Bodies are produced by the form's payload transformer; the JSON encoder
// covers plain payloads and the multipart encoder covers payloads carrying
// blobs. Encoders fail fast when an omission marker reaches them: an omitted
// value must never survive into a wire body.
package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"sort"
	"strconv"
	"time"

	gojson "github.com/goccy/go-json"

	blueprint "github.com/Hank-IT/blueprint-core"
)

// ErrUnencodable reports a value the body encoder cannot represent, such as
// an omission marker that should have been dropped upstream. This is a
// programming error, not a recoverable condition.
var ErrUnencodable = errors.New("transport: unencodable payload value")

// BodyEncoder renders a payload into a request body.
type BodyEncoder interface {
	Encode(body map[string]any) (data []byte, contentType string, err error)
}

// Client sends form payloads to a fixed endpoint. It satisfies the blueprint
// requester contract.
type Client struct {
	method  string
	url     string
	http    *http.Client
	encoder BodyEncoder
	logger  *slog.Logger
}

var _ blueprint.Requester = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// WithEncoder replaces the body encoder (default JSONEncoder).
func WithEncoder(e BodyEncoder) ClientOption {
	return func(c *Client) { c.encoder = e }
}

// WithLogger sets the request trace logger.
func WithLogger(l *slog.Logger) ClientOption {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient builds a Client for the given method and URL.
func NewClient(method, url string, opts ...ClientOption) *Client {
	c := &Client{
		method:  method,
		url:     url,
		http:    http.DefaultClient,
		encoder: JSONEncoder{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send encodes body and performs the request. Non-2xx replies surface as
// errors carrying the decoded response, so callers can feed server
// validation errors back into the form.
func (c *Client) Send(ctx context.Context, body map[string]any, headers map[string]string) (blueprint.Response, error) {
	data, contentType, err := c.encoder.Encode(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, c.method, c.url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("transport: build request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	res, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: send: %w", err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("transport: read response: %w", err)
	}
	resp := &httpResponse{status: res.StatusCode}
	if len(raw) > 0 {
		// tolerate non-JSON bodies; GetData is nil for them
		_ = gojson.Unmarshal(raw, &resp.data)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.logger.Warn("request rejected", "method", c.method, "url", c.url, "status", res.StatusCode)
		return resp, &StatusError{Status: res.StatusCode, Response: resp}
	}
	return resp, nil
}

// StatusError is returned for non-2xx replies and carries the decoded
// response body.
type StatusError struct {
	Status   int
	Response blueprint.Response
}

func (e *StatusError) Error() string {
	return "transport: request failed with status " + strconv.Itoa(e.Status)
}

type httpResponse struct {
	status int
	data   any
}

// GetData returns the decoded response body.
func (r *httpResponse) GetData() any { return r.data }

// Status returns the HTTP status code.
func (r *httpResponse) Status() int { return r.status }

// JSONEncoder renders the payload as a JSON document. Omission markers and
// blobs are unencodable here; payloads with blobs need the multipart
// encoder.
type JSONEncoder struct{}

func (JSONEncoder) Encode(body map[string]any) ([]byte, string, error) {
	if err := scanUnencodable(body, false); err != nil {
		return nil, "", err
	}
	data, err := gojson.Marshal(body)
	if err != nil {
		return nil, "", fmt.Errorf("transport: encode json body: %w", err)
	}
	return data, "application/json", nil
}

// MultipartEncoder renders the payload as multipart form data. Nested
// branches flatten into bracketed field names ("positions[0][value]"), nil
// values encode as empty strings with the key retained, time values encode
// as ISO-8601, and blobs become file parts.
type MultipartEncoder struct{}

func (MultipartEncoder) Encode(body map[string]any) ([]byte, string, error) {
	if err := scanUnencodable(body, true); err != nil {
		return nil, "", err
	}
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writePart(w, k, body[k]); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("transport: close multipart body: %w", err)
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func writePart(w *multipart.Writer, name string, v any) error {
	switch t := v.(type) {
	case nil:
		return w.WriteField(name, "")
	case string:
		return w.WriteField(name, t)
	case bool:
		return w.WriteField(name, strconv.FormatBool(t))
	case time.Time:
		return w.WriteField(name, t.Format(time.RFC3339))
	case *blueprint.Blob:
		fw, err := w.CreateFormFile(name, t.Name)
		if err != nil {
			return fmt.Errorf("transport: create file part %q: %w", name, err)
		}
		_, err = fw.Write(t.Data)
		return err
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if err := writePart(w, name+"["+k+"]", t[k]); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for i, el := range t {
			if err := writePart(w, name+"["+strconv.Itoa(i)+"]", el); err != nil {
				return err
			}
		}
		return nil
	default:
		return w.WriteField(name, fmt.Sprint(t))
	}
}

// scanUnencodable walks a payload looking for values no encoder may accept.
// allowBlobs is true for the multipart encoder.
func scanUnencodable(v any, allowBlobs bool) error {
	switch t := v.(type) {
	case map[string]any:
		for _, val := range t {
			if err := scanUnencodable(val, allowBlobs); err != nil {
				return err
			}
		}
		return nil
	case []any:
		for _, el := range t {
			if err := scanUnencodable(el, allowBlobs); err != nil {
				return err
			}
		}
		return nil
	case *blueprint.Blob:
		if !allowBlobs {
			return fmt.Errorf("%w: blob requires multipart encoding", ErrUnencodable)
		}
		return nil
	default:
		if blueprint.IsOmitted(v) {
			return fmt.Errorf("%w: omission marker reached the encoder", ErrUnencodable)
		}
		return nil
	}
}
