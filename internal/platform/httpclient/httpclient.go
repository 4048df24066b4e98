package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTimeout = 10 * time.Second

	defaultMaxBody = 1 << 20
)

// Client envuelve *http.Client con helpers comunes para adapters y el cliente de la API.
type Client struct {
	HTTP    *http.Client
	BaseURL string // opcional; si se define, Do puede recibir paths relativos

	// MaxBody limita lo que se lee de cada respuesta. 0 => 1MB.
	MaxBody int64
}

// New crea un Client con timeout razonable.
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP: &http.Client{
			Timeout: timeout,
		},
	}
}

// NewWithBaseURL crea un Client con BaseURL + timeout.
func NewWithBaseURL(baseURL string, timeout time.Duration) (*Client, error) {
	c := New(timeout)
	if strings.TrimSpace(baseURL) == "" {
		return c, nil
	}
	_, err := url.ParseRequestURI(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	c.BaseURL = strings.TrimRight(baseURL, "/")
	return c, nil
}

// NewWithTransport permite inyectar un Transport (p.ej. para tests).
func NewWithTransport(timeout time.Duration, tr http.RoundTripper) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if tr == nil {
		tr = http.DefaultTransport
	}
	return &Client{
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
	}
}

// HTTPError representa una respuesta no-2xx.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("http error: status=%d", e.StatusCode)
	}
	return fmt.Sprintf("http error: status=%d body=%s", e.StatusCode, e.Body)
}

// Message devuelve el texto que el upstream puso en su body JSON, o "" si no hay.
// Acepta las variantes habituales: message, msg, error_description, error.
func (e *HTTPError) Message() string {
	if e == nil || e.Body == "" {
		return ""
	}
	var m map[string]any
	if err := json.Unmarshal([]byte(e.Body), &m); err != nil {
		return ""
	}
	for _, k := range []string{"message", "msg", "error_description", "error"} {
		if s, ok := m[k].(string); ok && strings.TrimSpace(s) != "" {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// File es una parte de archivo para un body multipart.
type File struct {
	Field       string
	Name        string
	ContentType string
	Data        io.Reader
}

// Request describe una llamada. JSON y File son excluyentes.
type Request struct {
	Method  string
	Path    string // URL absoluta o path relativo a BaseURL
	Query   map[string]string
	Headers map[string]string

	JSON any
	File *File
}

// Response es la respuesta 2xx ya leída.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// NoContent es true para 204 o body vacío: el caller no debe intentar decodificar.
func (r Response) NoContent() bool {
	return r.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(r.Body)) == 0
}

// Decode decodifica el body JSON en out.
func (r Response) Decode(out any) error {
	if out == nil || r.NoContent() {
		return nil
	}
	if err := json.Unmarshal(r.Body, out); err != nil {
		return fmt.Errorf("httpclient: unmarshal json: %w", err)
	}
	return nil
}

// Do ejecuta el request. Devuelve *HTTPError si status no es 2xx.
func (c *Client) Do(ctx context.Context, in Request) (Response, error) {
	if c == nil || c.HTTP == nil {
		return Response{}, errors.New("httpclient: nil client")
	}
	if in.JSON != nil && in.File != nil {
		return Response{}, errors.New("httpclient: json and file body are exclusive")
	}

	fullURL, err := c.resolveURL(in.Path)
	if err != nil {
		return Response{}, err
	}
	fullURL, err = withQuery(fullURL, in.Query)
	if err != nil {
		return Response{}, err
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case in.JSON != nil:
		b, err := json.Marshal(in.JSON)
		if err != nil {
			return Response{}, fmt.Errorf("httpclient: marshal json: %w", err)
		}
		body = bytes.NewReader(b)
		contentType = "application/json"
	case in.File != nil:
		b, ct, err := encodeMultipart(in.File)
		if err != nil {
			return Response{}, err
		}
		body = b
		contentType = ct
	}

	method := in.Method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return Response{}, fmt.Errorf("httpclient: new request: %w", err)
	}

	// Defaults
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	// Extra headers
	for k, v := range in.Headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("httpclient: do request: %w", err)
	}
	defer resp.Body.Close()

	// Leer body (limitado) para errores / decode
	raw, _ := readAtMost(resp.Body, c.MaxBody)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, &HTTPError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	return Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       raw,
	}, nil
}

// DoJSON hace un request JSON.
// - method: GET/POST/etc
// - pathOrURL: puede ser URL absoluta o path relativo si BaseURL está seteado
// - headers: headers extra (opcional)
// - in: body a enviar (opcional). Si nil => no body.
// - out: donde decodificar JSON (opcional). Si nil => ignora body.
// Retorna error si status no es 2xx.
func (c *Client) DoJSON(
	ctx context.Context,
	method string,
	pathOrURL string,
	headers map[string]string,
	in any,
	out any,
) error {
	resp, err := c.Do(ctx, Request{
		Method:  method,
		Path:    pathOrURL,
		Headers: headers,
		JSON:    in,
	})
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func (c *Client) resolveURL(pathOrURL string) (string, error) {
	pathOrURL = strings.TrimSpace(pathOrURL)
	if pathOrURL == "" {
		return "", errors.New("httpclient: empty url")
	}

	// Si ya es URL absoluta, úsala tal cual.
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return pathOrURL, nil
	}

	// Si no es absoluta, requiere BaseURL.
	if strings.TrimSpace(c.BaseURL) == "" {
		return "", errors.New("httpclient: relative path requires BaseURL")
	}

	if !strings.HasPrefix(pathOrURL, "/") {
		pathOrURL = "/" + pathOrURL
	}
	return c.BaseURL + pathOrURL, nil
}

// withQuery agrega solo los valores no vacíos.
func withQuery(rawURL string, q map[string]string) (string, error) {
	if len(q) == 0 {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("httpclient: parse url: %w", err)
	}
	values := u.Query()
	for k, v := range q {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			continue
		}
		values.Set(k, v)
	}
	u.RawQuery = values.Encode()
	return u.String(), nil
}

func encodeMultipart(f *File) (io.Reader, string, error) {
	if f.Data == nil {
		return nil, "", errors.New("httpclient: multipart file without data")
	}
	field := f.Field
	if field == "" {
		field = "file"
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, f.Name))
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set("Content-Type", ct)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", fmt.Errorf("httpclient: multipart part: %w", err)
	}
	if _, err := io.Copy(part, f.Data); err != nil {
		return nil, "", fmt.Errorf("httpclient: multipart copy: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("httpclient: multipart close: %w", err)
	}
	return &buf, mw.FormDataContentType(), nil
}

func readAtMost(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		max = defaultMaxBody
	}
	lr := io.LimitReader(r, max)
	return io.ReadAll(lr)
}
