// Package backend talks to the ingredient analysis and cookbook HTTP API.
package backend

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

	"github.com/google/uuid"
	"github.com/yildizm/ChefSnap/internal/imagefile"
	"github.com/yildizm/ChefSnap/internal/logger"
	"github.com/yildizm/ChefSnap/internal/recipe"
)

// FileField is the multipart field the analyze endpoint reads
const FileField = "file"

// maxErrorBody caps how much of an error response is kept for logging
const maxErrorBody = 4096

// Config holds the endpoints and transport settings
type Config struct {
	AnalyzeURL  string
	CookbookURL string

	// Timeout bounds a whole request; zero means no timeout.
	Timeout time.Duration

	UserAgent string
}

// Validate checks that both endpoints are absolute http(s) URLs
func (c *Config) Validate() error {
	if err := validateEndpoint("analyze_url", c.AnalyzeURL); err != nil {
		return err
	}
	if err := validateEndpoint("cookbook_url", c.CookbookURL); err != nil {
		return err
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative")
	}
	return nil
}

func validateEndpoint(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid %s: scheme must be http or https", name)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid %s: missing host", name)
	}
	return nil
}

// Client calls the backend
type Client struct {
	config *Config
	client *http.Client
	log    *logger.Logger
}

// New creates a client. The returned client uses the default transport.
func New(config *Config, log *logger.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid backend config: %w", err)
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		log:    log.WithComponent("backend"),
	}, nil
}

// Analyze uploads img as multipart field "file" and decodes the result.
// Exactly one POST is issued; failures are not retried.
func (c *Client) Analyze(ctx context.Context, img *imagefile.Image) (*recipe.AnalysisResult, error) {
	const op = "analyze"

	if img == nil || len(img.Data) == 0 {
		return nil, newError(ErrTypeRequest, op, "no image to upload", nil)
	}

	body, contentType, err := encodeMultipart(img)
	if err != nil {
		return nil, newError(ErrTypeRequest, op, "failed to encode upload", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.AnalyzeURL, body)
	if err != nil {
		return nil, newError(ErrTypeRequest, op, "failed to create request", err)
	}
	req.Header.Set("Content-Type", contentType)

	var result recipe.AnalysisResult
	if err := c.do(req, op, &result); err != nil {
		return nil, err
	}

	if result.Error != "" {
		return nil, &Error{Type: ErrTypeServer, Op: op, Message: result.Error, RequestID: req.Header.Get("X-Request-ID")}
	}

	return &result, nil
}

// Cookbook fetches the saved recipe collection
func (c *Client) Cookbook(ctx context.Context) ([]recipe.SavedRecipe, error) {
	const op = "cookbook"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.CookbookURL, http.NoBody)
	if err != nil {
		return nil, newError(ErrTypeRequest, op, "failed to create request", err)
	}

	var recipes []recipe.SavedRecipe
	if err := c.do(req, op, &recipes); err != nil {
		return nil, err
	}
	if recipes == nil {
		recipes = []recipe.SavedRecipe{}
	}
	return recipes, nil
}

// do sends req, checks the status and decodes a JSON body into out
func (c *Client) do(req *http.Request, op string, out any) error {
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}

	start := time.Now()
	c.log.DebugWithFields("sending request", []logger.Field{
		logger.F("op", op),
		logger.F("method", req.Method),
		logger.F("url", req.URL.String()),
		logger.F("request_id", requestID),
	})

	resp, err := c.client.Do(req)
	if err != nil {
		errType := ErrTypeNetwork
		if errors.Is(err, context.Canceled) {
			errType = ErrTypeCanceled
		}
		c.log.Warn("%s request %s failed: %v", op, requestID, err)
		return &Error{Type: errType, Op: op, Message: "request failed", RequestID: requestID, Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.log.DebugWithFields("response received", []logger.Field{
		logger.F("op", op),
		logger.F("status", resp.StatusCode),
		logger.F("request_id", requestID),
		logger.Duration(time.Since(start)),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warn("%s request %s returned %s: %s", op, requestID, resp.Status, strings.TrimSpace(string(snippet)))
		return &Error{
			Type:       ErrTypeStatus,
			Op:         op,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("server error: %s", http.StatusText(resp.StatusCode)),
			RequestID:  requestID,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Type: ErrTypeDecode, Op: op, Message: "failed to decode response", RequestID: requestID, Cause: err}
	}

	return nil
}

// encodeMultipart builds the upload body with the image's sniffed content type
func encodeMultipart(img *imagefile.Image) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	name := img.Name
	if name == "" {
		name = "upload"
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, FileField, name))
	header.Set("Content-Type", img.MIMEType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return &buf, w.FormDataContentType(), nil
}
