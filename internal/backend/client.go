package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/secassets/inventory-backend/internal/config"
	"github.com/secassets/inventory-backend/internal/inventory"
	"github.com/secassets/inventory-backend/internal/patch"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// PatchResult is the acknowledgement of a bulk patch
type PatchResult struct {
	StatusCode int
	Message    string
}

type Client struct {
	endpoint   string
	timeout    time.Duration
	httpClient *http.Client
	log        logrus.FieldLogger
	errors     metric.Int64Counter
}

func New(cfg config.Backend, errors metric.Int64Counter, log logrus.FieldLogger) *Client {
	return &Client{
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		timeout:    cfg.Timeout,
		httpClient: Transport{Token: cfg.Token}.Client(),
		log:        log,
		errors:     errors,
	}
}

// Assets returns every asset known to the backend
func (c *Client) Assets(ctx context.Context) ([]RawAsset, error) {
	ret := []RawAsset{}
	if err := c.get(ctx, "/equipos", &ret); err != nil {
		return nil, c.error(ctx, err, "getting assets")
	}
	return ret, nil
}

// AssetsForAnalyst returns the assets assigned to an analyst
func (c *Client) AssetsForAnalyst(ctx context.Context, analystID string) ([]RawAsset, error) {
	ret := []RawAsset{}
	if err := c.get(ctx, "/equipos/analista/"+url.PathEscape(analystID), &ret); err != nil {
		return nil, c.error(ctx, err, "getting assets for analyst")
	}
	return ret, nil
}

// VulnerableAssetsForAnalyst returns the assets of an analyst together with their vulnerabilities
func (c *Client) VulnerableAssetsForAnalyst(ctx context.Context, analystID string) ([]RawAsset, error) {
	ret := []RawAsset{}
	if err := c.get(ctx, "/vulns/"+url.PathEscape(analystID), &ret); err != nil {
		return nil, c.error(ctx, err, "getting vulnerabilities for analyst")
	}
	return ret, nil
}

// Analysts returns the analyst directory
func (c *Client) Analysts(ctx context.Context) ([]inventory.Analyst, error) {
	raw := []RawAnalyst{}
	if err := c.get(ctx, "/analistas", &raw); err != nil {
		return nil, c.error(ctx, err, "getting analysts")
	}

	ret := make([]inventory.Analyst, 0, len(raw))
	for _, a := range raw {
		ret = append(ret, inventory.Analyst{ID: a.ID.String(), Name: a.Name})
	}
	return ret, nil
}

// BulkPatch sends a bulk patch request. The result is not reconciled with any cached asset data.
func (c *Client) BulkPatch(ctx context.Context, req *patch.Request) (*PatchResult, error) {
	body, err := json.Marshal(req.Payload())
	if err != nil {
		return nil, fmt.Errorf("encoding bulk patch payload: %w", err)
	}

	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.endpoint+"/vulns/parchar-masivo", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("X-Request-ID", req.ID.String())

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.error(ctx, fmt.Errorf("making request: %w", err), "bulk patching vulnerabilities")
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, c.error(ctx, err, "bulk patching vulnerabilities")
	}

	ack := struct {
		Message string `json:"message"`
	}{}
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil && !errors.Is(err, io.EOF) {
		c.log.WithError(err).Debug("bulk patch acknowledgement is not a JSON object")
	}

	c.log.WithFields(logrus.Fields{
		"request_id": req.ID.String(),
		"product":    req.Product,
		"machines":   len(req.MachineNames),
	}).Info("bulk patch sent")

	return &PatchResult{StatusCode: resp.StatusCode, Message: ack.Message}, nil
}

func (c *Client) get(ctx context.Context, path string, v any) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding backend response: %w", err)
	}
	return nil
}

func (c *Client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return fmt.Errorf("backend: %v", resp.Status)
}

func (c *Client) error(ctx context.Context, err error, msg string) error {
	c.errors.Add(ctx, 1, metric.WithAttributes(attribute.String("component", "backend-client")))
	c.log.WithError(err).Error(msg)
	return fmt.Errorf("%s: %w", msg, err)
}
