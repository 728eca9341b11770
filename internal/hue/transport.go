package hue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

//go:generate mockery --name Sender --structname MockHueSender --filename MockHueSender.go --output ../../mocks --outpkg mocks

// Sender performs one request/response cycle against the bridge.
type Sender interface {
	Send(method string, uri string, payload any) ([]byte, error)
}

type HTTPTransport struct {
	logger  *log.Logger
	address Address
	client  *http.Client
}

func NewHTTPTransport(logger *log.Logger, address Address, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		logger:  logger.With("component", "transport"),
		address: address,
		client: &http.Client{
			Timeout: timeout,
			// one connection per call
			Transport: &http.Transport{DisableKeepAlives: true},
		},
	}
}

func (t *HTTPTransport) Send(method string, uri string, payload any) ([]byte, error) {
	t.logger.Debug("HTTP request", "method", method, "uri", uri)

	var bodyReader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
		}
		t.logger.Debug("request body", "body", string(body))
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, t.address.url(uri), bodyReader)
	if err != nil {
		return nil, &TransportError{Method: method, URI: uri, Err: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		if errors.Is(err, syscall.ECONNREFUSED) {
			t.logger.Error("Connection refused from bridge", "address", t.address)
			return nil, fmt.Errorf("%s: %w", t.address, ErrConnectionRefused)
		}
		t.logger.Error(err)
		return nil, &TransportError{Method: method, URI: uri, Err: err}
	}
	defer resp.Body.Close()

	t.logger.Debug("bridge response", "status", resp.StatusCode)

	if resp.StatusCode >= http.StatusBadRequest {
		reason := statusReason(resp)
		t.logger.Error("Error making bridge API call", "uri", uri, "status", resp.StatusCode, "reason", reason)
		return nil, &HTTPError{StatusCode: resp.StatusCode, Reason: reason}
	}

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URI: uri, Err: err}
	}
	t.logger.Debug("bridge response body", "body", string(responseBody))

	return responseBody, nil
}

func statusReason(resp *http.Response) string {
	reason := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if reason == "" {
		reason = http.StatusText(resp.StatusCode)
	}
	return reason
}
