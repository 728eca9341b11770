package hue

import (
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/phuey/internal/constants"
)

// Client is the plumbing shared by every resource: the bridge address, the
// credential and the request-and-classify round trip.
type Client struct {
	logger     *log.Logger
	sender     Sender
	address    Address
	credential string
	baseURI    string
	timeout    time.Duration
}

type Option func(*Client)

// WithSender replaces the HTTP transport.
func WithSender(sender Sender) Option {
	return func(c *Client) { c.sender = sender }
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

func NewClient(logger *log.Logger, address Address, credential string, opts ...Option) *Client {
	c := &Client{
		logger:     logger,
		address:    address,
		credential: credential,
		baseURI:    "/api/" + credential,
		timeout:    constants.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sender == nil {
		c.sender = NewHTTPTransport(logger, address, c.timeout)
	}
	return c
}

func (c *Client) Address() Address {
	return c.address
}

func (c *Client) Credential() string {
	return c.credential
}

func (c *Client) BaseURI() string {
	return c.baseURI
}

func (c *Client) kindURI(kind Kind) string {
	return fmt.Sprintf("%s/%s", c.baseURI, kind)
}

func (c *Client) resourceURI(kind Kind, id string) string {
	return fmt.Sprintf("%s/%s/%s", c.baseURI, kind, id)
}

// request sends one call to the bridge and classifies the response.
func (c *Client) request(method string, uri string, payload any) (any, error) {
	body, err := c.sender.Send(method, uri, payload)
	if err != nil {
		return nil, err
	}

	parsed, err := Classify(body)
	if err != nil {
		c.logger.Error("bridge request failed", "method", method, "uri", uri, "err", err)
		return nil, err
	}
	return parsed, nil
}

func (c *Client) get(uri string) (any, error) {
	return c.request(http.MethodGet, uri, nil)
}

// Authorize asks the bridge for a new credential and returns a client bound
// to it. The link button must have been pressed shortly before.
func (c *Client) Authorize(deviceType string) (*Client, error) {
	payload := map[string]any{"devicetype": deviceType}
	if c.credential != "" {
		// legacy firmware accepts a proposed username
		payload["username"] = c.credential
	}

	resp, err := c.request(http.MethodPost, "/api", payload)
	if err != nil {
		return nil, fmt.Errorf("error authorizing with bridge: %w", err)
	}

	successes, err := successEntries(resp)
	if err != nil {
		return nil, err
	}
	fields, _ := successes[0].(map[string]any)
	username, _ := fields["username"].(string)
	if username == "" {
		return nil, &MalformedResponseError{Err: fmt.Errorf("authorization response has no username")}
	}

	c.logger.Info("Authorized with bridge", "address", c.address, "devicetype", deviceType)

	authorized := *c
	authorized.credential = username
	authorized.baseURI = "/api/" + username
	return &authorized, nil
}
