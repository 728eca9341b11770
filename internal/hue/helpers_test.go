package hue_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
	"github.com/wheelibin/phuey/internal/hue"
	"github.com/wheelibin/phuey/mocks"
)

const testUser = "workdesktop"

const light17 = `{
	"state": {"on": false, "bri": 120, "hue": 8000, "sat": 100, "effect": "none", "xy": [0.45, 0.41],
		"ct": 366, "alert": "none", "colormode": "ct", "mode": "homeautomation", "reachable": true},
	"type": "Extended color light",
	"name": "Desk lamp",
	"modelid": "LCT015",
	"manufacturername": "Signify Netherlands B.V.",
	"productname": "Hue color lamp",
	"uniqueid": "00:17:88:01:04:b7:33:21-0b",
	"swversion": "1.88.1"
}`

const group3 = `{
	"name": "Kitchen",
	"lights": ["1", "2"],
	"type": "Room",
	"class": "Kitchen",
	"state": {"all_on": false, "any_on": true},
	"action": {"on": true, "bri": 200, "hue": 100, "sat": 20, "effect": "none", "xy": [0.3, 0.3],
		"ct": 300, "alert": "none", "colormode": "xy"}
}`

const success = `[{"success":{}}]`

type mockSender = mocks.MockHueSender

func testLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

func newMockClient(t *testing.T) (*hue.Client, *mockSender) {
	sender := mocks.NewMockHueSender(t)
	client := hue.NewClient(testLogger(), hue.Address{Host: "192.168.1.2", Port: 80}, testUser, hue.WithSender(sender))
	return client, sender
}

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
	Body        string
}

// fakeBridge answers canned bodies keyed by "METHOD path" and records every request.
type fakeBridge struct {
	*httptest.Server

	mu       sync.Mutex
	routes   map[string]string
	requests []recordedRequest
}

func newFakeBridge(t *testing.T, routes map[string]string) *fakeBridge {
	f := &fakeBridge{routes: routes}
	f.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		f.requests = append(f.requests, recordedRequest{
			Method:      r.Method,
			Path:        r.URL.Path,
			ContentType: r.Header.Get("Content-Type"),
			Body:        string(body),
		})
		resp, ok := f.routes[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, resp)
	}))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeBridge) address(t *testing.T) hue.Address {
	addr, err := hue.ParseAddress(f.Listener.Addr().String())
	require.NoError(t, err)
	return addr
}

func (f *fakeBridge) client(t *testing.T, credential string) *hue.Client {
	return hue.NewClient(testLogger(), f.address(t), credential)
}

func (f *fakeBridge) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func (f *fakeBridge) recordedWith(method string) []recordedRequest {
	var out []recordedRequest
	for _, r := range f.recorded() {
		if r.Method == method {
			out = append(out, r)
		}
	}
	return out
}
