package hue

import (
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/samber/lo"
	"github.com/wheelibin/phuey/internal/constants"
)

var bridgeSpec = &kindSpec{
	kind:    KindBridge,
	bundle:  constants.SubResourceConfig,
	flatten: true,
	attrs: map[string]attribute{
		"name":             bundleAttr,
		"timezone":         bundleAttr,
		"zigbeechannel":    bundleAttr,
		"bridgeid":         readAttr,
		"ipaddress":        readAttr,
		"mac":              readAttr,
		"modelid":          readAttr,
		"swversion":        readAttr,
		"apiversion":       readAttr,
		"linkbutton":       readAttr,
		"whitelist":        readAttr,
		"portalconnection": readAttr,
	},
	format: func(p *proxy) string {
		return fmt.Sprintf("name: %s", p.stringAttr("name"))
	},
}

// Bridge is the root resource. It holds the bridge config and one instance
// of every child resource reported by the bridge's full state.
type Bridge struct {
	*proxy

	mu        sync.RWMutex
	lights    map[string]*Light
	groups    map[string]*Group
	scenes    map[string]*Scene
	sensors   map[string]*Sensor
	rules     map[string]*Rule
	schedules map[string]*Schedule
}

// NewBridge reads the full state of the bridge the client is bound to.
func NewBridge(client *Client) (*Bridge, error) {
	b := &Bridge{proxy: newProxy(client, bridgeSpec, "", client.BaseURI())}
	if err := b.Refresh(); err != nil {
		return nil, err
	}
	client.logger.Debug("Bridge ready", "bridge", b)
	return b, nil
}

// AuthorizeBridge registers deviceType with the bridge and builds the
// Bridge with the issued credential. Fails with ErrAuthorizationRequired
// until the link button has been pressed.
func AuthorizeBridge(client *Client, deviceType string) (*Bridge, error) {
	authorized, err := client.Authorize(deviceType)
	if err != nil {
		return nil, err
	}
	return NewBridge(authorized)
}

// Refresh re-reads the bridge's full state, replacing every child resource.
func (b *Bridge) Refresh() error {
	resp, err := b.client.get(b.selfURI)
	if err != nil {
		return fmt.Errorf("error reading bridge state: %w", err)
	}
	state, err := asObject(resp, "bridge state")
	if err != nil {
		return err
	}
	cfg, ok := state["config"].(map[string]any)
	if !ok {
		return &MalformedResponseError{Err: fmt.Errorf("bridge state has no config")}
	}
	b.load(map[string]any{"config": cfg})

	children := func(kind Kind) map[string]any {
		m, _ := state[string(kind)].(map[string]any)
		return m
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.lights = buildAll(b.client, KindLight, children(KindLight), lightFromState)
	b.groups = buildAll(b.client, KindGroup, children(KindGroup), groupFromState)
	b.scenes = buildAll(b.client, KindScene, children(KindScene), sceneFromState)
	b.sensors = buildAll(b.client, KindSensor, children(KindSensor), sensorFromState)
	b.rules = buildAll(b.client, KindRule, children(KindRule), ruleFromState)
	b.schedules = buildAll(b.client, KindSchedule, children(KindSchedule), scheduleFromState)

	b.client.logger.Debug("Read bridge state", "lights", len(b.lights), "groups", len(b.groups), "scenes", len(b.scenes))
	return nil
}

func (b *Bridge) Client() *Client {
	return b.client
}

func (b *Bridge) Credential() string {
	return b.client.Credential()
}

func (b *Bridge) Name() string {
	return b.stringAttr("name")
}

func (b *Bridge) String() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return fmt.Sprintf("%s with %d light(s)", b.proxy.String(), len(b.lights))
}

// Len is the number of lights on the bridge.
func (b *Bridge) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.lights)
}

func (b *Bridge) Lights() []*Light {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sortedValues(b.lights)
}

func (b *Bridge) Light(id string) (*Light, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	l, ok := b.lights[id]
	return l, ok
}

// LightByName finds a light by name, ignoring case.
func (b *Bridge) LightByName(name string) (*Light, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return lo.Find(sortedValues(b.lights), func(l *Light) bool {
		return strings.EqualFold(l.Name(), name)
	})
}

func (b *Bridge) Groups() []*Group {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sortedValues(b.groups)
}

func (b *Bridge) Group(id string) (*Group, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	g, ok := b.groups[id]
	return g, ok
}

func (b *Bridge) Scenes() []*Scene {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sortedValues(b.scenes)
}

func (b *Bridge) Scene(id string) (*Scene, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	s, ok := b.scenes[id]
	return s, ok
}

func (b *Bridge) Sensors() []*Sensor {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sortedValues(b.sensors)
}

func (b *Bridge) Rules() []*Rule {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sortedValues(b.rules)
}

func (b *Bridge) Schedules() []*Schedule {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return sortedValues(b.schedules)
}

// FindNewLights starts a search for new lights and returns the bridge's answer.
func (b *Bridge) FindNewLights() (string, error) {
	resp, err := b.client.request(http.MethodPost, b.client.kindURI(KindLight), nil)
	if err != nil {
		return "", fmt.Errorf("error searching for new lights: %w", err)
	}
	successes, err := successEntries(resp)
	if err != nil {
		return "", err
	}

	msg := fmt.Sprint(successes[0])
	if fields, ok := successes[0].(map[string]any); ok {
		msg = strings.Join(lo.Map(lo.Values(fields), func(v any, _ int) string { return fmt.Sprint(v) }), ", ")
	}
	b.client.logger.Info(msg)
	return msg, nil
}
