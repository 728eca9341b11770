package hue

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/samber/lo"
	"github.com/wheelibin/phuey/internal/constants"
)

// Kind is a resource collection on the bridge, as it appears in the URL.
type Kind string

const (
	KindLight    Kind = "lights"
	KindGroup    Kind = "groups"
	KindScene    Kind = "scenes"
	KindSensor   Kind = "sensors"
	KindRule     Kind = "rules"
	KindSchedule Kind = "schedules"
	KindBridge   Kind = "bridge"
)

// AttributeSet maps attribute names to values.
type AttributeSet map[string]any

type access int

const (
	readOnly access = iota
	writable
)

type target int

const (
	// the resource's own URI
	targetSelf target = iota
	// the state/action/config sub-resource
	targetBundle
)

type attribute struct {
	access access
	target target
}

var (
	readAttr   = attribute{access: readOnly}
	selfAttr   = attribute{access: writable, target: targetSelf}
	bundleAttr = attribute{access: writable, target: targetBundle}
)

// kindSpec describes how one kind of resource maps attributes to requests.
type kindSpec struct {
	kind Kind
	// sub-resource taking bundled writes, also the name of the sentinel attribute
	bundle string
	// bundled attributes live at the top level of the cache
	flatten bool
	// local identity attribute, never transmitted
	idAttr string
	attrs  map[string]attribute
	format func(p *proxy) string
}

func (s *kindSpec) lookup(name string) (attribute, bool) {
	attr, ok := s.attrs[name]
	return attr, ok
}

// proxy turns attribute reads and writes on a resource into cached reads
// and bridge writes, driven by the resource kind's table.
type proxy struct {
	client    *Client
	spec      *kindSpec
	id        string
	selfURI   string
	bundleURI string

	mu      sync.RWMutex
	attrs   AttributeSet
	bundled map[string]struct{}
}

func newProxy(client *Client, spec *kindSpec, id string, selfURI string) *proxy {
	p := &proxy{
		client:  client,
		spec:    spec,
		id:      id,
		selfURI: selfURI,
		attrs:   AttributeSet{},
		bundled: map[string]struct{}{},
	}
	if spec.bundle != "" {
		p.bundleURI = selfURI + "/" + spec.bundle
	}
	return p
}

func (p *proxy) ID() string {
	return p.id
}

func (p *proxy) Kind() Kind {
	return p.spec.kind
}

func (p *proxy) URI() string {
	return p.selfURI
}

func (p *proxy) String() string {
	return p.spec.format(p)
}

// load replaces the cache with a resource representation returned by the bridge.
func (p *proxy) load(raw map[string]any) {
	attrs := AttributeSet{}
	bundled := map[string]struct{}{}

	for k, v := range raw {
		if k == p.spec.bundle && p.spec.flatten {
			if sub, ok := v.(map[string]any); ok {
				for sk, sv := range sub {
					attrs[sk] = sv
					bundled[sk] = struct{}{}
				}
				continue
			}
		}
		attrs[k] = v
	}
	if p.spec.idAttr != "" {
		attrs[p.spec.idAttr] = p.id
	}

	p.mu.Lock()
	p.attrs = attrs
	p.bundled = bundled
	p.mu.Unlock()
}

// Refresh re-reads the resource from the bridge.
func (p *proxy) Refresh() error {
	resp, err := p.client.get(p.selfURI)
	if err != nil {
		return err
	}
	raw, err := asObject(resp, string(p.spec.kind))
	if err != nil {
		return err
	}
	p.load(raw)
	return nil
}

// Get returns the cached value of an attribute. The cache holds what the
// bridge reported at construction or last Refresh, plus successful writes.
func (p *proxy) Get(name string) (any, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if name == p.spec.bundle && p.spec.flatten {
		bundle := map[string]any{}
		for k := range p.bundled {
			if v, ok := p.attrs[k]; ok {
				bundle[k] = clone(v)
			}
		}
		return bundle, nil
	}

	v, ok := p.attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s %s", ErrUnknownAttribute, name, p.spec.kind, p.id)
	}
	return clone(v), nil
}

// Attributes returns a copy of the cached attributes.
func (p *proxy) Attributes() AttributeSet {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return AttributeSet(lo.MapValues(map[string]any(p.attrs), func(v any, _ string) any { return clone(v) }))
}

// Set writes one attribute. The bundle sentinel (state, action, config)
// takes a mapping which is sent as a single request.
func (p *proxy) Set(name string, value any) error {
	if p.spec.bundle != "" && name == p.spec.bundle {
		return p.setBundle(value)
	}

	attr, err := p.writable(name)
	if err != nil {
		return err
	}
	if _, ok := asMapping(value); ok && attr.target == targetBundle {
		return fmt.Errorf("%w: %q takes a single value, write mappings through %q", ErrInvalidPayload, name, p.spec.bundle)
	}

	if value == nil {
		value = constants.NoneValue
	}

	return p.write(attr.target, map[string]any{name: value})
}

// Update writes several attributes at once. More than one key is sent as a
// single request, so all keys must target the same endpoint.
func (p *proxy) Update(attrs AttributeSet) error {
	if len(attrs) == 0 {
		return fmt.Errorf("%w: no attributes to update on %s %s", ErrInvalidPayload, p.spec.kind, p.id)
	}
	if len(attrs) == 1 {
		for k, v := range attrs {
			return p.Set(k, v)
		}
	}

	payload := map[string]any{}
	var dest target
	first := true
	for name, value := range attrs {
		attr, err := p.writable(name)
		if err != nil {
			return err
		}
		if !first && attr.target != dest {
			return fmt.Errorf("%w: %v cannot be written in one request on %s %s", ErrInvalidPayload, lo.Keys(attrs), p.spec.kind, p.id)
		}
		dest, first = attr.target, false

		if value == nil {
			value = constants.NoneValue
		}
		payload[name] = value
	}

	return p.write(dest, payload)
}

func (p *proxy) writable(name string) (attribute, error) {
	attr, ok := p.spec.lookup(name)
	if !ok || attr.access != writable {
		p.client.logger.Error("attribute is not writable", "kind", p.spec.kind, "attribute", name)
		return attribute{}, fmt.Errorf("%w: %q on %s", ErrUnsupportedAttribute, name, p.spec.kind)
	}
	if attr.target == targetBundle && p.bundleURI == "" {
		return attribute{}, fmt.Errorf("%w: %q on %s", ErrUnsupportedAttribute, name, p.spec.kind)
	}
	return attr, nil
}

func (p *proxy) setBundle(value any) error {
	values, _ := asMapping(value)
	if len(values) == 0 {
		return fmt.Errorf("%w: %s expects a non-empty mapping, got %T", ErrInvalidPayload, p.spec.bundle, value)
	}

	payload := make(map[string]any, len(values))
	for k, v := range values {
		if err := p.bundleKey(k); err != nil {
			return err
		}
		if v == nil {
			v = constants.NoneValue
		}
		payload[k] = v
	}

	return p.write(targetBundle, payload)
}

// bundleKey checks one key of a bundle mapping. Flattened bundles only take
// the kind's bundled attributes, nested ones (sensor config) take any key
// that is not one of the resource's own attributes.
func (p *proxy) bundleKey(name string) error {
	attr, known := p.spec.lookup(name)
	allowed := !known
	if p.spec.flatten {
		allowed = known && attr.access == writable && attr.target == targetBundle
	}
	if !allowed {
		p.client.logger.Error("attribute is not writable through the bundle", "kind", p.spec.kind, "bundle", p.spec.bundle, "attribute", name)
		return fmt.Errorf("%w: %q in %s on %s", ErrUnsupportedAttribute, name, p.spec.bundle, p.spec.kind)
	}
	return nil
}

// write sends the payload and merges what the bridge accepted into the cache.
// When the bridge rejects some of the keys only the confirmed ones are
// merged and the first rejection is returned.
func (p *proxy) write(dest target, payload map[string]any) error {
	uri := p.selfURI
	if dest == targetBundle {
		uri = p.bundleURI
	}

	p.client.logger.Debug("writing attributes", "kind", p.spec.kind, "id", p.id, "uri", uri, "payload", payload)

	resp, err := p.client.request(http.MethodPut, uri, payload)
	if err != nil {
		return err
	}

	confirmed, rejected := writeOutcome(resp)
	if rejected != nil {
		p.client.logger.Error("bridge rejected part of the write", "kind", p.spec.kind, "id", p.id, "confirmed", confirmed, "err", rejected)
		payload = lo.PickBy(payload, func(k string, _ any) bool { return lo.Contains(confirmed, k) })
	}

	p.merge(dest, payload)
	return rejected
}

func (p *proxy) merge(dest target, payload map[string]any) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if dest == targetBundle && !p.spec.flatten {
		nested, _ := p.attrs[p.spec.bundle].(map[string]any)
		p.attrs[p.spec.bundle] = lo.Assign(nested, clone(payload).(map[string]any))
		return
	}
	for k, v := range payload {
		p.attrs[k] = clone(v)
		if dest == targetBundle {
			p.bundled[k] = struct{}{}
		}
	}
}

// clone copies maps and slices so callers never share memory with the cache.
func clone(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return lo.MapValues(val, func(item any, _ string) any { return clone(item) })
	case []any:
		return lo.Map(val, func(item any, _ int) any { return clone(item) })
	case []float64:
		return append([]float64(nil), val...)
	case []string:
		return append([]string(nil), val...)
	}
	return v
}

func asMapping(value any) (map[string]any, bool) {
	switch v := value.(type) {
	case AttributeSet:
		return v, true
	case map[string]any:
		return v, true
	}
	return nil, false
}

// remove deletes the resource on the bridge.
func (p *proxy) remove() error {
	resp, err := p.client.request(http.MethodDelete, p.selfURI, nil)
	if err != nil {
		return err
	}
	successes, err := successEntries(resp)
	if err != nil {
		return err
	}
	p.client.logger.Info("Removed resource", "kind", p.spec.kind, "id", p.id, "response", successes[0])
	return nil
}
