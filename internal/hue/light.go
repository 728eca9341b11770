package hue

import (
	"fmt"

	"github.com/wheelibin/phuey/internal/constants"
)

var lightSpec = &kindSpec{
	kind:    KindLight,
	bundle:  constants.SubResourceState,
	flatten: true,
	idAttr:  "light_id",
	attrs: map[string]attribute{
		"on":               bundleAttr,
		"bri":              bundleAttr,
		"hue":              bundleAttr,
		"sat":              bundleAttr,
		"xy":               bundleAttr,
		"ct":               bundleAttr,
		"alert":            bundleAttr,
		"effect":           bundleAttr,
		"transitiontime":   bundleAttr,
		"bri_inc":          bundleAttr,
		"sat_inc":          bundleAttr,
		"hue_inc":          bundleAttr,
		"ct_inc":           bundleAttr,
		"xy_inc":           bundleAttr,
		"name":             selfAttr,
		"light_id":         readAttr,
		"reachable":        readAttr,
		"colormode":        readAttr,
		"mode":             readAttr,
		"type":             readAttr,
		"modelid":          readAttr,
		"manufacturername": readAttr,
		"productname":      readAttr,
		"uniqueid":         readAttr,
		"swversion":        readAttr,
	},
	format: formatLight,
}

// Light is a single bulb, strip or plug known to the bridge.
type Light struct {
	controls
}

// NewLight reads the light with the given id from the bridge.
func NewLight(client *Client, id string) (*Light, error) {
	l := newLight(client, id)
	if err := l.Refresh(); err != nil {
		return nil, fmt.Errorf("error reading light %s: %w", id, err)
	}
	return l, nil
}

func newLight(client *Client, id string) *Light {
	return &Light{controls{newProxy(client, lightSpec, id, client.resourceURI(KindLight, id))}}
}

func lightFromState(client *Client, id string, raw map[string]any) *Light {
	l := newLight(client, id)
	l.load(raw)
	return l
}

func (l *Light) Name() string {
	return l.stringAttr("name")
}

func (l *Light) IsOn() bool {
	return l.boolAttr("on")
}

func (l *Light) Reachable() bool {
	return l.boolAttr("reachable")
}

// Remove deletes the light from the bridge.
func (l *Light) Remove() error {
	return l.remove()
}
