package hue

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/wheelibin/phuey/internal/constants"
)

var groupSpec = &kindSpec{
	kind:    KindGroup,
	bundle:  constants.SubResourceAction,
	flatten: true,
	idAttr:  "group_id",
	attrs: map[string]attribute{
		"on":             bundleAttr,
		"bri":            bundleAttr,
		"hue":            bundleAttr,
		"sat":            bundleAttr,
		"xy":             bundleAttr,
		"ct":             bundleAttr,
		"alert":          bundleAttr,
		"effect":         bundleAttr,
		"transitiontime": bundleAttr,
		"scene":          bundleAttr,
		"bri_inc":        bundleAttr,
		"sat_inc":        bundleAttr,
		"hue_inc":        bundleAttr,
		"ct_inc":         bundleAttr,
		"xy_inc":         bundleAttr,
		"name":           selfAttr,
		"lights":         selfAttr,
		"class":          selfAttr,
		"group_id":       readAttr,
		"type":           readAttr,
		"state":          readAttr,
		"recycle":        readAttr,
		"colormode":      readAttr,
	},
	format: formatGroup,
}

// Group is a set of lights controlled together through its action.
type Group struct {
	controls
}

// GroupSpec describes a group to create.
type GroupSpec struct {
	Name   string
	Lights []string
	// LightGroup, Room, Zone... empty lets the bridge pick
	Type  string
	Class string
}

func (s GroupSpec) payload() map[string]any {
	payload := map[string]any{
		"name":   s.Name,
		"lights": s.Lights,
	}
	if s.Type != "" {
		payload["type"] = s.Type
	}
	if s.Class != "" {
		payload["class"] = s.Class
	}
	return payload
}

// NewGroup reads the group with the given id from the bridge.
func NewGroup(client *Client, id string) (*Group, error) {
	g := newGroup(client, id)
	if err := g.Refresh(); err != nil {
		return nil, fmt.Errorf("error reading group %s: %w", id, err)
	}
	return g, nil
}

func newGroup(client *Client, id string) *Group {
	return &Group{controls{newProxy(client, groupSpec, id, client.resourceURI(KindGroup, id))}}
}

func groupFromState(client *Client, id string, raw map[string]any) *Group {
	g := newGroup(client, id)
	g.load(raw)
	return g
}

// CreateGroup creates a group on the bridge. Unless allowDuplicates is set,
// an existing group with the same name is reused and nothing is created.
func CreateGroup(client *Client, spec GroupSpec, allowDuplicates bool) (*Group, error) {
	if spec.Name == "" || len(spec.Lights) == 0 {
		return nil, fmt.Errorf("%w: a group needs a name and at least one light", ErrInvalidPayload)
	}

	if !allowDuplicates {
		existing, err := client.get(client.kindURI(KindGroup))
		if err != nil {
			return nil, fmt.Errorf("error reading groups: %w", err)
		}
		groups, err := asObject(existing, "groups")
		if err != nil {
			return nil, err
		}

		ids := make([]string, 0, len(groups))
		for id := range groups {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return idLess(ids[i], ids[j]) })

		for _, id := range ids {
			fields, _ := groups[id].(map[string]any)
			if name, _ := fields["name"].(string); name == spec.Name {
				client.logger.Warn("Found group with the same name", "id", id, "name", name)
				client.logger.Info("Group not created")
				return groupFromState(client, id, fields), nil
			}
		}
	}

	resp, err := client.request(http.MethodPost, client.kindURI(KindGroup), spec.payload())
	if err != nil {
		return nil, fmt.Errorf("error creating group %q: %w", spec.Name, err)
	}
	id, err := createdID(resp)
	if err != nil {
		return nil, err
	}
	client.logger.Info("Created group", "id", id, "name", spec.Name)

	return NewGroup(client, id)
}

func (g *Group) Name() string {
	return g.stringAttr("name")
}

// Lights returns the ids of the group's member lights.
func (g *Group) Lights() []string {
	v, err := g.Get("lights")
	if err != nil {
		return nil
	}
	switch ids := v.(type) {
	case []string:
		return ids
	case []any:
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			out = append(out, fmt.Sprint(id))
		}
		return out
	}
	return nil
}

// RecallScene activates a scene on the group's lights.
func (g *Group) RecallScene(sceneID string) error {
	return g.Set("scene", sceneID)
}

// Remove deletes the group. Group 0 is the bridge's "all lights" group and is refused.
func (g *Group) Remove() error {
	if g.id == constants.AllLightsGroupID {
		g.client.logger.Error("Can't delete group 0!")
		return ErrReservedGroup
	}
	return g.remove()
}
