package hue

import (
	"fmt"
	"net/http"

	"github.com/wheelibin/phuey/internal/constants"
)

var sceneSpec = &kindSpec{
	kind:   KindScene,
	idAttr: "scene_id",
	attrs: map[string]attribute{
		"name":        selfAttr,
		"lights":      selfAttr,
		"scene_id":    readAttr,
		"type":        readAttr,
		"group":       readAttr,
		"owner":       readAttr,
		"recycle":     readAttr,
		"locked":      readAttr,
		"appdata":     readAttr,
		"picture":     readAttr,
		"lastupdated": readAttr,
		"version":     readAttr,
	},
	format: formatScene,
}

// Scene is a stored set of light states.
type Scene struct {
	*proxy
}

// NewScene reads the scene with the given id from the bridge.
func NewScene(client *Client, id string) (*Scene, error) {
	s := newScene(client, id)
	if err := s.Refresh(); err != nil {
		return nil, fmt.Errorf("error reading scene %s: %w", id, err)
	}
	return s, nil
}

func newScene(client *Client, id string) *Scene {
	return &Scene{newProxy(client, sceneSpec, id, client.resourceURI(KindScene, id))}
}

func sceneFromState(client *Client, id string, raw map[string]any) *Scene {
	s := newScene(client, id)
	s.load(raw)
	return s
}

func (s *Scene) Name() string {
	return s.stringAttr("name")
}

// Group returns the id of the group the scene belongs to, empty for light scenes.
func (s *Scene) Group() string {
	return s.stringAttr("group")
}

// Recall activates the scene through its group, or group 0 when it has none.
func (s *Scene) Recall() error {
	groupID := s.Group()
	if groupID == "" {
		groupID = constants.AllLightsGroupID
	}
	uri := s.client.resourceURI(KindGroup, groupID) + "/" + constants.SubResourceAction
	_, err := s.client.request(http.MethodPut, uri, map[string]any{"scene": s.id})
	if err != nil {
		return fmt.Errorf("error recalling scene %s: %w", s.id, err)
	}
	s.client.logger.Info("Recalled scene", "id", s.id, "group", groupID)
	return nil
}

func (s *Scene) Remove() error {
	return s.remove()
}
