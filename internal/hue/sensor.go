package hue

import (
	"fmt"

	"github.com/wheelibin/phuey/internal/constants"
)

var sensorSpec = &kindSpec{
	kind:   KindSensor,
	bundle: constants.SubResourceConfig,
	idAttr: "sensor_id",
	attrs: map[string]attribute{
		"name":             selfAttr,
		"sensor_id":        readAttr,
		"state":            readAttr,
		"type":             readAttr,
		"modelid":          readAttr,
		"manufacturername": readAttr,
		"productname":      readAttr,
		"uniqueid":         readAttr,
		"swversion":        readAttr,
		"recycle":          readAttr,
	},
	format: formatSensor,
}

// Sensor is a switch, motion sensor, daylight sensor or CLIP sensor. Its
// config is kept nested and written as a whole with Set("config", ...).
type Sensor struct {
	*proxy
}

// NewSensor reads the sensor with the given id from the bridge.
func NewSensor(client *Client, id string) (*Sensor, error) {
	s := newSensor(client, id)
	if err := s.Refresh(); err != nil {
		return nil, fmt.Errorf("error reading sensor %s: %w", id, err)
	}
	return s, nil
}

func newSensor(client *Client, id string) *Sensor {
	return &Sensor{newProxy(client, sensorSpec, id, client.resourceURI(KindSensor, id))}
}

func sensorFromState(client *Client, id string, raw map[string]any) *Sensor {
	s := newSensor(client, id)
	s.load(raw)
	return s
}

func (s *Sensor) Name() string {
	return s.stringAttr("name")
}

func (s *Sensor) Type() string {
	return s.stringAttr("type")
}

func (s *Sensor) Remove() error {
	return s.remove()
}
