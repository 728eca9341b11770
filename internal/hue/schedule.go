package hue

import (
	"fmt"
	"net/http"
)

var scheduleSpec = &kindSpec{
	kind:   KindSchedule,
	idAttr: "schedule_id",
	attrs: map[string]attribute{
		"name":        selfAttr,
		"description": selfAttr,
		"command":     selfAttr,
		"localtime":   selfAttr,
		"status":      selfAttr,
		"autodelete":  selfAttr,
		"schedule_id": readAttr,
		"time":        readAttr,
		"created":     readAttr,
		"starttime":   readAttr,
		"recycle":     readAttr,
	},
	format: formatSchedule,
}

// Schedule fires a bridge API command at a given local time.
type Schedule struct {
	*proxy
}

// ScheduleCommand is the request the bridge performs when a schedule fires.
type ScheduleCommand struct {
	Address string         `json:"address"`
	Method  string         `json:"method"`
	Body    map[string]any `json:"body"`
}

// ScheduleSpec describes a schedule to create.
type ScheduleSpec struct {
	Name        string
	Description string
	Command     ScheduleCommand
	// bridge local time, e.g. 2024-01-31T17:45:00
	LocalTime  string
	AutoDelete bool
}

func (s ScheduleSpec) payload() map[string]any {
	payload := map[string]any{
		"name":       s.Name,
		"command":    s.Command,
		"localtime":  s.LocalTime,
		"autodelete": s.AutoDelete,
	}
	if s.Description != "" {
		payload["description"] = s.Description
	}
	return payload
}

// NewSchedule reads the schedule with the given id from the bridge.
func NewSchedule(client *Client, id string) (*Schedule, error) {
	s := newSchedule(client, id)
	if err := s.Refresh(); err != nil {
		return nil, fmt.Errorf("error reading schedule %s: %w", id, err)
	}
	return s, nil
}

func newSchedule(client *Client, id string) *Schedule {
	return &Schedule{newProxy(client, scheduleSpec, id, client.resourceURI(KindSchedule, id))}
}

func scheduleFromState(client *Client, id string, raw map[string]any) *Schedule {
	s := newSchedule(client, id)
	s.load(raw)
	return s
}

// CreateSchedule creates a schedule on the bridge and reads it back.
func CreateSchedule(client *Client, spec ScheduleSpec) (*Schedule, error) {
	if spec.LocalTime == "" || spec.Command.Address == "" {
		return nil, fmt.Errorf("%w: a schedule needs a local time and a command", ErrInvalidPayload)
	}

	resp, err := client.request(http.MethodPost, client.kindURI(KindSchedule), spec.payload())
	if err != nil {
		return nil, fmt.Errorf("error creating schedule %q: %w", spec.Name, err)
	}
	id, err := createdID(resp)
	if err != nil {
		return nil, err
	}
	client.logger.Info("Created schedule", "id", id, "name", spec.Name, "localtime", spec.LocalTime)

	return NewSchedule(client, id)
}

// LightStateCommand builds the schedule command that writes state to a light.
func LightStateCommand(client *Client, lightID string, state AttributeSet) ScheduleCommand {
	return ScheduleCommand{
		Address: client.resourceURI(KindLight, lightID) + "/" + lightSpec.bundle,
		Method:  http.MethodPut,
		Body:    state,
	}
}

// GroupActionCommand builds the schedule command that writes an action to a group.
func GroupActionCommand(client *Client, groupID string, action AttributeSet) ScheduleCommand {
	return ScheduleCommand{
		Address: client.resourceURI(KindGroup, groupID) + "/" + groupSpec.bundle,
		Method:  http.MethodPut,
		Body:    action,
	}
}

func (s *Schedule) Name() string {
	return s.stringAttr("name")
}

func (s *Schedule) LocalTime() string {
	return s.stringAttr("localtime")
}

func (s *Schedule) Remove() error {
	return s.remove()
}
