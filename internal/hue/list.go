package hue

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"
)

func listResources[T any](client *Client, kind Kind, build func(*Client, string, map[string]any) T) (map[string]T, error) {
	resp, err := client.get(client.kindURI(kind))
	if err != nil {
		return nil, fmt.Errorf("error listing %s: %w", kind, err)
	}
	raw, err := asObject(resp, string(kind))
	if err != nil {
		return nil, err
	}
	return buildAll(client, kind, raw, build), nil
}

func buildAll[T any](client *Client, kind Kind, raw map[string]any, build func(*Client, string, map[string]any) T) map[string]T {
	out := make(map[string]T, len(raw))
	for id, v := range raw {
		fields, ok := v.(map[string]any)
		if !ok {
			client.logger.Warn("Skipping malformed resource", "kind", kind, "id", id)
			continue
		}
		out[id] = build(client, id, fields)
	}
	return out
}

func ListLights(client *Client) (map[string]*Light, error) {
	return listResources(client, KindLight, lightFromState)
}

func ListGroups(client *Client) (map[string]*Group, error) {
	return listResources(client, KindGroup, groupFromState)
}

func ListScenes(client *Client) (map[string]*Scene, error) {
	return listResources(client, KindScene, sceneFromState)
}

func ListSensors(client *Client) (map[string]*Sensor, error) {
	return listResources(client, KindSensor, sensorFromState)
}

func ListRules(client *Client) (map[string]*Rule, error) {
	return listResources(client, KindRule, ruleFromState)
}

func ListSchedules(client *Client) (map[string]*Schedule, error) {
	return listResources(client, KindSchedule, scheduleFromState)
}

// sortedValues orders resources by id, numerically when the ids are numbers.
func sortedValues[T any](m map[string]T) []T {
	ids := lo.Keys(m)
	sort.Slice(ids, func(i, j int) bool { return idLess(ids[i], ids[j]) })
	return lo.Map(ids, func(id string, _ int) T { return m[id] })
}

func idLess(a, b string) bool {
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return ai < bi
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
