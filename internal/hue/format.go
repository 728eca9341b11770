package hue

import (
	"fmt"
	"strings"
)

func formatLight(p *proxy) string {
	return fmt.Sprintf("Light id: %s name: %s currently on: %t", p.id, p.stringAttr("name"), p.boolAttr("on"))
}

func formatGroup(p *proxy) string {
	lights := (&Group{controls{p}}).Lights()
	return fmt.Sprintf("Group id: %s name: %s lights: [%s]", p.id, p.stringAttr("name"), strings.Join(lights, ","))
}

func formatScene(p *proxy) string {
	return fmt.Sprintf("Scene id: %s name: %s", p.id, p.stringAttr("name"))
}

func formatSensor(p *proxy) string {
	return fmt.Sprintf("Sensor id: %s name: %s type: %s", p.id, p.stringAttr("name"), p.stringAttr("type"))
}

func formatRule(p *proxy) string {
	return fmt.Sprintf("Rule id: %s name: %s status: %s", p.id, p.stringAttr("name"), p.stringAttr("status"))
}

func formatSchedule(p *proxy) string {
	return fmt.Sprintf("Schedule id: %s name: %s at: %s", p.id, p.stringAttr("name"), p.stringAttr("localtime"))
}
