package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/wheelibin/phuey/internal/hue"
)

const backgroundColor = "#011922"
const headerBackgroundColor = "#1e7ba0"

var (
	baseStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color(headerBackgroundColor)).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(headerBackgroundColor))

	cellStyle = lipgloss.NewStyle().PaddingRight(2)
)

// attributed is any bridge resource with cached attributes.
type attributed interface {
	ID() string
	Get(name string) (any, error)
}

func attr(r attributed, name string) string {
	v, err := r.Get(name)
	if err != nil || v == nil {
		return "-"
	}
	if s, ok := v.([]any); ok {
		return strings.Join(lo.Map(s, func(item any, _ int) string { return fmt.Sprint(item) }), ",")
	}
	return fmt.Sprint(v)
}

func rows[T attributed](resources []T, columns ...string) [][]string {
	return lo.Map(resources, func(r T, _ int) []string {
		row := []string{r.ID()}
		for _, c := range columns {
			row = append(row, attr(r, c))
		}
		return row
	})
}

// Table renders a titled table, one column per header.
func Table(title string, headers []string, rows [][]string) string {
	widths := lo.Map(headers, func(h string, _ int) int { return lipgloss.Width(h) })
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	line := func(cells []string, style lipgloss.Style) string {
		rendered := make([]string, 0, len(cells))
		for i, cell := range cells {
			if i >= len(widths) {
				break
			}
			rendered = append(rendered, cellStyle.Render(style.Copy().Width(widths[i]).Render(cell)))
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
	}

	lines := []string{line(headers, headerStyle)}
	for _, row := range rows {
		lines = append(lines, line(row, lipgloss.NewStyle()))
	}
	if len(rows) == 0 {
		lines = append(lines, "none")
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(title),
		baseStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...)),
	)
}

func Lights(lights []*hue.Light) string {
	return Table("Lights", []string{"Id", "Light", "Reachable", "On", "Brightness", "Temperature"},
		rows(lights, "name", "reachable", "on", "bri", "ct"))
}

func Groups(groups []*hue.Group) string {
	return Table("Groups", []string{"Id", "Group", "Type", "Lights", "On"},
		rows(groups, "name", "type", "lights", "on"))
}

func Scenes(scenes []*hue.Scene) string {
	return Table("Scenes", []string{"Id", "Scene", "Group", "Lights"},
		rows(scenes, "name", "group", "lights"))
}

func Sensors(sensors []*hue.Sensor) string {
	return Table("Sensors", []string{"Id", "Sensor", "Type"},
		rows(sensors, "name", "type"))
}

func Rules(rules []*hue.Rule) string {
	return Table("Rules", []string{"Id", "Rule", "Status"},
		rows(rules, "name", "status"))
}

func Schedules(schedules []*hue.Schedule) string {
	return Table("Schedules", []string{"Id", "Schedule", "Local time", "Status"},
		rows(schedules, "name", "localtime", "status"))
}

// Bridge renders everything the bridge reported.
func Bridge(b *hue.Bridge) string {
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Copy().Background(lipgloss.Color(backgroundColor)).Render(b.String()),
		Lights(b.Lights()),
		Groups(b.Groups()),
		Scenes(b.Scenes()),
		Sensors(b.Sensors()),
		Rules(b.Rules()),
		Schedules(b.Schedules()),
	) + "\n"
}
