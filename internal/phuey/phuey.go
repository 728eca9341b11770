package phuey

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/wheelibin/phuey/internal/command"
	"github.com/wheelibin/phuey/internal/concurrency"
	"github.com/wheelibin/phuey/internal/config"
	"github.com/wheelibin/phuey/internal/constants"
	"github.com/wheelibin/phuey/internal/hue"
	"github.com/wheelibin/phuey/internal/presets"
	"github.com/wheelibin/phuey/internal/schedule"
	"github.com/wheelibin/phuey/internal/tui"
)

var (
	ErrNothingToDo   = errors.New("nothing to do, pass --list, --command, --preset, --scene, --find-lights or --authorize")
	ErrNoTarget      = errors.New("a light command needs --light or --group")
	ErrNoCredential  = errors.New("no username configured, run with --authorize first")
	ErrUnknownTarget = errors.New("unknown light, group or scene")
)

// Options are the actions requested for one run.
type Options struct {
	Authorize  bool
	List       bool
	FindLights bool
	// light ids or names
	Lights  []string
	Group   string
	Scene   string
	Command string
	Preset  string
	// sunrise/sunset with an optional offset; schedules the command instead of sending it
	At string
}

type Phuey struct {
	logger        *log.Logger
	cfg           *config.Config
	out           io.Writer
	now           func() time.Time
	tz            *time.Location
	clientOptions []hue.Option
}

type Option func(*Phuey)

func WithClientOptions(opts ...hue.Option) Option {
	return func(p *Phuey) { p.clientOptions = append(p.clientOptions, opts...) }
}

// WithClock fixes the current time and time zone used for schedules.
func WithClock(now func() time.Time, tz *time.Location) Option {
	return func(p *Phuey) {
		p.now = now
		p.tz = tz
	}
}

func NewPhuey(logger *log.Logger, cfg *config.Config, out io.Writer, opts ...Option) *Phuey {
	p := &Phuey{
		logger: logger,
		cfg:    cfg,
		out:    out,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Phuey) Run(o Options) error {
	p.logger.Debug("Phuey.Run", "options", o)

	addr, err := hue.ParseAddress(p.cfg.BridgeIP)
	if err != nil {
		return fmt.Errorf("no usable bridge address, set --bridge or bridgeIp: %w", err)
	}
	clientOptions := p.clientOptions
	if p.cfg.Timeout > 0 {
		clientOptions = append([]hue.Option{hue.WithTimeout(p.cfg.Timeout)}, clientOptions...)
	}
	client := hue.NewClient(p.logger, addr, p.cfg.Username, clientOptions...)

	if o.Authorize {
		return p.authorize(client)
	}
	if p.cfg.Username == "" {
		return ErrNoCredential
	}

	bridge, err := hue.NewBridge(client)
	if err != nil {
		return err
	}

	state, err := p.state(o)
	if err != nil {
		return err
	}

	done := false
	if o.FindLights {
		msg, err := bridge.FindNewLights()
		if err != nil {
			return err
		}
		fmt.Fprintln(p.out, msg)
		done = true
	}

	if o.Scene != "" {
		if err := p.recallScene(bridge, o.Scene); err != nil {
			return err
		}
		done = true
	}

	if state != nil {
		if o.At != "" {
			err = p.schedule(bridge, o, state)
		} else {
			err = p.apply(bridge, o, state)
		}
		if err != nil {
			return err
		}
		done = true
	}

	if o.List {
		fmt.Fprint(p.out, tui.Bridge(bridge))
		done = true
	}

	if !done {
		return ErrNothingToDo
	}
	return nil
}

func (p *Phuey) authorize(client *hue.Client) error {
	bridge, err := hue.AuthorizeBridge(client, p.cfg.DeviceType)
	if errors.Is(err, hue.ErrAuthorizationRequired) {
		p.logger.Warn("Press the link button on the bridge, then run again within 30 seconds")
	}
	if err != nil {
		return err
	}

	p.logger.Info("Authorized", "bridge", bridge.Name())
	fmt.Fprintf(p.out, "Authorized with %s\nusername: %s\n", bridge, bridge.Credential())
	return nil
}

// state layers the command over the preset.
func (p *Phuey) state(o Options) (hue.AttributeSet, error) {
	var sets []hue.AttributeSet

	if o.Preset != "" {
		if p.cfg.PresetsFile == "" {
			return nil, fmt.Errorf("preset %q requested but no presets file is configured", o.Preset)
		}
		ps, err := presets.Load(p.cfg.PresetsFile)
		if err != nil {
			return nil, err
		}
		preset, err := ps.Get(o.Preset)
		if err != nil {
			return nil, err
		}
		sets = append(sets, preset)
	}

	if o.Command != "" {
		cmd, err := command.Parse(o.Command)
		if err != nil {
			return nil, err
		}
		sets = append(sets, cmd)
	}

	if len(sets) == 0 {
		return nil, nil
	}
	return command.Merge(sets...), nil
}

func (p *Phuey) group(bridge *hue.Bridge, id string) (*hue.Group, error) {
	if g, ok := bridge.Group(id); ok {
		return g, nil
	}
	// group 0 is never listed in the bridge state
	g, err := hue.NewGroup(bridge.Client(), id)
	if err != nil {
		return nil, fmt.Errorf("%w: group %s: %w", ErrUnknownTarget, id, err)
	}
	return g, nil
}

func (p *Phuey) lights(bridge *hue.Bridge, refs []string) (map[string]*hue.Light, []string, error) {
	byID := map[string]*hue.Light{}
	var ids []string
	for _, ref := range refs {
		l, ok := bridge.Light(ref)
		if !ok {
			l, ok = bridge.LightByName(ref)
		}
		if !ok {
			return nil, nil, fmt.Errorf("%w: light %q", ErrUnknownTarget, ref)
		}
		if _, seen := byID[l.ID()]; !seen {
			ids = append(ids, l.ID())
		}
		byID[l.ID()] = l
	}
	return byID, ids, nil
}

func (p *Phuey) apply(bridge *hue.Bridge, o Options, state hue.AttributeSet) error {
	if o.Group != "" {
		g, err := p.group(bridge, o.Group)
		if err != nil {
			return err
		}
		if err := g.Update(state); err != nil {
			return err
		}
		p.logger.Info("Updated group", "group", g.Name(), "state", state)
		return nil
	}

	if len(o.Lights) == 0 {
		return ErrNoTarget
	}
	byID, ids, err := p.lights(bridge, o.Lights)
	if err != nil {
		return err
	}

	worker := concurrency.NewThrottledWorker(constants.ThrottleInterval, func(id string) error {
		l := byID[id]
		if err := l.Update(state); err != nil {
			return err
		}
		p.logger.Info("Updated light", "light", l.Name(), "state", state)
		return nil
	})
	return worker.Run(ids)
}

func (p *Phuey) schedule(bridge *hue.Bridge, o Options, state hue.AttributeSet) error {
	at, err := schedule.ParseAt(o.At)
	if err != nil {
		return err
	}
	geo, err := schedule.ParseGeoLocation(p.cfg.GeoLocation)
	if err != nil {
		return fmt.Errorf("scheduling at %s needs geoLocation: %w", at, err)
	}
	planner := schedule.NewPlanner(p.logger, geo, schedule.Bounds{
		SunriseMin: p.cfg.SunriseMin,
		SunriseMax: p.cfg.SunriseMax,
		SunsetMin:  p.cfg.SunsetMin,
		SunsetMax:  p.cfg.SunsetMax,
	}, p.tz)

	next, err := planner.Next(at, p.now())
	if err != nil {
		return err
	}
	localTime := planner.BridgeLocalTime(next)
	client := bridge.Client()

	create := func(cmd hue.ScheduleCommand) error {
		s, err := hue.CreateSchedule(client, hue.ScheduleSpec{
			Name:        fmt.Sprintf("phuey %s", at),
			Description: fmt.Sprintf("set by phuey at %s", at),
			Command:     cmd,
			LocalTime:   localTime,
			AutoDelete:  true,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(p.out, "Scheduled %s\n", s)
		return nil
	}

	if o.Group != "" {
		g, err := p.group(bridge, o.Group)
		if err != nil {
			return err
		}
		return create(hue.GroupActionCommand(client, g.ID(), state))
	}

	if len(o.Lights) == 0 {
		return ErrNoTarget
	}
	_, ids, err := p.lights(bridge, o.Lights)
	if err != nil {
		return err
	}
	worker := concurrency.NewThrottledWorker(constants.ThrottleInterval, func(id string) error {
		return create(hue.LightStateCommand(client, id, state))
	})
	return worker.Run(ids)
}

func (p *Phuey) recallScene(bridge *hue.Bridge, ref string) error {
	scene, ok := bridge.Scene(ref)
	if !ok {
		for _, s := range bridge.Scenes() {
			if s.Name() == ref {
				scene, ok = s, true
				break
			}
		}
	}
	if !ok {
		return fmt.Errorf("%w: scene %q", ErrUnknownTarget, ref)
	}
	return scene.Recall()
}
