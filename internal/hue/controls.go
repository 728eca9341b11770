package hue

// controls are the typed setters shared by lights and groups. Each one is a
// single attribute write routed by the kind's attribute table.
type controls struct {
	*proxy
}

func (c controls) SetOn(on bool) error {
	return c.Set("on", on)
}

// SetBrightness takes 1-254.
func (c controls) SetBrightness(bri int) error {
	return c.Set("bri", bri)
}

// SetHue takes 0-65535.
func (c controls) SetHue(hue int) error {
	return c.Set("hue", hue)
}

// SetSaturation takes 0-254.
func (c controls) SetSaturation(sat int) error {
	return c.Set("sat", sat)
}

// SetXY takes CIE 1931 color coordinates.
func (c controls) SetXY(x, y float64) error {
	return c.Set("xy", []float64{x, y})
}

// SetColorTemp takes a temperature in mirek (153-500).
func (c controls) SetColorTemp(ct int) error {
	return c.Set("ct", ct)
}

// SetAlert takes "none", "select" or "lselect".
func (c controls) SetAlert(alert string) error {
	return c.Set("alert", alert)
}

// SetEffect takes "none" or "colorloop".
func (c controls) SetEffect(effect string) error {
	return c.Set("effect", effect)
}

// SetTransitionTime takes multiples of 100ms.
func (c controls) SetTransitionTime(tt int) error {
	return c.Set("transitiontime", tt)
}

func (c controls) SetName(name string) error {
	return c.Set("name", name)
}

// XY returns the cached color coordinates.
func (c controls) XY() (x, y float64, ok bool) {
	v, err := c.Get("xy")
	if err != nil {
		return 0, 0, false
	}
	switch xy := v.(type) {
	case []float64:
		if len(xy) == 2 {
			return xy[0], xy[1], true
		}
	case []any:
		if len(xy) == 2 {
			x, okX := toFloat(xy[0])
			y, okY := toFloat(xy[1])
			return x, y, okX && okY
		}
	}
	return 0, 0, false
}

func (p *proxy) stringAttr(name string) string {
	v, err := p.Get(name)
	if err != nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (p *proxy) boolAttr(name string) bool {
	v, err := p.Get(name)
	if err != nil {
		return false
	}
	b, _ := v.(bool)
	return b
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
