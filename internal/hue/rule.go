package hue

import (
	"fmt"
)

var ruleSpec = &kindSpec{
	kind:   KindRule,
	idAttr: "rule_id",
	attrs: map[string]attribute{
		"name":           selfAttr,
		"status":         selfAttr,
		"conditions":     selfAttr,
		"actions":        selfAttr,
		"rule_id":        readAttr,
		"owner":          readAttr,
		"created":        readAttr,
		"lasttriggered":  readAttr,
		"timestriggered": readAttr,
		"recycle":        readAttr,
	},
	format: formatRule,
}

type Rule struct {
	*proxy
}

// NewRule reads the rule with the given id from the bridge.
func NewRule(client *Client, id string) (*Rule, error) {
	r := newRule(client, id)
	if err := r.Refresh(); err != nil {
		return nil, fmt.Errorf("error reading rule %s: %w", id, err)
	}
	return r, nil
}

func newRule(client *Client, id string) *Rule {
	return &Rule{newProxy(client, ruleSpec, id, client.resourceURI(KindRule, id))}
}

func ruleFromState(client *Client, id string, raw map[string]any) *Rule {
	r := newRule(client, id)
	r.load(raw)
	return r
}

func (r *Rule) Name() string {
	return r.stringAttr("name")
}

func (r *Rule) Remove() error {
	return r.remove()
}
