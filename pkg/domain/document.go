package domain

import (
	"encoding/json"
	"fmt"
)

// Document is the canonical linked-data form of a Node.
type Document struct {
	Context         string           `json:"@context"`
	ID              string           `json:"@id"`
	Type            string           `json:"@type"`
	Metadata        Metadata         `json:"metadata"`
	Attributes      map[string]any   `json:"attributes"`
	Relationships   []Relationship   `json:"relationships"`
	ValidationRules []ValidationRule `json:"validationRules"`
	AIInterface     AIInterface      `json:"aiInterface"`
	Extensions      map[string]any   `json:"extensions"`
}

// Serialize returns the canonical document of the node.
func (n *Node) Serialize() Document {
	return Document{
		Context:         SchemaContext,
		ID:              n.id,
		Type:            n.nodeType,
		Metadata:        n.Metadata(),
		Attributes:      n.Attributes(),
		Relationships:   n.Relationships(),
		ValidationRules: n.ValidationRules(),
		AIInterface:     n.AIInterface(),
		Extensions:      n.Extensions(),
	}
}

// Map converts the document into the generic shape produced by decoding its JSON.
func (d Document) Map() map[string]any {
	rels := make([]any, len(d.Relationships))
	for i, r := range d.Relationships {
		rels[i] = map[string]any{
			"type":     r.Type,
			"target":   r.Target,
			"metadata": r.Metadata,
		}
	}
	rules := make([]any, len(d.ValidationRules))
	for i, r := range d.ValidationRules {
		rules[i] = map[string]any{
			"ruleType":   r.RuleType,
			"expression": r.Expression,
			"severity":   string(r.Severity),
			"message":    r.Message,
		}
	}
	caps := make([]any, len(d.AIInterface.Capabilities))
	for i, c := range d.AIInterface.Capabilities {
		caps[i] = c
	}
	return map[string]any{
		"@context":        d.Context,
		"@id":             d.ID,
		"@type":           d.Type,
		"metadata":        d.Metadata.Map(),
		"attributes":      d.Attributes,
		"relationships":   rels,
		"validationRules": rules,
		"aiInterface": map[string]any{
			"capabilities": caps,
			"parameters":   d.AIInterface.Parameters,
		},
		"extensions": d.Extensions,
	}
}

// ParseNode decodes JSON bytes and deserializes the node they describe.
func ParseNode(data []byte) (*Node, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, invalidf("node JSON must be an object")
	}
	return Deserialize(obj)
}

// Deserialize rebuilds a Node from its canonical (or plain id/type) form.
//
// Content is replayed through the node's own mutators in input order. Malformed
// relationship and rule entries are skipped. The original created and modified
// timestamps are restored afterwards.
func Deserialize(raw map[string]any) (*Node, error) {
	if raw == nil {
		return nil, invalidf("node JSON must be an object")
	}
	id, ok := resolveKey(raw, "@id", "id")
	if !ok {
		return nil, invalidf("node JSON must include string id and type")
	}
	nodeType, ok := resolveKey(raw, "@type", "type")
	if !ok {
		return nil, invalidf("node JSON must include string id and type")
	}

	meta, _ := raw["metadata"].(map[string]any)
	n := NewNode(id, nodeType, meta)
	saved := n.metadata.clone()

	if attrs, ok := raw["attributes"].(map[string]any); ok {
		for k, v := range attrs {
			n.AddAttribute(k, v)
		}
	}

	for _, rel := range objects(raw["relationships"]) {
		relType, typeOK := rel["type"].(string)
		target, targetOK := rel["target"].(string)
		if !typeOK || !targetOK {
			continue
		}
		relMeta, _ := rel["metadata"].(map[string]any)
		if err := n.AddRelationship(relType, target, relMeta); err != nil {
			continue
		}
	}

	for _, rule := range objects(raw["validationRules"]) {
		n.AddValidationRule(
			stringField(rule, "ruleType"),
			stringField(rule, "expression"),
			Severity(stringField(rule, "severity")),
			stringField(rule, "message"),
		)
	}

	if ai, ok := raw["aiInterface"].(map[string]any); ok {
		params, _ := ai["parameters"].(map[string]any)
		caps := values(ai["capabilities"])
		if len(caps) > 0 {
			// Only the first capability carries the parameters.
			for i, c := range caps {
				capability, ok := c.(string)
				if !ok {
					continue
				}
				p := map[string]any{}
				if i == 0 {
					p = params
				}
				n.AddAICapability(capability, p)
			}
		} else if len(params) > 0 {
			n.SetAIParameters(params)
		}
	}

	if exts, ok := raw["extensions"].(map[string]any); ok {
		for ns, data := range exts {
			n.AddExtension(ns, data)
		}
	}

	n.restoreTimestamps(saved)
	return n, nil
}

// resolveKey returns the first non-empty string stored under keys, skipping keys that
// are absent or hold an empty value. A key holding any other non-string value fails
// the lookup instead of falling through to the next key.
// An empty string is accepted only when no key holds a non-empty one.
func resolveKey(raw map[string]any, keys ...string) (string, bool) {
	found := false
	for _, k := range keys {
		v := raw[k]
		if s, ok := v.(string); ok {
			if s != "" {
				return s, true
			}
			found = true
			continue
		}
		if !empty(v) {
			return "", false
		}
	}
	return "", found
}

// empty reports whether v is nil, "", false or a numeric zero.
func empty(v any) bool {
	switch v := v.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	case int:
		return v == 0
	case int64:
		return v == 0
	}
	return false
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func values(v any) []any {
	switch list := v.(type) {
	case []any:
		return list
	case []string:
		out := make([]any, len(list))
		for i, s := range list {
			out[i] = s
		}
		return out
	}
	return nil
}

func objects(v any) []map[string]any {
	switch list := v.(type) {
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	case []map[string]any:
		return list
	}
	return nil
}

// NodeRef is the identity pair of a node.
type NodeRef struct {
	ID   string `json:"id" mapstructure:"id"`
	Type string `json:"type" mapstructure:"type"`
}

// NodeInput holds either a live Node or its canonical JSON form.
type NodeInput struct {
	node *Node
	raw  map[string]any
}

// NodeValue wraps a live node.
func NodeValue(n *Node) NodeInput {
	return NodeInput{node: n}
}

// NodeJSON wraps the decoded JSON form of a node.
func NodeJSON(raw map[string]any) NodeInput {
	return NodeInput{raw: raw}
}

// Resolve returns the node, deserializing the JSON form when needed.
func (in NodeInput) Resolve() (*Node, error) {
	if in.node != nil {
		return in.node, nil
	}
	return Deserialize(in.raw)
}

// Canonical returns the generic JSON shape suitable for the wire.
func (in NodeInput) Canonical() (map[string]any, error) {
	if in.node != nil {
		return in.node.Serialize().Map(), nil
	}
	if in.raw == nil {
		return nil, invalidf("node input is empty")
	}
	return in.raw, nil
}
