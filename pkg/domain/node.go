package domain

// Relationship is a typed edge from a Node to another node ID.
type Relationship struct {
	Type     string         `json:"type"`
	Target   string         `json:"target"`
	Metadata map[string]any `json:"metadata"`
}

// ValidationRule is a declarative rule record. Rules are stored, never evaluated.
type ValidationRule struct {
	RuleType   string   `json:"ruleType"`
	Expression string   `json:"expression"`
	Severity   Severity `json:"severity"`
	Message    string   `json:"message"`
}

// AIInterface records the AI capabilities advertised by a Node.
// Capabilities behaves as an insertion-ordered set.
type AIInterface struct {
	Capabilities []string       `json:"capabilities"`
	Parameters   map[string]any `json:"parameters"`
}

// Node is a self-defining record of a permitting concept.
//
// A Node is owned by a single goroutine at a time; it is not safe for concurrent mutation.
// Every mutator updates Metadata().Modified.
type Node struct {
	id              string
	nodeType        string
	metadata        Metadata
	attributes      map[string]any
	relationships   []Relationship
	validationRules []ValidationRule
	ai              AIInterface
	extensions      map[string]any
}

// NewNode creates a node. Keys in metadata override the defaults, including the
// created and modified timestamps.
func NewNode(id, nodeType string, metadata map[string]any) *Node {
	return &Node{
		id:              id,
		nodeType:        nodeType,
		metadata:        newMetadata(metadata, Now()),
		attributes:      make(map[string]any),
		relationships:   []Relationship{},
		validationRules: []ValidationRule{},
		ai: AIInterface{
			Capabilities: []string{},
			Parameters:   make(map[string]any),
		},
		extensions: make(map[string]any),
	}
}

// NodeOptions is the input of a node creation request.
type NodeOptions struct {
	ID         string         `json:"id" mapstructure:"id"`
	Type       string         `json:"type" mapstructure:"type"`
	Metadata   map[string]any `json:"metadata,omitempty" mapstructure:"metadata"`
	Attributes map[string]any `json:"attributes,omitempty" mapstructure:"attributes"`
}

// Build validates the options and constructs the node, applying attributes in turn.
func (o NodeOptions) Build() (*Node, error) {
	if o.ID == "" {
		return nil, invalidf("node id must be a non-empty string")
	}
	if o.Type == "" {
		return nil, invalidf("node type must be a non-empty string")
	}
	n := NewNode(o.ID, o.Type, o.Metadata)
	for k, v := range o.Attributes {
		n.AddAttribute(k, v)
	}
	return n, nil
}

func (n *Node) ID() string   { return n.id }
func (n *Node) Type() string { return n.nodeType }

// Ref returns the identity pair of the node.
func (n *Node) Ref() NodeRef {
	return NodeRef{ID: n.id, Type: n.nodeType}
}

// Metadata returns a copy of the node metadata.
func (n *Node) Metadata() Metadata {
	return n.metadata.clone()
}

// Attributes returns a copy of the attribute map.
func (n *Node) Attributes() map[string]any {
	return copyMap(n.attributes)
}

// Relationships returns a copy of the relationships in insertion order.
func (n *Node) Relationships() []Relationship {
	out := make([]Relationship, len(n.relationships))
	for i, r := range n.relationships {
		r.Metadata = copyMap(r.Metadata)
		out[i] = r
	}
	return out
}

// ValidationRules returns a copy of the rules in insertion order.
func (n *Node) ValidationRules() []ValidationRule {
	return append([]ValidationRule{}, n.validationRules...)
}

// AIInterface returns a copy of the AI interface.
func (n *Node) AIInterface() AIInterface {
	return AIInterface{
		Capabilities: append([]string{}, n.ai.Capabilities...),
		Parameters:   copyMap(n.ai.Parameters),
	}
}

// Extensions returns a copy of the extension map.
func (n *Node) Extensions() map[string]any {
	return copyMap(n.extensions)
}

// HasRelationship reports whether an edge with the same type and target exists.
func (n *Node) HasRelationship(relType, target string) bool {
	for _, r := range n.relationships {
		if r.Type == relType && r.Target == target {
			return true
		}
	}
	return false
}

// AddAttribute sets key to value, replacing any previous value.
func (n *Node) AddAttribute(key string, value any) *Node {
	n.attributes[key] = value
	n.touch()
	return n
}

// AddRelationship appends an edge. Adding an existing (type, target) pair is a no-op.
func (n *Node) AddRelationship(relType, target string, metadata map[string]any) error {
	if relType == "" {
		return invalidf("relationship type must be a non-empty string")
	}
	if target == "" {
		return invalidf("relationship target must be a non-empty string")
	}
	if n.HasRelationship(relType, target) {
		return nil
	}
	if metadata == nil {
		metadata = make(map[string]any)
	}
	n.relationships = append(n.relationships, Relationship{
		Type:     relType,
		Target:   target,
		Metadata: metadata,
	})
	n.touch()
	return nil
}

// AddValidationRule appends a rule. An empty severity means SeverityError.
func (n *Node) AddValidationRule(ruleType, expression string, severity Severity, message string) *Node {
	if severity == "" {
		severity = SeverityError
	}
	n.validationRules = append(n.validationRules, ValidationRule{
		RuleType:   ruleType,
		Expression: expression,
		Severity:   severity,
		Message:    message,
	})
	n.touch()
	return n
}

// AddAICapability adds capability to the set if absent and always merges parameters.
func (n *Node) AddAICapability(capability string, parameters map[string]any) *Node {
	found := false
	for _, c := range n.ai.Capabilities {
		if c == capability {
			found = true
			break
		}
	}
	if !found {
		n.ai.Capabilities = append(n.ai.Capabilities, capability)
	}
	for k, v := range parameters {
		n.ai.Parameters[k] = v
	}
	n.touch()
	return n
}

// SetAIParameters merges parameters into the AI interface when it is a non-nil
// map[string]any. Any other value is ignored.
func (n *Node) SetAIParameters(parameters any) *Node {
	params, ok := parameters.(map[string]any)
	if !ok || params == nil {
		return n
	}
	for k, v := range params {
		n.ai.Parameters[k] = v
	}
	n.touch()
	return n
}

// AddExtension stores data under namespace, replacing any previous data.
func (n *Node) AddExtension(namespace string, data any) *Node {
	n.extensions[namespace] = data
	n.touch()
	return n
}

// touch advances Modified. It never moves it backwards.
func (n *Node) touch() {
	now := Now()
	if now.After(n.metadata.Modified) {
		n.metadata.Modified = now
	}
	delete(n.metadata.verbatim, "modified")
}

// restoreTimestamps puts back the created and modified values of saved, verbatim
// input included.
func (n *Node) restoreTimestamps(saved Metadata) {
	n.metadata.Created = saved.Created
	n.metadata.Modified = saved.Modified
	for _, k := range []string{"created", "modified"} {
		if v, ok := saved.verbatim[k]; ok {
			n.metadata.keep(k, v)
		}
	}
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
