package domain

// Issue is a single finding of a validation pass.
type Issue struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult is produced fresh by every validation call; it is not stored on the node.
type ValidationResult struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors"`
	Warnings []Issue `json:"warnings"`
	Info     []Issue `json:"info"`
}

// NewValidationResult returns a passing result with empty issue lists.
func NewValidationResult() ValidationResult {
	return ValidationResult{
		Valid:    true,
		Errors:   []Issue{},
		Warnings: []Issue{},
		Info:     []Issue{},
	}
}

// AddError records an error and marks the result invalid.
func (r *ValidationResult) AddError(code, message string) {
	r.Valid = false
	r.Errors = append(r.Errors, Issue{Code: code, Message: message})
}

// CheckRequired verifies the structural requirements of a node: a non-empty id and type.
// Validation rules attached to the node are not evaluated.
func CheckRequired(n *Node) ValidationResult {
	res := NewValidationResult()
	if n.ID() == "" {
		res.AddError(CodeMissingID, "Node ID is required")
	}
	if n.Type() == "" {
		res.AddError(CodeMissingType, "Node type is required")
	}
	return res
}

// ValidateDocument checks the decoded JSON form of a node.
//
// An absent or empty id or type is reported as a validation error rather than a
// decoding failure. Present but non-string values are still invalid arguments.
func ValidateDocument(raw map[string]any) (ValidationResult, error) {
	if raw == nil {
		return ValidationResult{}, invalidf("node JSON must be an object")
	}
	doc, copied := raw, false
	for _, keys := range [][2]string{{"@id", "id"}, {"@type", "type"}} {
		if !empty(raw[keys[0]]) || !empty(raw[keys[1]]) {
			continue
		}
		if !copied {
			doc, copied = copyMap(raw), true
		}
		doc[keys[1]] = ""
	}
	n, err := Deserialize(doc)
	if err != nil {
		return ValidationResult{}, err
	}
	return CheckRequired(n), nil
}
