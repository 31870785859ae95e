package domain

// SchemaContext is the linked-data context attached to every canonical Node document.
const SchemaContext = "https://openpermit.org/schemas/node/v1"

// Node type identifiers.
const (
	NodeTypeStandard    = "StandardNode"
	NodeTypeComponent   = "ComponentNode"
	NodeTypeRequirement = "RequirementNode"
	NodeTypeProperty    = "PropertyNode"
	NodeTypeProcess     = "ProcessNode"
	NodeTypeActor       = "ActorNode"
	NodeTypeDocument    = "DocumentNode"
	NodeTypeValidation  = "ValidationNode"
)

// Relationship types.
const (
	RelationshipImplements = "implements"
	RelationshipReferences = "references"
	RelationshipContains   = "contains"
	RelationshipValidates  = "validates"
	RelationshipRequires   = "requires"
	RelationshipEquivalent = "equivalent"
	RelationshipDerives    = "derives"
	RelationshipConnects   = "connects"
)

// Validation rule types.
const (
	RuleTypeRequirement = "requirement"
	RuleTypeConstraint  = "constraint"
	RuleTypeConsistency = "consistency"
	RuleTypeFormat      = "format"
	RuleTypeReference   = "reference"
)

// Severity ranks a validation rule.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// AI capability identifiers.
const (
	CapabilityValidation         = "validation"
	CapabilityRecommendation     = "recommendation"
	CapabilityExplanation        = "explanation"
	CapabilityInference          = "inference"
	CapabilityConflictResolution = "conflictResolution"
	CapabilityUncertainty        = "uncertaintyManagement"
	CapabilityLearning           = "continuousLearning"
)

// Validation issue codes.
const (
	CodeMissingID   = "MISSING_ID"
	CodeMissingType = "MISSING_TYPE"
)

// CrosswalkTypeStandardToStandard is the default crosswalk type.
const CrosswalkTypeStandardToStandard = "Standard-to-Standard"

// KnownNodeType reports whether t is one of the recognised node types.
// Node types remain an open set; unknown types are still accepted everywhere.
func KnownNodeType(t string) bool {
	switch t {
	case NodeTypeStandard, NodeTypeComponent, NodeTypeRequirement, NodeTypeProperty,
		NodeTypeProcess, NodeTypeActor, NodeTypeDocument, NodeTypeValidation:
		return true
	}
	return false
}

// KnownRelationship reports whether t is one of the recognised relationship types.
func KnownRelationship(t string) bool {
	switch t {
	case RelationshipImplements, RelationshipReferences, RelationshipContains, RelationshipValidates,
		RelationshipRequires, RelationshipEquivalent, RelationshipDerives, RelationshipConnects:
		return true
	}
	return false
}

// KnownRuleType reports whether t is one of the recognised rule types.
func KnownRuleType(t string) bool {
	switch t {
	case RuleTypeRequirement, RuleTypeConstraint, RuleTypeConsistency, RuleTypeFormat, RuleTypeReference:
		return true
	}
	return false
}

// Valid reports whether s is one of the four severity levels.
func (s Severity) Valid() bool {
	switch s {
	case SeverityError, SeverityWarning, SeverityInfo, SeverityHint:
		return true
	}
	return false
}

// KnownCapability reports whether c is one of the recognised AI capabilities.
func KnownCapability(c string) bool {
	switch c {
	case CapabilityValidation, CapabilityRecommendation, CapabilityExplanation, CapabilityInference,
		CapabilityConflictResolution, CapabilityUncertainty, CapabilityLearning:
		return true
	}
	return false
}
