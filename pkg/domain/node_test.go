package domain_test

import (
	"testing"

	"github.com/openpermit/openpermit/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode_Defaults(t *testing.T) {
	n := domain.NewNode("urn:irc:r602", domain.NodeTypeRequirement, map[string]any{
		"name":  "Wood framing",
		"scope": "residential",
	})

	meta := n.Metadata()
	assert.Equal(t, "urn:irc:r602", n.ID())
	assert.Equal(t, domain.NodeTypeRequirement, n.Type())
	assert.Equal(t, "Wood framing", meta.Name)
	assert.Equal(t, "", meta.Description)
	assert.Equal(t, domain.DefaultVersion, meta.Version)
	assert.Equal(t, meta.Created, meta.Modified)
	assert.Equal(t, "residential", meta.Extra["scope"])
	assert.Empty(t, n.Attributes())
	assert.Empty(t, n.Relationships())
	assert.Empty(t, n.AIInterface().Capabilities)
}

func TestNewNode_MetadataOverridesTimestamps(t *testing.T) {
	n := domain.NewNode("n1", "Test", map[string]any{
		"created":  "2021-03-04T05:06:07.089Z",
		"modified": "not a timestamp",
	})

	meta := n.Metadata()
	assert.Equal(t, "2021-03-04T05:06:07.089Z", domain.FormatTime(meta.Created))
	assert.True(t, meta.Modified.After(meta.Created), "unparseable modified falls back to now")
}

func TestAddAttribute_UpdatesModified(t *testing.T) {
	n := domain.NewNode("n1", "Test", map[string]any{
		"modified": "2000-01-01T00:00:00.000Z",
	})
	before := n.Metadata().Modified

	n.AddAttribute("foo", "bar")

	assert.Equal(t, "bar", n.Attributes()["foo"])
	assert.True(t, n.Metadata().Modified.After(before))

	// Later writes overwrite.
	latest := n.Metadata().Modified
	n.AddAttribute("foo", "baz")
	assert.Equal(t, "baz", n.Attributes()["foo"])
	assert.False(t, n.Metadata().Modified.Before(latest))
}

func TestAddRelationship(t *testing.T) {
	t.Run("rejects empty fields", func(t *testing.T) {
		n := domain.NewNode("n1", "Test", nil)
		assert.ErrorIs(t, n.AddRelationship("", "x", nil), domain.ErrInvalidArgument)
		assert.ErrorIs(t, n.AddRelationship("x", "", nil), domain.ErrInvalidArgument)
		assert.Empty(t, n.Relationships())
	})

	t.Run("deduplicates type and target", func(t *testing.T) {
		n := domain.NewNode("n1", "Test", nil)
		require.NoError(t, n.AddRelationship(domain.RelationshipContains, "t1", nil))
		require.NoError(t, n.AddRelationship(domain.RelationshipContains, "t1", map[string]any{"other": true}))
		require.NoError(t, n.AddRelationship(domain.RelationshipReferences, "t1", nil))

		rels := n.Relationships()
		require.Len(t, rels, 2)
		assert.Equal(t, domain.RelationshipContains, rels[0].Type)
		assert.Empty(t, rels[0].Metadata)
		assert.Equal(t, domain.RelationshipReferences, rels[1].Type)
		assert.True(t, n.HasRelationship(domain.RelationshipContains, "t1"))
	})
}

func TestAddValidationRule_AppendsWithoutDedup(t *testing.T) {
	n := domain.NewNode("n1", "Test", nil)
	n.AddValidationRule(domain.RuleTypeConstraint, "span <= 12", "", "").
		AddValidationRule(domain.RuleTypeConstraint, "span <= 12", domain.SeverityWarning, "check span")

	rules := n.ValidationRules()
	require.Len(t, rules, 2)
	assert.Equal(t, domain.SeverityError, rules[0].Severity)
	assert.Equal(t, domain.SeverityWarning, rules[1].Severity)
	assert.Equal(t, "check span", rules[1].Message)
}

func TestAICapabilities(t *testing.T) {
	n := domain.NewNode("n1", "Test", nil)
	n.AddAICapability(domain.CapabilityValidation, map[string]any{"model": "a", "temperature": 0.1})
	n.AddAICapability(domain.CapabilityValidation, map[string]any{"model": "b"})
	n.AddAICapability(domain.CapabilityExplanation, nil)

	ai := n.AIInterface()
	assert.Equal(t, []string{domain.CapabilityValidation, domain.CapabilityExplanation}, ai.Capabilities)
	assert.Equal(t, "b", ai.Parameters["model"], "parameters merge even for an existing capability")
	assert.Equal(t, 0.1, ai.Parameters["temperature"])
}

func TestSetAIParameters_IgnoresNonMaps(t *testing.T) {
	n := domain.NewNode("n1", "Test", map[string]any{
		"modified": "2000-01-01T00:00:00.000Z",
	})
	before := n.Metadata().Modified

	n.SetAIParameters(nil)
	n.SetAIParameters([]any{"a"})
	n.SetAIParameters("threshold")
	n.SetAIParameters(map[string]any(nil))
	assert.Empty(t, n.AIInterface().Parameters)
	assert.Equal(t, before, n.Metadata().Modified)

	n.SetAIParameters(map[string]any{"threshold": 0.5})
	assert.Equal(t, 0.5, n.AIInterface().Parameters["threshold"])
	assert.True(t, n.Metadata().Modified.After(before))
}

func TestAddExtension_ReplacesNamespace(t *testing.T) {
	n := domain.NewNode("n1", "Test", nil)
	n.AddExtension("ifc", map[string]any{"class": "IfcWall"})
	n.AddExtension("ifc", map[string]any{"class": "IfcBeam"})

	exts := n.Extensions()
	require.Len(t, exts, 1)
	assert.Equal(t, map[string]any{"class": "IfcBeam"}, exts["ifc"])
}

func TestAccessorsReturnCopies(t *testing.T) {
	n := domain.NewNode("n1", "Test", nil)
	n.AddAttribute("a", 1)

	attrs := n.Attributes()
	attrs["a"] = 2
	attrs["b"] = 3

	assert.Equal(t, map[string]any{"a": 1}, n.Attributes())
}

func TestNodeOptions_Build(t *testing.T) {
	n, err := domain.NodeOptions{
		ID:         "n1",
		Type:       domain.NodeTypeActor,
		Attributes: map[string]any{"role": "inspector"},
	}.Build()
	require.NoError(t, err)
	assert.Equal(t, "inspector", n.Attributes()["role"])

	_, err = domain.NodeOptions{Type: domain.NodeTypeActor}.Build()
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = domain.NodeOptions{ID: "n1"}.Build()
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCheckRequired(t *testing.T) {
	res := domain.CheckRequired(domain.NewNode("", "", nil))
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, domain.CodeMissingID, res.Errors[0].Code)
	assert.Equal(t, domain.CodeMissingType, res.Errors[1].Code)

	res = domain.CheckRequired(domain.NewNode("n1", "Test", nil))
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)
	assert.NotNil(t, res.Warnings)
}

func TestEnumerations(t *testing.T) {
	assert.True(t, domain.KnownNodeType(domain.NodeTypeValidation))
	assert.False(t, domain.KnownNodeType("Test"))
	assert.True(t, domain.KnownRelationship(domain.RelationshipDerives))
	assert.True(t, domain.KnownRuleType(domain.RuleTypeFormat))
	assert.True(t, domain.SeverityHint.Valid())
	assert.False(t, domain.Severity("fatal").Valid())
	assert.True(t, domain.KnownCapability(domain.CapabilityLearning))
}

func TestValidateDocument(t *testing.T) {
	res, err := domain.ValidateDocument(map[string]any{"type": "Test"})
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.CodeMissingID, res.Errors[0].Code)
	assert.Equal(t, "Node ID is required", res.Errors[0].Message)

	res, err = domain.ValidateDocument(map[string]any{"@id": "n1", "@type": nil})
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.CodeMissingType, res.Errors[0].Code)

	res, err = domain.ValidateDocument(map[string]any{})
	require.NoError(t, err)
	assert.Len(t, res.Errors, 2)

	res, err = domain.ValidateDocument(map[string]any{"@id": "n1", "@type": "Test"})
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Errors)

	_, err = domain.ValidateDocument(map[string]any{"@id": 42, "@type": "Test"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	res, err = domain.ValidateDocument(map[string]any{"@id": false, "@type": "Test"})
	require.NoError(t, err)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, domain.CodeMissingID, res.Errors[0].Code)

	_, err = domain.ValidateDocument(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
