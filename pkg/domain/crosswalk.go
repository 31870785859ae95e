package domain

import "time"

// CrosswalkEndpoint identifies one side of a crosswalk.
type CrosswalkEndpoint struct {
	NodeType   string `json:"nodeType"`
	Identifier string `json:"identifier"`
}

// CrosswalkMetadata carries bookkeeping for a crosswalk.
type CrosswalkMetadata struct {
	Creator     string `json:"creator"`
	Created     string `json:"created"`
	LastUpdated string `json:"lastUpdated"`
	Status      string `json:"status"`
	Version     string `json:"version"`
}

// Crosswalk is a transient mapping record between two nodes. It is never stored.
type Crosswalk struct {
	ID                string            `json:"id"`
	Source            CrosswalkEndpoint `json:"source"`
	Target            CrosswalkEndpoint `json:"target"`
	Type              string            `json:"type"`
	Mappings          []any             `json:"mappings"`
	Metadata          CrosswalkMetadata `json:"metadata"`
	ValidationMethods []any             `json:"validationMethods"`
}

// NewCrosswalk builds a draft Standard-to-Standard crosswalk between source and target.
func NewCrosswalk(id string, source, target NodeRef, now time.Time) Crosswalk {
	stamp := FormatTime(now)
	return Crosswalk{
		ID:       id,
		Source:   CrosswalkEndpoint{NodeType: source.Type, Identifier: source.ID},
		Target:   CrosswalkEndpoint{NodeType: target.Type, Identifier: target.ID},
		Type:     CrosswalkTypeStandardToStandard,
		Mappings: []any{},
		Metadata: CrosswalkMetadata{
			Creator:     "system",
			Created:     stamp,
			LastUpdated: stamp,
			Status:      "draft",
			Version:     DefaultVersion,
		},
		ValidationMethods: []any{},
	}
}
