package http

import (
	"encoding/json"
	"fmt"

	"github.com/openpermit/openpermit/pkg/domain"
)

func mapNodeOptions(body NodeOptions) domain.NodeOptions {
	var opts domain.NodeOptions
	if body.Id != nil {
		opts.ID = *body.Id
	}
	if body.Type != nil {
		opts.Type = *body.Type
	}
	if body.Metadata != nil {
		opts.Metadata = *body.Metadata
	}
	if body.Attributes != nil {
		opts.Attributes = *body.Attributes
	}
	return opts
}

func mapNodeRef(ref NodeRef) domain.NodeRef {
	return domain.NodeRef{ID: ref.Id, Type: ref.Type}
}

// mapCrosswalks decodes free-form crosswalk objects through their JSON field names.
func mapCrosswalks(in *[]Crosswalk) ([]domain.Crosswalk, error) {
	if in == nil {
		return nil, nil
	}
	out := make([]domain.Crosswalk, 0, len(*in))
	for i, raw := range *in {
		data, err := json.Marshal(raw)
		if err != nil {
			return nil, fmt.Errorf("crosswalks[%d]: %w", i, err)
		}
		var cw domain.Crosswalk
		if err := json.Unmarshal(data, &cw); err != nil {
			return nil, fmt.Errorf("crosswalks[%d]: %w", i, err)
		}
		out = append(out, cw)
	}
	return out, nil
}
