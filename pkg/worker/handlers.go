package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/openpermit/openpermit/pkg/domain"
)

type validateRequest struct {
	Node map[string]any `mapstructure:"node"`
}

type crosswalkRequest struct {
	Source *domain.NodeRef `mapstructure:"source"`
	Target *domain.NodeRef `mapstructure:"target"`
}

func (r *Runtime) createNode(_ context.Context, payload json.RawMessage) (any, error) {
	var opts domain.NodeOptions
	if err := decodePayload(payload, &opts); err != nil {
		return nil, err
	}
	n, err := opts.Build()
	if err != nil {
		return nil, err
	}
	return n.Serialize(), nil
}

func (r *Runtime) validateNode(ctx context.Context, payload json.RawMessage) (any, error) {
	var in validateRequest
	if err := decodePayload(payload, &in); err != nil {
		return nil, err
	}
	if in.Node == nil {
		return nil, fmt.Errorf("%w: payload.node must be an object", domain.ErrInvalidArgument)
	}

	res, err := domain.ValidateDocument(in.Node)
	if err != nil {
		return nil, err
	}
	if err := sleep(ctx, r.validationDelay); err != nil {
		return nil, err
	}
	return res, nil
}

func (r *Runtime) createCrosswalk(_ context.Context, payload json.RawMessage) (any, error) {
	var in crosswalkRequest
	if err := decodePayload(payload, &in); err != nil {
		return nil, err
	}
	if in.Source == nil || in.Target == nil {
		return nil, fmt.Errorf("%w: crosswalk requires source and target", domain.ErrInvalidArgument)
	}
	return domain.NewCrosswalk(r.newID(), *in.Source, *in.Target, r.now()), nil
}

// decodePayload parses a JSON object payload into out via its mapstructure tags.
func decodePayload(payload json.RawMessage, out any) error {
	var raw map[string]any
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &raw); err != nil {
			return fmt.Errorf("%w: payload must be a JSON object: %v", domain.ErrInvalidArgument, err)
		}
	}
	if raw == nil {
		return fmt.Errorf("%w: payload must be a JSON object", domain.ErrInvalidArgument)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:  out,
		TagName: "mapstructure",
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	}
	return nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
