// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package planbuilder

import (
	"encoding/json"

	"intentforge/pkg/types"
)

// Serialize renders a Plan as the §6 JSON shape. The json tags on
// pkg/types' Plan/WavePlan/IntentPlan already map 1:1 to the field
// names this produces; this wrapper exists so callers have one place
// to change the wire format later without touching the type
// definitions themselves.
func Serialize(p *types.Plan) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// Deserialize parses a Plan from its §6 JSON shape.
func Deserialize(data []byte) (*types.Plan, error) {
	var p types.Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
