// Copyright (c) 2025 Open Swarm Contributors
//
// This software is released under the MIT License.
// See LICENSE file in the repository for details.

package types

// Assignment maps intent IDs to the agent name chosen to serve them.
type Assignment map[string]string

// Wave is an ordered list of intent-ID sets: Waves[0] has no
// predecessors, Waves[k] contains only intents whose predecessors all
// lie in waves < k.
type Wave []string

// Waves is the full wave decomposition, index == wave number.
type Waves []Wave

// IntentPlan is the per-intent slice of a Plan, matching the §6
// serialization shape.
type IntentPlan struct {
	ID              string   `json:"id"`
	Profile         Profile  `json:"profile"`
	Model           string   `json:"model"`
	Workflow        string   `json:"workflow"`
	Complexity      Complexity `json:"complexity"`
	EstimatedTokens int      `json:"estimated_tokens"`
	EstimatedCost   float64  `json:"estimated_cost"`
	DependsOn       []string `json:"depends_on"`
	Wave            int      `json:"wave"`
}

// WavePlan is the per-wave slice of a Plan, matching the §6
// serialization shape.
type WavePlan struct {
	Wave         int          `json:"wave"`
	AgentsNeeded int          `json:"agents_needed"`
	EstimatedCost float64     `json:"estimated_cost"`
	Intents      []IntentPlan `json:"intents"`
}

// Plan is the serializable bundle produced by the Plan Builder: the wave
// decomposition, the assignment, per-intent profile tags, cost
// estimates, and the derived aggregate metrics of spec.md §3/§4.5/§6.
type Plan struct {
	TotalIntents         int            `json:"total_intents"`
	TotalWaves           int            `json:"total_waves"`
	PeakParallelism      int            `json:"peak_parallelism"`
	SerialDepth          int            `json:"serial_depth"`
	BottleneckWave       int            `json:"bottleneck_wave"`
	CriticalPath         []string       `json:"critical_path"`
	TotalEstimatedCost   float64        `json:"total_estimated_cost"`
	TotalEstimatedTokens int            `json:"total_estimated_tokens"`
	ProfileLoad          map[Profile]int `json:"profile_load"`
	Waves                []WavePlan     `json:"waves"`
}
