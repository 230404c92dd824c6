package game

import "fmt"

// Snapshot is the read-only view handed to renderers once per frame.
type Snapshot struct {
	MatchID                string           `json:"match_id" msgpack:"match_id"`
	Tick                   uint64           `json:"tick" msgpack:"tick"`
	Status                 MatchStatus      `json:"status" msgpack:"status"`
	FieldCenter            Vec2             `json:"field_center" msgpack:"field_center"`
	FieldRadius            float64          `json:"field_radius" msgpack:"field_radius"`
	FieldRotationDeg       float64          `json:"field_rotation_deg" msgpack:"field_rotation_deg"`
	GoalHalfWidthDeg       float64          `json:"goal_half_width_deg" msgpack:"goal_half_width_deg"`
	GoalHeight             float64          `json:"goal_height" msgpack:"goal_height"`
	GoalStartDeg           float64          `json:"goal_start_deg" msgpack:"goal_start_deg"`
	GoalEndDeg             float64          `json:"goal_end_deg" msgpack:"goal_end_deg"`
	Bodies                 [NumBodies]Body  `json:"bodies" msgpack:"bodies"`
	ElapsedSeconds         float64          `json:"elapsed_seconds" msgpack:"elapsed_seconds"`
	DurationSeconds        float64          `json:"duration_seconds" msgpack:"duration_seconds"`
	MatchTime              string           `json:"match_time" msgpack:"match_time"`
	RotationSpeed          float64          `json:"rotation_speed" msgpack:"rotation_speed"`
	ScoringEffectRemaining float64          `json:"scoring_effect_remaining" msgpack:"scoring_effect_remaining"`
	ScorePulseRemaining    float64          `json:"score_pulse_remaining" msgpack:"score_pulse_remaining"`
	ScoringBodyID          int              `json:"scoring_body_id" msgpack:"scoring_body_id"` // -1 before the first goal
	Events                 []CollisionEvent `json:"events,omitempty" msgpack:"events,omitempty"`
}

// Field rebuilds the field geometry as it was when the snapshot was taken.
func (s Snapshot) Field() Field {
	return Field{
		Center:        s.FieldCenter,
		Radius:        s.FieldRadius,
		Rotation:      s.FieldRotationDeg,
		GoalHalfWidth: s.GoalHalfWidthDeg,
		GoalHeight:    s.GoalHeight,
	}
}

// Winner returns the id of the leading body, or -1 when level.
func (s Snapshot) Winner() int {
	switch {
	case s.Bodies[0].Score > s.Bodies[1].Score:
		return 0
	case s.Bodies[1].Score > s.Bodies[0].Score:
		return 1
	}
	return -1
}

// Result is the full-time headline.
func (s Snapshot) Result() string {
	if w := s.Winner(); w >= 0 {
		return s.Bodies[w].Name + " wins!"
	}
	return "It's a draw!"
}

// Scoreline renders "home:away".
func (s Snapshot) Scoreline() string {
	return fmt.Sprintf("%d:%d", s.Bodies[0].Score, s.Bodies[1].Score)
}
