package game

import (
	"math"
	"math/rand"
)

// Collision event types.
const (
	EventBoundary = "boundary"
	EventBody     = "body"
	EventGoal     = "goal"
)

// CollisionEvent records a contact for sound playback and feedback.
type CollisionEvent struct {
	Type     string  `json:"type" msgpack:"type"`
	BodyID   int     `json:"body_id" msgpack:"body_id"`
	TargetID int     `json:"target_id" msgpack:"target_id"` // other body id, -1 for the boundary
	Speed    float64 `json:"speed" msgpack:"speed"`         // impact speed, units per tick
}

// GoalEvent is emitted when a body leaves the field through the goal. The
// opponent of the exiting body scores.
type GoalEvent struct {
	ScoringBodyID   int     `json:"scoring_body_id" msgpack:"scoring_body_id"`
	ConcedingBodyID int     `json:"conceding_body_id" msgpack:"conceding_body_id"`
	Tick            uint64  `json:"tick" msgpack:"tick"`
	ElapsedSeconds  float64 `json:"elapsed_seconds" msgpack:"elapsed_seconds"`
}

// edgeReading is a body's position expressed in field polar terms.
type edgeReading struct {
	dist        float64
	angleDeg    float64 // screen frame
	relativeDeg float64 // rotating field frame
	nearEdge    bool
	inGoalArc   bool
}

// PhysicsEngine advances the bodies one tick at a time and resolves wall
// bounces, goals and body contacts.
type PhysicsEngine struct {
	Bodies [NumBodies]*Body
	Field  *Field
	Events []CollisionEvent
	rng    *rand.Rand
}

// NewPhysicsEngine wires the engine to the bodies and field it mutates.
// rng drives respawn placement; pass a seeded source for reproducible runs.
func NewPhysicsEngine(bodies [NumBodies]*Body, field *Field, rng *rand.Rand) *PhysicsEngine {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	return &PhysicsEngine{
		Bodies: bodies,
		Field:  field,
		Events: make([]CollisionEvent, 0, 4),
		rng:    rng,
	}
}

// Step integrates one tick. Bodies are processed in id order; each one is
// moved, checked against the boundary and then against the other body.
// Goal events are returned in the order they happened.
func (pe *PhysicsEngine) Step(tick uint64, elapsed float64) []GoalEvent {
	pe.Events = pe.Events[:0]
	var goals []GoalEvent

	for id, body := range pe.Bodies {
		body.Advance()

		if pe.resolveBoundary(body) {
			goals = append(goals, GoalEvent{
				ScoringBodyID:   Other(id),
				ConcedingBodyID: id,
				Tick:            tick,
				ElapsedSeconds:  elapsed,
			})
			continue
		}

		pe.resolveBodyCollision(body, pe.Bodies[Other(id)])
	}
	return goals
}

func (pe *PhysicsEngine) readEdge(b *Body) edgeReading {
	dist, deg := PolarFrom(pe.Field.Center, b.Position)
	rel := RelativeAngle(deg, pe.Field.Rotation)
	return edgeReading{
		dist:        dist,
		angleDeg:    deg,
		relativeDeg: rel,
		nearEdge:    dist >= pe.Field.Radius-b.Radius(),
		inGoalArc:   pe.Field.InGoalArc(rel),
	}
}

// resolveBoundary handles contact with the field edge. It returns true when
// the body left through the goal and was respawned.
func (pe *PhysicsEngine) resolveBoundary(b *Body) bool {
	p := pe.readEdge(b)
	if !p.nearEdge {
		return false
	}

	if p.inGoalArc {
		speed := b.Speed()
		pe.respawn(b)
		pe.Events = append(pe.Events, CollisionEvent{
			Type:     EventGoal,
			BodyID:   b.ID,
			TargetID: -1,
			Speed:    speed,
		})
		return true
	}

	// Mirror the heading about the boundary normal, keeping the speed.
	angle := degToRad(p.angleDeg)
	speed := b.Speed()
	reflection := 2*angle - b.Velocity.Angle() - math.Pi
	b.Velocity = FromPolar(speed, reflection)

	// Pull the body back inside with a margin so it cannot stick to the wall.
	b.Position = pe.Field.Center.Plus(FromPolar(pe.Field.Radius-b.Radius()-BoundaryMargin, angle))

	pe.Events = append(pe.Events, CollisionEvent{
		Type:     EventBoundary,
		BodyID:   b.ID,
		TargetID: -1,
		Speed:    speed,
	})
	return false
}

// respawn drops the body near the centre with a random heading and speed.
func (pe *PhysicsEngine) respawn(b *Body) {
	offset := NewVec2(
		pe.uniform(-RespawnJitter, RespawnJitter),
		pe.uniform(-RespawnJitter, RespawnJitter),
	)
	b.Position = pe.Field.Center.Plus(offset)

	heading := pe.uniform(0, 2*math.Pi)
	speed := pe.uniform(RespawnSpeedMin, RespawnSpeedMax)
	b.Velocity = FromPolar(speed, heading)
}

// resolveBodyCollision exchanges speeds along the line joining the two
// centres and separates overlapping bodies symmetrically. Incoming
// directions are discarded; each body leaves along the contact axis with the
// other's speed.
func (pe *PhysicsEngine) resolveBodyCollision(b, other *Body) bool {
	delta := b.Position.Minus(other.Position)
	dist := delta.Magnitude()
	contact := math.Max(b.Size, other.Size)
	if dist >= contact {
		return false
	}

	angle := delta.Angle()
	bSpeed := b.Speed()
	otherSpeed := other.Speed()

	b.Velocity = FromPolar(otherSpeed, angle)
	other.Velocity = FromPolar(bSpeed, angle).Invert()

	if overlap := contact - dist; overlap > 0 {
		push := FromPolar(overlap/2, angle)
		b.Position = b.Position.Plus(push)
		other.Position = other.Position.Minus(push)
	}

	pe.Events = append(pe.Events,
		CollisionEvent{Type: EventBody, BodyID: b.ID, TargetID: other.ID, Speed: b.Speed()},
		CollisionEvent{Type: EventBody, BodyID: other.ID, TargetID: b.ID, Speed: other.Speed()},
	)
	return true
}

func (pe *PhysicsEngine) uniform(lo, hi float64) float64 {
	return lo + pe.rng.Float64()*(hi-lo)
}
