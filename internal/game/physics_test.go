package game

import (
	"math"
	"math/rand"
	"testing"
)

// newTestEngine places both bodies and returns an engine over a field with a
// 5 degree goal half-width at rotation 0.
func newTestEngine(p0, v0, p1, v1 Vec2) *PhysicsEngine {
	field := &Field{Center: FieldCenter, Radius: 130, GoalHalfWidth: 5, GoalHeight: 15}
	bodies := [NumBodies]*Body{
		{ID: 0, Name: "A", Position: p0, Velocity: v0, Size: BodySize},
		{ID: 1, Name: "B", Position: p1, Velocity: v1, Size: BodySize},
	}
	return NewPhysicsEngine(bodies, field, rand.New(rand.NewSource(7)))
}

func TestBodyAtGoalIsRespawnedAndOpponentScores(t *testing.T) {
	c := FieldCenter
	engine := newTestEngine(
		c.Plus(NewVec2(130, 0)), Vec2{},
		c.Plus(NewVec2(-70, 0)), Vec2{},
	)

	goals := engine.Step(1, 0.5)

	if len(goals) != 1 {
		t.Fatalf("expected 1 goal, got %d", len(goals))
	}
	if goals[0].ScoringBodyID != 1 || goals[0].ConcedingBodyID != 0 {
		t.Errorf("goal = %+v, want body 1 scoring against body 0", goals[0])
	}

	b := engine.Bodies[0]
	off := b.Position.Minus(c)
	if math.Abs(off.X) > RespawnJitter || math.Abs(off.Y) > RespawnJitter {
		t.Errorf("respawn at offset %v, want within ±%v", off, RespawnJitter)
	}
	if s := b.Speed(); s < RespawnSpeedMin || s > RespawnSpeedMax {
		t.Errorf("respawn speed %v outside [%v, %v]", s, RespawnSpeedMin, RespawnSpeedMax)
	}

	hasGoalEvent := false
	for _, e := range engine.Events {
		if e.Type == EventGoal && e.BodyID == 0 {
			hasGoalEvent = true
		}
	}
	if !hasGoalEvent {
		t.Error("expected a goal collision event for body 0")
	}
}

func TestWallBounceReflectsAndKeepsSpeed(t *testing.T) {
	c := FieldCenter
	engine := newTestEngine(
		c.Plus(NewVec2(114, 0)), NewVec2(2, 0),
		c.Plus(NewVec2(-70, 0)), Vec2{},
	)
	// Goal on the far side so the right wall is solid.
	engine.Field.Rotation = 180

	goals := engine.Step(1, 0)
	if len(goals) != 0 {
		t.Fatalf("expected no goals, got %d", len(goals))
	}

	b := engine.Bodies[0]
	if !approx(b.Speed(), 2, 1e-9) {
		t.Errorf("speed after bounce = %v, want 2", b.Speed())
	}
	if b.Velocity.X >= 0 {
		t.Errorf("velocity after bounce = %v, want heading back inward", b.Velocity)
	}
	want := engine.Field.Radius - b.Radius() - BoundaryMargin
	if d := b.Position.DistanceTo(c); !approx(d, want, 1e-9) {
		t.Errorf("distance after bounce = %v, want %v", d, want)
	}
	if len(engine.Events) == 0 || engine.Events[0].Type != EventBoundary {
		t.Errorf("expected a boundary event, got %+v", engine.Events)
	}
}

func TestObliqueBounceMirrorsAboutNormal(t *testing.T) {
	c := FieldCenter
	// Hitting the bottom of the field (90°) moving down and to the right.
	engine := newTestEngine(
		c.Plus(NewVec2(0, 113)), NewVec2(2, 2),
		c.Plus(NewVec2(0, -70)), Vec2{},
	)
	engine.Field.Rotation = 270

	engine.Step(1, 0)

	b := engine.Bodies[0]
	if !approx(b.Speed(), math.Hypot(2, 2), 1e-9) {
		t.Errorf("speed = %v, want %v", b.Speed(), math.Hypot(2, 2))
	}
	// 2θ - φ - π with θ measured at the contact point; the tangential part
	// survives and the normal part flips up.
	if b.Velocity.Y >= 0 {
		t.Errorf("velocity %v should point up after hitting the bottom", b.Velocity)
	}
	if b.Velocity.X <= 0 {
		t.Errorf("velocity %v should keep moving right", b.Velocity)
	}
}

func TestBodyCollisionSeparatesOverlap(t *testing.T) {
	c := FieldCenter
	engine := newTestEngine(
		c.Plus(NewVec2(-14.5, 0)), Vec2{},
		c.Plus(NewVec2(14.5, 0)), Vec2{},
	)

	engine.Step(1, 0)

	d := engine.Bodies[0].Position.DistanceTo(engine.Bodies[1].Position)
	if d < BodySize-1e-9 {
		t.Errorf("bodies still overlap after tick: distance %v", d)
	}
}

func TestBodyCollisionExchangesSpeed(t *testing.T) {
	c := FieldCenter
	engine := newTestEngine(
		c.Plus(NewVec2(-14.5, 0)), NewVec2(1, 0),
		c.Plus(NewVec2(14.5, 0)), NewVec2(-3, 0),
	)

	engine.Step(1, 0)

	b0, b1 := engine.Bodies[0], engine.Bodies[1]
	if !approx(b0.Speed(), 3, 1e-9) || !approx(b1.Speed(), 1, 1e-9) {
		t.Errorf("speeds after contact = (%v, %v), want (3, 1)", b0.Speed(), b1.Speed())
	}
	if b0.Velocity.X >= 0 || b1.Velocity.X <= 0 {
		t.Errorf("bodies should move apart: v0=%v v1=%v", b0.Velocity, b1.Velocity)
	}
	if d := b0.Position.DistanceTo(b1.Position); d < BodySize-1e-9 {
		t.Errorf("bodies overlap after contact: %v", d)
	}

	bodyEvents := 0
	for _, e := range engine.Events {
		if e.Type == EventBody {
			bodyEvents++
		}
	}
	if bodyEvents != 2 {
		t.Errorf("expected 2 body events, got %d", bodyEvents)
	}
}

func TestBodiesStayInsideField(t *testing.T) {
	m, err := NewMatch("bounds", DefaultSettings(), MatchOptions{Seed: 42})
	if err != nil {
		t.Fatal(err)
	}
	m.SetRunning(true)

	for i := 0; i < 1700; i++ {
		m.Tick()
		s := m.Snapshot()
		for _, b := range s.Bodies {
			if d := b.Position.DistanceTo(s.FieldCenter); d > s.FieldRadius+1e-6 {
				t.Fatalf("tick %d: body %d at %v from centre, radius %v", s.Tick, b.ID, d, s.FieldRadius)
			}
		}
	}
}
