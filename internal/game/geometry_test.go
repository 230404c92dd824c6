package game

import (
	"errors"
	"math"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
)

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNormalizeDeg(t *testing.T) {
	cases := []struct {
		in, want float64
	}{
		{0, 0},
		{360, 0},
		{-90, 270},
		{725, 5},
		{-720, 0},
		{359.5, 359.5},
	}
	for _, c := range cases {
		if got := NormalizeDeg(c.in); !approx(got, c.want, 1e-9) {
			t.Errorf("NormalizeDeg(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestPolarFromAndRelativeAngle(t *testing.T) {
	center := NewVec2(200, 300)

	dist, deg := PolarFrom(center, NewVec2(200, 430))
	if !approx(dist, 130, 1e-9) || !approx(deg, 90, 1e-9) {
		t.Errorf("PolarFrom below centre = (%v, %v), want (130, 90)", dist, deg)
	}

	// A point straight left of centre reads 180 in the screen frame and
	// 90 once the field has turned 90 degrees.
	_, deg = PolarFrom(center, NewVec2(100, 300))
	if rel := RelativeAngle(deg, 90); !approx(rel, 90, 1e-9) {
		t.Errorf("RelativeAngle(180, 90) = %v, want 90", rel)
	}
	if rel := RelativeAngle(10, 20); !approx(rel, 350, 1e-9) {
		t.Errorf("RelativeAngle(10, 20) = %v, want 350", rel)
	}
}

func TestPointOnCircleRoundTrip(t *testing.T) {
	p := PointOnCircle(FieldCenter, FieldRadius, 225)
	dist, deg := PolarFrom(FieldCenter, p)
	if !approx(dist, FieldRadius, 1e-9) || !approx(deg, 225, 1e-9) {
		t.Errorf("round trip gave (%v, %v)", dist, deg)
	}
}

func TestStandardFieldGoalWidth(t *testing.T) {
	f := NewStandardField()
	want := (GoalArcWidth / (2 * FieldRadius)) * 180 / math.Pi
	if !approx(f.GoalHalfWidth, want, 1e-12) {
		t.Errorf("GoalHalfWidth = %v, want %v", f.GoalHalfWidth, want)
	}
	if f.Rotation != 0 {
		t.Errorf("new field rotation = %v, want 0", f.Rotation)
	}
}

func TestNewFieldRejectsBadGeometry(t *testing.T) {
	if _, err := NewField(FieldCenter, 0, 40, 15); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("zero radius: got %v, want ErrInvalidConfiguration", err)
	}
	if _, err := NewField(FieldCenter, 130, -1, 15); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("negative goal width: got %v, want ErrInvalidConfiguration", err)
	}
	// An opening of a full circumference would swallow the whole boundary.
	if _, err := NewField(FieldCenter, 10, 2*math.Pi*10, 15); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("oversized goal: got %v, want ErrInvalidConfiguration", err)
	}
}

func TestInGoalArcWrapsAroundZero(t *testing.T) {
	f := &Field{Center: FieldCenter, Radius: 130, GoalHalfWidth: 5}

	for _, rel := range []float64{0, 4.9, 355.1, 359.99} {
		if !f.InGoalArc(rel) {
			t.Errorf("InGoalArc(%v) = false, want true", rel)
		}
	}
	for _, rel := range []float64{5, 90, 180, 355} {
		if f.InGoalArc(rel) {
			t.Errorf("InGoalArc(%v) = true, want false", rel)
		}
	}
}

func TestGoalAngularBounds(t *testing.T) {
	f := &Field{Center: FieldCenter, Radius: 130, GoalHalfWidth: 5}

	start, end := f.GoalAngularBounds(2)
	if !approx(start, 357, 1e-9) || !approx(end, 7, 1e-9) {
		t.Errorf("bounds at 2° = (%v, %v), want (357, 7)", start, end)
	}
	start, end = f.GoalAngularBounds(90)
	if !approx(start, 85, 1e-9) || !approx(end, 95, 1e-9) {
		t.Errorf("bounds at 90° = (%v, %v), want (85, 95)", start, end)
	}
}

func TestRotateWraps(t *testing.T) {
	f := NewStandardField()
	f.Rotation = 359.8
	f.Rotate(0.5)
	if !approx(f.Rotation, 0.3, 1e-9) {
		t.Errorf("Rotation = %v, want 0.3", f.Rotation)
	}
}

func TestGoalPostsSitOnBoundary(t *testing.T) {
	f := NewStandardField()
	f.Rotation = 45
	posts := f.GoalPosts()

	if d := posts.LeftInner.DistanceTo(f.Center); !approx(d, f.Radius, 1e-9) {
		t.Errorf("inner post at %v from centre, want %v", d, f.Radius)
	}
	if d := posts.RightOuter.DistanceTo(f.Center); !approx(d, f.Radius+f.GoalHeight, 1e-9) {
		t.Errorf("outer post at %v from centre, want %v", d, f.Radius+f.GoalHeight)
	}
}

func TestBoundaryArcAvoidsOpening(t *testing.T) {
	f := NewStandardField()
	f.Rotation = 120
	for _, p := range f.BoundaryArc(64) {
		_, deg := PolarFrom(f.Center, p)
		rel := RelativeAngle(deg, f.Rotation)
		if f.InGoalArc(rel) && !approx(rel, f.GoalHalfWidth, 1e-6) && !approx(rel, 360-f.GoalHalfWidth, 1e-6) {
			t.Errorf("boundary point at relative %v° lies in the opening", rel)
		}
	}
}

func TestFieldMsgpackKeysMatchJSON(t *testing.T) {
	data, err := msgpack.Marshal(NewStandardField())
	if err != nil {
		t.Fatal(err)
	}
	var fields map[string]interface{}
	if err := msgpack.Unmarshal(data, &fields); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"center", "radius", "rotation", "goal_arc_width", "goal_half_width", "goal_height"} {
		if _, ok := fields[key]; !ok {
			t.Errorf("msgpack field %q missing from %v", key, fields)
		}
	}

	data, err = msgpack.Marshal(GoalPosts{})
	if err != nil {
		t.Fatal(err)
	}
	var posts map[string]interface{}
	if err := msgpack.Unmarshal(data, &posts); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"left_inner", "right_inner", "left_outer", "right_outer"} {
		if _, ok := posts[key]; !ok {
			t.Errorf("msgpack goal post %q missing from %v", key, posts)
		}
	}
}
