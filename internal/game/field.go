package game

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned when geometry or timing parameters
// would leave the simulation undefined.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Field is the circular arena. Its boundary has a single opening, the goal,
// centred on the current rotation angle.
type Field struct {
	Center        Vec2    `json:"center" msgpack:"center"`
	Radius        float64 `json:"radius" msgpack:"radius"`
	Rotation      float64 `json:"rotation" msgpack:"rotation"`               // degrees, [0, 360)
	GoalArcWidth  float64 `json:"goal_arc_width" msgpack:"goal_arc_width"`   // arc length of the opening
	GoalHalfWidth float64 `json:"goal_half_width" msgpack:"goal_half_width"` // degrees either side of Rotation
	GoalHeight    float64 `json:"goal_height" msgpack:"goal_height"`
}

// GoalPosts locates the drawn goal box for the presentation layer.
type GoalPosts struct {
	LeftInner  Vec2 `json:"left_inner" msgpack:"left_inner"`
	RightInner Vec2 `json:"right_inner" msgpack:"right_inner"`
	LeftOuter  Vec2 `json:"left_outer" msgpack:"left_outer"`
	RightOuter Vec2 `json:"right_outer" msgpack:"right_outer"`
}

// NewField validates the geometry and derives the goal half-width.
func NewField(center Vec2, radius, goalArcWidth, goalHeight float64) (*Field, error) {
	if !(radius > 0) {
		return nil, fmt.Errorf("%w: field radius must be positive, got %v", ErrInvalidConfiguration, radius)
	}
	if goalArcWidth < 0 {
		return nil, fmt.Errorf("%w: goal width must not be negative, got %v", ErrInvalidConfiguration, goalArcWidth)
	}
	half := goalHalfWidthDeg(goalArcWidth, radius)
	if half >= 180 {
		return nil, fmt.Errorf("%w: goal half-width %.2f° must be below 180°", ErrInvalidConfiguration, half)
	}
	return &Field{
		Center:        center,
		Radius:        radius,
		GoalArcWidth:  goalArcWidth,
		GoalHalfWidth: half,
		GoalHeight:    goalHeight,
	}, nil
}

// NewStandardField builds the default arena.
func NewStandardField() *Field {
	f, err := NewField(FieldCenter, FieldRadius, GoalArcWidth, GoalHeight)
	if err != nil {
		panic(err)
	}
	return f
}

func goalHalfWidthDeg(arcWidth, radius float64) float64 {
	return (arcWidth / (2 * radius)) * (180 / math.Pi)
}

// GoalAngularBounds returns the span of the goal opening in the unrotated
// screen frame for the given rotation, both ends normalised to [0, 360).
// The start may be numerically larger than the end when the opening
// straddles 0°.
func (f *Field) GoalAngularBounds(rotationDeg float64) (startDeg, endDeg float64) {
	return NormalizeDeg(rotationDeg - f.GoalHalfWidth), NormalizeDeg(rotationDeg + f.GoalHalfWidth)
}

// InGoalArc reports whether a bearing measured in the rotating frame lies
// inside the opening, which straddles relative angle 0.
func (f *Field) InGoalArc(relativeDeg float64) bool {
	return relativeDeg > 360-f.GoalHalfWidth || relativeDeg < f.GoalHalfWidth
}

// Rotate advances the field rotation, wrapping at 360°.
func (f *Field) Rotate(deg float64) {
	f.Rotation = NormalizeDeg(f.Rotation + deg)
}

// GoalPosts returns the goal box corners for the current rotation.
func (f *Field) GoalPosts() GoalPosts {
	left := f.Rotation - f.GoalHalfWidth
	right := f.Rotation + f.GoalHalfWidth
	return GoalPosts{
		LeftInner:  PointOnCircle(f.Center, f.Radius, left),
		RightInner: PointOnCircle(f.Center, f.Radius, right),
		LeftOuter:  PointOnCircle(f.Center, f.Radius+f.GoalHeight, left),
		RightOuter: PointOnCircle(f.Center, f.Radius+f.GoalHeight, right),
	}
}

// BoundaryArc samples the closed part of the boundary (everything but the
// opening) as n+1 screen points, for renderers that draw polylines.
func (f *Field) BoundaryArc(n int) []Vec2 {
	if n < 1 {
		n = 1
	}
	start := f.GoalHalfWidth
	end := 360 - f.GoalHalfWidth
	points := make([]Vec2, 0, n+1)
	for i := 0; i <= n; i++ {
		deg := start + (end-start)*float64(i)/float64(n)
		points = append(points, PointOnCircle(f.Center, f.Radius, deg+f.Rotation))
	}
	return points
}
