package game

// Arena and physics constants. Distances are screen units, velocities are
// screen units per tick and angles are degrees unless a name says otherwise.
const (
	TickRate = 60.0

	ScreenWidth  = 400.0
	ScreenHeight = 600.0

	FieldRadius  = 130.0
	GoalArcWidth = 40.0 // arc length of the opening along the boundary
	GoalHeight   = 15.0 // depth of the drawn goal box, cosmetic

	BodySize       = 30.0 // marker diameter
	BoundaryMargin = 1.0  // extra inset applied after a wall bounce

	KickoffOffset = 40.0
	KickoffSpeed  = 3.0

	RespawnJitter   = 20.0
	RespawnSpeedMin = 2.0
	RespawnSpeedMax = 4.0

	RotationSpeedMin     = 0.1
	RotationSpeedMax     = 2.0
	DefaultRotationSpeed = 0.5

	DefaultMatchDuration = 30.0 // seconds of real time representing 90 minutes
	ScaledMatchMinutes   = 90

	ScoringEffectSeconds = 1.0
	ScorePulseSeconds    = 1.0

	MaxNameLength = 10

	DefaultTeam1Name = "Team A"
	DefaultTeam2Name = "Team B"

	NumBodies = 2
)

// FieldCenter is the fixed screen position of the arena centre.
var FieldCenter = Vec2{X: ScreenWidth / 2, Y: ScreenHeight / 2}
