package game

// MatchStatus represents where the match clock is in its lifecycle.
type MatchStatus string

const (
	StatusIdle    MatchStatus = "IDLE"
	StatusRunning MatchStatus = "RUNNING"
	StatusPaused  MatchStatus = "PAUSED"
	StatusEnded   MatchStatus = "ENDED"
)
