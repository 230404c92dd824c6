package audio

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const sampleRate = beep.SampleRate(44100)

// minClickGap throttles bounce clicks so a body grinding along the wall
// does not turn into a buzz.
const minClickGap = 40 * time.Millisecond

// Player mixes match sounds onto the speaker.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
	lastClick   time.Time
	seed        int64
}

// NewPlayer returns a player at the given linear volume in [0, 1].
func NewPlayer(volume float64) *Player {
	return &Player{mixer: &beep.Mixer{}, volume: volume}
}

// Initialize opens the speaker. It is safe to call more than once.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Goal plays the whistle.
func (p *Player) Goal() {
	p.play(WhistleSound(sampleRate, p.volume))
}

// Bounce plays a click scaled by impact speed.
func (p *Player) Bounce(speed float64) {
	p.mu.Lock()
	now := time.Now()
	if now.Sub(p.lastClick) < minClickGap {
		p.mu.Unlock()
		return
	}
	p.lastClick = now
	p.seed++
	seed := p.seed
	p.mu.Unlock()

	p.play(ClickSound(sampleRate, p.volume*0.5, speed, seed))
}

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close silences the mixer and closes the speaker.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return
	}
	speaker.Clear()
	speaker.Close()
	p.initialized = false
}
