package audio

import (
	"math"
	"math/rand"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// Sound lengths.
const (
	whistleDuration = 450 * time.Millisecond
	whistleAttack   = 15 * time.Millisecond
	whistleRelease  = 120 * time.Millisecond
	clickDuration   = 25 * time.Millisecond
	clickRelease    = 20 * time.Millisecond
)

// whistle is a referee whistle: a high sine whose pitch warbles like the
// pea in a real whistle.
type whistle struct {
	rate     beep.SampleRate
	freq     float64
	warble   float64 // warble rate in Hz
	depth    float64 // warble depth in Hz
	phase    float64
	position int
	duration int
}

func newWhistle(rate beep.SampleRate) beep.Streamer {
	return &whistle{
		rate:     rate,
		freq:     2800,
		warble:   28,
		depth:    180,
		duration: rate.N(whistleDuration),
	}
}

func (w *whistle) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if w.position >= w.duration {
			return i, i > 0
		}
		t := float64(w.position) / float64(w.rate)
		freq := w.freq + w.depth*math.Sin(2*math.Pi*w.warble*t)

		val := math.Sin(2 * math.Pi * w.phase)
		samples[i][0] = val
		samples[i][1] = val

		w.phase += freq / float64(w.rate)
		w.phase -= math.Floor(w.phase)
		w.position++
	}
	return len(samples), true
}

func (w *whistle) Err() error { return nil }

// click is a short noise burst for bounces.
type click struct {
	rng      *rand.Rand
	position int
	duration int
}

func newClick(rate beep.SampleRate, seed int64) beep.Streamer {
	return &click{rng: rand.New(rand.NewSource(seed)), duration: rate.N(clickDuration)}
}

func (c *click) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if c.position >= c.duration {
			return i, i > 0
		}
		val := c.rng.Float64()*2 - 1
		samples[i][0] = val
		samples[i][1] = val
		c.position++
	}
	return len(samples), true
}

func (c *click) Err() error { return nil }

// envelope fades a stream in over attack and out over release.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

func newEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		if e.position >= e.total {
			return i, i > 0
		}
		vol := 1.0
		if e.attack > 0 && e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if releaseStart := e.total - e.release; e.release > 0 && e.position >= releaseStart {
			vol = math.Max(0, float64(e.total-e.position)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// newVolume scales a stream linearly; 0 or less is silent.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// WhistleSound builds the goal whistle at the given linear volume.
func WhistleSound(rate beep.SampleRate, vol float64) beep.Streamer {
	shaped := newEnvelope(newWhistle(rate), whistleDuration, whistleAttack, whistleRelease, rate)
	return newVolume(shaped, vol)
}

// ClickSound builds a bounce click. Harder impacts click louder.
func ClickSound(rate beep.SampleRate, vol, speed float64, seed int64) beep.Streamer {
	loudness := math.Min(1, math.Max(0.2, speed/4))
	shaped := newEnvelope(newClick(rate, seed), clickDuration, 0, clickRelease, rate)
	return newVolume(shaped, vol*loudness)
}
