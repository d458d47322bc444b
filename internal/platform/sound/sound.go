// Package sound plays short synthesized effects for session events.
// Audio is optional: when the speaker cannot be opened every call is a no-op.
package sound

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/vovakirdan/flapper/internal/games/flappy"
)

const sampleRate = beep.SampleRate(44100)

// Player implements flappy.Listener with beep.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

var _ flappy.Listener = (*Player)(nil)

// NewPlayer creates a player. Call Init before expecting sound.
func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the speaker. A second call is a no-op.
func (p *Player) Init() error {
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

// Close silences everything still playing.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	p.initialized = false
}

// Started plays a rising chirp.
func (p *Player) Started() {
	p.play(beep.Take(sampleRate.N(120*time.Millisecond), newSweep(sampleRate, 440, 880)))
}

// ScoreChanged plays a short blip.
func (p *Player) ScoreChanged(int) {
	p.play(beep.Take(sampleRate.N(90*time.Millisecond), newBlip(sampleRate, 1320)))
}

// Ended plays a decaying thud.
func (p *Player) Ended(int, flappy.EndCause) {
	p.play(beep.Take(sampleRate.N(400*time.Millisecond), newThud(sampleRate, time.Now().UnixNano())))
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

// blip is a sine tone with a fast exponential decay.
type blip struct {
	sr   beep.SampleRate
	freq float64
	pos  int
}

func newBlip(sr beep.SampleRate, freq float64) *blip {
	return &blip{sr: sr, freq: freq}
}

func (g *blip) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		v := 0.25 * math.Exp(-t*30) * math.Sin(2*math.Pi*g.freq*t)
		samples[i] = [2]float64{v, v}
		g.pos++
	}
	return len(samples), true
}

func (g *blip) Err() error { return nil }

// sweep glides linearly from one frequency to another over 120ms.
type sweep struct {
	sr       beep.SampleRate
	from, to float64
	phase    float64
	pos      int
}

func newSweep(sr beep.SampleRate, from, to float64) *sweep {
	return &sweep{sr: sr, from: from, to: to}
}

func (g *sweep) Stream(samples [][2]float64) (int, bool) {
	length := float64(g.sr.N(120 * time.Millisecond))
	for i := range samples {
		frac := math.Min(float64(g.pos)/length, 1)
		freq := g.from + (g.to-g.from)*frac
		g.phase += 2 * math.Pi * freq / float64(g.sr)
		v := 0.15 * (1 - frac) * math.Sin(g.phase)
		samples[i] = [2]float64{v, v}
		g.pos++
	}
	return len(samples), true
}

func (g *sweep) Err() error { return nil }

// thud is low-passed noise with a slow exponential decay.
type thud struct {
	sr   beep.SampleRate
	rng  *rand.Rand
	last float64
	pos  int
}

func newThud(sr beep.SampleRate, seed int64) *thud {
	return &thud{sr: sr, rng: rand.New(rand.NewSource(seed))}
}

func (g *thud) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		t := float64(g.pos) / float64(g.sr)
		noise := g.rng.Float64()*2 - 1
		g.last += 0.08 * (noise - g.last)
		v := 0.6 * math.Exp(-t*8) * g.last
		samples[i] = [2]float64{v, v}
		g.pos++
	}
	return len(samples), true
}

func (g *thud) Err() error { return nil }
