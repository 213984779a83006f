// Package audio plays short tones for viewer events
package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/lixenwraith/orbit-nav/parameter"
)

const (
	sampleRate = beep.SampleRate(44100)
)

// Pentatonic steps above the base pitch, one per agent index
var pentatonic = []float64{0, 2, 4, 7, 9, 12, 14, 16}

// Pitch returns the chime frequency for the i-th agent
func Pitch(i int) float64 {
	step := pentatonic[i%len(pentatonic)]
	return parameter.ChimeFrequency * math.Pow(2, step/12)
}

// Tone returns a finite sine tone at reduced volume
func Tone(freq float64, duration time.Duration) (beep.Streamer, error) {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return nil, fmt.Errorf("tone %.0f Hz: %w", freq, err)
	}
	return &effects.Volume{
		Streamer: beep.Take(sampleRate.N(duration), sine),
		Base:     2,
		Volume:   -1,
	}, nil
}

// Chimer plays arrival chimes through a shared mixer
// All methods are no-ops until Initialize succeeds, so a viewer can run without sound
type Chimer struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewChimer creates a silent chimer
func NewChimer() *Chimer {
	return &Chimer{mixer: &beep.Mixer{}}
}

// Initialize opens the speaker and starts the mixer
func (c *Chimer) Initialize() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(c.mixer)
	c.initialized = true
	return nil
}

// Enabled reports whether chimes are audible
func (c *Chimer) Enabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialized
}

// Chime plays the arrival tone of the i-th agent
// Returns nil without sound until Initialize succeeds
func (c *Chimer) Chime(i int) error {
	return c.play(Pitch(i))
}

func (c *Chimer) play(freq float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return nil
	}
	tone, err := Tone(freq, parameter.ChimeDuration)
	if err != nil {
		return fmt.Errorf("chime: %w", err)
	}
	speaker.Lock()
	c.mixer.Add(tone)
	speaker.Unlock()
	return nil
}

// Close silences pending chimes and releases the speaker
func (c *Chimer) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.initialized {
		return
	}
	speaker.Lock()
	c.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	c.initialized = false
}
