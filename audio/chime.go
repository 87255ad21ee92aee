package audio

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"

	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// Player plays the new-order cue. The dashboard treats audio as best
// effort; implementations must swallow their own failures.
type Player interface {
	PlayNewOrder()
}

const sampleRate = beep.SampleRate(44100)

// Chime plays the new-order cue through an ordered list of attempts:
// the bundled wav asset first, then two synthesized sine tones. The
// first success wins and every failure is logged and swallowed.
type Chime struct {
	assetPath string
	enabled   func() bool

	speakerOnce sync.Once
	speakerErr  error
}

// NewChime builds a Chime. enabled is consulted on every play so the
// user's sound toggle takes effect immediately; nil means always on.
func NewChime(assetPath string, enabled func() bool) *Chime {
	if enabled == nil {
		enabled = func() bool { return true }
	}
	return &Chime{assetPath: assetPath, enabled: enabled}
}

// PlayNewOrder runs the fallback chain. It never panics; oto can blow
// up on hosts without an audio device, which counts as "no sound".
func (c *Chime) PlayNewOrder() {
	if !c.enabled() {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			utils.ErrorLogger.Printf("Audio cue panicked, treating as no sound: %v", r)
		}
	}()

	attempts := []struct {
		name string
		play func() error
	}{
		{"asset", c.playAsset},
		{"synth", c.playSynth},
	}
	for _, attempt := range attempts {
		if err := attempt.play(); err != nil {
			utils.ErrorLogger.Printf("Audio cue %s failed: %v", attempt.name, err)
			continue
		}
		return
	}
}

func (c *Chime) ensureSpeaker() error {
	c.speakerOnce.Do(func() {
		c.speakerErr = speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	})
	return c.speakerErr
}

func (c *Chime) playAsset() error {
	f, err := os.Open(c.assetPath)
	if err != nil {
		return fmt.Errorf("opening chime asset: %w", err)
	}
	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("decoding chime asset: %w", err)
	}
	if err := c.ensureSpeaker(); err != nil {
		streamer.Close()
		return fmt.Errorf("initializing speaker: %w", err)
	}

	var cue beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		cue = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}
	speaker.Play(beep.Seq(cue, beep.Callback(func() {
		streamer.Close()
	})))
	return nil
}

// playSynth synthesizes the fallback cue: 800 Hz then 600 Hz, 300 ms
// each with a linear rise-and-fall envelope, the second tone starting
// 200 ms after the first.
func (c *Chime) playSynth() error {
	if err := c.ensureSpeaker(); err != nil {
		return fmt.Errorf("initializing speaker: %w", err)
	}

	high, err := generators.SinTone(sampleRate, 800)
	if err != nil {
		return fmt.Errorf("generating 800hz tone: %w", err)
	}
	low, err := generators.SinTone(sampleRate, 600)
	if err != nil {
		return fmt.Errorf("generating 600hz tone: %w", err)
	}

	toneLen := sampleRate.N(300 * time.Millisecond)
	offset := sampleRate.N(200 * time.Millisecond)

	first := withEnvelope(beep.Take(toneLen, high), toneLen)
	second := beep.Seq(
		beep.Silence(offset),
		withEnvelope(beep.Take(toneLen, low), toneLen),
	)
	speaker.Play(beep.Mix(first, second))
	return nil
}

// withEnvelope applies a linear gain ramp up over the first half of
// the tone and back down over the second, so the cue has no clicks.
func withEnvelope(s beep.Streamer, total int) beep.Streamer {
	return &envelopeStreamer{inner: s, total: total}
}

type envelopeStreamer struct {
	inner beep.Streamer
	total int
	pos   int
}

func (e *envelopeStreamer) Stream(samples [][2]float64) (int, bool) {
	n, ok := e.inner.Stream(samples)
	half := e.total / 2
	for i := 0; i < n; i++ {
		var gain float64
		switch {
		case e.pos >= e.total:
			gain = 0
		case e.pos < half:
			gain = float64(e.pos) / float64(half)
		default:
			gain = float64(e.total-e.pos) / float64(e.total-half)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.pos++
	}
	return n, ok
}

func (e *envelopeStreamer) Err() error {
	return e.inner.Err()
}
