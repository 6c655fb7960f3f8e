package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// tone is a decaying sine partial
type tone struct {
	freq  float64
	decay float64 // amplitude multiplier per sample
	rate  beep.SampleRate
	total int
	pos   int
	amp   float64
}

func newTone(freq float64, d time.Duration, halfLife time.Duration, rate beep.SampleRate) *tone {
	decay := 1.0
	if n := rate.N(halfLife); n > 0 {
		decay = math.Pow(0.5, 1/float64(n))
	}
	return &tone{freq: freq, decay: decay, rate: rate, total: rate.N(d), amp: 1}
}

func (t *tone) Stream(samples [][2]float64) (int, bool) {
	if t.pos >= t.total {
		return 0, false
	}
	n := 0
	for i := range samples {
		if t.pos >= t.total {
			break
		}
		v := t.amp * math.Sin(2*math.Pi*t.freq*float64(t.pos)/float64(t.rate))
		samples[i][0], samples[i][1] = v, v
		t.amp *= t.decay
		t.pos++
		n++
	}
	return n, true
}

func (t *tone) Err() error { return nil }

// chime is the two-note notice cue: a fifth rising over a short gap
func chime(rate beep.SampleRate) beep.Streamer {
	return beep.Seq(
		newTone(880, 90*time.Millisecond, 40*time.Millisecond, rate),
		beep.Silence(rate.N(15*time.Millisecond)),
		newTone(1320, 140*time.Millisecond, 60*time.Millisecond, rate),
	)
}

// gain scales s by a linear factor in [0,1]
func gain(s beep.Streamer, g float64) beep.Streamer {
	if g <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(g)}
}
