package audio

import (
	"math"

	"github.com/faiface/beep"
)

const (
	decayPerSecond   = 1.5  // amplitude falls by e^-1.5 each second while held
	releasePerSecond = 30.0 // and much faster once released
	silence          = 1e-4
)

func frequency(key uint8) float64 {
	return 440 * math.Pow(2, (float64(key)-69)/12)
}

// voice is a decaying sine wave. It ends itself once inaudible.
type voice struct {
	step     float64 // phase increment per sample
	phase    float64
	amp      float64
	decay    float64
	release  float64
	released bool
}

func newVoice(sr beep.SampleRate, key uint8, velocity uint8) *voice {
	perSample := 1 / float64(sr)
	return &voice{
		step:    2 * math.Pi * frequency(key) * perSample,
		amp:     0.3 * float64(velocity) / 127,
		decay:   math.Exp(-decayPerSecond * perSample),
		release: math.Exp(-releasePerSecond * perSample),
	}
}

func (v *voice) Stream(samples [][2]float64) (int, bool) {
	if v.amp < silence {
		return 0, false
	}
	for i := range samples {
		s := math.Sin(v.phase) * v.amp
		samples[i][0] = s
		samples[i][1] = s
		v.phase += v.step
		if v.phase > 2*math.Pi {
			v.phase -= 2 * math.Pi
		}
		if v.released {
			v.amp *= v.release
		} else {
			v.amp *= v.decay
		}
	}
	return len(samples), true
}

func (v *voice) Err() error {
	return nil
}
