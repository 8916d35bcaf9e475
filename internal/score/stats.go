package score

import (
	"math"
	"time"

	"github.com/viterin/vek"
)

const recentWindow = 10

const (
	basePoints        = 10.0
	maxTimingBonus    = 10.0
	timingBonusScale  = 50.0 // bonus points lost per second of error
	streakBonusEvery  = 10
	streakBonusPoints = 10.0
	multiplierEvery   = 20
	multiplierStep    = 0.5
	maxMultiplier     = 3.0
)

func points(timingError time.Duration, streak int, multiplier float64) float64 {
	timingBonus := math.Max(0, maxTimingBonus-math.Abs(timingError.Seconds())*timingBonusScale)
	streakBonus := float64(streak/streakBonusEvery) * streakBonusPoints
	return (basePoints + timingBonus + streakBonus) * multiplier
}

func multiplier(streak int) float64 {
	return math.Min(maxMultiplier, 1+float64(streak/multiplierEvery)*multiplierStep)
}

func seconds(ds []time.Duration, abs bool) []float64 {
	xs := make([]float64, len(ds))
	for i, d := range ds {
		xs[i] = d.Seconds()
	}
	if abs {
		vek.Abs_Inplace(xs)
	}
	return xs
}

func fromSeconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// Accuracy is the percentage of judged notes that were played correctly.
func (s *Session) Accuracy() float64 {
	total := s.Evaluations()
	if total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(total) * 100
}

// RecentAccuracy only considers the last few judgements.
func (s *Session) RecentAccuracy() float64 {
	if len(s.recent) == 0 {
		return 0
	}
	correct := 0
	for _, r := range s.recent {
		if r {
			correct++
		}
	}
	return float64(correct) / float64(len(s.recent)) * 100
}

// MeanTimingError is the mean absolute error of the correct presses.
func (s *Session) MeanTimingError() time.Duration {
	if len(s.TimingErrors) == 0 {
		return 0
	}
	return fromSeconds(vek.Mean(seconds(s.TimingErrors, true)))
}

// MeanSignedTimingError tells whether the player tends to rush (negative) or drag.
func (s *Session) MeanSignedTimingError() time.Duration {
	if len(s.TimingErrors) == 0 {
		return 0
	}
	return fromSeconds(vek.Mean(seconds(s.TimingErrors, false)))
}

// StdevTimingError is the population standard deviation of the signed errors.
func (s *Session) StdevTimingError() time.Duration {
	if len(s.TimingErrors) < 2 {
		return 0
	}
	xs := seconds(s.TimingErrors, false)
	mean := vek.Mean(xs)
	vek.AddNumber_Inplace(xs, -mean)
	return fromSeconds(math.Sqrt(vek.Dot(xs, xs) / float64(len(xs))))
}

type Stats struct {
	Points          float64       `json:"points"`
	Accuracy        float64       `json:"accuracy"`
	RecentAccuracy  float64       `json:"recentAccuracy"`
	MeanTimingError time.Duration `json:"meanTimingError"`
	MeanSigned      time.Duration `json:"meanSignedTimingError"`
	Stdev           time.Duration `json:"stdevTimingError"`
	BestStreak      int           `json:"bestStreak"`
}

func (s *Session) Stats() Stats {
	return Stats{
		Points:          s.Points,
		Accuracy:        s.Accuracy(),
		RecentAccuracy:  s.RecentAccuracy(),
		MeanTimingError: s.MeanTimingError(),
		MeanSigned:      s.MeanSignedTimingError(),
		Stdev:           s.StdevTimingError(),
		BestStreak:      s.BestStreak,
	}
}
