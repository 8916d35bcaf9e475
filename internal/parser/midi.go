package parser

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"git.lost.host/meutraa/tutor/internal/game"
	"git.lost.host/meutraa/tutor/internal/log"
	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// MidiParser turns the melody of a Standard MIDI File into a score. Chords
// are reduced to their highest key and lengths are quantised to the nearest
// duration class.
type MidiParser struct {
	Logger *log.Logger
}

type midiNote struct {
	key        uint8
	start, end int64 // absolute ticks
}

// shortest gap, in beats, that becomes a rest
const minRestBeats = 0.25

func (p *MidiParser) Parse(file string) (*game.Score, error) {
	data, err := os.ReadFile(file)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to read %s", file)
	}
	score, err := p.ParseBytes(data)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to parse %s", file)
	}
	score.Title = titleFromFile(file)
	return score, nil
}

func (p *MidiParser) ParseBytes(data []byte) (s *game.Score, e error) {
	logger := p.Logger
	if nil == logger {
		logger = log.Nop()
	}

	// smf panics on some malformed files
	defer func() {
		if r := recover(); nil != r {
			s = nil
			e = fmt.Errorf("malformed midi file: %v", r)
		}
	}()

	mf, err := smf.ReadFrom(bytes.NewReader(data))
	if nil != err {
		return nil, err
	}
	ticks, ok := mf.TimeFormat.(smf.MetricTicks)
	if !ok || ticks == 0 {
		return nil, errors.New("only metric time formats are supported")
	}
	ticksPerBeat := float64(ticks)

	tempo := 0.0
	tempoTick := int64(-1)
	beatsPerMeasure := 4.0
	var notes []midiNote

	for _, track := range mf.Tracks {
		var absTicks int64
		open := map[uint8]int{}
		for _, event := range track {
			absTicks += int64(event.Delta)
			var channel, key, velocity, num, denom uint8
			var bpm float64
			switch {
			case event.Message.GetMetaTempo(&bpm):
				if tempoTick < 0 || absTicks < tempoTick {
					tempo = bpm
					tempoTick = absTicks
				}
			case event.Message.GetMetaMeter(&num, &denom):
				if absTicks == 0 && denom > 0 {
					beatsPerMeasure = float64(num) * 4 / float64(denom)
				}
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				if velocity == 0 {
					closeNote(notes, open, key, absTicks)
					continue
				}
				closeNote(notes, open, key, absTicks)
				open[key] = len(notes)
				notes = append(notes, midiNote{key: key, start: absTicks, end: -1})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				closeNote(notes, open, key, absTicks)
			}
		}
		for key := range open {
			closeNote(notes, open, key, absTicks)
		}
	}

	if len(notes) == 0 {
		return nil, errors.New("midi file has no notes")
	}
	if tempo <= 0 {
		tempo = game.DefaultTempo
	}

	melody := reduceToMelody(notes)
	logger.Debugf("[PARSER] %d midi notes, %d in melody, %v ticks per beat", len(notes), len(melody), ticksPerBeat)

	score := &game.Score{Tempo: tempo}
	b := measureBuilder{beatsPerMeasure: beatsPerMeasure}
	cursor := int64(0)
	for i, n := range melody {
		if gap := float64(n.start-cursor) / ticksPerBeat; gap >= minRestBeats {
			b.rest(gap)
		}
		end := n.end
		if i+1 < len(melody) && melody[i+1].start < end {
			end = melody[i+1].start
		}
		length := float64(end-n.start) / ticksPerBeat
		b.add(game.Note{Pitch: game.MidiToName(n.key), Duration: game.NearestDuration(length)})
		cursor = end
	}
	score.Measures = b.finish()
	return score, nil
}

func closeNote(notes []midiNote, open map[uint8]int, key uint8, at int64) {
	i, ok := open[key]
	if !ok {
		return
	}
	notes[i].end = at
	delete(open, key)
}

// reduceToMelody keeps the highest key of every group of simultaneous starts.
func reduceToMelody(notes []midiNote) []midiNote {
	sort.SliceStable(notes, func(i, j int) bool {
		if notes[i].start != notes[j].start {
			return notes[i].start < notes[j].start
		}
		return notes[i].key > notes[j].key
	})
	melody := []midiNote{}
	for _, n := range notes {
		if len(melody) > 0 && melody[len(melody)-1].start == n.start {
			continue
		}
		if n.end <= n.start {
			continue
		}
		melody = append(melody, n)
	}
	return melody
}

type measureBuilder struct {
	beatsPerMeasure float64
	measures        []game.Measure
	current         game.Measure
	beats           float64
}

func (b *measureBuilder) add(n game.Note) {
	b.current.Notes = append(b.current.Notes, n)
	b.beats += n.Beats()
	if b.beats >= b.beatsPerMeasure {
		b.measures = append(b.measures, b.current)
		b.current = game.Measure{}
		b.beats = 0
	}
}

// rest fills a gap, splitting anything longer than a whole note.
func (b *measureBuilder) rest(beats float64) {
	whole := game.Whole.Beats()
	for beats > whole {
		b.add(game.Note{Pitch: game.Rest, Duration: game.Whole})
		beats -= whole
	}
	if beats >= minRestBeats {
		b.add(game.Note{Pitch: game.Rest, Duration: game.NearestDuration(beats)})
	}
}

func (b *measureBuilder) finish() []game.Measure {
	if len(b.current.Notes) > 0 {
		b.measures = append(b.measures, b.current)
	}
	return b.measures
}
