package game

import (
	"fmt"
	"strconv"
)

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var semitones = map[string]int{
	"C": 0, "C#": 1, "Db": 1,
	"D": 2, "D#": 3, "Eb": 3,
	"E": 4,
	"F": 5, "F#": 6, "Gb": 6,
	"G": 7, "G#": 8, "Ab": 8,
	"A": 9, "A#": 10, "Bb": 10,
	"B": 11,
}

var enharmonics = map[string]string{
	"Db": "C#",
	"Eb": "D#",
	"Gb": "F#",
	"Ab": "G#",
	"Bb": "A#",
}

// splitPitch separates "C#4" into "C#" and 4.
func splitPitch(pitch string) (string, int, bool) {
	if len(pitch) < 2 || pitch[0] < 'A' || pitch[0] > 'G' {
		return "", 0, false
	}
	name := pitch[:1]
	rest := pitch[1:]
	if rest[0] == '#' || rest[0] == 'b' {
		name = pitch[:2]
		rest = pitch[2:]
	}
	if rest == "" {
		return "", 0, false
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return "", 0, false
		}
	}
	octave, err := strconv.Atoi(rest)
	if nil != err {
		return "", 0, false
	}
	return name, octave, true
}

// Normalize rewrites flats as their sharp equivalents, Db4 -> C#4.
// ok is false for anything that is not a note name with an octave.
func Normalize(pitch string) (string, bool) {
	name, octave, ok := splitPitch(pitch)
	if !ok {
		return pitch, false
	}
	if sharp, found := enharmonics[name]; found {
		name = sharp
	}
	return name + strconv.Itoa(octave), true
}

// SamePitch compares two pitches after normalisation. Malformed pitches never match.
func SamePitch(a, b string) bool {
	na, ok := Normalize(a)
	if !ok {
		return false
	}
	nb, ok := Normalize(b)
	if !ok {
		return false
	}
	return na == nb
}

// Letter is the natural note letter, ignoring accidental and octave.
func Letter(pitch string) string {
	if pitch == "" || pitch[0] < 'A' || pitch[0] > 'G' {
		return ""
	}
	return pitch[:1]
}

// NameToMidi converts "C4" to 60.
func NameToMidi(pitch string) (uint8, error) {
	name, octave, ok := splitPitch(pitch)
	if !ok {
		return 0, fmt.Errorf("invalid note name: %v", pitch)
	}
	semitone, ok := semitones[name]
	if !ok {
		return 0, fmt.Errorf("invalid note: %v", name)
	}
	n := (octave+1)*12 + semitone
	if n < 0 || n > 127 {
		return 0, fmt.Errorf("note out of midi range: %v", pitch)
	}
	return uint8(n), nil
}

// MidiToName converts 60 to "C4", always using sharps.
func MidiToName(key uint8) string {
	octave := int(key)/12 - 1
	return noteNames[key%12] + strconv.Itoa(octave)
}
