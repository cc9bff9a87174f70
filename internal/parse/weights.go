package parse

import "unicode/utf8"

const (
	// MinWeight is the floor applied to every line weight.
	MinWeight = 8
	// chordWeight is the weight of one chord change on an instrumental line.
	chordWeight = 6
)

// LineWeights returns one weight per non-empty line of text, proportional
// to the time the line is expected to stay on screen. It is only used when
// a song has no calibrated timestamps.
func LineWeights(text string) []int {
	return WeightsOf(ParseContent(text))
}

// WeightsOf computes weights for already parsed lines, skipping empty ones.
func WeightsOf(lines []Line) []int {
	weights := make([]int, 0, len(lines))
	for _, l := range lines {
		switch l.Kind {
		case KindEmpty:
			continue
		case KindChords:
			weights = append(weights, max(chordWeight*l.ChordCount(), MinWeight))
		default:
			n := 0
			for _, s := range l.Segments {
				n += utf8.RuneCountInString(s.Text)
			}
			weights = append(weights, max(n, MinWeight))
		}
	}
	return weights
}
