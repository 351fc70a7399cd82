package decoder

// Span is an inclusive range of subword indices forming one segment.
type Span struct {
	Start int
	End   int
}

// FindEndOfSegment returns the index of the last subword of the segment
// beginning at start.
//
// A sentence end always closes the segment. A comma or a pause longer than
// cfg.PhonemicBreak closes it only once the segment holds more than
// cfg.SubwordsPerSegment subwords. Punctuation never starts a segment: when
// the next subword is punctuation the break moves onto it.
func FindEndOfSegment(subwords []Subword, start int, cfg Config) int {
	last := len(subwords) - 1
	idx := start
	for ; idx < last; idx++ {
		cur, nex := subwords[idx], subwords[idx+1]
		if cfg.isPunct(nex.Token) {
			continue
		}
		if cfg.isSentenceEnd(cur.Token) {
			return idx
		}
		if idx-start >= cfg.SubwordsPerSegment {
			if cfg.isComma(cur.Token) || nex.Seconds-cur.Seconds > cfg.PhonemicBreak {
				return idx
			}
		}
	}
	return idx
}

// Spans partitions subwords greedily from left to right.
func Spans(subwords []Subword, cfg Config) []Span {
	var spans []Span
	for start := 0; start < len(subwords); {
		end := FindEndOfSegment(subwords, start, cfg)
		spans = append(spans, Span{Start: start, End: end})
		start = end + 1
	}
	return spans
}
