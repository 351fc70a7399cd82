package decoder

// Result holds the decoded transcript.
type Result struct {
	Text       string      `json:"text"`                 // full decoding of the token sequence
	Subwords   []Subword   `json:"subwords"`             // per-token details
	Segments   []Segment   `json:"segments"`             // phrase-level grouping
	Hypothesis *Hypothesis `json:"hypothesis,omitempty"` // raw engine output, when requested
}

// Subword holds one decoded token and its onset time.
type Subword struct {
	TokenID int     `json:"token_id"`
	Token   string  `json:"token"`
	Seconds float64 `json:"seconds"`
}

// Segment is a contiguous run of subwords.
type Segment struct {
	StartSeconds float64 `json:"start_seconds"`
	EndSeconds   float64 `json:"end_seconds"`
	Text         string  `json:"text"`
}

// Info reports what the decoder left out of Result.Subwords.
type Info struct {
	Truncated int // ids without a timing value
	Empty     int // ids that decoded to no visible text
}
