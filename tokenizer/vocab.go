package tokenizer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Meta is the SentencePiece whitespace marker (U+2581).
const Meta = "▁"

// unkSurface is what SentencePiece emits for the unknown piece.
const unkSurface = " ⁇ "

// Piece is a single vocabulary entry.
type Piece struct {
	Text  string
	Score float64
}

// Vocab maps token ids to SentencePiece pieces. The id of a piece is its
// position in the vocabulary file.
type Vocab struct {
	Pieces  []Piece
	control map[int]bool
	unk     int
}

// NewVocab creates a vocabulary from pieces in id order.
func NewVocab(pieces []Piece) *Vocab {
	v := &Vocab{Pieces: pieces, control: make(map[int]bool), unk: -1}
	for id, p := range pieces {
		switch p.Text {
		case "<unk>":
			v.unk = id
		case "<s>", "</s>", "<pad>", "<blk>", "<blank>":
			v.control[id] = true
		}
	}
	return v
}

// Load reads a SentencePiece .vocab file.
// Format: piece<TAB>score, one piece per line.
func Load(r io.Reader) (*Vocab, error) {
	var pieces []Piece
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if line == "" {
			return nil, fmt.Errorf("line %d: empty piece", lineNum)
		}

		text, scoreStr, found := strings.Cut(line, "\t")
		var score float64
		if found {
			var err error
			score, err = strconv.ParseFloat(strings.TrimSpace(scoreStr), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: parse score: %w", lineNum, err)
			}
		}
		pieces = append(pieces, Piece{Text: text, Score: score})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(pieces) == 0 {
		return nil, errors.New("empty vocabulary")
	}

	return NewVocab(pieces), nil
}

// LoadFile is a convenience wrapper that opens a file path.
func LoadFile(path string) (*Vocab, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Size returns the number of pieces.
func (v *Vocab) Size() int { return len(v.Pieces) }

// IDsToText decodes ids the way SentencePiece does: pieces are concatenated,
// whitespace markers become spaces, and surrounding spaces are stripped.
// A lone marker piece therefore decodes to "".
func (v *Vocab) IDsToText(ids []int) (string, error) {
	var sb strings.Builder
	for _, id := range ids {
		if id < 0 || id >= len(v.Pieces) {
			return "", fmt.Errorf("id %d out of range [0, %d)", id, len(v.Pieces))
		}
		switch {
		case v.control[id]:
			// no surface form
		case id == v.unk:
			sb.WriteString(unkSurface)
		default:
			sb.WriteString(v.Pieces[id].Text)
		}
	}
	text := strings.ReplaceAll(sb.String(), Meta, " ")
	return strings.TrimSpace(text), nil
}
