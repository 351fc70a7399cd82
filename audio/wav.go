package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// WAVHeader holds the parsed RIFF/WAV header fields.
type WAVHeader struct {
	SampleRate    uint32
	BitsPerSample uint16
	NumChannels   uint16
	NumSamples    int // samples per channel
}

// ReadWAV reads a 16-bit PCM WAV file. Samples are scaled to [-1.0, 1.0]
// and interleaved when the file has more than one channel.
func ReadWAV(r io.ReadSeeker) (Data, WAVHeader, error) {
	var header WAVHeader

	// Read RIFF header
	var riffID [4]byte
	if err := binary.Read(r, binary.LittleEndian, &riffID); err != nil {
		return Data{}, header, fmt.Errorf("read RIFF ID: %w", err)
	}
	if string(riffID[:]) != "RIFF" {
		return Data{}, header, errors.New("not a RIFF file")
	}

	var fileSize uint32
	if err := binary.Read(r, binary.LittleEndian, &fileSize); err != nil {
		return Data{}, header, fmt.Errorf("read file size: %w", err)
	}

	var waveID [4]byte
	if err := binary.Read(r, binary.LittleEndian, &waveID); err != nil {
		return Data{}, header, fmt.Errorf("read WAVE ID: %w", err)
	}
	if string(waveID[:]) != "WAVE" {
		return Data{}, header, errors.New("not a WAVE file")
	}

	// Read chunks
	var fmtFound, dataFound bool
	var samples []float64

	for {
		var chunkID [4]byte
		if err := binary.Read(r, binary.LittleEndian, &chunkID); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return Data{}, header, fmt.Errorf("read chunk ID: %w", err)
		}

		var chunkSize uint32
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return Data{}, header, fmt.Errorf("read chunk size: %w", err)
		}

		switch string(chunkID[:]) {
		case "fmt ":
			if err := readFmtChunk(r, chunkSize, &header); err != nil {
				return Data{}, header, err
			}
			fmtFound = true

		case "data":
			if !fmtFound {
				return Data{}, header, errors.New("data chunk before fmt chunk")
			}
			var err error
			samples, err = readDataChunk(r, chunkSize, &header)
			if err != nil {
				return Data{}, header, err
			}
			dataFound = true

		default:
			// Skip unknown chunks; align to even boundary
			skip := int64(chunkSize)
			if chunkSize%2 != 0 {
				skip++
			}
			if _, err := r.Seek(skip, io.SeekCurrent); err != nil {
				return Data{}, header, fmt.Errorf("skip chunk %q: %w", chunkID, err)
			}
		}

		if fmtFound && dataFound {
			break
		}
	}

	if !fmtFound {
		return Data{}, header, errors.New("missing fmt chunk")
	}
	if !dataFound {
		return Data{}, header, errors.New("missing data chunk")
	}

	data := Data{
		Samples:     samples,
		NumChannels: int(header.NumChannels),
		SampleRate:  int(header.SampleRate),
	}
	return data, header, nil
}

// ReadWAVFile is a convenience wrapper that opens a file path.
func ReadWAVFile(path string) (Data, WAVHeader, error) {
	f, err := os.Open(path)
	if err != nil {
		return Data{}, WAVHeader{}, err
	}
	defer f.Close()
	return ReadWAV(f)
}

func readFmtChunk(r io.ReadSeeker, size uint32, h *WAVHeader) error {
	var audioFormat uint16
	if err := binary.Read(r, binary.LittleEndian, &audioFormat); err != nil {
		return fmt.Errorf("read audio format: %w", err)
	}
	if audioFormat != 1 {
		return fmt.Errorf("unsupported audio format %d (only PCM=1 supported)", audioFormat)
	}

	if err := binary.Read(r, binary.LittleEndian, &h.NumChannels); err != nil {
		return fmt.Errorf("read num channels: %w", err)
	}
	if h.NumChannels == 0 {
		return errors.New("invalid channel count 0")
	}

	if err := binary.Read(r, binary.LittleEndian, &h.SampleRate); err != nil {
		return fmt.Errorf("read sample rate: %w", err)
	}
	if h.SampleRate == 0 {
		return errors.New("invalid sample rate 0")
	}

	// Skip byteRate (4 bytes) and blockAlign (2 bytes)
	if _, err := r.Seek(6, io.SeekCurrent); err != nil {
		return fmt.Errorf("skip byte rate / block align: %w", err)
	}

	if err := binary.Read(r, binary.LittleEndian, &h.BitsPerSample); err != nil {
		return fmt.Errorf("read bits per sample: %w", err)
	}
	if h.BitsPerSample != 16 {
		return fmt.Errorf("unsupported bits per sample %d (only 16 supported)", h.BitsPerSample)
	}

	// Skip any extra fmt bytes
	consumed := uint32(16) // audioFormat(2) + numChannels(2) + sampleRate(4) + byteRate(4) + blockAlign(2) + bitsPerSample(2)
	if size > consumed {
		if _, err := r.Seek(int64(size-consumed), io.SeekCurrent); err != nil {
			return fmt.Errorf("skip extra fmt bytes: %w", err)
		}
	}

	return nil
}

func readDataChunk(r io.Reader, size uint32, h *WAVHeader) ([]float64, error) {
	bytesPerSample := int(h.BitsPerSample) / 8
	numSamples := int(size) / bytesPerSample
	h.NumSamples = numSamples / int(h.NumChannels)

	raw := make([]int16, numSamples)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("read PCM data: %w", err)
	}

	samples := make([]float64, numSamples)
	for i, s := range raw {
		samples[i] = float64(s) / 32768.0
	}

	return samples, nil
}

// WriteWAV writes mono samples in [-1.0, 1.0] as a 16-bit PCM WAV file.
// Samples outside the range are clipped.
func WriteWAV(w io.Writer, samples []float64, sampleRate int) error {
	const bitsPerSample = 16
	dataSize := uint32(len(samples) * 2)
	byteRate := uint32(sampleRate) * bitsPerSample / 8

	var hdr bytes.Buffer
	hdr.WriteString("RIFF")
	binary.Write(&hdr, binary.LittleEndian, 36+dataSize)
	hdr.WriteString("WAVE")
	hdr.WriteString("fmt ")
	binary.Write(&hdr, binary.LittleEndian, uint32(16))
	binary.Write(&hdr, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&hdr, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&hdr, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&hdr, binary.LittleEndian, byteRate)
	binary.Write(&hdr, binary.LittleEndian, uint16(bitsPerSample/8))
	binary.Write(&hdr, binary.LittleEndian, uint16(bitsPerSample))
	hdr.WriteString("data")
	binary.Write(&hdr, binary.LittleEndian, dataSize)
	if _, err := w.Write(hdr.Bytes()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	pcm := make([]int16, len(samples))
	for i, s := range samples {
		pcm[i] = int16(math.Round(max(-1, min(s, 1)) * 32767))
	}
	if err := binary.Write(w, binary.LittleEndian, pcm); err != nil {
		return fmt.Errorf("write PCM data: %w", err)
	}
	return nil
}

// WriteWAVFile is a convenience wrapper that creates a file path.
func WriteWAVFile(path string, samples []float64, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteWAV(f, samples, sampleRate); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
