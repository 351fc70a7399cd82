package audio

// SampleRate is the rate the recognition engine expects.
const SampleRate = 16000

// Data is a block of PCM audio. Multi-channel samples are interleaved.
type Data struct {
	Samples     []float64
	NumChannels int
	SampleRate  int
}

// Mono wraps single-channel samples.
func Mono(samples []float64, sampleRate int) Data {
	return Data{Samples: samples, NumChannels: 1, SampleRate: sampleRate}
}

// Seconds returns the duration of the audio.
func (d Data) Seconds() float64 {
	if d.SampleRate == 0 || d.NumChannels == 0 {
		return 0
	}
	return float64(len(d.Samples)/d.NumChannels) / float64(d.SampleRate)
}

// Normalize converts audio to mono at SampleRate.
func Normalize(d Data) Data {
	mono := Downmix(d.Samples, d.NumChannels)
	if d.SampleRate != SampleRate && d.SampleRate > 0 {
		mono = Resample(mono, d.SampleRate, SampleRate)
	}
	return Mono(mono, SampleRate)
}

// Downmix averages interleaved channels into one.
func Downmix(samples []float64, numChannels int) []float64 {
	if numChannels <= 1 {
		return samples
	}
	frames := len(samples) / numChannels
	mono := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < numChannels; c++ {
			sum += samples[i*numChannels+c]
		}
		mono[i] = sum / float64(numChannels)
	}
	return mono
}

// Resample converts mono samples from one rate to another.
// The returned slice has length len(samples) * to / from.
// Linear interpolation is used between samples.
func Resample(samples []float64, from, to int) []float64 {
	if len(samples) == 0 || from <= 0 || to <= 0 {
		return nil
	}
	if from == to {
		return samples
	}

	step := float64(from) / float64(to)
	origLen := len(samples)
	newLen := origLen * to / from
	if newLen == 0 {
		return nil
	}

	result := make([]float64, newLen)
	for i := 0; i < newLen; i++ {
		srcIdx := float64(i) * step
		idx0 := int(srcIdx)
		frac := srcIdx - float64(idx0)

		if idx0+1 < origLen {
			result[i] = samples[idx0]*(1.0-frac) + samples[idx0+1]*frac
		} else if idx0 < origLen {
			result[i] = samples[idx0]
		}
	}

	return result
}

// Pad adds seconds of silence to both ends of the audio.
func Pad(d Data, seconds float64) Data {
	n := int(seconds*float64(d.SampleRate)) * max(d.NumChannels, 1)
	if n <= 0 {
		return d
	}
	padded := make([]float64, len(d.Samples)+2*n)
	copy(padded[n:], d.Samples)
	d.Samples = padded
	return d
}
