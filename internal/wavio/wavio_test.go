package wavio

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func TestPCM16RoundTrip(t *testing.T) {
	in := []float32{0, 0.5, -0.5, 0.999, -0.999}
	out := PCM16ToFloat(FloatToPCM16(in))
	if len(out) != len(in) {
		t.Fatalf("length mismatch: %d vs %d", len(out), len(in))
	}
	for i := range in {
		if diff := math.Abs(float64(out[i] - in[i])); diff > 1.0/32767+1e-6 {
			t.Fatalf("sample %d: %v round-tripped to %v", i, in[i], out[i])
		}
	}
}

func TestFloatToPCM16Clips(t *testing.T) {
	pcm := FloatToPCM16([]float32{2, -2})
	out := PCM16ToFloat(pcm)
	if out[0] != 1 || out[1] != -1 {
		t.Fatalf("expected clipped full-scale samples, got %v", out)
	}
}

func TestPCM16ToFloatDropsOddByte(t *testing.T) {
	out := PCM16ToFloat([]byte{0, 0, 7})
	if len(out) != 1 {
		t.Fatalf("expected trailing odd byte dropped, got %d samples", len(out))
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.wav")
	samples := make([]float32, 441)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * 440 * float64(i) / 44100))
	}
	if err := WriteFile(path, samples, 44100); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dec.NumChans != 1 || dec.SampleRate != 44100 || dec.BitDepth != 16 {
		t.Fatalf("unexpected format: chans=%d rate=%d bits=%d", dec.NumChans, dec.SampleRate, dec.BitDepth)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("expected %d samples, got %d", len(samples), len(buf.Data))
	}
}

func TestWriteFileBadPath(t *testing.T) {
	if err := WriteFile("/nonexistent-dir/out.wav", []float32{0}, 44100); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}
