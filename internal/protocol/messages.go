package protocol

import "time"

// SpeakRequest asks the speech service to voice one dialogue line.
type SpeakRequest struct {
	UtteranceID string `json:"utterance_id,omitempty"`
	Text        string `json:"text"`
	Preset      string `json:"preset"`
	// Seed, when non-zero, makes the rendered audio reproducible.
	Seed uint64 `json:"seed,omitempty"`
}

// AudioChunk carries a slice of rendered PCM (16-bit LE mono).
type AudioChunk struct {
	UtteranceID string `json:"utterance_id"`
	Sequence    int    `json:"sequence"`
	SampleRate  int    `json:"sample_rate"`
	Channels    int    `json:"channels"`
	PCM         []byte `json:"pcm"`
	Final       bool   `json:"final"`
}

// SpeakStatus closes out an utterance. EstimatedSeconds is what the UI
// should pace subtitles against.
type SpeakStatus struct {
	UtteranceID      string    `json:"utterance_id"`
	EstimatedSeconds float32   `json:"estimated_seconds"`
	Cached           bool      `json:"cached"`
	Completed        bool      `json:"completed"`
	Timestamp        time.Time `json:"timestamp"`
}

const (
	SubjectSpeakRequest = "voice.speak.request"
	SubjectSpeakAudio   = "voice.speak.audio"
	SubjectSpeakDone    = "voice.speak.done"
)
