// Package speech is the bus-facing side of the synthesizer: it consumes
// speak requests, renders (or re-serves) the line, and streams PCM
// chunks back along with a status message carrying the duration
// estimate the UI paces subtitles against.
package speech

import (
	"context"
	"encoding/json"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/hollowline/vox-core/internal/bus"
	"github.com/hollowline/vox-core/internal/config"
	"github.com/hollowline/vox-core/internal/linecache"
	"github.com/hollowline/vox-core/internal/phonetic"
	"github.com/hollowline/vox-core/internal/protocol"
	"github.com/hollowline/vox-core/internal/synth"
	"github.com/hollowline/vox-core/internal/wavio"
)

type Service struct {
	cfg    config.SpeechConfig
	bus    *bus.Client
	cache  *linecache.Store
	sub    *nats.Subscription
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	logger *slog.Logger

	speakCounter metric.Int64Counter
	synthSeconds metric.Float64Histogram
}

func NewService(parent context.Context, cfg config.SpeechConfig, busClient *bus.Client, cache *linecache.Store, log *slog.Logger) *Service {
	ctx, cancel := context.WithCancel(parent)
	s := &Service{
		cfg:    cfg,
		bus:    busClient,
		cache:  cache,
		ctx:    ctx,
		cancel: cancel,
		logger: log.With(slog.String("component", "speech-service")),
	}
	s.initMetrics()
	return s
}

func (s *Service) initMetrics() {
	meter := otel.Meter("github.com/hollowline/vox-core/speech")
	var err error
	s.speakCounter, err = meter.Int64Counter("vox_speak_requests_total",
		metric.WithDescription("Speak requests handled, by preset and cache outcome"))
	if err != nil {
		s.logger.Warn("failed to create speak counter", slogError(err))
	}
	s.synthSeconds, err = meter.Float64Histogram("vox_synthesis_seconds",
		metric.WithDescription("Wall time spent rendering one utterance"))
	if err != nil {
		s.logger.Warn("failed to create synthesis histogram", slogError(err))
	}
}

func (s *Service) Start() error {
	if !s.cfg.Enabled {
		return nil
	}
	sub, err := s.bus.Conn().Subscribe(protocol.SubjectSpeakRequest, s.handleRequest)
	if err != nil {
		return err
	}
	s.sub = sub
	return nil
}

func (s *Service) Close() {
	s.cancel()
	if s.sub != nil {
		_ = s.sub.Drain()
	}
	s.wg.Wait()
}

func (s *Service) Healthy() bool { return !s.cfg.Enabled || s.sub != nil }

func (s *Service) handleRequest(msg *nats.Msg) {
	var req protocol.SpeakRequest
	if err := json.Unmarshal(msg.Data, &req); err != nil {
		s.logger.Warn("failed to decode speak request", slogError(err))
		return
	}
	if req.UtteranceID == "" {
		req.UtteranceID = uuid.NewString()
	}
	if req.Preset == "" {
		req.Preset = s.cfg.DefaultPreset
	}
	if s.cfg.MaxTextLen > 0 && len(req.Text) > s.cfg.MaxTextLen {
		req.Text = req.Text[:s.cfg.MaxTextLen]
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(s.ctx, 45*time.Second)
		defer cancel()

		s.speak(ctx, req)
	}()
}

func (s *Service) speak(ctx context.Context, req protocol.SpeakRequest) {
	preset := synth.ParsePreset(req.Preset)
	params := preset.Params()

	pcm, estimate, cached := s.render(ctx, req, preset, params)

	s.publishChunks(req.UtteranceID, pcm)
	s.publishStatus(protocol.SpeakStatus{
		UtteranceID:      req.UtteranceID,
		EstimatedSeconds: estimate,
		Cached:           cached,
		Completed:        true,
		Timestamp:        time.Now().UTC(),
	})

	if s.speakCounter != nil {
		s.speakCounter.Add(ctx, 1,
			metric.WithAttributes(
				attribute.String("preset", preset.String()),
				attribute.Bool("cached", cached)))
	}
}

// render returns PCM for the line, from cache when possible.
func (s *Service) render(ctx context.Context, req protocol.SpeakRequest, preset synth.Preset, params synth.Params) (pcm []byte, estimate float32, cached bool) {
	key := linecache.Key(req.Text, preset.String(), req.Seed)

	if entry, hit, err := s.cache.Get(ctx, key); err != nil {
		s.logger.Warn("line cache lookup failed", slogError(err))
	} else if hit {
		seconds := float32(len(entry.PCM)/2) / float32(entry.SampleRate)
		return entry.PCM, seconds, true
	}

	var rng *rand.Rand
	if req.Seed != 0 {
		rng = rand.New(rand.NewPCG(req.Seed, req.Seed))
	}

	start := time.Now()
	mapper := phonetic.NewMapper(rng)
	phonemes := mapper.MapText(req.Text, params.Language)
	voice := synth.New(params, rng)
	samples := voice.Synthesize(phonemes)
	elapsed := time.Since(start)

	if s.synthSeconds != nil {
		s.synthSeconds.Record(ctx, elapsed.Seconds(),
			metric.WithAttributes(attribute.String("preset", preset.String())))
	}
	s.logger.Debug("rendered line",
		slog.String("utterance_id", req.UtteranceID),
		slog.Int("phonemes", len(phonemes)),
		slog.Duration("elapsed", elapsed))

	pcm = wavio.FloatToPCM16(samples)
	estimate = synth.EstimateDuration(phonemes, params)

	if err := s.cache.Put(ctx, linecache.Entry{
		Key:        key,
		Preset:     preset.String(),
		Text:       req.Text,
		SampleRate: synth.SampleRate,
		PCM:        pcm,
	}); err != nil {
		s.logger.Warn("line cache store failed", slogError(err))
	}

	return pcm, estimate, false
}

func (s *Service) publishChunks(utteranceID string, pcm []byte) {
	chunkBytes := chunkSizeBytes(s.cfg.ChunkDurationMS)
	sequence := 0
	for offset := 0; offset < len(pcm) || sequence == 0; offset += chunkBytes {
		end := offset + chunkBytes
		if end > len(pcm) {
			end = len(pcm)
		}
		chunk := protocol.AudioChunk{
			UtteranceID: utteranceID,
			Sequence:    sequence,
			SampleRate:  synth.SampleRate,
			Channels:    1,
			PCM:         pcm[offset:end],
			Final:       end == len(pcm),
		}
		sequence++
		data, err := json.Marshal(chunk)
		if err != nil {
			s.logger.Warn("failed to marshal audio chunk", slogError(err))
			return
		}
		if err := s.bus.Conn().Publish(protocol.SubjectSpeakAudio, data); err != nil {
			s.logger.Warn("failed to publish audio chunk", slogError(err))
			return
		}
		if chunk.Final {
			return
		}
	}
}

func (s *Service) publishStatus(status protocol.SpeakStatus) {
	data, err := json.Marshal(status)
	if err != nil {
		s.logger.Warn("failed to marshal speak status", slogError(err))
		return
	}
	if err := s.bus.Conn().Publish(protocol.SubjectSpeakDone, data); err != nil {
		s.logger.Warn("failed to publish speak status", slogError(err))
	}
}

// chunkSizeBytes converts a chunk duration into 16-bit mono bytes,
// rounded to a whole sample.
func chunkSizeBytes(durationMS int) int {
	if durationMS <= 0 {
		durationMS = 400
	}
	samples := synth.SampleRate * durationMS / 1000
	if samples < 1 {
		samples = 1
	}
	return samples * 2
}

func slogError(err error) slog.Attr {
	return slog.String("error", err.Error())
}
