// vox-say renders one line of dialogue to a WAV file without a running
// daemon. Used for tuning voice presets.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"

	"github.com/hollowline/vox-core/internal/phonetic"
	"github.com/hollowline/vox-core/internal/playback"
	"github.com/hollowline/vox-core/internal/synth"
	"github.com/hollowline/vox-core/internal/wavio"
)

func main() {
	var (
		text         string
		presetName   string
		langName     string
		seed         uint64
		outPath      string
		playCommand  string
		estimateOnly bool
	)

	flag.StringVar(&text, "text", "", "Text to speak")
	flag.StringVar(&presetName, "preset", "neutral_npc", "Voice preset (neutral_npc, hostile_entity, lost_child, corrupted_transmission)")
	flag.StringVar(&langName, "lang", "", "Override preset language (english, portuguese)")
	flag.Uint64Var(&seed, "seed", 0, "RNG seed for reproducible output (0 = random)")
	flag.StringVar(&outPath, "o", "out.wav", "Output WAV path")
	flag.StringVar(&playCommand, "play", "", "External player command to run on the result, e.g. 'aplay -q'")
	flag.BoolVar(&estimateOnly, "estimate", false, "Print the estimated duration and exit without synthesizing")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if text == "" {
		logger.Error("no text given, use -text")
		os.Exit(1)
	}

	preset := synth.ParsePreset(presetName)
	params := preset.Params()
	if langName != "" {
		params.Language = phonetic.ParseLanguage(langName)
	}

	if estimateOnly {
		fmt.Printf("%.3f\n", synth.EstimateTextDuration(text, preset))
		return
	}

	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}

	mapper := phonetic.NewMapper(rng)
	phonemes := mapper.MapText(text, params.Language)
	voice := synth.New(params, rng)
	samples := voice.Synthesize(phonemes)

	if err := wavio.WriteFile(outPath, samples, synth.SampleRate); err != nil {
		logger.Error("failed to write wav", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("wrote audio",
		slog.String("path", outPath),
		slog.Int("phonemes", len(phonemes)),
		slog.Float64("seconds", float64(len(samples))/float64(synth.SampleRate)))

	if playCommand != "" {
		player, err := playback.NewPlayer(playCommand)
		if err != nil {
			logger.Error("bad playback command", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if err := player.Play(context.Background(), outPath); err != nil {
			logger.Error("playback failed", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}
}
