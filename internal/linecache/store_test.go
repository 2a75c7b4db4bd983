package linecache

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/hollowline/vox-core/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(t *testing.T) config.LineCacheConfig {
	t.Helper()
	return config.LineCacheConfig{
		Path:          filepath.Join(t.TempDir(), "lines.db"),
		RetentionMode: "persistent",
		MaxLines:      100,
		MaxAgeDays:    30,
	}
}

func openTestStore(t *testing.T, cfg config.LineCacheConfig) *Store {
	t.Helper()
	s, err := Open(context.Background(), cfg, discardLogger())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestKeyDistinguishesInputs(t *testing.T) {
	base := Key("hello", "neutral_npc", 0)
	if Key("hello", "neutral_npc", 0) != base {
		t.Fatal("key not stable")
	}
	if Key("hello", "hostile_entity", 0) == base {
		t.Fatal("preset not part of key")
	}
	if Key("hello", "neutral_npc", 7) == base {
		t.Fatal("seed not part of key")
	}
	if Key("hellx", "neutral_npc", 0) == base {
		t.Fatal("text not part of key")
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, testConfig(t))

	key := Key("the walls are listening", "neutral_npc", 0)
	pcm := []byte{1, 2, 3, 4, 5, 6}
	err := s.Put(ctx, Entry{
		Key:        key,
		Preset:     "neutral_npc",
		Text:       "the walls are listening",
		SampleRate: 44100,
		PCM:        pcm,
	})
	if err != nil {
		t.Fatalf("put: %v", err)
	}

	entry, hit, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !hit {
		t.Fatal("expected cache hit")
	}
	if entry.SampleRate != 44100 || string(entry.PCM) != string(pcm) {
		t.Fatalf("round trip mismatch: %+v", entry)
	}

	if _, hit, _ := s.Get(ctx, Key("other", "neutral_npc", 0)); hit {
		t.Fatal("unexpected hit for absent key")
	}
}

func TestPutReplacesExisting(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t, testConfig(t))

	key := Key("line", "neutral_npc", 0)
	if err := s.Put(ctx, Entry{Key: key, Preset: "neutral_npc", Text: "line", SampleRate: 44100, PCM: []byte{1}}); err != nil {
		t.Fatalf("first put: %v", err)
	}
	if err := s.Put(ctx, Entry{Key: key, Preset: "neutral_npc", Text: "line", SampleRate: 44100, PCM: []byte{9, 9}}); err != nil {
		t.Fatalf("second put: %v", err)
	}

	entry, _, err := s.Get(ctx, key)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(entry.PCM) != 2 || entry.PCM[0] != 9 {
		t.Fatalf("expected replaced PCM, got %v", entry.PCM)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected single row after upsert, got %d", n)
	}
}

func TestPruneByAge(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	s := openTestStore(t, cfg)

	old := Entry{
		Key: "old", Preset: "neutral_npc", Text: "old", SampleRate: 44100,
		PCM: []byte{1}, CreatedAt: time.Now().UTC().AddDate(0, 0, -60),
	}
	fresh := Entry{
		Key: "fresh", Preset: "neutral_npc", Text: "fresh", SampleRate: 44100,
		PCM: []byte{2},
	}
	if err := s.Put(ctx, old); err != nil {
		t.Fatalf("put old: %v", err)
	}
	if err := s.Put(ctx, fresh); err != nil {
		t.Fatalf("put fresh: %v", err)
	}

	if err := s.Prune(ctx); err != nil {
		t.Fatalf("prune: %v", err)
	}

	if _, hit, _ := s.Get(ctx, "old"); hit {
		t.Fatal("expected aged-out line pruned")
	}
	if _, hit, _ := s.Get(ctx, "fresh"); !hit {
		t.Fatal("expected fresh line kept")
	}
}

func TestPruneByCountKeepsNewest(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.MaxLines = 3
	s := openTestStore(t, cfg)

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 6; i++ {
		e := Entry{
			Key:        string(rune('a' + i)),
			Preset:     "neutral_npc",
			Text:       "x",
			SampleRate: 44100,
			PCM:        []byte{byte(i)},
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.Put(ctx, e); err != nil {
			t.Fatalf("put %d: %v", i, err)
		}
	}

	if err := s.Prune(ctx); err != nil {
		t.Fatalf("prune: %v", err)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 3 {
		t.Fatalf("expected 3 rows after prune, got %d", n)
	}
	// newest three survive
	for _, key := range []string{"d", "e", "f"} {
		if _, hit, _ := s.Get(ctx, key); !hit {
			t.Fatalf("expected newest line %q kept", key)
		}
	}
}

func TestEphemeralModeAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)
	cfg.RetentionMode = "ephemeral"
	s := openTestStore(t, cfg)

	key := Key("line", "neutral_npc", 0)
	if err := s.Put(ctx, Entry{Key: key, PCM: []byte{1}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, hit, err := s.Get(ctx, key); err != nil || hit {
		t.Fatalf("ephemeral store must always miss: hit=%v err=%v", hit, err)
	}
	if n, err := s.Count(ctx); err != nil || n != 0 {
		t.Fatalf("ephemeral count: n=%d err=%v", n, err)
	}
	if err := s.Prune(ctx); err != nil {
		t.Fatalf("ephemeral prune: %v", err)
	}
}

func TestReopenPersists(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(t)

	s, err := Open(ctx, cfg, discardLogger())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := Key("persisted", "neutral_npc", 0)
	if err := s.Put(ctx, Entry{Key: key, Preset: "neutral_npc", Text: "persisted", SampleRate: 44100, PCM: []byte{5}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	s2 := openTestStore(t, cfg)
	if _, hit, err := s2.Get(ctx, key); err != nil || !hit {
		t.Fatalf("expected line to survive reopen: hit=%v err=%v", hit, err)
	}
}
