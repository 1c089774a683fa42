package redis

import (
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"brainy-quiz-service/internal/app"
	"brainy-quiz-service/internal/domain"
	"brainy-quiz-service/internal/infra/memory"
)

func TestSessionStoreSetsAndClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, memory.NewSessionStore(), time.Minute)

	session := app.NewSession("s1", "u1", domain.Stage{ID: "general_stage_1"}, nil)
	store.Put(session)

	if !mr.Exists("game:session:s1") {
		t.Fatalf("expected liveness key to be set")
	}
	if got, ok := store.Get("s1"); !ok || got.ID() != "s1" {
		t.Fatalf("expected session from inner store, got %v %v", got, ok)
	}

	store.Delete("s1")
	if mr.Exists("game:session:s1") {
		t.Fatalf("expected liveness key removed")
	}
	if _, ok := store.Get("s1"); ok {
		t.Fatalf("expected session removed from inner store")
	}
}

func TestSessionStoreReapClearsKeys(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewSessionStore(client, memory.NewSessionStore(), time.Minute)

	old := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	stale := app.NewSessionWithClock("stale", "u1", domain.Stage{}, nil, func() time.Time { return old })
	store.Put(stale)

	removed := store.Reap(old.Add(time.Hour))
	if len(removed) != 1 || removed[0] != "stale" {
		t.Fatalf("expected stale session reaped, got %v", removed)
	}
	if mr.Exists("game:session:stale") {
		t.Fatalf("expected liveness key removed on reap")
	}
}
