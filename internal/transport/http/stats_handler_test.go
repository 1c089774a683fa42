package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"brainy-quiz-service/internal/app"
	"brainy-quiz-service/internal/domain"
	"brainy-quiz-service/internal/infra/memory"
)

func newStatsServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	ctx := context.Background()
	repo := memory.NewQuizRepository()

	stage, err := repo.CreateStage(ctx, domain.CreateStageRequest{
		StageNumber:    1,
		Category:       domain.CategoryGeneral,
		Difficulty:     domain.DifficultyEasy,
		Title:          "General I",
		TotalQuestions: 2,
	})
	if err != nil {
		t.Fatalf("create stage: %v", err)
	}
	user, err := repo.CreateUser(ctx, domain.CreateUserRequest{Username: "alice"})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := repo.CreateStageResult(ctx, user.ID, stage.ID, 2, time.Minute); err != nil {
		t.Fatalf("create result: %v", err)
	}

	mux := http.NewServeMux()
	NewStatsHandler(app.NewStatsService(repo)).Register(mux)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server, user.ID
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get %s: status %d", url, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func TestStatsOverallEndpoint(t *testing.T) {
	server, userID := newStatsServer(t)

	var stats domain.UserOverallStats
	getJSON(t, server.URL+"/stats/overall?userId="+userID, &stats)
	if stats.TotalStagesCompleted != 1 || stats.TotalStars != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}

	resp, err := http.Get(server.URL + "/stats/overall")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing userId should be a 400, got %d", resp.StatusCode)
	}
}

func TestStatsCategoryEndpoint(t *testing.T) {
	server, userID := newStatsServer(t)

	var categories []domain.CategoryStats
	getJSON(t, server.URL+"/stats/categories?userId="+userID, &categories)
	if len(categories) != len(domain.AllCategories) {
		t.Fatalf("expected every category reported, got %d", len(categories))
	}
	for _, cs := range categories {
		if cs.Category == domain.CategoryGeneral && cs.UnlockedStage != 2 {
			t.Fatalf("expected stage 2 unlocked, got %+v", cs)
		}
	}
}

func TestStatsLeaderboardEndpoint(t *testing.T) {
	server, _ := newStatsServer(t)

	var entries []domain.LeaderboardEntry
	getJSON(t, server.URL+"/stats/leaderboard?category=general&limit=3", &entries)
	if len(entries) != 3 || entries[0].Rank != 1 {
		t.Fatalf("unexpected leaderboard %+v", entries)
	}
}
