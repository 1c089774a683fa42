package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"brainy-quiz-service/internal/app"
	"brainy-quiz-service/internal/domain"
)

// StatsHandler serves read-only statistics over plain JSON endpoints.
type StatsHandler struct {
	stats *app.StatsService
}

func NewStatsHandler(stats *app.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Register mounts the stats routes on mux.
func (h *StatsHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/stats/overall", h.handleOverall)
	mux.HandleFunc("/stats/categories", h.handleCategories)
	mux.HandleFunc("/stats/activity", h.handleActivity)
	mux.HandleFunc("/stats/achievements", h.handleAchievements)
	mux.HandleFunc("/stats/trend", h.handleTrend)
	mux.HandleFunc("/stats/recommendations", h.handleRecommendations)
	mux.HandleFunc("/stats/leaderboard", h.handleLeaderboard)
}

func (h *StatsHandler) handleOverall(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	stats, err := h.stats.GetUserOverallStats(r.Context(), userID)
	if err != nil {
		writeStatsError(w, err)
		return
	}
	writeJSON(w, stats)
}

func (h *StatsHandler) handleCategories(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	stats, err := h.stats.GetUserCategoryStats(r.Context(), userID)
	if err != nil {
		writeStatsError(w, err)
		return
	}
	writeJSON(w, stats)
}

func (h *StatsHandler) handleActivity(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	limit := queryInt(r, "limit", 10)
	activity, err := h.stats.GetRecentActivity(r.Context(), userID, limit)
	if err != nil {
		writeStatsError(w, err)
		return
	}
	writeJSON(w, activity)
}

func (h *StatsHandler) handleAchievements(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	achievements, err := h.stats.GetAchievements(r.Context(), userID)
	if err != nil {
		writeStatsError(w, err)
		return
	}
	writeJSON(w, achievements)
}

func (h *StatsHandler) handleTrend(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	timeRange := domain.TimeRange(r.URL.Query().Get("range"))
	if timeRange == "" {
		timeRange = domain.RangeMonth
	}
	trend, err := h.stats.GetPerformanceTrend(r.Context(), userID, timeRange)
	if err != nil {
		writeStatsError(w, err)
		return
	}
	writeJSON(w, trend)
}

func (h *StatsHandler) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, "missing userId", http.StatusBadRequest)
		return
	}
	recommendations, err := h.stats.GetRecommendedStages(r.Context(), userID)
	if err != nil {
		writeStatsError(w, err)
		return
	}
	writeJSON(w, recommendations)
}

func (h *StatsHandler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	category := domain.QuizCategory(r.URL.Query().Get("category"))
	if category == "" {
		category = domain.CategoryGeneral
	}
	limit := queryInt(r, "limit", 10)
	writeJSON(w, h.stats.GetCategoryLeaderboard(category, limit))
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func writeStatsError(w http.ResponseWriter, err error) {
	http.Error(w, err.Error(), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("write stats response: %v", err)
	}
}
