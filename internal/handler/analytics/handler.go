package analytics

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	moodAnalytics "github.com/linyuezhao/cultural-navigator/backend/internal/analytics/mood"
	postStore "github.com/linyuezhao/cultural-navigator/backend/internal/store/posts"
	"github.com/linyuezhao/cultural-navigator/backend/pkg/utils"
)

// Handler 心情统计视图的HTTP处理器
type Handler struct {
	store *postStore.Store
}

// New 创建统计处理器
func New(store *postStore.Store) *Handler {
	return &Handler{store: store}
}

// RegisterRoutes 注册统计相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/analytics/calendar", h.handleCalendar)
	r.Get("/analytics/trend", h.handleTrend)
}

// handleCalendar 返回目标月份的心情日历。
// 未指定月份时取最近一条帖子所在的月份。每次读取都重新计算，不做缓存。
func (h *Handler) handleCalendar(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListAll(r.Context())
	if err != nil {
		log.Printf("[analytics] list failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	year, month := moodAnalytics.LatestMonth(records)
	if raw := r.URL.Query().Get("year"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "invalid year")
			return
		}
		year = parsed
	}
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 12 {
			utils.RespondError(w, http.StatusBadRequest, "invalid month")
			return
		}
		month = time.Month(parsed)
	}

	utils.RespondJSON(w, http.StatusOK, moodAnalytics.Calendar(records, year, month))
}

// handleTrend 返回全部帖子的心情走势
func (h *Handler) handleTrend(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListAll(r.Context())
	if err != nil {
		log.Printf("[analytics] list failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, moodAnalytics.Trend(records))
}
