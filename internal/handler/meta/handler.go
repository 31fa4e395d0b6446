package meta

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/linyuezhao/cultural-navigator/backend/internal/model/chat"
	"github.com/linyuezhao/cultural-navigator/backend/internal/model/mood"
	"github.com/linyuezhao/cultural-navigator/backend/internal/model/post"
	"github.com/linyuezhao/cultural-navigator/backend/pkg/utils"
)

// Handler 暴露前端表单需要的固定选项表。
type Handler struct{}

// New 创建选项表处理器
func New() *Handler {
	return &Handler{}
}

// RegisterRoutes 注册选项表相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/moods", h.handleListMoods)
	r.Get("/situations", h.handleListSituations)
	r.Get("/categories", h.handleListCategories)
}

// handleListMoods 返回五档心情表，顺序即滑块展示顺序
func (h *Handler) handleListMoods(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, mood.Entries())
}

// handleListSituations 返回文化咨询表单的情景类型选项
func (h *Handler) handleListSituations(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, chat.SituationTypes())
}

// handleListCategories 返回树洞分类选项
func (h *Handler) handleListCategories(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, post.Categories())
}
