package posts

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/linyuezhao/cultural-navigator/backend/internal/model/mood"
	"github.com/linyuezhao/cultural-navigator/backend/internal/service/ai"
	postStore "github.com/linyuezhao/cultural-navigator/backend/internal/store/posts"
	"github.com/linyuezhao/cultural-navigator/backend/pkg/utils"
)

const dateLayout = "2006-01-02"

// Handler 匿名树洞的HTTP处理器
type Handler struct {
	store *postStore.Store
	aiSvc *ai.Service
}

// New 创建树洞处理器。aiSvc 为空时"提供支持"接口返回 503。
func New(store *postStore.Store, aiSvc *ai.Service) *Handler {
	return &Handler{store: store, aiSvc: aiSvc}
}

// RegisterRoutes 注册树洞相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/posts", h.handlePublish)
	r.Get("/posts", h.handleList)
	r.Post("/posts/{postID}/support", h.handleSupport)
}

// handlePublish 发布一条匿名帖子
func (h *Handler) handlePublish(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Content  string `json:"content"`
		Category string `json:"category"`
		Mood     string `json:"mood"`
		PostDate string `json:"postDate"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var postDate time.Time
	if payload.PostDate != "" {
		parsed, err := time.Parse(dateLayout, payload.PostDate)
		if err != nil {
			utils.RespondError(w, http.StatusBadRequest, "postDate must be YYYY-MM-DD")
			return
		}
		postDate = parsed
	}

	saved, err := h.store.Save(r.Context(), payload.Content, payload.Category, payload.Mood, postDate)
	if err != nil {
		switch {
		case errors.Is(err, postStore.ErrEmptyContent), errors.Is(err, mood.ErrUnknownMood):
			utils.RespondError(w, http.StatusBadRequest, err.Error())
		default:
			// 存储失败不自动重试，提示用户手动重新提交。
			log.Printf("[posts] save failed: %v", err)
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	utils.RespondJSON(w, http.StatusCreated, saved)
}

// handleList 返回全部帖子，按创建时间倒序
func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListAll(r.Context())
	if err != nil {
		log.Printf("[posts] list failed: %v", err)
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, records)
}

// handleSupport 为一条帖子生成AI支持回应（匿名分享场景，不带历史）
func (h *Handler) handleSupport(w http.ResponseWriter, r *http.Request) {
	if h.aiSvc == nil {
		utils.RespondError(w, http.StatusServiceUnavailable, "ai service unavailable")
		return
	}

	postID, err := strconv.ParseInt(chi.URLParam(r, "postID"), 10, 64)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid post id")
		return
	}

	record, err := h.store.Get(r.Context(), postID)
	if err != nil {
		if errors.Is(err, postStore.ErrPostNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reply, err := h.aiSvc.Generate(r.Context(), ai.QueryAnonymousSharing, record.Content, "", nil)
	degraded := false
	if err != nil {
		var boundaryErr *ai.BoundaryError
		if !errors.As(err, &boundaryErr) {
			utils.RespondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		log.Printf("[posts] support reply failed for post=%d: %v", postID, err)
		reply = fmt.Sprintf("发生错误：%v", boundaryErr.Err)
		degraded = true
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"postId":   postID,
		"reply":    reply,
		"degraded": degraded,
	})
}
