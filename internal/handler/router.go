package handler

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	analyticsHandler "github.com/linyuezhao/cultural-navigator/backend/internal/handler/analytics"
	chatHandler "github.com/linyuezhao/cultural-navigator/backend/internal/handler/chat"
	metaHandler "github.com/linyuezhao/cultural-navigator/backend/internal/handler/meta"
	postsHandler "github.com/linyuezhao/cultural-navigator/backend/internal/handler/posts"
	sessionHandler "github.com/linyuezhao/cultural-navigator/backend/internal/handler/session"
	streamHandler "github.com/linyuezhao/cultural-navigator/backend/internal/handler/stream"
	middlewarePkg "github.com/linyuezhao/cultural-navigator/backend/internal/middleware"
	chatModel "github.com/linyuezhao/cultural-navigator/backend/internal/model/chat"
	aiService "github.com/linyuezhao/cultural-navigator/backend/internal/service/ai"
	"github.com/linyuezhao/cultural-navigator/backend/internal/service/conversation"
	postStore "github.com/linyuezhao/cultural-navigator/backend/internal/store/posts"
	"github.com/linyuezhao/cultural-navigator/backend/pkg/utils"
)

// NewRouter 把HTTP路由接到核心服务上。aiSvc 可以为空（凭证未配置）。
func NewRouter(conversations *conversation.Service, aiSvc *aiService.Service, store *postStore.Store) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	sessions := sessionHandler.New(conversations)
	chats := chatHandler.New(conversations, aiSvc)
	posts := postsHandler.New(store, aiSvc)
	analytics := analyticsHandler.New(store)
	meta := metaHandler.New()

	var streams *streamHandler.Handler
	if aiSvc != nil {
		streams = streamHandler.New(aiSvc, conversations)
	}

	r.Route("/api", func(api chi.Router) {
		sessions.RegisterRoutes(api)
		chats.RegisterRoutes(api)
		posts.RegisterRoutes(api)
		analytics.RegisterRoutes(api)
		meta.RegisterRoutes(api)

		// 流式聊天：与 POST /chat/{topic} 等价，但以SSE分片返回。
		api.Get("/stream/{topic}", func(w http.ResponseWriter, r *http.Request) {
			topic := chatModel.Topic(chi.URLParam(r, "topic"))
			sessionID := r.URL.Query().Get("sessionId")
			userMessage := r.URL.Query().Get("message")

			if streams == nil {
				utils.RespondError(w, http.StatusServiceUnavailable, "ai streaming unavailable")
				return
			}
			if !chatModel.ValidTopic(topic) {
				utils.RespondError(w, http.StatusNotFound, "unknown topic")
				return
			}
			if userMessage == "" {
				utils.RespondError(w, http.StatusBadRequest, "message query parameter is required")
				return
			}

			if err := streams.HandleStreamRequest(r.Context(), w, sessionID, topic, userMessage); err != nil {
				log.Printf("[stream] error handling request: %v", err)
			}
		})
	})

	return r
}
