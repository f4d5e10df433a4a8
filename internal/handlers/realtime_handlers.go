package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/logger"
	"github.com/valeriaulyamaeva/neofin/internal/realtime"
)

// RealtimeHandler переводит соединение в websocket и транслирует изменения
// по темам из ?topics= (по умолчанию все).
func RealtimeHandler(hub *realtime.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		topics, err := realtime.ParseTopics(c.Query("topics"))
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		if err := hub.Serve(c.Writer, c.Request, userID(c), topics); err != nil {
			// Upgrade уже записал ответ клиенту.
			l := logger.FromContext(c.Request.Context())
			l.Warn().Err(err).Msg("Websocket upgrade failed")
		}
	}
}
