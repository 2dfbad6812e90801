package handlers

import (
	"log"
	"net/http"

	"github.com/zwinkle/eduslide/internal/live"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type LiveHandler struct {
	engine *live.Engine
}

func NewLiveHandler(engine *live.Engine) *LiveHandler {
	return &LiveHandler{engine: engine}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandleWebSocket godoc
// @Summary      Live session socket
// @Description  Bidirectional event stream for teachers and students in a live session
// @Tags         live
// @Router       /ws [get]
func (h *LiveHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}

	client := live.NewClient(conn)
	defer func() {
		h.engine.HandleDisconnect(client)
		client.Close()
	}()

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		h.engine.HandleMessage(client, raw)
	}
}
