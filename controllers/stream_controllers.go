package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/yeremiapane/orderdesk-app/realtime"
	"github.com/yeremiapane/orderdesk-app/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type StreamController struct {
	Hub *realtime.Hub
}

func NewStreamController(hub *realtime.Hub) *StreamController {
	return &StreamController{Hub: hub}
}

// Stream -> upgrades to a websocket and subscribes the client to the push
// topics it asked for (?topics=orders:created,orders:updated).
func (sc *StreamController) Stream(c *gin.Context) {
	role := c.GetString("role")

	var topics []string
	for _, t := range strings.Split(c.Query("topics"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			topics = append(topics, t)
		}
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if utils.ErrorLogger != nil {
			utils.ErrorLogger.Printf("Websocket upgrade failed: %v", err)
		}
		return
	}

	sc.Hub.RegisterClient(conn, role, topics)

	// Reader loop only detects the close; clients never send data.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				sc.Hub.UnregisterClient(conn)
				return
			}
		}
	}()
}
