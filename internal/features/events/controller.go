package events

import (
	"files-manager/internal/common/models"

	"github.com/gofiber/contrib/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type EventsController struct {
	Hub    *Hub
	Logger *zap.Logger
}

func NewEventsController(hub *Hub, logger *zap.Logger) *EventsController {
	return &EventsController{Hub: hub, Logger: logger}
}

// Stream pushes the caller's events until the client goes away.
func (h *EventsController) Stream(c *websocket.Conn) {
	userID, ok := c.Locals(models.UserIDKey).(primitive.ObjectID)
	if !ok {
		_ = c.Close()
		return
	}

	events, release := h.Hub.Subscribe(userID.Hex())
	defer release()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if err := c.WriteJSON(ev); err != nil {
				h.Logger.Debug("event stream write failed", zap.String("user_id", userID.Hex()), zap.Error(err))
				return
			}
		}
	}
}
