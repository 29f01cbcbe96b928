package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/kapu/elfname-go/internal/constants"
	"github.com/kapu/elfname-go/internal/domain"
	"github.com/kapu/elfname-go/internal/util"
)

// Live frame types. A request produces a "step" frame per pipeline stage
// followed by exactly one "result" or "error" frame.
const (
	frameStep   = "step"
	frameResult = "result"
	frameError  = "error"
)

type wsFrame struct {
	Type   string          `json:"type"`
	Step   string          `json:"step,omitempty"`
	Result *domain.ElfName `json:"result,omitempty"`
	Error  *errorBody      `json:"error,omitempty"`
}

// The endpoint carries no credentials and serves generated fantasy names, so
// cross-origin pages are allowed to use it.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// GenerateNameLive handles GET /api/v1/names/live. Each JSON message on the
// socket is one generation request; pipeline stages stream back as they run.
func (h *Handlers) GenerateNameLive(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	conn.SetReadLimit(constants.WebSocketConfig.MaxMessageSize)

	requestID := RequestIDFrom(r.Context())
	h.logger.Info("Live session opened", zap.String("request_id", requestID))

	for {
		_ = conn.SetReadDeadline(time.Now().Add(constants.WebSocketConfig.ReadDeadline))

		var req nameRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("Live session read error",
					zap.String("request_id", requestID),
					zap.Error(err),
				)
			}
			break
		}

		h.serveLiveRequest(r.Context(), conn, req)
	}

	h.logger.Info("Live session closed", zap.String("request_id", requestID))
}

func (h *Handlers) serveLiveRequest(ctx context.Context, conn *websocket.Conn, req nameRequest) {
	writeFrame := func(frame wsFrame) {
		_ = conn.SetWriteDeadline(time.Now().Add(constants.WebSocketConfig.WriteDeadline))
		if err := conn.WriteJSON(frame); err != nil {
			h.logger.Warn("Live session write failed", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(ctx, constants.ServerConfig.RequestTimeout)
	defer cancel()

	firstName := util.SanitizeInput(req.FirstName, constants.InputLimits.MaxFirstNameLength)

	result, err := h.names.GenerateObserved(ctx, firstName, req.BirthMonth, func(step string) {
		writeFrame(wsFrame{Type: frameStep, Step: step})
	})
	if err != nil {
		_, body := classifyError(err)
		h.logger.Warn("Live generation failed", zap.Error(err))
		writeFrame(wsFrame{Type: frameError, Error: &body})
		return
	}

	writeFrame(wsFrame{Type: frameResult, Result: result})
}
