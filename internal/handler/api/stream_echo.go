package api

import (
	"context"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"CardSight/internal/domain/models"
	domrepo "CardSight/internal/domain/repository"
	"CardSight/internal/domain/service"
	"CardSight/internal/middleware"
	"CardSight/internal/services/capture"
	"CardSight/internal/usecase"
	xhttp "CardSight/pkg/http"
	applogger "CardSight/pkg/logger"
)

// SpeechStatus reports whether the speech channel is live.
type SpeechStatus interface {
	Available() bool
}

// StreamEchoHandler exposes session control, history, on-demand
// recommendations, and the websocket feed.
type StreamEchoHandler struct {
	logger     *applogger.Logger
	sessions   *usecase.SessionManager
	pipeline   *middleware.FramePipeline
	resolver   *usecase.Resolver
	signals    *usecase.SignalEngine
	advisor    service.Advisor
	speech     SpeechStatus
	sessionLog domrepo.SessionLog
	hub        *Hub

	engineName string
	captureFPS int
}

func NewStreamEchoHandler(
	logger *applogger.Logger,
	sessions *usecase.SessionManager,
	pipeline *middleware.FramePipeline,
	resolver *usecase.Resolver,
	signals *usecase.SignalEngine,
	advisor service.Advisor,
	speech SpeechStatus,
	sessionLog domrepo.SessionLog,
	hub *Hub,
	engineName string,
	captureFPS int,
) *StreamEchoHandler {
	return &StreamEchoHandler{
		logger:     logger,
		sessions:   sessions,
		pipeline:   pipeline,
		resolver:   resolver,
		signals:    signals,
		advisor:    advisor,
		speech:     speech,
		sessionLog: sessionLog,
		hub:        hub,
		engineName: engineName,
		captureFPS: captureFPS,
	}
}

func (h *StreamEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/health", h.Health)
	g.GET("/sessions", h.Sessions)
	g.POST("/session/start", h.StartSession)
	g.POST("/session/stop", h.StopSession)
	g.GET("/session/:id/history", h.History)
	g.POST("/advisor/recommendation", h.Recommendation)
	g.GET("/advisor/status", h.AdvisorStatus)

	e.GET("/ws", h.hub.HandleWS)
}

func (h *StreamEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":          "ok",
		"engine":          h.engineName,
		"speech":          h.speech != nil && h.speech.Available(),
		"advisor":         h.advisor != nil && h.advisor.Available(),
		"active_sessions": len(h.sessions.Active()),
		"viewers":         h.hub.Clients(),
	})
}

func (h *StreamEchoHandler) Sessions(c echo.Context) error {
	active := h.sessions.Active()
	out := make([]map[string]interface{}, 0, len(active))
	for _, s := range active {
		out = append(out, map[string]interface{}{
			"session_id": s.ID,
			"source":     s.Source,
			"started_at": s.StartedAt,
		})
	}
	return xhttp.SuccessResponse(c, out)
}

func (h *StreamEchoHandler) StartSession(c echo.Context) error {
	req := &models.StartSessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	// session lifetime is decoupled from the HTTP request
	session, sessionCtx, err := h.sessions.Start(context.Background(), req.Source)
	if err != nil {
		return xhttp.BadRequestResponse(c, err.Error())
	}

	source := capture.NewDirectorySource(req.Source, h.captureFPS, h.logger)
	go func() {
		defer source.Close()
		if err := h.pipeline.Run(sessionCtx, session, source); err != nil && sessionCtx.Err() == nil {
			h.logger.Error("session ended with error",
				applogger.String("session_id", session.ID), applogger.Error(err))
		}
		_ = h.sessions.Stop(session.ID)
	}()

	h.logger.Info("session started",
		applogger.String("session_id", session.ID), applogger.String("source", session.Source))
	return xhttp.CreatedResponse(c, map[string]interface{}{
		"session_id": session.ID,
		"source":     session.Source,
		"started_at": session.StartedAt,
	})
}

func (h *StreamEchoHandler) StopSession(c echo.Context) error {
	req := &models.StopSessionRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	if err := h.sessions.Stop(req.SessionID); err != nil {
		return xhttp.NotFoundResponse(c, err.Error())
	}

	h.logger.Info("session stopped", applogger.String("session_id", req.SessionID))
	return xhttp.SuccessResponse(c, map[string]interface{}{"session_id": req.SessionID})
}

func (h *StreamEchoHandler) History(c echo.Context) error {
	sessionID := strings.TrimSpace(c.Param("id"))
	if sessionID == "" {
		return xhttp.BadRequestResponse(c, "session id is required")
	}

	bundles, err := h.sessionLog.History(c.Request().Context(), sessionID)
	if err != nil {
		h.logger.Error("history read failed", applogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.ListResponse(c, bundles, int64(len(bundles)))
}

// Recommendation scores a hand-entered item against market data,
// bypassing the capture pipeline.
func (h *StreamEchoHandler) Recommendation(c echo.Context) error {
	req := &models.RecommendationRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	id := req.Identity()

	snap := h.resolver.Resolve(ctx, id)
	sig := h.signals.Score(id, req.CurrentBid, snap)

	var advisory string
	if h.advisor != nil && h.advisor.Available() && sig.Signal != models.SignalGray {
		text, err := h.advisor.Advise(ctx, id, req.CurrentBid, snap)
		if err != nil {
			h.logger.Debug("advisory skipped", applogger.Error(err))
		} else {
			advisory = text
		}
	}

	return xhttp.SuccessResponse(c, &models.ResultBundle{
		Identity:    id,
		Auction:     models.AuctionInfo{CurrentBid: req.CurrentBid},
		Pricing:     *snap,
		Signal:      sig,
		Advisory:    advisory,
		ProcessedAt: time.Now(),
	})
}

func (h *StreamEchoHandler) AdvisorStatus(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"available": h.advisor != nil && h.advisor.Available(),
	})
}
