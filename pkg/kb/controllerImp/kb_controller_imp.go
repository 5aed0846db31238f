package controllerImp

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Valeria115/VK-chat-bot/pkg/freshness"
	"github.com/Valeria115/VK-chat-bot/pkg/kb/repository"
	"github.com/Valeria115/VK-chat-bot/pkg/kb/service"
)

// KBCtrl exposes the retrieval engine for manual inspection: answer a
// query outside the bot, force a refresh, read store stats.
type KBCtrl struct {
	s    service.KBService
	r    repository.KBRepository
	ctrl *freshness.Controller
}

func New(s service.KBService, r repository.KBRepository, ctrl *freshness.Controller) *KBCtrl {
	return &KBCtrl{s: s, r: r, ctrl: ctrl}
}

func (h *KBCtrl) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "q required"})
	}

	answer, err := h.s.BestAnswer(q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	links, err := h.s.HelpLinks(q, 3)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, map[string]string{"answer": answer, "links": links})
}

func (h *KBCtrl) Refresh(c echo.Context) error {
	if err := h.ctrl.Refresh(c.Request().Context()); err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}
	n, _ := h.r.Count()
	return c.JSON(http.StatusOK, map[string]any{"status": "refreshed", "records": n})
}

func (h *KBCtrl) Stats(c echo.Context) error {
	n, err := h.r.Count()
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
	last, _, _ := h.r.GetMeta(freshness.MetaLastUpdated)
	ver, _, _ := h.r.GetMeta(freshness.MetaModelVersion)
	return c.JSON(http.StatusOK, map[string]any{
		"records":       n,
		"last_updated":  last,
		"model_version": ver,
	})
}
