package controllerImp

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/Valeria115/VK-chat-bot/pkg/kb/repository"
)

var appStart = time.Now()

type HealthCtrl struct {
	db *gorm.DB
	kb repository.KBRepository
}

func NewHealthCtrl(db *gorm.DB, kb repository.KBRepository) *HealthCtrl {
	return &HealthCtrl{db: db, kb: kb}
}

func (h *HealthCtrl) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 800*time.Millisecond)
	defer cancel()

	dbOK := true
	dbErr := ""
	sqlDB, err := h.db.DB()
	if err != nil {
		dbOK = false
		dbErr = "db.DB(): " + err.Error()
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbOK = false
		dbErr = "ping: " + err.Error()
	}

	var records int64
	if dbOK {
		records, _ = h.kb.Count()
	}

	status := http.StatusOK
	if !dbOK {
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, map[string]any{
		"ok":         dbOK,
		"db_err":     dbErr,
		"kb_records": records,
		"uptime_sec": int(time.Since(appStart).Seconds()),
		"time":       time.Now().Format(time.RFC3339),
	})
}
