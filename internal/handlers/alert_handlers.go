package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

// AlertScanner evaluates alert rules for a user on demand.
type AlertScanner interface {
	ScanUser(ctx context.Context, userID int) ([]models.Alert, error)
}

func GetAlertsHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		all := c.Query("include_dismissed") == "true"
		alerts, err := database.GetAlertsByUserID(c.Request.Context(), db, userID(c), all)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, alerts)
	}
}

func DismissAlertHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := database.DismissAlert(c.Request.Context(), db, userID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ScanAlertsHandler запускает проверку правил немедленно и возвращает только новые алерты.
func ScanAlertsHandler(scanner AlertScanner) gin.HandlerFunc {
	return func(c *gin.Context) {
		created, err := scanner.ScanUser(c.Request.Context(), userID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		if created == nil {
			created = []models.Alert{}
		}
		c.JSON(http.StatusOK, gin.H{"created": created})
	}
}
