package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

// GetUserSettingsHandler возвращает настройки; если их нет, отдаются значения по умолчанию.
func GetUserSettingsHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings, err := database.GetUserSettingsByID(c.Request.Context(), db, userID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}

func UpdateUserSettingsHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		settings := models.DefaultUserSettings(userID(c))
		if !bindJSON(c, &settings) {
			return
		}
		settings.UserID = userID(c)
		settings.Currency = strings.ToUpper(settings.Currency)

		if len(settings.Currency) != 3 {
			badRequest(c, "Код валюты должен состоять из трех букв")
			return
		}
		if settings.MaxPerHour < 0 || settings.MaxPerDay < 0 {
			badRequest(c, "Лимиты уведомлений не могут быть отрицательными")
			return
		}
		for _, h := range []*int{settings.QuietHoursStart, settings.QuietHoursEnd} {
			if h != nil && (*h < 0 || *h > 23) {
				badRequest(c, "Тихие часы должны быть в диапазоне 0-23")
				return
			}
		}

		if err := database.UpsertUserSettings(c.Request.Context(), db, &settings); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, settings)
	}
}
