package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

func CreatePaymentReminderHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var reminder models.PaymentReminder
		if !bindJSON(c, &reminder) {
			return
		}
		reminder.UserID = userID(c)
		if err := reminder.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := database.CreatePaymentReminder(c.Request.Context(), db, &reminder); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, reminder)
	}
}

func GetPaymentRemindersHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		reminders, err := database.GetPaymentRemindersByUserID(c.Request.Context(), db, userID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reminders)
	}
}

func GetPaymentReminderHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		reminder, err := database.GetPaymentReminderByID(c.Request.Context(), db, userID(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reminder)
	}
}

func UpdatePaymentReminderHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var reminder models.PaymentReminder
		if !bindJSON(c, &reminder) {
			return
		}
		reminder.ID = id
		reminder.UserID = userID(c)
		if err := reminder.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := database.UpdatePaymentReminder(c.Request.Context(), db, &reminder); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, reminder)
	}
}

func DeletePaymentReminderHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := database.DeletePaymentReminder(c.Request.Context(), db, userID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
