package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

func CreateBudgetHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var budget models.Budget
		if !bindJSON(c, &budget) {
			return
		}
		budget.UserID = userID(c)
		if err := budget.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if !checkOwnership(c, db, categoryRef(&budget.CategoryID)) {
			return
		}
		if err := database.CreateBudget(c.Request.Context(), db, &budget); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, budget)
	}
}

func GetBudgetsHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		budgets, err := database.GetBudgetsByUserID(c.Request.Context(), db, userID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, budgets)
	}
}

func GetBudgetHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		budget, err := database.GetBudgetByID(c.Request.Context(), db, userID(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, budget)
	}
}

func UpdateBudgetHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var budget models.Budget
		if !bindJSON(c, &budget) {
			return
		}
		budget.ID = id
		budget.UserID = userID(c)
		if err := budget.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if !checkOwnership(c, db, categoryRef(&budget.CategoryID)) {
			return
		}
		if err := database.UpdateBudget(c.Request.Context(), db, &budget); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, budget)
	}
}

func DeleteBudgetHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := database.DeleteBudget(c.Request.Context(), db, userID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// GetBudgetStatusesHandler возвращает бюджеты с потраченной суммой на дату at (по умолчанию сегодня).
func GetBudgetStatusesHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		at, err := queryDate(c, "at")
		if err != nil {
			badRequest(c, "Некорректная дата at")
			return
		}
		if at.IsZero() {
			at = time.Now()
		}
		statuses, err := database.GetBudgetStatuses(c.Request.Context(), db, userID(c), at)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, statuses)
	}
}
