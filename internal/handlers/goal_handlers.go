package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

func CreateGoalHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var goal models.Goal
		if !bindJSON(c, &goal) {
			return
		}
		goal.UserID = userID(c)
		goal.CurrentAmount = decimal.Zero
		if err := goal.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := database.CreateGoal(c.Request.Context(), db, &goal); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, goal)
	}
}

func GetGoalsHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		goals, err := database.GetAllGoals(c.Request.Context(), db, userID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, goals)
	}
}

func GetGoalHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		goal, err := database.GetGoalByID(c.Request.Context(), db, userID(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, goal)
	}
}

func UpdateGoalHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var goal models.Goal
		if !bindJSON(c, &goal) {
			return
		}
		goal.ID = id
		goal.UserID = userID(c)
		if err := goal.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := database.UpdateGoal(c.Request.Context(), db, &goal); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, goal)
	}
}

func DeleteGoalHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := database.DeleteGoal(c.Request.Context(), db, userID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// AddProgressHandler пополняет цель; при достижении суммы статус меняется на achieved.
func AddProgressHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var input struct {
			Amount decimal.Decimal `json:"amount"`
		}
		if !bindJSON(c, &input) {
			return
		}
		if !input.Amount.IsPositive() {
			badRequest(c, "Сумма пополнения должна быть положительной")
			return
		}

		goal, err := database.AddProgressToGoal(c.Request.Context(), db, userID(c), id, input.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, goal)
	}
}
