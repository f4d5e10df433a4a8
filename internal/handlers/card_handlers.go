package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

func CreateCardHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var card models.Card
		if !bindJSON(c, &card) {
			return
		}
		card.UserID = userID(c)
		if err := card.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if !checkOwnership(c, db, accountRef(&card.AccountID)) {
			return
		}
		if err := database.CreateCard(c.Request.Context(), db, &card); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, card)
	}
}

func GetCardsHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		cards, err := database.GetCardsByUserID(c.Request.Context(), db, userID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, cards)
	}
}

func GetCardHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		card, err := database.GetCardByID(c.Request.Context(), db, userID(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, card)
	}
}

func UpdateCardHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var card models.Card
		if !bindJSON(c, &card) {
			return
		}
		card.ID = id
		card.UserID = userID(c)
		if err := card.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if !checkOwnership(c, db, accountRef(&card.AccountID)) {
			return
		}
		if err := database.UpdateCard(c.Request.Context(), db, &card); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, card)
	}
}

func DeleteCardHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := database.DeleteCard(c.Request.Context(), db, userID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
