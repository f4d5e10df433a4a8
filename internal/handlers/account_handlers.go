package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

func CreateAccountHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var account models.Account
		if !bindJSON(c, &account) {
			return
		}
		account.UserID = userID(c)
		if account.Currency == "" {
			account.Currency = "USD"
		}
		if err := account.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := database.CreateAccount(c.Request.Context(), db, &account); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, account)
	}
}

func GetAccountsHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		accounts, err := database.GetAccountsByUserID(c.Request.Context(), db, userID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, accounts)
	}
}

func GetAccountHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		account, err := database.GetAccountByID(c.Request.Context(), db, userID(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

func UpdateAccountHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var account models.Account
		if !bindJSON(c, &account) {
			return
		}
		account.ID = id
		account.UserID = userID(c)
		if err := account.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := database.UpdateAccount(c.Request.Context(), db, &account); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, account)
	}
}

func DeleteAccountHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := database.DeleteAccount(c.Request.Context(), db, userID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
