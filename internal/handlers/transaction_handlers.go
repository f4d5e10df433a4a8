package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

func CreateTransactionHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var transaction models.Transaction
		if !bindJSON(c, &transaction) {
			return
		}
		transaction.UserID = userID(c)
		transaction.ExternalID = nil
		if transaction.Currency == "" {
			transaction.Currency = "USD"
		}
		if err := transaction.Validate(); err != nil {
			respondError(c, err)
			return
		}

		if !checkOwnership(c, db, accountRef(transaction.AccountID), cardRef(transaction.CardID),
			contactRef(transaction.ContactID), categoryRef(transaction.CategoryID)) {
			return
		}

		if err := database.CreateTransaction(c.Request.Context(), db, &transaction); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, transaction)
	}
}

// GetTransactionsHandler поддерживает фильтры account_id, category_id, type, from, to, limit, offset.
func GetTransactionsHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.TransactionFilter{UserID: userID(c), Type: strings.ToLower(c.Query("type"))}

		for name, dst := range map[string]**int{"account_id": &filter.AccountID, "category_id": &filter.CategoryID} {
			v, err := queryInt(c, name, 0)
			if err != nil {
				badRequest(c, "Некорректный параметр "+name)
				return
			}
			if v > 0 {
				*dst = &v
			}
		}

		var err error
		if filter.From, err = queryDate(c, "from"); err != nil {
			badRequest(c, "Некорректная дата from")
			return
		}
		if filter.To, err = queryDate(c, "to"); err != nil {
			badRequest(c, "Некорректная дата to")
			return
		}
		if filter.Limit, err = queryInt(c, "limit", 100); err != nil {
			badRequest(c, "Некорректный limit")
			return
		}
		if filter.Offset, err = queryInt(c, "offset", 0); err != nil {
			badRequest(c, "Некорректный offset")
			return
		}

		transactions, err := database.GetTransactions(c.Request.Context(), db, filter)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, transactions)
	}
}

func GetTransactionHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		transaction, err := database.GetTransactionByID(c.Request.Context(), db, userID(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, transaction)
	}
}

func UpdateTransactionHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var transaction models.Transaction
		if !bindJSON(c, &transaction) {
			return
		}
		transaction.ID = id
		transaction.UserID = userID(c)
		if transaction.Currency == "" {
			transaction.Currency = "USD"
		}
		if err := transaction.Validate(); err != nil {
			respondError(c, err)
			return
		}

		if !checkOwnership(c, db, accountRef(transaction.AccountID), cardRef(transaction.CardID),
			contactRef(transaction.ContactID), categoryRef(transaction.CategoryID)) {
			return
		}

		if err := database.UpdateTransaction(c.Request.Context(), db, &transaction); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, transaction)
	}
}

func DeleteTransactionHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := database.DeleteTransaction(c.Request.Context(), db, userID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
