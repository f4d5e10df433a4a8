package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

func CreateContactHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var contact models.Contact
		if !bindJSON(c, &contact) {
			return
		}
		contact.UserID = userID(c)
		if err := contact.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := database.CreateContact(c.Request.Context(), db, &contact); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, contact)
	}
}

func GetContactsHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		contacts, err := database.GetContactsByUserID(c.Request.Context(), db, userID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, contacts)
	}
}

func GetContactHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		contact, err := database.GetContactByID(c.Request.Context(), db, userID(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, contact)
	}
}

func UpdateContactHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var contact models.Contact
		if !bindJSON(c, &contact) {
			return
		}
		contact.ID = id
		contact.UserID = userID(c)
		if err := contact.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := database.UpdateContact(c.Request.Context(), db, &contact); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, contact)
	}
}

func DeleteContactHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := database.DeleteContact(c.Request.Context(), db, userID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
