package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/models"
)

func CreateCategoryHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var category models.Category
		if !bindJSON(c, &category) {
			return
		}
		category.UserID = userID(c)
		if err := category.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := database.CreateCategory(c.Request.Context(), db, &category); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func GetCategoriesHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := database.GetCategoriesByUserID(c.Request.Context(), db, userID(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}

func GetCategoryHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		category, err := database.GetCategoryByID(c.Request.Context(), db, userID(c), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func UpdateCategoryHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		var category models.Category
		if !bindJSON(c, &category) {
			return
		}
		category.ID = id
		category.UserID = userID(c)
		if err := category.Validate(); err != nil {
			respondError(c, err)
			return
		}
		if err := database.UpdateCategory(c.Request.Context(), db, &category); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func DeleteCategoryHandler(db database.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := paramID(c)
		if !ok {
			return
		}
		if err := database.DeleteCategory(c.Request.Context(), db, userID(c), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
