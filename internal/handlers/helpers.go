package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/database"
	"github.com/valeriaulyamaeva/neofin/internal/jobs"
	"github.com/valeriaulyamaeva/neofin/internal/logger"
	"github.com/valeriaulyamaeva/neofin/internal/middleware"
	"github.com/valeriaulyamaeva/neofin/internal/notify"
	"github.com/valeriaulyamaeva/neofin/models"
	"github.com/valeriaulyamaeva/neofin/utils"
)

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrValidation), errors.Is(err, utils.ErrUnknownCurrency):
		return http.StatusBadRequest
	case errors.Is(err, database.ErrNotFound), errors.Is(err, jobs.ErrJobNotFound):
		return http.StatusNotFound
	case errors.Is(err, notify.ErrThrottled):
		return http.StatusTooManyRequests
	case errors.Is(err, jobs.ErrQueueClosed):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes {"error": ...}. Internal errors are logged and not
// exposed to the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		l := logger.FromContext(c.Request.Context())
		l.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		msg = "Внутренняя ошибка сервера"
	}
	c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

// paramID reads the :id path parameter.
func paramID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		badRequest(c, "Некорректный ID")
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		badRequest(c, "Некорректный формат ввода: "+err.Error())
		return false
	}
	return true
}

func userID(c *gin.Context) int {
	return middleware.CurrentUser(c)
}

// queryInt returns def when the parameter is absent.
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

// queryDate accepts YYYY-MM-DD or RFC 3339.
func queryDate(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// reference is an ID from a request body that must belong to the caller.
type reference struct {
	id     *int
	lookup func(ctx context.Context, db database.Querier, userID, id int) error
}

func accountRef(id *int) reference {
	return reference{id, func(ctx context.Context, db database.Querier, userID, id int) error {
		_, err := database.GetAccountByID(ctx, db, userID, id)
		return err
	}}
}

func cardRef(id *int) reference {
	return reference{id, func(ctx context.Context, db database.Querier, userID, id int) error {
		_, err := database.GetCardByID(ctx, db, userID, id)
		return err
	}}
}

func contactRef(id *int) reference {
	return reference{id, func(ctx context.Context, db database.Querier, userID, id int) error {
		_, err := database.GetContactByID(ctx, db, userID, id)
		return err
	}}
}

func categoryRef(id *int) reference {
	return reference{id, func(ctx context.Context, db database.Querier, userID, id int) error {
		_, err := database.GetCategoryByID(ctx, db, userID, id)
		return err
	}}
}

// checkOwnership responds 404 when a referenced record is missing or
// belongs to another user. Nil references are skipped.
func checkOwnership(c *gin.Context, db database.Querier, refs ...reference) bool {
	for _, ref := range refs {
		if ref.id == nil {
			continue
		}
		if err := ref.lookup(c.Request.Context(), db, userID(c), *ref.id); err != nil {
			respondError(c, err)
			return false
		}
	}
	return true
}
