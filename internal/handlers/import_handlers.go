package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/valeriaulyamaeva/neofin/internal/importer"
	"github.com/valeriaulyamaeva/neofin/internal/jobs"
)

// CreateImportHandler ставит импорт выписки в очередь и сразу отвечает 202 с ID задачи.
func CreateImportHandler(queue jobs.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req importer.Request
		if !bindJSON(c, &req) {
			return
		}
		req.UserID = userID(c)

		job := &jobs.Job{
			Type:    jobs.JobTypeImportStatement,
			UserID:  req.UserID,
			Payload: req,
		}
		if err := queue.Publish(c.Request.Context(), job); err != nil {
			respondError(c, err)
			return
		}
		accepted := *job
		c.Header("Location", fmt.Sprintf("/imports/%s", accepted.ID))
		c.JSON(http.StatusAccepted, accepted)
	}
}

func GetImportHandler(store jobs.JobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		job, err := store.GetJob(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		// Чужие задачи не раскрываем.
		if job.UserID != userID(c) {
			respondError(c, jobs.ErrJobNotFound)
			return
		}
		c.JSON(http.StatusOK, job)
	}
}

func GetImportsHandler(store jobs.JobStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := queryInt(c, "limit", 20)
		if err != nil {
			badRequest(c, "Некорректный limit")
			return
		}
		list, err := store.ListJobs(c.Request.Context(), jobs.JobFilter{
			UserID: userID(c),
			Type:   jobs.JobTypeImportStatement,
			Status: jobs.JobStatus(c.Query("status")),
			Limit:  limit,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		if list == nil {
			list = []*jobs.Job{}
		}
		c.JSON(http.StatusOK, list)
	}
}
