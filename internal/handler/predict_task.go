package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"price-forecast/internal/model"
)

// CreatePredictTask 创建批量预测任务
func (h *Handler) CreatePredictTask(c *gin.Context) {
	var req model.PredictTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	days := h.opts.DefaultDaysAhead
	if req.DaysAhead != nil {
		days = *req.DaysAhead
	}

	status, created, err := h.tasks.Create(req.Symbols, days, req.RequestID)
	if err != nil {
		h.writeError(c, err, "")
		return
	}
	code := http.StatusOK
	if created {
		code = http.StatusAccepted
	}
	c.JSON(code, status)
}

// GetPredictTask 查询任务状态
func (h *Handler) GetPredictTask(c *gin.Context) {
	status, err := h.tasks.Get(c.Param("task_id"))
	if err != nil {
		h.writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, status)
}

// CancelPredictTask 取消任务
func (h *Handler) CancelPredictTask(c *gin.Context) {
	status, err := h.tasks.Cancel(c.Param("task_id"))
	if err != nil {
		h.writeError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, status)
}
