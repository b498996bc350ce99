package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"price-forecast/internal/model"
	"price-forecast/internal/stockdata"
)

// Predict 单只股票预测
func (h *Handler) Predict(c *gin.Context) {
	var req model.PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	days := h.opts.DefaultDaysAhead
	if req.DaysAhead != nil {
		days = *req.DaysAhead
	}

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.predictor.Predict(ctx, req.Symbol, days)
	if err != nil {
		h.writeError(c, err, stockdata.NormalizeSymbol(req.Symbol))
		return
	}
	c.JSON(http.StatusOK, resp)
}
