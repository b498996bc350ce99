package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"price-forecast/internal/stockdata"
)

// GetStocks 获取股票列表，支持关键字过滤
func (h *Handler) GetStocks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"stocks": h.stocks.SearchStocks(c.Query("keyword")),
	})
}

// GetHistory 获取清洗后的历史日线，refresh=1 跳过缓存
func (h *Handler) GetHistory(c *gin.Context) {
	symbol := stockdata.NormalizeSymbol(c.Param("symbol"))
	refresh := c.Query("refresh") == "1"

	ctx, cancel := h.requestContext(c)
	defer cancel()

	resp, err := h.predictor.History(ctx, symbol, refresh)
	if err != nil {
		h.writeError(c, err, symbol)
		return
	}
	c.JSON(http.StatusOK, resp)
}
