package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct {
	auditSvs AuditServicer
}

func NewStatsHandler(auditSvs AuditServicer) *StatsHandler {
	return &StatsHandler{
		auditSvs: auditSvs,
	}
}

type PurchaseRecordResponse struct {
	UserID    int64   `json:"user_id"`
	ItemID    int64   `json:"item_id"`
	Amount    float64 `json:"amount"`
	CreatedAt string  `json:"created_at"`
}

// RecentPurchases GET RouteGroup + StatsPurchasesRoute. Последние покупки
// магазина, от новых к старым.
func (h *StatsHandler) RecentPurchases(c *gin.Context) {
	limit, parseErr := strconv.ParseUint(c.DefaultQuery("limit", "0"), 10, 32)
	if parseErr != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	records, err := h.auditSvs.RecentPurchases(reqCtx, uint(limit))
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	response := make([]PurchaseRecordResponse, len(records))
	for i, record := range records {
		response[i] = PurchaseRecordResponse{
			UserID:    record.ActorID,
			ItemID:    record.ItemID,
			Amount:    record.Amount.InexactFloat64(),
			CreatedAt: record.CreatedAt.Format(time.RFC3339),
		}
	}
	c.JSON(http.StatusOK, response)
}
