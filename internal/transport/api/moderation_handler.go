package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

type ModerationHandler struct {
	shopSvs ShopServicer
}

func NewModerationHandler(shopSvs ShopServicer) *ModerationHandler {
	return &ModerationHandler{
		shopSvs: shopSvs,
	}
}

type QuickEditRemoveParams struct {
	UserID   int64   `binding:"required,min=1"               json:"user_id"`
	EntryIDs []int64 `binding:"required,min=1,dive,min=1" json:"entry_ids"`
}

type RemovalOutcomeResponse struct {
	EntryID int64   `json:"entry_id"`
	ItemID  int64   `json:"item_id,omitempty"`
	Refund  float64 `json:"refund"`
	Error   string  `json:"error,omitempty"`
}

// QuickEditRemove POST RouteGroup + QuickEditRemoveRoute. Пакетное удаление
// записей инвентаря пользователя модератором. Ответ содержит исход по каждой
// записи, частичный успех — это 200.
func (h *ModerationHandler) QuickEditRemove(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params QuickEditRemoveParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	outcomes, err := h.shopSvs.QuickEditBatchRemove(reqCtx, currentUserID, params.UserID, params.EntryIDs)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	response := make([]RemovalOutcomeResponse, len(outcomes))
	for i, outcome := range outcomes {
		item := RemovalOutcomeResponse{
			EntryID: outcome.EntryID,
			ItemID:  outcome.ItemID,
			Refund:  outcome.Refund.InexactFloat64(),
		}
		if outcome.Err != nil {
			item.Error = outcome.Err.Error()
		}
		response[i] = item
	}
	c.JSON(http.StatusOK, response)
}
