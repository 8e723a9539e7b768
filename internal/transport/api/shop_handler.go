package api

import (
	"context"
	"net/http"

	"github.com/fsdevblog/groph-shop/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Значения метки operation в метриках.
const (
	opBuy  = "buy"
	opSell = "sell"
	opSend = "send"
)

type ShopHandler struct {
	shopSvs ShopServicer
	metrics *metrics.Metrics
}

func NewShopHandler(shopSvs ShopServicer, m *metrics.Metrics) *ShopHandler {
	return &ShopHandler{
		shopSvs: shopSvs,
		metrics: m,
	}
}

func (h *ShopHandler) incOperation(operation string, err error) {
	if h.metrics == nil {
		return
	}
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	h.metrics.IncOperation(operation, outcome)
}

type BuyParams struct {
	ItemID int64 `binding:"required,min=1" json:"item_id"`
}

type PurchaseResponse struct {
	EntryID   int64   `json:"entry_id"`
	ItemID    int64   `json:"item_id"`
	ItemName  string  `json:"item_name"`
	PricePaid float64 `json:"price_paid"`
	Balance   float64 `json:"balance"`
}

// Buy POST RouteGroup + BuyRoute. Покупка одного экземпляра предмета.
func (h *ShopHandler) Buy(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params BuyParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	receipt, err := h.shopSvs.Buy(reqCtx, currentUserID, params.ItemID)
	h.incOperation(opBuy, err)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, &PurchaseResponse{
		EntryID:   receipt.Entry.ID,
		ItemID:    receipt.Item.ID,
		ItemName:  receipt.Item.Name,
		PricePaid: receipt.PricePaid.InexactFloat64(),
		Balance:   receipt.Balance.InexactFloat64(),
	})
}

type SellParams struct {
	ItemID int64 `binding:"required,min=1" json:"item_id"`
}

type SaleResponse struct {
	ItemID   int64   `json:"item_id"`
	ItemName string  `json:"item_name"`
	Amount   float64 `json:"amount"`
	Balance  float64 `json:"balance"`
}

// Sell POST RouteGroup + SellRoute. Продажа самого старого экземпляра предмета.
func (h *ShopHandler) Sell(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params SellParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	receipt, err := h.shopSvs.Sell(reqCtx, currentUserID, params.ItemID)
	h.incOperation(opSell, err)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, &SaleResponse{
		ItemID:   receipt.Item.ID,
		ItemName: receipt.Item.Name,
		Amount:   receipt.Amount.InexactFloat64(),
		Balance:  receipt.Balance.InexactFloat64(),
	})
}

type SendParams struct {
	ItemID   int64  `binding:"required,min=1"              json:"item_id"`
	Username string `binding:"required,max_bytes=360" json:"username"`
}

type TransferResponse struct {
	ItemID            int64  `json:"item_id"`
	ItemName          string `json:"item_name"`
	RecipientID       int64  `json:"recipient_id"`
	RecipientUsername string `json:"recipient_username"`
}

// Send POST RouteGroup + SendRoute. Передача предмета другому пользователю.
func (h *ShopHandler) Send(c *gin.Context) {
	currentUserID := getUserIDFromContext(c)

	var params SendParams
	if bindErr := c.ShouldBindJSON(&params); bindErr != nil {
		_ = c.AbortWithError(http.StatusBadRequest, bindErr).SetType(gin.ErrorTypeBind)
		return
	}

	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	receipt, err := h.shopSvs.Send(reqCtx, currentUserID, params.ItemID, params.Username)
	h.incOperation(opSend, err)
	if err != nil {
		abortWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, &TransferResponse{
		ItemID:            receipt.Item.ID,
		ItemName:          receipt.Item.Name,
		RecipientID:       receipt.Recipient.ID,
		RecipientUsername: receipt.Recipient.Username,
	})
}
