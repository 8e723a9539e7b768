package api

import (
	"errors"
	"net/http"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/service"
	"github.com/fsdevblog/groph-shop/internal/transport/api/middlewares"
	"github.com/gin-gonic/gin"
)

func getUserIDFromContext(c *gin.Context) int64 {
	return c.GetInt64(middlewares.CurrentUserIDKey)
}

func getRequesterFromContext(c *gin.Context) service.Requester {
	return service.Requester{
		UserID:      c.GetInt64(middlewares.CurrentUserIDKey),
		UsergroupID: c.GetInt64(middlewares.CurrentUsergroupIDKey),
	}
}

// abortWithDomainError транслирует доменную ошибку в http статус. Неизвестные
// ошибки уходят в лог как приватные и наружу отдаются пятисоткой.
func abortWithDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInsufficientFunds):
		abortPublic(c, http.StatusPaymentRequired, "insufficient funds")
	case errors.Is(err, domain.ErrPermissionDenied):
		abortPublic(c, http.StatusForbidden, "access denied")
	case errors.Is(err, domain.ErrItemNotFound):
		abortPublic(c, http.StatusNotFound, "item not found")
	case errors.Is(err, domain.ErrCategoryNotFound):
		abortPublic(c, http.StatusNotFound, "category not found")
	case errors.Is(err, domain.ErrRecordNotFound):
		abortPublic(c, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrOutOfStock):
		abortPublic(c, http.StatusConflict, "item is out of stock")
	case errors.Is(err, domain.ErrLimitReached):
		abortPublic(c, http.StatusConflict, "ownership limit reached")
	case errors.Is(err, domain.ErrNotOwned):
		abortPublic(c, http.StatusConflict, "item is not owned")
	case errors.Is(err, domain.ErrNotSellable):
		abortPublic(c, http.StatusConflict, "item can not be sold")
	case errors.Is(err, domain.ErrNotSendable):
		abortPublic(c, http.StatusConflict, "item can not be sent")
	case errors.Is(err, domain.ErrInvalidRecipient):
		abortPublic(c, http.StatusConflict, "invalid recipient")
	case errors.Is(err, domain.ErrBusy):
		abortPublic(c, http.StatusServiceUnavailable, "try again later")
	default:
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
	}
}

func abortPublic(c *gin.Context, status int, msg string) {
	_ = c.AbortWithError(status, errors.New(msg)).SetType(gin.ErrorTypePublic)
}
