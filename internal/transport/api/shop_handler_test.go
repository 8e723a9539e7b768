package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/logger"
	"github.com/fsdevblog/groph-shop/internal/service"
	"github.com/fsdevblog/groph-shop/internal/transport/api/mocks"
	"github.com/fsdevblog/groph-shop/internal/transport/api/testutils"
	"github.com/fsdevblog/groph-shop/internal/transport/api/tokens"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type ShopHandlerTestSuite struct {
	suite.Suite
	router          *gin.Engine
	mockShopService *mocks.MockShopServicer
	jwtSecret       []byte
}

func TestShopHandlerSuite(t *testing.T) {
	suite.Run(t, new(ShopHandlerTestSuite))
}

func (s *ShopHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockShopService = mocks.NewMockShopServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	router, err := New(RouterArgs{
		Logger:       logger.New(os.Stdout),
		ShopService:  s.mockShopService,
		JWTSecretKey: s.jwtSecret,
	})
	s.Require().NoError(err)
	s.router = router
}

func (s *ShopHandlerTestSuite) userToken(userID, usergroupID int64) string {
	token, err := tokens.GenerateUserJWT(userID, usergroupID, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

func (s *ShopHandlerTestSuite) postJSON(route, jwtToken string, payload []byte) *http.Response {
	args := testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodPost,
		URL:    RouteGroup + route,
		Body:   bytes.NewReader(payload),
	}
	var reqOpts []func(*testutils.RequestOptions)
	if jwtToken != "" {
		authHeader := fmt.Sprintf("Bearer %s", jwtToken)
		reqOpts = append(reqOpts, testutils.WithHeader("Authorization", authHeader))
	}
	reqOpts = append(reqOpts, testutils.WithHeader("Content-Type", "application/json; charset=utf-8"))
	res, err := testutils.MakeRequest(args, reqOpts...)
	s.Require().NoError(err)
	return res
}

func (s *ShopHandlerTestSuite) TestBuy() {
	var currentUserID int64 = 1
	jwtToken := s.userToken(currentUserID, 2)

	itemName := gofakeit.ProductName()
	okItemID := int64(10)
	brokeItemID := int64(11)
	soldOutItemID := int64(12)
	limitedItemID := int64(13)
	missingItemID := int64(14)
	busyItemID := int64(15)

	// Моки
	s.mockShopService.EXPECT().
		Buy(gomock.Any(), currentUserID, okItemID).
		Return(&service.PurchaseReceipt{
			Item:      &domain.Item{ID: okItemID, Name: itemName},
			Entry:     &domain.InventoryEntry{ID: 100, UserID: currentUserID, ItemID: okItemID},
			PricePaid: decimal.NewFromInt(100),
			Balance:   decimal.NewFromInt(150),
		}, nil).Times(1)
	s.mockShopService.EXPECT().
		Buy(gomock.Any(), currentUserID, brokeItemID).
		Return(nil, domain.ErrInsufficientFunds).Times(1)
	s.mockShopService.EXPECT().
		Buy(gomock.Any(), currentUserID, soldOutItemID).
		Return(nil, domain.ErrOutOfStock).Times(1)
	s.mockShopService.EXPECT().
		Buy(gomock.Any(), currentUserID, limitedItemID).
		Return(nil, &domain.LimitReachedError{ItemID: limitedItemID, Limit: 1, Owned: 1}).Times(1)
	s.mockShopService.EXPECT().
		Buy(gomock.Any(), currentUserID, missingItemID).
		Return(nil, domain.ErrItemNotFound).Times(1)
	s.mockShopService.EXPECT().
		Buy(gomock.Any(), currentUserID, busyItemID).
		Return(nil, errors.Join(domain.ErrBusy, uow.ErrSerializationFailure)).Times(1)

	cases := []struct {
		name       string
		payload    []byte
		wantStatus int
		jwtToken   string
	}{
		{
			name:       "all ok",
			payload:    []byte(fmt.Sprintf(`{"item_id":%d}`, okItemID)),
			wantStatus: http.StatusOK,
			jwtToken:   jwtToken,
		}, {
			name:       "insufficient funds",
			payload:    []byte(fmt.Sprintf(`{"item_id":%d}`, brokeItemID)),
			wantStatus: http.StatusPaymentRequired,
			jwtToken:   jwtToken,
		}, {
			name:       "out of stock",
			payload:    []byte(fmt.Sprintf(`{"item_id":%d}`, soldOutItemID)),
			wantStatus: http.StatusConflict,
			jwtToken:   jwtToken,
		}, {
			name:       "limit reached",
			payload:    []byte(fmt.Sprintf(`{"item_id":%d}`, limitedItemID)),
			wantStatus: http.StatusConflict,
			jwtToken:   jwtToken,
		}, {
			name:       "item not found",
			payload:    []byte(fmt.Sprintf(`{"item_id":%d}`, missingItemID)),
			wantStatus: http.StatusNotFound,
			jwtToken:   jwtToken,
		}, {
			name:       "busy",
			payload:    []byte(fmt.Sprintf(`{"item_id":%d}`, busyItemID)),
			wantStatus: http.StatusServiceUnavailable,
			jwtToken:   jwtToken,
		}, {
			name:       "not authorized",
			payload:    []byte(`{"item_id":10}`),
			wantStatus: http.StatusUnauthorized,
		}, {
			name:       "bad payload",
			payload:    []byte(`{"item_id":0}`),
			wantStatus: http.StatusBadRequest,
			jwtToken:   jwtToken,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res := s.postJSON(BuyRoute, t.jwtToken, t.payload)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body PurchaseResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.Equal(int64(100), body.EntryID)
				s.Equal(itemName, body.ItemName)
				s.InDelta(100, body.PricePaid, 0.0001)
				s.InDelta(150, body.Balance, 0.0001)
			}
		})
	}
}

func (s *ShopHandlerTestSuite) TestSell() {
	var currentUserID int64 = 1
	jwtToken := s.userToken(currentUserID, 2)

	okItemID := int64(10)
	keepsakeItemID := int64(11)
	notOwnedItemID := int64(12)

	s.mockShopService.EXPECT().
		Sell(gomock.Any(), currentUserID, okItemID).
		Return(&service.SaleReceipt{
			Item:    &domain.Item{ID: okItemID, Name: gofakeit.ProductName()},
			Amount:  decimal.NewFromInt(90),
			Balance: decimal.NewFromInt(340),
		}, nil).Times(1)
	s.mockShopService.EXPECT().
		Sell(gomock.Any(), currentUserID, keepsakeItemID).
		Return(nil, domain.ErrNotSellable).Times(1)
	s.mockShopService.EXPECT().
		Sell(gomock.Any(), currentUserID, notOwnedItemID).
		Return(nil, domain.ErrNotOwned).Times(1)

	cases := []struct {
		name       string
		payload    []byte
		wantStatus int
		jwtToken   string
	}{
		{
			name:       "all ok",
			payload:    []byte(fmt.Sprintf(`{"item_id":%d}`, okItemID)),
			wantStatus: http.StatusOK,
			jwtToken:   jwtToken,
		}, {
			name:       "not sellable",
			payload:    []byte(fmt.Sprintf(`{"item_id":%d}`, keepsakeItemID)),
			wantStatus: http.StatusConflict,
			jwtToken:   jwtToken,
		}, {
			name:       "not owned",
			payload:    []byte(fmt.Sprintf(`{"item_id":%d}`, notOwnedItemID)),
			wantStatus: http.StatusConflict,
			jwtToken:   jwtToken,
		}, {
			name:       "not authorized",
			payload:    []byte(`{"item_id":10}`),
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res := s.postJSON(SellRoute, t.jwtToken, t.payload)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body SaleResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.InDelta(90, body.Amount, 0.0001)
				s.InDelta(340, body.Balance, 0.0001)
			}
		})
	}
}

func (s *ShopHandlerTestSuite) TestSend() {
	var currentUserID int64 = 1
	jwtToken := s.userToken(currentUserID, 2)

	recipient := &domain.User{ID: 77, Username: gofakeit.Username()}
	okItemID := int64(10)
	boundItemID := int64(11)
	strangerItemID := int64(12)

	s.mockShopService.EXPECT().
		Send(gomock.Any(), currentUserID, okItemID, recipient.Username).
		Return(&service.TransferReceipt{
			Item:      &domain.Item{ID: okItemID, Name: gofakeit.ProductName()},
			Entry:     &domain.InventoryEntry{ID: 5, UserID: recipient.ID, ItemID: okItemID},
			Recipient: recipient,
		}, nil).Times(1)
	s.mockShopService.EXPECT().
		Send(gomock.Any(), currentUserID, boundItemID, recipient.Username).
		Return(nil, domain.ErrNotSendable).Times(1)
	s.mockShopService.EXPECT().
		Send(gomock.Any(), currentUserID, strangerItemID, "nobody").
		Return(nil, domain.ErrInvalidRecipient).Times(1)

	cases := []struct {
		name       string
		payload    []byte
		wantStatus int
		jwtToken   string
	}{
		{
			name:       "all ok",
			payload:    []byte(fmt.Sprintf(`{"item_id":%d,"username":%q}`, okItemID, recipient.Username)),
			wantStatus: http.StatusOK,
			jwtToken:   jwtToken,
		}, {
			name:       "not sendable",
			payload:    []byte(fmt.Sprintf(`{"item_id":%d,"username":%q}`, boundItemID, recipient.Username)),
			wantStatus: http.StatusConflict,
			jwtToken:   jwtToken,
		}, {
			name:       "unknown recipient",
			payload:    []byte(fmt.Sprintf(`{"item_id":%d,"username":"nobody"}`, strangerItemID)),
			wantStatus: http.StatusConflict,
			jwtToken:   jwtToken,
		}, {
			name:       "missing username",
			payload:    []byte(`{"item_id":10}`),
			wantStatus: http.StatusBadRequest,
			jwtToken:   jwtToken,
		}, {
			name:       "not authorized",
			payload:    []byte(`{"item_id":10,"username":"friend"}`),
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res := s.postJSON(SendRoute, t.jwtToken, t.payload)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body TransferResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.Equal(recipient.ID, body.RecipientID)
				s.Equal(recipient.Username, body.RecipientUsername)
			}
		})
	}
}
