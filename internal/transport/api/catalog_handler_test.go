package api

import (
	"encoding/json"
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
	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type CatalogHandlerTestSuite struct {
	suite.Suite
	router             *gin.Engine
	mockCatalogService *mocks.MockCatalogServicer
	jwtSecret          []byte
}

func TestCatalogHandlerSuite(t *testing.T) {
	suite.Run(t, new(CatalogHandlerTestSuite))
}

func (s *CatalogHandlerTestSuite) SetupTest() {
	mockCtrl := gomock.NewController(s.T())
	defer mockCtrl.Finish()

	s.mockCatalogService = mocks.NewMockCatalogServicer(mockCtrl)
	s.jwtSecret = []byte("super secret key")

	router, err := New(RouterArgs{
		Logger:         logger.New(os.Stdout),
		CatalogService: s.mockCatalogService,
		JWTSecretKey:   s.jwtSecret,
	})
	s.Require().NoError(err)
	s.router = router
}

func (s *CatalogHandlerTestSuite) userToken(userID, usergroupID int64) string {
	token, err := tokens.GenerateUserJWT(userID, usergroupID, time.Hour, s.jwtSecret)
	s.Require().NoError(err)
	return token
}

func (s *CatalogHandlerTestSuite) get(url, jwtToken string) *http.Response {
	args := testutils.RequestArgs{
		Router: s.router,
		Method: http.MethodGet,
		URL:    url,
	}
	var reqOpts []func(*testutils.RequestOptions)
	if jwtToken != "" {
		authHeader := fmt.Sprintf("Bearer %s", jwtToken)
		reqOpts = append(reqOpts, testutils.WithHeader("Authorization", authHeader))
	}
	res, err := testutils.MakeRequest(args, reqOpts...)
	s.Require().NoError(err)
	return res
}

func (s *CatalogHandlerTestSuite) TestCategories() {
	requester := service.Requester{UserID: 1, UsergroupID: 2}
	jwtToken := s.userToken(requester.UserID, requester.UsergroupID)

	categories := []service.CategoryView{
		{ID: 1, Name: gofakeit.ProductCategory(), ItemsCount: 5},
		{ID: 2, Name: gofakeit.ProductCategory(), IsExpanded: true, ItemsCount: 2},
	}
	s.mockCatalogService.EXPECT().
		ListCategories(gomock.Any(), requester).
		Return(categories, nil).Times(1)

	cases := []struct {
		name       string
		jwtToken   string
		wantStatus int
	}{
		{
			name:       "all ok",
			jwtToken:   jwtToken,
			wantStatus: http.StatusOK,
		}, {
			name:       "not authorized",
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res := s.get(RouteGroup+CategoriesRoute, t.jwtToken)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body []CategoryResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.Require().Len(body, 2)
				s.Equal(categories[0].Name, body[0].Name)
				s.Equal(int64(5), body[0].ItemsCount)
				s.True(body[1].IsExpanded)
			}
		})
	}
}

func (s *CatalogHandlerTestSuite) TestShow() {
	requester := service.Requester{UserID: 1, UsergroupID: 2}
	jwtToken := s.userToken(requester.UserID, requester.UsergroupID)

	item := &service.ItemView{
		ID:         10,
		CategoryID: 1,
		Name:       gofakeit.ProductName(),
		Price:      decimal.NewFromInt(150),
		Stock:      "3",
		IsVisible:  true,
		IsSellable: true,
	}
	s.mockCatalogService.EXPECT().
		GetItem(gomock.Any(), requester, item.ID).
		Return(item, nil).Times(1)
	s.mockCatalogService.EXPECT().
		GetItem(gomock.Any(), requester, int64(999)).
		Return(nil, domain.ErrItemNotFound).Times(1)

	cases := []struct {
		name       string
		url        string
		jwtToken   string
		wantStatus int
	}{
		{
			name:       "all ok",
			url:        RouteGroup + "/items/10",
			jwtToken:   jwtToken,
			wantStatus: http.StatusOK,
		}, {
			name:       "not found",
			url:        RouteGroup + "/items/999",
			jwtToken:   jwtToken,
			wantStatus: http.StatusNotFound,
		}, {
			name:       "bad id",
			url:        RouteGroup + "/items/abc",
			jwtToken:   jwtToken,
			wantStatus: http.StatusBadRequest,
		}, {
			name:       "not authorized",
			url:        RouteGroup + "/items/10",
			wantStatus: http.StatusUnauthorized,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res := s.get(t.url, t.jwtToken)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body ItemResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.Equal(item.Name, body.Name)
				s.InDelta(150, body.Price, 0.0001)
				s.Equal("3", body.Stock)
			}
		})
	}
}

func (s *CatalogHandlerTestSuite) TestCategoryItems() {
	requester := service.Requester{UserID: 1, UsergroupID: 2}
	jwtToken := s.userToken(requester.UserID, requester.UsergroupID)

	page := &service.ItemsPageView{
		CategoryID: 1,
		Page:       2,
		TotalPages: 3,
		Total:      25,
		Items: []service.ItemView{
			{ID: 10, CategoryID: 1, Name: gofakeit.ProductName(), Price: decimal.NewFromInt(100), Stock: domain.StockInfinite},
		},
	}
	// номер страницы пробрасывается из query-параметра
	s.mockCatalogService.EXPECT().
		ListItems(gomock.Any(), requester, int64(1), uint(2)).
		Return(page, nil).Times(1)
	s.mockCatalogService.EXPECT().
		ListItems(gomock.Any(), requester, int64(999), uint(1)).
		Return(nil, domain.ErrCategoryNotFound).Times(1)

	cases := []struct {
		name       string
		url        string
		wantStatus int
	}{
		{
			name:       "all ok",
			url:        RouteGroup + "/categories/1/items?page=2",
			wantStatus: http.StatusOK,
		}, {
			name:       "category not found",
			url:        RouteGroup + "/categories/999/items",
			wantStatus: http.StatusNotFound,
		},
	}
	for _, t := range cases {
		s.Run(t.name, func() {
			res := s.get(t.url, jwtToken)
			defer func() {
				closeErr := res.Body.Close()
				s.Require().NoError(closeErr)
			}()
			s.Equal(t.wantStatus, res.StatusCode)

			if t.wantStatus == http.StatusOK {
				var body ItemsPageResponse
				s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
				s.Equal(uint(2), body.Page)
				s.Equal(uint(3), body.TotalPages)
				s.Require().Len(body.Items, 1)
				s.Equal(domain.StockInfinite, body.Items[0].Stock)
			}
		})
	}
}

func (s *CatalogHandlerTestSuite) TestMyItems() {
	requester := service.Requester{UserID: 1, UsergroupID: 2}
	jwtToken := s.userToken(requester.UserID, requester.UsergroupID)

	acquiredAt := time.Now().Add(-time.Hour)
	page := &service.InventoryPageView{
		UserID:     requester.UserID,
		Page:       1,
		TotalPages: 1,
		Total:      1,
		Entries: []service.InventoryEntryView{
			{
				EntryID:    100,
				ItemID:     10,
				ItemName:   gofakeit.ProductName(),
				PricePaid:  decimal.NewFromInt(100),
				IsVisible:  true,
				AcquiredAt: acquiredAt,
			},
		},
	}
	s.mockCatalogService.EXPECT().
		ListUserInventory(gomock.Any(), requester, requester.UserID, uint(1)).
		Return(page, nil).Times(1)

	res := s.get(RouteGroup+MyItemsRoute, jwtToken)
	defer func() {
		closeErr := res.Body.Close()
		s.Require().NoError(closeErr)
	}()
	s.Equal(http.StatusOK, res.StatusCode)

	var body InventoryPageResponse
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.Equal(requester.UserID, body.UserID)
	s.Require().Len(body.Entries, 1)
	s.Equal(int64(100), body.Entries[0].EntryID)
	s.Equal(acquiredAt.Format(time.RFC3339), body.Entries[0].AcquiredAt)
}

func (s *CatalogHandlerTestSuite) TestUserItems() {
	requester := service.Requester{UserID: 1, UsergroupID: 2}
	jwtToken := s.userToken(requester.UserID, requester.UsergroupID)

	var ownerID int64 = 42
	page := &service.InventoryPageView{UserID: ownerID, Page: 1, TotalPages: 0, Total: 0, Entries: nil}
	// чужой инвентарь отдается любому авторизованному пользователю
	s.mockCatalogService.EXPECT().
		ListUserInventory(gomock.Any(), requester, ownerID, uint(1)).
		Return(page, nil).Times(1)

	res := s.get(RouteGroup+"/users/42/items", jwtToken)
	defer func() {
		closeErr := res.Body.Close()
		s.Require().NoError(closeErr)
	}()
	s.Equal(http.StatusOK, res.StatusCode)

	var body InventoryPageResponse
	s.Require().NoError(json.NewDecoder(res.Body).Decode(&body))
	s.Equal(ownerID, body.UserID)
	s.Empty(body.Entries)
}
