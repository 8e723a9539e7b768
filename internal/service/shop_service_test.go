package service_test

import (
	. "github.com/fsdevblog/groph-shop/internal/service"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/internal/service/mocks"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	uowmocks "github.com/fsdevblog/groph-shop/pkg/uow/mocks"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// decimalEq матчер для decimal: сравнение через Equal, не через DeepEqual,
// чтобы 100 и 100.00 считались равными.
type decimalEq struct {
	want decimal.Decimal
}

func (m decimalEq) Matches(x interface{}) bool {
	d, ok := x.(decimal.Decimal)
	return ok && d.Equal(m.want)
}

func (m decimalEq) String() string {
	return "decimal equals " + m.want.String()
}

type ShopServiceTestSuite struct {
	suite.Suite
	mockCtrl          *gomock.Controller
	mockUOW           *uowmocks.MockUOW
	mockTX            *uowmocks.MockTX
	mockCatalogRepo   *mocks.MockCatalogRepository
	mockInventoryRepo *mocks.MockInventoryRepository
	mockUserRepo      *mocks.MockUserRepository
	mockAuditRepo     *mocks.MockAuditRepository
	mockMessenger     *mocks.MockMessenger
}

func TestShopServiceSuite(t *testing.T) {
	suite.Run(t, new(ShopServiceTestSuite))
}

func (s *ShopServiceTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockUOW = uowmocks.NewMockUOW(s.mockCtrl)
	s.mockTX = uowmocks.NewMockTX(s.mockCtrl)
	s.mockCatalogRepo = mocks.NewMockCatalogRepository(s.mockCtrl)
	s.mockInventoryRepo = mocks.NewMockInventoryRepository(s.mockCtrl)
	s.mockUserRepo = mocks.NewMockUserRepository(s.mockCtrl)
	s.mockAuditRepo = mocks.NewMockAuditRepository(s.mockCtrl)
	s.mockMessenger = mocks.NewMockMessenger(s.mockCtrl)

	// Мок получения репозитория из uow. Выполняется в инициализации сервиса.
	s.mockUOW.EXPECT().GetRepository(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()

	// Моки получения репозиториев внутри транзакции.
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.CatalogRepoName)).
		Return(s.mockCatalogRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.InventoryRepoName)).
		Return(s.mockInventoryRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.UserRepoName)).
		Return(s.mockUserRepo, nil).AnyTimes()
	s.mockTX.EXPECT().Get(uow.RepositoryName(repoargs.AuditRepoName)).
		Return(s.mockAuditRepo, nil).AnyTimes()
}

func (s *ShopServiceTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *ShopServiceTestSuite) newService(args ShopServiceArgs) *ShopService {
	if args.SellPercent.IsZero() {
		args.SellPercent = decimal.NewFromFloat(0.9)
	}
	svs, err := NewShopService(s.mockUOW, s.mockMessenger, args)
	s.Require().NoError(err)
	return svs
}

// expectSerializableTx прокидывает вызов DoSerializable в функцию транзакции.
func (s *ShopServiceTestSuite) expectSerializableTx() {
	s.mockUOW.EXPECT().DoSerializable(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context, uow.TX) error) error {
			return fn(ctx, s.mockTX)
		}).AnyTimes()
}

func (s *ShopServiceTestSuite) testItem() *domain.Item {
	return &domain.Item{
		ID:         10,
		CreatedAt:  time.Now(),
		UpdatedAt:  time.Now(),
		CategoryID: 1,
		Name:       "Меч",
		Price:      decimal.NewFromInt(100),
		IsVisible:  true,
		Stock:      3,
		IsSellable: true,
		IsSendable: true,
	}
}

func (s *ShopServiceTestSuite) testCategory() *domain.Category {
	return &domain.Category{
		ID:        1,
		Name:      "Оружие",
		IsVisible: true,
	}
}

func (s *ShopServiceTestSuite) testUser() *domain.User {
	return &domain.User{
		ID:          42,
		Username:    "buyer",
		UsergroupID: 2,
		Balance:     decimal.NewFromInt(250),
	}
}

func (s *ShopServiceTestSuite) TestBuy() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	user := s.testUser()

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	// у группы нет правила множителя, значит множитель 1.0
	s.mockCatalogRepo.EXPECT().FindGroupRate(gomock.Any(), user.UsergroupID).
		Return(nil, domain.ErrRecordNotFound)
	s.mockCatalogRepo.EXPECT().DecrementStock(gomock.Any(), item.ID).Return(nil)
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), user.ID, decimalEq{want: decimal.NewFromInt(-100)}).
		Return(&domain.User{ID: user.ID, Balance: decimal.NewFromInt(150)}, nil)
	s.mockInventoryRepo.EXPECT().
		Create(gomock.Any(), repoargs.InventoryEntryCreate{
			UserID:    user.ID,
			ItemID:    item.ID,
			PricePaid: decimal.NewFromInt(100),
		}).
		Return(&domain.InventoryEntry{ID: 7, UserID: user.ID, ItemID: item.ID}, nil)
	s.mockAuditRepo.EXPECT().
		Create(gomock.Any(), gomock.AssignableToTypeOf(repoargs.AuditRecordCreate{})).
		DoAndReturn(func(_ context.Context, args repoargs.AuditRecordCreate) (*domain.AuditRecord, error) {
			s.Equal(domain.AuditKindPurchase, args.Kind)
			s.Equal(user.ID, args.ActorID)
			s.Equal(item.ID, args.ItemID)
			s.True(args.Amount.Equal(decimal.NewFromInt(100)))
			return &domain.AuditRecord{ID: 1}, nil
		})

	receipt, err := svs.Buy(context.Background(), user.ID, item.ID)
	s.Require().NoError(err)
	s.Equal(int64(7), receipt.Entry.ID)
	s.True(receipt.PricePaid.Equal(decimal.NewFromInt(100)))
	s.True(receipt.Balance.Equal(decimal.NewFromInt(150)))
}

func (s *ShopServiceTestSuite) TestBuyAppliesGroupRate() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	user := s.testUser()
	user.Balance = decimal.NewFromInt(200)

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	s.mockCatalogRepo.EXPECT().FindGroupRate(gomock.Any(), user.UsergroupID).
		Return(&domain.GroupRate{UsergroupID: user.UsergroupID, ItemsRate: decimal.NewFromFloat(1.5)}, nil)
	s.mockCatalogRepo.EXPECT().DecrementStock(gomock.Any(), item.ID).Return(nil)
	// списывается эффективная цена 100 * 1.5 = 150
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), user.ID, decimalEq{want: decimal.NewFromInt(-150)}).
		Return(&domain.User{ID: user.ID, Balance: decimal.NewFromInt(50)}, nil)
	s.mockInventoryRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&domain.InventoryEntry{ID: 8, UserID: user.ID, ItemID: item.ID}, nil)
	s.mockAuditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.AuditRecord{}, nil)

	receipt, err := svs.Buy(context.Background(), user.ID, item.ID)
	s.Require().NoError(err)
	s.True(receipt.PricePaid.Equal(decimal.NewFromInt(150)))
}

func (s *ShopServiceTestSuite) TestBuyZeroRateMakesItemFree() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	user := s.testUser()
	// нулевой баланс не мешает покупке бесплатного предмета
	user.Balance = decimal.Zero

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	s.mockCatalogRepo.EXPECT().FindGroupRate(gomock.Any(), user.UsergroupID).
		Return(&domain.GroupRate{UsergroupID: user.UsergroupID, ItemsRate: decimal.Zero}, nil)
	s.mockCatalogRepo.EXPECT().DecrementStock(gomock.Any(), item.ID).Return(nil)
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), user.ID, decimalEq{want: decimal.Zero}).
		Return(user, nil)
	s.mockInventoryRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&domain.InventoryEntry{ID: 9, UserID: user.ID, ItemID: item.ID}, nil)
	s.mockAuditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.AuditRecord{}, nil)

	receipt, err := svs.Buy(context.Background(), user.ID, item.ID)
	s.Require().NoError(err)
	s.True(receipt.PricePaid.IsZero())
}

func (s *ShopServiceTestSuite) TestBuyInsufficientFundsBeforeStock() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	// предмет одновременно недоступен по деньгам и по складу,
	// наружу уходит именно нехватка средств
	item.Stock = 0
	user := s.testUser()
	user.Balance = decimal.NewFromInt(10)

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	s.mockCatalogRepo.EXPECT().FindGroupRate(gomock.Any(), user.UsergroupID).
		Return(nil, domain.ErrRecordNotFound)
	s.mockInventoryRepo.EXPECT().CountOwned(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	s.mockCatalogRepo.EXPECT().DecrementStock(gomock.Any(), gomock.Any()).Times(0)

	_, err := svs.Buy(context.Background(), user.ID, item.ID)
	s.Require().ErrorIs(err, domain.ErrInsufficientFunds)
}

func (s *ShopServiceTestSuite) TestBuyOutOfStockBeforeLimit() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	item.Stock = 0
	item.Limit = 1
	user := s.testUser()

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	s.mockCatalogRepo.EXPECT().FindGroupRate(gomock.Any(), user.UsergroupID).
		Return(nil, domain.ErrRecordNotFound)
	// до проверки лимита дело не доходит
	s.mockInventoryRepo.EXPECT().CountOwned(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svs.Buy(context.Background(), user.ID, item.ID)
	s.Require().ErrorIs(err, domain.ErrOutOfStock)
}

func (s *ShopServiceTestSuite) TestBuyLimitReached() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	item.Limit = 2
	user := s.testUser()

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	s.mockCatalogRepo.EXPECT().FindGroupRate(gomock.Any(), user.UsergroupID).
		Return(nil, domain.ErrRecordNotFound)
	s.mockInventoryRepo.EXPECT().CountOwned(gomock.Any(), user.ID, item.ID).Return(int64(2), nil)

	_, err := svs.Buy(context.Background(), user.ID, item.ID)
	s.Require().ErrorIs(err, domain.ErrLimitReached)

	var limitErr *domain.LimitReachedError
	s.Require().ErrorAs(err, &limitErr)
	s.Equal(item.ID, limitErr.ItemID)
	s.Equal(int32(2), limitErr.Limit)
	s.Equal(int64(2), limitErr.Owned)
}

func (s *ShopServiceTestSuite) TestBuyHiddenItemDenied() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	item.IsVisible = false
	user := s.testUser()

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	s.mockCatalogRepo.EXPECT().FindGroupRate(gomock.Any(), gomock.Any()).Times(0)

	_, err := svs.Buy(context.Background(), user.ID, item.ID)
	s.Require().ErrorIs(err, domain.ErrPermissionDenied)
}

func (s *ShopServiceTestSuite) TestBuyModeratorBypassesVisibility() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{ModeratorGroups: []int64{4}})

	item := s.testItem()
	item.IsVisible = false
	user := s.testUser()
	user.UsergroupID = 4

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	s.mockCatalogRepo.EXPECT().FindGroupRate(gomock.Any(), user.UsergroupID).
		Return(nil, domain.ErrRecordNotFound)
	s.mockCatalogRepo.EXPECT().DecrementStock(gomock.Any(), item.ID).Return(nil)
	s.mockUserRepo.EXPECT().AdjustBalance(gomock.Any(), user.ID, gomock.Any()).Return(user, nil)
	s.mockInventoryRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&domain.InventoryEntry{ID: 11, UserID: user.ID, ItemID: item.ID}, nil)
	s.mockAuditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.AuditRecord{}, nil)

	_, err := svs.Buy(context.Background(), user.ID, item.ID)
	s.Require().NoError(err)
}

func (s *ShopServiceTestSuite) TestBuyGroupRestrictedCategory() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	category := s.testCategory()
	category.AllowedGroupIDs = []int64{3, 6}
	user := s.testUser() // группа 2

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(category, nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)

	_, err := svs.Buy(context.Background(), user.ID, item.ID)
	s.Require().ErrorIs(err, domain.ErrPermissionDenied)
}

func (s *ShopServiceTestSuite) TestBuyBusyAfterRetries() {
	svs := s.newService(ShopServiceArgs{})

	s.mockUOW.EXPECT().DoSerializable(gomock.Any(), gomock.Any()).
		Return(errors.Join(uow.ErrSerializationFailure, errors.New("SQLSTATE 40001")))

	_, err := svs.Buy(context.Background(), 42, 10)
	s.Require().ErrorIs(err, domain.ErrBusy)
}

func (s *ShopServiceTestSuite) TestBuySendsNotifications() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{
		PMBuyerDefault: "Спасибо за покупку {itemname} (#{itemid})",
		PMAdminDefault: "Куплен {itemname}",
		PMAdminIDs:     []int64{1, 2},
	})

	item := s.testItem()
	user := s.testUser()

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	s.mockCatalogRepo.EXPECT().FindGroupRate(gomock.Any(), user.UsergroupID).
		Return(nil, domain.ErrRecordNotFound)
	s.mockCatalogRepo.EXPECT().DecrementStock(gomock.Any(), item.ID).Return(nil)
	s.mockUserRepo.EXPECT().AdjustBalance(gomock.Any(), user.ID, gomock.Any()).Return(user, nil)
	s.mockInventoryRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		Return(&domain.InventoryEntry{ID: 12, UserID: user.ID, ItemID: item.ID}, nil)
	s.mockAuditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.AuditRecord{}, nil)

	// сообщение покупателю с подставленными плейсхолдерами
	s.mockMessenger.EXPECT().
		Enqueue(Message{
			RecipientID: user.ID,
			Subject:     PmSubjectPurchase,
			Body:        "Спасибо за покупку Меч (#10)",
		}).
		Return(true)
	// и по сообщению каждому администратору
	s.mockMessenger.EXPECT().
		Enqueue(Message{RecipientID: 1, Subject: PmSubjectAdminPurchase, Body: "Куплен Меч"}).
		Return(true)
	s.mockMessenger.EXPECT().
		Enqueue(Message{RecipientID: 2, Subject: PmSubjectAdminPurchase, Body: "Куплен Меч"}).
		Return(true)

	_, err := svs.Buy(context.Background(), user.ID, item.ID)
	s.Require().NoError(err)
}

func (s *ShopServiceTestSuite) TestSell() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{SellPercent: decimal.NewFromFloat(0.9)})

	item := s.testItem()
	user := s.testUser()

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	// продается самый старый экземпляр
	s.mockInventoryRepo.EXPECT().RemoveOldest(gomock.Any(), user.ID, item.ID).
		Return(&domain.InventoryEntry{ID: 3, UserID: user.ID, ItemID: item.ID}, nil)
	// конечный склад пополняется
	s.mockCatalogRepo.EXPECT().IncrementStock(gomock.Any(), item.ID).Return(nil)
	s.mockCatalogRepo.EXPECT().FindGroupRate(gomock.Any(), user.UsergroupID).
		Return(nil, domain.ErrRecordNotFound)
	// зачисляется 100 * 0.9 = 90
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), user.ID, decimalEq{want: decimal.NewFromInt(90)}).
		Return(&domain.User{ID: user.ID, Balance: decimal.NewFromInt(340)}, nil)
	s.mockAuditRepo.EXPECT().
		Create(gomock.Any(), gomock.AssignableToTypeOf(repoargs.AuditRecordCreate{})).
		DoAndReturn(func(_ context.Context, args repoargs.AuditRecordCreate) (*domain.AuditRecord, error) {
			s.Equal(domain.AuditKindSell, args.Kind)
			s.True(args.Amount.Equal(decimal.NewFromInt(90)))
			return &domain.AuditRecord{}, nil
		})

	receipt, err := svs.Sell(context.Background(), user.ID, item.ID)
	s.Require().NoError(err)
	s.True(receipt.Amount.Equal(decimal.NewFromInt(90)))
	s.True(receipt.Balance.Equal(decimal.NewFromInt(340)))
}

func (s *ShopServiceTestSuite) TestSellInfiniteItemSkipsRestock() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{SellPercent: decimal.NewFromFloat(0.9)})

	item := s.testItem()
	item.IsInfinite = true
	user := s.testUser()

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	s.mockInventoryRepo.EXPECT().RemoveOldest(gomock.Any(), user.ID, item.ID).
		Return(&domain.InventoryEntry{ID: 3, UserID: user.ID, ItemID: item.ID}, nil)
	s.mockCatalogRepo.EXPECT().IncrementStock(gomock.Any(), gomock.Any()).Times(0)
	s.mockCatalogRepo.EXPECT().FindGroupRate(gomock.Any(), user.UsergroupID).
		Return(nil, domain.ErrRecordNotFound)
	s.mockUserRepo.EXPECT().AdjustBalance(gomock.Any(), user.ID, gomock.Any()).Return(user, nil)
	s.mockAuditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.AuditRecord{}, nil)

	_, err := svs.Sell(context.Background(), user.ID, item.ID)
	s.Require().NoError(err)
}

func (s *ShopServiceTestSuite) TestSellNotSellable() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	item.IsSellable = false
	user := s.testUser()

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	s.mockInventoryRepo.EXPECT().RemoveOldest(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svs.Sell(context.Background(), user.ID, item.ID)
	s.Require().ErrorIs(err, domain.ErrNotSellable)
}

func (s *ShopServiceTestSuite) TestSellNotOwned() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	user := s.testUser()

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), user.ID).Return(user, nil)
	s.mockInventoryRepo.EXPECT().RemoveOldest(gomock.Any(), user.ID, item.ID).
		Return(nil, domain.ErrRecordNotFound)

	_, err := svs.Sell(context.Background(), user.ID, item.ID)
	s.Require().ErrorIs(err, domain.ErrNotOwned)
}

func (s *ShopServiceTestSuite) TestSend() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	sender := s.testUser()
	recipient := &domain.User{ID: 77, Username: "friend", UsergroupID: 2}

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), sender.ID).Return(sender, nil)
	s.mockInventoryRepo.EXPECT().FindOldestOwned(gomock.Any(), sender.ID, item.ID).
		Return(&domain.InventoryEntry{ID: 5, UserID: sender.ID, ItemID: item.ID}, nil)
	s.mockUserRepo.EXPECT().FindByUsername(gomock.Any(), recipient.Username).Return(recipient, nil)
	s.mockInventoryRepo.EXPECT().Transfer(gomock.Any(), int64(5), recipient.ID).
		Return(&domain.InventoryEntry{ID: 5, UserID: recipient.ID, ItemID: item.ID}, nil)
	s.mockAuditRepo.EXPECT().
		Create(gomock.Any(), gomock.AssignableToTypeOf(repoargs.AuditRecordCreate{})).
		DoAndReturn(func(_ context.Context, args repoargs.AuditRecordCreate) (*domain.AuditRecord, error) {
			s.Equal(domain.AuditKindTransfer, args.Kind)
			s.Equal(sender.ID, args.ActorID)
			s.Equal(recipient.ID, args.TargetID)
			// баланс при передаче не меняется
			s.True(args.Amount.IsZero())
			return &domain.AuditRecord{}, nil
		})
	// получатель уведомляется после фиксации транзакции
	s.mockMessenger.EXPECT().
		Enqueue(gomock.AssignableToTypeOf(Message{})).
		DoAndReturn(func(msg Message) bool {
			s.Equal(recipient.ID, msg.RecipientID)
			return true
		})

	receipt, err := svs.Send(context.Background(), sender.ID, item.ID, recipient.Username)
	s.Require().NoError(err)
	s.Equal(recipient.ID, receipt.Entry.UserID)
}

func (s *ShopServiceTestSuite) TestSendToSelf() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	sender := s.testUser()

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), sender.ID).Return(sender, nil)
	s.mockInventoryRepo.EXPECT().FindOldestOwned(gomock.Any(), sender.ID, item.ID).
		Return(&domain.InventoryEntry{ID: 5, UserID: sender.ID, ItemID: item.ID}, nil)
	s.mockUserRepo.EXPECT().FindByUsername(gomock.Any(), sender.Username).Return(sender, nil)
	s.mockInventoryRepo.EXPECT().Transfer(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svs.Send(context.Background(), sender.ID, item.ID, sender.Username)
	s.Require().ErrorIs(err, domain.ErrInvalidRecipient)
}

func (s *ShopServiceTestSuite) TestSendUnknownRecipient() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	sender := s.testUser()

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), sender.ID).Return(sender, nil)
	s.mockInventoryRepo.EXPECT().FindOldestOwned(gomock.Any(), sender.ID, item.ID).
		Return(&domain.InventoryEntry{ID: 5, UserID: sender.ID, ItemID: item.ID}, nil)
	s.mockUserRepo.EXPECT().FindByUsername(gomock.Any(), "nobody").
		Return(nil, domain.ErrRecordNotFound)

	_, err := svs.Send(context.Background(), sender.ID, item.ID, "nobody")
	s.Require().ErrorIs(err, domain.ErrInvalidRecipient)
}

func (s *ShopServiceTestSuite) TestSendNotSendable() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{})

	item := s.testItem()
	item.IsSendable = false
	sender := s.testUser()

	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().FindCategory(gomock.Any(), item.CategoryID).Return(s.testCategory(), nil)
	s.mockUserRepo.EXPECT().Find(gomock.Any(), sender.ID).Return(sender, nil)

	_, err := svs.Send(context.Background(), sender.ID, item.ID, "friend")
	s.Require().ErrorIs(err, domain.ErrNotSendable)
}

func (s *ShopServiceTestSuite) TestQuickEditBatchRemove() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{
		ModeratorGroups: []int64{4},
		RefundOnRemove:  true,
		RestockOnRemove: true,
	})

	moderator := &domain.User{ID: 1, UsergroupID: 4}
	var ownerID int64 = 42
	item := s.testItem()

	s.mockUserRepo.EXPECT().Find(gomock.Any(), moderator.ID).Return(moderator, nil)

	// первая запись удаляется с возвратом денег и склада
	s.mockInventoryRepo.EXPECT().FindByIDForUser(gomock.Any(), int64(100), ownerID).
		Return(&domain.InventoryEntry{
			ID:        100,
			UserID:    ownerID,
			ItemID:    item.ID,
			PricePaid: decimal.NewFromInt(100),
		}, nil)
	s.mockInventoryRepo.EXPECT().DeleteByID(gomock.Any(), int64(100)).Return(nil)
	s.mockUserRepo.EXPECT().
		AdjustBalance(gomock.Any(), ownerID, decimalEq{want: decimal.NewFromInt(100)}).
		Return(&domain.User{ID: ownerID}, nil)
	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), item.ID).Return(item, nil)
	s.mockCatalogRepo.EXPECT().IncrementStock(gomock.Any(), item.ID).Return(nil)
	s.mockAuditRepo.EXPECT().
		Create(gomock.Any(), gomock.AssignableToTypeOf(repoargs.AuditRecordCreate{})).
		DoAndReturn(func(_ context.Context, args repoargs.AuditRecordCreate) (*domain.AuditRecord, error) {
			s.Equal(domain.AuditKindModerationRemove, args.Kind)
			s.Equal(moderator.ID, args.ActorID)
			s.Equal(ownerID, args.TargetID)
			return &domain.AuditRecord{}, nil
		})

	// вторая запись не принадлежит пользователю
	s.mockInventoryRepo.EXPECT().FindByIDForUser(gomock.Any(), int64(101), ownerID).
		Return(nil, domain.ErrRecordNotFound)

	outcomes, err := svs.QuickEditBatchRemove(context.Background(), moderator.ID, ownerID, []int64{100, 101})
	s.Require().NoError(err)
	s.Require().Len(outcomes, 2)

	s.Equal(int64(100), outcomes[0].EntryID)
	s.NoError(outcomes[0].Err)
	s.True(outcomes[0].Refund.Equal(decimal.NewFromInt(100)))

	s.Equal(int64(101), outcomes[1].EntryID)
	s.Require().ErrorIs(outcomes[1].Err, domain.ErrNotOwned)
}

func (s *ShopServiceTestSuite) TestQuickEditBatchRemoveDeletedItemSkipsRestock() {
	s.expectSerializableTx()
	svs := s.newService(ShopServiceArgs{
		ModeratorGroups: []int64{4},
		RestockOnRemove: true,
	})

	moderator := &domain.User{ID: 1, UsergroupID: 4}
	var ownerID int64 = 42

	s.mockUserRepo.EXPECT().Find(gomock.Any(), moderator.ID).Return(moderator, nil)
	s.mockInventoryRepo.EXPECT().FindByIDForUser(gomock.Any(), int64(100), ownerID).
		Return(&domain.InventoryEntry{ID: 100, UserID: ownerID, ItemID: 999}, nil)
	s.mockInventoryRepo.EXPECT().DeleteByID(gomock.Any(), int64(100)).Return(nil)
	// предмет удален из каталога, склад пополнять некуда
	s.mockCatalogRepo.EXPECT().FindItem(gomock.Any(), int64(999)).
		Return(nil, domain.ErrRecordNotFound)
	s.mockCatalogRepo.EXPECT().IncrementStock(gomock.Any(), gomock.Any()).Times(0)
	s.mockAuditRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(&domain.AuditRecord{}, nil)

	outcomes, err := svs.QuickEditBatchRemove(context.Background(), moderator.ID, ownerID, []int64{100})
	s.Require().NoError(err)
	s.Require().Len(outcomes, 1)
	s.NoError(outcomes[0].Err)
}

func (s *ShopServiceTestSuite) TestQuickEditBatchRemoveRequiresModerator() {
	svs := s.newService(ShopServiceArgs{ModeratorGroups: []int64{4}})

	regular := &domain.User{ID: 2, UsergroupID: 2}
	s.mockUserRepo.EXPECT().Find(gomock.Any(), regular.ID).Return(regular, nil)

	_, err := svs.QuickEditBatchRemove(context.Background(), regular.ID, 42, []int64{100})
	s.Require().ErrorIs(err, domain.ErrPermissionDenied)
}
