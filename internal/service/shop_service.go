package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fsdevblog/groph-shop/internal/domain"
	"github.com/fsdevblog/groph-shop/internal/repository/repoargs"
	"github.com/fsdevblog/groph-shop/pkg/uow"
	"github.com/shopspring/decimal"
)

// Темы личных сообщений, отправляемых после завершения операций.
const (
	pmSubjectPurchase      = "Покупка в магазине"
	pmSubjectAdminPurchase = "Новая покупка в магазине"
	pmSubjectReceived      = "Вам передали предмет"
)

// PurchaseReceipt результат успешной покупки.
type PurchaseReceipt struct {
	Item      *domain.Item
	Entry     *domain.InventoryEntry
	PricePaid decimal.Decimal
	Balance   decimal.Decimal
}

// SaleReceipt результат успешной продажи.
type SaleReceipt struct {
	Item    *domain.Item
	Amount  decimal.Decimal
	Balance decimal.Decimal
}

// TransferReceipt результат успешной передачи предмета другому пользователю.
type TransferReceipt struct {
	Item      *domain.Item
	Entry     *domain.InventoryEntry
	Recipient *domain.User
}

// RemovalOutcome исход удаления одной записи инвентаря в пакетной операции.
// Err заполняется для записей, которые удалить не удалось, остальные записи
// пакета при этом обрабатываются дальше.
type RemovalOutcome struct {
	EntryID int64
	ItemID  int64
	Refund  decimal.Decimal
	Err     error
}

// ShopServiceArgs параметры движка транзакций.
type ShopServiceArgs struct {
	// SellPercent доля эффективной цены, возвращаемая при продаже предмета.
	SellPercent decimal.Decimal
	// ModeratorGroups группы, которым доступны скрытые записи каталога и
	// пакетное удаление. Пустой список означает, что модераторов нет.
	ModeratorGroups []int64
	// RefundOnRemove возвращать ли пользователю уплаченную цену при
	// модераторском удалении записи инвентаря.
	RefundOnRemove bool
	// RestockOnRemove возвращать ли экземпляр на склад при модераторском
	// удалении записи инвентаря.
	RestockOnRemove bool
	// PMBuyerDefault шаблон сообщения покупателю, если у предмета нет своего.
	PMBuyerDefault string
	// PMAdminDefault шаблон сообщения администраторам, если у предмета нет своего.
	PMAdminDefault string
	// PMAdminIDs получатели административных уведомлений о покупках.
	PMAdminIDs []int64
}

// ShopService движок транзакций магазина. Каждая операция выполняется в одной
// сериализуемой транзакции БД и либо применяется целиком, либо не применяется вовсе.
type ShopService struct {
	uow       uow.UOW
	userRepo  UserRepository
	messenger Messenger
	args      ShopServiceArgs
}

func NewShopService(u uow.UOW, messenger Messenger, args ShopServiceArgs) (*ShopService, error) {
	userRepo, err := uow.GetRepositoryAs[UserRepository](u, uow.RepositoryName(repoargs.UserRepoName))
	if err != nil {
		return nil, fmt.Errorf("resolving user repository: %w", err)
	}
	return &ShopService{
		uow:       u,
		userRepo:  userRepo,
		messenger: messenger,
		args:      args,
	}, nil
}

// Buy покупает один экземпляр предмета itemID для пользователя userID.
//
// Алгоритм работы:
//  1. Загружаются предмет, его категория и покупатель.
//  2. Проверяется доступ: видимость предмета и категории и принадлежность
//     к разрешенным группам. Модераторы проходят проверку всегда.
//  3. Вычисляется эффективная цена с учетом множителя группы.
//  4. Проверки выполняются строго в порядке: средства, затем остаток на
//     складе, затем лимит владения.
//  5. Атомарно уменьшается склад, списывается баланс, создается запись
//     инвентаря и запись журнала.
//
// Уведомления отправляются только после фиксации транзакции.
func (s *ShopService) Buy(ctx context.Context, userID, itemID int64) (*PurchaseReceipt, error) {
	var receipt *PurchaseReceipt

	txErr := s.uow.DoSerializable(ctx, func(c context.Context, tx uow.TX) error {
		receipt = nil
		repos, reposErr := repositoriesFromTx(tx)
		if reposErr != nil {
			return reposErr
		}

		item, itemErr := repos.catalog.FindItem(c, itemID)
		if itemErr != nil {
			return mapNotFound(itemErr, domain.ErrItemNotFound)
		}
		category, categoryErr := repos.catalog.FindCategory(c, item.CategoryID)
		if categoryErr != nil {
			return mapNotFound(categoryErr, domain.ErrCategoryNotFound)
		}
		user, userErr := repos.user.Find(c, userID)
		if userErr != nil {
			return userErr
		}
		if !s.canAccess(user, category, item) {
			return domain.ErrPermissionDenied
		}

		rate, rateErr := GroupItemsRate(c, repos.catalog, user.UsergroupID)
		if rateErr != nil {
			return rateErr
		}
		price := EffectivePrice(item.Price, rate)

		if user.Balance.LessThan(price) {
			return domain.ErrInsufficientFunds
		}
		if !item.IsInfinite && item.Stock <= 0 {
			return domain.ErrOutOfStock
		}
		if item.Limit > 0 {
			owned, ownedErr := repos.inventory.CountOwned(c, userID, itemID)
			if ownedErr != nil {
				return ownedErr
			}
			if owned >= int64(item.Limit) {
				return &domain.LimitReachedError{ItemID: itemID, Limit: item.Limit, Owned: owned}
			}
		}

		if !item.IsInfinite {
			if decErr := repos.catalog.DecrementStock(c, itemID); decErr != nil {
				return decErr
			}
		}
		updatedUser, balanceErr := repos.user.AdjustBalance(c, userID, price.Neg())
		if balanceErr != nil {
			return balanceErr
		}
		entry, entryErr := repos.inventory.Create(c, repoargs.InventoryEntryCreate{
			UserID:    userID,
			ItemID:    itemID,
			PricePaid: price,
		})
		if entryErr != nil {
			return entryErr
		}
		if _, auditErr := repos.audit.Create(c, repoargs.AuditRecordCreate{
			Kind:    domain.AuditKindPurchase,
			ActorID: userID,
			ItemID:  itemID,
			Amount:  price,
		}); auditErr != nil {
			return auditErr
		}

		receipt = &PurchaseReceipt{
			Item:      item,
			Entry:     entry,
			PricePaid: price,
			Balance:   updatedUser.Balance,
		}
		return nil
	})
	if txErr != nil {
		return nil, convertTxErr(txErr)
	}

	s.notifyPurchase(receipt)
	return receipt, nil
}

// Sell продает самый старый принадлежащий пользователю экземпляр предмета.
// Зачисляется доля эффективной цены на момент продажи, не цена покупки.
// Конечный склад при продаже пополняется на один экземпляр.
func (s *ShopService) Sell(ctx context.Context, userID, itemID int64) (*SaleReceipt, error) {
	var receipt *SaleReceipt

	txErr := s.uow.DoSerializable(ctx, func(c context.Context, tx uow.TX) error {
		receipt = nil
		repos, reposErr := repositoriesFromTx(tx)
		if reposErr != nil {
			return reposErr
		}

		item, itemErr := repos.catalog.FindItem(c, itemID)
		if itemErr != nil {
			return mapNotFound(itemErr, domain.ErrItemNotFound)
		}
		category, categoryErr := repos.catalog.FindCategory(c, item.CategoryID)
		if categoryErr != nil {
			return mapNotFound(categoryErr, domain.ErrCategoryNotFound)
		}
		user, userErr := repos.user.Find(c, userID)
		if userErr != nil {
			return userErr
		}
		if !s.canAccess(user, category, item) {
			return domain.ErrPermissionDenied
		}
		if !item.IsSellable {
			return domain.ErrNotSellable
		}

		if _, removeErr := repos.inventory.RemoveOldest(c, userID, itemID); removeErr != nil {
			return mapNotFound(removeErr, domain.ErrNotOwned)
		}
		if !item.IsInfinite {
			if incErr := repos.catalog.IncrementStock(c, itemID); incErr != nil {
				return incErr
			}
		}

		rate, rateErr := GroupItemsRate(c, repos.catalog, user.UsergroupID)
		if rateErr != nil {
			return rateErr
		}
		amount := EffectivePrice(item.Price, rate).Mul(s.args.SellPercent)

		updatedUser, balanceErr := repos.user.AdjustBalance(c, userID, amount)
		if balanceErr != nil {
			return balanceErr
		}
		if _, auditErr := repos.audit.Create(c, repoargs.AuditRecordCreate{
			Kind:    domain.AuditKindSell,
			ActorID: userID,
			ItemID:  itemID,
			Amount:  amount,
		}); auditErr != nil {
			return auditErr
		}

		receipt = &SaleReceipt{
			Item:    item,
			Amount:  amount,
			Balance: updatedUser.Balance,
		}
		return nil
	})
	if txErr != nil {
		return nil, convertTxErr(txErr)
	}
	return receipt, nil
}

// Send передает самый старый принадлежащий отправителю экземпляр предмета
// пользователю с именем recipientUsername. Баланс обеих сторон не меняется.
func (s *ShopService) Send(ctx context.Context, userID, itemID int64, recipientUsername string) (*TransferReceipt, error) {
	var receipt *TransferReceipt

	txErr := s.uow.DoSerializable(ctx, func(c context.Context, tx uow.TX) error {
		receipt = nil
		repos, reposErr := repositoriesFromTx(tx)
		if reposErr != nil {
			return reposErr
		}

		item, itemErr := repos.catalog.FindItem(c, itemID)
		if itemErr != nil {
			return mapNotFound(itemErr, domain.ErrItemNotFound)
		}
		category, categoryErr := repos.catalog.FindCategory(c, item.CategoryID)
		if categoryErr != nil {
			return mapNotFound(categoryErr, domain.ErrCategoryNotFound)
		}
		sender, senderErr := repos.user.Find(c, userID)
		if senderErr != nil {
			return senderErr
		}
		if !s.canAccess(sender, category, item) {
			return domain.ErrPermissionDenied
		}
		if !item.IsSendable {
			return domain.ErrNotSendable
		}

		entry, entryErr := repos.inventory.FindOldestOwned(c, userID, itemID)
		if entryErr != nil {
			return mapNotFound(entryErr, domain.ErrNotOwned)
		}

		recipient, recipientErr := repos.user.FindByUsername(c, recipientUsername)
		if recipientErr != nil {
			return mapNotFound(recipientErr, domain.ErrInvalidRecipient)
		}
		if recipient.ID == userID {
			return domain.ErrInvalidRecipient
		}

		transferred, transferErr := repos.inventory.Transfer(c, entry.ID, recipient.ID)
		if transferErr != nil {
			return transferErr
		}
		if _, auditErr := repos.audit.Create(c, repoargs.AuditRecordCreate{
			Kind:     domain.AuditKindTransfer,
			ActorID:  userID,
			ItemID:   itemID,
			TargetID: recipient.ID,
		}); auditErr != nil {
			return auditErr
		}

		receipt = &TransferReceipt{
			Item:      item,
			Entry:     transferred,
			Recipient: recipient,
		}
		return nil
	})
	if txErr != nil {
		return nil, convertTxErr(txErr)
	}

	s.notifyTransfer(receipt)
	return receipt, nil
}

// QuickEditBatchRemove удаляет записи инвентаря пользователя userID от имени
// модератора. Каждая запись обрабатывается в собственной транзакции: ошибка
// одной записи не откатывает остальные, итог по каждой записи возвращается
// в срезе исходов в порядке входных entryIDs.
//
// В зависимости от настроек пользователю возвращается уплаченная цена,
// а экземпляр предмета — на склад. Экземпляр удаленного из каталога предмета
// просто исчезает без пополнения склада.
func (s *ShopService) QuickEditBatchRemove(ctx context.Context, moderatorID, userID int64, entryIDs []int64) ([]RemovalOutcome, error) {
	moderator, err := s.userRepo.Find(ctx, moderatorID)
	if err != nil {
		return nil, err
	}
	if !s.isModerator(moderator.UsergroupID) {
		return nil, domain.ErrPermissionDenied
	}

	outcomes := make([]RemovalOutcome, 0, len(entryIDs))
	for _, entryID := range entryIDs {
		outcome := RemovalOutcome{EntryID: entryID}

		txErr := s.uow.DoSerializable(ctx, func(c context.Context, tx uow.TX) error {
			outcome.ItemID = 0
			outcome.Refund = decimal.Zero
			repos, reposErr := repositoriesFromTx(tx)
			if reposErr != nil {
				return reposErr
			}

			entry, entryErr := repos.inventory.FindByIDForUser(c, entryID, userID)
			if entryErr != nil {
				return mapNotFound(entryErr, domain.ErrNotOwned)
			}
			if deleteErr := repos.inventory.DeleteByID(c, entry.ID); deleteErr != nil {
				return deleteErr
			}

			refund := decimal.Zero
			if s.args.RefundOnRemove && entry.PricePaid.IsPositive() {
				if _, balanceErr := repos.user.AdjustBalance(c, userID, entry.PricePaid); balanceErr != nil {
					return balanceErr
				}
				refund = entry.PricePaid
			}
			if s.args.RestockOnRemove {
				if restockErr := s.restock(c, repos.catalog, entry.ItemID); restockErr != nil {
					return restockErr
				}
			}

			if _, auditErr := repos.audit.Create(c, repoargs.AuditRecordCreate{
				Kind:     domain.AuditKindModerationRemove,
				ActorID:  moderatorID,
				ItemID:   entry.ItemID,
				TargetID: userID,
				Amount:   refund,
			}); auditErr != nil {
				return auditErr
			}

			outcome.ItemID = entry.ItemID
			outcome.Refund = refund
			return nil
		})
		if txErr != nil {
			outcome.Err = convertTxErr(txErr)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

func (s *ShopService) restock(ctx context.Context, catalogRepo CatalogRepository, itemID int64) error {
	item, err := catalogRepo.FindItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	if item.IsInfinite {
		return nil
	}
	return catalogRepo.IncrementStock(ctx, itemID)
}

func (s *ShopService) canAccess(user *domain.User, category *domain.Category, item *domain.Item) bool {
	if s.isModerator(user.UsergroupID) {
		return true
	}
	if !item.IsVisible || !category.IsVisible {
		return false
	}
	return domain.IsMemberOfAny(user.UsergroupID, category.AllowedGroupIDs)
}

func (s *ShopService) isModerator(usergroupID int64) bool {
	return containsGroup(s.args.ModeratorGroups, usergroupID)
}

func (s *ShopService) notifyPurchase(receipt *PurchaseReceipt) {
	if s.messenger == nil {
		return
	}
	if body := pmBody(receipt.Item, s.args.PMBuyerDefault, receipt.Item.PMBuyer); body != "" {
		s.messenger.Enqueue(Message{
			RecipientID: receipt.Entry.UserID,
			Subject:     pmSubjectPurchase,
			Body:        body,
		})
	}
	if body := pmBody(receipt.Item, s.args.PMAdminDefault, receipt.Item.PMAdmin); body != "" {
		for _, adminID := range s.args.PMAdminIDs {
			s.messenger.Enqueue(Message{
				RecipientID: adminID,
				Subject:     pmSubjectAdminPurchase,
				Body:        body,
			})
		}
	}
}

func (s *ShopService) notifyTransfer(receipt *TransferReceipt) {
	if s.messenger == nil {
		return
	}
	s.messenger.Enqueue(Message{
		RecipientID: receipt.Recipient.ID,
		Subject:     pmSubjectReceived,
		Body:        fmt.Sprintf("Вам передали предмет %s.", receipt.Item.Name),
	})
}

// pmBody выбирает шаблон сообщения (у предмета приоритет над общим) и
// подставляет плейсхолдеры {itemname} и {itemid}.
func pmBody(item *domain.Item, defaultTemplate, itemTemplate string) string {
	template := itemTemplate
	if template == "" {
		template = defaultTemplate
	}
	if template == "" {
		return ""
	}
	body := strings.ReplaceAll(template, "{itemname}", item.Name)
	return strings.ReplaceAll(body, "{itemid}", strconv.FormatInt(item.ID, 10))
}

// convertTxErr приводит ошибку транзакции к доменной. Исчерпание повторов
// сериализуемой транзакции наружу отдается как ErrBusy.
func convertTxErr(err error) error {
	if errors.Is(err, uow.ErrSerializationFailure) {
		return errors.Join(domain.ErrBusy, err)
	}
	return err
}
