package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss возвращается когда ключ в кэше отсутствует или его TTL истек.
var ErrCacheMiss = errors.New("cache miss")

// Cache абстракция кэша для слоя каталога. Реализации: Redis для продакшена,
// in-memory для разработки и тестов. Кэш хранит только отображаемые данные,
// пути мутаций его никогда не читают.
type Cache interface {
	// Get возвращает значение по ключу или ErrCacheMiss.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set сохраняет значение с указанным TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete удаляет значение по ключу. Отсутствие ключа не является ошибкой.
	Delete(ctx context.Context, key string) error
}
