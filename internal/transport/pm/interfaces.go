package pm

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/fsdevblog/groph-shop/internal/service"
)

// Sender доставляет одно личное сообщение получателю средствами хост-системы.
type Sender interface {
	SendMessage(ctx context.Context, msg service.Message) error
}
