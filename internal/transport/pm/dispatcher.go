// Package pm доставляет личные сообщения пользователям через API хост-системы.
package pm

import (
	"context"
	"sync"
	"time"

	"github.com/fsdevblog/groph-shop/internal/service"
	"github.com/sirupsen/logrus"
)

const (
	defaultQueueSize         = 256
	defaultWorkers      uint = 4
	defaultSendTimeout       = 10 * time.Second
)

// Dispatcher асинхронная очередь доставки личных сообщений. Сообщения
// принимаются без блокировки и доставляются воркерами в фоне. Доставка
// best effort: при переполненной очереди или ошибке отправки сообщение
// теряется с записью в лог, операции магазина от этого не страдают.
type Dispatcher struct {
	sender      Sender
	l           *logrus.Entry
	queue       chan service.Message
	workers     uint
	sendTimeout time.Duration
}

// New создает новый диспетчер сообщений. Размер очереди и кол-во воркеров
// настраиваются через SetQueueSize и SetWorkers до вызова Run.
func New(sender Sender, l *logrus.Logger) *Dispatcher {
	loggerEntry := l.WithFields(logrus.Fields{
		"component": "pm",
		"module":    "dispatcher",
	})

	return &Dispatcher{
		sender:      sender,
		l:           loggerEntry,
		queue:       make(chan service.Message, defaultQueueSize),
		workers:     defaultWorkers,
		sendTimeout: defaultSendTimeout,
	}
}

// SetQueueSize устанавливает размер буфера очереди сообщений.
func (d *Dispatcher) SetQueueSize(size uint) *Dispatcher {
	if size > 0 {
		d.queue = make(chan service.Message, size)
	}
	return d
}

// SetWorkers устанавливает кол-во воркеров доставки.
func (d *Dispatcher) SetWorkers(workers uint) *Dispatcher {
	if workers > 0 {
		d.workers = workers
	}
	return d
}

// Enqueue кладет сообщение в очередь доставки. Не блокируется: при
// переполненной очереди возвращает false и сообщение теряется.
func (d *Dispatcher) Enqueue(msg service.Message) bool {
	select {
	case d.queue <- msg:
		return true
	default:
		d.l.WithField("recipientID", msg.RecipientID).Warn("queue is full, message dropped")
		return false
	}
}

// Run запускает воркеры доставки и блокируется до отмены контекста.
func (d *Dispatcher) Run(ctx context.Context) {
	d.l.WithFields(logrus.Fields{
		"workers":   d.workers,
		"queueSize": cap(d.queue),
	}).Info("Starting")

	wg := new(sync.WaitGroup)
	wg.Add(int(d.workers)) // nolint:gosec

	for i := range d.workers {
		go d.worker(ctx, wg, i+1)
	}
	wg.Wait()

	d.l.Info("Got stop signal, exiting...")
}

// worker доставляет сообщения из очереди до отмены контекста.
func (d *Dispatcher) worker(ctx context.Context, wg *sync.WaitGroup, workerID uint) {
	defer wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-d.queue:
			d.deliver(ctx, workerID, msg)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, workerID uint, msg service.Message) {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	l := d.l.WithFields(logrus.Fields{
		"worker":      workerID,
		"recipientID": msg.RecipientID,
	})
	if err := d.sender.SendMessage(sendCtx, msg); err != nil {
		l.WithError(err).Error("send message")
		return
	}
	l.Info("Message delivered")
}
