package repository

import (
	"context"
	"log/slog"
	"sync"

	"github.com/NastyaGoryachaya/crypto-market-service/internal/domain"
)

// Notifier - сигнал "набор записей изменился" для всех наблюдателей хранилища
type Notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{subs: make(map[int]chan struct{})}
}

// Subscribe - канал с буфером 1: несколько изменений подряд схлопываются в один сигнал
func (n *Notifier) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	n.mu.Lock()
	id := n.nextID
	n.nextID++
	n.subs[id] = ch
	n.mu.Unlock()

	return ch, func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Notify - не блокируется
func (n *Notifier) Notify() {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// ListFunc - чтение всего набора записей
type ListFunc func(ctx context.Context) ([]domain.Asset, error)

// Observe - поток снимков: текущий набор сразу, затем новый снимок после каждого изменения.
// Канал закрывается при отмене ctx.
func Observe(ctx context.Context, n *Notifier, list ListFunc, log *slog.Logger) (<-chan []domain.Asset, error) {
	changed, unsubscribe := n.Subscribe()

	initial, err := list(ctx)
	if err != nil {
		unsubscribe()
		return nil, err
	}

	out := make(chan []domain.Asset, 1)
	out <- initial

	go func() {
		defer close(out)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case <-changed:
			}

			items, err := list(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				log.Warn("favorites reload failed", slog.String("err", err.Error()))
				continue
			}

			select {
			case out <- items:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}
