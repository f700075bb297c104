// Package cache хранит коллекции, которые дорого получать целиком:
// первая выборка загружает все элементы, дальше поиск идет по памяти.
package cache

import (
	"context"
	"sync"
)

// Loader возвращает коллекцию целиком
type Loader[T any] func(ctx context.Context) ([]T, error)

// Collection ленивый кэш списка. Загружается один раз, новые элементы
// добавляются через Append, полная перезагрузка через Invalidate.
type Collection[T any] struct {
	mu     sync.Mutex
	load   Loader[T]
	items  []T
	loaded bool
}

func NewCollection[T any](load Loader[T]) *Collection[T] {
	return &Collection[T]{load: load}
}

// Find загружает коллекцию при первом обращении и возвращает первый
// подходящий элемент. Отсутствие совпадения не ошибка.
func (c *Collection[T]) Find(ctx context.Context, match func(T) bool) (T, bool, error) {
	var zero T

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.ensureLoaded(ctx); err != nil {
		return zero, false, err
	}

	for _, item := range c.items {
		if match(item) {
			return item, true, nil
		}
	}
	return zero, false, nil
}

// Warm загружает коллекцию, если она еще не загружена
func (c *Collection[T]) Warm(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ensureLoaded(ctx)
}

// Append делает созданный элемент видимым для следующих поисков.
// Если коллекция еще не загружена, элемент придет вместе с загрузкой.
func (c *Collection[T]) Append(item T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.loaded {
		c.items = append(c.items, item)
	}
}

func (c *Collection[T]) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.items = nil
	c.loaded = false
}

func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func (c *Collection[T]) ensureLoaded(ctx context.Context) error {
	if c.loaded {
		return nil
	}

	items, err := c.load(ctx)
	if err != nil {
		return err
	}

	c.items = items
	c.loaded = true
	return nil
}
