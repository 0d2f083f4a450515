/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package store

import (
	"context"
	"sync"
)

// Memory keeps preferences for the life of the process.
type Memory struct {
	mu   sync.RWMutex
	data map[string]map[string]string
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string]map[string]string)}
}

func (m *Memory) Get(ctx context.Context, player, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkArgs(player, key); err != nil {
		return "", err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.data[player][key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(ctx context.Context, player, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkArgs(player, key); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data[player] == nil {
		m.data[player] = make(map[string]string)
	}
	m.data[player][key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
