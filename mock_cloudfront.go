package main

import (
	"context"
	"fmt"
	"sync"
)

// MockInvalidationClient records requested distribution invalidations.
type MockInvalidationClient struct {
	mu            sync.Mutex
	Requests      []string
	InvalidateErr error
}

func (m *MockInvalidationClient) Invalidate(ctx context.Context, distributionID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InvalidateErr != nil {
		return "", m.InvalidateErr
	}
	m.Requests = append(m.Requests, distributionID)
	return fmt.Sprintf("INV%d", len(m.Requests)), nil
}

// mockConfirmer answers every prompt with a canned response and remembers
// what it was asked.
type mockConfirmer struct {
	mu      sync.Mutex
	answer  bool
	Prompts []string
}

func (m *mockConfirmer) Confirm(prompt string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Prompts = append(m.Prompts, prompt)
	return m.answer
}
