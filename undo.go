package main

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SwipeType tags a recorded swipe action.
type SwipeType string

const (
	SwipeLike SwipeType = "like"
	SwipePass SwipeType = "pass"
)

// SwipeAction is one recorded like/pass event.
type SwipeAction struct {
	ID        string    `json:"id"`
	Type      SwipeType `json:"type"`
	ProfileID string    `json:"profileId"`
	Timestamp int64     `json:"timestamp"`
}

const defaultSwipeCapacity = 20

// SwipeHistory is a bounded append-only log of swipe actions. It only
// tracks what happened most recently; it has no knowledge of how to invert
// a mutation. Callers reverse the matching store change themselves
// (see swipeInverses in deck.go).
type SwipeHistory struct {
	mu      sync.Mutex
	actions []SwipeAction
	max     int
}

// NewSwipeHistory returns a log holding at most max actions.
// max <= 0 selects the default capacity of 20.
func NewSwipeHistory(max int) *SwipeHistory {
	if max <= 0 {
		max = defaultSwipeCapacity
	}
	return &SwipeHistory{max: max}
}

// RecordSwipe appends an action, evicting the oldest entry once over
// capacity.
func (h *SwipeHistory) RecordSwipe(t SwipeType, profileID string) SwipeAction {
	action := SwipeAction{
		ID:        uuid.NewString(),
		Type:      t,
		ProfileID: profileID,
		Timestamp: time.Now().UnixMilli(),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = append(h.actions, action)
	if len(h.actions) > h.max {
		h.actions = h.actions[1:]
	}
	return action
}

// CanUndo reports whether at least one action is recorded.
func (h *SwipeHistory) CanUndo() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.actions) > 0
}

// UndoLastSwipe pops the most recent action and hands it to the caller,
// which is responsible for reversing the corresponding store mutation.
func (h *SwipeHistory) UndoLastSwipe() (SwipeAction, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.actions) == 0 {
		return SwipeAction{}, false
	}
	last := h.actions[len(h.actions)-1]
	h.actions = h.actions[:len(h.actions)-1]
	return last, true
}

// Len returns the number of retained actions.
func (h *SwipeHistory) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.actions)
}

// Actions returns a copy of the retained log, oldest first.
func (h *SwipeHistory) Actions() []SwipeAction {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]SwipeAction, len(h.actions))
	copy(out, h.actions)
	return out
}

// Clear drops the whole log.
func (h *SwipeHistory) Clear() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = nil
}
