package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/aretw0/anilink/pkg/domain"
)

// TransitionMessage is the SSE payload for one state change request.
type TransitionMessage struct {
	SubjectID string `json:"subject_id"`
	Requested string `json:"requested"`
	From      string `json:"from,omitempty"`
	To        string `json:"to,omitempty"`
	Error     string `json:"error,omitempty"`
}

// StreamManager handles active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SubjectID -> Set of Channels
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
	}
}

func (sm *StreamManager) Subscribe(subjectID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[subjectID]; !ok {
		sm.subscribers[subjectID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[subjectID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[subjectID]; ok {
			if _, live := subs[ch]; !live {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, subjectID)
			}
		}
	}
}

func (sm *StreamManager) Broadcast(subjectID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[subjectID] {
		select {
		case ch <- msg:
		default:
			// Drop message if channel is full (slow client)
			slog.Warn("SSE: Client buffer full, dropping message", "subject_id", subjectID)
		}
	}
}

// Hooks returns lifecycle hooks that broadcast transitions to subscribers.
func (sm *StreamManager) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			msg := TransitionMessage{
				SubjectID: e.SubjectID,
				Requested: e.Requested,
				From:      e.From,
				To:        e.To,
			}
			if e.Err != nil {
				msg.Error = e.Err.Error()
			}
			data, err := json.Marshal(msg)
			if err != nil {
				return
			}
			sm.Broadcast(e.SubjectID, string(data))
		},
	}
}
