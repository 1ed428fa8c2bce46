package state

import (
	"sync"
)

// Manager управляет состояниями пользователей
type Manager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session // telegramID -> Session
}

// NewManager создаёт новый менеджер состояний
func NewManager() *Manager {
	return &Manager{
		sessions: make(map[int64]*Session),
	}
}

// Acquire возвращает заблокированную сессию пользователя, создавая её при первом обращении.
// Сообщения одного пользователя обрабатываются по очереди; вызывающий обязан вызвать Unlock.
func (sm *Manager) Acquire(telegramID int64) *Session {
	sess := sm.session(telegramID)
	sess.mu.Lock()
	return sess
}

// GetState получает текущее состояние пользователя
func (sm *Manager) GetState(telegramID int64) UserState {
	sm.mu.RLock()
	sess, exists := sm.sessions[telegramID]
	sm.mu.RUnlock()

	if !exists {
		return StateNone
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.State
}

func (sm *Manager) session(telegramID int64) *Session {
	sm.mu.RLock()
	sess, exists := sm.sessions[telegramID]
	sm.mu.RUnlock()
	if exists {
		return sess
	}

	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sess, exists = sm.sessions[telegramID]; !exists {
		sess = &Session{TelegramID: telegramID, State: StateNone}
		sm.sessions[telegramID] = sess
	}
	return sess
}
