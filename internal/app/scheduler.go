package app

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Dispatcher фоновая задача, которую планировщик запускает по таймеру
type Dispatcher interface {
	Tick(ctx context.Context) int
}

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	dispatcher Dispatcher
	interval   time.Duration
	logger     *zap.Logger
	stopChan   chan struct{}
	stopOnce   sync.Once
	done       chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(dispatcher Dispatcher, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		dispatcher: dispatcher,
		interval:   interval,
		logger:     logger,
		stopChan:   make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler", zap.Duration("interval", s.interval))

	go s.runSurveyTask(ctx)
}

// Stop останавливает фоновые задачи и ждёт завершения текущего прохода
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.logger.Info("Stopping background scheduler")
		close(s.stopChan)
	})
	<-s.done
}

// runSurveyTask периодически рассылает опросы, срок которых наступил
func (s *Scheduler) runSurveyTask(ctx context.Context) {
	defer close(s.done)

	// Первый запуск сразу при старте
	s.dispatch(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.dispatch(ctx)
		case <-s.stopChan:
			s.logger.Info("Survey task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Survey task cancelled")
			return
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context) {
	sent := s.dispatcher.Tick(ctx)
	if sent > 0 {
		s.logger.Info("Surveys dispatched", zap.Int("sent", sent))
	}
}
