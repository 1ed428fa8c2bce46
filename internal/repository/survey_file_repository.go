package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/barber_bot/internal/model"
)

// FileSurveyStore хранит все опросы одним JSON-документом.
// Каждое изменение перечитывает файл целиком и заменяет его через временный файл и rename,
// поэтому читатель никогда не видит файл записанным наполовину.
type FileSurveyStore struct {
	mu   sync.Mutex
	path string
}

// NewFileSurveyStore создаёт хранилище и каталог под файл
func NewFileSurveyStore(path string) (*FileSurveyStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create survey store dir: %w", err)
	}
	return &FileSurveyStore{path: path}, nil
}

// Put создаёт или перезаписывает опрос
func (s *FileSurveyStore) Put(_ context.Context, survey model.PendingSurvey) error {
	return s.update(func(surveys map[int64]model.PendingSurvey) error {
		surveys[survey.BookingID] = normalizeSurvey(survey)
		return nil
	})
}

// Get получает опрос по id записи
func (s *FileSurveyStore) Get(_ context.Context, bookingID int64) (*model.PendingSurvey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	surveys, err := s.load()
	if err != nil {
		return nil, err
	}

	survey, ok := surveys[bookingID]
	if !ok {
		return nil, nil
	}
	return &survey, nil
}

// Due возвращает снимок опросов, которые пора отправить
func (s *FileSurveyStore) Due(_ context.Context, now time.Time) ([]model.PendingSurvey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	surveys, err := s.load()
	if err != nil {
		return nil, err
	}

	due := make([]model.PendingSurvey, 0)
	for _, survey := range surveys {
		if survey.IsDue(now) {
			due = append(due, survey)
		}
	}

	sort.Slice(due, func(i, j int) bool {
		if due[i].SendAt.Equal(due[j].SendAt) {
			return due[i].BookingID < due[j].BookingID
		}
		return due[i].SendAt.Before(due[j].SendAt)
	})

	return due, nil
}

// MarkSent помечает опрос отправленным
func (s *FileSurveyStore) MarkSent(_ context.Context, bookingID int64, at time.Time) error {
	return s.update(func(surveys map[int64]model.PendingSurvey) error {
		survey, ok := surveys[bookingID]
		if !ok {
			return ErrSurveyNotFound
		}
		if survey.Sent {
			return errUnchanged
		}
		sentAt := at.UTC()
		survey.Sent = true
		survey.SentAt = &sentAt
		surveys[bookingID] = survey
		return nil
	})
}

// Remove удаляет опрос, отсутствие записи не ошибка
func (s *FileSurveyStore) Remove(_ context.Context, bookingID int64) error {
	return s.update(func(surveys map[int64]model.PendingSurvey) error {
		if _, ok := surveys[bookingID]; !ok {
			return errUnchanged
		}
		delete(surveys, bookingID)
		return nil
	})
}

// errUnchanged говорит update, что перезаписывать файл не нужно
var errUnchanged = errors.New("unchanged")

func (s *FileSurveyStore) update(mutate func(map[int64]model.PendingSurvey) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	surveys, err := s.load()
	if err != nil {
		return err
	}

	if err := mutate(surveys); err != nil {
		if errors.Is(err, errUnchanged) {
			return nil
		}
		return err
	}

	return s.save(surveys)
}

func (s *FileSurveyStore) load() (map[int64]model.PendingSurvey, error) {
	surveys := make(map[int64]model.PendingSurvey)

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return surveys, nil
		}
		return nil, fmt.Errorf("read survey store: %w", err)
	}

	if len(data) == 0 {
		return surveys, nil
	}

	if err := json.Unmarshal(data, &surveys); err != nil {
		return nil, fmt.Errorf("decode survey store: %w", err)
	}
	return surveys, nil
}

func (s *FileSurveyStore) save(surveys map[int64]model.PendingSurvey) error {
	data, err := json.MarshalIndent(surveys, "", "  ")
	if err != nil {
		return fmt.Errorf("encode survey store: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace survey store: %w", err)
	}
	return nil
}
