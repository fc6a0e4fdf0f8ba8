package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	defaultResultsDir = "results"
	filePrefix        = "interview_"
	fileExt           = ".json"
)

// Store хранит результаты интервью в JSON-файлах results/interview_<id>.json
type Store struct {
	dir string
}

func NewStore(dir string) *Store {
	if dir == "" {
		dir = defaultResultsDir
	}
	return &Store{dir: dir}
}

func (s *Store) path(interviewID string) string {
	return filepath.Join(s.dir, filePrefix+interviewID+fileExt)
}

// SaveResult сохраняет результат интервью в JSON файл и возвращает путь к нему
func (s *Store) SaveResult(result *InterviewResult) (string, error) {
	if result == nil || result.InterviewID == "" {
		return "", fmt.Errorf("результат без ID интервью")
	}

	// Создаем директорию если её нет
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("ошибка создания директории %s: %w", s.dir, err)
	}

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("ошибка сериализации результата: %w", err)
	}

	path := s.path(result.InterviewID)
	if err := os.WriteFile(path, jsonData, 0644); err != nil {
		return "", fmt.Errorf("ошибка записи файла %s: %w", path, err)
	}

	return path, nil
}

// LoadResult загружает результат интервью из JSON файла
func (s *Store) LoadResult(interviewID string) (*InterviewResult, error) {
	path := s.path(interviewID)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения файла %s: %w", path, err)
	}

	var result InterviewResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("ошибка десериализации JSON: %w", err)
	}

	return &result, nil
}

// ListResults возвращает отсортированный список ID сохраненных интервью
func (s *Store) ListResults() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения директории %s: %w", s.dir, err)
	}

	results := []string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != fileExt || !strings.HasPrefix(name, filePrefix) {
			continue
		}
		if id := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileExt); id != "" {
			results = append(results, id)
		}
	}
	sort.Strings(results)

	return results, nil
}
