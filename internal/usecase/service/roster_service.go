package service

import (
	"context"
	"strings"
	"sync"

	"github.com/niklvrr/FossaOnboarding/internal/domain"
	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/dto"
	"go.uber.org/zap"
)

// Колонки листа мейнтейнеров
const (
	colProject = 1
	colName    = 2
	colEmail   = 5
)

type RosterRepository interface {
	Rows(ctx context.Context, d *dto.GetRowsDTO) ([][]string, error)
}

// RosterService читает таблицу мейнтейнеров один раз за жизнь процесса
type RosterService struct {
	repo      RosterRepository
	sheetName string
	log       *zap.Logger

	mu      sync.Mutex
	rosters map[string]domain.Roster
}

func NewRosterService(repo RosterRepository, sheetName string, log *zap.Logger) *RosterService {
	return &RosterService{
		repo:      repo,
		sheetName: sheetName,
		log:       log,
		rosters:   make(map[string]domain.Roster),
	}
}

// GetRoster возвращает проекты и их мейнтейнеров. Результат кэшируется,
// неудачная загрузка не кэшируется. Возвращаемую карту менять нельзя.
func (s *RosterService) GetRoster(ctx context.Context, spreadsheetId string) (domain.Roster, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if roster, ok := s.rosters[spreadsheetId]; ok {
		return roster, nil
	}

	rows, err := s.repo.Rows(ctx, &dto.GetRowsDTO{
		SpreadsheetId: spreadsheetId,
		Range:         s.sheetName,
	})
	if err != nil {
		s.log.Error("failed to read maintainer spreadsheet",
			zap.String("spreadsheet_id", spreadsheetId),
			zap.String("range", s.sheetName),
			zap.Error(err),
		)
		return nil, mapRepositoryError(err)
	}
	if len(rows) == 0 {
		s.log.Error("maintainer spreadsheet is empty",
			zap.String("spreadsheet_id", spreadsheetId),
			zap.String("range", s.sheetName),
		)
		return nil, ErrRosterEmpty
	}

	roster, skipped := BuildRoster(rows)
	if skipped > 0 {
		s.log.Warn("maintainer rows skipped",
			zap.String("spreadsheet_id", spreadsheetId),
			zap.Int("skipped", skipped),
		)
	}

	s.log.Info("maintainer roster loaded",
		zap.String("spreadsheet_id", spreadsheetId),
		zap.Int("rows", len(rows)),
		zap.Int("projects", len(roster)),
	)

	s.rosters[spreadsheetId] = roster
	return roster, nil
}

// BuildRoster группирует строки по проектам. Строка с пустой ячейкой
// проекта относится к ближайшему проекту выше. Строки до первого проекта
// и строки без email пропускаются, повторный email в проекте схлопывается.
func BuildRoster(rows [][]string) (domain.Roster, int) {
	roster := make(domain.Roster)
	seen := make(map[string]map[string]bool)
	skipped := 0
	current := ""

	for _, row := range rows {
		if project := cell(row, colProject); project != "" {
			current = project
		}

		email := cell(row, colEmail)
		if current == "" || email == "" {
			skipped++
			continue
		}

		if seen[current] == nil {
			seen[current] = make(map[string]bool)
		}
		if seen[current][email] {
			continue
		}
		seen[current][email] = true

		roster[current] = append(roster[current], domain.Maintainer{
			Name:  cell(row, colName),
			Email: email,
		})
	}

	return roster, skipped
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
