package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/niklvrr/FossaOnboarding/internal/infrastructure/models/dto"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// NewSheetsService сервис Google Sheets только на чтение.
// С baseURL (эмулятор, тесты) авторизация отключается.
func NewSheetsService(ctx context.Context, credentialsFile, baseURL string) (*sheets.Service, error) {
	opts := []option.ClientOption{
		option.WithScopes(sheets.SpreadsheetsReadonlyScope),
	}
	if baseURL != "" {
		opts = append(opts, option.WithEndpoint(baseURL), option.WithoutAuthentication())
	} else {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets service: %w", err)
	}
	return svc, nil
}

type RosterRepository struct {
	svc     *sheets.Service
	timeout time.Duration
}

func NewRosterRepository(svc *sheets.Service, timeout time.Duration) *RosterRepository {
	return &RosterRepository{
		svc:     svc,
		timeout: timeout,
	}
}

// Rows читает диапазон таблицы, ячейки приводятся к строкам
func (r *RosterRepository) Rows(ctx context.Context, d *dto.GetRowsDTO) ([][]string, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	resp, err := r.svc.Spreadsheets.Values.Get(d.SpreadsheetId, d.Range).Context(ctx).Do()
	if err != nil {
		return nil, handleAPIError(err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, values := range resp.Values {
		row := make([]string, len(values))
		for i, v := range values {
			if v != nil {
				row[i] = fmt.Sprint(v)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
