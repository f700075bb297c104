package dto

type GetRowsDTO struct {
	SpreadsheetId string
	Range         string
}
