package dto

type InviteDTO struct {
	Emails []string `json:"emails"`
}
