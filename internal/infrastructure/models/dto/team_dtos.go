package dto

type CreateTeamDTO struct {
	TeamName      string `json:"name"`
	DefaultRoleId int    `json:"default_role_id"`
}

type AddMembersDTO struct {
	TeamId  int   `json:"team_id"`
	UserIds []int `json:"user_ids"`
	RoleId  int   `json:"role_id"`
}
