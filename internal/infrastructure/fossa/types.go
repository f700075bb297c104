package fossa

type TeamUserPayload struct {
	Id     int `json:"id"`
	RoleId int `json:"roleId,omitempty"`
}

type TeamPayload struct {
	Id    int               `json:"id"`
	Name  string            `json:"name"`
	Users []TeamUserPayload `json:"users,omitempty"`
}

type UserPayload struct {
	Id       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

type CreateTeamRequest struct {
	Name          string `json:"name"`
	AutoAddUsers  bool   `json:"autoAddUsers"`
	DefaultRoleId int    `json:"defaultRoleId"`
}

type UpdateTeamUsersRequest struct {
	Action string            `json:"action"`
	Users  []TeamUserPayload `json:"users"`
}

const ActionAdd = "add"
