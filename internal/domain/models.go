package domain

import (
	"fmt"
	"slices"
	"time"
)

// Maintainer контакт мейнтейнера из таблицы
type Maintainer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (m Maintainer) String() string {
	return fmt.Sprintf("%s <%s>", m.Name, m.Email)
}

// User пользователь SCA платформы
type User struct {
	Id       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// Team команда SCA платформы, по соглашению одна на проект
type Team struct {
	Id        int    `json:"id"`
	Name      string `json:"name"`
	MemberIds []int  `json:"member_ids"`
}

func (t *Team) HasMember(userId int) bool {
	return slices.Contains(t.MemberIds, userId)
}

func (t *Team) AddMembers(userIds ...int) {
	for _, id := range userIds {
		if !t.HasMember(id) {
			t.MemberIds = append(t.MemberIds, id)
		}
	}
}

type Issue struct {
	Number int      `json:"number"`
	Title  string   `json:"title"`
	Labels []string `json:"labels"`
	URL    string   `json:"url"`
	Body   string   `json:"body"`
}

func (i *Issue) HasLabel(label string) bool {
	return slices.Contains(i.Labels, label)
}

// Roster проект -> мейнтейнеры в порядке строк таблицы
type Roster map[string][]Maintainer

type AuditEvent struct {
	Timestamp time.Time
	EventType string
	Action    string
	Payload   any
}

const (
	EventTypeFossa = "FOSSA_EVENT"

	ActionTeamCreated          = "TEAM_CREATED"
	ActionTeamMembershipUpdate = "TEAM_MEMBER_SHIP_UPDATED"
)

// ReconcileState состояние сверки команды проекта
type ReconcileState string

const (
	StateTeamMissing   ReconcileState = "TEAM_MISSING"
	StateTeamExists    ReconcileState = "TEAM_EXISTS"
	StateMembersSynced ReconcileState = "MEMBERS_SYNCED"
)

// RoleTeamAdmin идентификатор роли Team Admin на платформе
const RoleTeamAdmin = 4
