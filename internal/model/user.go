package model

type Role string

const (
	RoleClient   Role = "client"
	RoleBarber   Role = "barber"
	RoleAdmin    Role = "admin"
	RoleDirector Role = "director"
)

type User struct {
	ID         int64  `json:"id"`
	TelegramID int64  `json:"telegram_id"`
	Roles      []Role `json:"roles"`
	Phone      string `json:"phone"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Language   string `json:"language"`
}

// HasRole проверяет наличие роли у пользователя
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// FullName возвращает имя для отображения
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Barber мастер барбершопа
type Barber struct {
	ID          int64  `json:"id"`
	UserID      int64  `json:"user"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}
