package auth

import "fmt"

// Role описывает роль аутентифицированного пользователя.
type Role string

const (
	// RoleClient — клиент, создающий и оплачивающий заявки.
	RoleClient Role = "client"
	// RoleBandMember — участник группы, принимающий и отклоняющий заявки.
	RoleBandMember Role = "band_member"
	// RoleAdmin — служебная роль для внутренних операций.
	RoleAdmin Role = "admin"
)

// KnownRoles перечисляет все зарегистрированные роли.
func KnownRoles() []Role {
	return []Role{RoleClient, RoleBandMember, RoleAdmin}
}

// Actor — аутентифицированный инициатор команды или запроса.
type Actor struct {
	UserID string
	Role   Role
}

// InvalidRoleError возвращается, когда строка роли не входит в перечисление
// известных ролей. Отсекает битые и устаревшие токены до allow-list проверки.
type InvalidRoleError struct {
	Role string
}

func (e *InvalidRoleError) Error() string {
	return fmt.Sprintf("invalid role %q", e.Role)
}

// UnauthorizedRoleError возвращается, когда роль не входит в allow-list
// операции. Несёт и фактическую роль, и разрешённый набор.
type UnauthorizedRoleError struct {
	Role    Role
	Allowed []Role
}

func (e *UnauthorizedRoleError) Error() string {
	return fmt.Sprintf("role %q is not allowed, expected one of %v", e.Role, e.Allowed)
}

// Validate проверяет, что роль входит в перечисление известных ролей.
func Validate(role Role) error {
	for _, known := range KnownRoles() {
		if role == known {
			return nil
		}
	}
	return &InvalidRoleError{Role: string(role)}
}

// Authorize — единственное место, где выражена ролевая логика. Сначала
// валидирует саму роль, затем проверяет членство в allow-list. Применяется
// одинаково к командам и запросам.
func Authorize(role Role, allowed ...Role) error {
	if err := Validate(role); err != nil {
		return err
	}
	for _, a := range allowed {
		if role == a {
			return nil
		}
	}
	return &UnauthorizedRoleError{Role: role, Allowed: allowed}
}

// Guard — предусловие входа в операцию прикладного сервиса.
type Guard func(actor Actor) error

// Allow возвращает guard, пропускающий только перечисленные роли.
// Сервисы объявляют allow-list на каждую операцию и компонуют его
// через Allow, не переизобретая проверку.
func Allow(allowed ...Role) Guard {
	return func(actor Actor) error {
		return Authorize(actor.Role, allowed...)
	}
}
