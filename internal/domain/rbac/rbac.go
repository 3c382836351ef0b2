// Пакет rbac — логика ролей api-module.
// Роль субъекта хранится только в локальной таблице users: IdP отвечает
// за аутентификацию, но никогда не является источником роли.
package rbac

// Роли в порядке возрастания привилегий.
const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

// DefaultRole — роль, назначаемая при первом входе.
const DefaultRole = RoleMember

// roleWeight — вес роли для сравнения.
// Чем выше вес, тем больше привилегий.
var roleWeight = map[string]int{
	RoleMember: 1,
	RoleAdmin:  2,
}

// IsValidRole проверяет, является ли строка допустимой ролью.
func IsValidRole(role string) bool {
	_, ok := roleWeight[role]
	return ok
}

// Satisfies проверяет, достаточно ли роли have для требования want.
// Роль с большим весом удовлетворяет требованию меньшей.
func Satisfies(have, want string) bool {
	wh, ok := roleWeight[have]
	if !ok {
		return false
	}
	ww, ok := roleWeight[want]
	if !ok {
		return false
	}
	return wh >= ww
}
