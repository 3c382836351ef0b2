package model

import "time"

// Category — категория активностей.
// Принадлежит субъекту (subject) либо зарезервированному пространству
// имён DefaultSubject — общий каталог, управляемый администраторами.
type Category struct {
	// ID — UUID категории
	ID string
	// Subject — владелец категории (subject пользователя или DefaultSubject)
	Subject string
	// Name — название категории
	Name string
	// Picture — URL изображения категории (может быть пустым)
	Picture string
	// CreatedAt — время создания
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}

// DefaultSubject — зарезервированный владелец общих категорий и активностей.
// Запись users для него создаётся миграцией со статусом disabled,
// поэтому аутентифицироваться под ним невозможно.
const DefaultSubject = "default"
