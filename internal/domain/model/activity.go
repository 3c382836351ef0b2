package model

import "time"

// Activity — активность внутри категории.
type Activity struct {
	// ID — UUID активности
	ID string
	// Subject — владелец активности (совпадает с владельцем категории)
	Subject string
	// CategoryID — UUID категории
	CategoryID string
	// Name — название активности
	Name string
	// Picture — URL изображения активности (может быть пустым)
	Picture string
	// CreatedAt — время создания
	CreatedAt time.Time
	// UpdatedAt — время последнего обновления
	UpdatedAt time.Time
}
