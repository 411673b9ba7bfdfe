package model

import (
	"time"
)

// Product — товар каталога, ссылающийся на загруженное изображение.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       float64
	// ImageID — идентификатор артефакта в хранилище
	ImageID   string
	CreatedAt time.Time
}
