package model

import "time"

// Site - серверная модель сайта relay: имя и непрозрачный конверт.
// Сервер не знает пароля и видит только зашифрованный текст.
type Site struct {
	Name     string `gorm:"primaryKey;size:64"`
	Envelope string `gorm:"type:text;not null;default:''"`
	Version  int64  `gorm:"not null;default:0"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
