package share

import (
	"errors"
	"io"

	"github.com/mdp/qrterminal/v3"
	"rsc.io/qr"
)

// ErrTooLongForQR - ссылка не помещается в QR-код.
var ErrTooLongForQR = errors.New("link is too long for a QR code")

// WriteQR печатает ссылку в w как QR-код из полублоков, чтобы его можно было
// отсканировать телефоном прямо с терминала.
func WriteQR(w io.Writer, link string) error {
	// qrterminal не возвращает ошибку кодирования, проверяем заранее
	if _, err := qr.Encode(link, qr.L); err != nil {
		return ErrTooLongForQR
	}
	qrterminal.GenerateHalfBlock(link, qrterminal.L, w)
	return nil
}
