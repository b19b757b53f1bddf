package tui

import "StoreText/internal/cli/controller"

type statusMsg struct {
	status controller.Status
}

type errMsg struct {
	err error
}

// opDoneMsg - результат операции над буфером. reload - перечитать поля из контроллера,
// qr - QR-код ссылки, который показывается вместо текста до любой клавиши.
type opDoneMsg struct {
	toast  string
	err    error
	reload bool
	qr     string
}

type clearToastMsg struct{}

type closedMsg struct {
	err error
}
