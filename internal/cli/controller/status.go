package controller

// Status - индикатор сохранения редактора.
type Status int

const (
	// StatusSaved - буфер совпадает с сохранённой заметкой.
	StatusSaved Status = iota
	// StatusUnsaved - есть несохранённые изменения.
	StatusUnsaved
	// StatusSaving - идёт запись в хранилище.
	StatusSaving
)

func (s Status) String() string {
	switch s {
	case StatusSaved:
		return "saved"
	case StatusUnsaved:
		return "unsaved"
	case StatusSaving:
		return "saving"
	}
	return "unknown"
}
