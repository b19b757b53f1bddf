package commands

import (
	"context"
	"errors"

	"StoreText/internal/cli/bootstrap"
	"StoreText/internal/cli/controller"
	"StoreText/internal/cli/model"
	"StoreText/internal/cli/tui"
	"StoreText/internal/config"
)

// runEditor запускает терминальный редактор; в тестах подменяется.
var runEditor = tui.Run

type editCmd struct{}

func (editCmd) Name() string { return "edit" }
func (editCmd) Description() string {
	return "Открыть редактор с автосохранением (без id - последняя заметка)"
}
func (editCmd) Usage() string { return "edit [id|new]" }

func (editCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		ctrl := controller.New(app.Service, cfg.AutosaveDelay, log)

		id := ""
		if len(args) == 1 && args[0] != "new" {
			id = args[0]
		} else if len(args) == 0 {
			id, _ = app.State.LoadCurrent()
		}
		if id != "" {
			err := withPassword("Password", func(pw string) error {
				return ctrl.Open(ctx, id, pw)
			})
			// последняя заметка могла быть удалена: начинаем с пустого буфера
			if err != nil && !(len(args) == 0 && errors.Is(err, model.ErrNotFound)) {
				return err
			}
		}

		share := func(content, pw string) (string, error) {
			return app.Service.ShareLink(content, pw, "")
		}
		runErr := runEditor(ctx, ctrl, share)
		if err := ctrl.Close(context.Background()); err != nil && runErr == nil {
			runErr = err
		}
		if st := ctrl.State(); st.NoteID != "" {
			if err := app.State.SaveCurrent(st.NoteID); err != nil {
				log.Warnw("remember current note", "error", err)
			}
		}
		return runErr
	})
}

func init() {
	RegisterCmd(editCmd{})
}
