package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"StoreText/internal/cli/bootstrap"
	"StoreText/internal/cli/model"
	"StoreText/internal/cli/service"
	"StoreText/internal/config"
)

// withPassword вызывает fn без пароля и, если сервис его требует, спрашивает пароль.
func withPassword(label string, fn func(password string) error) error {
	err := fn("")
	if !errors.Is(err, service.ErrPasswordRequired) {
		return err
	}
	pw, perr := Prompt.Password(label)
	if perr != nil {
		return perr
	}
	return fn(pw)
}

// currentOr возвращает id из аргументов или ID последней открытой заметки.
func currentOr(app *bootstrap.App, args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	id, err := app.State.LoadCurrent()
	if err != nil {
		return "", ErrUsage
	}
	return id, nil
}

type notesCmd struct{}

func (notesCmd) Name() string        { return "notes" }
func (notesCmd) Description() string { return "Список заметок, новые первыми" }
func (notesCmd) Usage() string       { return "notes" }

func (notesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		list, err := app.Service.List(ctx)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Fprintln(Out, "No notes yet.")
			return nil
		}
		for _, s := range list {
			printSummary(s)
		}
		return nil
	})
}

type newCmd struct{}

func (newCmd) Name() string { return "new" }
func (newCmd) Description() string {
	return "Создать заметку (content \"-\" читает stdin)"
}
func (newCmd) Usage() string { return "new <title> [content|-]" }

func (newCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return ErrUsage
	}
	content := ""
	if len(args) == 2 {
		var err error
		if content, err = readContent(args[1]); err != nil {
			return err
		}
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		n, err := app.Service.Create(ctx, args[0], content)
		if err != nil {
			return err
		}
		if err := app.State.SaveCurrent(n.ID); err != nil {
			log.Warnw("remember current note", "error", err)
		}
		printNote("Created:", n)
		return nil
	})
}

type showCmd struct{}

func (showCmd) Name() string { return "show" }
func (showCmd) Description() string {
	return "Показать содержимое (зашифрованное спросит пароль)"
}
func (showCmd) Usage() string { return "show [--raw] [id]" }

func (showCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	raw := fs.Bool("raw", false, "print stored content without decrypting")
	if err := fs.Parse(args); err != nil || fs.NArg() > 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		id, err := currentOr(app, fs.Args())
		if err != nil {
			return err
		}
		var n model.Note
		if *raw {
			p, err := app.Service.Get(ctx, id)
			if err != nil {
				return err
			}
			n = *p
		} else {
			err = withPassword("Password", func(pw string) error {
				var oerr error
				n, oerr = app.Service.Open(ctx, id, pw)
				return oerr
			})
			if err != nil {
				return err
			}
		}
		fmt.Fprint(Out, n.Content)
		if n.Content != "" && n.Content[len(n.Content)-1] != '\n' {
			fmt.Fprintln(Out)
		}
		return nil
	})
}

type saveCmd struct{}

func (saveCmd) Name() string { return "save" }
func (saveCmd) Description() string {
	return "Перезаписать содержимое заметки"
}
func (saveCmd) Usage() string { return "save [--title <title>] <id> <content|->" }

func (saveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("save", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "new title")
	if err := fs.Parse(args); err != nil || fs.NArg() != 2 {
		return ErrUsage
	}
	id := fs.Arg(0)
	content, err := readContent(fs.Arg(1))
	if err != nil {
		return err
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		cur, err := app.Service.Get(ctx, id)
		if err != nil {
			return err
		}
		t := cur.Title
		if *title != "" {
			t = *title
		}
		n, changed, err := app.Service.Save(ctx, id, t, content)
		if err != nil {
			return err
		}
		if !changed {
			fmt.Fprintln(Out, mutedText("No changes."))
			return nil
		}
		_ = app.State.SaveCurrent(n.ID)
		printNote("Saved:", n)
		return nil
	})
}

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Удалить заметку" }
func (deleteCmd) Usage() string       { return "delete <id>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		if err := app.Service.Delete(ctx, args[0]); err != nil {
			return err
		}
		if cur, err := app.State.LoadCurrent(); err == nil && cur == args[0] {
			_ = app.State.SaveCurrent("")
		}
		fmt.Fprintf(Out, "%s %s\n", successText("Deleted:"), args[0])
		return nil
	})
}

func init() {
	RegisterCmd(notesCmd{})
	RegisterCmd(newCmd{})
	RegisterCmd(showCmd{})
	RegisterCmd(saveCmd{})
	RegisterCmd(deleteCmd{})
}
