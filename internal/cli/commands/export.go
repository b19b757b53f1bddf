package commands

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"StoreText/internal/cli/bootstrap"
	"StoreText/internal/cli/crypto"
	"StoreText/internal/cli/model"
	"StoreText/internal/cli/service"
	"StoreText/internal/config"
)

type exportCmd struct{}

func (exportCmd) Name() string { return "export" }
func (exportCmd) Description() string {
	return "Экспорт в .txt, .md или зашифрованный .locked.txt"
}
func (exportCmd) Usage() string {
	return "export [--format txt|md] [--locked] [--out <dir>] <id>"
}

func (exportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	format := fs.String("format", "txt", "txt|md")
	locked := fs.Bool("locked", false, "encrypt plaintext before writing")
	outDir := fs.String("out", ".", "output directory")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	f, err := service.ParseFormat(*format)
	if err != nil {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		n, err := app.Service.Get(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		note := *n
		if *locked && !note.Encrypted() {
			pw, err := Prompt.NewPassword("Password")
			if err != nil {
				return err
			}
			if note.Content, err = app.Service.ExportEncrypted(note.Content, pw); err != nil {
				return err
			}
		}

		var buf bytes.Buffer
		if err := app.Service.Export(&buf, note, f); err != nil {
			return err
		}
		name := service.ExportFileName(note.Title, note.Encrypted())
		if f == service.FormatMarkdown {
			name = service.MarkdownFileName(note.Title)
		}
		if err := os.MkdirAll(*outDir, 0o700); err != nil {
			return err
		}
		path := filepath.Join(*outDir, name)
		if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
			return err
		}
		fmt.Fprintf(Out, "%s %s\n", successText("Exported:"), path)
		return nil
	})
}

type importCmd struct{}

func (importCmd) Name() string { return "import" }
func (importCmd) Description() string {
	return "Импорт файла (.txt, .md, .locked.txt) или строки конверта"
}
func (importCmd) Usage() string { return "import [--title <title>] <file|envelope>" }

func (importCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	title := fs.String("title", "", "title for an imported envelope")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	src := fs.Arg(0)
	return withApp(cfg, func(app *bootstrap.App) error {
		var (
			n   model.Note
			err error
		)
		if isEnvelopeArg(src) {
			pw, perr := Prompt.Password("Password")
			if perr != nil {
				return perr
			}
			n, err = app.Service.ImportEnvelope(ctx, src, pw, *title)
		} else {
			err = withPassword("Password", func(pw string) error {
				var ierr error
				n, ierr = app.Service.ImportFile(ctx, src, pw)
				return ierr
			})
		}
		if err != nil {
			return err
		}
		_ = app.State.SaveCurrent(n.ID)
		printNote("Imported:", n)
		return nil
	})
}

// isEnvelopeArg: аргумент похож на конверт и не является существующим файлом.
// Длинный конверт как имя файла даёт ENAMETOOLONG, поэтому подходит любая ошибка Stat.
func isEnvelopeArg(src string) bool {
	if !crypto.IsEnvelope(src) {
		return false
	}
	_, err := os.Stat(src)
	return err != nil
}

type legacyImportCmd struct{}

func (legacyImportCmd) Name() string { return "legacy-import" }
func (legacyImportCmd) Description() string {
	return "Перенести заметки из выгрузки браузерного хранилища (JSON)"
}
func (legacyImportCmd) Usage() string { return "legacy-import <file.json>" }

func (legacyImportCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		notes, err := app.Service.ImportLegacyCollection(ctx, args[0])
		for _, n := range notes {
			printSummary(n.Summary())
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "%s %d note(s)\n", successText("Imported:"), len(notes))
		return nil
	})
}

func init() {
	RegisterCmd(exportCmd{})
	RegisterCmd(importCmd{})
	RegisterCmd(legacyImportCmd{})
}
