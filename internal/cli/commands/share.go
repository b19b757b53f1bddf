package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/atotto/clipboard"

	"StoreText/internal/cli/bootstrap"
	"StoreText/internal/cli/share"
	"StoreText/internal/config"
)

// copyToClipboard подменяется в тестах.
var copyToClipboard = clipboard.WriteAll

type shareCmd struct{}

func (shareCmd) Name() string { return "share" }
func (shareCmd) Description() string {
	return "Ссылка с зашифрованной заметкой (копируется в буфер обмена)"
}
func (shareCmd) Usage() string { return "share [--site <name>] [--qr] <id>" }

func (shareCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("share", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	site := fs.String("site", "", "site name for ?site= links")
	asQR := fs.Bool("qr", false, "also print the link as a QR code")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		n, err := app.Service.Get(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		pw := ""
		if !n.Encrypted() {
			if pw, err = Prompt.Password("Share password"); err != nil {
				return err
			}
		}
		link, err := app.Service.ShareLink(n.Content, pw, *site)
		if err != nil {
			return err
		}
		if *asQR {
			if err := share.WriteQR(Out, link); err != nil {
				return err
			}
		}
		fmt.Fprintln(Out, link)
		if err := copyToClipboard(link); err != nil {
			log.Debugw("clipboard unavailable", "error", err)
			return nil
		}
		fmt.Fprintln(Out, mutedText("copied to clipboard"))
		return nil
	})
}

type receiveCmd struct{}

func (receiveCmd) Name() string        { return "receive" }
func (receiveCmd) Description() string { return "Создать заметку из ссылки" }
func (receiveCmd) Usage() string       { return "receive <link>" }

func (receiveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		pw, err := Prompt.Password("Password")
		if err != nil {
			return err
		}
		n, err := app.Service.ReceiveShared(ctx, args[0], pw)
		if err != nil {
			return err
		}
		_ = app.State.SaveCurrent(n.ID)
		printNote("Received:", n)
		return nil
	})
}

func init() {
	RegisterCmd(shareCmd{})
	RegisterCmd(receiveCmd{})
}
