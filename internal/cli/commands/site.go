package commands

import (
	"context"
	"fmt"

	"StoreText/internal/cli/bootstrap"
	"StoreText/internal/config"
)

type sitePushCmd struct{}

func (sitePushCmd) Name() string { return "site-push" }
func (sitePushCmd) Description() string {
	return "Отправить заметку на relay-сервер (занимает сайт при первом вызове)"
}
func (sitePushCmd) Usage() string { return "site-push <site> <id>" }

func (sitePushCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		var ver int64
		err := withPassword("Password", func(pw string) error {
			var perr error
			ver, perr = app.Service.PushSite(ctx, args[0], args[1], pw)
			return perr
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(Out, "%s %s (version %d)\n", successText("Pushed:"), args[0], ver)
		return nil
	})
}

type sitePullCmd struct{}

func (sitePullCmd) Name() string { return "site-pull" }
func (sitePullCmd) Description() string {
	return "Скачать сайт с relay-сервера в новую заметку"
}
func (sitePullCmd) Usage() string { return "site-pull <site>" }

func (sitePullCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		pw, err := Prompt.Password("Password")
		if err != nil {
			return err
		}
		n, err := app.Service.PullSite(ctx, args[0], pw)
		if err != nil {
			return err
		}
		_ = app.State.SaveCurrent(n.ID)
		printNote("Pulled:", n)
		return nil
	})
}

type statusCmd struct{}

func (statusCmd) Name() string { return "status" }
func (statusCmd) Description() string {
	return "Состояние локального хранилища и relay-сервера"
}
func (statusCmd) Usage() string { return "status" }

func (statusCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		list, err := app.Service.List(ctx)
		if err != nil {
			return err
		}
		locked := 0
		for _, s := range list {
			if s.Encrypted {
				locked++
			}
		}
		fmt.Fprintf(Out, "Store:  %s (%s)\n", cfg.StoreDir, cfg.StoreBackend)
		fmt.Fprintf(Out, "Notes:  %d (%d encrypted)\n", len(list), locked)
		if cur, err := app.State.LoadCurrent(); err == nil {
			fmt.Fprintf(Out, "Current: %s\n", cur)
		}
		res, err := app.Relay.Ping(ctx)
		if err != nil {
			fmt.Fprintf(Out, "Relay:  %s %s\n", cfg.ServerURL, errorText("unreachable"))
			return err
		}
		fmt.Fprintf(Out, "Relay:  %s %s\n", cfg.ServerURL, successText(res))
		return nil
	})
}

func init() {
	RegisterCmd(sitePushCmd{})
	RegisterCmd(sitePullCmd{})
	RegisterCmd(statusCmd{})
}
