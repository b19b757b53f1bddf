package commands

import (
	"context"
	"fmt"

	"StoreText/internal/cli/bootstrap"
	"StoreText/internal/config"
)

type encryptCmd struct{}

func (encryptCmd) Name() string        { return "encrypt" }
func (encryptCmd) Description() string { return "Зашифровать заметку паролем" }
func (encryptCmd) Usage() string       { return "encrypt <id>" }

func (encryptCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		n, err := app.Service.Get(ctx, args[0])
		if err != nil {
			return err
		}
		if n.Encrypted() {
			return fmt.Errorf("note %s is already encrypted", n.ID)
		}
		pw, err := Prompt.NewPassword("Password")
		if err != nil {
			return err
		}
		env, err := app.Service.EncryptContent(n.Content, pw)
		if err != nil {
			return err
		}
		saved, _, err := app.Service.Save(ctx, n.ID, n.Title, env)
		if err != nil {
			return err
		}
		printNote("Encrypted:", saved)
		return nil
	})
}

type decryptCmd struct{}

func (decryptCmd) Name() string { return "decrypt" }
func (decryptCmd) Description() string {
	return "Расшифровать заметку и сохранить открытым текстом"
}
func (decryptCmd) Usage() string { return "decrypt <id>" }

func (decryptCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	return withApp(cfg, func(app *bootstrap.App) error {
		n, err := app.Service.Get(ctx, args[0])
		if err != nil {
			return err
		}
		pw, err := Prompt.Password("Password")
		if err != nil {
			return err
		}
		plain, err := app.Service.DecryptContent(n.Content, pw)
		if err != nil {
			return err
		}
		saved, _, err := app.Service.Save(ctx, n.ID, n.Title, plain)
		if err != nil {
			return err
		}
		printNote("Decrypted:", saved)
		return nil
	})
}

func init() {
	RegisterCmd(encryptCmd{})
	RegisterCmd(decryptCmd{})
}
