package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"StoreText/internal/cli/bootstrap"
	"StoreText/internal/cli/prompt"
	"StoreText/internal/config"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "notes".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "show <id>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

var (
	// Out - общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
	Out io.Writer = os.Stdout
	// In - источник содержимого для аргумента "-".
	In io.Reader = os.Stdin
	// Prompt запрашивает пароли; в тестах подменяется.
	Prompt prompt.Prompter = prompt.NewTerminal()

	log = zap.NewNop().Sugar()

	// openApp собирает зависимости клиента; в тестах может подменяться.
	openApp = bootstrap.OpenApp
)

// SetLogger задаёт логгер команд.
func SetLogger(l *zap.SugaredLogger) {
	if l != nil {
		log = l
	}
}

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text for all commands.
func FormatGlobalUsage() string {
	lines := []string{
		"StoreText CLI",
		"",
		"Usage:",
		"  storetext [--store-dir <dir>] [--store sqlite|file] <command> [args]",
		"",
		"Commands:",
	}
	for _, c := range List() {
		lines = append(lines, fmt.Sprintf("  %-36s %s", c.Usage(), c.Description()))
	}
	return strings.Join(lines, "\n") + "\n"
}

// withApp открывает хранилище на время fn.
func withApp(cfg *config.Config, fn func(app *bootstrap.App) error) error {
	app, done, err := openApp(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := done(); err != nil {
			log.Warnw("close store", "error", err)
		}
	}()
	return fn(app)
}

// readContent возвращает аргумент как есть или читает In для "-".
func readContent(arg string) (string, error) {
	if arg != "-" {
		return arg, nil
	}
	b, err := io.ReadAll(In)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
