package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"StoreText/internal/cli/prompt"
	"StoreText/internal/config"
)

// testConfig создаёт конфиг с хранилищем во временном каталоге.
func testConfig(t *testing.T, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		StoreDir:      t.TempDir(),
		StoreBackend:  backend,
		ServerURL:     "http://127.0.0.1:1",
		ShareBaseURL:  "https://notes.example/share",
		AutosaveDelay: config.DefaultAutosaveDelay,
	}
}

// withPasswords подменяет Prompt ответами по строке на запрос.
func withPasswords(t *testing.T, answers ...string) {
	t.Helper()
	old := Prompt
	Prompt = prompt.NewReader(strings.NewReader(strings.Join(answers, "\n") + "\n"))
	t.Cleanup(func() { Prompt = old })
}

// withStdin подменяет In для аргумента "-".
func withStdin(t *testing.T, s string) {
	t.Helper()
	old := In
	In = strings.NewReader(s)
	t.Cleanup(func() { In = old })
}

// перехват stdout на время теста
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// run выполняет команду и возвращает её вывод.
func run(t *testing.T, cfg *config.Config, cmd Command, args ...string) (string, error) {
	t.Helper()
	var err error
	out := withStdoutCapture(t, func() { err = cmd.Run(context.Background(), cfg, args) })
	return out, err
}

// mustRun как run, но падает на ошибке.
func mustRun(t *testing.T, cfg *config.Config, cmd Command, args ...string) string {
	t.Helper()
	out, err := run(t, cfg, cmd, args...)
	require.NoError(t, err, out)
	return out
}

// noteID достаёт id из вывода printNote.
func noteID(t *testing.T, out string) string {
	t.Helper()
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "id:") {
			return strings.TrimSpace(strings.TrimPrefix(line, "id:"))
		}
	}
	t.Fatalf("no id in output: %q", out)
	return ""
}
