// Package tui - терминальный редактор заметки поверх controller.Controller.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"StoreText/internal/cli/controller"
	"StoreText/internal/cli/model"
	sharelink "StoreText/internal/cli/share"
)

const toastTTL = 3 * time.Second

// Editor - операции контроллера, которыми пользуется редактор.
type Editor interface {
	State() controller.State
	Edit(title, content string)
	Save(ctx context.Context) error
	NewNote(ctx context.Context) error
	EncryptBuffer(ctx context.Context, password string) error
	DecryptBuffer(ctx context.Context, password string) error
	Close(ctx context.Context) error
}

// Sharer строит ссылку для передачи содержимого.
type Sharer func(content, password string) (string, error)

// copyToClipboard подменяется в тестах.
var copyToClipboard = clipboard.WriteAll

type focusField int

const (
	focusTitle focusField = iota
	focusBody
)

type pendingAction int

const (
	actionNone pendingAction = iota
	actionEncrypt
	actionDecrypt
	actionShare
	actionQR
)

type appModel struct {
	ctx    context.Context
	editor Editor
	share  Sharer

	title    textinput.Model
	body     textarea.Model
	password textinput.Model
	focus    focusField

	action pendingAction
	status controller.Status
	toast  string
	qr     string
	err    error

	width, height int
	quitting      bool
}

func newAppModel(ctx context.Context, ed Editor, share Sharer) appModel {
	ti := textinput.New()
	ti.Placeholder = "Title"
	ti.CharLimit = 200
	ti.Width = 60

	ta := textarea.New()
	ta.Placeholder = "Start typing…"
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(80)
	ta.SetHeight(16)

	pw := textinput.New()
	pw.EchoMode = textinput.EchoPassword
	pw.EchoCharacter = '•'
	pw.Width = 40

	m := appModel{ctx: ctx, editor: ed, share: share, title: ti, body: ta, password: pw}
	m.loadFromEditor()
	m.focusOn(focusBody)
	return m
}

func (m *appModel) loadFromEditor() {
	st := m.editor.State()
	m.title.SetValue(st.Title)
	m.body.SetValue(st.Content)
	m.status = st.Status
}

func (m *appModel) focusOn(f focusField) {
	m.focus = f
	if f == focusTitle {
		m.body.Blur()
		m.title.Focus()
		return
	}
	m.title.Blur()
	m.body.Focus()
}

func (m appModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, textarea.Blink)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		if msg.Width > 8 {
			m.body.SetWidth(msg.Width - 6)
			m.title.Width = msg.Width - 14
		}
		if msg.Height > 12 {
			m.body.SetHeight(msg.Height - 10)
		}
		return m, nil

	case statusMsg:
		m.status = msg.status
		return m, nil

	case errMsg:
		m.err = msg.err
		return m, nil

	case opDoneMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		if msg.reload {
			m.loadFromEditor()
		}
		if msg.qr != "" {
			m.qr = msg.qr
		}
		if msg.toast != "" {
			m.toast = msg.toast
			return m, clearToastAfter(toastTTL)
		}
		return m, nil

	case clearToastMsg:
		m.toast = ""
		return m, nil

	case closedMsg:
		m.err = msg.err
		return m, tea.Quit

	case tea.KeyMsg:
		if m.qr != "" {
			m.qr = ""
			return m, nil
		}
		if m.action != actionNone {
			return m.updatePasswordPrompt(msg)
		}
		return m.updateEditor(msg)
	}
	return m.updateFocused(msg)
}

func (m appModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		m.quitting = true
		return m, m.closeCmd()
	case key.Matches(msg, keys.save):
		return m, m.saveCmd()
	case key.Matches(msg, keys.newNote):
		return m, m.newNoteCmd()
	case key.Matches(msg, keys.encrypt):
		return m.askPassword(actionEncrypt), textinput.Blink
	case key.Matches(msg, keys.decrypt):
		return m.askPassword(actionDecrypt), textinput.Blink
	case key.Matches(msg, keys.share):
		return m.askPassword(actionShare), textinput.Blink
	case key.Matches(msg, keys.qr):
		return m.askPassword(actionQR), textinput.Blink
	case key.Matches(msg, keys.tab):
		if m.focus == focusTitle {
			m.focusOn(focusBody)
		} else {
			m.focusOn(focusTitle)
		}
		return m, nil
	}
	return m.updateFocused(msg)
}

// updateFocused передаёт сообщение активному полю и сообщает контроллеру о правке.
func (m appModel) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	prevTitle, prevBody := m.title.Value(), m.body.Value()
	var cmd tea.Cmd
	if m.focus == focusTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.body, cmd = m.body.Update(msg)
	}
	if m.title.Value() != prevTitle || m.body.Value() != prevBody {
		m.editor.Edit(m.title.Value(), m.body.Value())
		m.status = controller.StatusUnsaved
	}
	return m, cmd
}

func (m appModel) askPassword(a pendingAction) appModel {
	m.action = a
	m.err = nil
	m.password.Reset()
	m.password.Focus()
	m.title.Blur()
	m.body.Blur()
	return m
}

func (m appModel) updatePasswordPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.action = actionNone
		m.password.Reset()
		m.focusOn(m.focus)
		return m, nil
	case key.Matches(msg, keys.enter):
		pw := m.password.Value()
		a := m.action
		m.action = actionNone
		m.password.Reset()
		m.focusOn(m.focus)
		return m, m.runAction(a, pw)
	}
	var cmd tea.Cmd
	m.password, cmd = m.password.Update(msg)
	return m, cmd
}

func (m appModel) runAction(a pendingAction, pw string) tea.Cmd {
	ctx, ed, share := m.ctx, m.editor, m.share
	content := m.body.Value()
	switch a {
	case actionEncrypt:
		return func() tea.Msg {
			if err := ed.EncryptBuffer(ctx, pw); err != nil {
				return opDoneMsg{err: err}
			}
			return opDoneMsg{toast: "Encrypted", reload: true}
		}
	case actionDecrypt:
		return func() tea.Msg {
			if err := ed.DecryptBuffer(ctx, pw); err != nil {
				return opDoneMsg{err: err}
			}
			return opDoneMsg{toast: "Decrypted", reload: true}
		}
	case actionShare:
		return func() tea.Msg {
			if share == nil {
				return opDoneMsg{err: fmt.Errorf("sharing is not configured")}
			}
			link, err := share(content, pw)
			if err != nil {
				return opDoneMsg{err: err}
			}
			if err := copyToClipboard(link); err != nil {
				return opDoneMsg{toast: "Link: " + link}
			}
			return opDoneMsg{toast: "Share link copied to clipboard"}
		}
	case actionQR:
		return func() tea.Msg {
			if share == nil {
				return opDoneMsg{err: fmt.Errorf("sharing is not configured")}
			}
			link, err := share(content, pw)
			if err != nil {
				return opDoneMsg{err: err}
			}
			var b strings.Builder
			if err := sharelink.WriteQR(&b, link); err != nil {
				return opDoneMsg{err: err}
			}
			return opDoneMsg{qr: b.String()}
		}
	}
	return nil
}

func (m appModel) saveCmd() tea.Cmd {
	ctx, ed := m.ctx, m.editor
	return func() tea.Msg {
		if err := ed.Save(ctx); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{toast: "Saved"}
	}
}

func (m appModel) newNoteCmd() tea.Cmd {
	ctx, ed := m.ctx, m.editor
	return func() tea.Msg {
		if err := ed.NewNote(ctx); err != nil {
			return opDoneMsg{err: err}
		}
		return opDoneMsg{toast: "New note", reload: true}
	}
}

func (m appModel) closeCmd() tea.Cmd {
	ctx, ed := m.ctx, m.editor
	return func() tea.Msg {
		return closedMsg{err: ed.Close(ctx)}
	}
}

func clearToastAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearToastMsg{} })
}

func (m appModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("StoreText"))
	b.WriteString("\n\n")
	b.WriteString("Title: " + m.title.View() + "\n\n")
	if m.qr != "" {
		b.WriteString(m.qr)
		b.WriteString(helpStyle.Render("press any key to return") + "\n")
	} else {
		b.WriteString(m.body.View() + "\n")
	}

	if m.action != actionNone {
		label := map[pendingAction]string{
			actionEncrypt: "Password to encrypt",
			actionDecrypt: "Password to decrypt",
			actionShare:   "Password for share link",
			actionQR:      "Password for QR code",
		}[m.action]
		b.WriteString(promptBoxStyle.Render(label+": "+m.password.View()) + "\n")
	}

	b.WriteString(m.statusLine() + "\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}
	b.WriteString(helpStyle.Render(helpLine()))
	return appStyle.Render(b.String())
}

func (m appModel) statusLine() string {
	st := m.status.String()
	s := model.CountStats(m.body.Value())
	line := fmt.Sprintf("%s  %d chars · %d words · %d lines",
		statusStyles[st].Render("● "+st), s.Chars, s.Words, s.Lines)
	if m.toast != "" {
		line += "  " + toastStyle.Render(m.toast)
	}
	return line
}

// Run запускает редактор и блокируется до выхода. Перед выходом
// отложенные изменения сохраняются.
func Run(ctx context.Context, ctrl *controller.Controller, share Sharer) error {
	m := newAppModel(ctx, ctrl, share)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	ctrl.OnStatus(func(s controller.Status) { p.Send(statusMsg{status: s}) })
	ctrl.OnError(func(err error) { p.Send(errMsg{err: err}) })
	defer func() {
		ctrl.OnStatus(nil)
		ctrl.OnError(nil)
	}()

	final, err := p.Run()
	if err != nil {
		// при отмене контекста изменения всё равно сохраняем
		_ = ctrl.Close(context.Background())
		return err
	}
	if fm, ok := final.(appModel); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
