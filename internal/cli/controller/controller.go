// Package controller владеет состоянием редактора: буфером открытой заметки,
// индикатором сохранения и таймером автосохранения.
package controller

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"StoreText/internal/cli/model"
)

// DefaultDelay - задержка автосохранения после последнего изменения.
const DefaultDelay = 1200 * time.Millisecond

// Notes - операции сервиса заметок, нужные редактору.
type Notes interface {
	Save(ctx context.Context, id, title, content string) (model.Note, bool, error)
	Open(ctx context.Context, id, password string) (model.Note, error)
	EncryptContent(content, password string) (string, error)
	DecryptContent(content, password string) (string, error)
	ReceiveShared(ctx context.Context, link, password string) (model.Note, error)
	ImportFile(ctx context.Context, path, password string) (model.Note, error)
}

// State - снимок состояния редактора.
type State struct {
	NoteID  string
	Title   string
	Content string
	Status  Status
}

// Controller - единственный владелец изменяемого состояния редактора.
// Таймер автосохранения срабатывает в своей горутине, поэтому всё
// состояние защищено mu. Одновременно ожидает не больше одного таймера.
type Controller struct {
	notes Notes
	delay time.Duration
	log   *zap.SugaredLogger

	mu    sync.Mutex
	state State
	rev   uint64 // счётчик правок буфера
	timer *time.Timer
	gen   uint64 // поколение таймера: устаревшие срабатывания игнорируются

	onStatus func(Status)
	onError  func(error)

	// saveMu сериализует записи, чтобы автосохранение и явное сохранение
	// не создали две заметки для одного буфера.
	saveMu sync.Mutex
}

// New создаёт контроллер с пустым буфером. delay <= 0 - DefaultDelay.
func New(notes Notes, delay time.Duration, log *zap.SugaredLogger) *Controller {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Controller{notes: notes, delay: delay, log: log, state: State{Status: StatusSaved}}
}

// OnStatus регистрирует обработчик смены статуса.
func (c *Controller) OnStatus(fn func(Status)) {
	c.mu.Lock()
	c.onStatus = fn
	c.mu.Unlock()
}

// OnError регистрирует обработчик ошибок фонового сохранения.
func (c *Controller) OnError(fn func(error)) {
	c.mu.Lock()
	c.onError = fn
	c.mu.Unlock()
}

// State возвращает копию текущего состояния.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Pending сообщает, ожидает ли таймер автосохранения.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Edit обновляет буфер и перезапускает таймер автосохранения.
func (c *Controller) Edit(title, content string) {
	c.mu.Lock()
	c.state.Title = title
	c.state.Content = content
	c.rev++
	c.scheduleLocked()
	notify := c.setStatusLocked(StatusUnsaved)
	c.mu.Unlock()
	notify()
}

// Save отменяет ожидающий таймер и сохраняет буфер сразу.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	c.cancelLocked()
	c.mu.Unlock()
	return c.save(ctx)
}

// Close сохраняет отложенные изменения, если таймер ещё не сработал.
func (c *Controller) Close(ctx context.Context) error {
	c.mu.Lock()
	pending := c.timer != nil
	c.cancelLocked()
	dirty := c.state.Status != StatusSaved
	c.mu.Unlock()
	if !pending && !dirty {
		return nil
	}
	return c.save(ctx)
}

// NewNote сохраняет отложенные изменения и начинает пустой буфер.
// Заметка создаётся при первом сохранении.
func (c *Controller) NewNote(ctx context.Context) error {
	if err := c.Close(ctx); err != nil {
		return err
	}
	c.mu.Lock()
	c.state = State{Status: StatusSaved}
	c.rev++
	notify := c.notifyLocked(StatusSaved)
	c.mu.Unlock()
	notify()
	return nil
}

// Open сохраняет текущий буфер и загружает заметку id. Зашифрованная заметка
// расшифровывается паролем; при ошибке состояние не меняется.
func (c *Controller) Open(ctx context.Context, id, password string) error {
	n, err := c.notes.Open(ctx, id, password)
	if err != nil {
		return err
	}
	if err := c.Close(ctx); err != nil {
		return err
	}
	c.load(n)
	return nil
}

// EncryptBuffer заменяет открытый текст буфера конвертом и сохраняет его.
func (c *Controller) EncryptBuffer(ctx context.Context, password string) error {
	cur := c.State()
	env, err := c.notes.EncryptContent(cur.Content, password)
	if err != nil {
		return err
	}
	if !c.replaceContent(cur.Content, env) {
		return ErrBufferChanged
	}
	return c.Save(ctx)
}

// DecryptBuffer заменяет конверт в буфере открытым текстом.
// Неверный пароль оставляет буфер нетронутым.
func (c *Controller) DecryptBuffer(ctx context.Context, password string) error {
	cur := c.State()
	plain, err := c.notes.DecryptContent(cur.Content, password)
	if err != nil {
		return err
	}
	if !c.replaceContent(cur.Content, plain) {
		return ErrBufferChanged
	}
	return c.Save(ctx)
}

// ReceiveShared создаёт заметку из ссылки и открывает её.
// Неверный пароль оставляет редактор нетронутым.
func (c *Controller) ReceiveShared(ctx context.Context, link, password string) error {
	n, err := c.notes.ReceiveShared(ctx, link, password)
	if err != nil {
		return err
	}
	if err := c.Close(ctx); err != nil {
		return err
	}
	c.load(n)
	return nil
}

// ImportFile импортирует файл в новую заметку и открывает её.
// При ошибке редактор не меняется.
func (c *Controller) ImportFile(ctx context.Context, path, password string) error {
	n, err := c.notes.ImportFile(ctx, path, password)
	if err != nil {
		return err
	}
	if err := c.Close(ctx); err != nil {
		return err
	}
	c.load(n)
	return nil
}

// ErrBufferChanged - буфер изменился во время шифрования или расшифровки.
var ErrBufferChanged = errors.New("buffer changed during operation")

func (c *Controller) replaceContent(expected, content string) bool {
	c.mu.Lock()
	if c.state.Content != expected {
		c.mu.Unlock()
		return false
	}
	c.state.Content = content
	c.rev++
	notify := c.setStatusLocked(StatusUnsaved)
	c.mu.Unlock()
	notify()
	return true
}

func (c *Controller) load(n model.Note) {
	c.mu.Lock()
	c.cancelLocked()
	c.state = State{NoteID: n.ID, Title: n.Title, Content: n.Content, Status: StatusSaved}
	c.rev++
	notify := c.notifyLocked(StatusSaved)
	c.mu.Unlock()
	notify()
}

// save записывает снимок буфера. Правки, пришедшие во время записи,
// оставляют статус unsaved: их сохранит следующий таймер.
func (c *Controller) save(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	snap := c.state
	rev := c.rev
	notify := c.setStatusLocked(StatusSaving)
	c.mu.Unlock()
	notify()

	n, _, err := c.notes.Save(ctx, snap.NoteID, snap.Title, snap.Content)

	c.mu.Lock()
	if err != nil {
		notify = c.setStatusLocked(StatusUnsaved)
		onErr := c.onError
		c.mu.Unlock()
		notify()
		c.log.Errorw("save failed", "id", snap.NoteID, "error", err)
		if onErr != nil {
			onErr(err)
		}
		return err
	}
	if c.state.NoteID == "" || c.state.NoteID == snap.NoteID {
		c.state.NoteID = n.ID
	}
	if c.rev == rev {
		c.state.Title = n.Title
		notify = c.setStatusLocked(StatusSaved)
	} else {
		notify = c.setStatusLocked(StatusUnsaved)
	}
	c.mu.Unlock()
	notify()
	c.log.Debugw("saved", "id", n.ID)
	return nil
}

func (c *Controller) autosave(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.timer == nil {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()
	// ошибка уже ушла в OnError и лог
	_ = c.save(context.Background())
}

func (c *Controller) scheduleLocked() {
	c.cancelLocked()
	gen := c.gen
	c.timer = time.AfterFunc(c.delay, func() { c.autosave(gen) })
}

func (c *Controller) cancelLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// setStatusLocked меняет статус и возвращает функцию уведомления,
// которую нужно вызвать после снятия блокировки.
func (c *Controller) setStatusLocked(s Status) func() {
	if c.state.Status == s {
		return func() {}
	}
	return c.notifyLocked(s)
}

func (c *Controller) notifyLocked(s Status) func() {
	c.state.Status = s
	fn := c.onStatus
	if fn == nil {
		return func() {}
	}
	return func() { fn(s) }
}
