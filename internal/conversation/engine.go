// Package conversation drives the per-chat data-entry wizards, admin
// management and report sessions of the bot.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Jahongir0126/notificate-bot/core/logger"
	"github.com/Jahongir0126/notificate-bot/core/telegram/state"
	"github.com/Jahongir0126/notificate-bot/internal/calendar"
	"github.com/Jahongir0126/notificate-bot/internal/domain"
	"github.com/Jahongir0126/notificate-bot/internal/messaging"
	"github.com/Jahongir0126/notificate-bot/internal/report"
	"github.com/Jahongir0126/notificate-bot/internal/storage"
)

// DefaultCheckDays is the window of the on-demand expiry check.
const DefaultCheckDays = 7

// Options wires an Engine.
type Options struct {
	Store     storage.Store
	Sessions  state.Store[int64, Session]
	Messenger messaging.Messenger
	// Now defaults to time.Now; it also yields synthetic ids for admin-entered records.
	Now func() time.Time
	// Location defines "today" for date validation and display.
	Location  *time.Location
	CheckDays int
}

// Engine is the conversation state machine. It is safe for concurrent use;
// updates for one chat are last-writer-wins on the session.
type Engine struct {
	store     storage.Store
	sessions  state.Store[int64, Session]
	out       messaging.Messenger
	render    report.Renderer
	now       func() time.Time
	loc       *time.Location
	checkDays int
}

// New validates opts and builds an Engine.
func New(opts Options) (*Engine, error) {
	if opts.Store == nil {
		return nil, errors.New("conversation: store is required")
	}
	if opts.Messenger == nil {
		return nil, errors.New("conversation: messenger is required")
	}
	if opts.Sessions == nil {
		opts.Sessions = state.NewMemory[int64, Session]()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.CheckDays <= 0 {
		opts.CheckDays = DefaultCheckDays
	}
	return &Engine{
		store:     opts.Store,
		sessions:  opts.Sessions,
		out:       opts.Messenger,
		render:    report.NewRenderer(opts.Location),
		now:       opts.Now,
		loc:       opts.Location,
		checkDays: opts.CheckDays,
	}, nil
}

// turn is one inbound message being processed.
type turn struct {
	chatID  int64
	text    string
	contact *messaging.Contact
	isAdmin bool
	sess    Session
}

func (e *Engine) today() calendar.Date {
	return calendar.Today(e.now(), e.loc)
}

// HandleMessage processes a text or contact message. The returned error is a
// delivery failure; store failures are answered in chat and logged.
func (e *Engine) HandleMessage(ctx context.Context, msg messaging.Message) error {
	ctx = logger.WithChatID(ctx, msg.ChatID)

	isAdmin, err := e.store.IsAdmin(ctx, msg.ChatID)
	if err != nil {
		e.storeFailed(ctx, "is_admin", err)
		return e.send(ctx, msg.ChatID, msgErrGeneric, nil)
	}

	if handled, err := e.handleMenu(ctx, msg.ChatID, msg.Text, isAdmin); handled {
		return err
	}

	sess, ok := e.sessions.Get(msg.ChatID)
	if !ok {
		return nil
	}
	h := stepHandlers[sess.Step]
	if h == nil {
		return nil
	}
	return h(e, ctx, &turn{
		chatID:  msg.ChatID,
		text:    msg.Text,
		contact: msg.Contact,
		isAdmin: isAdmin,
		sess:    sess,
	})
}

// handleMenu runs menu actions. Admin-only labels are ignored for other roles
// and fall through to the active flow.
func (e *Engine) handleMenu(ctx context.Context, chatID int64, text string, isAdmin bool) (bool, error) {
	switch text {
	case CommandStart:
		e.reset(ctx, chatID)
		if isAdmin {
			return true, e.send(ctx, chatID, msgWelcomeAdmin, adminMenu())
		}
		return true, e.send(ctx, chatID, msgWelcomeUser, userMenu())
	case LabelAddOwnData:
		e.enter(ctx, chatID, Session{Step: StepPhone})
		return true, e.send(ctx, chatID, msgAskPhone, contactKeyboard())
	case LabelMyData:
		return true, e.showMyData(ctx, chatID)
	}
	if !isAdmin {
		return false, nil
	}
	switch text {
	case LabelGetData:
		return true, e.startReport(ctx, chatID)
	case LabelAddData:
		e.enter(ctx, chatID, Session{Step: StepAdminPhone})
		return true, e.send(ctx, chatID, msgAskUserPhone, nil)
	case LabelCheckExpiry:
		return true, e.checkExpiring(ctx, chatID)
	case LabelManageAdmins:
		return true, e.send(ctx, chatID, msgChoose, adminManagementMenu())
	case LabelAddAdmin:
		e.enter(ctx, chatID, Session{Step: StepAddAdminID})
		return true, e.send(ctx, chatID, msgAskNewAdminID, nil)
	case LabelRemoveAdmin:
		e.enter(ctx, chatID, Session{Step: StepRemoveAdminID})
		return true, e.send(ctx, chatID, msgAskRemoveAdminID, nil)
	case LabelListAdmins:
		return true, e.listAdmins(ctx, chatID)
	case LabelBack:
		e.reset(ctx, chatID)
		return true, e.send(ctx, chatID, msgMainMenu, adminMenu())
	}
	return false, nil
}

// HandleCallback resolves a report selection token against the chat's
// cached report session.
func (e *Engine) HandleCallback(ctx context.Context, cb messaging.Callback) error {
	ctx = logger.WithChatID(ctx, cb.ChatID)
	sess, ok := e.sessions.Get(cb.ChatID)
	if !ok || sess.Step != StepViewWeeks || sess.Report == nil {
		return e.reportMiss(ctx, cb, "no_session")
	}
	week, all, ok := report.ParseToken(cb.Token)
	switch {
	case !ok:
		return e.reportMiss(ctx, cb, "bad_token")
	case all:
		if len(sess.Report.All) == 0 {
			return e.send(ctx, cb.ChatID, msgNoUsers, nil)
		}
		return e.sendAll(ctx, cb.ChatID, e.render.AllRecords(sess.Report.All))
	}
	recs, found := sess.Report.Weeks.Week(week)
	if !found {
		return e.reportMiss(ctx, cb, "unknown_week")
	}
	return e.sendAll(ctx, cb.ChatID, e.render.Week(week, recs))
}

func (e *Engine) reportMiss(ctx context.Context, cb messaging.Callback, reason string) error {
	logger.Warn(ctx, "fsm", "fsm.report_miss",
		slog.String("status", "not_found"),
		slog.String("reason", reason),
		slog.String("token", logger.SanitizeLimit(cb.Token, 64)),
	)
	return e.send(ctx, cb.ChatID, msgReportNotFound, nil)
}

func (e *Engine) showMyData(ctx context.Context, chatID int64) error {
	rec, err := e.store.GetUser(ctx, chatID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return e.send(ctx, chatID, msgNoOwnData, nil)
	case err != nil:
		e.storeFailed(ctx, "get_user", err)
		return e.send(ctx, chatID, msgErrGetOwn, nil)
	}
	return e.send(ctx, chatID, e.render.MyData(rec), nil)
}

func (e *Engine) startReport(ctx context.Context, chatID int64) error {
	recs, err := e.store.ListUsers(ctx)
	if err != nil {
		e.storeFailed(ctx, "list_users", err)
		return e.send(ctx, chatID, msgErrReport, nil)
	}
	if len(recs) == 0 {
		return e.send(ctx, chatID, msgNoUsers, nil)
	}
	weeks := report.GroupByWeek(recs)
	rows := make([][]messaging.InlineButton, 0, len(weeks.Keys)+1)
	rows = append(rows, []messaging.InlineButton{{Text: LabelAllRecords, Token: report.TokenAll}})
	for _, key := range weeks.Keys {
		rows = append(rows, []messaging.InlineButton{{Text: key, Token: report.WeekToken(key)}})
	}
	e.enter(ctx, chatID, Session{Step: StepViewWeeks, Report: &ReportCache{Weeks: weeks, All: recs}})
	return e.send(ctx, chatID, msgPickWeek, &messaging.Keyboard{Inline: rows})
}

func (e *Engine) checkExpiring(ctx context.Context, chatID int64) error {
	recs, err := e.store.ListExpiring(ctx, e.checkDays)
	if err != nil {
		e.storeFailed(ctx, "list_expiring", err)
		return e.send(ctx, chatID, msgErrExpiring, nil)
	}
	return e.sendAll(ctx, chatID, e.render.Expiring(e.checkDays, recs))
}

func (e *Engine) listAdmins(ctx context.Context, chatID int64) error {
	admins, err := e.store.ListAdmins(ctx)
	if err != nil {
		e.storeFailed(ctx, "list_admins", err)
		return e.send(ctx, chatID, msgErrListAdmins, nil)
	}
	return e.sendAll(ctx, chatID, e.render.Admins(admins))
}

// enter starts a flow, replacing any session the chat had.
func (e *Engine) enter(ctx context.Context, chatID int64, s Session) {
	prev, _ := e.sessions.Get(chatID)
	e.sessions.Set(chatID, s)
	e.logTransition(ctx, prev.Step, s.Step)
}

func (e *Engine) advance(ctx context.Context, t *turn, next Step) {
	from := t.sess.Step
	t.sess.Step = next
	e.sessions.Set(t.chatID, t.sess)
	e.logTransition(ctx, from, next)
}

func (e *Engine) reset(ctx context.Context, chatID int64) {
	prev, ok := e.sessions.Get(chatID)
	e.sessions.Delete(chatID)
	if ok {
		e.logTransition(ctx, prev.Step, StepIdle)
	}
}

func (e *Engine) logTransition(ctx context.Context, from, to Step) {
	logger.LogEvent(ctx, logger.FSM, slog.LevelDebug, "fsm.transition",
		slog.String("from", from.String()),
		slog.String("to", to.String()),
	)
}

func (e *Engine) storeFailed(ctx context.Context, op string, err error) {
	logger.LogEvent(ctx, logger.FSM, slog.LevelError, "fsm.store_failed",
		slog.String("op", op),
		slog.String("status", "fail"),
		slog.String("err", err.Error()),
	)
}

func (e *Engine) send(ctx context.Context, chatID int64, text string, kb *messaging.Keyboard) error {
	if err := e.out.Send(ctx, chatID, text, kb); err != nil {
		return fmt.Errorf("send to %d: %w", chatID, err)
	}
	return nil
}

// sendAll delivers a chunked report in order and stops at the first failure.
func (e *Engine) sendAll(ctx context.Context, chatID int64, texts []string) error {
	for _, text := range texts {
		if err := e.send(ctx, chatID, text, nil); err != nil {
			return err
		}
	}
	return nil
}
