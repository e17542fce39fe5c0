package bot

import (
	"context"

	tele "gopkg.in/telebot.v4"

	tg "github.com/Jahongir0126/notificate-bot/core/telegram"
	"github.com/Jahongir0126/notificate-bot/core/telegram/callbacks"
	"github.com/Jahongir0126/notificate-bot/core/telegram/commands"
	tghelpers "github.com/Jahongir0126/notificate-bot/core/telegram/helpers"
	"github.com/Jahongir0126/notificate-bot/core/telegram/router"
	"github.com/Jahongir0126/notificate-bot/internal/conversation"
	"github.com/Jahongir0126/notificate-bot/internal/messaging"
	"github.com/Jahongir0126/notificate-bot/internal/report"
)

// Engine is the conversation state machine driven by updates.
type Engine interface {
	HandleMessage(ctx context.Context, msg messaging.Message) error
	HandleCallback(ctx context.Context, cb messaging.Callback) error
}

// Register binds slash commands, report callbacks and free text to engine.
// Menu labels are command aliases, so a tapped button and its slash command
// reach the engine as the same label.
func Register(reg *tg.Registry, engine Engine) error {
	reg.RegisterCommand(conversation.CommandStart, commands.Command{
		Handler:     command(engine, conversation.CommandStart),
		Description: "Главное меню",
	})
	reg.RegisterCommand(conversation.CommandMyData, commands.Command{
		Handler:     command(engine, conversation.LabelMyData),
		Description: "Мои данные",
		Aliases:     []string{conversation.LabelMyData},
	})
	reg.RegisterCommand(conversation.CommandReport, commands.Command{
		Handler:     command(engine, conversation.LabelGetData),
		Description: "Отчёт по неделям",
		AdminOnly:   true,
		Aliases:     []string{conversation.LabelGetData},
	})
	reg.RegisterCommand(conversation.CommandExpiring, commands.Command{
		Handler:     command(engine, conversation.LabelCheckExpiry),
		Description: "Истекающие визы",
		AdminOnly:   true,
		Aliases:     []string{conversation.LabelCheckExpiry},
	})
	reg.RegisterCommand(conversation.CommandAdmins, commands.Command{
		Handler:     command(engine, conversation.LabelManageAdmins),
		Description: "Управление админами",
		AdminOnly:   true,
		Aliases:     []string{conversation.LabelManageAdmins},
	})

	cb := callback(engine)
	if err := reg.RegisterCallback(report.TokenAll, cb); err != nil {
		return err
	}
	if err := reg.RegisterCallback(report.WeekPrefix, cb); err != nil {
		return err
	}
	// stale buttons from older deployments still get the "re-request" reply
	reg.SetCallbackNotFound(cb)
	reg.SetTextFallback(text(engine))
	return nil
}

// Routes returns the telebot routes for a registry prepared by Register.
func Routes(reg *tg.Registry, engine Engine) []tg.Route {
	routes := router.CommandRoutes(reg)
	routes = append(routes, router.MessageRoutes(reg, router.MessageOptions{OnContact: text(engine)})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	return routes
}

// command feeds the engine a fixed action text so "/start@bot", payloads and
// aliases all behave like the bare command.
func command(engine Engine, action string) tele.HandlerFunc {
	return func(c tele.Context) error {
		msg := messageFrom(c)
		msg.Text = action
		return engine.HandleMessage(tghelpers.BuildContext(c), msg)
	}
}

func text(engine Engine) tele.HandlerFunc {
	return func(c tele.Context) error {
		return engine.HandleMessage(tghelpers.BuildContext(c), messageFrom(c))
	}
}

func callback(engine Engine) tele.HandlerFunc {
	return func(c tele.Context) error {
		chatID, userID := tghelpers.IDs(c)
		return engine.HandleCallback(tghelpers.BuildContext(c), messaging.Callback{
			ChatID: chatID,
			UserID: userID,
			Token:  callbacks.Token(c),
		})
	}
}

func messageFrom(c tele.Context) messaging.Message {
	chatID, userID := tghelpers.IDs(c)
	msg := messaging.Message{ChatID: chatID, UserID: userID, Text: c.Text()}
	if m := c.Message(); m != nil && m.Contact != nil {
		msg.Contact = &messaging.Contact{Phone: m.Contact.PhoneNumber, UserID: m.Contact.UserID}
	}
	return msg
}

const (
	msgPanic   = "Произошла ошибка. Пожалуйста, попробуйте позже."
	msgLimited = "Слишком много запросов. Пожалуйста, подождите немного."
)

// Hooks are the replies of the shared middleware chain.
func Hooks() tg.MiddlewareHooks {
	return tg.MiddlewareHooks{
		OnPanic: func(c tele.Context) error {
			return c.Send(msgPanic)
		},
		OnLimited: func(c tele.Context) error {
			if c.Callback() != nil {
				return c.Respond(&tele.CallbackResponse{Text: msgLimited})
			}
			return c.Send(msgLimited)
		},
	}
}
