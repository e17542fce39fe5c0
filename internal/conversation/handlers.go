package conversation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Jahongir0126/notificate-bot/internal/domain"
	"github.com/Jahongir0126/notificate-bot/internal/validate"
)

type stepHandler func(e *Engine, ctx context.Context, t *turn) error

// stepHandlers has exactly one entry per non-idle step.
var stepHandlers = map[Step]stepHandler{
	StepPhone:      phoneStep,
	StepFirstName:  field(setFirstName, validate.Name, StepLastName, msgAskLastName),
	StepLastName:   field(setLastName, validate.Name, StepPassport, msgAskPassport),
	StepPassport:   field(setPassport, validate.Passport, StepVisaExpiry, msgAskVisaExpiry),
	StepVisaExpiry: expiryStep(selfIdentity, msgSaved, msgErrSave),

	StepAdminPhone:      field(setPhone, validate.Phone, StepAdminFirstName, msgAskUserFirstName),
	StepAdminFirstName:  field(setFirstName, validate.Name, StepAdminLastName, msgAskUserLastName),
	StepAdminLastName:   field(setLastName, validate.Name, StepAdminPassport, msgAskPassport),
	StepAdminPassport:   field(setPassport, validate.Passport, StepAdminVisaExpiry, msgAskVisaExpiry),
	StepAdminVisaExpiry: expiryStep(syntheticIdentity, msgAdded, msgErrAdd),

	StepAddAdminID:       addAdminIDStep,
	StepAddAdminUsername: addAdminUsernameStep,
	StepRemoveAdminID:    removeAdminStep,

	StepViewWeeks: ignoreText,
}

func setPhone(d *Draft, v string)     { d.Phone = v }
func setFirstName(d *Draft, v string) { d.FirstName = v }
func setLastName(d *Draft, v string)  { d.LastName = v }
func setPassport(d *Draft, v string)  { d.Passport = v }

// field validates one text value into the draft and advances.
func field(set func(*Draft, string), check func(string) (string, error), next Step, prompt string) stepHandler {
	return func(e *Engine, ctx context.Context, t *turn) error {
		v, err := check(t.text)
		if err != nil {
			return e.rejected(ctx, t.chatID, err)
		}
		set(&t.sess.Draft, v)
		e.advance(ctx, t, next)
		return e.send(ctx, t.chatID, prompt, nil)
	}
}

// phoneStep is the only step that also takes a shared contact.
func phoneStep(e *Engine, ctx context.Context, t *turn) error {
	var (
		phone string
		err   error
	)
	if t.contact != nil {
		phone, err = validate.ContactPhone(t.contact.Phone)
	} else {
		phone, err = validate.Phone(t.text)
	}
	if err != nil {
		return e.rejected(ctx, t.chatID, err)
	}
	t.sess.Draft.Phone = phone
	e.advance(ctx, t, StepFirstName)
	return e.send(ctx, t.chatID, msgAskFirstName, nil)
}

func selfIdentity(_ *Engine, t *turn) int64 { return t.chatID }

// syntheticIdentity stands in for the unknown chat of a person whose record
// an admin types in. Such records never match a later self-registration.
func syntheticIdentity(e *Engine, _ *turn) int64 { return e.now().UnixMilli() }

// expiryStep finishes a data-entry flow. On a store failure the session is
// kept so the date can be retried.
func expiryStep(identity func(*Engine, *turn) int64, done, failed string) stepHandler {
	return func(e *Engine, ctx context.Context, t *turn) error {
		expiry, err := validate.Date(t.text, e.today())
		if err != nil {
			return e.rejected(ctx, t.chatID, err)
		}
		d := t.sess.Draft
		_, err = e.store.UpsertUser(ctx, identity(e, t), domain.UserFields{
			Phone:      d.Phone,
			FirstName:  d.FirstName,
			LastName:   d.LastName,
			Passport:   d.Passport,
			VisaExpiry: expiry,
		})
		if err != nil {
			e.storeFailed(ctx, "upsert_user", err)
			return e.send(ctx, t.chatID, failed, nil)
		}
		e.reset(ctx, t.chatID)
		if err := e.send(ctx, t.chatID, done, nil); err != nil {
			return err
		}
		return e.send(ctx, t.chatID, msgChoose, roleMenu(t.isAdmin))
	}
}

func addAdminIDStep(e *Engine, ctx context.Context, t *turn) error {
	id, err := validate.TelegramID(t.text)
	if err != nil {
		return e.rejected(ctx, t.chatID, err)
	}
	t.sess.Draft.AdminID = id
	e.advance(ctx, t, StepAddAdminUsername)
	return e.send(ctx, t.chatID, msgAskNewAdminUsername, nil)
}

func addAdminUsernameStep(e *Engine, ctx context.Context, t *turn) error {
	name := strings.TrimPrefix(strings.TrimSpace(t.text), "@")
	var username *string
	if name != "" {
		username = &name
	}
	id := t.sess.Draft.AdminID
	e.reset(ctx, t.chatID)
	if _, err := e.store.AddAdmin(ctx, id, username, t.chatID); err != nil {
		e.storeFailed(ctx, "add_admin", err)
		return e.send(ctx, t.chatID, msgErrAddAdmin, adminManagementMenu())
	}
	if err := e.send(ctx, t.chatID, fmt.Sprintf(msgAdminAdded, id, name), nil); err != nil {
		return err
	}
	return e.send(ctx, t.chatID, msgChoose, adminManagementMenu())
}

func removeAdminStep(e *Engine, ctx context.Context, t *turn) error {
	id, err := validate.TelegramID(t.text)
	if err != nil {
		return e.rejected(ctx, t.chatID, err)
	}
	e.reset(ctx, t.chatID)
	_, err = e.store.RemoveAdmin(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		err = e.send(ctx, t.chatID, msgAdminNotFound, nil)
	case err != nil:
		e.storeFailed(ctx, "remove_admin", err)
		return e.send(ctx, t.chatID, msgErrRemove, adminManagementMenu())
	default:
		err = e.send(ctx, t.chatID, fmt.Sprintf(msgAdminRemoved, id), nil)
	}
	if err != nil {
		return err
	}
	return e.send(ctx, t.chatID, msgChoose, adminManagementMenu())
}

func ignoreText(*Engine, context.Context, *turn) error { return nil }

// rejected echoes a validation message and leaves the step unchanged.
func (e *Engine) rejected(ctx context.Context, chatID int64, err error) error {
	r, ok := validate.AsRejection(err)
	if !ok {
		e.storeFailed(ctx, "validate", err)
		return e.send(ctx, chatID, msgErrGeneric, nil)
	}
	return e.send(ctx, chatID, r.Message, nil)
}
