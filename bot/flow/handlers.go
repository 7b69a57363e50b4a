package flow

import (
	"errors"
	"fmt"

	"filebot/bot/files"
	tghelpers "filebot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// Forwarder relays an uploaded message into the archive channel and
// returns the archived message ID.
type Forwarder interface {
	Forward(msg tele.Editable) (int, error)
}

// Handlers adapts the flow service to telebot updates. Each handler
// takes the per-user lock, so events of one user apply in order.
type Handlers struct {
	svc     *Service
	botName string

	// Bound once the bot instance exists, before polling starts.
	relay    Forwarder
	username string
}

// NewHandlers creates the adapter around a flow service.
func NewHandlers(svc *Service, botName string) *Handlers {
	return &Handlers{svc: svc, botName: botName}
}

// Bind attaches the running bot: the archive relay and the bot
// username used in Telegram links.
func (h *Handlers) Bind(relay Forwarder, username string) {
	h.relay = relay
	h.username = username
}

// Start greets the user and makes sure a session exists.
func (h *Handlers) Start(c tele.Context) error {
	h.svc.Touch(c.Sender().ID)
	return tghelpers.SendText(c, greeting(h.botName), &tele.SendOptions{DisableWebPagePreview: true})
}

// Upload relays the file to the archive, registers a record and asks
// about password protection. A new upload restarts any earlier flow.
func (h *Handlers) Upload(c tele.Context) error {
	userID := c.Sender().ID
	unlock := h.svc.LockUser(userID)
	defer unlock()

	up, ok := extractUpload(c.Message())
	if !ok {
		return nil
	}
	if h.relay == nil {
		return fmt.Errorf("flow: archive relay not bound")
	}

	bot := c.Bot()
	proc, err := bot.Send(c.Chat(), textProcessing)
	if err != nil {
		return err
	}

	archiveMsgID, err := h.relay.Forward(c.Message())
	if err != nil {
		_, _ = bot.Edit(proc, textRelayError)
		return err
	}

	ctx := tghelpers.BuildContext(c)
	rec, err := h.svc.RegisterUpload(ctx, userID, up, archiveMsgID)
	if err != nil {
		_, _ = bot.Edit(proc, textRelayError)
		return err
	}

	_, err = bot.Edit(proc, receivedPrompt(rec.Name, rec.Key, rec.Size),
		&tele.SendOptions{ParseMode: tele.ModeMarkdown},
		passwordChoiceKeyboard())
	return err
}

// ChoiceNo handles the pwd_no button: deliver unprotected links.
func (h *Handlers) ChoiceNo(c tele.Context) error {
	userID := c.Sender().ID
	unlock := h.svc.LockUser(userID)
	defer unlock()

	ctx := tghelpers.BuildContext(c)
	d, err := h.svc.ChooseNoPassword(ctx, userID, h.username)
	switch {
	case errors.Is(err, ErrNoPendingFile):
		return c.Respond(&tele.CallbackResponse{Text: textNoPendingFile, ShowAlert: true})
	case errors.Is(err, files.ErrNotFound):
		return c.Respond(&tele.CallbackResponse{Text: textFileNotFound, ShowAlert: true})
	case err != nil:
		_ = c.Respond(&tele.CallbackResponse{Text: textDeliveryError, ShowAlert: true})
		return err
	}

	// Synchronous edit: the session is cleared only after the links
	// actually reached the user.
	if err := tghelpers.EditMD(c, d.Message); err != nil {
		_ = c.Respond(&tele.CallbackResponse{Text: textDeliveryError, ShowAlert: true})
		return err
	}
	h.svc.Confirm(ctx, userID, d)
	return c.Respond(&tele.CallbackResponse{Text: textLinksGenerated})
}

// ChoiceYes handles the pwd_yes button: ask for the password text.
func (h *Handlers) ChoiceYes(c tele.Context) error {
	userID := c.Sender().ID
	unlock := h.svc.LockUser(userID)
	defer unlock()

	if err := h.svc.ChoosePassword(userID); err != nil {
		if errors.Is(err, ErrNoPendingFile) {
			return c.Respond(&tele.CallbackResponse{Text: textNoPendingFile, ShowAlert: true})
		}
		return err
	}
	if err := tghelpers.EditMD(c, textAskPassword); err != nil {
		return err
	}
	return c.Respond(&tele.CallbackResponse{})
}

// WantsText reports whether the next text message from the user is a
// password; the text router checks this before command dispatch.
func (h *Handlers) WantsText(userID int64) bool {
	return h.svc.AwaitsPassword(userID)
}

// HandleText consumes the password text and delivers protected links.
func (h *Handlers) HandleText(c tele.Context) error {
	userID := c.Sender().ID
	unlock := h.svc.LockUser(userID)
	defer unlock()

	ctx := tghelpers.BuildContext(c)
	d, err := h.svc.SubmitPassword(ctx, userID, h.username, c.Text())
	switch {
	case errors.Is(err, ErrEmptyPassword):
		return tghelpers.SendText(c, textEmptyPassword)
	case errors.Is(err, ErrNoPendingFile):
		return tghelpers.SendText(c, textSendAFile)
	case errors.Is(err, files.ErrNotFound):
		return tghelpers.SendText(c, textFileNotFound)
	case err != nil:
		_ = tghelpers.SendText(c, textPasswordError)
		return err
	}

	if err := c.Send(d.Message, &tele.SendOptions{ParseMode: tele.ModeMarkdown, DisableWebPagePreview: true}); err != nil {
		_ = tghelpers.SendText(c, textDeliveryError)
		return err
	}
	h.svc.Confirm(ctx, userID, d)
	return nil
}

// Fallback answers text that matches neither a command nor a flow.
func (h *Handlers) Fallback(c tele.Context) error {
	return tghelpers.SendText(c, textSendAFile)
}

// Stats reports store and session counters. Admin only, wired via the
// command registry.
func (h *Handlers) Stats(c tele.Context) error {
	records, sessions, err := h.svc.Stats(tghelpers.BuildContext(c))
	if err != nil {
		return err
	}
	return tghelpers.SendMD(c, fmt.Sprintf("📊 *Stats*\nFiles stored: %d\nActive sessions: %d", records, sessions))
}

func extractUpload(m *tele.Message) (Upload, bool) {
	if m == nil {
		return Upload{}, false
	}
	switch {
	case m.Document != nil:
		name := m.Document.FileName
		if name == "" {
			name = "document"
		}
		return Upload{FileID: m.Document.FileID, Name: name, Size: m.Document.FileSize}, true
	case m.Video != nil:
		name := m.Video.FileName
		if name == "" {
			name = "video_" + shortUniqueID(m.Video.UniqueID)
		}
		return Upload{FileID: m.Video.FileID, Name: name, Size: m.Video.FileSize}, true
	case m.Audio != nil:
		name := m.Audio.FileName
		if name == "" {
			name = "audio_" + shortUniqueID(m.Audio.UniqueID)
		}
		return Upload{FileID: m.Audio.FileID, Name: name, Size: m.Audio.FileSize}, true
	}
	return Upload{}, false
}

func shortUniqueID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
