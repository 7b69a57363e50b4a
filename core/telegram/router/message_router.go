package router

import (
	"time"

	tg "filebot/core/telegram"
	"filebot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// TextInterceptor lets a conversation flow claim free-text messages for
// users that are mid-dialog (for example, awaiting a password).
type TextInterceptor interface {
	WantsText(userID int64) bool
	HandleText(c tele.Context) error
}

// TextOptions controls fallback behaviour for unmatched text updates.
type TextOptions struct {
	UnknownText tele.HandlerFunc
}

// TextRoute builds the single dispatcher for plain text updates.
// Exactly one transition is selected per update: interceptor first
// (state-dependent), then command lookup, then the registry fallback.
func TextRoute(interceptor TextInterceptor, reg *tg.Registry, opts TextOptions) tg.Route {
	handler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if interceptor != nil {
			if snd := c.Sender(); snd != nil && interceptor.WantsText(snd.ID) {
				return handleWithSummary(c, "flow.text", start, "", "", func() error {
					return interceptor.HandleText(c)
				})
			}
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	return tg.Route{
		Endpoint: tele.OnText,
		Handler:  middleware.RecoverMiddleware(middleware.LoggerMiddleware(handler)),
	}
}

// MediaRoutes binds one upload handler to every supported media endpoint.
// Document, video and audio uploads all enter the same registration flow.
func MediaRoutes(upload tele.HandlerFunc) []tg.Route {
	wrap := func(name string) tele.HandlerFunc {
		h := func(c tele.Context) error {
			start := time.Now()
			return handleWithSummary(c, name, start, "", "", func() error {
				return upload(c)
			})
		}
		return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
	}

	return []tg.Route{
		{Endpoint: tele.OnDocument, Handler: wrap("upload.document")},
		{Endpoint: tele.OnVideo, Handler: wrap("upload.video")},
		{Endpoint: tele.OnAudio, Handler: wrap("upload.audio")},
	}
}
