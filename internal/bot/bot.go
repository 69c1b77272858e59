// Package bot dispatches incoming chat commands to the weather pipeline.
package bot

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"meteobot/internal/auth"
	"meteobot/internal/telegram"
	"meteobot/internal/weather"
)

var commands = []telegram.BotCommand{
	{Command: "start", Description: "The start of work"},
	{Command: "help", Description: "I need a help"},
	{Command: "register", Description: "Register with a signup code"},
	{Command: "weather", Description: "Get a weather"},
}

type Bot struct {
	tg      *telegram.Client
	auth    *auth.Service
	weather *weather.Service
	adminID int64

	mu       sync.Mutex
	limiters map[int64]*rate.Limiter
}

func New(tg *telegram.Client, authSvc *auth.Service, weatherSvc *weather.Service, adminID int64) *Bot {
	return &Bot{
		tg:       tg,
		auth:     authSvc,
		weather:  weatherSvc,
		adminID:  adminID,
		limiters: make(map[int64]*rate.Limiter),
	}
}

// Run long-polls for updates until ctx is cancelled. Transient API errors
// back off exponentially and reset on the next successful poll.
func (b *Bot) Run(ctx context.Context) error {
	me, err := b.tg.GetMe(ctx)
	if err != nil {
		return err
	}
	log.Printf("bot: running as @%s (id %d)", me.Username, me.ID)

	if err := b.tg.SetMyCommands(ctx, commands); err != nil {
		log.Printf("bot: set commands: %v", err)
	}
	b.notifyAdmin(ctx, "Bot is running!")
	defer b.notifyAdminStopped()

	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 0

	var offset int64
	for {
		if ctx.Err() != nil {
			return nil
		}

		updates, err := b.tg.GetUpdates(ctx, offset)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			wait := bo.NextBackOff()
			log.Printf("bot: poll failed, retrying in %s: %v", wait, err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			continue
		}
		bo.Reset()

		for _, update := range updates {
			offset = update.UpdateID + 1
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) notifyAdmin(ctx context.Context, text string) {
	if b.adminID == 0 {
		return
	}
	if err := b.tg.SendMessage(ctx, b.adminID, text); err != nil {
		log.Printf("bot: notify admin: %v", err)
	}
}

// notifyAdminStopped runs during shutdown, after the run context is already
// cancelled, so it uses its own short deadline.
func (b *Bot) notifyAdminStopped() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	b.notifyAdmin(ctx, "Bot is stopping!")
}

// limiter returns the per-user rate limiter, one request per second.
func (b *Bot) limiter(userID int64) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	l, ok := b.limiters[userID]
	if !ok {
		l = rate.NewLimiter(rate.Every(time.Second), 1)
		b.limiters[userID] = l
	}
	return l
}

// splitCommand separates "/weather Moscow" into "weather" and "Moscow",
// stripping any @botname suffix from the command.
func splitCommand(text string) (string, string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", ""
	}
	parts := strings.SplitN(text, " ", 2)
	cmd := strings.TrimPrefix(parts[0], "/")
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	args := ""
	if len(parts) == 2 {
		args = strings.TrimSpace(parts[1])
	}
	return cmd, args
}
