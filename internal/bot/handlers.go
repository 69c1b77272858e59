package bot

import (
	"context"
	"errors"
	"fmt"
	"log"

	"meteobot/internal/auth"
	"meteobot/internal/forecast"
	"meteobot/internal/metrics"
	"meteobot/internal/telegram"
	"meteobot/internal/weather"
)

const (
	msgUnauthorized  = "You are not authorized to use this bot."
	msgRateLimited   = "Please wait before sending another message."
	msgNoCity        = "Error, no arguments passed. Pass the city name."
	msgBadLocation   = "Error, unknown location arguments passed."
	msgNoForecast    = "Error, don't get data of weather forecast."
	msgInternalError = "Error, something went wrong. Please try again later."
)

const welcomeText = `Hello %s! Nice to meet you! ☀

Welcome to the Weather Bot! I'm here to help you get the latest weather updates for any city around the world.

Here are a few things you can do:
- Get weather forecasts by typing /weather followed by the city name. For example, /weather Moscow.
- Use the /help command to get more information about the available commands and how to use them.

If you have any questions or need assistance, feel free to ask!`

const helpText = `Here are the available commands and their descriptions:

/start - Welcome message and initial interaction with the bot.
    Usage: Just type /start to begin.

/help - Displays this help message with information about available commands.
    Usage: Type /help to see this message.

/register - Register with the bot using a signup code.
    Usage: Type /register followed by the code you were given.

/weather - Get the weather forecast for a specific location.
    Usage: Type /weather followed by the city name. For example, /weather Moscow.
    Note: Make sure to provide the city name correctly for accurate results.

If you have any questions or need further assistance, feel free to ask!`

func (b *Bot) handleUpdate(ctx context.Context, update telegram.Update) {
	msg := update.Message
	if msg == nil || msg.From == nil {
		return
	}
	log.Printf("bot: received message from %d: %q", msg.From.ID, msg.Text)

	cmd, args := splitCommand(msg.Text)
	if cmd == "" {
		return
	}

	if !b.limiter(msg.From.ID).Allow() {
		log.Printf("bot: rate limit exceeded for user %d", msg.From.ID)
		b.reply(ctx, msg.Chat.ID, msgRateLimited)
		return
	}

	// Registration is the only command reachable without authorization.
	if cmd == "register" {
		b.handleRegister(ctx, msg, args)
		return
	}

	user, err := b.auth.Authorized(msg.From.ID)
	if err != nil {
		if !errors.Is(err, auth.ErrUnauthorized) {
			log.Printf("bot: authorization check for user %d: %v", msg.From.ID, err)
		}
		metrics.CommandsTotal.WithLabelValues(cmd, "unauthorized").Inc()
		b.reply(ctx, msg.Chat.ID, msgUnauthorized)
		return
	}

	switch cmd {
	case "start":
		metrics.CommandsTotal.WithLabelValues("start", "ok").Inc()
		b.reply(ctx, msg.Chat.ID, fmt.Sprintf(welcomeText, msg.From.FirstName))
	case "help":
		metrics.CommandsTotal.WithLabelValues("help", "ok").Inc()
		b.reply(ctx, msg.Chat.ID, helpText)
	case "weather":
		b.handleWeather(ctx, msg, user.ID, args)
	default:
		log.Printf("bot: unknown command %q from user %d", cmd, msg.From.ID)
	}
}

func (b *Bot) handleRegister(ctx context.Context, msg *telegram.Message, code string) {
	credential, err := b.auth.Register(msg.From.ID, code)
	switch {
	case errors.Is(err, auth.ErrAlreadyRegistered):
		metrics.CommandsTotal.WithLabelValues("register", "duplicate").Inc()
		b.reply(ctx, msg.Chat.ID, "You are already registered.")
	case errors.Is(err, auth.ErrInvalidSignupCode):
		metrics.CommandsTotal.WithLabelValues("register", "rejected").Inc()
		b.reply(ctx, msg.Chat.ID, "Invalid signup code.")
	case err != nil:
		log.Printf("bot: register user %d: %v", msg.From.ID, err)
		metrics.CommandsTotal.WithLabelValues("register", "error").Inc()
		b.reply(ctx, msg.Chat.ID, msgInternalError)
	default:
		metrics.CommandsTotal.WithLabelValues("register", "ok").Inc()
		b.reply(ctx, msg.Chat.ID, "Registered! Your access token: "+credential)
	}
}

func (b *Bot) handleWeather(ctx context.Context, msg *telegram.Message, userID int64, city string) {
	if city == "" {
		metrics.CommandsTotal.WithLabelValues("weather", "no_args").Inc()
		b.reply(ctx, msg.Chat.ID, msgNoCity)
		return
	}

	snapshots, err := b.weather.ForecastForCity(ctx, userID, city)
	switch {
	case errors.Is(err, weather.ErrLocationNotFound):
		metrics.CommandsTotal.WithLabelValues("weather", "location_not_found").Inc()
		b.reply(ctx, msg.Chat.ID, msgBadLocation)
		return
	case errors.Is(err, weather.ErrForecastUnavailable):
		metrics.CommandsTotal.WithLabelValues("weather", "forecast_unavailable").Inc()
		b.reply(ctx, msg.Chat.ID, msgNoForecast)
		return
	case err != nil:
		log.Printf("bot: weather for %q: %v", city, err)
		metrics.CommandsTotal.WithLabelValues("weather", "error").Inc()
		b.reply(ctx, msg.Chat.ID, msgInternalError)
		return
	}

	metrics.CommandsTotal.WithLabelValues("weather", "ok").Inc()
	for _, line := range forecast.RenderLines(snapshots) {
		b.reply(ctx, msg.Chat.ID, line)
	}
}

func (b *Bot) reply(ctx context.Context, chatID int64, text string) {
	if err := b.tg.SendMessage(ctx, chatID, text); err != nil {
		log.Printf("bot: send message to %d: %v", chatID, err)
	}
}
