package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"meteobot/internal/api"
	"meteobot/internal/auth"
	"meteobot/internal/bot"
	"meteobot/internal/geocode"
	"meteobot/internal/openmeteo"
	"meteobot/internal/store"
	"meteobot/internal/telegram"
	"meteobot/internal/weather"
)

var cli struct {
	DB   string `help:"Path to SQLite database." default:"data/meteobot.db"`
	Port string `help:"Ops HTTP server port (health, metrics)." default:"8080"`

	BotToken    string `help:"Telegram bot API token." env:"BOT_TOKEN" required:""`
	GeocodeKey  string `help:"Geocode service API key." env:"GEOCODE_TOKEN" required:""`
	SignupCode  string `help:"Code new users must present to /register." env:"SIGNUP_CODE" required:""`
	AdminID     int64  `help:"Chat ID notified on startup and shutdown." env:"ADMIN_ID"`
	GeocodeURL  string `help:"Geocode service base URL." env:"GEOCODE_URL"`
	WeatherURL  string `help:"Weather provider base URL." env:"WEATHER_URL"`
	TelegramURL string `help:"Telegram API base URL override." env:"TELEGRAM_URL"`

	RefreshInterval time.Duration `help:"Background forecast refresh interval." default:"1h"`
	NoRefresh       bool          `help:"Disable background forecast refresh."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("meteobot"),
		kong.Description("Weather chat-bot with cached geocoding and forecasts."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")
	db.Exec("PRAGMA foreign_keys=ON")

	st := store.New(db)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	geocoder := geocode.NewClient(cli.GeocodeURL, cli.GeocodeKey)
	provider := openmeteo.NewClient(cli.WeatherURL)

	resolver := weather.NewResolver(st, geocoder)
	cache := weather.NewCacheManager(st, provider)
	weatherSvc := weather.NewService(resolver, cache)
	authSvc := auth.NewService(st, cli.SignupCode)

	tg := telegram.NewClient(cli.BotToken, cli.TelegramURL)
	b := bot.New(tg, authSvc, weatherSvc, cli.AdminID)
	server := api.NewServer(st, cli.Port)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if !cli.NoRefresh {
		refresher := weather.NewRefresher(st, cache, cli.RefreshInterval)
		go refresher.Run(ctx)
	} else {
		log.Println("background refresh disabled (--no-refresh)")
	}

	go func() {
		log.Printf("starting ops server on :%s", cli.Port)
		if err := server.Run(ctx); err != nil {
			log.Printf("ops server: %v", err)
		}
	}()

	if err := b.Run(ctx); err != nil {
		log.Fatalf("bot: %v", err)
	}
}
