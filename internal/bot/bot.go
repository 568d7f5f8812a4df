package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"telegram-casino-bot/internal/config"
	"telegram-casino-bot/internal/engine"
	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/handler"
	"telegram-casino-bot/internal/pkg/ratelimit"
	"telegram-casino-bot/internal/service"
)

// Bot wraps the telebot instance with the application's handlers.
type Bot struct {
	bot *tele.Bot
	cfg *config.Config

	accountHandler *handler.AccountHandler
	sessionHandler *handler.SessionHandler
	singleHandler  *handler.SingleHandler
	rankingHandler *handler.RankingHandler
	adminHandler   *handler.AdminHandler
}

// Dependencies holds everything the bot's handlers need.
type Dependencies struct {
	Ctx            context.Context
	Config         *config.Config
	Coordinator    *engine.Coordinator
	Runner         *game.Runner
	AccountService *service.AccountService
	RankingService *service.RankingService
	AdminService   *service.AdminService
	Limiter        *ratelimit.Limiter
}

// New creates a Bot with middleware and handlers registered.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	teleBot, err := tele.NewBot(tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	b := &Bot{
		bot:            teleBot,
		cfg:            deps.Config,
		accountHandler: handler.NewAccountHandler(deps.AccountService),
		sessionHandler: handler.NewSessionHandler(deps.Ctx, deps.Coordinator, deps.AccountService),
		singleHandler:  handler.NewSingleHandler(deps.Runner, deps.AccountService),
		rankingHandler: handler.NewRankingHandler(deps.RankingService),
		adminHandler:   handler.NewAdminHandler(deps.AdminService),
	}

	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(LoggingMiddleware())
	b.bot.Use(RateLimitMiddleware(deps.Limiter))

	b.registerHandlers(deps.Runner)
	return b, nil
}

func (b *Bot) registerHandlers(runner *game.Runner) {
	// Account commands
	b.bot.Handle("/start", b.accountHandler.HandleStart)
	b.bot.Handle("/balance", b.accountHandler.HandleBalance)
	b.bot.Handle("/my", b.accountHandler.HandleProfile)
	b.bot.Handle("/history", b.accountHandler.HandleHistory)
	b.bot.Handle("/top", b.rankingHandler.HandleTop)

	// Session games
	b.bot.Handle("/mines", b.sessionHandler.HandleMines)
	b.bot.Handle("/tower", b.sessionHandler.HandleTower)
	b.bot.Handle("/vault", b.sessionHandler.HandleVault)
	b.bot.Handle("/crypt", b.sessionHandler.HandleCrypt)
	b.bot.Handle("/balloon", b.sessionHandler.HandleBalloon)
	b.bot.Handle("/crash", b.sessionHandler.HandleCrash)

	// Single-shot games, one command per registered game
	for _, command := range runner.Games() {
		b.bot.Handle("/"+command, b.singleHandler.Handle(command))
	}

	// Admin commands
	adminGroup := b.bot.Group()
	adminGroup.Use(AdminMiddleware(b.cfg))
	adminGroup.Handle("/admin_add", b.adminHandler.HandleAdd)
	adminGroup.Handle("/admin_sub", b.adminHandler.HandleSub)
	adminGroup.Handle("/admin_set", b.adminHandler.HandleSet)

	// All board buttons arrive as raw callbacks
	b.bot.Handle(tele.OnCallback, b.handleCallback)
}

// handleCallback strips telebot's \f prefix and routes to the session
// handler; every inline button in the bot belongs to a session game.
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	data := strings.TrimPrefix(callback.Data, "\f")
	return b.sessionHandler.HandleCallback(c, data)
}

// Start begins long polling. Blocks until Stop is called.
func (b *Bot) Start() {
	log.Info().Msg("Starting bot")
	b.bot.Start()
}

// Stop terminates long polling.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot")
	b.bot.Stop()
}
