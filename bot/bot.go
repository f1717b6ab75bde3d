package bot

import (
	"context"
	"fmt"
	"sync"

	"aoba/bot/command"
	"aoba/bot/features/admin"
	"aoba/bot/features/botadmin"
	"aoba/bot/features/economy"
	"aoba/bot/features/osu"
	"aoba/bot/features/user"
	"aoba/service"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

// Config holds bot configuration
type Config struct {
	Token string

	// OwnerID falls back to the application owner when empty
	OwnerID    string
	StatusText string

	HelpWidth      int
	HelpPageLength int

	Osu osu.Config
}

// Intents are the gateway events the commands depend on
const Intents = discordgo.IntentGuilds |
	discordgo.IntentGuildMembers |
	discordgo.IntentGuildMessages |
	discordgo.IntentGuildMessageReactions |
	discordgo.IntentMessageContent

type Bot struct {
	config  Config
	session *discordgo.Session
	gateway *discordGateway

	registry   *command.Registry
	dispatcher *command.Dispatcher
	sequencer  *command.Sequencer
	reactions  *command.ReactionWaiter

	guildService         service.GuildService
	customCommandService service.CustomCommandService

	ctx    context.Context
	cancel context.CancelFunc

	readyOnce    sync.Once
	shutdownOnce sync.Once
	done         chan struct{}
	fatal        chan error
}

// New connects the bot to the gateway. Persisted custom commands are
// registered before the connection opens.
func New(ctx context.Context, config Config, guildService service.GuildService, customCommandService service.CustomCommandService, economyService service.EconomyService) (*Bot, error) {
	dg, err := discordgo.New("Bot " + config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	dg.Identify.Intents = Intents

	ownerID := config.OwnerID
	if ownerID == "" {
		app, err := dg.Application("@me")
		if err != nil {
			return nil, fmt.Errorf("error fetching application owner: %w", err)
		}
		if app.Owner == nil {
			return nil, fmt.Errorf("application has no owner, set OWNER_ID")
		}
		ownerID = app.Owner.ID
	}

	botCtx, cancel := context.WithCancel(ctx)
	bot := &Bot{
		config:               config,
		session:              dg,
		gateway:              newDiscordGateway(dg),
		registry:             command.NewRegistry(),
		reactions:            command.NewReactionWaiter(),
		guildService:         guildService,
		customCommandService: customCommandService,
		ctx:                  botCtx,
		cancel:               cancel,
		done:                 make(chan struct{}),
		fatal:                make(chan error, 1),
	}

	if err := bot.registerFeatures(economyService); err != nil {
		cancel()
		return nil, err
	}

	if _, err := command.LoadCustomCommands(ctx, bot.registry, customCommandService, customCommandService); err != nil {
		cancel()
		return nil, fmt.Errorf("error loading custom commands: %w", err)
	}

	bot.dispatcher = command.NewDispatcher(bot.registry, bot.gateway, guildService, ownerID)
	bot.sequencer = command.NewSequencer(botCtx, bot.dispatcher)

	dg.AddHandler(bot.handleReady)
	dg.AddHandler(bot.handleGuildCreate)
	dg.AddHandler(bot.handleMessageCreate)
	dg.AddHandler(bot.handleReactionAdd)

	// Open websocket connection
	if err := dg.Open(); err != nil {
		bot.sequencer.Close()
		cancel()
		return nil, fmt.Errorf("error opening connection: %w", err)
	}

	return bot, nil
}

func (b *Bot) registerFeatures(economyService service.EconomyService) error {
	formatter := command.NewHelpFormatter(b.config.HelpWidth, b.config.HelpPageLength)

	commands := admin.New(b.registry, b.guildService, b.customCommandService).Commands()
	commands = append(commands, botadmin.New(b.guildService, b.requestShutdown).Commands()...)
	commands = append(commands, economy.New(economyService, b.reactions).Commands()...)
	commands = append(commands, user.New(b.registry, formatter).Commands()...)

	if b.config.Osu.Enabled() {
		commands = append(commands, osu.New(osu.NewClient(b.config.Osu)).Commands()...)
		log.Info("osu! commands enabled")
	}

	for _, cmd := range commands {
		if err := b.registry.Register(cmd); err != nil {
			return fmt.Errorf("cannot register '%s' command: %w", cmd.Name, err)
		}
	}
	return nil
}

// Done is closed when the owner asked the bot to shut down
func (b *Bot) Done() <-chan struct{} {
	return b.done
}

// Fatal reports startup failures that happen after the connection opened
func (b *Bot) Fatal() <-chan error {
	return b.fatal
}

func (b *Bot) requestShutdown() {
	b.shutdownOnce.Do(func() {
		close(b.done)
	})
}

// Close aborts pending waits, drains running commands and disconnects
func (b *Bot) Close() error {
	b.cancel()
	b.sequencer.Close()
	return b.gateway.Close()
}

func (b *Bot) handleReady(s *discordgo.Session, r *discordgo.Ready) {
	log.WithFields(log.Fields{
		"user":   r.User.Username,
		"guilds": len(r.Guilds),
	}).Info("Connected to gateway")

	b.readyOnce.Do(func() {
		guildIDs := make([]int64, 0, len(r.Guilds))
		for _, g := range r.Guilds {
			guildIDs = append(guildIDs, command.Snowflake(g.ID))
		}

		if _, err := b.guildService.Reconcile(b.ctx, guildIDs); err != nil {
			b.reportFatal(fmt.Errorf("guild reconciliation failed: %w", err))
			return
		}

		if err := b.gateway.SetStatus(b.config.StatusText); err != nil {
			log.WithError(err).Warn("Failed to set initial status")
		}
	})
}

func (b *Bot) handleGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	created, err := b.guildService.EnsureGuild(b.ctx, command.Snowflake(g.ID))
	if err != nil {
		log.WithError(err).WithField("guildID", g.ID).Error("Failed to ensure guild record")
		return
	}
	if created {
		log.WithFields(log.Fields{
			"guildID": g.ID,
			"name":    g.Name,
		}).Info("Joined new guild")
	}
}

func (b *Bot) handleMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil {
		return
	}
	b.sequencer.Submit(command.Message{
		ID:        m.ID,
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		AuthorID:  m.Author.ID,
		AuthorBot: m.Author.Bot,
		Content:   m.Content,
	})
}

func (b *Bot) handleReactionAdd(s *discordgo.Session, r *discordgo.MessageReactionAdd) {
	b.reactions.Dispatch(command.Reaction{
		GuildID:   r.GuildID,
		ChannelID: r.ChannelID,
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     r.Emoji.APIName(),
	})
}

func (b *Bot) reportFatal(err error) {
	select {
	case b.fatal <- err:
	default:
		log.WithError(err).Error("Dropped fatal error")
	}
}
