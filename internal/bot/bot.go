package bot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"

	"github.com/jusunglee/copticname/internal/converter"
	"github.com/jusunglee/copticname/internal/metrics"
	"github.com/jusunglee/copticname/internal/speech"
	"github.com/jusunglee/copticname/internal/transliteration"
)

const (
	commandCoptic  = "coptic"
	maxNameLength  = 100
	attachmentName = "name.wav"
)

type Config struct {
	GuildID        string
	CommandTimeout time.Duration
}

type Bot struct {
	log     *slog.Logger
	session DiscordSession
	conv    Converter
	synth   Synthesizer
	limiter *RateLimiter
	config  Config
}

// New creates a bot. synth may be nil, in which case speak requests get the
// unsupported notice.
func New(
	log *slog.Logger,
	session DiscordSession,
	conv Converter,
	synth Synthesizer,
	config Config,
) *Bot {
	if config.CommandTimeout == 0 {
		config.CommandTimeout = 30 * time.Second
	}
	return &Bot{
		log:     log,
		session: session,
		conv:    conv,
		synth:   synth,
		limiter: NewRateLimiter(),
		config:  config,
	}
}

func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		b.handleInteraction(ctx, i)
	})
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.log.InfoContext(ctx, "connected to Discord", "username", r.User.Username, "discriminator", r.User.Discriminator)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening Discord connection: %w", err)
	}

	if err := b.registerCommands(ctx); err != nil {
		b.session.Close()
		return fmt.Errorf("registering commands: %w", err)
	}

	b.log.InfoContext(ctx, "bot is running, press Ctrl+C to stop")

	<-ctx.Done()
	b.log.Info("shutdown signal received")
	if err := b.session.Close(); err != nil {
		return fmt.Errorf("closing Discord connection: %w", err)
	}
	b.log.Info("shut down complete")

	return nil
}

func (b *Bot) registerCommands(ctx context.Context) error {
	guildID := b.config.GuildID
	if guildID != "" {
		b.log.InfoContext(ctx, "registering commands to guild", "guild_id", guildID)
		_, err := b.session.ApplicationCommandBulkOverwrite(b.session.GetUserID(), "", []*discordgo.ApplicationCommand{})
		if err != nil {
			b.log.WarnContext(ctx, "failed to clear global commands", "error", err)
		} else {
			b.log.InfoContext(ctx, "cleared global commands")
		}
	} else {
		b.log.InfoContext(ctx, "registering commands globally (may take up to 1 hour to propagate)")
	}

	_, err := b.session.ApplicationCommandBulkOverwrite(b.session.GetUserID(), guildID, commands)
	if err != nil {
		return fmt.Errorf("bulk overwrite commands: %w", err)
	}
	b.log.InfoContext(ctx, "registered commands", "count", len(commands))
	return nil
}

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        commandCoptic,
		Description: "Write a name in Coptic letters",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "name",
				Description: "The name, in Latin or Arabic letters",
				Required:    true,
				MaxLength:   maxNameLength,
			},
			{
				Type:        discordgo.ApplicationCommandOptionBoolean,
				Name:        "speak",
				Description: "Attach a recording of the Coptic name",
				Required:    false,
			},
		},
	},
}

type handlerResult struct {
	Response string
	Files    []*discordgo.File
	Err      error
}

func (b *Bot) handleInteraction(ctx context.Context, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	b.handleCommand(ctx, i)
}

func (b *Bot) handleCommand(ctx context.Context, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(ctx, b.config.CommandTimeout)
	defer cancel()
	var result handlerResult
	cmd := i.ApplicationCommandData().Name

	// Synthesis can outlast Discord's 3 second acknowledgement window.
	deferred := cmd == commandCoptic && boolOption(i.ApplicationCommandData().Options, "speak")
	if deferred {
		if err := b.deferResponse(i); err != nil {
			metrics.BotCommandsTotal.WithLabelValues(cmd, "error").Inc()
			b.log.ErrorContext(ctx, "failed to defer interaction", "command", cmd, "error", err)
			return
		}
	}

	switch cmd {
	case commandCoptic:
		result = b.handleCoptic(ctx, i)
	default:
		result = handlerResult{
			Response: "Unknown command.",
			Err:      newUserError(fmt.Errorf("unknown command %q", cmd)),
		}
	}

	if deferred {
		b.editResponse(ctx, i, result)
	} else {
		b.respond(ctx, i, result)
	}

	if result.Err == nil {
		metrics.BotCommandsTotal.WithLabelValues(cmd, "ok").Inc()
		return
	}

	if _, ok := errors.AsType[*userError](result.Err); ok {
		metrics.BotCommandsTotal.WithLabelValues(cmd, "user_error").Inc()
		b.log.WarnContext(ctx, "user error", "command", cmd, "error", result.Err, "channel_id", i.ChannelID)
	} else {
		metrics.BotCommandsTotal.WithLabelValues(cmd, "error").Inc()
		b.log.ErrorContext(ctx, "command failed", "command", cmd, "error", result.Err, "channel_id", i.ChannelID)
	}
}

type userError struct {
	Err error
}

func (e *userError) Error() string {
	return e.Err.Error()
}

func (e *userError) Unwrap() error {
	return e.Err
}

func newUserError(err error) *userError {
	return &userError{Err: err}
}

func getOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) (*discordgo.ApplicationCommandInteractionDataOption, bool) {
	return lo.Find(options, func(opt *discordgo.ApplicationCommandInteractionDataOption) bool {
		return opt.Name == name
	})
}

func stringOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	opt, ok := getOption(options, name)
	if !ok {
		return ""
	}
	return opt.StringValue()
}

func boolOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) bool {
	opt, ok := getOption(options, name)
	if !ok {
		return false
	}
	return opt.BoolValue()
}

func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}

func (b *Bot) handleCoptic(ctx context.Context, i *discordgo.InteractionCreate) handlerResult {
	userID := interactionUserID(i)
	if wait, ok := b.limiter.Reserve(userID); !ok {
		metrics.RateLimitHits.WithLabelValues("bot").Inc()
		return handlerResult{
			Response: fmt.Sprintf("You're going a bit fast. Try again in %d seconds.", int(wait.Round(time.Second).Seconds())),
			Err:      newUserError(fmt.Errorf("user %s rate limited", userID)),
		}
	}

	options := i.ApplicationCommandData().Options
	name := stringOption(options, "name")
	speak := boolOption(options, "speak")

	if len([]rune(name)) > maxNameLength {
		return handlerResult{
			Response: fmt.Sprintf("Names are limited to %d characters.", maxNameLength),
			Err:      newUserError(fmt.Errorf("name too long: %d runes", len([]rune(name)))),
		}
	}

	res := b.conv.Convert(ctx, name)
	if res.Empty {
		return handlerResult{
			Response: res.Notice,
			Err:      newUserError(errors.New("empty name")),
		}
	}
	if res.Coptic == "" {
		return handlerResult{
			Response: fmt.Sprintf("No Coptic letters could be produced from %q.", res.Input),
			Err:      newUserError(fmt.Errorf("no coptic output for %q", res.Input)),
		}
	}

	content := formatResult(res)
	if !speak {
		return handlerResult{Response: content}
	}

	if b.synth == nil {
		return handlerResult{Response: content + "\n" + converter.NoticeSpeechUnsupported}
	}

	audio, _, err := b.synth.Synthesize(ctx, res.Coptic)
	if err != nil {
		if errors.Is(err, speech.ErrUnsupported) {
			return handlerResult{Response: content + "\n" + converter.NoticeSpeechUnsupported}
		}
		return handlerResult{
			Response: content + "\nCouldn't record the name right now.",
			Err:      fmt.Errorf("synthesizing %q: %w", res.Coptic, err),
		}
	}

	return handlerResult{
		Response: content,
		Files: []*discordgo.File{{
			Name:        attachmentName,
			ContentType: "audio/wav",
			Reader:      bytes.NewReader(speech.EncodeWAV(audio)),
		}},
	}
}

func formatResult(res converter.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** → **%s**", res.Input, res.Coptic)
	if res.Script == transliteration.ScriptLatin && res.Arabic != "" {
		fmt.Fprintf(&sb, "\nArabic: %s", res.Arabic)
	}
	return sb.String()
}

func (b *Bot) respond(ctx context.Context, i *discordgo.InteractionCreate, result handlerResult) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: result.Response,
			Files:   result.Files,
		},
	})
	if err != nil {
		b.log.ErrorContext(ctx, "failed to respond to interaction", "error", err)
	}
}

func (b *Bot) deferResponse(i *discordgo.InteractionCreate) error {
	return b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
}

// editResponse fills in a previously deferred response.
func (b *Bot) editResponse(ctx context.Context, i *discordgo.InteractionCreate, result handlerResult) {
	content := result.Response
	_, err := b.session.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
		Files:   result.Files,
	})
	if err != nil {
		b.log.ErrorContext(ctx, "failed to edit deferred response", "error", err)
	}
}
