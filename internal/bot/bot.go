package bot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"github.com/jusunglee/thaiconv/internal/db"
	"github.com/jusunglee/thaiconv/internal/metrics"
	"github.com/jusunglee/thaiconv/internal/phonetic"
	"github.com/jusunglee/thaiconv/internal/transliteration"
)

const (
	maxCommandText   = 500
	maxCandidates    = 5
	reportPrefix     = "report:"
	reportModal      = "report_modal:"
	maxReportInput   = 100 - len(reportModal)
	cleanupInterval  = time.Hour
	interactionLimit = 10 * time.Second
)

type Config struct {
	// GuildID registers commands to a single server for fast iteration.
	// Empty registers them globally.
	GuildID string

	// FeedbackRetention is how long reported conversions are kept. Zero
	// keeps them forever.
	FeedbackRetention time.Duration

	// RateLimit is the number of commands each user may run per minute.
	RateLimit int
}

type Bot struct {
	log     Logger
	session DiscordSession
	engine  *transliteration.Engine
	repo    db.Repository
	limiter *RateLimiter
	config  Config
}

// New builds the bot. repo may be nil, in which case conversions carry no
// report button.
func New(
	log Logger,
	session DiscordSession,
	engine *transliteration.Engine,
	repo db.Repository,
	config Config,
) *Bot {
	return &Bot{
		log:     log,
		session: session,
		engine:  engine,
		repo:    repo,
		limiter: NewRateLimiter(config.RateLimit, time.Minute),
		config:  config,
	}
}

func (b *Bot) Run(ctx context.Context) error {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		b.log.InfoContext(ctx, "connected to Discord", "username", r.User.Username)
	})

	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening Discord connection: %w", err)
	}
	defer b.session.Close()

	if err := b.registerCommands(ctx); err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b.runCleaner(ctx)
		return nil
	})

	b.log.InfoContext(ctx, "bot is running, press Ctrl+C to stop")
	err := g.Wait()
	b.log.Info("shut down complete")
	return err
}

func (b *Bot) registerCommands(ctx context.Context) error {
	guildID := b.config.GuildID
	appID := b.session.GetUserID()
	if guildID != "" {
		b.log.InfoContext(ctx, "registering commands to guild", "guild_id", guildID)
		if _, err := b.session.ApplicationCommandBulkOverwrite(appID, "", []*discordgo.ApplicationCommand{}); err != nil {
			b.log.WarnContext(ctx, "failed to clear global commands", "error", err)
		}
	} else {
		b.log.InfoContext(ctx, "registering commands globally (may take up to 1 hour to propagate)")
	}

	if _, err := b.session.ApplicationCommandBulkOverwrite(appID, guildID, commands); err != nil {
		return fmt.Errorf("bulk overwrite commands: %w", err)
	}
	b.log.InfoContext(ctx, "registered commands", "count", len(commands))
	return nil
}

func (b *Bot) runCleaner(ctx context.Context) {
	for ctx.Err() == nil {
		b.cleanup(ctx)
		sleepWithContext(ctx, cleanupInterval)
	}
}

func (b *Bot) cleanup(ctx context.Context) {
	if n := b.limiter.Sweep(); n > 0 {
		b.log.InfoContext(ctx, "swept rate limiter", "users", n)
	}
	if b.repo == nil || b.config.FeedbackRetention <= 0 {
		return
	}
	cleanupCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	deleted, err := b.repo.DeleteOldFeedback(cleanupCtx, time.Now().Add(-b.config.FeedbackRetention))
	if err != nil {
		b.log.ErrorContext(ctx, "deleting old feedback", "error", err)
		return
	}
	if deleted > 0 {
		b.log.InfoContext(ctx, "deleted old feedback", "count", deleted)
	}
}

func sleepWithContext(ctx context.Context, dur time.Duration) {
	timer := time.NewTimer(dur)
	defer timer.Stop()

	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}

var toneChoices = lo.Map([]phonetic.Tone{
	phonetic.ToneMid, phonetic.ToneLow, phonetic.ToneFalling, phonetic.ToneHigh, phonetic.ToneRising,
}, func(t phonetic.Tone, _ int) *discordgo.ApplicationCommandOptionChoice {
	return &discordgo.ApplicationCommandOptionChoice{
		Name:  fmt.Sprintf("%d %s", t.Digit(), t),
		Value: t.Digit(),
	}
})

var commands = []*discordgo.ApplicationCommand{
	{
		Name:        "thai",
		Description: "Convert romanized Thai to Thai script",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "text",
				Description: "Words to convert, e.g. sawatdii khrap4",
				Required:    true,
				MaxLength:   maxCommandText,
			},
			{
				Type:        discordgo.ApplicationCommandOptionInteger,
				Name:        "tone",
				Description: "Tone for a single word",
				Choices:     toneChoices,
			},
		},
	},
	{
		Name:        "suggest",
		Description: "List spellings close to a romanized word",
		Options: []*discordgo.ApplicationCommandOption{
			{
				Type:        discordgo.ApplicationCommandOptionString,
				Name:        "word",
				Description: "A single romanized word",
				Required:    true,
			},
		},
	},
}

type handlerResult struct {
	Data *discordgo.InteractionResponseData
	Err  error
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

func newUserError(format string, args ...any) *userError {
	return &userError{Err: fmt.Errorf(format, args...)}
}

func ephemeral(content string) *discordgo.InteractionResponseData {
	return &discordgo.InteractionResponseData{
		Content: content,
		Flags:   discordgo.MessageFlagsEphemeral,
	}
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

func (b *Bot) handleInteraction(_ *discordgo.Session, i *discordgo.InteractionCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), interactionLimit)
	defer cancel()

	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		b.handleCommand(ctx, i)
	case discordgo.InteractionMessageComponent:
		b.handleComponent(ctx, i)
	case discordgo.InteractionModalSubmit:
		b.handleModalSubmit(ctx, i)
	}
}

func (b *Bot) handleCommand(ctx context.Context, i *discordgo.InteractionCreate) {
	cmd := i.ApplicationCommandData().Name

	if !b.limiter.Allow(interactionUserID(i)) {
		metrics.BotCommandsTotal.WithLabelValues(cmd, "rate_limited").Inc()
		b.respond(ctx, i, ephemeral("You're sending commands too quickly. Try again in a minute."))
		return
	}

	var result handlerResult
	switch cmd {
	case "thai":
		result = b.handleThai(i)
	case "suggest":
		result = b.handleSuggest(i)
	default:
		result = handlerResult{Err: fmt.Errorf("unknown command %q", cmd)}
	}

	if result.Err == nil {
		metrics.BotCommandsTotal.WithLabelValues(cmd, "ok").Inc()
		b.respond(ctx, i, result.Data)
		return
	}

	var uerr *userError
	if errors.As(result.Err, &uerr) {
		metrics.BotCommandsTotal.WithLabelValues(cmd, "user_error").Inc()
		b.respond(ctx, i, ephemeral(uerr.Error()))
		return
	}
	metrics.BotCommandsTotal.WithLabelValues(cmd, "error").Inc()
	b.log.ErrorContext(ctx, "command failed", "command", cmd, "error", result.Err, "channel_id", i.ChannelID)
	b.respond(ctx, i, ephemeral("Something went wrong, please try again later."))
}

func getOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) string {
	for _, opt := range options {
		if opt.Name == name {
			return opt.StringValue()
		}
	}
	return ""
}

func getIntOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) (int, bool) {
	for _, opt := range options {
		if opt.Name == name {
			return int(opt.IntValue()), true
		}
	}
	return 0, false
}

func (b *Bot) handleThai(i *discordgo.InteractionCreate) handlerResult {
	options := i.ApplicationCommandData().Options
	text := strings.TrimSpace(getOption(options, "text"))
	if text == "" {
		return handlerResult{Err: newUserError("Give me some romanized Thai to convert.")}
	}
	if len(text) > maxCommandText {
		return handlerResult{Err: newUserError("Text must be %d characters or fewer.", maxCommandText)}
	}

	var results []transliteration.Result
	if tone, ok := getIntOption(options, "tone"); ok {
		words := strings.Fields(text)
		if len(words) != 1 {
			return handlerResult{Err: newUserError("The tone option only works on a single word.")}
		}
		results = []transliteration.Result{b.engine.ConvertWord(words[0], tone)}
	} else {
		results = b.engine.ConvertPhrase(text)
	}
	metrics.ObserveResults(results)

	data := &discordgo.InteractionResponseData{Content: formatConversion(text, results)}
	if b.repo != nil && len(text) <= maxReportInput {
		data.Components = []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Report wrong spelling",
						CustomID: reportPrefix + text,
						Style:    discordgo.SecondaryButton,
					},
				},
			},
		}
	}
	return handlerResult{Data: data}
}

func (b *Bot) handleSuggest(i *discordgo.InteractionCreate) handlerResult {
	word := strings.TrimSpace(getOption(i.ApplicationCommandData().Options, "word"))
	if len(strings.Fields(word)) != 1 {
		return handlerResult{Err: newUserError("Suggestions work on a single word.")}
	}

	suggestions := b.engine.Suggest(word, transliteration.DefaultSuggestions)
	metrics.SuggestionsServed.Inc()
	return handlerResult{Data: &discordgo.InteractionResponseData{Content: formatSuggestions(word, suggestions)}}
}

func formatConversion(text string, results []transliteration.Result) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "**%s** → %s\n", text, transliteration.Render(results))

	if len(results) == 1 && results[0].Best != nil {
		for n, c := range lo.Slice(results[0].Candidates, 0, maxCandidates) {
			fmt.Fprintf(&sb, "%d. %s (%s, %s)\n", n+1, c.Thai, c.Tone, c.Source)
		}
	}
	for _, r := range results {
		switch {
		case r.Err != nil:
			fmt.Fprintf(&sb, "`%s`: %v\n", r.Original, r.Err)
		case r.Best == nil:
			fmt.Fprintf(&sb, "`%s`: no match\n", r.Original)
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func formatSuggestions(word string, suggestions []transliteration.Suggestion) string {
	if len(suggestions) == 0 {
		return fmt.Sprintf("No suggestions for **%s**.", word)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Suggestions for **%s**:\n", word)
	for _, s := range suggestions {
		fmt.Fprintf(&sb, "`%s` → %s (%s)\n", s.Roman, s.Thai, s.Kind)
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (b *Bot) handleComponent(ctx context.Context, i *discordgo.InteractionCreate) {
	input, ok := strings.CutPrefix(i.MessageComponentData().CustomID, reportPrefix)
	if !ok {
		return
	}

	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseModal,
		Data: &discordgo.InteractionResponseData{
			CustomID: reportModal + input,
			Title:    "Report a wrong spelling",
			Components: []discordgo.MessageComponent{
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:    "expected",
							Label:       "What should it be in Thai script?",
							Style:       discordgo.TextInputShort,
							Placeholder: "e.g. สวัสดี",
							Required:    true,
							MaxLength:   200,
						},
					},
				},
				discordgo.ActionsRow{
					Components: []discordgo.MessageComponent{
						discordgo.TextInput{
							CustomID:  "comment",
							Label:     "Anything else?",
							Style:     discordgo.TextInputParagraph,
							Required:  false,
							MaxLength: 500,
						},
					},
				},
			},
		},
	})
	if err != nil {
		b.log.ErrorContext(ctx, "failed to open report modal", "error", err)
	}
}

func modalValues(data discordgo.ModalSubmitInteractionData) map[string]string {
	values := make(map[string]string)
	for _, row := range data.Components {
		actionsRow, ok := row.(*discordgo.ActionsRow)
		if !ok {
			continue
		}
		for _, comp := range actionsRow.Components {
			if input, ok := comp.(*discordgo.TextInput); ok {
				values[input.CustomID] = strings.TrimSpace(input.Value)
			}
		}
	}
	return values
}

func (b *Bot) handleModalSubmit(ctx context.Context, i *discordgo.InteractionCreate) {
	data := i.ModalSubmitData()
	input, ok := strings.CutPrefix(data.CustomID, reportModal)
	if !ok || b.repo == nil {
		return
	}

	values := modalValues(data)
	expected := values["expected"]
	if !strings.ContainsFunc(expected, phonetic.IsThai) {
		metrics.FeedbackSubmissions.WithLabelValues("bot", "rejected").Inc()
		b.respond(ctx, i, ephemeral("The correction needs to be written in Thai script."))
		return
	}

	got := transliteration.Render(b.engine.ConvertPhrase(input))
	_, err := b.repo.CreateFeedback(ctx, db.CreateFeedbackParams{
		Input:    input,
		Expected: expected,
		Got:      sql.NullString{String: got, Valid: got != ""},
		Comment:  sql.NullString{String: values["comment"], Valid: values["comment"] != ""},
		Source:   "bot",
	})
	if err != nil {
		metrics.FeedbackSubmissions.WithLabelValues("bot", "error").Inc()
		b.log.ErrorContext(ctx, "failed to store feedback", "error", err, "input", input)
		b.respond(ctx, i, ephemeral("Couldn't save that right now, please try again later."))
		return
	}
	metrics.FeedbackSubmissions.WithLabelValues("bot", "ok").Inc()
	b.respond(ctx, i, ephemeral("Thanks! Your correction has been recorded."))
}

func (b *Bot) respond(ctx context.Context, i *discordgo.InteractionCreate, data *discordgo.InteractionResponseData) {
	err := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		b.log.ErrorContext(ctx, "failed to respond to interaction", "error", err)
	}
}
