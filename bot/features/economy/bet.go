package economy

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"aoba/bot/command"
	"aoba/models"
	"aoba/service"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	// CancelEmoji closes a bet without moving any balance
	CancelEmoji = "0️⃣"

	defaultBetTimeoutMinutes = 5.0
	maxBetTimeoutMinutes     = 60.0
)

// OptionEmojis are the keycaps used for bet options, in option order
var OptionEmojis = []string{"1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣", "🔟"}

// parseOptions splits a comma separated option list, dropping blank entries
func parseOptions(arg string) []string {
	var options []string
	for _, opt := range strings.Split(arg, ",") {
		if opt = strings.TrimSpace(opt); opt != "" {
			options = append(options, opt)
		}
	}
	return options
}

func formatBetMessage(name string, options []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bet created: %s.\nOptions: ", name)
	for i, opt := range options {
		fmt.Fprintf(&b, "\n - %s: %s", opt, OptionEmojis[i])
	}
	return b.String()
}

func (f *Feature) handleBet(ctx *command.Context) error {
	if len(ctx.Args) < 2 {
		return ctx.UsageError()
	}
	name := ctx.Arg(0)
	options := parseOptions(ctx.Arg(1))

	timeoutMinutes := defaultBetTimeoutMinutes
	if arg := ctx.Arg(2); arg != "" {
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil || v <= 0 {
			return service.NewUserError(service.ErrInvalidArgument, "The timeout must be a positive number of minutes!")
		}
		timeoutMinutes = v
	}

	if timeoutMinutes > maxBetTimeoutMinutes {
		return ctx.Reply("Can't create a bet with a timeout bigger than 60 minutes!")
	}
	if len(options) < 2 {
		return ctx.Reply("Can't create a bet with a single option!")
	}
	if len(options) > len(OptionEmojis) {
		return ctx.Reply("The maximum number of options is %d!", len(OptionEmojis))
	}

	betID := f.newBetID()
	logger := log.WithFields(log.Fields{
		"betID":   betID,
		"guildID": ctx.Message.GuildID,
		"name":    name,
	})

	optionsMsgID, err := ctx.Send(formatBetMessage(name, options))
	if err != nil {
		return err
	}

	emojis := OptionEmojis[:len(options)]
	for _, emoji := range emojis {
		if err := ctx.Gateway.React(ctx.Message.ChannelID, optionsMsgID, emoji); err != nil {
			return err
		}
	}

	resultMsgID, err := ctx.Send(fmt.Sprintf(
		"React to this message with the winner reaction within %dm to close the bet, or with 0 to cancel it.",
		int(timeoutMinutes)))
	if err != nil {
		return err
	}

	logger.WithField("options", len(options)).Info("Bet created")

	valid := append([]string{CancelEmoji}, emojis...)
	authorID := ctx.Message.AuthorID
	check := func(r command.Reaction) bool {
		return r.UserID == authorID && slices.Contains(valid, r.Emoji)
	}

	timeout := time.Duration(timeoutMinutes * float64(time.Minute))
	reaction, err := f.reactions.Wait(ctx, resultMsgID, check, timeout)
	switch {
	case errors.Is(err, command.ErrTimeoutExceeded):
		logger.Info("Bet timed out")
		return ctx.Reply("Bet timed out!")
	case err != nil:
		logger.WithError(err).Warn("Bet wait aborted")
		return ctx.Reply("Bet '%s' was cancelled.", name)
	case reaction.Emoji == CancelEmoji:
		logger.Info("Bet cancelled")
		return ctx.Reply("Bet '%s' was cancelled.", name)
	}

	if err := ctx.Reply("Bet '%s' finished, distributing rewards...", name); err != nil {
		return err
	}

	winners, losers, err := tally(ctx, optionsMsgID, emojis, reaction.Emoji)
	if err != nil {
		return err
	}

	outcome, err := f.economyService.SettleBet(ctx, ctx.GuildID(), betID, name, winners, losers)
	if err != nil {
		return err
	}

	logger.WithFields(log.Fields{
		"winners":         len(outcome.WinnerIDs),
		"losers":          len(outcome.LoserIDs),
		"rewardPerWinner": outcome.RewardPerWinner,
	}).Info("Bet settled")

	return ctx.Reply(formatOutcome(outcome))
}

// tally collects the non-bot reactors of every option, fetching each emoji
// concurrently. A user counts once per option they reacted to.
func tally(ctx *command.Context, messageID string, emojis []string, winning string) (winners, losers []int64, err error) {
	reactors := make([][]int64, len(emojis))

	var g errgroup.Group
	for i, emoji := range emojis {
		i, emoji := i, emoji
		g.Go(func() error {
			users, err := ctx.Gateway.ReactionUsers(ctx.Message.ChannelID, messageID, emoji)
			if err != nil {
				return err
			}
			for _, u := range users {
				if !u.Bot {
					reactors[i] = append(reactors[i], command.Snowflake(u.ID))
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, fmt.Errorf("failed to tally bet reactions: %w", err)
	}

	for i, emoji := range emojis {
		if emoji == winning {
			winners = append(winners, reactors[i]...)
		} else {
			losers = append(losers, reactors[i]...)
		}
	}
	return winners, losers, nil
}

func formatOutcome(outcome *models.BetOutcome) string {
	if len(outcome.WinnerIDs) == 0 {
		return fmt.Sprintf("Bet '%s' had no winners, no balances were changed.", outcome.Name)
	}
	return fmt.Sprintf("Bet '%s' settled: %d winner(s) received %d each, %d loser(s) paid %d.",
		outcome.Name, len(outcome.WinnerIDs), outcome.RewardPerWinner, len(outcome.LoserIDs), models.BetStake)
}
