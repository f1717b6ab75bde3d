package osu

import (
	"errors"
	"math"
	"strconv"

	"aoba/bot/command"
	"aoba/service"
)

func (f *Feature) handleScorePP(ctx *command.Context) error {
	if len(ctx.Args) < 2 {
		return ctx.UsageError()
	}

	beatmapID, err1 := strconv.ParseInt(ctx.Arg(0), 10, 64)
	userID, err2 := strconv.ParseInt(ctx.Arg(1), 10, 64)
	if err1 != nil || err2 != nil {
		return service.NewUserError(service.ErrInvalidArgument, "The beatmap and user IDs must be numbers!")
	}

	score, err := f.scores.UserBeatmapScore(ctx, beatmapID, userID)
	if errors.Is(err, ErrScoreNotFound) {
		return ctx.Reply("Player has no score on this map!")
	}
	if err != nil {
		return err
	}

	if score.Score.PP == nil {
		return ctx.Reply("Player's score on this map has no pp value!")
	}
	return ctx.Reply("Player has a %dpp score on this map!", int64(math.Round(*score.Score.PP)))
}
