package osu

import (
	"context"

	"aoba/bot/command"
)

// Category groups the osu! commands in help output
const Category = "Osu"

// ScoreSource looks up beatmap scores
type ScoreSource interface {
	UserBeatmapScore(ctx context.Context, beatmapID, userID int64) (*BeatmapUserScore, error)
}

// Feature handles osu! API lookups
type Feature struct {
	scores ScoreSource
}

// New creates the osu! feature
func New(scores ScoreSource) *Feature {
	return &Feature{scores: scores}
}

// Commands returns the osu! commands
func (f *Feature) Commands() []*command.Command {
	return []*command.Command{
		{
			Name:     "get_score_pp",
			Usage:    "<beatmap_id> <user_id>",
			Help:     "Show the pp of a player's best score on a beatmap",
			Category: Category,
			Handler:  f.handleScorePP,
		},
	}
}
