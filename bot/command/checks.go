package command

// AuthorIsAdmin passes when the author has the administrator permission in the guild
func AuthorIsAdmin(ctx *Context) bool {
	return ctx.Gateway.IsAdmin(ctx.Message.GuildID, ctx.Message.ChannelID, ctx.Message.AuthorID)
}

// AuthorIsOwner passes when the author is the configured bot owner
func AuthorIsOwner(ctx *Context) bool {
	return ctx.OwnerID != "" && ctx.Message.AuthorID == ctx.OwnerID
}
