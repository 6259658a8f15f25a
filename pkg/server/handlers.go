package server

import (
	"Ideabox/handler"
)

type Handlers struct {
	Idea   *handler.Idea
	Vote   *handler.Vote
	Feed   *handler.Feed
	Member *handler.Member
}
