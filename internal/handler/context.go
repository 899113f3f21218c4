package handler

import (
	"net/http"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

type ContextKey string

var (
	ActorCtxKey    ContextKey = "actor"
	ApplicationCtx ContextKey = "application"
)

// actorFrom returns the caller set by the auth middleware.
func actorFrom(r *http.Request) domain.Actor {
	actor, _ := r.Context().Value(ActorCtxKey).(domain.Actor)
	return actor
}
