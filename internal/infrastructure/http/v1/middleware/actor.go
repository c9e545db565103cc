package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/apperror"
	appctx "github.com/MagetoJ/XYZ-Hotel-sub000/internal/core/context"
)

const (
	HeaderActorID   = "X-Actor-ID"
	HeaderActorName = "X-Actor-Name"
)

// Actor copies the upstream-authenticated actor into the request context.
//
// Authentication happens in front of this service; the gateway forwards the
// resolved staff id in X-Actor-ID. Mutating requests without it are rejected
// so every ledger entry names who caused it.
func Actor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID := c.GetHeader(HeaderActorID)
		if actorID == "" {
			if isMutating(c.Request.Method) {
				_ = c.Error(apperror.NewValidation(HeaderActorID + " header is required").
					WithDetail("header", HeaderActorID))
				c.Abort()
				return
			}
			c.Next()
			return
		}

		ctx := appctx.WithActor(c.Request.Context(), &appctx.ActorContext{
			ActorID: actorID,
			Name:    c.GetHeader(HeaderActorName),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}
