// internal/app/rpc.go
package app

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"campus-gateway/internal/dispatch"
	"campus-gateway/internal/middleware"
	"campus-gateway/internal/rpc"

	"github.com/gin-gonic/gin"
)

// RPCHandler is the terminal pipeline stage: it parses the envelope,
// dispatches, and encodes the outcome. Every failure leaves as a well-formed
// envelope; the transport response itself succeeds even when it carries an
// RPC failure.
func RPCHandler(d *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			writeError(c, rpc.NullID, rpc.ParseFailed("unable to read request body"))
			return
		}

		call, rpcErr := rpc.ParseRequest(body, c.Param("domain"), c.Param("action"))
		if rpcErr != nil {
			id := rpc.NullID
			if call != nil {
				id = call.ID
			}
			writeError(c, id, rpcErr)
			return
		}

		dcall := &dispatch.Call{
			TraceID:  middleware.GetTraceID(c),
			ClientIP: c.ClientIP(),
			Session:  middleware.GetSession(c),
			Params:   call.Params,
		}

		ctx := c.Request.Context()
		if d.DispatchTimeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d.DispatchTimeout)
			defer cancel()
		}

		result, err := d.Registry.Dispatch(ctx, call.Domain, call.Action, dcall)
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				err = context.DeadlineExceeded
			}
			writeError(c, call.ID, rpc.FromErr(err, d.Production))
			return
		}

		// Only a designated login action returns a result carrying a
		// session cookie.
		if issuer, ok := result.(dispatch.SessionIssuer); ok {
			value, expiresAt := issuer.SessionCookie()
			setSessionCookie(c, value, expiresAt, d.Production)
		}

		c.JSON(http.StatusOK, rpc.EncodeSuccess(call.ID, result))
	}
}

func writeError(c *gin.Context, id []byte, rpcErr *rpc.Error) {
	status := rpc.HTTPStatus(rpcErr)
	if status == http.StatusTooManyRequests {
		if data, ok := rpcErr.Data.(*rpc.ThrottleData); ok {
			retryAfter := (data.ResetMs + 999) / 1000
			c.Header("Retry-After", strconv.FormatInt(retryAfter, 10))
		}
	}
	c.JSON(status, rpc.EncodeError(id, rpcErr))
}

func setSessionCookie(c *gin.Context, value string, expiresAt time.Time, production bool) {
	maxAge := int(time.Until(expiresAt).Seconds())
	if maxAge <= 0 {
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.CookieName, value, maxAge, "/", "", production, true)
}
