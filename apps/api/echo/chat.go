package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edulineal/backend/core"
	"github.com/edulineal/backend/core/chat"
)

type chatApi struct {
	deps ServerDeps
}

func registerChatAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := chatApi{deps: deps}

	cg := g.Group("/chat", jwt)
	cg.POST("", api.stream)
}

// stream relays the tutor conversation to the AI backend and streams the
// reply back as plain text chunks. Headers are set up front but the status
// is only committed by the first delta write, so failures before any output
// still surface as JSON errors.
func (api *chatApi) stream(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data ChatRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}
	if err := data.Validate(api.deps.Validate); err != nil {
		return err
	}

	msgs := chat.BuildMessages(data.Context, data.History, data.Message)

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/plain; charset=utf-8")
	res.Header().Set("X-Accel-Buffering", "no")

	var writeErr error
	_, err = api.deps.AIClient.StreamChat(ctx.Request().Context(), msgs, func(delta string) {
		if writeErr != nil {
			return
		}
		if _, werr := res.Write([]byte(delta)); werr != nil {
			writeErr = werr
			return
		}
		res.Flush()
	})
	if err == nil {
		err = writeErr
	}
	if err != nil {
		if res.Committed {
			// mid-stream failure: the connection already carries partial
			// output, all we can do is cut it and log
			api.deps.Logger.Error("tutor stream interrupted", errors.Wrap(err, "streaming chat"), claims.Subject)
			return nil
		}
		api.deps.Logger.Error("tutor stream failed", errors.Wrap(err, "streaming chat"), claims.Subject)
		return echo.NewHTTPError(http.StatusBadGateway, "tutor unavailable")
	}
	return nil
}

type ChatRequest struct {
	Message string         `json:"message" validate:"required"`
	Context string         `json:"context"`
	History []chat.Message `json:"history"`
}

func (cr *ChatRequest) Validate(validate *validator.Validate) error {
	cr.Message = core.CleanString(cr.Message)
	return validate.Struct(cr)
}
