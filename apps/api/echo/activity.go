package echoapi

import (
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edulineal/backend/core/activity"
	"github.com/edulineal/backend/core/progress"
)

type activityApi struct {
	deps ServerDeps
}

func registerActivityAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := activityApi{deps: deps}

	ag := g.Group("/activities", jwt)
	ag.GET("", api.query)
	ag.GET("/evaluation/questions", api.evaluationQuestions)
	ag.GET("/:id", api.retrieve)
}

// Handlers

// query lists the whole catalog annotated with the caller's status per activity.
func (api *activityApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	up, err := api.deps.ProgressSvc.GetOrInit(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting progress")
	}

	acts := activity.All()
	out := make([]ActivityResponse, 0, len(acts))
	for _, act := range acts {
		out = append(out, ActivityResponse{
			Activity: act,
			Status:   progress.StatusOf(up, act.ID),
			Unlocked: progress.IsUnlocked(up, act.ID),
		})
	}
	return ctx.JSON(http.StatusOK, out)
}

// retrieve returns one activity. Students cannot open a locked activity;
// teachers and parents may inspect any of them.
func (api *activityApi) retrieve(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	act, err := activity.Get(id)
	if err != nil {
		return errHttpNotFound
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	if claims.IsStudent {
		up, err := api.deps.ProgressSvc.GetOrInit(ctx.Request().Context(), claims.Subject)
		if err != nil {
			return errors.Wrap(err, "getting progress")
		}
		if !progress.IsUnlocked(up, act.ID) {
			return errHttpForbidden
		}
		return ctx.JSON(http.StatusOK, ActivityResponse{
			Activity: act,
			Status:   progress.StatusOf(up, act.ID),
			Unlocked: true,
		})
	}
	return ctx.JSON(http.StatusOK, ActivityResponse{Activity: act, Status: progress.StatusAvailable, Unlocked: true})
}

// evaluationQuestions draws a fresh 15-question sample per request.
func (api *activityApi) evaluationQuestions(ctx echo.Context) error {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return ctx.JSON(http.StatusOK, EvaluationQuestionsResponse{
		Questions:   activity.SampleEvaluation(rng),
		PassScore:   activity.EvaluationPassScore,
		MaxAttempts: activity.EvaluationMaxAttempts,
	})
}

type (
	ActivityResponse struct {
		activity.Activity
		Status   string `json:"status"`
		Unlocked bool   `json:"unlocked"`
	}

	EvaluationQuestionsResponse struct {
		Questions   []activity.Question `json:"questions"`
		PassScore   int                 `json:"pass_score"`
		MaxAttempts int                 `json:"max_attempts"`
	}
)
