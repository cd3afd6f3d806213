package echoapi

import (
	"encoding/csv"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/edulineal/backend/core"
	"github.com/edulineal/backend/core/activity"
	"github.com/edulineal/backend/core/progress"
	"github.com/edulineal/backend/core/user"
)

type progressApi struct {
	deps ServerDeps
}

func registerProgressAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := progressApi{deps: deps}

	pg := g.Group("/progress", jwt)
	pg.GET("", api.retrieve)
	pg.POST("", api.update)
	pg.PUT("/reset", api.reset)
	pg.GET("/activities", api.activityStatuses)

	pg.GET("/students", api.students, teacherMiddleware())
	pg.GET("/export", api.export, teacherMiddleware())
	pg.GET("/child", api.child, parentMiddleware())
}

// Handlers

func (api *progressApi) retrieve(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	up, err := api.deps.ProgressSvc.GetOrInit(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting progress")
	}
	return ctx.JSON(http.StatusOK, up)
}

func (api *progressApi) update(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	var data UpdateProgressRequest
	if err := bindStrict(ctx, &data); err != nil {
		return err
	}
	if err := api.deps.Validate.Struct(&data); err != nil {
		return err
	}

	up, err := api.deps.ProgressSvc.Update(ctx.Request().Context(), claims.Subject, data.ActivityID, data.Delta)
	if err != nil {
		return errors.Wrap(err, "updating progress")
	}
	return ctx.JSON(http.StatusOK, up)
}

func (api *progressApi) reset(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	up, err := api.deps.ProgressSvc.Reset(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "resetting progress")
	}
	return ctx.JSON(http.StatusOK, up)
}

// activityStatuses lists every activity with its derived status for the
// caller; this is what the activity map on the dashboard renders.
func (api *progressApi) activityStatuses(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	up, err := api.deps.ProgressSvc.GetOrInit(ctx.Request().Context(), claims.Subject)
	if err != nil {
		return errors.Wrap(err, "getting progress")
	}

	acts := activity.All()
	statuses := make([]ActivityStatusResponse, 0, len(acts))
	for _, act := range acts {
		statuses = append(statuses, ActivityStatusResponse{
			ID:       act.ID,
			Title:    act.Title,
			Type:     act.Type,
			Status:   progress.StatusOf(up, act.ID),
			Unlocked: progress.IsUnlocked(up, act.ID),
		})
	}
	return ctx.JSON(http.StatusOK, statuses)
}

func (api *progressApi) students(ctx echo.Context) error {
	students, records, err := api.studentRecords(ctx)
	if err != nil {
		return err
	}

	out := make([]StudentProgressResponse, 0, len(students))
	for _, st := range students {
		resp := StudentProgressResponse{Student: st}
		if up, ok := records[st.ID]; ok {
			resp.Progress = &up
		}
		out = append(out, resp)
	}
	return ctx.JSON(http.StatusOK, out)
}

// export renders the teacher dashboard data as CSV, one row per student.
func (api *progressApi) export(ctx echo.Context) error {
	students, records, err := api.studentRecords(ctx)
	if err != nil {
		return err
	}

	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="progress.csv"`)
	res.WriteHeader(http.StatusOK)

	w := csv.NewWriter(res)
	if err := w.Write([]string{"student", "email", "grade", "total_progress", "completed", "current_activity", "last_accessed"}); err != nil {
		return errors.Wrap(err, "writing CSV header")
	}
	for _, st := range students {
		row := []string{st.FullName(), st.Email, st.Grade, "0", "0", "1", ""}
		if up, ok := records[st.ID]; ok {
			var completed int
			for _, ap := range up.Activities {
				if ap.Completed {
					completed++
				}
			}
			row[3] = strconv.Itoa(up.TotalProgress)
			row[4] = strconv.Itoa(completed)
			row[5] = strconv.Itoa(up.CurrentActivity)
			row[6] = up.LastAccessed.Format("2006-01-02 15:04:05")
		}
		if err := w.Write(row); err != nil {
			return errors.Wrap(err, "writing CSV row")
		}
	}
	w.Flush()
	return errors.Wrap(w.Error(), "flushing CSV")
}

// child returns the progress of the student linked to the calling parent.
func (api *progressApi) child(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.deps.UserSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	if ctxUsr.StudentID == "" {
		return errHttpNotFound
	}

	child, err := api.deps.UserSvc.GetByID(ctxUsr.StudentID)
	if err != nil {
		if errors.Cause(err) == user.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding linked student")
	}

	up, err := api.deps.ProgressSvc.GetOrInit(ctx.Request().Context(), child.ID)
	if err != nil {
		return errors.Wrap(err, "getting child progress")
	}
	return ctx.JSON(http.StatusOK, StudentProgressResponse{Student: child, Progress: &up})
}

func (api *progressApi) studentRecords(ctx echo.Context) ([]user.User, map[string]progress.UserProgress, error) {
	students, err := api.deps.UserSvc.Students()
	if err != nil {
		return nil, nil, errors.Wrap(err, "querying students")
	}
	records, err := api.deps.ProgressSvc.All(ctx.Request().Context())
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading progress records")
	}
	return students, records, nil
}

type (
	UpdateProgressRequest struct {
		ActivityID int `json:"activity_id" validate:"required"`
		progress.Delta
	}

	ActivityStatusResponse struct {
		ID       int    `json:"id"`
		Title    string `json:"title"`
		Type     string `json:"type"`
		Status   string `json:"status"`
		Unlocked bool   `json:"unlocked"`
	}

	StudentProgressResponse struct {
		Student  user.User              `json:"student"`
		Progress *progress.UserProgress `json:"progress,omitempty"`
	}
)

// bindStrict decodes the JSON body rejecting unknown fields, so client typos
// fail loudly instead of silently dropping a progress field.
func bindStrict(ctx echo.Context, v interface{}) error {
	dec := json.NewDecoder(ctx.Request().Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return core.NewValidationError(errors.Wrap(err, "invalid request body"))
	}
	return nil
}
