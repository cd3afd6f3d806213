package echoapi

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulineal/backend/core"
	"github.com/edulineal/backend/core/activity"
	"github.com/edulineal/backend/core/progress"
	"github.com/edulineal/backend/core/user"
)

func TestProgressAPI_retrieve(t *testing.T) {
	env := newTestEnv(t)
	usr := env.createUser(t, "María", "González", "maria@test.co", user.RoleStudent, true)

	// first access lazily creates the record
	rec := env.do(http.MethodGet, "/v1/progress", env.getToken(t, usr), nil)
	checkCode(t, rec, http.StatusOK)

	var up progress.UserProgress
	decodeBody(t, rec, &up)
	assert.Equal(t, usr.ID, up.UserID)
	assert.Equal(t, 1, up.CurrentActivity)
	assert.Equal(t, 0, up.TotalProgress)
}

func TestProgressAPI_update(t *testing.T) {
	env := newTestEnv(t)
	usr := env.createUser(t, "María", "González", "maria@test.co", user.RoleStudent, true)
	token := env.getToken(t, usr)

	t.Run("ok", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/v1/progress", token,
			[]byte(`{"activity_id": 1, "progress": 50, "started": true}`))
		checkCode(t, rec, http.StatusOK)

		var up progress.UserProgress
		decodeBody(t, rec, &up)
		assert.Equal(t, 50, up.Activities["1"].Progress)
		assert.True(t, up.Activities["1"].Started)
	})

	t.Run("completion", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/v1/progress", token,
			[]byte(`{"activity_id": 1, "completed": true}`))
		checkCode(t, rec, http.StatusOK)

		var up progress.UserProgress
		decodeBody(t, rec, &up)
		assert.Equal(t, 100, up.Activities["1"].Progress)
		assert.Equal(t, 10, up.TotalProgress)
		assert.Equal(t, 2, up.CurrentActivity)
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/v1/progress", token,
			[]byte(`{"activity_id": 1, "progres": 70}`))
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("activity id out of range", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/v1/progress", token,
			[]byte(`{"activity_id": 99, "progress": 10}`))
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("progress out of range", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/v1/progress", token,
			[]byte(`{"activity_id": 2, "progress": 250}`))
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("missing activity id", func(t *testing.T) {
		rec := env.do(http.MethodPost, "/v1/progress", token, []byte(`{"progress": 10}`))
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("storage failure maps to 503", func(t *testing.T) {
		env.store.SaveErr = core.NewStorageWriteError(assert.AnError)
		defer func() { env.store.SaveErr = nil }()

		rec := env.do(http.MethodPost, "/v1/progress", token,
			[]byte(`{"activity_id": 2, "progress": 10}`))
		checkCode(t, rec, http.StatusServiceUnavailable)
	})
}

func TestProgressAPI_reset(t *testing.T) {
	env := newTestEnv(t)
	usr := env.createUser(t, "María", "González", "maria@test.co", user.RoleStudent, true)
	token := env.getToken(t, usr)

	rec := env.do(http.MethodPost, "/v1/progress", token, []byte(`{"activity_id": 1, "completed": true}`))
	checkCode(t, rec, http.StatusOK)

	rec = env.do(http.MethodPut, "/v1/progress/reset", token, nil)
	checkCode(t, rec, http.StatusOK)

	var up progress.UserProgress
	decodeBody(t, rec, &up)
	assert.Empty(t, up.Activities)
	assert.Equal(t, 1, up.CurrentActivity)
	assert.Equal(t, 0, up.TotalProgress)
}

func TestProgressAPI_activityStatuses(t *testing.T) {
	env := newTestEnv(t)
	usr := env.createUser(t, "María", "González", "maria@test.co", user.RoleStudent, true)
	token := env.getToken(t, usr)

	rec := env.do(http.MethodPost, "/v1/progress", token, []byte(`{"activity_id": 1, "completed": true}`))
	checkCode(t, rec, http.StatusOK)
	rec = env.do(http.MethodPost, "/v1/progress", token, []byte(`{"activity_id": 2, "started": true}`))
	checkCode(t, rec, http.StatusOK)

	rec = env.do(http.MethodGet, "/v1/progress/activities", token, nil)
	checkCode(t, rec, http.StatusOK)

	var statuses []ActivityStatusResponse
	decodeBody(t, rec, &statuses)
	require.Len(t, statuses, activity.Count())

	assert.Equal(t, progress.StatusCompleted, statuses[0].Status)
	assert.Equal(t, progress.StatusInProgress, statuses[1].Status)
	assert.Equal(t, progress.StatusLocked, statuses[2].Status)
	assert.True(t, statuses[1].Unlocked)
	assert.False(t, statuses[2].Unlocked)
}

func TestProgressAPI_students(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "John", "Doe", "john@doe.com", user.RoleTeacher, true)
	student := env.createUser(t, "María", "González", "maria@test.co", user.RoleStudent, true)
	env.createUser(t, "Sin", "Registro", "fresh@test.co", user.RoleStudent, true)

	rec := env.do(http.MethodPost, "/v1/progress", env.getToken(t, student), []byte(`{"activity_id": 1, "completed": true}`))
	checkCode(t, rec, http.StatusOK)

	t.Run("teacher sees all students", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/v1/progress/students", env.getToken(t, teacher), nil)
		checkCode(t, rec, http.StatusOK)

		var out []StudentProgressResponse
		decodeBody(t, rec, &out)
		require.Len(t, out, 2)

		byEmail := map[string]StudentProgressResponse{}
		for _, sp := range out {
			byEmail[sp.Student.Email] = sp
		}
		require.NotNil(t, byEmail["maria@test.co"].Progress)
		assert.Equal(t, 10, byEmail["maria@test.co"].Progress.TotalProgress)
		assert.Nil(t, byEmail["fresh@test.co"].Progress)
	})

	t.Run("students are forbidden", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/v1/progress/students", env.getToken(t, student), nil)
		checkCode(t, rec, http.StatusForbidden)
	})
}

func TestProgressAPI_export(t *testing.T) {
	env := newTestEnv(t)
	teacher := env.createUser(t, "John", "Doe", "john@doe.com", user.RoleTeacher, true)
	student := env.createUser(t, "María", "González", "maria@test.co", user.RoleStudent, true)

	rec := env.do(http.MethodPost, "/v1/progress", env.getToken(t, student), []byte(`{"activity_id": 1, "completed": true}`))
	checkCode(t, rec, http.StatusOK)

	rec = env.do(http.MethodGet, "/v1/progress/export", env.getToken(t, teacher), nil)
	checkCode(t, rec, http.StatusOK)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")

	rows, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"student", "email", "grade", "total_progress", "completed", "current_activity", "last_accessed"}, rows[0])
	assert.Equal(t, "María González", rows[1][0])
	assert.Equal(t, "10", rows[1][3])
	assert.Equal(t, "1", rows[1][4])
	assert.Equal(t, "2", rows[1][5])
}

func TestProgressAPI_child(t *testing.T) {
	env := newTestEnv(t)
	student := env.createUser(t, "María", "González", "maria@test.co", user.RoleStudent, true)

	parent := user.User{
		ID:        "padre@demo.com",
		Email:     "padre@demo.com",
		FirstName: "Carlos",
		LastName:  "González",
		Role:      user.RoleParent,
		StudentID: student.ID,
		IsActive:  true,
	}
	require.NoError(t, parent.SetPassword("S3cureStuff"))
	parent, err := env.usrRepo.CreateUser(parent)
	require.NoError(t, err)

	rec := env.do(http.MethodPost, "/v1/progress", env.getToken(t, student), []byte(`{"activity_id": 1, "completed": true}`))
	checkCode(t, rec, http.StatusOK)

	t.Run("parent sees the linked student", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/v1/progress/child", env.getToken(t, parent), nil)
		checkCode(t, rec, http.StatusOK)

		var out StudentProgressResponse
		decodeBody(t, rec, &out)
		assert.Equal(t, student.ID, out.Student.ID)
		require.NotNil(t, out.Progress)
		assert.Equal(t, 10, out.Progress.TotalProgress)
	})

	t.Run("unlinked parent gets 404", func(t *testing.T) {
		unlinked := env.createUser(t, "Solo", "Padre", "solo@test.co", user.RoleParent, true)
		rec := env.do(http.MethodGet, "/v1/progress/child", env.getToken(t, unlinked), nil)
		checkCode(t, rec, http.StatusNotFound)
	})

	t.Run("students are forbidden", func(t *testing.T) {
		rec := env.do(http.MethodGet, "/v1/progress/child", env.getToken(t, student), nil)
		checkCode(t, rec, http.StatusForbidden)
	})
}
