package routes_test

import (
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"learning_platform/backend/models"
	"learning_platform/backend/testutil"
	"learning_platform/backend/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	ta := newTestApp(t)
	payload := map[string]string{
		"name": "Ada", "email": "ada@example.com", "password": "secret1", "role": "student",
	}

	resp := ta.do(t, request{method: "POST", path: "/register/", body: payload})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var token map[string]string
	decode(t, resp, &token)
	assert.NotEmpty(t, token["access_token"])
	assert.Equal(t, "bearer", token["token_type"])

	resp = ta.do(t, request{method: "POST", path: "/register/", body: payload})
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = ta.do(t, request{method: "POST", path: "/login/", body: map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	}})
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	var failure utils.ErrorResponse
	decode(t, resp, &failure)
	assert.Equal(t, "Invalid credentials", failure.Message)
}

func TestRegisterValidation(t *testing.T) {
	ta := newTestApp(t)

	resp := ta.do(t, request{method: "POST", path: "/register/", body: map[string]string{
		"name": "Ada", "email": "not-an-email", "password": "123", "role": "admin",
	}})
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	var failure struct {
		Details map[string]string `json:"details"`
	}
	decode(t, resp, &failure)
	assert.Contains(t, failure.Details, "email")
	assert.Contains(t, failure.Details, "password")
	assert.Contains(t, failure.Details, "role")

	req := httptest.NewRequest("POST", "/register/", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	raw, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, raw.StatusCode)
}

func TestTokenEndpointUsesForm(t *testing.T) {
	ta := newTestApp(t)
	user := testutil.CreateUser(t, ta.db, "form@example.com", models.RoleStudent)

	form := url.Values{"username": {user.Email}, "password": {testutil.Password}}
	req := httptest.NewRequest("POST", "/token/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var token map[string]string
	decode(t, resp, &token)
	assert.Equal(t, "bearer", token["token_type"])

	require.NoError(t, ta.db.Model(user).Update("is_active", false).Error)
	req = httptest.NewRequest("POST", "/token/", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	resp, err = ta.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRejectBadTokens(t *testing.T) {
	ta := newTestApp(t)
	user := testutil.CreateUser(t, ta.db, "s@example.com", models.RoleStudent)
	token := ta.login(t, user)

	foreign := testutil.Config()
	foreign.JWTSecret = "someone-else"
	forged, err := utils.GenerateJWTToken(user.ID, user.Role, foreign)
	require.NoError(t, err)

	stale := testutil.Config()
	stale.JWTExpiration = -time.Minute
	expired, err := utils.GenerateJWTToken(user.ID, user.Role, stale)
	require.NoError(t, err)

	for name, tok := range map[string]string{
		"missing": "",
		"garbage": "abc.def.ghi",
		"forged":  forged,
		"expired": expired,
	} {
		t.Run(name, func(t *testing.T) {
			resp := ta.do(t, request{method: "GET", path: "/courses/", token: tok})
			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
			var failure utils.ErrorResponse
			decode(t, resp, &failure)
			assert.Equal(t, "Invalid token", failure.Message)
		})
	}

	resp := ta.do(t, request{method: "GET", path: "/api/user/profile", token: token})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var profile map[string]interface{}
	decode(t, resp, &profile)
	assert.Equal(t, user.Email, profile["email"])
	assert.NotContains(t, profile, "password_hash")
}

func TestRoleGates(t *testing.T) {
	ta := newTestApp(t)
	student := ta.login(t, testutil.CreateUser(t, ta.db, "s@example.com", models.RoleStudent))
	owner := testutil.CreateUser(t, ta.db, "t@example.com", models.RoleInstructor)
	instructor := ta.login(t, owner)
	course := testutil.CreateCourse(t, ta.db, owner, "Go", models.CourseStatusPublished, false)

	resp := ta.do(t, request{method: "POST", path: "/courses/create/", token: student, body: map[string]interface{}{"title": "x"}})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = ta.do(t, request{method: "POST", path: "/enroll/", token: instructor, body: map[string]interface{}{"course_id": course.ID}})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = ta.do(t, request{method: "GET", path: "/analytics/overview/", token: student})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = ta.do(t, request{method: "GET", path: "/analytics/overview/", token: instructor})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestCourseLifecycle(t *testing.T) {
	ta := newTestApp(t)
	owner := testutil.CreateUser(t, ta.db, "t@example.com", models.RoleInstructor)
	instructor := ta.login(t, owner)
	student := ta.login(t, testutil.CreateUser(t, ta.db, "s@example.com", models.RoleStudent))

	resp := ta.do(t, request{method: "POST", path: "/courses/create/", token: instructor, body: map[string]interface{}{
		"title": "Concurrency", "description": "goroutines", "status": "published",
	}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var created struct {
		Status   string `json:"status"`
		CourseID uint   `json:"course_id"`
	}
	decode(t, resp, &created)
	assert.Equal(t, "ok", created.Status)
	coursePath := "/courses/" + strconv.Itoa(int(created.CourseID))

	resp = ta.do(t, request{method: "POST", path: coursePath + "/lessons/", token: instructor, body: map[string]interface{}{
		"title": "Channels",
	}})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp = ta.do(t, request{method: "GET", path: coursePath, token: student})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var detail struct {
		InstructorName string `json:"instructor_name"`
		Lessons        []struct {
			Title string `json:"title"`
			Order int    `json:"order"`
		} `json:"lessons"`
	}
	decode(t, resp, &detail)
	assert.Equal(t, owner.Name, detail.InstructorName)
	require.Len(t, detail.Lessons, 1)
	assert.Equal(t, 1, detail.Lessons[0].Order)

	enroll := func() map[string]interface{} {
		resp := ta.do(t, request{method: "POST", path: "/enroll/", token: student, body: map[string]interface{}{"course_id": created.CourseID}})
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		var out map[string]interface{}
		decode(t, resp, &out)
		return out
	}
	first := enroll()
	assert.Equal(t, true, first["enrolled"])
	assert.Equal(t, true, first["created"])
	assert.Equal(t, false, enroll()["created"])
	assert.Len(t, ta.mail.Messages(), 2)

	resp = ta.do(t, request{method: "POST", path: "/progress/update/", token: student, body: map[string]interface{}{
		"course_id": created.CourseID, "completed_lessons": 1, "progress_percent": 100,
	}})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = ta.do(t, request{method: "GET", path: "/progress/view/", token: instructor})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var rows []map[string]interface{}
	decode(t, resp, &rows)
	require.Len(t, rows, 1)
	assert.Equal(t, "Concurrency", rows[0]["course_title"])
	assert.EqualValues(t, 100, rows[0]["progress_percent"])

	resp = ta.do(t, request{method: "GET", path: "/my-courses/", token: student})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var mine []map[string]interface{}
	decode(t, resp, &mine)
	assert.Len(t, mine, 1)
}

func TestProgressUpdateWithoutEnrollment(t *testing.T) {
	ta := newTestApp(t)
	student := ta.login(t, testutil.CreateUser(t, ta.db, "s@example.com", models.RoleStudent))

	resp := ta.do(t, request{method: "POST", path: "/progress/update/", token: student, body: map[string]interface{}{
		"course_id": 77, "completed_lessons": 1, "progress_percent": 10,
	}})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	var failure utils.ErrorResponse
	decode(t, resp, &failure)
	assert.Equal(t, "Enrollment not found", failure.Message)

	resp = ta.do(t, request{method: "POST", path: "/progress/update/", token: student, body: map[string]interface{}{
		"course_id": 77, "completed_lessons": 1, "progress_percent": 150,
	}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestPremiumCourseGate(t *testing.T) {
	ta := newTestApp(t)
	owner := testutil.CreateUser(t, ta.db, "t@example.com", models.RoleInstructor)
	user := testutil.CreateUser(t, ta.db, "s@example.com", models.RoleStudent)
	student := ta.login(t, user)
	course := testutil.CreateCourse(t, ta.db, owner, "Premium", models.CourseStatusPublished, true)
	path := "/courses/" + strconv.Itoa(int(course.ID))

	resp := ta.do(t, request{method: "GET", path: path, token: student})
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = ta.do(t, request{method: "GET", path: "/courses/", token: student})
	var listed []map[string]interface{}
	decode(t, resp, &listed)
	assert.Empty(t, listed)

	plan := testutil.CreatePlan(t, ta.db, "Monthly", 9.99, 30)
	resp = ta.do(t, request{method: "POST", path: "/subscribe/", token: student, body: map[string]interface{}{"plan_id": plan.ID}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = ta.do(t, request{method: "GET", path: path, token: student})
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = ta.do(t, request{method: "GET", path: "/payments/", token: student})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var payments []struct {
		PlanName    string    `json:"plan_name"`
		Amount      float64   `json:"amount"`
		PaymentDate time.Time `json:"payment_date"`
	}
	decode(t, resp, &payments)
	require.Len(t, payments, 1)
	assert.Equal(t, "Monthly", payments[0].PlanName)
	assert.Equal(t, 9.99, payments[0].Amount)

	resp = ta.do(t, request{method: "POST", path: "/subscribe/", token: student, body: map[string]interface{}{"plan_id": 999}})
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestNotificationsMarkRead(t *testing.T) {
	ta := newTestApp(t)
	user := testutil.CreateUser(t, ta.db, "s@example.com", models.RoleStudent)
	student := ta.login(t, user)
	require.NoError(t, ta.db.Create(&models.Notification{UserID: user.ID, Message: "hi"}).Error)

	resp := ta.do(t, request{method: "POST", path: "/notifications/mark-read/", token: student, body: map[string]interface{}{}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = ta.do(t, request{method: "POST", path: "/notifications/mark-read/", token: student, body: map[string]interface{}{"mark_all": true}})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var out map[string]interface{}
	decode(t, resp, &out)
	assert.EqualValues(t, 1, out["updated"])

	resp = ta.do(t, request{method: "GET", path: "/notifications/", token: student})
	var notes []models.Notification
	decode(t, resp, &notes)
	require.Len(t, notes, 1)
	assert.True(t, notes[0].IsRead)

	resp = ta.do(t, request{method: "POST", path: "/activity/", token: student, body: map[string]string{"action_type": "watch", "details": "lesson 1"}})
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
}
