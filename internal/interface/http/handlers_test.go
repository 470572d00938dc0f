package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/campus-connect/internal/application"
	"github.com/oksasatya/campus-connect/internal/domain/entity"
	"github.com/oksasatya/campus-connect/internal/interface/middleware"
	"github.com/oksasatya/campus-connect/pkg/helpers"
	"github.com/oksasatya/campus-connect/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validation.Init()
	os.Exit(m.Run())
}

const testCollegeID = "6f1c1f9e-5a53-4a43-9a55-0f1b3b0f6a10"

type stubAccounts struct {
	signupIn application.SignupInput
	prefsIn  application.PreferencesInput
	gotID    string
	account  *entity.Account
	err      error
}

func (s *stubAccounts) result() *application.AuthResult {
	return &application.AuthResult{
		Token:     "tok",
		ExpiresAt: time.Unix(1700000000, 0).UTC(),
		User:      application.NewPublicAccount(s.account),
	}
}

func (s *stubAccounts) Signup(_ context.Context, in application.SignupInput) (*application.AuthResult, error) {
	s.signupIn = in
	if s.err != nil {
		return nil, s.err
	}
	return s.result(), nil
}

func (s *stubAccounts) Login(_ context.Context, _, _ string) (*application.AuthResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result(), nil
}

func (s *stubAccounts) Me(_ context.Context, id string) (*entity.Account, error) {
	s.gotID = id
	return s.account, s.err
}

func (s *stubAccounts) UpdateProfileSetup(_ context.Context, id string, _ application.ProfileSetupInput) (*entity.Account, error) {
	s.gotID = id
	return s.account, s.err
}

func (s *stubAccounts) UpdatePreferences(_ context.Context, id string, in application.PreferencesInput) (*entity.Account, error) {
	s.gotID = id
	s.prefsIn = in
	return s.account, s.err
}

type stubUploader struct {
	files  []application.UploadFile
	bodies []string
	calls  int
	err    error
}

func (s *stubUploader) UploadPhotos(_ context.Context, files []application.UploadFile) ([]string, error) {
	s.calls++
	s.files = files
	urls := make([]string, 0, len(files))
	for _, f := range files {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		b, _ := io.ReadAll(rc)
		_ = rc.Close()
		s.bodies = append(s.bodies, string(b))
		urls = append(urls, "https://photos.example/"+f.Filename)
	}
	if s.err != nil {
		return nil, s.err
	}
	return urls, nil
}

type stubColleges struct {
	list []application.CollegeOption
	err  error
}

func (s stubColleges) ListApproved(context.Context) ([]application.CollegeOption, error) {
	return s.list, s.err
}

type envelope struct {
	Status  int             `json:"status"`
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   json.RawMessage `json:"error"`
}

type testServer struct {
	engine   *gin.Engine
	jwt      *helpers.JWTManager
	accounts *stubAccounts
	uploader *stubUploader
}

func newTestServer() *testServer {
	accounts := &stubAccounts{account: &entity.Account{
		ID:          "acc-1",
		Name:        "Alice",
		Username:    "alice",
		Email:       "alice@state.edu",
		CollegeID:   testCollegeID,
		College:     &entity.College{ID: testCollegeID, Name: "State University"},
		Bio:         "hi",
		Interests:   []string{"chess"},
		Photos:      []string{"https://photos.example/a.jpg"},
		IsOnboarded: true,
	}}
	uploader := &stubUploader{}
	jwt := helpers.NewJWTManager("test-secret", time.Hour)
	logger := helpers.NewNopLogger()

	authH := NewAuthHandler(accounts, logger)
	uploadH := NewUploadHandler(uploader, logger, 6, 1024)
	collegeH := NewCollegeHandler(stubColleges{list: []application.CollegeOption{
		{ID: testCollegeID, Name: "State University", EmailDomain: "state.edu"},
	}}, logger)

	r := gin.New()
	api := r.Group("/api")
	api.POST("/auth/signup", authH.Signup)
	api.POST("/auth/login", authH.Login)
	api.GET("/colleges", collegeH.List)
	protected := api.Group("/", middleware.Auth(jwt))
	protected.GET("/auth/me", authH.Me)
	protected.PATCH("/auth/profile-setup", authH.ProfileSetup)
	protected.PATCH("/auth/preferences", authH.Preferences)
	protected.POST("/upload/photos", uploadH.Photos)

	return &testServer{engine: r, jwt: jwt, accounts: accounts, uploader: uploader}
}

func (s *testServer) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w, env
}

func (s *testServer) bearer(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	tok, _, err := s.jwt.GenerateToken("acc-1")
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+tok)
	return req
}

func jsonRequest(method, path string, body any) *http.Request {
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSignup(t *testing.T) {
	s := newTestServer()
	w, env := s.do(t, jsonRequest(http.MethodPost, "/api/auth/signup", map[string]string{
		"name":      "Alice",
		"username":  "Alice",
		"email":     "alice@state.edu",
		"password":  "pw123456",
		"collegeId": testCollegeID,
	}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
	assert.Equal(t, testCollegeID, s.accounts.signupIn.CollegeID)
	assert.Equal(t, "Alice", s.accounts.signupIn.Username)

	var data map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "tok", data["token"])
	user := data["user"].(map[string]any)
	assert.Equal(t, "alice", user["username"])
	assert.NotContains(t, user, "passwordHash")
}

func TestSignup_PasswordOverBcryptLimit(t *testing.T) {
	s := newTestServer()
	w, env := s.do(t, jsonRequest(http.MethodPost, "/api/auth/signup", map[string]string{
		"name":      "Alice",
		"username":  "alice",
		"email":     "alice@state.edu",
		"password":  strings.Repeat("a", 73),
		"collegeId": testCollegeID,
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "password must be at most 72 characters long", env.Message)
	assert.Empty(t, s.accounts.signupIn.Password)
}

func TestSignup_PasswordTooLongFromService(t *testing.T) {
	s := newTestServer()
	s.accounts.err = application.ValidationError(application.MsgPasswordTooLong)
	w, env := s.do(t, jsonRequest(http.MethodPost, "/api/auth/signup", map[string]string{
		"name":      "Alice",
		"username":  "alice",
		"email":     "alice@state.edu",
		"password":  strings.Repeat("é", 37),
		"collegeId": testCollegeID,
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, application.MsgPasswordTooLong, env.Message)
}

func TestSignup_BindingErrorUsesJSONName(t *testing.T) {
	s := newTestServer()
	w, env := s.do(t, jsonRequest(http.MethodPost, "/api/auth/signup", map[string]string{
		"name":     "Alice",
		"username": "alice",
		"email":    "alice@state.edu",
		"password": "pw123456",
	}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "collegeId is required", env.Message)
}

func TestErrorKindsMapToStatus(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"validation", application.ValidationError("Email domain does not match college"), http.StatusBadRequest, "Email domain does not match college"},
		{"conflict", application.ConflictError("Username already taken"), http.StatusBadRequest, "Username already taken"},
		{"authentication", application.AuthenticationError(application.MsgInvalidCredentials), http.StatusUnauthorized, "Invalid credentials"},
		{"dependency", application.DependencyError(application.MsgInternal, errors.New("pq: password authentication failed for user app")), http.StatusInternalServerError, "Something went wrong"},
		{"untyped", errors.New("boom"), http.StatusInternalServerError, "Something went wrong"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer()
			s.accounts.err = tc.err

			w, env := s.do(t, jsonRequest(http.MethodPost, "/api/auth/login", map[string]string{
				"email": "alice@state.edu", "password": "pw",
			}))
			assert.Equal(t, tc.status, w.Code)
			assert.False(t, env.Success)
			assert.Equal(t, tc.msg, env.Message)
			assert.NotContains(t, w.Body.String(), "pq:")
		})
	}
}

func TestProtectedRoutesRequireBearer(t *testing.T) {
	s := newTestServer()

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/auth/me", nil),
		jsonRequest(http.MethodPatch, "/api/auth/preferences", map[string]any{}),
		httptest.NewRequest(http.MethodPost, "/api/upload/photos", nil),
	} {
		w, env := s.do(t, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, req.URL.Path)
		assert.Equal(t, "Unauthorized", env.Message)
	}

	bad := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	bad.Header.Set("Authorization", "Bearer not.a.token")
	w, env := s.do(t, bad)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid token", env.Message)
}

func TestMe(t *testing.T) {
	s := newTestServer()
	w, env := s.do(t, s.bearer(t, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acc-1", s.accounts.gotID)

	var data struct {
		User    application.PublicAccount `json:"user"`
		Profile application.Profile       `json:"profile"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.User.IsOnboarded)
	assert.Equal(t, []string{"chess"}, data.Profile.Interests)
}

func TestPreferences_PassesCamelCaseFields(t *testing.T) {
	s := newTestServer()
	req := s.bearer(t, jsonRequest(http.MethodPatch, "/api/auth/preferences", map[string]any{
		"preferredAgeMin":   20,
		"preferredAgeMax":   30,
		"preferredDistance": 15,
		"preferredGender":   "female",
	}))
	w, _ := s.do(t, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, application.PreferencesInput{AgeMin: 20, AgeMax: 30, Distance: 15, Gender: "female"}, s.accounts.prefsIn)
}

func TestPreferences_WrongTypeIsBadRequest(t *testing.T) {
	s := newTestServer()
	req := s.bearer(t, jsonRequest(http.MethodPatch, "/api/auth/preferences", map[string]any{
		"preferredAgeMin": "twenty",
	}))
	w, env := s.do(t, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid request body", env.Message)
}

type part struct {
	field, filename, contentType, body string
}

func multipartRequest(t *testing.T, parts ...part) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, p := range parts {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, p.field, p.filename))
		h.Set("Content-Type", p.contentType)
		w, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = w.Write([]byte(p.body))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/upload/photos", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadPhotos(t *testing.T) {
	s := newTestServer()
	req := s.bearer(t, multipartRequest(t,
		part{"photos", "a.jpg", "image/jpeg", "AAA"},
		part{"photos", "b.png", "image/png", "BB"},
		part{"other", "c.png", "image/png", "ignored"},
	))
	w, env := s.do(t, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Files uploaded successfully", env.Message)

	var data struct {
		URLs []string `json:"urls"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, []string{"https://photos.example/a.jpg", "https://photos.example/b.png"}, data.URLs)

	require.Len(t, s.uploader.files, 2)
	assert.Equal(t, "image/jpeg", s.uploader.files[0].ContentType)
	assert.Equal(t, int64(3), s.uploader.files[0].Size)
	assert.Equal(t, []string{"AAA", "BB"}, s.uploader.bodies)
}

func TestUploadPhotos_TooManyPartsRejectedAtIngress(t *testing.T) {
	s := newTestServer()
	parts := make([]part, 7)
	for i := range parts {
		parts[i] = part{"photos", fmt.Sprintf("%d.jpg", i), "image/jpeg", "x"}
	}
	w, env := s.do(t, s.bearer(t, multipartRequest(t, parts...)))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You can only upload up to 6 photos", env.Message)
	assert.Zero(t, s.uploader.calls)
}

func TestUploadPhotos_BodyOverCap(t *testing.T) {
	uploader := &stubUploader{}
	h := NewUploadHandler(uploader, helpers.NewNopLogger(), 6, 1<<20)
	r := gin.New()
	r.POST("/api/upload/photos", h.Photos)

	// cap is (6+1)*1MiB + 1MiB
	big := strings.Repeat("x", 9<<20)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, multipartRequest(t, part{"photos", "a.jpg", "image/jpeg", big}))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "File size too large. Maximum size is 1MB per file", env.Message)
	assert.Zero(t, uploader.calls)
}

func TestUploadPhotos_NotMultipart(t *testing.T) {
	s := newTestServer()
	w, env := s.do(t, s.bearer(t, jsonRequest(http.MethodPost, "/api/upload/photos", map[string]string{})))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No files uploaded", env.Message)
	assert.Zero(t, s.uploader.calls)
}

func TestUploadPhotos_ServiceFailure(t *testing.T) {
	s := newTestServer()
	s.uploader.err = application.DependencyError("Failed to upload files", errors.New("AccessDenied: bucket policy"))
	w, env := s.do(t, s.bearer(t, multipartRequest(t, part{"photos", "a.jpg", "image/jpeg", "A"})))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to upload files", env.Message)
	assert.NotContains(t, w.Body.String(), "AccessDenied")
}

func TestListColleges(t *testing.T) {
	s := newTestServer()
	w, env := s.do(t, httptest.NewRequest(http.MethodGet, "/api/colleges", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Colleges []application.CollegeOption `json:"colleges"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Colleges, 1)
	assert.Equal(t, "state.edu", data.Colleges[0].EmailDomain)
}
