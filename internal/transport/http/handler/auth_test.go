package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-banking-api/internal/application/auth"
	"github.com/go-banking-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errAWSDown = errors.New("dynamo throttled")

type mockAuthService struct{ mock.Mock }

func (m *mockAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResult, error) {
	args := m.Called(ctx, req)
	if r, _ := args.Get(0).(*auth.LoginResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAuthService) ForgotPassword(ctx context.Context, email string) (*auth.OTPResult, error) {
	args := m.Called(ctx, email)
	if r, _ := args.Get(0).(*auth.OTPResult); r != nil {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAuthService) VerifyOTP(ctx context.Context, email, code string) (string, error) {
	args := m.Called(ctx, email, code)
	return args.String(0), args.Error(1)
}
func (m *mockAuthService) ResetPassword(ctx context.Context, req auth.ResetPasswordRequest) error {
	return m.Called(ctx, req).Error(0)
}

func doJSON(t *testing.T, h http.HandlerFunc, body string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h(rr, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return rr, env
}

func TestLogin_InvalidBody(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})
	rr, env := doJSON(t, h.Login, "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, env.Success)
}

func TestLogin_MissingFields_ValidationEnvelope(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})
	rr, env := doJSON(t, h.Login, `{"username_or_email":"alice"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, env.Success)
	assert.NotNil(t, env.Errors)
}

func TestLogin_InvalidCredentials_Maps401(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, domain.ErrInvalidCredentials)

	h := NewAuthHandler(svc)
	rr, env := doJSON(t, h.Login, `{"username_or_email":"alice","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, env.Success)
	assert.Equal(t, domain.ErrInvalidCredentials.Error(), env.Message)
}

func TestLogin_HappyPath_Envelope(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("Login", mock.Anything, auth.LoginRequest{UsernameOrEmail: "alice", Password: "pw-123456"}).
		Return(&auth.LoginResult{Token: "tok", User: &domain.User{UserID: "u1"}}, nil)

	h := NewAuthHandler(svc)
	rr, env := doJSON(t, h.Login, `{"username_or_email":"alice","password":"pw-123456"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "tok", data["token"])
}

func TestForgotPassword_UnknownEmail_Maps404(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("ForgotPassword", mock.Anything, "x@x.com").Return(nil, domain.ErrNotFound)

	h := NewAuthHandler(svc)
	rr, env := doJSON(t, h.ForgotPassword, `{"email":"x@x.com"}`)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.False(t, env.Success)
}

func TestForgotPassword_DebugCodeInData(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("ForgotPassword", mock.Anything, "a@b.com").Return(&auth.OTPResult{DebugCode: "482913"}, nil)

	h := NewAuthHandler(svc)
	rr, env := doJSON(t, h.ForgotPassword, `{"email":"a@b.com"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "482913", data["otp"])
}

func TestForgotPassword_NoDebugCode_NoData(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("ForgotPassword", mock.Anything, "a@b.com").Return(&auth.OTPResult{}, nil)

	h := NewAuthHandler(svc)
	rr, env := doJSON(t, h.ForgotPassword, `{"email":"a@b.com"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)
	assert.Nil(t, env.Data)
}

func TestVerifyOTP_WrongCode_Maps400(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("VerifyOTP", mock.Anything, "a@b.com", "000000").Return("", domain.ErrInvalidOTP)

	h := NewAuthHandler(svc)
	rr, env := doJSON(t, h.VerifyOTP, `{"email":"a@b.com","code":"000000"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, env.Success)
}

func TestVerifyOTP_HappyPath_ReturnsTempToken(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("VerifyOTP", mock.Anything, "a@b.com", "482913").Return("temp-token", nil)

	h := NewAuthHandler(svc)
	rr, env := doJSON(t, h.VerifyOTP, `{"email":"a@b.com","code":"482913"}`)

	assert.Equal(t, http.StatusOK, rr.Code)
	data, ok := env.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "temp-token", data["temp_token"])
}

func TestResetPassword_InvalidToken_Maps401(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("ResetPassword", mock.Anything, mock.Anything).Return(domain.ErrInvalidToken)

	h := NewAuthHandler(svc)
	rr, env := doJSON(t, h.ResetPassword, `{"temp_token":"tok","new_password":"new-password"}`)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, env.Success)
}

func TestResetPassword_ShortPassword_Rejected(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{})
	rr, env := doJSON(t, h.ResetPassword, `{"temp_token":"tok","new_password":"short"}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.False(t, env.Success)
	assert.NotNil(t, env.Errors)
}

func TestResetPassword_HappyPath(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("ResetPassword", mock.Anything, auth.ResetPasswordRequest{TempToken: "tok", NewPassword: "new-password"}).Return(nil)

	h := NewAuthHandler(svc)
	rr, env := doJSON(t, h.ResetPassword, `{"temp_token":"tok","new_password":"new-password"}`)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, env.Success)
}

func TestUnknownServiceError_OpaqueMapping(t *testing.T) {
	svc := &mockAuthService{}
	svc.On("ForgotPassword", mock.Anything, "a@b.com").Return(nil, errAWSDown)

	h := NewAuthHandler(svc)
	rr, env := doJSON(t, h.ForgotPassword, `{"email":"a@b.com"}`)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "internal server error", env.Message)
}
