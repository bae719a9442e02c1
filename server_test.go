package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"budgetbe/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

var testSecret = []byte("test-secret")

type testEnv struct {
	r          *gin.Engine
	fx         *fixture
	expenses   *fakeExpenses
	currencies *fakeCurrencies
	users      *fakeUsers
	tokens     *fakeTokens
	receipts   *fakeReceipts
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	fx := newFixture()
	env := &testEnv{
		fx:         fx,
		expenses:   newFakeExpenses(fx),
		currencies: &fakeCurrencies{fx: fx},
		users:      newFakeUsers(fx),
		tokens:     newFakeTokens(),
		receipts:   newFakeReceipts(),
	}
	s := &server{
		expenses:   env.expenses,
		currencies: env.currencies,
		users:      env.users,
		tokens:     env.tokens,
		receipts:   env.receipts,
		jwtSecret:  testSecret,
		uploadBase: t.TempDir(),
		log:        zerolog.Nop(),
	}
	env.r = gin.New()
	s.setupRoutes(env.r)
	return env
}

// seedUser adds a user directly to the fixture. familyID may be zero for none.
func (env *testEnv) seedUser(id uint, email, profileName, password string, familyID uint) {
	u := &models.User{ID: id, Email: email}
	if password != "" {
		hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
		u.HashedPassword = hashed
	}
	if profileName != "" {
		u.Profile = &models.Profile{ID: id, UserID: id, Name: profileName}
	}
	if familyID != 0 {
		fid := familyID
		u.FamilyID = &fid
	}
	env.fx.mu.Lock()
	env.fx.users[id] = u
	env.fx.mu.Unlock()
}

// signTestToken mints an access token the way loginHandler does.
func signTestToken(t *testing.T, uid uint, family []uint) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":    uid,
		"family": family,
		"exp":    time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testSecret)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

// helper to perform requests with auth token
func performRequest(r http.Handler, method, path string, body io.Reader, token string, contentType string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}
