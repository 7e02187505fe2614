package www

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"fabcatalogue/auth"
	"fabcatalogue/blobstore"
	"fabcatalogue/config"
	"fabcatalogue/engine"
	"fabcatalogue/schema"
	"fabcatalogue/store"
)

// Seeded users: ccosades (1) and lvarro (4) are admins; tsadus (2) and
// ajira (3) are not.
const (
	adminUser = "ccosades"
	plainUser = "tsadus"
	otherUser = "ajira"
)

type memRevoker struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (m *memRevoker) Revoke(_ context.Context, jti string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revoked[jti] = true
	return nil
}

func (m *memRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revoked[jti], nil
}

type testEnv struct {
	t       *testing.T
	eng     *engine.Engine
	db      *store.DB
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := config.Defaults()
	cfg.Database.SQLite.Path = filepath.Join(t.TempDir(), "test.db")
	cfg.Storage.Dir = filepath.Join(t.TempDir(), "files")

	db, err := store.Open(&cfg.Database)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Seed(func(plain string) (string, error) {
		hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
		return string(hash), err
	}))

	validator, err := schema.New()
	require.NoError(t, err)
	blobs, err := blobstore.Open(cfg.Storage)
	require.NoError(t, err)

	revoker := &memRevoker{revoked: make(map[string]bool)}
	gate := auth.NewGate(db, auth.NewTokens(cfg.Auth), revoker, auth.NewSessions(cfg.Web.SessionSecret, 3600))
	eng := engine.New(engine.Config{
		AppConfig: cfg,
		DB:        db,
		Validator: validator,
		Gate:      gate,
		Blobs:     blobs,
		LogFunc:   t.Logf,
	})
	eng.Start()
	t.Cleanup(eng.Stop)

	handler, stop := NewRouter(eng)
	t.Cleanup(stop)
	return &testEnv{t: t, eng: eng, db: db, handler: handler}
}

func (e *testEnv) token(username string) string {
	e.t.Helper()
	token, _, err := e.eng.Gate().Tokens().Issue(username)
	require.NoError(e.t, err)
	return token
}

// do sends body (a string, []byte or anything JSON-encodable) as the given user.
// An empty username sends no credentials.
func (e *testEnv) do(method, path, username string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	case []byte:
		reader = bytes.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(e.t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if username != "" {
		req.Header.Set("Authorization", "Bearer "+e.token(username))
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func decodeList(t *testing.T, rec *httptest.ResponseRecorder) []any {
	t.Helper()
	var out []any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func TestCountryCreateRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/countries/", adminUser, map[string]string{"country": "Kenya"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	assert.Equal(t, map[string]any{"id": float64(4), "country": "Kenya"}, created)

	rec = env.do(http.MethodPost, "/countries/", plainUser, map[string]string{"country": "Chile"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgNotAuthorised, decodeBody(t, rec)["error"])

	rec = env.do(http.MethodPost, "/countries/", "", map[string]string{"country": "Chile"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgUnauthenticated, decodeBody(t, rec)["error"])

	for _, user := range []string{"", plainUser, adminUser} {
		rec = env.do(http.MethodGet, "/countries/4", user, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, created, decodeBody(t, rec), "caller %q", user)
	}
}

func TestDuplicateUniqueValueIsIntegrityError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/countries/", adminUser, map[string]string{"country": "Australia"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "integrity_error")

	rec = env.do(http.MethodPost, "/currencies/", adminUser, map[string]string{"currency_abbr": "AUD"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "integrity_error")
}

func TestValidationErrorNamesField(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/countries/", adminUser, map[string]string{"country": "Oz"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	fields, ok := body["fields"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	assert.Contains(t, fields, "country")

	rec = env.do(http.MethodPost, "/locations/", adminUser, map[string]any{"name": "Suran"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	fields = decodeBody(t, rec)["fields"].(map[string]any)
	assert.Contains(t, fields, "country_id")
	assert.Contains(t, fields, "location_type_id")
}

func TestMultibytePasswordOverByteLimit(t *testing.T) {
	env := newTestEnv(t)
	long := strings.Repeat("é", 40)

	rec := env.do(http.MethodPost, "/auth/register", "", map[string]any{
		"username": "sheogorath", "email_address": "sheo@newsheoth.com", "password": long, "location_id": 1,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, decodeBody(t, rec)["fields"], "password")

	rec = env.do(http.MethodPatch, "/users/update_info/", plainUser, map[string]any{"password": long})
	require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	assert.Contains(t, decodeBody(t, rec)["fields"], "password")
}

func TestManufactureCompositeKey(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/manufactures/", adminUser,
		`{"location_id": 3, "project_id": 2, "price_estimate": 500.0, "currency_id": 1}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)
	assert.Equal(t, "3-2", created["id"])

	rec = env.do(http.MethodGet, "/manufactures/loc/3/proj/2", plainUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, created, decodeBody(t, rec))

	rec = env.do(http.MethodDelete, "/manufactures/loc/3/proj/2", adminUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t,
		"The manufacture of project `CAT MD6310 Feed Cyl Transport Frame` at location `Gnisis` has been deleted successfully.",
		decodeBody(t, rec)["message"])

	rec = env.do(http.MethodGet, "/manufactures/loc/3/proj/2", plainUser, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestManufactureUpdateMovesKey(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPatch, "/manufactures/loc/1/proj/2", adminUser, map[string]any{"location_id": 3})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "3-2", body["id"])
	assert.Equal(t, "The following manufacture information has been changed: location_id.", body["message"])

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/manufactures/loc/1/proj/2", plainUser, nil).Code)
	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/manufactures/loc/3/proj/2", plainUser, nil).Code)

	rec = env.do(http.MethodPost, "/manufactures/", adminUser,
		map[string]any{"location_id": 1, "project_id": 1, "price_estimate": 1, "currency_id": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "integrity_error")
}

func TestUpdateInfoIgnoresUsernameAndAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPatch, "/users/update_info/", plainUser,
		map[string]any{"position": "Lead Engineer", "is_admin": true, "username": "boss"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "The following user information has been changed: position.", body["message"])
	assert.Equal(t, plainUser, body["username"])
	assert.Equal(t, false, body["is_admin"])
	assert.NotContains(t, body, "password")

	u, err := env.db.GetUserByUsername(plainUser)
	require.NoError(t, err)
	assert.False(t, u.IsAdmin)
	require.NotNil(t, u.Position)
	assert.Equal(t, "Lead Engineer", *u.Position)

	_, err = env.db.GetUserByUsername("boss")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateInfoPassword(t *testing.T) {
	env := newTestEnv(t)

	// The current password is not a change.
	rec := env.do(http.MethodPut, "/users/update_info/", plainUser, map[string]any{"password": "justice4juib"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No user information has been changed.", decodeBody(t, rec)["message"])

	rec = env.do(http.MethodPut, "/users/update_info/", plainUser, map[string]any{"password": "newpassword1"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "The following user information has been changed: password.", decodeBody(t, rec)["message"])

	rec = env.do(http.MethodPost, "/auth/login", "", map[string]string{"username": plainUser, "password": "newpassword1"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNoOpUpdateLeavesStoreAlone(t *testing.T) {
	env := newTestEnv(t)

	for _, body := range []string{`{"country": "Australia"}`, `{}`, `{"unknown": 1}`} {
		rec := env.do(http.MethodPatch, "/countries/1", adminUser, body)
		require.Equal(t, http.StatusOK, rec.Code, body)
		assert.Equal(t, "No country information has been changed.", decodeBody(t, rec)["message"], body)
	}
	entries, err := env.db.ListEntityAudit("country", "1")
	require.NoError(t, err)
	assert.Empty(t, entries)

	rec := env.do(http.MethodPut, "/countries/1", adminUser, `{"country": "New Zealand"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "The following country information has been changed: country.", body["message"])
	assert.Equal(t, "New Zealand", body["country"])

	entries, err = env.db.ListEntityAudit("country", "1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "updated", entries[0].Action)
	assert.Equal(t, adminUser, entries[0].Actor)
}

func TestUpdateMissingRecord(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPatch, "/countries/99", adminUser, `{"country": "Narnia"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "A country with `id`=99 does not exist in the database. No updates have been made.", decodeBody(t, rec)["error"])

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/countries/abc", "", nil).Code)
}

func TestDeleteThenRead(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodDelete, "/drawings/delete_drawing/1", adminUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "The drawing with id=`1` has been deleted successfully.", decodeBody(t, rec)["message"])

	rec = env.do(http.MethodGet, "/drawings/1", plainUser, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "A drawing with id=`1` does not exist in the database.", decodeBody(t, rec)["error"])

	rec = env.do(http.MethodDelete, "/drawings/delete_drawing/1", adminUser, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "A drawing with `id`=1 does not exist in the database. No deletions have been made.", decodeBody(t, rec)["error"])
}

func TestProjectDeleteCascades(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodDelete, "/projects/delete_project/1", adminUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/projects/1/drawings", plainUser, nil).Code)
	for _, d := range []string{"1", "2", "3"} {
		assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/drawings/"+d, plainUser, nil).Code)
	}
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/manufactures/loc/1/proj/1", plainUser, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/comments/1", plainUser, nil).Code)
}

func TestCurrencyDeleteRejectedWhileReferenced(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodDelete, "/currencies/delete_currency/1", adminUser, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "integrity_error")

	rec = env.do(http.MethodDelete, "/currencies/delete_currency/4", adminUser, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCatalogueViews(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/locations/3/catalogue", plainUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "The location `Gnisis` does not currently offer to manufacture any projects.", body["message"])
	assert.Equal(t, []any{}, body["manufactures"])

	rec = env.do(http.MethodGet, "/locations/1/catalogue", plainUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body = decodeBody(t, rec)
	assert.NotContains(t, body, "message")
	assert.Len(t, body["manufactures"], 5)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/locations/99/catalogue", plainUser, nil).Code)

	rec = env.do(http.MethodGet, "/projects/3/comments", plainUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "There are no comments for the project `RWG Stud Pressing Tool`.", decodeBody(t, rec)["message"])

	rec = env.do(http.MethodGet, "/projects/1/drawings", plainUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["drawings"], 3)

	rec = env.do(http.MethodGet, "/projects/1/suppliers", plainUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["manufactures"], 2)

	rec = env.do(http.MethodGet, "/users/2/comments", plainUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decodeBody(t, rec)["comments"], 2)

	rec = env.do(http.MethodGet, "/users/4/comments", plainUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User `lvarro` has not posted any comments.", decodeBody(t, rec)["message"])

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/projects/99/suppliers", plainUser, nil).Code)
}

func TestCommentOwnerOrAdmin(t *testing.T) {
	env := newTestEnv(t)

	// Comment 1 belongs to tsadus.
	rec := env.do(http.MethodPatch, "/comments/1", otherUser, map[string]string{"comment": "Hijacked."})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgNotAuthorised, decodeBody(t, rec)["error"])

	rec = env.do(http.MethodPatch, "/comments/1", plainUser, map[string]string{"comment": "Does this suit the 789D?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "The following comment information has been changed: comment.", body["message"])
	assert.NotNil(t, body["last_edited"])

	rec = env.do(http.MethodDelete, "/comments/delete_comment/1", otherUser, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodDelete, "/comments/delete_comment/1", adminUser, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Comment 4 belongs to ajira.
	rec = env.do(http.MethodDelete, "/comments/delete_comment/4", otherUser, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCommentCreateUsesCaller(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/comments/", otherUser,
		map[string]any{"comment": "Is there a lighter version?", "project_id": 3, "user_id": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	user := body["user"].(map[string]any)
	assert.Equal(t, otherUser, user["username"])
	assert.Nil(t, body["last_edited"])
	assert.NotEmpty(t, body["when_created"])

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPost, "/comments/", "", map[string]any{"comment": "x", "project_id": 3}).Code)
}

func TestPromoteToAdmin(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPatch, "/auth/promote_to_admin/", plainUser, map[string]string{"username": otherUser})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPatch, "/auth/promote_to_admin/", adminUser, map[string]string{"username": otherUser})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "Authorisation level has been increased for user `ajira`.", body["message"])
	assert.Equal(t, true, body["is_admin"])

	rec = env.do(http.MethodPatch, "/auth/promote_to_admin/", adminUser, map[string]string{"username": otherUser})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User `ajira` already has admin level access.", decodeBody(t, rec)["message"])

	// Takes effect on the very next request.
	rec = env.do(http.MethodPost, "/countries/", otherUser, map[string]string{"country": "Kenya"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(http.MethodPatch, "/auth/promote_to_admin/", adminUser, map[string]string{"username": "nobody"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = env.do(http.MethodPatch, "/auth/promote_to_admin/", adminUser, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "The field `username` is required.", decodeBody(t, rec)["error"])
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/auth/register", "", nil).Code)

	rec := env.do(http.MethodPost, "/auth/register", "", map[string]any{
		"username":      "fjol",
		"email_address": "fjol@fightersguild.com",
		"password":      "outlawsrule",
		"location_id":   2,
		"is_admin":      true,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	assert.Equal(t, "User fjol has been registered successfully.", body["message"])
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	req := httptest.NewRequest(http.MethodGet, "/users/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	env.handler.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, decodeList(t, res), 11)

	u, err := env.db.GetUserByUsername("fjol")
	require.NoError(t, err)
	assert.False(t, u.IsAdmin)

	rec = env.do(http.MethodPost, "/auth/register", "", map[string]any{
		"username": "fjol", "email_address": "other@fightersguild.com", "password": "outlawsrule", "location_id": 2,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeBody(t, rec), "integrity_error")

	rec = env.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "fjol", "password": "wrongpassword"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, msgBadCredentials, decodeBody(t, rec)["error"])

	rec = env.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "nobody", "password": "whatever1"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(http.MethodPost, "/auth/login", "", map[string]string{"username": "fjol", "password": "outlawsrule"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Login successful. Welcome back, fjol.", decodeBody(t, rec)["message"])
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestLogoutRevokesToken(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(plainUser)

	send := func(method, path string) int {
		req := httptest.NewRequest(method, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		return rec.Code
	}
	require.Equal(t, http.StatusOK, send(http.MethodGet, "/users/"))
	require.Equal(t, http.StatusOK, send(http.MethodPost, "/auth/logout"))
	assert.Equal(t, http.StatusUnauthorized, send(http.MethodGet, "/users/"))
}

func TestDeletedUserTokenRejected(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(otherUser)

	rec := env.do(http.MethodDelete, "/users/delete_user/3", adminUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/users/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()
	env.handler.ServeHTTP(res, req)
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestDrawingFileUploadAndDownload(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/drawings/2/file", plainUser, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	upload := func(user string, content string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/drawings/2/file", strings.NewReader(content))
		req.Header.Set("Content-Type", "application/pdf")
		req.Header.Set("Authorization", "Bearer "+env.token(user))
		rec := httptest.NewRecorder()
		env.handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, upload(plainUser, "%PDF-1.4 step asm").Code)

	rec = upload(adminUser, "%PDF-1.4 step asm")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	file := decodeBody(t, rec)["file"].(map[string]any)
	assert.Equal(t, "application/pdf", file["content_type"])
	assert.Equal(t, float64(len("%PDF-1.4 step asm")), file["size_bytes"])
	assert.Equal(t, adminUser, file["uploaded_by"])

	rec = env.do(http.MethodGet, "/drawings/2/file", plainUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, "%PDF-1.4 step asm", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("ETag"))

	rec = upload(adminUser, "%PDF-1.4 step asm rev B")
	require.Equal(t, http.StatusOK, rec.Code)
	rec = env.do(http.MethodGet, "/drawings/2/file", plainUser, nil)
	assert.Equal(t, "%PDF-1.4 step asm rev B", rec.Body.String())

	rec = env.do(http.MethodDelete, "/drawings/delete_drawing/2", adminUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	_, err := env.db.GetDrawingFile(2)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestHomepageHealthAndAudit(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["endpoints"])

	rec = env.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"status": "ok", "database": true, "messaging": false}, decodeBody(t, rec))

	require.Equal(t, http.StatusCreated, env.do(http.MethodPost, "/location-types/", adminUser, map[string]string{"location_type": "Warehouse"}).Code)

	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodGet, "/audit", plainUser, nil).Code)

	rec = env.do(http.MethodGet, "/audit?limit=5", adminUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decodeList(t, rec)
	require.Len(t, entries, 1)
	entry := entries[0].(map[string]any)
	assert.Equal(t, "location_type", entry["entity_type"])
	assert.Equal(t, "created", entry["action"])
	assert.Equal(t, "Warehouse", entry["new_value"])
}

func TestRoundTripThroughCreateAndRead(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/projects/", adminUser, map[string]any{
		"title":                "Final Drive Lifting Jig",
		"published_date":       "2021-03-04",
		"description":          "Suits 793F final drives.",
		"certification_number": "S998877",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeBody(t, rec)

	rec = env.do(http.MethodGet, "/projects/9", plainUser, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	read := decodeBody(t, rec)
	assert.Equal(t, created, read)
	assert.Equal(t, "2021-03-04", read["published_date"])
	assert.Equal(t, "S998877", read["certification_number"])
}
