package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"inkwell/app/config"
	"inkwell/app/models"
	"inkwell/app/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

func setupTestRouter(t *testing.T) (*mux.Router, *config.Config, *badger.DB) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Addr:      ":0",
		UploadDir: t.TempDir(),
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
	return SetupRoutes(cfg, db), cfg, db
}

// seedAdmin writes an admin account straight into the store; there is no
// registration path that grants the role.
func seedAdmin(t *testing.T, db *badger.DB, email, password string) {
	userRepo := repositories.NewBadgerUserRepository(db)
	admin := &models.User{
		Name:  "Admin",
		Email: email,
		Role:  models.RoleAdmin,
	}
	require.NoError(t, admin.SetPassword(password))
	require.NoError(t, userRepo.Create(admin))
}

type envelope struct {
	Success    bool            `json:"success"`
	Error      string          `json:"error"`
	Token      string          `json:"token"`
	User       json.RawMessage `json:"user"`
	Data       json.RawMessage `json:"data"`
	Pagination json.RawMessage `json:"pagination"`
}

func doJSON(t *testing.T, router *mux.Router, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func registerUser(t *testing.T, router *mux.Router, name, email, password string) string {
	w, env := doJSON(t, router, "POST", "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotEmpty(t, env.Token)
	return env.Token
}

func loginUser(t *testing.T, router *mux.Router, email, password string) string {
	w, env := doJSON(t, router, "POST", "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NotEmpty(t, env.Token)
	return env.Token
}

// multipartBody builds a multipart form with the given fields and an
// optional file part named "image".
func multipartBody(t *testing.T, fields map[string]string, filename string, content []byte) (*bytes.Buffer, string) {
	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("image", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return buf, writer.FormDataContentType()
}
