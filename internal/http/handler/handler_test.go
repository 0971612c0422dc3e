package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"dataroom/internal/auth"
	"dataroom/internal/http/middleware"
	"dataroom/internal/model"
	"dataroom/internal/service"
	serviceMocks "dataroom/internal/service/mocks"
)

type testHarness struct {
	app     *fiber.App
	rooms   *serviceMocks.MockDataRoomService
	folders *serviceMocks.MockFolderService
	files   *serviceMocks.MockFileService
	dbMock  sqlmock.Sqlmock
}

// fakeAuth injects a fixed user the way the real auth middleware would.
func fakeAuth(user *model.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Locals(middleware.UserLocalKey, user)
		return c.Next()
	}
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	h := &testHarness{
		rooms:   new(serviceMocks.MockDataRoomService),
		folders: new(serviceMocks.MockFolderService),
		files:   new(serviceMocks.MockFileService),
		dbMock:  dbMock,
	}
	h.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	h.app.Use(middleware.RequestID())
	RegisterRoutes(h.app, db,
		fakeAuth(&model.User{ID: "user-1", Email: "alice@example.com", Name: "Alice"}),
		NewDataRoomHandler(h.rooms),
		NewFolderHandler(h.folders),
		NewFileHandler(h.files),
	)
	return h
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeData(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	assert.True(t, envelope.Success)
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func TestHealth(t *testing.T) {
	h := newHarness(t)

	t.Run("healthy", func(t *testing.T) {
		h.dbMock.ExpectPing().WillReturnError(nil)
		resp := doJSON(t, h.app, http.MethodGet, "/api/health", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("unhealthy", func(t *testing.T) {
		h.dbMock.ExpectPing().WillReturnError(errors.New("db down"))
		resp := doJSON(t, h.app, http.MethodGet, "/api/health", nil)
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	})
}

func TestCurrentUser(t *testing.T) {
	h := newHarness(t)

	resp := doJSON(t, h.app, http.MethodGet, "/api/me", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var user model.User
	decodeData(t, resp, &user)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "alice@example.com", user.Email)
}

func TestBootstrapDataRoom(t *testing.T) {
	h := newHarness(t)
	h.rooms.On("GetOrCreate", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == "user-1"
	})).Return(&model.DataRoom{ID: "room-1", Name: "Data Room (Alice)"}, nil)

	resp := doJSON(t, h.app, http.MethodGet, "/api/data-rooms", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var room model.DataRoom
	decodeData(t, resp, &room)
	assert.Equal(t, "Data Room (Alice)", room.Name)
}

func TestSetDataRoomName(t *testing.T) {
	h := newHarness(t)
	h.rooms.On("SetName", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		return u.ID == "user-1"
	}), "Deal Room").Return(&model.DataRoom{ID: "room-1", Name: "Deal Room"}, nil)

	resp := doJSON(t, h.app, http.MethodPost, "/api/data-rooms", map[string]string{"name": "Deal Room"})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var room model.DataRoom
	decodeData(t, resp, &room)
	assert.Equal(t, "Deal Room", room.Name)
}

func TestGetDataRoomView(t *testing.T) {
	h := newHarness(t)
	id := uuid.NewString()
	h.rooms.On("Get", mock.Anything, id, "user-1").Return(&service.DataRoomView{
		Room:    model.DataRoom{ID: id, OwnerID: "user-1"},
		Folders: []model.FolderWithCounts{},
		Files:   []model.File{},
	}, nil)

	resp := doJSON(t, h.app, http.MethodGet, "/api/data-rooms/"+id, nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetDataRoomInvalidID(t *testing.T) {
	h := newHarness(t)

	resp := doJSON(t, h.app, http.MethodGet, "/api/data-rooms/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "INVALID_ID", body.Error.Code)
	assert.NotEmpty(t, body.RequestID)
}

func TestDeleteDataRoomForbidden(t *testing.T) {
	h := newHarness(t)
	id := uuid.NewString()
	h.rooms.On("Delete", mock.Anything, id, "user-1").Return(service.ErrRoomDeleteRefused)

	resp := doJSON(t, h.app, http.MethodDelete, "/api/data-rooms/"+id, nil)

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Data rooms cannot be deleted", body.Error.Message)
}

func TestCreateFolder(t *testing.T) {
	h := newHarness(t)
	h.folders.On("Create", mock.Anything, "user-1", service.CreateFolderInput{
		DataRoomID: "room-1",
		Name:       "Contracts",
	}).Return(&model.Folder{ID: "folder-1", Name: "Contracts"}, nil)

	resp := doJSON(t, h.app, http.MethodPost, "/api/folders", fiber.Map{
		"dataRoomId": "room-1",
		"name":       "Contracts",
	})

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestCreateFolderConflict(t *testing.T) {
	h := newHarness(t)
	h.folders.On("Create", mock.Anything, "user-1", mock.Anything).
		Return(nil, service.ErrFolderNameTaken)

	resp := doJSON(t, h.app, http.MethodPost, "/api/folders", fiber.Map{
		"dataRoomId": "room-1",
		"name":       "contracts",
	})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "A folder with this name already exists in this location", body.Error.Message)
}

func TestFolderContentsNotFound(t *testing.T) {
	h := newHarness(t)
	id := uuid.NewString()
	h.folders.On("Contents", mock.Anything, id, "user-1").Return(nil, service.ErrFolderNotFound)

	resp := doJSON(t, h.app, http.MethodGet, "/api/folders/"+id+"/contents", nil)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "Folder not found", body.Error.Message)
}

func TestFolderTree(t *testing.T) {
	h := newHarness(t)
	id := uuid.NewString()
	parent := "folder-1"
	h.folders.On("Tree", mock.Anything, id, "user-1").Return([]model.Crumb{
		{ID: "folder-1", Name: "Contracts"},
		{ID: id, Name: "2024", ParentID: &parent},
	}, nil)

	resp := doJSON(t, h.app, http.MethodGet, "/api/folders/"+id+"/tree", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var crumbs []model.Crumb
	decodeData(t, resp, &crumbs)
	require.Len(t, crumbs, 2)
	assert.Equal(t, "Contracts", crumbs[0].Name)
}

func TestMoveFolderCycle(t *testing.T) {
	h := newHarness(t)
	id := uuid.NewString()
	h.folders.On("Move", mock.Anything, id, "user-1", mock.Anything).
		Return(nil, service.ErrMoveCycle)

	resp := doJSON(t, h.app, http.MethodPatch, "/api/folders/"+id+"/move", fiber.Map{
		"parentId": "folder-3",
	})

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteFolder(t *testing.T) {
	h := newHarness(t)
	id := uuid.NewString()
	h.folders.On("Delete", mock.Anything, id, "user-1").Return(nil)

	resp := doJSON(t, h.app, http.MethodDelete, "/api/folders/"+id, nil)

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestPresignUpload(t *testing.T) {
	h := newHarness(t)
	h.files.On("PresignUpload", mock.Anything, "user-1", service.PresignUploadInput{
		DataRoomID: "room-1",
		Name:       "deck.pdf",
		Size:       1024,
	}).Return(&service.UploadTicket{URL: "https://storage.example.com/put", Path: "rooms/room-1/x.pdf"}, nil)

	resp := doJSON(t, h.app, http.MethodPost, "/api/files/upload-url", fiber.Map{
		"dataRoomId": "room-1",
		"fileName":   "deck.pdf",
		"fileSize":   1024,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var ticket service.UploadTicket
	decodeData(t, resp, &ticket)
	assert.Equal(t, "rooms/room-1/x.pdf", ticket.Path)
}

func TestUploadTooLarge(t *testing.T) {
	h := newHarness(t)
	h.files.On("PresignUpload", mock.Anything, "user-1", mock.Anything).
		Return(nil, service.ErrFileTooLarge)

	resp := doJSON(t, h.app, http.MethodPost, "/api/files/upload-url", fiber.Map{
		"dataRoomId": "room-1",
		"fileName":   "big.pdf",
		"fileSize":   99999999,
	})

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
}

func TestFileView(t *testing.T) {
	h := newHarness(t)
	id := uuid.NewString()
	h.files.On("ViewURL", mock.Anything, id, "user-1").
		Return("https://storage.example.com/signed-get", nil)

	resp := doJSON(t, h.app, http.MethodGet, "/api/files/"+id+"/view", nil)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	var data map[string]string
	decodeData(t, resp, &data)
	assert.Equal(t, "https://storage.example.com/signed-get", data["url"])
}

func TestFileRenameConflictResponse(t *testing.T) {
	h := newHarness(t)
	id := uuid.NewString()
	h.files.On("Rename", mock.Anything, id, "user-1", "Report.pdf").
		Return(nil, service.ErrFileNameTaken)

	resp := doJSON(t, h.app, http.MethodPut, "/api/files/"+id, fiber.Map{"name": "Report.pdf"})

	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "A file with this name already exists in this location", body.Error.Message)
}

func TestAuthErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"missing header", auth.ErrMissingAuthHeader, http.StatusUnauthorized, "Access token required"},
		{"bad header", auth.ErrBadAuthHeader, http.StatusUnauthorized, "Invalid authorization header format"},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized, "Invalid or expired token"},
		{"rate limited", auth.ErrRateLimited, http.StatusTooManyRequests, "Too many attempts, please try again later"},
		{"store unavailable", auth.ErrStoreUnavailable, http.StatusServiceUnavailable, "Service temporarily unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
			app.Get("/protected", func(c *fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/protected", nil))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var body errorPayload
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.wantMsg, body.Error.Message)
		})
	}
}
