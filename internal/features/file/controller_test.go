package file

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"files-manager/internal/common/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type tokenVerifier map[string]primitive.ObjectID

func (v tokenVerifier) Verify(ctx context.Context, token string) (primitive.ObjectID, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return primitive.NilObjectID, models.ErrUnauthenticated
}

type fileApiFixture struct {
	app  *fiber.App
	repo *memoryFileRepo
	root string
}

func newFileApiFixture(t *testing.T, verifier tokenVerifier) *fileApiFixture {
	t.Helper()
	repo := newMemoryFileRepo()
	storage := &DiskStorage{Root: t.TempDir()}
	service := NewFileService(repo, NewHierarchyValidator(repo), storage, nil, nil, zap.NewNop())

	app := fiber.New()
	NewFileApi(NewFileController(service, zap.NewNop()), verifier, zap.NewNop()).Setup(app)
	return &fileApiFixture{app: app, repo: repo, root: storage.Root}
}

func (f *fileApiFixture) do(t *testing.T, method, target, token, body string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-Token", token)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func decodeObject(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m), string(raw))
	return m
}

func TestFileApi_RequiresSession(t *testing.T) {
	fx := newFileApiFixture(t, tokenVerifier{})

	for _, tc := range []struct{ method, target string }{
		{http.MethodPost, "/files"},
		{http.MethodGet, "/files"},
		{http.MethodGet, "/files/" + primitive.NewObjectID().Hex()},
	} {
		status, body := fx.do(t, tc.method, tc.target, "expired", `{"name":"x","type":"folder"}`)
		assert.Equal(t, http.StatusUnauthorized, status, tc.target)
		assert.JSONEq(t, `{"error":"Unauthorized"}`, string(body))
	}
	assert.Empty(t, fx.repo.files)
}

func TestFileApi_UploadFileAtRoot(t *testing.T) {
	userID := primitive.NewObjectID()
	fx := newFileApiFixture(t, tokenVerifier{"T": userID})

	status, body := fx.do(t, http.MethodPost, "/files", "T", `{"name":"doc.txt","type":"file","data":"aGVsbG8="}`)
	require.Equal(t, http.StatusCreated, status, string(body))

	got := decodeObject(t, body)
	assert.Equal(t, userID.Hex(), got["userId"])
	assert.Equal(t, "doc.txt", got["name"])
	assert.Equal(t, "file", got["type"])
	assert.Equal(t, false, got["isPublic"])
	assert.Equal(t, 0.0, got["parentId"])
	assert.NotContains(t, got, "localPath")
	assert.NotEmpty(t, got["id"])

	require.Len(t, fx.repo.files, 1)
	content, err := os.ReadFile(fx.repo.files[0].LocalPath)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestFileApi_FolderThenChild(t *testing.T) {
	userID := primitive.NewObjectID()
	fx := newFileApiFixture(t, tokenVerifier{"T": userID})

	status, body := fx.do(t, http.MethodPost, "/files", "T", `{"name":"docs","type":"folder","parentId":0}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	folderID := decodeObject(t, body)["id"].(string)

	status, body = fx.do(t, http.MethodPost, "/files", "T",
		`{"name":"a.txt","type":"file","parentId":"`+folderID+`","data":"YQ=="}`)
	require.Equal(t, http.StatusCreated, status, string(body))
	child := decodeObject(t, body)
	assert.Equal(t, folderID, child["parentId"])

	status, body = fx.do(t, http.MethodGet, "/files?parentId="+folderID, "T", "")
	require.Equal(t, http.StatusOK, status)
	var page []map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &page))
	require.Len(t, page, 1)
	assert.Equal(t, child["id"], page[0]["id"])

	status, body = fx.do(t, http.MethodGet, "/files/"+folderID, "T", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "folder", decodeObject(t, body)["type"])
}

func TestFileApi_UploadErrors(t *testing.T) {
	userID := primitive.NewObjectID()
	fx := newFileApiFixture(t, tokenVerifier{"T": userID})

	status, body := fx.do(t, http.MethodPost, "/files", "T", `{"name":"a.txt","type":"file","data":"YQ=="}`)
	require.Equal(t, http.StatusCreated, status)
	plainID := decodeObject(t, body)["id"].(string)

	tests := []struct {
		name string
		body string
		want string
	}{
		{name: "missing name", body: `{"type":"folder"}`, want: "Missing name"},
		{name: "missing type", body: `{"name":"x"}`, want: "Missing type"},
		{name: "missing data", body: `{"name":"x","type":"image"}`, want: "Missing data"},
		{name: "unknown parent", body: `{"name":"x","type":"folder","parentId":"` + primitive.NewObjectID().Hex() + `"}`, want: "Parent not found"},
		{name: "malformed parent", body: `{"name":"x","type":"folder","parentId":"F1"}`, want: "Parent not found"},
		{name: "non zero numeric parent", body: `{"name":"x","type":"folder","parentId":5}`, want: "Parent not found"},
		{name: "file parent", body: `{"name":"x","type":"folder","parentId":"` + plainID + `"}`, want: "Parent is not a folder"},
		{name: "bad json", body: `{"name":`, want: "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := fx.do(t, http.MethodPost, "/files", "T", tt.body)
			assert.Equal(t, http.StatusBadRequest, status)
			assert.JSONEq(t, `{"error":"`+tt.want+`"}`, string(body))
		})
	}
	assert.Len(t, fx.repo.files, 1)
}

func TestFileApi_ShowIsOwnerOnly(t *testing.T) {
	owner := primitive.NewObjectID()
	other := primitive.NewObjectID()
	fx := newFileApiFixture(t, tokenVerifier{"A": owner, "B": other})

	status, body := fx.do(t, http.MethodPost, "/files", "A", `{"name":"docs","type":"folder"}`)
	require.Equal(t, http.StatusCreated, status)
	id := decodeObject(t, body)["id"].(string)

	status, body = fx.do(t, http.MethodGet, "/files/"+id, "B", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"Not found"}`, string(body))

	status, _ = fx.do(t, http.MethodGet, "/files/nonsense", "A", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestFileApi_IndexDefaultsAndMalformedParent(t *testing.T) {
	userID := primitive.NewObjectID()
	fx := newFileApiFixture(t, tokenVerifier{"T": userID})

	for i := 0; i < 3; i++ {
		status, _ := fx.do(t, http.MethodPost, "/files", "T", `{"name":"d","type":"folder"}`)
		require.Equal(t, http.StatusCreated, status)
	}

	tests := []struct {
		target string
		want   int
	}{
		{target: "/files", want: 3},
		{target: "/files?parentId=0&page=0", want: 3},
		{target: "/files?page=1", want: 0},
		{target: "/files?page=-1", want: 3},
		{target: "/files?parentId=F1", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			status, body := fx.do(t, http.MethodGet, tt.target, "T", "")
			require.Equal(t, http.StatusOK, status)
			var page []map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &page))
			assert.NotNil(t, page)
			assert.Len(t, page, tt.want)
		})
	}
}

func TestParentIDString(t *testing.T) {
	assert.Equal(t, "", parentIDString(nil))
	assert.Equal(t, "0", parentIDString(0.0))
	assert.Equal(t, "0", parentIDString("0"))
	assert.Equal(t, "5", parentIDString(5.0))
	assert.Equal(t, "invalid", parentIDString(true))
}
