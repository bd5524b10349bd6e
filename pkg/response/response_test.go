package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, w *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应体解析失败: %v", err)
	}
	return resp
}

func TestOKWithMessage(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	OKWithMessage(c, "Member added", gin.H{"id": "m-1"})

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp.Code != 0 || resp.Message != "Member added" {
		t.Errorf("响应不符: %+v", resp)
	}
}

func TestStoreFailure(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	StoreFailure(c, "Failed to save member", errors.New("connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	resp := decode(t, w)
	if resp.Code != 50001 {
		t.Errorf("expected code 50001, got %d", resp.Code)
	}
	if resp.Details != "connection refused" {
		t.Errorf("details 应透传底层信息，实际=%q", resp.Details)
	}
}

func TestTooManyRequests(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	TooManyRequests(c)

	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}
