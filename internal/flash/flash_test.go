package flash_test

import (
	"aduan/frontend/internal/config"
	"aduan/frontend/internal/flash"
	"aduan/frontend/internal/models"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMemoryStore_PopClearsBox(t *testing.T) {
	s := flash.NewMemoryStore(time.Minute)
	ctx := context.Background()

	require.NoError(t, s.PushFlash(ctx, "a", models.Flash{Kind: models.FlashSuccess, Message: "tersimpan"}))
	require.NoError(t, s.PushFlash(ctx, "a", models.Flash{Kind: models.FlashError, Message: "gagal"}))
	require.NoError(t, s.PushFlash(ctx, "b", models.Flash{Kind: models.FlashInfo, Message: "lain"}))

	items, err := s.PopFlashes(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []models.Flash{
		{Kind: models.FlashSuccess, Message: "tersimpan"},
		{Kind: models.FlashError, Message: "gagal"},
	}, items)

	again, err := s.PopFlashes(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, again)

	other, _ := s.PopFlashes(ctx, "b")
	assert.Len(t, other, 1)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := flash.NewMemoryStore(-time.Second)
	ctx := context.Background()

	require.NoError(t, s.PushFlash(ctx, "a", models.Flash{Message: "basi"}))
	items, err := s.PopFlashes(ctx, "a")

	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMiddleware_CarriesFlashAcrossRedirect(t *testing.T) {
	// Arrange
	r := gin.New()
	r.Use(flash.Middleware(flash.NewMemoryStore(time.Minute), false))
	r.POST("/save", func(c *gin.Context) {
		flash.Success(c, "Aduan berhasil dibuat")
		c.Redirect(http.StatusFound, "/list")
	})
	r.GET("/list", func(c *gin.Context) {
		var msgs []string
		for _, f := range flash.Pop(c) {
			msgs = append(msgs, string(f.Kind)+":"+f.Message)
		}
		c.JSON(http.StatusOK, msgs)
	})

	// Act
	w1 := httptest.NewRecorder()
	r.ServeHTTP(w1, httptest.NewRequest(http.MethodPost, "/save", nil))
	var box *http.Cookie
	for _, ck := range w1.Result().Cookies() {
		if ck.Name == config.FlashCookie {
			box = ck
		}
	}
	require.NotNil(t, box)

	req := httptest.NewRequest(http.MethodGet, "/list", nil)
	req.AddCookie(box)
	w2 := httptest.NewRecorder()
	r.ServeHTTP(w2, req)

	req3 := httptest.NewRequest(http.MethodGet, "/list", nil)
	req3.AddCookie(box)
	w3 := httptest.NewRecorder()
	r.ServeHTTP(w3, req3)

	// Assert
	assert.Equal(t, http.StatusFound, w1.Code)
	assert.JSONEq(t, `["success:Aduan berhasil dibuat"]`, w2.Body.String())
	assert.Equal(t, "null", w3.Body.String(), "flashes are shown once")
	assert.Empty(t, w2.Result().Cookies(), "an existing box is reused")
}

func TestAdd_WithoutMiddlewareIsHarmless(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	flash.Error(c, "tidak ada store")

	assert.Nil(t, flash.Pop(c))
}
