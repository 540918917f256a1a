package controller_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	appcontext "github.com/SeakMengs/AutoQR/internal/app_context"
	"github.com/SeakMengs/AutoQR/internal/config"
	"github.com/SeakMengs/AutoQR/internal/controller"
	filestorage "github.com/SeakMengs/AutoQR/internal/file_storage"
	"github.com/SeakMengs/AutoQR/internal/middleware"
	ratelimiter "github.com/SeakMengs/AutoQR/internal/rate_limiter"
	"github.com/SeakMengs/AutoQR/internal/route"
	"github.com/SeakMengs/AutoQR/internal/testutil"
	"github.com/SeakMengs/AutoQR/internal/util"
	"github.com/SeakMengs/AutoQR/pkg/autoqr"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const adminSecret = "test-admin-secret"

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Errors  []util.ApiError `json:"errors"`
	Data    json.RawMessage `json:"data"`
}

func newTestServer(t *testing.T) (*gin.Engine, *appcontext.Application) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := util.NewLogger("test")
	store, err := filestorage.NewStore(t.TempDir(), logger)
	require.NoError(t, err)

	defaults := config.HardDefaults()
	cfg := &config.Config{
		ENV:     "test",
		Storage: config.StorageConfig{MaxUploadBytes: 1 << 20},
		QR:      config.QRConfig{PixelSize: 128, PreviewZoom: 1},
		Admin:   config.AdminConfig{SECRET: adminSecret},
	}
	app := &appcontext.Application{
		Config:   cfg,
		Logger:   logger,
		Defaults: &defaults,
		Store:    store,
		Inserter: autoqr.NewInserter(cfg.QR.PixelSize),
	}

	m := middleware.NewMiddleware(app, ratelimiter.NewRateLimiter(cfg.RateLimiter, logger))
	r, err := route.NewRouter(app, controller.NewController(app), m)
	require.NoError(t, err)
	return r, app
}

func decode(t *testing.T, w *httptest.ResponseRecorder, data any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if data != nil {
		require.NoError(t, json.Unmarshal(env.Data, data))
	}
	return env
}

func upload(t *testing.T, r *gin.Engine, fileName string, data []byte) *httptest.ResponseRecorder {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("pdf", fileName)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func uploadToken(t *testing.T, r *gin.Engine, pages ...testutil.Page) string {
	t.Helper()
	w := upload(t, r, "doc.pdf", testutil.BuildPdf(pages...))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Token string `json:"token"`
	}
	decode(t, w, &data)
	return data.Token
}

func do(r *gin.Engine, method, target string, body *strings.Reader, contentType string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == nil {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, body)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postForm(r *gin.Engine, target string, form url.Values) *httptest.ResponseRecorder {
	return do(r, http.MethodPost, target, strings.NewReader(form.Encode()), "application/x-www-form-urlencoded")
}

func postJSON(t *testing.T, r *gin.Engine, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	return do(r, http.MethodPost, target, strings.NewReader(string(b)), "application/json")
}

func TestDefaults(t *testing.T) {
	r, _ := newTestServer(t)

	w := do(r, http.MethodGet, "/api/v1/defaults", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var data struct {
		Defaults   config.PlacementDefaults  `json:"defaults"`
		Validation config.ValidationDefaults `json:"validation"`
	}
	decode(t, w, &data)
	require.Equal(t, config.HardDefaults().Defaults, data.Defaults)
	require.Equal(t, "warn", data.Validation.PaperCheck)
}

func TestUpload(t *testing.T) {
	r, app := newTestServer(t)

	t.Run("Valid pdf", func(t *testing.T) {
		w := upload(t, r, "doc.pdf", testutil.BuildPdf(testutil.A4(), testutil.Letter()))
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var data struct {
			Token     string `json:"token"`
			PageCount int    `json:"pageCount"`
		}
		env := decode(t, w, &data)
		require.True(t, env.Success)
		require.Equal(t, 2, data.PageCount)
		require.True(t, util.IsSessionToken(data.Token))
	})

	t.Run("Wrong extension", func(t *testing.T) {
		w := upload(t, r, "doc.txt", testutil.BuildPdf(testutil.A4()))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unparseable pdf is discarded", func(t *testing.T) {
		before, err := os.ReadDir(app.Store.Root())
		require.NoError(t, err)

		w := upload(t, r, "broken.pdf", []byte("definitely not a pdf"))
		require.Equal(t, http.StatusBadRequest, w.Code)

		env := decode(t, w, nil)
		require.False(t, env.Success)
		require.Equal(t, "pdf", env.Errors[0].Field)

		after, err := os.ReadDir(app.Store.Root())
		require.NoError(t, err)
		require.Len(t, after, len(before))
	})
}

func TestPageInfo(t *testing.T) {
	r, _ := newTestServer(t)
	token := uploadToken(t, r, testutil.A4(), testutil.Page{Width: 612, Height: 792, Rotate: 90}, testutil.Page{Width: 600, Height: 600})

	tests := []struct {
		name      string
		target    string
		wantCode  int
		wantPaper string
		wantW     float64
	}{
		{"A4", "/api/v1/documents/" + token + "/pages/1", http.StatusOK, "A4", 595.28},
		{"Rotated letter", "/api/v1/documents/" + token + "/pages/2", http.StatusOK, "Letter(rotated)", 792},
		{"Unknown paper", "/api/v1/documents/" + token + "/pages/3", http.StatusOK, "", 600},
		{"Out of range", "/api/v1/documents/" + token + "/pages/4", http.StatusBadRequest, "", 0},
		{"Bad page", "/api/v1/documents/" + token + "/pages/zero", http.StatusBadRequest, "", 0},
		{"Unknown token", "/api/v1/documents/" + util.NewSessionToken() + "/pages/1", http.StatusNotFound, "", 0},
		{"Malformed token", "/api/v1/documents/nope/pages/1", http.StatusNotFound, "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, http.MethodGet, tt.target, nil, "")
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
			if tt.wantCode != http.StatusOK {
				return
			}

			var data struct {
				Paper          string  `json:"paper"`
				VisibleWidthPt float64 `json:"visibleWidthPt"`
				PageCount      int     `json:"pageCount"`
			}
			decode(t, w, &data)
			require.Equal(t, tt.wantPaper, data.Paper)
			require.InDelta(t, tt.wantW, data.VisibleWidthPt, 1e-6)
			require.Equal(t, 3, data.PageCount)
		})
	}
}

func TestApplyAndDownload(t *testing.T) {
	r, _ := newTestServer(t)
	token := uploadToken(t, r, testutil.A4())

	w := do(r, http.MethodGet, "/api/v1/documents/"+token+"/download", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)

	w = postForm(r, "/api/v1/documents/"+token+"/apply", url.Values{"url": {"https://example.com/doc/42"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Placement   autoqr.Rect      `json:"placement"`
		Page        int              `json:"page"`
		Findings    []autoqr.Finding `json:"findings"`
		DownloadUrl string           `json:"downloadUrl"`
	}
	decode(t, w, &data)
	require.Equal(t, 1, data.Page)
	require.InDelta(t, 56.6929, data.Placement.X, 1e-3)
	require.InDelta(t, 841.89-85.0394-113.3858, data.Placement.Y, 1e-3)
	require.Len(t, data.Findings, 1)
	require.Equal(t, autoqr.KindPaperSizeMatched, data.Findings[0].Kind)
	require.Equal(t, "/api/v1/documents/"+token+"/download", data.DownloadUrl)

	w = do(r, http.MethodGet, data.DownloadUrl, nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), token+"_con_qr.pdf")
	require.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))

	pages, err := autoqr.ReadPageGeometries(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	require.Len(t, pages, 1)
}

func TestApplyFailures(t *testing.T) {
	r, _ := newTestServer(t)
	square := uploadToken(t, r, testutil.Page{Width: 600, Height: 600})

	tests := []struct {
		name      string
		form      url.Values
		wantCode  int
		wantField string
	}{
		{"Missing url", url.Values{}, http.StatusBadRequest, "Url"},
		{"Blank url", url.Values{"url": {"  "}}, http.StatusBadRequest, "Url"},
		{"Bad unit", url.Values{"url": {"https://x"}, "unit": {"inch"}}, http.StatusBadRequest, "Unit"},
		{"Bad paper check", url.Values{"url": {"https://x"}, "paper_check": {"loud"}}, http.StatusBadRequest, "PaperCheck"},
		{"Zero size", url.Values{"url": {"https://x"}, "size": {"0"}}, http.StatusBadRequest, "measurement"},
		{"Page out of range", url.Values{"url": {"https://x"}, "page": {"3"}}, http.StatusBadRequest, "page"},
		{"Strict paper check", url.Values{"url": {"https://x"}, "paper_check": {"strict"}}, http.StatusUnprocessableEntity, "paper"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(r, "/api/v1/documents/"+square+"/apply", tt.form)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())

			env := decode(t, w, nil)
			require.False(t, env.Success)
			require.NotEmpty(t, env.Errors)
			require.Equal(t, tt.wantField, env.Errors[0].Field)
		})
	}

	t.Run("Strict failure carries findings and writes nothing", func(t *testing.T) {
		w := postForm(r, "/api/v1/documents/"+square+"/apply", url.Values{"url": {"https://x"}, "paper_check": {"strict"}})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)

		var data struct {
			Findings []autoqr.Finding `json:"findings"`
		}
		decode(t, w, &data)
		require.Len(t, data.Findings, 1)
		require.Equal(t, autoqr.SeverityError, data.Findings[0].Severity)

		w = do(r, http.MethodGet, "/api/v1/documents/"+square+"/download", nil, "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Warn mode succeeds with a warning", func(t *testing.T) {
		w := postForm(r, "/api/v1/documents/"+square+"/apply", url.Values{"url": {"https://x"}, "origin": {"bottom-left"}, "unit": {"pt"}, "x": {"10"}, "y": {"20"}, "size": {"30"}, "size_unit": {"pt"}})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var data struct {
			Placement autoqr.Rect      `json:"placement"`
			Findings  []autoqr.Finding `json:"findings"`
		}
		decode(t, w, &data)
		require.Equal(t, autoqr.Rect{X: 10, Y: 20, Side: 30}, data.Placement)
		require.Len(t, data.Findings, 1)
		require.Equal(t, autoqr.SeverityWarning, data.Findings[0].Severity)
	})
}

func TestApplyCheckAllPages(t *testing.T) {
	r, _ := newTestServer(t)
	token := uploadToken(t, r, testutil.A4(), testutil.Page{Width: 600, Height: 600})
	target := "/api/v1/documents/" + token + "/apply"

	strict := func(checkAll string) url.Values {
		return url.Values{"url": {"https://x"}, "paper_check": {"strict"}, "check_all_pages": {checkAll}}
	}

	tests := []struct {
		name     string
		form     url.Values
		wantCode int
	}{
		{"Checkbox on", strict("on"), http.StatusUnprocessableEntity},
		{"Checkbox off", strict("off"), http.StatusOK},
		{"Boolean true", strict("true"), http.StatusUnprocessableEntity},
		{"Not a boolean", strict("maybe"), http.StatusBadRequest},
		{"Unchecked", url.Values{"url": {"https://x"}, "paper_check": {"strict"}}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postForm(r, target, tt.form)
			require.Equal(t, tt.wantCode, w.Code, w.Body.String())
		})
	}

	t.Run("JSON", func(t *testing.T) {
		w := postJSON(t, r, target, map[string]any{"url": "https://x", "paper_check": "strict", "check_all_pages": true})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())

		w = postJSON(t, r, target, map[string]any{"url": "https://x", "paper_check": "strict", "check_all_pages": "on"})
		require.Equal(t, http.StatusUnprocessableEntity, w.Code, w.Body.String())
	})
}

func TestPreview(t *testing.T) {
	r, _ := newTestServer(t)
	token := uploadToken(t, r, testutil.A4())

	target := "/api/v1/documents/" + token + "/pages/1/preview?x=2&y=3&unit=cm&size=4&size_unit=cm&zoom=0.5&url=https%3A%2F%2Fexample.com"
	for i := 0; i < 2; i++ {
		w := do(r, http.MethodGet, target, nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.Equal(t, "image/png", w.Header().Get("Content-Type"))
		require.NotEmpty(t, w.Header().Get("X-QR-Rect"))
		require.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))
	}

	w := do(r, http.MethodGet, "/api/v1/documents/"+token+"/pages/1/preview?zoom=100", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/documents/"+token+"/pages/2/preview", nil, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEditor(t *testing.T) {
	r, _ := newTestServer(t)
	token := uploadToken(t, r, testutil.Page{Width: 500, Height: 1000})
	target := "/api/v1/documents/" + token + "/editor"

	base := map[string]any{
		"page":          1,
		"previewWidth":  1000,
		"previewHeight": 2000,
		"zoom":          1,
		"unit":          "pt",
		"x":             100,
		"y":             100,
		"size":          50,
	}
	with := func(kv map[string]any) map[string]any {
		out := map[string]any{}
		for k, v := range base {
			out[k] = v
		}
		for k, v := range kv {
			out[k] = v
		}
		return out
	}

	type point struct{ X, Y float64 }
	type response struct {
		X        float64          `json:"x"`
		Y        float64          `json:"y"`
		Size     float64          `json:"size"`
		Pixels   autoqr.PixelRect `json:"pixels"`
		Pdf      autoqr.Rect      `json:"pdf"`
		Findings []autoqr.Finding `json:"findings"`
		Cursor   *point           `json:"cursor"`
	}

	t.Run("Move", func(t *testing.T) {
		w := postJSON(t, r, target, with(map[string]any{"action": "move", "dx": 20, "dy": -40}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var data response
		decode(t, w, &data)
		require.InDelta(t, 110, data.X, 1e-9)
		require.InDelta(t, 80, data.Y, 1e-9)
		require.InDelta(t, 50, data.Size, 1e-9)
		require.Equal(t, autoqr.Rect{X: 110, Y: 870, Side: 50}, data.Pdf)
		require.Equal(t, autoqr.PixelRect{X: 220, Y: 160, Width: 100, Height: 100}, data.Pixels)
		require.Empty(t, data.Findings)
	})

	t.Run("Resize from top-left", func(t *testing.T) {
		w := postJSON(t, r, target, with(map[string]any{"action": "resize", "corner": "top-left", "dx": -20, "dy": 0}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var data response
		decode(t, w, &data)
		require.InDelta(t, 90, data.X, 1e-9)
		require.InDelta(t, 90, data.Y, 1e-9)
		require.InDelta(t, 60, data.Size, 1e-9)
	})

	t.Run("Cursor in cm", func(t *testing.T) {
		w := postJSON(t, r, target, with(map[string]any{"action": "cursor", "zoom": 2, "cursorX": 144, "cursorY": 288, "unit": "cm", "x": 1, "y": 1, "size": 1}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var data response
		decode(t, w, &data)
		require.NotNil(t, data.Cursor)
		require.InDelta(t, 1.27, data.Cursor.X, 1e-9)
		require.InDelta(t, 2.54, data.Cursor.Y, 1e-9)
	})

	t.Run("Move off the page warns", func(t *testing.T) {
		w := postJSON(t, r, target, with(map[string]any{"action": "move", "dx": 1000, "dy": 0}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var data response
		decode(t, w, &data)
		require.Len(t, data.Findings, 1)
		require.Equal(t, autoqr.KindOutOfVisibleArea, data.Findings[0].Kind)
	})

	t.Run("Clamp keeps the square on the page", func(t *testing.T) {
		w := postJSON(t, r, target, with(map[string]any{"action": "move", "dx": 1000, "dy": 0, "clamp": true}))
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var data response
		decode(t, w, &data)
		require.InDelta(t, 450, data.X, 1e-9)
		require.Empty(t, data.Findings)
	})

	t.Run("Unknown action", func(t *testing.T) {
		w := postJSON(t, r, target, with(map[string]any{"action": "spin"}))
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAdminPurge(t *testing.T) {
	r, _ := newTestServer(t)
	token := uploadToken(t, r, testutil.A4())

	w := do(r, http.MethodDelete, "/api/v1/admin/documents?olderThan=0s", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	purge := func(query string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/documents"+query, nil)
		req.Header.Set("Authorization", "Bearer "+adminSecret)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w = purge("?olderThan=forever")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = purge("")
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Removed int `json:"removed"`
	}
	decode(t, w, &data)
	require.Zero(t, data.Removed)

	w = purge("?olderThan=0s")
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &data)
	require.Equal(t, 1, data.Removed)

	w = do(r, http.MethodGet, "/api/v1/documents/"+token+"/pages/1", nil, "")
	require.Equal(t, http.StatusNotFound, w.Code)
}
