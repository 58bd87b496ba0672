package backend

import (
	"context"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/ChefSnap/internal/imagefile"
)

const (
	testAnalyzeURL  = "http://127.0.0.1:8000/analyze"
	testCookbookURL = "http://localhost:8000/api/my-cookbook"
)

func setupHTTPMock(t *testing.T) {
	t.Helper()
	httpmock.Activate()
	t.Cleanup(httpmock.DeactivateAndReset)
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	c, err := New(&Config{AnalyzeURL: testAnalyzeURL, CookbookURL: testCookbookURL}, nil)
	require.NoError(t, err)
	return c
}

func testImage() *imagefile.Image {
	return &imagefile.Image{
		Name:     "tomato.jpg",
		MIMEType: "image/jpeg",
		Data:     []byte("\xff\xd8\xff\xe0fake-jpeg-bytes"),
		Size:     20,
	}
}

const analyzeSuccessBody = `{
	"filename": "tomato.jpg",
	"ai_prediction": {"class_id": 3, "label": "tomato", "confidence": 0.92, "note": "Trained Model"},
	"ocr_result": {"candidates": ["ORGANIC", "SALT"]},
	"recipe": {"title": "Tomato Soup", "ingredients": ["tomato", "salt"], "instructions": ["Boil", "Blend"]}
}`

func TestClient_AnalyzeSendsMultipart(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testAnalyzeURL,
		func(req *http.Request) (*http.Response, error) {
			require.NoError(t, req.ParseMultipartForm(1<<20))

			file, header, err := req.FormFile(FileField)
			require.NoError(t, err)
			defer func() { _ = file.Close() }()

			data, err := io.ReadAll(file)
			require.NoError(t, err)
			assert.Equal(t, testImage().Data, data)
			assert.Equal(t, "tomato.jpg", header.Filename)
			assert.Equal(t, "image/jpeg", header.Header.Get("Content-Type"))
			assert.NotEmpty(t, req.Header.Get("X-Request-ID"))

			return httpmock.NewStringResponse(http.StatusOK, analyzeSuccessBody), nil
		})

	result, err := newTestClient(t).Analyze(context.Background(), testImage())
	require.NoError(t, err)

	assert.Equal(t, "tomato", result.AIPrediction.Label)
	assert.InDelta(t, 0.92, result.AIPrediction.Confidence.Value, 0.0001)
	assert.Equal(t, []string{"ORGANIC", "SALT"}, result.OCRResult.Candidates)
	require.True(t, result.HasRecipe())
	assert.Equal(t, "Tomato Soup", result.Recipe.Title)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestClient_AnalyzeHTTPErrors(t *testing.T) {
	setupHTTPMock(t)

	tests := []struct {
		name       string
		statusCode int
	}{
		{"bad_request", http.StatusBadRequest},
		{"unprocessable", http.StatusUnprocessableEntity},
		{"internal_server_error", http.StatusInternalServerError},
		{"service_unavailable", http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpmock.Reset()
			httpmock.RegisterResponder(http.MethodPost, testAnalyzeURL,
				httpmock.NewStringResponder(tt.statusCode, `{"detail": "boom"}`))

			result, err := newTestClient(t).Analyze(context.Background(), testImage())

			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrStatus)

			var berr *Error
			require.ErrorAs(t, err, &berr)
			assert.Equal(t, tt.statusCode, berr.StatusCode)
			assert.Equal(t, "analyze", berr.Op)
			assert.Equal(t, 1, httpmock.GetTotalCallCount(), "failures must not be retried")
		})
	}
}

func TestClient_AnalyzeNetworkError(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testAnalyzeURL,
		httpmock.NewErrorResponder(errors.New("connection refused")))

	result, err := newTestClient(t).Analyze(context.Background(), testImage())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestClient_AnalyzeInvalidJSON(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testAnalyzeURL,
		httpmock.NewStringResponder(http.StatusOK, `{invalid json`))

	result, err := newTestClient(t).Analyze(context.Background(), testImage())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestClient_AnalyzeServerReportedError(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testAnalyzeURL,
		httpmock.NewStringResponder(http.StatusOK, `{"error": "ML modules not loaded on server."}`))

	result, err := newTestClient(t).Analyze(context.Background(), testImage())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, ErrServer)
	assert.Contains(t, err.Error(), "ML modules not loaded")
}

func TestClient_AnalyzeWithoutImage(t *testing.T) {
	setupHTTPMock(t)

	_, err := newTestClient(t).Analyze(context.Background(), nil)
	assert.ErrorIs(t, err, ErrRequest)
	assert.Zero(t, httpmock.GetTotalCallCount())
}

func TestClient_AnalyzeCanceled(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodPost, testAnalyzeURL,
		httpmock.NewStringResponder(http.StatusOK, analyzeSuccessBody).Delay(200*time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(t).Analyze(ctx, testImage())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_Cookbook(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodGet, testCookbookURL,
		httpmock.NewStringResponder(http.StatusOK, `[
			{"_id": "665f1", "title": "Tomato Soup", "cooking_time": "20 mins", "difficulty": "Easy",
			 "macros": {"calories": "350 kcal"}, "ingredients": ["tomato"], "instructions": ["Boil"]},
			{"id": "b2", "title": "Potato Salad", "macros": {}, "ingredients": [], "instructions": []}
		]`))

	recipes, err := newTestClient(t).Cookbook(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 2)

	assert.Equal(t, "665f1", recipes[0].ID)
	assert.Equal(t, "350 kcal", recipes[0].Calories())
	assert.Equal(t, "b2", recipes[1].ID)
	assert.Equal(t, "N/A", recipes[1].Calories())
}

func TestClient_CookbookEmptyAndNull(t *testing.T) {
	setupHTTPMock(t)

	for _, body := range []string{`[]`, `null`} {
		httpmock.Reset()
		httpmock.RegisterResponder(http.MethodGet, testCookbookURL, httpmock.NewStringResponder(http.StatusOK, body))

		recipes, err := newTestClient(t).Cookbook(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, recipes)
		assert.Empty(t, recipes)
	}
}

func TestClient_CookbookFailure(t *testing.T) {
	setupHTTPMock(t)

	httpmock.RegisterResponder(http.MethodGet, testCookbookURL,
		httpmock.NewStringResponder(http.StatusInternalServerError, `oops`))

	recipes, err := newTestClient(t).Cookbook(context.Background())
	assert.Nil(t, recipes)
	assert.ErrorIs(t, err, ErrStatus)
	assert.Equal(t, 1, httpmock.GetTotalCallCount())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
	}{
		{name: "defaults", config: Config{AnalyzeURL: testAnalyzeURL, CookbookURL: testCookbookURL}},
		{name: "missing analyze", config: Config{CookbookURL: testCookbookURL}, wantErr: true},
		{name: "relative url", config: Config{AnalyzeURL: "/analyze", CookbookURL: testCookbookURL}, wantErr: true},
		{name: "ftp scheme", config: Config{AnalyzeURL: "ftp://host/analyze", CookbookURL: testCookbookURL}, wantErr: true},
		{name: "negative timeout", config: Config{AnalyzeURL: testAnalyzeURL, CookbookURL: testCookbookURL, Timeout: -time.Second}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestError_Format(t *testing.T) {
	err := &Error{Type: ErrTypeStatus, Op: "analyze", StatusCode: 502, Message: "server error: Bad Gateway"}
	assert.Equal(t, "op=analyze: type=status: status=502: server error: Bad Gateway", err.Error())
	assert.False(t, errors.Is(err, ErrNetwork))
}
