package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yildizm/ChefSnap/internal/imagefile"
	"github.com/yildizm/ChefSnap/internal/recipe"
)

// jpegFile writes a JPEG padded to size bytes and returns its path
func jpegFile(t *testing.T, name string, size int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	img.Set(0, 0, color.RGBA{R: 255, A: 255})

	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	if pad := size - buf.Len(); pad > 0 {
		buf.Write(make([]byte, pad))
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

type fakeAnalyzer struct {
	calls  int
	result *recipe.AnalysisResult
	err    error
	gotCtx context.Context
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, img *imagefile.Image) (*recipe.AnalysisResult, error) {
	f.calls++
	f.gotCtx = ctx
	return f.result, f.err
}

func decodeResult(t *testing.T, body string) *recipe.AnalysisResult {
	t.Helper()
	var result recipe.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(body), &result))
	return &result
}

func TestSession_TomatoSoupFlow(t *testing.T) {
	s := New(imagefile.DefaultMaxSize, nil)
	require.NoError(t, s.SelectPath(jpegFile(t, "tomato.jpg", 3*1024*1024)))
	assert.Equal(t, StateSelected, s.State())
	assert.Equal(t, "image/jpeg", s.Image().MIMEType)

	analyzer := &fakeAnalyzer{result: decodeResult(t, `{
		"ai_prediction": {"label": "tomato", "confidence": 0.92},
		"ocr_result": {"candidates": ["ORGANIC", "SALT"]},
		"recipe": {"title": "Tomato Soup", "ingredients": ["tomato", "salt"], "instructions": ["Boil", "Blend"]}
	}`)}

	req, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.True(t, s.Loading())
	assert.Empty(t, s.Error())

	result, err := req.Run(analyzer)
	require.NoError(t, err)
	require.True(t, s.Complete(req.Token, result))

	assert.Equal(t, StateResult, s.State())
	assert.False(t, s.Loading())
	assert.Empty(t, s.Error())

	badge := recipe.NewBadge(s.Result())
	assert.Equal(t, []string{"tomato", "ORGANIC", "SALT"}, badge.Tags())
	require.True(t, s.Result().HasRecipe())
	assert.Equal(t, "Tomato Soup", s.Result().Recipe.Title)
	assert.Len(t, s.Result().Recipe.Instructions, 2)
	assert.Equal(t, 1, analyzer.calls)
}

func TestSession_ResultWithoutRecipe(t *testing.T) {
	s := New(0, nil)
	require.NoError(t, s.SelectPath(jpegFile(t, "x.jpg", 0)))

	req, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, s.Complete(req.Token, decodeResult(t, `{"ai_prediction": {"label": "onion", "confidence": "81.00%"}}`)))

	assert.Equal(t, StateResult, s.State())
	assert.False(t, s.Result().HasRecipe())
	assert.Empty(t, s.Error())
}

func TestSession_SelectRejects(t *testing.T) {
	tests := []struct {
		name    string
		path    func(t *testing.T) string
		wantErr error
		wantMsg string
	}{
		{
			name: "not an image",
			path: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "recipe.jpg")
				require.NoError(t, os.WriteFile(p, []byte("just some text, not a photo"), 0o600))
				return p
			},
			wantErr: imagefile.ErrNotImage,
			wantMsg: "Please upload a valid image file (JPG, PNG).",
		},
		{
			name:    "too large",
			path:    func(t *testing.T) string { return jpegFile(t, "big.jpg", 5*1024*1024+1) },
			wantErr: imagefile.ErrTooLarge,
			wantMsg: "File is too large. Please upload an image under 5MB.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(imagefile.DefaultMaxSize, nil)

			err := s.SelectPath(tt.path(t))
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, StateError, s.State())
			assert.Equal(t, tt.wantMsg, s.Error())
			assert.Nil(t, s.Image())
			assert.False(t, s.CanSubmit())
		})
	}
}

func TestSession_RejectKeepsPreviousImage(t *testing.T) {
	s := New(imagefile.DefaultMaxSize, nil)
	require.NoError(t, s.SelectPath(jpegFile(t, "good.jpg", 0)))
	previous := s.Image()

	require.Error(t, s.SelectPath(jpegFile(t, "big.jpg", 6*1024*1024)))
	assert.Same(t, previous, s.Image())
	assert.Equal(t, StateError, s.State())
	assert.True(t, s.CanSubmit())
}

func TestSession_SelectClearsPriorResult(t *testing.T) {
	s := New(0, nil)
	require.NoError(t, s.SelectPath(jpegFile(t, "a.jpg", 0)))
	req, err := s.Submit(context.Background())
	require.NoError(t, err)
	s.Complete(req.Token, &recipe.AnalysisResult{})

	require.NoError(t, s.SelectPath(jpegFile(t, "b.jpg", 0)))
	assert.Nil(t, s.Result())
	assert.Equal(t, StateSelected, s.State())
	assert.Equal(t, "b.jpg", s.Image().Name)
}

func TestSession_SubmitWithoutImage(t *testing.T) {
	s := New(0, nil)
	analyzer := &fakeAnalyzer{}

	req, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNoImage)
	assert.Nil(t, req)
	assert.Equal(t, "Please select an image first.", s.Error())
	assert.Equal(t, StateError, s.State())
	assert.Zero(t, analyzer.calls)
}

func TestSession_SubmitWhileLoading(t *testing.T) {
	s := New(0, nil)
	require.NoError(t, s.SelectPath(jpegFile(t, "a.jpg", 0)))

	first, err := s.Submit(context.Background())
	require.NoError(t, err)

	second, err := s.Submit(context.Background())
	assert.ErrorIs(t, err, ErrRequestInFlight)
	assert.Nil(t, second)
	assert.Equal(t, first.Token, s.Token())

	assert.ErrorIs(t, s.SelectPath(jpegFile(t, "b.jpg", 0)), ErrBusy)
	assert.Equal(t, "a.jpg", s.Image().Name)
}

func TestSession_FailureKeepsImage(t *testing.T) {
	s := New(0, nil)
	require.NoError(t, s.SelectPath(jpegFile(t, "a.jpg", 0)))

	req, err := s.Submit(context.Background())
	require.NoError(t, err)
	require.True(t, s.Fail(req.Token, errors.New("connection refused")))

	assert.False(t, s.Loading())
	assert.Nil(t, s.Result())
	assert.Equal(t, "Failed to connect to the server. Is the backend running?", s.Error())
	assert.True(t, s.CanSubmit())

	// retry issues a fresh token
	retry, err := s.Submit(context.Background())
	require.NoError(t, err)
	assert.Greater(t, retry.Token, req.Token)
}

func TestSession_ResetFromEveryState(t *testing.T) {
	setups := map[string]func(t *testing.T, s *Session){
		"idle":     func(*testing.T, *Session) {},
		"selected": func(t *testing.T, s *Session) { require.NoError(t, s.SelectPath(jpegFile(t, "a.jpg", 0))) },
		"loading": func(t *testing.T, s *Session) {
			require.NoError(t, s.SelectPath(jpegFile(t, "a.jpg", 0)))
			_, err := s.Submit(context.Background())
			require.NoError(t, err)
		},
		"result": func(t *testing.T, s *Session) {
			require.NoError(t, s.SelectPath(jpegFile(t, "a.jpg", 0)))
			req, err := s.Submit(context.Background())
			require.NoError(t, err)
			s.Complete(req.Token, &recipe.AnalysisResult{})
		},
		"error": func(t *testing.T, s *Session) {
			_, _ = s.Submit(context.Background())
		},
	}

	for name, setup := range setups {
		t.Run(name, func(t *testing.T) {
			s := New(0, nil)
			setup(t, s)

			s.Reset()

			assert.Equal(t, StateIdle, s.State())
			assert.Nil(t, s.Image())
			assert.Nil(t, s.Result())
			assert.Empty(t, s.Error())
			assert.False(t, s.Loading())
		})
	}
}

func TestSession_LateResponseAfterReset(t *testing.T) {
	s := New(0, nil)
	require.NoError(t, s.SelectPath(jpegFile(t, "a.jpg", 0)))

	req, err := s.Submit(context.Background())
	require.NoError(t, err)

	s.Reset()
	assert.ErrorIs(t, req.Ctx.Err(), context.Canceled)

	assert.False(t, s.Complete(req.Token, &recipe.AnalysisResult{Filename: "late"}))
	assert.False(t, s.Fail(req.Token, context.Canceled))
	assert.Equal(t, StateIdle, s.State())
	assert.Nil(t, s.Result())
	assert.Empty(t, s.Error())
}

func TestSession_StaleTokenAfterResubmit(t *testing.T) {
	s := New(0, nil)
	require.NoError(t, s.SelectPath(jpegFile(t, "a.jpg", 0)))

	old, err := s.Submit(context.Background())
	require.NoError(t, err)
	s.Reset()
	require.NoError(t, s.SelectPath(jpegFile(t, "b.jpg", 0)))
	current, err := s.Submit(context.Background())
	require.NoError(t, err)

	assert.False(t, s.Complete(old.Token, &recipe.AnalysisResult{Filename: "old"}))
	assert.True(t, s.Loading())

	assert.True(t, s.Complete(current.Token, &recipe.AnalysisResult{Filename: "new"}))
	assert.Equal(t, "new", s.Result().Filename)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "unknown", State(42).String())
}
