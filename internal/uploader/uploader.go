// Package uploader holds the analyzer view's state machine. A Session is
// always in exactly one State; the image, result and error message it
// exposes are derived from that state.
package uploader

import (
	"context"
	"errors"

	"github.com/yildizm/ChefSnap/internal/imagefile"
	"github.com/yildizm/ChefSnap/internal/logger"
	"github.com/yildizm/ChefSnap/internal/recipe"
)

// User-facing messages
const (
	MsgNoImage       = "Please select an image first."
	MsgServerFailure = "Failed to connect to the server. Is the backend running?"
	MsgCouldNotLoad  = "Could not read that file."
)

var (
	// ErrNoImage is returned by Submit when nothing is selected
	ErrNoImage = errors.New("no image selected")

	// ErrRequestInFlight is returned by Submit while an analysis is running
	ErrRequestInFlight = errors.New("analysis already in progress")

	// ErrBusy is returned by Select while an analysis is running
	ErrBusy = errors.New("cannot change image while analyzing")
)

// State is the analyzer view mode
type State int

const (
	StateIdle State = iota
	StateSelected
	StateLoading
	StateResult
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSelected:
		return "selected"
	case StateLoading:
		return "loading"
	case StateResult:
		return "result"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Token identifies one submitted request. Zero is never issued.
type Token uint64

// Request is what Submit hands to the caller to run
type Request struct {
	Token Token
	Image *imagefile.Image
	Ctx   context.Context
}

// Analyzer uploads an image and returns the backend's analysis
type Analyzer interface {
	Analyze(ctx context.Context, img *imagefile.Image) (*recipe.AnalysisResult, error)
}

// Run performs the request against a
func (r *Request) Run(a Analyzer) (*recipe.AnalysisResult, error) {
	return a.Analyze(r.Ctx, r.Image)
}

// Session is the uploader state machine. It is not safe for concurrent
// use; the UI drives it from its single update loop.
type Session struct {
	state  State
	image  *imagefile.Image
	result *recipe.AnalysisResult
	errMsg string

	token  Token
	next   Token
	cancel context.CancelFunc

	validator *imagefile.Validator
	log       *logger.Logger
}

// New creates an idle session validating images against maxSize bytes
func New(maxSize int64, log *logger.Logger) *Session {
	if log == nil {
		log = logger.Discard()
	}
	return &Session{
		validator: imagefile.NewValidator(maxSize),
		log:       log.WithComponent("uploader"),
	}
}

// State returns the current state
func (s *Session) State() State { return s.state }

// Image returns the selected image, if any
func (s *Session) Image() *imagefile.Image { return s.image }

// Result returns the analysis result; non-nil only in StateResult
func (s *Session) Result() *recipe.AnalysisResult { return s.result }

// Error returns the user-facing error message; non-empty only in StateError
func (s *Session) Error() string { return s.errMsg }

// Token returns the token of the in-flight request, or zero
func (s *Session) Token() Token {
	if s.state != StateLoading {
		return 0
	}
	return s.token
}

// Loading reports whether an analysis is in flight
func (s *Session) Loading() bool { return s.state == StateLoading }

// CanSubmit reports whether Submit would start a request
func (s *Session) CanSubmit() bool {
	return s.image != nil && s.state != StateLoading
}

// SelectPath loads and validates the file at path
func (s *Session) SelectPath(path string) error {
	if s.state == StateLoading {
		return ErrBusy
	}
	img, err := s.validator.Load(path)
	return s.selectLoaded(img, err)
}

// selectLoaded applies a load outcome. A rejected file leaves any
// previously selected image in place and clears the old result.
func (s *Session) selectLoaded(img *imagefile.Image, err error) error {
	s.result = nil

	if err != nil {
		msg := MsgCouldNotLoad
		var verr *imagefile.ValidationError
		if errors.As(err, &verr) {
			msg = verr.Message
		}
		s.log.Warn("image rejected: %v", err)
		s.fail(msg)
		return err
	}

	s.image = img
	s.errMsg = ""
	s.state = StateSelected
	s.log.DebugWithFields("image selected", []logger.Field{
		logger.F("name", img.Name),
		logger.F("mime", img.MIMEType),
		logger.Bytes(img.Size),
	})
	return nil
}

// Submit starts an analysis of the selected image. The returned request
// carries a context that Reset cancels.
func (s *Session) Submit(parent context.Context) (*Request, error) {
	if s.state == StateLoading {
		return nil, ErrRequestInFlight
	}
	if s.image == nil {
		s.fail(MsgNoImage)
		return nil, ErrNoImage
	}

	s.next++
	s.token = s.next
	ctx, cancel := context.WithCancel(parent)
	s.cancel = cancel

	s.result = nil
	s.errMsg = ""
	s.state = StateLoading

	s.log.Debug("submitting %s (token %d)", s.image.Name, s.token)
	return &Request{Token: s.token, Image: s.image, Ctx: ctx}, nil
}

// Complete stores the result of request token. Stale tokens are ignored
// and reported as false.
func (s *Session) Complete(token Token, result *recipe.AnalysisResult) bool {
	if !s.current(token) {
		s.log.Debug("dropping stale result for token %d", token)
		return false
	}
	s.finish()

	if result == nil {
		s.fail(MsgServerFailure)
		return true
	}
	s.result = result
	s.state = StateResult
	return true
}

// Fail records a failed request. The selected image is kept so the user
// can retry; stale tokens are ignored.
func (s *Session) Fail(token Token, err error) bool {
	if !s.current(token) {
		s.log.Debug("dropping stale failure for token %d: %v", token, err)
		return false
	}
	s.finish()
	s.log.Error("analysis failed: %v", err)
	s.fail(MsgServerFailure)
	return true
}

// Reset returns to idle from any state, canceling an in-flight request
func (s *Session) Reset() {
	if s.state == StateLoading {
		s.log.Debug("reset cancels token %d", s.token)
	}
	s.finish()
	s.state = StateIdle
	s.image = nil
	s.result = nil
	s.errMsg = ""
}

func (s *Session) current(token Token) bool {
	return s.state == StateLoading && token != 0 && token == s.token
}

// finish releases the in-flight request and invalidates its token
func (s *Session) finish() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.token = 0
}

func (s *Session) fail(msg string) {
	s.result = nil
	s.errMsg = msg
	s.state = StateError
}
