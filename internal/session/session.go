// Package session holds the article, title and summary of one generation run
// together with the UI state that drives control enablement.
package session

import "fmt"

// State is the phase of the current generation run.
type State int

const (
	Idle State = iota
	Fetching
	Summarizing
	Ready
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Fetching:
		return "fetching"
	case Summarizing:
		return "summarizing"
	case Ready:
		return "ready"
	case Error:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Busy reports whether a run is in progress.
func (s State) Busy() bool {
	return s == Fetching || s == Summarizing
}

// Controls describes which inputs are enabled in a given state.
type Controls struct {
	Input    bool `json:"input"`
	Generate bool `json:"generate"`
	Upload   bool `json:"upload"`
	Actions  bool `json:"actions"`
}

// Controls derives control enablement from the state. Input, generate and
// upload are disabled while busy; the flashcard and quiz actions need a
// summary.
func (s State) Controls() Controls {
	idle := !s.Busy()
	return Controls{
		Input:    idle,
		Generate: idle,
		Upload:   idle,
		Actions:  s == Ready,
	}
}

// Snapshot is the immutable view derived views are generated from.
type Snapshot struct {
	ArticleText string
	Title       string
	Summary     string
}

// Session is single-writer; callers own synchronization.
type Session struct {
	ArticleText string
	Title       string
	Summary     string
	State       State
	Err         error
}

// New returns an idle session.
func New() *Session {
	return &Session{State: Idle}
}

// Begin starts a new run, discarding the previous article and results.
func (s *Session) Begin(fetching bool) {
	*s = Session{State: Summarizing}
	if fetching {
		s.State = Fetching
	}
}

// SetArticle records the extracted article text and moves to Summarizing.
func (s *Session) SetArticle(text string) {
	s.ArticleText = text
	s.State = Summarizing
}

// Complete stores the generated title and summary.
func (s *Session) Complete(title, summary string) {
	s.Title = title
	s.Summary = summary
	s.Err = nil
	s.State = Ready
}

// Fail records err and clears any partial results.
func (s *Session) Fail(err error) {
	s.Title = ""
	s.Summary = ""
	s.Err = err
	s.State = Error
}

// Snapshot returns the current article, title and summary.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		ArticleText: s.ArticleText,
		Title:       s.Title,
		Summary:     s.Summary,
	}
}
