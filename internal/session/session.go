// Package session keeps the per-user state of a name stamping session.
//
// Types:
//   - Session: the uploaded names and template, the chosen rotation, the
//     placeholder position and size, and the scratch files behind them.
//     Fields change only through its methods.
//   - SessionManager: all active sessions keyed by UUID.
//
// Expected outputs:
// - Session IDs are unique (UUID)
// - Rotating resets the placement to DefaultPlacement
// - Placements are clamped to the viewport minus the placeholder
// - Cleanup removes all files for a session
//
// Used by API handlers to manage user state.
package session

import (
	"errors"
	"os"
	"sync"
	"time"

	"go-namestamp/internal/pdf"
	"go-namestamp/internal/utils"
)

var (
	ErrNoTemplate         = errors.New("no template uploaded")
	ErrNoNames            = errors.New("no names uploaded")
	ErrBusy               = errors.New("generation already in progress")
	ErrInvalidPlaceholder = errors.New("placeholder size must not be negative")
)

// DefaultPlacement is where the placeholder starts and returns to whenever
// the rotation changes.
var DefaultPlacement = pdf.Point{X: 50, Y: 100}

// DefaultPlaceholder is the size of the on-screen name placeholder.
var DefaultPlaceholder = pdf.Size{Width: 50, Height: 20}

type Session struct {
	ID        string
	CreatedAt time.Time

	mu            sync.Mutex
	outputFile    string
	generating    bool
	templatePath  string
	template      *pdf.TemplateInfo
	groups        [][]string
	rotationIndex int
	placement     pdf.Point
	placeholder   pdf.Size
}

// Preview is a snapshot of what the client should draw.
type Preview struct {
	HasTemplate       bool      `json:"hasTemplate"`
	Rotation          int       `json:"rotation"`
	IntrinsicRotation int       `json:"intrinsicRotation"`
	EffectiveRotation int       `json:"effectiveRotation"`
	Viewport          pdf.Size  `json:"viewport"`
	Placement         pdf.Point `json:"placement"`
	Placeholder       pdf.Size  `json:"placeholder"`
	Groups            int       `json:"groups"`
	Names             int       `json:"names"`
}

type SessionManager struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*Session),
	}
}

func (sm *SessionManager) CreateSession() *Session {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	session := &Session{
		ID:          utils.GenerateUUID(),
		CreatedAt:   time.Now(),
		placement:   DefaultPlacement,
		placeholder: DefaultPlaceholder,
	}
	sm.sessions[session.ID] = session
	return session
}

func (sm *SessionManager) GetSession(id string) (*Session, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	session, exists := sm.sessions[id]
	return session, exists
}

func (sm *SessionManager) DeleteSession(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	delete(sm.sessions, id)
}

// Sweep cleans up and forgets sessions created more than ttl ago. Sessions
// in the middle of a generation are kept until a later sweep. It returns how
// many were removed.
func (sm *SessionManager) Sweep(ttl time.Duration) int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	removed := 0
	for id, session := range sm.sessions {
		if time.Since(session.CreatedAt) > ttl && !session.Generating() {
			session.Cleanup()
			delete(sm.sessions, id)
			removed++
		}
	}
	return removed
}

// CleanupAll removes the files of every session and forgets them.
func (sm *SessionManager) CleanupAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for id, session := range sm.sessions {
		session.Cleanup()
		delete(sm.sessions, id)
	}
}

func (sm *SessionManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// SetTemplate replaces the template. The rotation and placement start over.
func (s *Session) SetTemplate(path string, info *pdf.TemplateInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.templatePath != "" && s.templatePath != path {
		os.Remove(s.templatePath)
	}
	s.templatePath = path
	s.template = info
	s.rotationIndex = 0
	s.placement = DefaultPlacement
}

func (s *Session) SetGroups(groups [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups = groups
}

func (s *Session) Groups() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.groups
}

// Rotate turns the preview a further 90 degrees and resets the placement,
// since the area it may occupy has changed.
func (s *Session) Rotate() Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rotationIndex = (s.rotationIndex + 1) % len(pdf.Rotations)
	s.placement = DefaultPlacement
	return s.preview()
}

// SetPlacement moves the placeholder to (x, y), clamped so that it stays
// inside the viewport.
func (s *Session) SetPlacement(x, y float64) Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placement = s.clamp(pdf.Point{X: x, Y: y})
	return s.preview()
}

// SetPlaceholder records the measured placeholder size. A zero size marks the
// placeholder as not measurable; names are then left unstamped.
func (s *Session) SetPlaceholder(width, height float64) (Preview, error) {
	if width < 0 || height < 0 {
		return Preview{}, ErrInvalidPlaceholder
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.placeholder = pdf.Size{Width: width, Height: height}
	s.placement = s.clamp(s.placement)
	return s.preview(), nil
}

func (s *Session) Preview() Preview {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.preview()
}

func (s *Session) preview() Preview {
	p := Preview{
		Rotation:    pdf.Rotations[s.rotationIndex],
		Placement:   s.placement,
		Placeholder: s.placeholder,
		Groups:      len(s.groups),
	}
	for _, group := range s.groups {
		if len(group) > 1 {
			p.Names += len(group) - 1
		}
	}
	if s.template != nil {
		p.HasTemplate = true
		p.IntrinsicRotation = s.template.Rotation
		p.EffectiveRotation = pdf.EffectiveRotation(p.Rotation, s.template.Rotation)
		p.Viewport = s.template.Viewport(p.Rotation)
	}
	return p
}

// clamp keeps p within [0, viewport - placeholder] on both axes. Without a
// template the viewport is unknown and p is kept as is.
func (s *Session) clamp(p pdf.Point) pdf.Point {
	if s.template == nil {
		return p
	}
	vp := s.template.Viewport(pdf.Rotations[s.rotationIndex])
	return pdf.Point{
		X: clamp(p.X, vp.Width-s.placeholder.Width),
		Y: clamp(p.Y, vp.Height-s.placeholder.Height),
	}
}

func clamp(v, max float64) float64 {
	if v > max {
		v = max
	}
	if v < 0 {
		v = 0
	}
	return v
}

// BeginGenerate marks the session busy and returns the template path and a
// job without Source. EndGenerate must follow.
func (s *Session) BeginGenerate() (string, pdf.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generating {
		return "", pdf.Job{}, ErrBusy
	}
	if s.template == nil {
		return "", pdf.Job{}, ErrNoTemplate
	}
	if len(s.groups) == 0 {
		return "", pdf.Job{}, ErrNoNames
	}
	s.generating = true
	p := s.preview()
	return s.templatePath, pdf.Job{
		Groups:      s.groups,
		Placement:   s.placement,
		Placeholder: s.placeholder,
		Rotation:    p.EffectiveRotation,
	}, nil
}

// EndGenerate clears the busy mark and, when output is set, replaces the
// previous output file.
func (s *Session) EndGenerate(output string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generating = false
	if output == "" {
		return
	}
	if s.outputFile != "" && s.outputFile != output {
		os.Remove(s.outputFile)
	}
	s.outputFile = output
}

func (s *Session) Generating() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generating
}

func (s *Session) OutputFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outputFile
}

// ClearOutput forgets the output file after it was delivered.
func (s *Session) ClearOutput() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outputFile != "" {
		os.Remove(s.outputFile)
	}
	s.outputFile = ""
}

// Restart drops names, template and output and returns the session to its
// initial state.
func (s *Session) Restart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeFiles()
	s.generating = false
	s.groups = nil
	s.template = nil
	s.templatePath = ""
	s.rotationIndex = 0
	s.placement = DefaultPlacement
	s.placeholder = DefaultPlaceholder
}

func (s *Session) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeFiles()
}

func (s *Session) removeFiles() {
	if s.templatePath != "" {
		os.Remove(s.templatePath)
	}
	if s.outputFile != "" {
		os.Remove(s.outputFile)
	}
	s.outputFile = ""
}
