// Package workspace holds the route files a user is editing together with the
// last topology built from them.
package workspace

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/routescope/core/internal/events"
	"github.com/routescope/core/internal/interaction"
	"github.com/routescope/core/internal/log"
	"github.com/routescope/core/internal/models"
	"github.com/routescope/core/internal/topology"
)

type Settings struct {
	ShowGroups   bool   `json:"showGroups"`
	OpenAPIJSON  string `json:"openApiJson"`
	AsyncAPIJSON string `json:"asyncApiJson"`
}

// Session is safe for concurrent use. Every mutation invalidates the cached
// topology; Topology rebuilds it on demand.
type Session struct {
	builder *topology.Builder
	logger  *zap.Logger

	mu       sync.Mutex
	files    []models.IntegrationFile
	settings Settings
	selected string
	version  uint64

	graph        *models.Graph
	failures     []events.FileParseFailed
	graphVersion uint64
}

var _ interaction.Actions = (*Session)(nil)

func NewSession(builder *topology.Builder, settings Settings, logger *zap.Logger) *Session {
	if builder == nil {
		builder = topology.NewBuilder()
	}
	return &Session{
		builder:  builder,
		logger:   log.OrNop(logger),
		settings: settings,
		version:  1,
	}
}

// PutFile adds a file or replaces the code of an existing one.
func (s *Session) PutFile(name, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.files {
		if s.files[i].Name == name {
			s.files[i].Code = code
			s.version++
			return
		}
	}
	s.files = append(s.files, models.IntegrationFile{Name: name, Code: code})
	s.version++
}

func (s *Session) RemoveFile(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(name)
	if i < 0 {
		return fileNotFound(name)
	}
	s.files = append(s.files[:i], s.files[i+1:]...)
	if s.selected == name {
		s.selected = ""
	}
	s.version++
	return nil
}

func (s *Session) Files() []models.IntegrationFile {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.IntegrationFile, len(s.files))
	copy(out, s.files)
	return out
}

func (s *Session) File(name string) (models.IntegrationFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.indexLocked(name); i >= 0 {
		return s.files[i], true
	}
	return models.IntegrationFile{}, false
}

func (s *Session) SetSettings(settings Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings = settings
	s.version++
}

func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

func (s *Session) SelectedFile() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// Topology returns the model for the current files, rebuilding it when the
// session changed since the last build. A build that raced with a mutation is
// returned but not cached.
func (s *Session) Topology(ctx context.Context) *models.Graph {
	s.mu.Lock()
	if s.graph != nil && s.graphVersion == s.version {
		graph := s.graph
		s.mu.Unlock()
		return graph
	}
	version := s.version
	in := topology.Input{
		Files:        append([]models.IntegrationFile(nil), s.files...),
		ShowGroups:   s.settings.ShowGroups,
		OpenAPIJSON:  s.settings.OpenAPIJSON,
		AsyncAPIJSON: s.settings.AsyncAPIJSON,
	}
	s.mu.Unlock()

	recorder := events.NewRecorder(s.builder.Publisher())
	graph := s.builder.With(topology.WithPublisher(recorder)).Build(ctx, in)

	s.mu.Lock()
	if s.version == version {
		s.graph = graph
		s.failures = recorder.ParseFailures()
		s.graphVersion = version
	}
	s.mu.Unlock()

	return graph
}

// Notifications returns the parse failures of the last cached build.
func (s *Session) Notifications() []events.FileParseFailed {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]events.FileParseFailed, len(s.failures))
	copy(out, s.failures)
	return out
}

// Dispatch applies req to the node it names in the current topology.
func (s *Session) Dispatch(ctx context.Context, req interaction.Request) error {
	graph := s.Topology(ctx)
	if err := interaction.Dispatch(graph, req, s); err != nil {
		s.logger.Info("Action rejected",
			zap.String("node", req.NodeID),
			zap.String("action", string(req.Action)),
			zap.Error(err))
		return err
	}
	return nil
}

func (s *Session) SelectFile(file string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexLocked(file) < 0 {
		return fileNotFound(file)
	}
	s.selected = file
	return nil
}

func (s *Session) SetDisabled(file, routeID, elementID string, disabled bool) error {
	return s.edit(file, func(code []byte) ([]byte, error) {
		return setDisabled(file, code, routeID, elementID, disabled)
	})
}

func (s *Session) DeleteRoute(file, routeID string) error {
	return s.edit(file, func(code []byte) ([]byte, error) {
		return deleteRoute(file, code, routeID)
	})
}

func (s *Session) SetRouteGroup(file, routeID, group string) error {
	return s.edit(file, func(code []byte) ([]byte, error) {
		return setRouteGroup(file, code, routeID, group)
	})
}

func (s *Session) edit(file string, fn func(code []byte) ([]byte, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexLocked(file)
	if i < 0 {
		return fileNotFound(file)
	}

	code, err := fn([]byte(s.files[i].Code))
	if err != nil {
		return err
	}
	if string(code) == s.files[i].Code {
		return nil
	}

	s.files[i].Code = string(code)
	s.version++
	s.logger.Debug("File edited", zap.String("file", file), zap.Uint64("version", s.version))
	return nil
}

func (s *Session) indexLocked(name string) int {
	for i := range s.files {
		if s.files[i].Name == name {
			return i
		}
	}
	return -1
}

func fileNotFound(name string) error {
	return interaction.NewError(interaction.CodeFileNotFound, fmt.Sprintf("file %q not found", name))
}
