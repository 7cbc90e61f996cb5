package profile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/fsnotify.v1"
	"gopkg.in/yaml.v3"
)

// Change events passed to the OnChange callback.
const (
	EventCreate = "create"
	EventModify = "modify"
	EventRemove = "remove"
)

// Registry holds the available profiles. The built-in profile is always present.
type Registry struct {
	mu       sync.RWMutex
	profiles map[string]*Profile
	files    map[string]string
	dir      string
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	stopChan chan struct{}
	onChange func(event string, profile *Profile)
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for load and reload errors.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates a registry holding only the built-in profile.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		profiles: map[string]*Profile{BuiltinName: Builtin()},
		files:    make(map[string]string),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewRegistryWithDirectory creates a registry and loads the profiles in dir.
func NewRegistryWithDirectory(dir string, opts ...Option) (*Registry, error) {
	r := NewRegistry(opts...)
	if err := r.LoadDirectory(dir); err != nil {
		return nil, err
	}
	return r, nil
}

// Register compiles and adds a profile. A profile with the same name
// replaces the registered one unless the versions are equal.
func (r *Registry) Register(p *Profile) error {
	if p == nil {
		return fmt.Errorf("profile cannot be nil")
	}
	if !p.IsCompiled() {
		if err := p.Compile(); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.profiles[p.Name]; ok && existing.Version == p.Version {
		return fmt.Errorf("profile %q version %s already registered", p.Name, p.Version)
	}
	r.profiles[p.Name] = p
	return nil
}

// Unregister removes a profile. Removing the built-in profile restores its
// built-in definition.
func (r *Registry) Unregister(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unregisterLocked(name)
}

func (r *Registry) unregisterLocked(name string) error {
	if _, ok := r.profiles[name]; !ok {
		return fmt.Errorf("profile %q not found", name)
	}
	if name == BuiltinName {
		r.profiles[name] = Builtin()
		return nil
	}
	delete(r.profiles, name)
	return nil
}

// Get returns a profile by name.
func (r *Registry) Get(name string) (*Profile, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[name]
	return p, ok
}

// List returns all profiles sorted by name.
func (r *Registry) List() []*Profile {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]*Profile, 0, len(r.profiles))
	for _, p := range r.profiles {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].Name < profiles[j].Name
	})
	return profiles
}

// Count returns the number of registered profiles.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.profiles)
}

// LoadDirectory loads every YAML profile in dir. A missing directory loads
// nothing. Files that fail to load are skipped and reported together.
func (r *Registry) LoadDirectory(dir string) error {
	r.mu.Lock()
	r.dir = dir
	r.mu.Unlock()

	info, err := os.Stat(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading directory %s: %w", dir, err)
	}

	var loadErrors []error
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := r.LoadFile(path); err != nil {
			r.logger.Warn("Skipping profile", zap.String("file", path), zap.Error(err))
			loadErrors = append(loadErrors, fmt.Errorf("%s: %w", entry.Name(), err))
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("errors loading profiles: %w", errors.Join(loadErrors...))
	}
	return nil
}

// LoadFile loads and registers a single profile file. Unknown keys are rejected.
func (r *Registry) LoadFile(path string) error {
	p, err := ReadFile(path)
	if err != nil {
		return err
	}
	if err := r.Register(p); err != nil {
		return fmt.Errorf("registering profile: %w", err)
	}

	r.mu.Lock()
	r.files[path] = p.Name
	r.mu.Unlock()

	r.logger.Debug("Loaded profile",
		zap.String("name", p.Name),
		zap.String("version", p.Version),
		zap.String("file", path))
	return nil
}

// ReadFile decodes and compiles a profile file without registering it.
func ReadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	var p Profile
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	p.source = path

	if err := p.Compile(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Reload drops every loaded profile and loads the configured directory again.
func (r *Registry) Reload() error {
	r.mu.Lock()
	dir := r.dir
	if dir == "" {
		r.mu.Unlock()
		return fmt.Errorf("no directory configured for reload")
	}
	r.profiles = map[string]*Profile{BuiltinName: Builtin()}
	r.files = make(map[string]string)
	r.mu.Unlock()

	return r.LoadDirectory(dir)
}

// SetOnChange sets a callback invoked after a watched file changes.
// The profile is nil when a removed file had not been loaded.
func (r *Registry) SetOnChange(fn func(event string, profile *Profile)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onChange = fn
}

// Watch starts watching the profile directory for changes.
func (r *Registry) Watch() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.dir == "" {
		return fmt.Errorf("no directory configured for watching")
	}
	if r.watcher != nil {
		return fmt.Errorf("already watching %s", r.dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(r.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watching directory %s: %w", r.dir, err)
	}

	r.watcher = watcher
	r.stopChan = make(chan struct{})
	go r.watchLoop(watcher, r.stopChan)

	r.logger.Info("Watching profile directory", zap.String("dir", r.dir))
	return nil
}

func (r *Registry) watchLoop(watcher *fsnotify.Watcher, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !isYAML(event.Name) {
				continue
			}

			switch {
			case event.Op&fsnotify.Create == fsnotify.Create:
				r.handleFileChange(event.Name, EventCreate)
			case event.Op&fsnotify.Write == fsnotify.Write:
				r.handleFileChange(event.Name, EventModify)
			case event.Op&fsnotify.Remove == fsnotify.Remove,
				event.Op&fsnotify.Rename == fsnotify.Rename:
				r.handleFileRemove(event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.logger.Error("Profile watcher error", zap.Error(err))
		}
	}
}

func (r *Registry) handleFileChange(path, event string) {
	p, err := ReadFile(path)
	if err != nil {
		// Editors write files in several steps; the next write event retries.
		r.logger.Warn("Failed to reload profile", zap.String("file", path), zap.Error(err))
		return
	}

	r.mu.Lock()
	if previous, ok := r.files[path]; ok && previous != p.Name {
		_ = r.unregisterLocked(previous)
	}
	r.profiles[p.Name] = p
	r.files[path] = p.Name
	onChange := r.onChange
	r.mu.Unlock()

	r.logger.Info("Reloaded profile",
		zap.String("event", event),
		zap.String("name", p.Name),
		zap.String("version", p.Version))
	if onChange != nil {
		onChange(event, p)
	}
}

func (r *Registry) handleFileRemove(path string) {
	r.mu.Lock()
	var removed *Profile
	if name, ok := r.files[path]; ok {
		removed = r.profiles[name]
		delete(r.files, path)
		_ = r.unregisterLocked(name)
	}
	onChange := r.onChange
	r.mu.Unlock()

	r.logger.Info("Removed profile file", zap.String("file", path))
	if onChange != nil {
		onChange(EventRemove, removed)
	}
}

// StopWatch stops watching the profile directory.
func (r *Registry) StopWatch() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stopChan != nil {
		close(r.stopChan)
		r.stopChan = nil
	}
	if r.watcher != nil {
		r.watcher.Close()
		r.watcher = nil
	}
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
