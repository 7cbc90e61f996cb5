package profile

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/coolbeans/harvester/pkg/element"
	"github.com/coolbeans/harvester/pkg/errdefs"
	"github.com/coolbeans/harvester/pkg/split"
)

const regelingProfile = `name: regeling
version: "1.0"
description: Ministeriële regelingen met bijlagen
levels:
  - level: document
    types: [document]
    kind: container
  - level: hoofdstuk
    types: [division]
    kind: container
  - level: artikel
    types: [article]
    kind: internal
  - level: lid
    types: [paragraph]
    kind: leaf
elements:
  structural:
    bijlage: division
    bijlage-artikel: article
  inline: [markering]
  ignore:
    - toelichting
`

func writeProfile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestNewRegistryHasBuiltin(t *testing.T) {
	r := NewRegistry()

	p, ok := r.Get(BuiltinName)
	require.True(t, ok)
	assert.True(t, p.IsCompiled())
	assert.Equal(t, "builtin", p.Source())

	spec, ok := p.Hierarchy().Level("onderdeel")
	require.True(t, ok)
	assert.Equal(t, split.StrategyEnumeration, spec.Strategy)
	assert.Equal(t, 1, r.Count())
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "regeling.yaml", regelingProfile)
	writeProfile(t, dir, "notes.txt", "not a profile")

	r, err := NewRegistryWithDirectory(dir)
	require.NoError(t, err)
	require.Equal(t, 2, r.Count())

	p, ok := r.Get("regeling")
	require.True(t, ok)
	assert.Equal(t, "1.0", p.Version)
	assert.Equal(t, filepath.Join(dir, "regeling.yaml"), p.Source())

	spec, ok := p.Hierarchy().SpecFor(element.TypeParagraph)
	require.True(t, ok)
	assert.Equal(t, split.KindLeaf, spec.Kind)
	assert.Equal(t, split.StrategyLeaf, spec.Strategy)

	names := []string{}
	for _, listed := range r.List() {
		names = append(names, listed.Name)
	}
	assert.Equal(t, []string{BuiltinName, "regeling"}, names)
}

func TestLoadDirectoryMissing(t *testing.T) {
	r, err := NewRegistryWithDirectory(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Equal(t, 1, r.Count())
}

func TestLoadDirectoryReportsBadFiles(t *testing.T) {
	dir := t.TempDir()
	writeProfile(t, dir, "good.yaml", regelingProfile)
	writeProfile(t, dir, "conflict.yml", `name: conflict
version: "1"
levels:
  - level: artikel
    types: [article]
    kind: internal
  - level: art
    types: [article]
    kind: internal
`)

	core, logs := observer.New(zap.WarnLevel)
	r := NewRegistry(WithLogger(zap.New(core)))
	err := r.LoadDirectory(dir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errdefs.ErrConfiguration))
	assert.Contains(t, err.Error(), "conflict.yml")

	_, ok := r.Get("regeling")
	assert.True(t, ok, "valid files still load")
	_, ok = r.Get("conflict")
	assert.False(t, ok)
	assert.Equal(t, 1, logs.FilterMessage("Skipping profile").Len())
}

func TestReadFileRejectsInvalidProfiles(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing name", "version: \"1\"\n"},
		{"missing version", "name: x\n"},
		{"unknown key", "name: x\nversion: \"1\"\nlevelz: []\n"},
		{"non structural type", "name: x\nversion: \"1\"\nelements:\n  structural:\n    vet: inline\n"},
		{"duplicate of builtin tag", "name: x\nversion: \"1\"\nelements:\n  inline: [artikel]\n"},
		{"malformed", "name: [x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeProfile(t, t.TempDir(), "p.yaml", tt.content)
			_, err := ReadFile(path)
			require.Error(t, err)
		})
	}
}

func TestElementRegistryExtensions(t *testing.T) {
	path := writeProfile(t, t.TempDir(), "regeling.yaml", regelingProfile)
	p, err := ReadFile(path)
	require.NoError(t, err)

	reg, err := p.ElementRegistry()
	require.NoError(t, err)
	assert.False(t, reg.Sealed())
	for _, tag := range []string{"bijlage", "bijlage-artikel", "markering", "toelichting", "artikel"} {
		assert.True(t, reg.Has(tag), tag)
	}

	doc, err := element.NewEngine(reg).Parse([]byte(
		`<regeling><bijlage><kop><titel>Bijlage 1</titel></kop><bijlage-artikel nr="1"><lid nr="1">Tekst <markering>A</markering></lid></bijlage-artikel><toelichting>weg</toelichting></bijlage></regeling>`))
	require.NoError(t, err)
	assert.Empty(t, doc.Warnings)

	root, err := split.NewEngine(p.Hierarchy()).Split(doc.Root)
	require.NoError(t, err)
	require.NotNil(t, root.Find("1.1"))
	assert.Equal(t, "Tekst A", root.Find("1.1").Text)
	assert.Equal(t, []string{"bijlage Bijlage 1"}, root.Find("1").Context)

	again, err := p.ElementRegistry()
	require.NoError(t, err)
	assert.NotSame(t, reg, again)
}

func TestRegisterVersions(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Profile{Name: "x", Version: "1"}))
	assert.Error(t, r.Register(&Profile{Name: "x", Version: "1"}))
	require.NoError(t, r.Register(&Profile{Name: "x", Version: "2"}))

	p, ok := r.Get("x")
	require.True(t, ok)
	assert.Equal(t, "2", p.Version)
	assert.Error(t, r.Register(nil))
}

func TestUnregister(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(&Profile{Name: "x", Version: "1"}))
	require.NoError(t, r.Unregister("x"))
	assert.Error(t, r.Unregister("x"))

	require.NoError(t, r.Register(&Profile{Name: BuiltinName, Version: "custom"}))
	require.NoError(t, r.Unregister(BuiltinName))
	p, ok := r.Get(BuiltinName)
	require.True(t, ok)
	assert.Equal(t, "builtin", p.Version)
}

func TestReload(t *testing.T) {
	dir := t.TempDir()
	path := writeProfile(t, dir, "regeling.yaml", regelingProfile)

	r, err := NewRegistryWithDirectory(dir)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))
	require.NoError(t, r.Reload())

	_, ok := r.Get("regeling")
	assert.False(t, ok)
	assert.Equal(t, 1, r.Count())

	assert.Error(t, NewRegistry().Reload())
}

func TestWatch(t *testing.T) {
	dir := t.TempDir()
	r, err := NewRegistryWithDirectory(dir)
	require.NoError(t, err)

	var mu sync.Mutex
	var events []string
	r.SetOnChange(func(event string, _ *Profile) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, event)
	})

	require.NoError(t, r.Watch())
	defer r.StopWatch()
	assert.Error(t, r.Watch(), "second watch is rejected")

	path := writeProfile(t, dir, "regeling.yaml", regelingProfile)
	require.Eventually(t, func() bool {
		_, ok := r.Get("regeling")
		return ok
	}, 5*time.Second, 20*time.Millisecond)

	require.NoError(t, os.Remove(path))
	require.Eventually(t, func() bool {
		_, ok := r.Get("regeling")
		return !ok
	}, 5*time.Second, 20*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, events, EventRemove)
}

func TestWatchRequiresDirectory(t *testing.T) {
	assert.Error(t, NewRegistry().Watch())
}
