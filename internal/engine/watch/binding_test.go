package watch_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/resolvd/internal/adapters/events"
	"go.trai.ch/resolvd/internal/adapters/fs"
	"go.trai.ch/resolvd/internal/adapters/watcher"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/resolvd/internal/core/ports/mocks"
	"go.trai.ch/resolvd/internal/engine/watch"
	"go.uber.org/mock/gomock"
)

const owner = "/p/src/tsconfig.json"

func newBinding(t *testing.T, log ports.Logger) (*watch.Binding, *watch.Registry, *watcher.MemWatcher, *events.Recorder) {
	t.Helper()

	mem := watcher.NewMemWatcher()
	reg := watch.NewRegistry(mem, fs.NewCanonicalizer(true))
	rec := events.NewRecorder()
	b := watch.NewBinding(reg, owner, func(ports.WatchEvent) {}, log, rec)
	return b, reg, mem, rec
}

func TestBinding_Sync(t *testing.T) {
	ctrl := gomock.NewController(t)
	b, reg, mem, rec := newBinding(t, mocks.NewMockLogger(ctrl))

	b.Sync([]watch.Target{
		watch.FileTarget("/p/src/package.json"),
		watch.FileTarget("/p/package.json"),
		watch.DirectoryTarget("/p/src"),
	})

	assert.Equal(t, []watch.Target{
		watch.FileTarget("/p/package.json"),
		watch.DirectoryTarget("/p/src"),
		watch.FileTarget("/p/src/package.json"),
	}, b.Watched())
	assert.Equal(t, []string{"/p", "/p/src"}, mem.Watched())
	assert.Equal(t, 3, rec.Count(domain.EventWatchAdded))

	rec.Reset()
	released := b.Sync([]watch.Target{watch.FileTarget("/p/package.json")})

	assert.Equal(t, []watch.Target{watch.FileTarget("/p/package.json")}, b.Watched())
	assert.Equal(t, []string{"/p"}, mem.Watched(), "the /p/src watch was released")
	assert.False(t, reg.Watched("/p/src/package.json"))
	assert.Equal(t, []watch.Target{
		watch.DirectoryTarget("/p/src"),
		watch.FileTarget("/p/src/package.json"),
	}, released)
	assert.Equal(t, []string{
		"watch closed at /p/src/ for " + owner,
		"watch closed at /p/src/package.json for " + owner,
	}, rec.Lines())
}

func TestBinding_Sync_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	b, _, _, rec := newBinding(t, mocks.NewMockLogger(ctrl))
	targets := []watch.Target{watch.FileTarget("/p/package.json")}

	b.Sync(targets)
	b.Sync(targets)

	assert.Equal(t, 1, rec.Count(domain.EventWatchAdded))
	assert.Zero(t, rec.Count(domain.EventWatchClosed))
}

func TestBinding_Sync_FailureDegrades(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "cannot watch /locked/package.json")
	}).Times(1)

	b, _, mem, rec := newBinding(t, log)
	mem.Deny("/locked")

	targets := []watch.Target{
		watch.FileTarget("/locked/package.json"),
		watch.FileTarget("/p/package.json"),
	}
	b.Sync(targets)
	b.Sync(targets)

	assert.Equal(t, []watch.Target{watch.FileTarget("/p/package.json")}, b.Watched(), "other targets are still watched")
	assert.Equal(t, []watch.Target{watch.FileTarget("/locked/package.json")}, b.Failed())
	assert.Equal(t, 1, rec.Count(domain.EventWatchFailed), "warned once")
}

func TestBinding_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	b, _, mem, _ := newBinding(t, mocks.NewMockLogger(ctrl))

	b.Sync([]watch.Target{watch.FileTarget("/p/package.json")})
	require.NotEmpty(t, mem.Watched())

	released := b.Close()

	assert.Equal(t, []watch.Target{watch.FileTarget("/p/package.json")}, released)
	assert.False(t, b.Has(watch.FileTarget("/p/package.json")))
	assert.Empty(t, b.Watched())
	assert.Empty(t, mem.Watched())
}

type failingHandle struct{ err error }

func (h failingHandle) Close() error { return h.err }

func TestBinding_Sync_CloseErrorIsLogged(t *testing.T) {
	ctrl := gomock.NewController(t)
	host := mocks.NewMockWatchHost(ctrl)
	log := mocks.NewMockLogger(ctrl)
	rec := events.NewRecorder()

	host.EXPECT().WatchFile("/p/package.json", gomock.Any()).
		Return(failingHandle{err: errors.New("remove failed")}, nil)
	log.EXPECT().Warn(gomock.Any()).Do(func(msg string) {
		assert.Contains(t, msg, "cannot stop watching /p/package.json")
		assert.Contains(t, msg, "remove failed")
	}).Times(1)

	b := watch.NewBinding(host, owner, func(ports.WatchEvent) {}, log, rec)
	b.Sync([]watch.Target{watch.FileTarget("/p/package.json")})

	released := b.Close()

	assert.Equal(t, []watch.Target{watch.FileTarget("/p/package.json")}, released)
	assert.Empty(t, b.Watched(), "the target is dropped even when closing fails")
	assert.Equal(t, 1, rec.Count(domain.EventWatchClosed))
}

func TestBinding_DeliversEvents(t *testing.T) {
	ctrl := gomock.NewController(t)
	mem := watcher.NewMemWatcher()
	reg := watch.NewRegistry(mem, fs.NewCanonicalizer(true))

	var got []ports.WatchEvent
	b := watch.NewBinding(reg, owner, func(e ports.WatchEvent) { got = append(got, e) },
		mocks.NewMockLogger(ctrl), events.NewRecorder())
	b.Sync([]watch.Target{watch.FileTarget("/p/package.json")})

	require.True(t, mem.Send(ports.WatchEvent{Path: "/p/package.json", Operation: ports.OpWrite}))
	reg.Dispatch(<-mem.Events())

	require.Len(t, got, 1)
	assert.Equal(t, "/p/package.json", got[0].Path)
}
