package watch_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/resolvd/internal/adapters/fs"
	"go.trai.ch/resolvd/internal/core/domain"
	"go.trai.ch/resolvd/internal/core/ports"
	"go.trai.ch/resolvd/internal/core/ports/mocks"
	"go.trai.ch/resolvd/internal/engine/watch"
	"go.uber.org/mock/gomock"
)

func TestRegistry_FileWatchRefCountsDirectory(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsw := mocks.NewMockFSWatcher(ctrl)
	fsw.EXPECT().Add("/p").Return(nil).Times(1)
	fsw.EXPECT().Remove("/p").Return(nil).Times(1)

	reg := watch.NewRegistry(fsw, fs.NewCanonicalizer(true))

	h1, err := reg.WatchFile("/p/package.json", func(ports.WatchEvent) {})
	require.NoError(t, err)
	h2, err := reg.WatchFile("/p/tsconfig.json", func(ports.WatchEvent) {})
	require.NoError(t, err)
	assert.Equal(t, 1, reg.OSWatches())

	require.NoError(t, h1.Close())
	assert.Equal(t, 1, reg.OSWatches(), "still referenced by the second handle")
	require.NoError(t, h1.Close(), "closing twice is a no-op")

	require.NoError(t, h2.Close())
	assert.Zero(t, reg.OSWatches())
}

func TestRegistry_Dispatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsw := mocks.NewMockFSWatcher(ctrl)
	fsw.EXPECT().Add(gomock.Any()).Return(nil).AnyTimes()

	reg := watch.NewRegistry(fsw, fs.NewCanonicalizer(true))

	var fileEvents, dirEvents, otherEvents []ports.WatchEvent
	_, err := reg.WatchFile("/p/package.json", func(e ports.WatchEvent) { fileEvents = append(fileEvents, e) })
	require.NoError(t, err)
	_, err = reg.WatchDirectory("/p", func(e ports.WatchEvent) { dirEvents = append(dirEvents, e) })
	require.NoError(t, err)
	_, err = reg.WatchFile("/q/package.json", func(e ports.WatchEvent) { otherEvents = append(otherEvents, e) })
	require.NoError(t, err)

	n := reg.Dispatch(ports.WatchEvent{Path: "/p/package.json", Operation: ports.OpRemove})
	assert.Equal(t, 2, n)

	n = reg.Dispatch(ports.WatchEvent{Path: "/p/src/a.ts", Operation: ports.OpWrite})
	assert.Zero(t, n, "directory watches are not recursive")

	require.Len(t, fileEvents, 1)
	assert.Equal(t, ports.OpRemove, fileEvents[0].Operation)
	assert.Len(t, dirEvents, 1)
	assert.Empty(t, otherEvents)
}

func TestRegistry_Dispatch_Canonical(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsw := mocks.NewMockFSWatcher(ctrl)
	fsw.EXPECT().Add("/proj").Return(nil)

	reg := watch.NewRegistry(fsw, fs.NewCanonicalizer(false))

	calls := 0
	_, err := reg.WatchFile("/Proj/package.json", func(ports.WatchEvent) { calls++ })
	require.NoError(t, err)

	reg.Dispatch(ports.WatchEvent{Path: "/PROJ/PACKAGE.JSON", Operation: ports.OpWrite})

	assert.Equal(t, 1, calls)
	assert.True(t, reg.Watched("/proj/package.json"))
}

func TestRegistry_WatchFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsw := mocks.NewMockFSWatcher(ctrl)
	fsw.EXPECT().Add("/locked").Return(errors.New("permission denied"))

	reg := watch.NewRegistry(fsw, fs.NewCanonicalizer(true))

	h, err := reg.WatchFile("/locked/package.json", func(ports.WatchEvent) {})

	require.Error(t, err)
	assert.Nil(t, h)
	assert.ErrorIs(t, err, domain.ErrWatchFailed)
	assert.Zero(t, reg.OSWatches())
	assert.False(t, reg.Watched("/locked/package.json"))
}

func TestRegistry_CallbackMaySubscribe(t *testing.T) {
	ctrl := gomock.NewController(t)
	fsw := mocks.NewMockFSWatcher(ctrl)
	fsw.EXPECT().Add(gomock.Any()).Return(nil).AnyTimes()

	reg := watch.NewRegistry(fsw, fs.NewCanonicalizer(true))

	_, err := reg.WatchFile("/p/package.json", func(ports.WatchEvent) {
		_, err := reg.WatchFile("/package.json", func(ports.WatchEvent) {})
		assert.NoError(t, err)
	})
	require.NoError(t, err)

	reg.Dispatch(ports.WatchEvent{Path: "/p/package.json", Operation: ports.OpRemove})

	assert.True(t, reg.Watched("/package.json"))
}
