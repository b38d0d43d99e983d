package fs_test

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/resolvd/internal/adapters/fs"
)

func TestHost_MemExistence(t *testing.T) {
	host := fs.NewMemHost()
	require.NoError(t, host.WriteFile("/p/src/package.json", []byte(`{"name":"app"}`)))

	assert.True(t, host.PathExists("/p/src/package.json"))
	assert.False(t, host.PathExists("/p/src"), "directories are not files")
	assert.False(t, host.PathExists("/p/package.json"))

	assert.True(t, host.DirectoryExists("/p/src"))
	assert.False(t, host.DirectoryExists("/p/src/package.json"))
}

func TestHost_ReadFile(t *testing.T) {
	host := fs.NewMemHost()
	require.NoError(t, host.WriteFile("/p/a.ts", []byte("export {}")))

	data, err := host.ReadFile("/p/a.ts")
	require.NoError(t, err)
	assert.Equal(t, "export {}", string(data))

	_, err = host.ReadFile("/p/missing.ts")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestHost_Remove(t *testing.T) {
	host := fs.NewMemHost()
	require.NoError(t, host.WriteFile("/p/package.json", []byte("{}")))

	require.NoError(t, host.Remove("/p/package.json"))
	assert.False(t, host.PathExists("/p/package.json"))
	assert.Error(t, host.Remove("/p/package.json"))
}

func TestHost_WalkFiles(t *testing.T) {
	tmpDir := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "dir1"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "dir2"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "file1.ts"), []byte("content1"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "dir1", "file2.ts"), []byte("content2"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(tmpDir, "dir2", "file3.ts"), []byte("content3"), 0o600))

	root := filepath.ToSlash(tmpDir)
	files := slices.Collect(fs.NewOSHost().WalkFiles(root, nil))

	assert.Len(t, files, 3)
	assert.Contains(t, files, root+"/file1.ts")
	assert.Contains(t, files, root+"/dir1/file2.ts")
	assert.Contains(t, files, root+"/dir2/file3.ts")
}

func TestHost_WalkFiles_SkipsVCSAndIgnored(t *testing.T) {
	host := fs.NewMemHost()
	require.NoError(t, host.WriteFile("/p/.git/config", []byte("gitconfig")))
	require.NoError(t, host.WriteFile("/p/.jj/store", []byte("jjstore")))
	require.NoError(t, host.WriteFile("/p/node_modules/lib/index.d.ts", []byte("")))
	require.NoError(t, host.WriteFile("/p/src/main.ts", []byte("")))

	files := slices.Collect(host.WalkFiles("/p", []string{"node_modules"}))

	assert.Equal(t, []string{"/p/src/main.ts"}, files)
}

func TestHost_WalkFiles_MissingRoot(t *testing.T) {
	host := fs.NewMemHost()

	files := slices.Collect(host.WalkFiles("/nowhere", nil))

	assert.Empty(t, files)
}

func TestHost_WalkFiles_EarlyStop(t *testing.T) {
	host := fs.NewMemHost()
	require.NoError(t, host.WriteFile("/p/a.ts", nil))
	require.NoError(t, host.WriteFile("/p/b.ts", nil))

	count := 0
	for range host.WalkFiles("/p", nil) {
		count++
		break
	}

	assert.Equal(t, 1, count)
}

func TestCanonicalizer(t *testing.T) {
	tests := []struct {
		name          string
		caseSensitive bool
		in            string
		want          string
	}{
		{
			name:          "sensitive keeps case",
			caseSensitive: true,
			in:            "/User/Projects/App/package.json",
			want:          "/User/Projects/App/package.json",
		},
		{
			name:          "insensitive folds case",
			caseSensitive: false,
			in:            "/User/Projects/App/package.json",
			want:          "/user/projects/app/package.json",
		},
		{
			name:          "cleans path",
			caseSensitive: true,
			in:            "/a/./b/../c/",
			want:          "/a/c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := fs.NewCanonicalizer(tt.caseSensitive)
			assert.Equal(t, tt.want, c.ToCanonicalPath(tt.in))
		})
	}
}

func TestCanonicalizer_InsensitiveDeduplicates(t *testing.T) {
	c := fs.NewCanonicalizer(false)

	assert.Equal(t,
		c.ToCanonicalPath("/Projects/MyApp/package.json"),
		c.ToCanonicalPath("/projects/myapp/PACKAGE.JSON"))
}
