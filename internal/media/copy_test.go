package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/assets"
)

func srcFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()
	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}
	return fs
}

type fakeEncoder struct {
	fail  bool
	calls int
}

func (f *fakeEncoder) Encode(_ context.Context, src, dst string) error {
	f.calls++
	if f.fail {
		return errors.New("boom")
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, append([]byte("enc:"), data...), 0o600)
}

func read(t *testing.T, path string) string {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(raw)
}

func TestCopy(t *testing.T) {
	fs := srcFS(t, map[string]string{
		"uploads/logo.png":   "png",
		"uploads/copy.png":   "png",
		"assets/files/a.pdf": "pdf",
	})
	dest := t.TempDir()
	reqs := []assets.CopyRequest{
		{Source: "assets/files/a.pdf", Target: "assets/files/a.pdf"},
		{Source: "uploads/logo.png", Target: "assets/images/logo.png"},
		{Source: "uploads/copy.png", Target: "assets/images/copy.png"},
		{Source: "uploads/missing.png", Target: "assets/images/missing.png"},
	}
	log := anomaly.NewLog()

	sum, err := Copy(t.Context(), fs, dest, reqs, Options{Concurrency: 2}, log)
	require.NoError(t, err)
	assert.Equal(t, Summary{Copied: 2, Linked: 1, Failed: 1, Bytes: 6}, sum)
	assert.Equal(t, 3, sum.Total())
	assert.Equal(t, "pdf", read(t, filepath.Join(dest, "assets/files/a.pdf")))
	assert.Equal(t, "png", read(t, filepath.Join(dest, "assets/images/copy.png")))
	require.Equal(t, 1, log.Count(anomaly.CodeAssetCopyFailed))
	assert.Equal(t, "uploads/missing.png", log.Entries()[0].Token)

	again, err := Copy(t.Context(), fs, dest, reqs[:2], Options{}, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{Unchanged: 2}, again)
}

func TestCopyEncodesRasterImages(t *testing.T) {
	fs := srcFS(t, map[string]string{"a.jpg": "jpg", "b.svg": "svg", "c.png": "png"})
	dest := t.TempDir()
	reqs := []assets.CopyRequest{
		{Source: "a.jpg", Target: "assets/images/a.jpg"},
		{Source: "b.svg", Target: "assets/images/b.svg"},
	}
	enc := &fakeEncoder{}

	sum, err := Copy(t.Context(), fs, dest, reqs, Options{Encoder: enc}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Encoded)
	assert.Equal(t, 1, enc.calls)
	assert.Equal(t, "enc:jpg", read(t, filepath.Join(dest, "assets/images/a.jpg")))
	assert.Equal(t, "svg", read(t, filepath.Join(dest, "assets/images/b.svg")))

	failing := &fakeEncoder{fail: true}
	sum, err = Copy(t.Context(), fs, dest, []assets.CopyRequest{{Source: "c.png", Target: "assets/images/c.png"}}, Options{Encoder: failing}, nil)
	require.NoError(t, err)
	assert.Zero(t, sum.Encoded)
	assert.Equal(t, "png", read(t, filepath.Join(dest, "assets/images/c.png")))
}

func TestCopySkipsPreviouslyEncodedImages(t *testing.T) {
	fs := srcFS(t, map[string]string{"uploads/team.jpg": "jpg"})
	dest := t.TempDir()
	reqs := []assets.CopyRequest{{Source: "uploads/team.jpg", Target: "assets/images/team.jpg"}}
	enc := &fakeEncoder{}

	first, err := Copy(t.Context(), fs, dest, reqs, Options{Encoder: enc}, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{Copied: 1, Encoded: 1, Bytes: 3}, first)

	second, err := Copy(t.Context(), fs, dest, reqs, Options{Encoder: enc}, nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{Unchanged: 1}, second)
	assert.Equal(t, 1, enc.calls)
	assert.Equal(t, "enc:jpg", read(t, filepath.Join(dest, "assets/images/team.jpg")))

	require.NoError(t, util.WriteFile(fs, "uploads/team.jpg", []byte("jpg2"), 0o644))
	third, err := Copy(t.Context(), fs, dest, reqs, Options{Encoder: enc}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, third.Encoded, "changed source is encoded again")
	assert.Equal(t, 2, enc.calls)
	assert.Equal(t, "enc:jpg2", read(t, filepath.Join(dest, "assets/images/team.jpg")))
}

func TestCopyCanceled(t *testing.T) {
	fs := srcFS(t, map[string]string{"a.pdf": "x"})
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := Copy(ctx, fs, t.TempDir(), []assets.CopyRequest{{Source: "a.pdf", Target: "assets/files/a.pdf"}}, Options{}, nil)
	require.ErrorIs(t, err, context.Canceled)
}
