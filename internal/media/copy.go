// Package media copies the media files referenced by a document set into the
// public output tree.
package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	billy "github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/dumpsite/internal/anomaly"
	"git.home.luguber.info/inful/dumpsite/internal/assets"
	"git.home.luguber.info/inful/dumpsite/internal/imaging"
	"git.home.luguber.info/inful/dumpsite/internal/logfields"
)

// PublicDir is the output subdirectory media is copied into.
const PublicDir = "public"

const defaultConcurrency = 8

// Options tunes Copy.
type Options struct {
	Concurrency int
	// Encoder, when set, re-encodes raster images after they are written. A
	// failing encode keeps the original bytes.
	Encoder imaging.Encoder
}

// Summary counts what Copy did.
type Summary struct {
	Copied    int   `json:"copied"`
	Unchanged int   `json:"unchanged"`
	Linked    int   `json:"linked"`
	Encoded   int   `json:"encoded"`
	Failed    int   `json:"failed"`
	Bytes     int64 `json:"bytes"`
}

// Total is the number of requests that produced a target file.
func (s Summary) Total() int { return s.Copied + s.Unchanged + s.Linked }

type loaded struct {
	data      []byte
	hash      xxh3.Uint128
	unchanged bool
	err       error
}

// Copy reads every request from src and writes it below destRoot. Reads run
// concurrently; writes happen in request order. Targets with content identical
// to an earlier target are hard-linked to it, and targets whose file already
// holds the same content are left alone. Encoded targets keep the source hash
// in a hidden sidecar so later runs skip them too. Failures are recorded as
// ASSET_COPY_FAILED and never abort the copy.
func Copy(ctx context.Context, src billy.Filesystem, destRoot string, reqs []assets.CopyRequest, opts Options, rec anomaly.Recorder) (Summary, error) {
	if rec == nil {
		rec = anomaly.Discard{}
	}
	limit := opts.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}

	results := make([]loaded, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = load(src, req, destRoot)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Summary{}, err
	}

	var sum Summary
	firstByHash := make(map[xxh3.Uint128]string, len(reqs))
	for i, req := range reqs {
		res := results[i]
		dst := filepath.Join(destRoot, filepath.FromSlash(req.Target))
		if res.err != nil {
			sum.Failed++
			recordFailure(rec, req, res.err)
			continue
		}
		first, dup := firstByHash[res.hash]
		if !dup {
			firstByHash[res.hash] = dst
		}
		switch {
		case res.unchanged:
			sum.Unchanged++
		case dup:
			if err := link(first, dst, res.data); err != nil {
				sum.Failed++
				recordFailure(rec, req, err)
				continue
			}
			sum.Linked++
		default:
			if err := write(dst, res.data); err != nil {
				sum.Failed++
				recordFailure(rec, req, err)
				continue
			}
			sum.Copied++
			sum.Bytes += int64(len(res.data))
			if opts.Encoder != nil && assets.IsRaster(req.Target) && encode(ctx, opts.Encoder, dst) {
				sum.Encoded++
				if err := os.WriteFile(sidecarPath(dst), []byte(hashString(res.hash)), 0o644); err != nil {
					slog.Warn("Encoded hash not recorded", logfields.Path(dst), logfields.Error(err))
				}
			} else {
				_ = os.Remove(sidecarPath(dst))
			}
		}
	}

	slog.Info("Media copied",
		slog.Int("copied", sum.Copied),
		slog.Int("unchanged", sum.Unchanged),
		slog.Int("linked", sum.Linked),
		slog.Int("failed", sum.Failed),
		slog.String("size", humanize.Bytes(uint64(sum.Bytes))))
	return sum, nil
}

func load(src billy.Filesystem, req assets.CopyRequest, destRoot string) loaded {
	data, err := util.ReadFile(src, req.Source)
	if err != nil {
		return loaded{err: err}
	}
	res := loaded{data: data, hash: xxh3.Hash128(data)}
	dst := filepath.Join(destRoot, filepath.FromSlash(req.Target))
	existing, err := os.ReadFile(dst)
	if err != nil {
		return res
	}
	if xxh3.Hash128(existing) == res.hash {
		res.unchanged = true
	} else if recorded, err := os.ReadFile(sidecarPath(dst)); err == nil && string(recorded) == hashString(res.hash) {
		res.unchanged = true
	}
	return res
}

// sidecarPath names the file holding the source hash of an encoded target.
func sidecarPath(dst string) string {
	return filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+".xxh3")
}

func hashString(h xxh3.Uint128) string {
	return fmt.Sprintf("%016x%016x", h.Hi, h.Lo)
}

func write(dst string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	tmp := dst + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// link hard-links dst to first, writing a copy when linking is not possible.
func link(first, dst string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o750); err != nil {
		return err
	}
	_ = os.Remove(dst)
	if err := os.Link(first, dst); err == nil {
		return nil
	}
	return write(dst, data)
}

// encode replaces dst with its re-encoded form and reports whether it did.
func encode(ctx context.Context, enc imaging.Encoder, dst string) bool {
	tmp := dst + ".enc" + filepath.Ext(dst)
	if err := enc.Encode(ctx, dst, tmp); err != nil {
		_ = os.Remove(tmp)
		slog.Warn("Image encode failed, keeping original", logfields.Path(dst), logfields.Error(err))
		return false
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		slog.Warn("Image encode rename failed", logfields.Path(dst), logfields.Error(err))
		return false
	}
	return true
}

func recordFailure(rec anomaly.Recorder, req assets.CopyRequest, err error) {
	slog.Warn("Media copy failed", logfields.Asset(req.Source), logfields.Error(err))
	rec.Record(anomaly.Entry{
		Code:    anomaly.CodeAssetCopyFailed,
		Kind:    "asset",
		Token:   req.Source,
		Message: fmt.Sprintf("copy to %s: %v", req.Target, err),
	})
}
