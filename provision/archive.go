package provision

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// archiveKind is one of the three accepted archive forms.
type archiveKind int

const (
	archiveGzipTar archiveKind = iota
	archiveZstdTar
	archiveZip
)

func detectArchiveKind(url string) (archiveKind, error) {
	switch {
	case strings.HasSuffix(url, ".tar.gz") || strings.HasSuffix(url, ".tgz"):
		return archiveGzipTar, nil
	case strings.HasSuffix(url, ".tar.zst"):
		return archiveZstdTar, nil
	case strings.HasSuffix(url, ".zip"):
		return archiveZip, nil
	default:
		return 0, fmt.Errorf("unrecognized archive extension for %q", url)
	}
}

// extractArchive streams r (the raw download body) into destDir according
// to kind. Zip requires random access, so its body is spooled to a temp
// file first; the tar variants extract straight from the stream.
func extractArchive(r io.Reader, kind archiveKind, destDir string) error {
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create extraction dir: %w", err)
	}

	switch kind {
	case archiveGzipTar:
		gr, err := gzip.NewReader(r)
		if err != nil {
			return fmt.Errorf("gzip read error: %w", err)
		}
		defer gr.Close()
		return extractTar(tar.NewReader(gr), destDir)

	case archiveZstdTar:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return fmt.Errorf("zstd read error: %w", err)
		}
		defer zr.Close()
		return extractTar(tar.NewReader(zr), destDir)

	case archiveZip:
		tmp, err := os.CreateTemp("", "rustyhook-archive-*.zip")
		if err != nil {
			return fmt.Errorf("failed to create temp file: %w", err)
		}
		defer os.Remove(tmp.Name())
		defer tmp.Close()
		if _, err := io.Copy(tmp, r); err != nil {
			return fmt.Errorf("failed to spool zip download: %w", err)
		}
		zr, err := zip.OpenReader(tmp.Name())
		if err != nil {
			return fmt.Errorf("zip read error: %w", err)
		}
		defer zr.Close()
		return extractZip(&zr.Reader, destDir)

	default:
		return fmt.Errorf("unsupported archive kind %d", kind)
	}
}

func extractTar(tr *tar.Reader, destDir string) error {
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tar read error: %w", err)
		}
		target, err := safeJoin(destDir, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, os.FileMode(hdr.Mode))
			if err != nil {
				return err
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return fmt.Errorf("failed writing %s: %w", target, err)
			}
			f.Close()
		case tar.TypeSymlink:
			_ = os.Symlink(hdr.Linkname, target)
		}
	}
}

func extractZip(zr *zip.Reader, destDir string) error {
	for _, f := range zr.File {
		target, err := safeJoin(destDir, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode())
		if err != nil {
			rc.Close()
			return err
		}
		_, err = io.Copy(out, rc)
		rc.Close()
		out.Close()
		if err != nil {
			return fmt.Errorf("failed writing %s: %w", target, err)
		}
	}
	return nil
}

// safeJoin rejects archive entries that would escape destDir via ".." path
// components (a zip/tar-slip guard).
func safeJoin(destDir, name string) (string, error) {
	target := filepath.Join(destDir, name)
	if !strings.HasPrefix(target, filepath.Clean(destDir)+string(os.PathSeparator)) && target != filepath.Clean(destDir) {
		return "", fmt.Errorf("archive entry %q escapes destination directory", name)
	}
	return target, nil
}

// markExecutable marks path executable on POSIX; a no-op placeholder is
// unnecessary on Windows since downloaded binaries already carry .exe.
func markExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	return os.Chmod(path, info.Mode()|0o111)
}
