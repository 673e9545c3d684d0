package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"

	"github.com/docker/go-units"

	"github.com/jbweber/kiln/internal/config"
	"github.com/jbweber/kiln/internal/logging"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

// ExecRunner runs the command with os/exec.
func ExecRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// QemuImg drives the qemu-img binary.
type QemuImg struct {
	binary string
	run    Runner
	logger *slog.Logger
}

// NewQemuImg returns a QemuImg using qemu-img from PATH.
func NewQemuImg(logger *slog.Logger) *QemuImg {
	return NewQemuImgWithRunner(DefaultQemuImg, ExecRunner, logger)
}

// NewQemuImgWithRunner returns a QemuImg with an injected binary and runner.
func NewQemuImgWithRunner(binary string, run Runner, logger *slog.Logger) *QemuImg {
	if binary == "" {
		binary = DefaultQemuImg
	}
	return &QemuImg{
		binary: binary,
		run:    run,
		logger: logging.Ensure(logger).With("component", "qemu-img"),
	}
}

func (q *QemuImg) exec(ctx context.Context, args ...string) ([]byte, error) {
	q.logger.Debug("running", "args", strings.Join(args, " "))
	out, err := q.run(ctx, q.binary, args...)
	if err != nil {
		return out, &config.ExternalToolFailure{
			Tool:   q.binary,
			Args:   args,
			Output: string(out),
			Err:    err,
		}
	}
	return out, nil
}

// Info returns the parsed `qemu-img info` output for path.
func (q *QemuImg) Info(ctx context.Context, path string) (*ImageInfo, error) {
	out, err := q.exec(ctx, "info", "--output=json", path)
	if err != nil {
		return nil, err
	}
	var info ImageInfo
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, &config.ExternalToolFailure{
			Tool:   q.binary,
			Args:   []string{"info", "--output=json", path},
			Output: string(out),
			Err:    fmt.Errorf("failed to parse image info: %w", err),
		}
	}
	return &info, nil
}

// ImageFormat returns the on-disk format of path as reported by qemu-img.
func (q *QemuImg) ImageFormat(ctx context.Context, path string) (string, error) {
	info, err := q.Info(ctx, path)
	if err != nil {
		return "", err
	}
	if info.Format == "" {
		return "", &config.ExternalToolFailure{
			Tool: q.binary,
			Args: []string{"info", "--output=json", path},
			Err:  fmt.Errorf("no format reported for %s", path),
		}
	}
	return info.Format, nil
}

// Create makes a new empty image. size accepts human sizes such as "20G".
func (q *QemuImg) Create(ctx context.Context, path string, format config.DiskFormat, size string) error {
	if strings.TrimSpace(path) == "" {
		return config.Validation("disk path", "path is required")
	}
	if format == "" || format == config.FormatAuto {
		format = config.ResolveFormat(config.DiskEntry{Path: path, Format: config.FormatAuto})
	}
	if format != config.FormatQCOW2 && format != config.FormatRaw {
		return config.Validation("format", "cannot create %q images (must be qcow2 or raw)", format)
	}
	sizeBytes, err := units.RAMInBytes(strings.TrimSpace(size))
	if err != nil || sizeBytes <= 0 {
		return config.Validation("size", "%q is not a disk size (e.g. 20G, 512M)", size)
	}

	if _, err := q.exec(ctx, "create", "-f", string(format), path, strconv.FormatInt(sizeBytes, 10)); err != nil {
		return err
	}
	q.logger.Info("created image", "path", path, "format", format, "size", units.BytesSize(float64(sizeBytes)))
	return nil
}

// SnapshotCreate records an internal snapshot named name in path.
func (q *QemuImg) SnapshotCreate(ctx context.Context, path, name string) error {
	_, err := q.exec(ctx, "snapshot", "-c", name, path)
	return err
}

// SnapshotDelete removes the internal snapshot tag from path.
func (q *QemuImg) SnapshotDelete(ctx context.Context, path, tag string) error {
	_, err := q.exec(ctx, "snapshot", "-d", tag, path)
	return err
}

// SnapshotList returns the raw `qemu-img snapshot -l` table for path.
func (q *QemuImg) SnapshotList(ctx context.Context, path string) (string, error) {
	out, err := q.exec(ctx, "snapshot", "-l", path)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
