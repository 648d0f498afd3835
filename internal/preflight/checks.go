package preflight

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"

	"scribe/internal/asr"
)

const engineCheckTimeout = 5 * time.Second

// CheckBinary verifies that command resolves on PATH.
func CheckBinary(name, command string) Result {
	if command == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	path, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s not found on PATH", command)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckDirectoryReadable verifies that the directory exists and can be listed.
func CheckDirectoryReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "readable")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if path == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckFreeSpace verifies that the filesystem holding path has at least
// minBytes available to unprivileged users.
func CheckFreeSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	available := uint64(stat.Bavail) * uint64(stat.Bsize)
	detail := fmt.Sprintf("%s free on %s", humanize.IBytes(available), path)
	if available < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (need %s)", detail, humanize.IBytes(minBytes))}
	}
	return Result{Name: name, Passed: true, Detail: detail}
}

// CheckEngine verifies that the ASR engine is reachable.
func CheckEngine(ctx context.Context, engine asr.Engine) Result {
	const name = "ASR engine"
	if engine == nil {
		return Result{Name: name, Detail: "not configured"}
	}
	checkCtx, cancel := context.WithTimeout(ctx, engineCheckTimeout)
	defer cancel()
	if err := engine.IsAvailable(checkCtx); err != nil {
		if checkCtx.Err() != nil {
			return Result{Name: name, Detail: fmt.Sprintf("%s (health check timed out)", engine.Describe())}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (%v)", engine.Describe(), err)}
	}
	return Result{Name: name, Passed: true, Detail: engine.Describe()}
}
