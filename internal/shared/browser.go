package shared

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// browserCommand returns the command that opens url in the default browser.
//
// Supports macOS, Linux, and Windows platforms.
func browserCommand(ctx context.Context, url string) (*exec.Cmd, error) {
	switch rt := getRuntime(); rt {
	case "darwin":
		return exec.CommandContext(ctx, "open", url), nil
	case "linux":
		return exec.CommandContext(ctx, "xdg-open", url), nil
	case "windows":
		return exec.CommandContext(ctx, "cmd", "/c", "start", url), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", rt)
	}
}

// OpenBrowser opens the default system browser to the specified URL.
func OpenBrowser(ctx context.Context, url string) error {
	if url == "" {
		return fmt.Errorf("%w: url", ErrMissingArgument)
	}

	cmd, err := browserCommand(ctx, url)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
