package install

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

const smokeTestTimeout = 30 * time.Second

// SmokeTest runs the installed binary with args (default --help) and
// requires expect to appear in its combined output.
func SmokeTest(ctx context.Context, binary string, expect string, args ...string) error {
	if len(args) == 0 {
		args = []string{"--help"}
	}
	ctx, cancel := context.WithTimeout(ctx, smokeTestTimeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("smoke test %s %s failed: %w", binary, strings.Join(args, " "), err)
	}
	if expect != "" && !strings.Contains(out.String(), expect) {
		return fmt.Errorf("smoke test %s: output does not contain %q", binary, expect)
	}
	return nil
}
