//go:build e2e

package helpers

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
)

// BuildServer compiles the mysql-mcp binary into a temporary directory and
// returns its path together with a cleanup function removing that directory.
func BuildServer() (string, func(), error) {
	buildDir, err := os.MkdirTemp("", "mysql-mcp-e2e-*")
	if err != nil {
		return "", nil, fmt.Errorf("failed to create build directory: %w", err)
	}

	cleanup := func() {
		if err := os.RemoveAll(buildDir); err != nil {
			log.Printf("Warning: could not remove build directory %s: %v", buildDir, err)
		}
	}

	binaryPath := filepath.Join(buildDir, "mysql-mcp")

	// The test binary runs from test/e2e, so the module root is two levels up.
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/mysql-mcp")
	cmd.Dir = filepath.Join("..", "..")
	cmd.Env = os.Environ()

	if output, err := cmd.CombinedOutput(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("go build failed: %w\n%s", err, output)
	}

	if _, err := os.Stat(binaryPath); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("server binary missing after build: %w", err)
	}

	log.Printf("Built e2e server binary at %s", binaryPath)
	return binaryPath, cleanup, nil
}
