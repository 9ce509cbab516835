package scaling

import (
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/docker/docker/pkg/archive"
)

// Trees copied into a staging directory, relative to the source root.
var stagedTrees = []string{"scripts", filepath.Join("build", "src")}

const stageAttempts = 8

// Stage copies the scripts and the built executables under a freshly
// created, randomly named directory of tmpDir. It returns the staged scripts
// directory, which batch jobs are submitted from so that relative paths in
// the scripts resolve against the private copy.
func Stage(tmpDir, sourceRoot string) (string, error) {
	root, err := makeStageDir(tmpDir)
	if err != nil {
		return "", err
	}

	for _, tree := range stagedTrees {
		src := filepath.Join(sourceRoot, tree)
		dst := filepath.Join(root, tree)
		if err := copyTree(src, dst); err != nil {
			return "", fmt.Errorf("failed to stage %s: %w", src, err)
		}
	}

	return filepath.Join(root, "scripts"), nil
}

// makeStageDir creates tmpDir/<random uint32>, never reusing an existing
// directory.
func makeStageDir(tmpDir string) (string, error) {
	if err := os.MkdirAll(tmpDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create staging parent: %w", err)
	}
	for i := 0; i < stageAttempts; i++ {
		dir := filepath.Join(tmpDir, strconv.FormatUint(uint64(rand.Uint32N(math.MaxUint32)), 10))
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", fmt.Errorf("failed to create staging directory: %w", err)
		}
	}
	return "", fmt.Errorf("failed to create a fresh staging directory under %s", tmpDir)
}

// copyTree streams src as a tar archive and unpacks it at dst.
func copyTree(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}

	reader, err := archive.TarWithOptions(src, &archive.TarOptions{})
	if err != nil {
		return fmt.Errorf("failed to archive: %w", err)
	}
	defer reader.Close()

	if err := os.MkdirAll(dst, 0755); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}
	return untar(reader, dst)
}

// untar unpacks a tar stream under dst, keeping file modes so staged
// executables stay executable. Entries and hard links that resolve outside
// dst are rejected. Ownership is left to the current user, since cluster
// users cannot chown.
func untar(r io.Reader, dst string) error {
	if err := archive.Untar(r, dst, &archive.TarOptions{NoLchown: true}); err != nil {
		return fmt.Errorf("failed to extract: %w", err)
	}
	return nil
}
