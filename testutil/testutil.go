package testutil

import (
	"math/rand"
	"os"
	"strconv"
	"strings"
	"testing"
)

// GenerateTestIntFile creates a temporary input file holding count random
// integers that fit into bits, ten per line, with a comment header.
// Returns the file path, the values in file order and a cleanup function.
func GenerateTestIntFile(t *testing.T, count, bits int, seed int64) (string, []int64, func()) {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "test_ints_*.txt")
	if err != nil {
		t.Fatalf("Failed to create temp input file: %v", err)
	}

	rng := rand.New(rand.NewSource(seed))
	shift := 64 - bits
	values := make([]int64, count)

	var content strings.Builder
	content.WriteString("# generated test input\n")
	for i := range values {
		values[i] = int64(rng.Uint64()) >> shift
		content.WriteString(strconv.FormatInt(values[i], 10))
		if i%10 == 9 {
			content.WriteString("\n")
		} else {
			content.WriteString(" ")
		}
	}
	content.WriteString("\n")

	if _, err := tmpFile.WriteString(content.String()); err != nil {
		t.Fatalf("Failed to write to temp input file: %v", err)
	}

	tmpFile.Close()

	cleanup := func() {
		os.Remove(tmpFile.Name())
	}

	return tmpFile.Name(), values, cleanup
}

// WriteTestFile writes content to a new temporary file and returns its path.
// The file is removed when the test finishes.
func WriteTestFile(t *testing.T, pattern, content string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp(t.TempDir(), pattern)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	tmpFile.Close()
	return tmpFile.Name()
}

// TempFilePath returns a cross-platform temporary file path
// with the given pattern. Does not create the file.
func TempFilePath(t *testing.T, pattern string) string {
	t.Helper()

	tmpFile, err := os.CreateTemp("", pattern)
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}

	path := tmpFile.Name()
	tmpFile.Close()
	os.Remove(path) // Remove immediately, just need the path

	return path
}
