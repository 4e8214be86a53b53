package gen

import (
	"os"
	"path/filepath"
	"strings"
)

// dumpUnformatted saves a binding that go/format rejected as
// "<name>.unformatted.go" in outDir and returns the path written.
func dumpUnformatted(outDir string, file GeneratedFile) (string, error) {
	if err := os.MkdirAll(outDir, dirPerm); err != nil {
		return "", err
	}

	path := filepath.Join(outDir, strings.TrimSuffix(file.Filename, ".go")+".unformatted.go")

	return path, os.WriteFile(path, file.Content, filePerm)
}
