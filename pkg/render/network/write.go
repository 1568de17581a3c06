package network

import (
	"os"
	"path/filepath"

	"github.com/andresvisco/medicus-mapa-arquitectura-interactivo/pkg/errors"
)

// WriteFile writes doc to path through a temporary file that is renamed into
// place. The temporary file is removed on every path.
func WriteFile(path string, doc []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderWrite, err, "create temporary file in %s", dir)
	}
	name := tmp.Name()
	defer os.Remove(name)

	if _, err := tmp.Write(doc); err != nil {
		tmp.Close()
		return errors.Wrap(errors.ErrCodeRenderWrite, err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeRenderWrite, err, "write %s", path)
	}
	if err := os.Chmod(name, 0644); err != nil {
		return errors.Wrap(errors.ErrCodeRenderWrite, err, "write %s", path)
	}
	if err := os.Rename(name, path); err != nil {
		return errors.Wrap(errors.ErrCodeRenderWrite, err, "move document into %s", path)
	}
	return nil
}
