// Package charts renders aggregated series as line, bar and pie PNGs.
// Renderers never fetch or aggregate; they only draw.
package charts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/multierr"

	pkgerrors "github.com/angelmondragon/wcreports/pkg/errors"
)

// Chart is anything that can draw itself as a PNG.
type Chart interface {
	Render(w io.Writer, theme Theme) error
}

// Save renders c into path, creating parent directories. A failed render
// leaves no file behind.
func Save(path string, c Chart, theme Theme) (err error) {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeInternal, "chart is nil")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRender, err, "create export directory")
	}

	f, err := os.Create(path)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeRender, err, "create chart file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeRender, cerr, "close chart file")
		}
		if err != nil {
			if rerr := os.Remove(path); rerr != nil && !os.IsNotExist(rerr) {
				err = multierr.Append(err, fmt.Errorf("remove partial chart: %w", rerr))
			}
		}
	}()

	return c.Render(f, theme)
}
