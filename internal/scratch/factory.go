package scratch

import (
	"fmt"
	"os"
	"path/filepath"

	"classdumper/internal/config"
	"classdumper/internal/dumper"
)

// tempDirName is the directory under os.TempDir used by the "temp" scratch type.
const tempDirName = "ClassDumper"

// NewScratchAreaFromConfig creates a ScratchArea implementation based on the config type.
func NewScratchAreaFromConfig(cfg config.ScratchConfig, logger dumper.Logger) (dumper.ScratchArea, error) {
	switch cfg.Type {
	case "documents":
		if cfg.Root == "" {
			return nil, fmt.Errorf("documents scratch area requires root to be set")
		}
		return NewFileSystemScratchArea(cfg.Root, logger), nil
	case "temp":
		return NewFileSystemScratchArea(filepath.Join(os.TempDir(), tempDirName), logger), nil
	default:
		return nil, fmt.Errorf("unknown scratch area type: %s", cfg.Type)
	}
}
