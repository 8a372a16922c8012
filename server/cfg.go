package server

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/zucenko/gridbot/model"
)

// LoadRoute applies the route file at path to grid. An empty path leaves the
// seed path in place.
func LoadRoute(path string, grid *model.Grid) error {
	if path == "" {
		return nil
	}
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("route %s: %w", path, err)
	}
	defer file.Close()
	if err = model.ReadRoute(file, grid); err != nil {
		return fmt.Errorf("route %s: %w", path, err)
	}
	log.Infof("route %s loaded, %d cells", path, grid.Len())
	return nil
}
