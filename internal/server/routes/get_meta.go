package routes

import (
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/fmadore/IWAC-spatial-overview/internal/server/middleware"
	"github.com/fmadore/IWAC-spatial-overview/pkg/catalog"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// GetMetaHandler reports the build configuration and which generated
// artifacts currently exist, so the frontend can discover what to load.
func GetMetaHandler(c echo.Context) error {
	type artifactInfo struct {
		Path     string `json:"path"`
		Size     int64  `json:"size"`
		Modified string `json:"modified"`
	}

	type metaResponse struct {
		SupportedTypes []string       `json:"supportedTypes"`
		WeightMin      int            `json:"weightMin"`
		TypePairs      [][2]string    `json:"typePairs"`
		Artifacts      []artifactInfo `json:"artifacts"`
	}

	cfg := c.(*middleware.AppContext).App.Config

	rules, err := cfg.Rules()
	if err != nil {
		logger.Error("Failed to resolve type pairs", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}
	pairs := make([][2]string, len(rules))
	for i, rule := range rules {
		pairs[i] = [2]string{rule.A, rule.B}
	}

	artifacts := make([]artifactInfo, 0)
	err = filepath.WalkDir(cfg.DataDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			return nil
		}
		info, err := entry.Info()
		if err != nil {
			return nil
		}
		rel, err := filepath.Rel(cfg.DataDir, path)
		if err != nil {
			return nil
		}
		artifacts = append(artifacts, artifactInfo{
			Path:     filepath.ToSlash(rel),
			Size:     info.Size(),
			Modified: info.ModTime().UTC().Format(time.RFC3339),
		})
		return nil
	})
	if err != nil {
		logger.Error("Failed to scan data directory", "dir", cfg.DataDir, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"message": "Internal server error"})
	}

	return c.JSON(http.StatusOK, metaResponse{
		SupportedTypes: catalog.SingularLabels(),
		WeightMin:      cfg.WeightMin,
		TypePairs:      pairs,
		Artifacts:      artifacts,
	})
}
