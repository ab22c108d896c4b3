package cleaner

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// minAge keeps the sweep from racing an in-flight create whose row or files
// have not both landed yet.
const minAge = 24 * time.Hour

// Clean removes upload files that no property row references anymore:
// leftovers from interrupted creates, crashed rollbacks, or deleted rows.
func Clean(pool *pgxpool.Pool, uploadDir string, logger *zap.SugaredLogger) {
	referenced := map[string]struct{}{}
	rows, err := pool.Query(context.Background(), `SELECT image_urls, floor_plans FROM properties`)
	if err != nil {
		logger.Errorw("cleaner: query failed", "error", err)
		return
	}
	defer rows.Close()
	for rows.Next() {
		var imageUrlsRaw, floorPlansRaw []byte
		if err := rows.Scan(&imageUrlsRaw, &floorPlansRaw); err != nil {
			logger.Errorw("cleaner: scan failed", "error", err)
			continue
		}
		for _, raw := range [][]byte{imageUrlsRaw, floorPlansRaw} {
			refs := []string{}
			if err := json.Unmarshal(raw, &refs); err != nil {
				logger.Errorw("cleaner: malformed reference list", "error", err)
				continue
			}
			for _, reference := range refs {
				referenced[filepath.Base(reference)] = struct{}{}
			}
		}
	}
	if err := rows.Err(); err != nil {
		logger.Errorw("cleaner: rows failed", "error", err)
		return
	}

	entries, err := os.ReadDir(uploadDir)
	if err != nil {
		logger.Errorw("cleaner: read upload dir failed", "error", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if _, ok := referenced[entry.Name()]; ok {
			continue
		}
		info, err := entry.Info()
		if err != nil || time.Since(info.ModTime()) < minAge {
			continue
		}
		path := filepath.Join(uploadDir, entry.Name())
		if err := os.Remove(path); err != nil {
			logger.Errorw("cleaner: remove failed", "path", path, "error", err)
			continue
		}
		logger.Infow("cleaner: removed orphaned upload", "file", entry.Name(),
			"temp", strings.HasPrefix(entry.Name(), "upload-"))
	}
}
