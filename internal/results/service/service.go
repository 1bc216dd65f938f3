// Package service lists scoring results and renders them as CSV, optionally
// publishing snapshots to object storage.
package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"leadqual_backend/internal/adapters/storage"
	"leadqual_backend/internal/results/repository"
	"leadqual_backend/internal/results/transport"
	"leadqual_backend/platform/apperr"
	"leadqual_backend/platform/logger"

	"github.com/google/uuid"
)

const (
	// UnknownIntent marks leads that have not been scored yet.
	UnknownIntent = "Unknown"

	csvContentType   = "text/csv"
	exportPrefix     = "exports/"
	msgExportsOff    = "result exports are not configured"
	msgInvalidFilter = "batchId and offerId must be valid identifiers"
)

// CSVHeader is the column order of every CSV rendering.
var CSVHeader = []string{"name", "role", "company", "industry", "location", "intent", "score", "reasoning"}

// Repository reads result rows.
type Repository interface {
	List(ctx context.Context, filter repository.Filter) ([]repository.Row, error)
}

// Service provides result listing and export.
type Service struct {
	repo   Repository
	store  storage.StorageService
	bucket string
	urlTTL time.Duration
	log    *logger.Logger
	now    func() time.Time
}

// New creates a results service. store may be nil, which disables exports.
func New(repo Repository, store storage.StorageService, bucket string, urlTTL time.Duration, log *logger.Logger) *Service {
	return &Service{
		repo:   repo,
		store:  store,
		bucket: bucket,
		urlTTL: urlTTL,
		log:    log,
		now:    time.Now,
	}
}

// ExportsEnabled reports whether snapshots can be written.
func (s *Service) ExportsEnabled() bool {
	return s.store != nil && s.bucket != ""
}

// ParseFilter converts optional query identifiers into a filter.
func ParseFilter(q transport.ResultsQuery) (repository.Filter, error) {
	var f repository.Filter
	if v := strings.TrimSpace(q.BatchID); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return repository.Filter{}, apperr.Validation(msgInvalidFilter)
		}
		f.BatchID = &id
	}
	if v := strings.TrimSpace(q.OfferID); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return repository.Filter{}, apperr.Validation(msgInvalidFilter)
		}
		f.OfferID = &id
	}
	return f, nil
}

// List returns every matching lead with its result.
func (s *Service) List(ctx context.Context, filter repository.Filter) ([]transport.ResultRow, error) {
	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make([]transport.ResultRow, len(rows))
	for i, r := range rows {
		intent := UnknownIntent
		if r.Intent != nil {
			intent = *r.Intent
		}
		out[i] = transport.ResultRow{
			Name:      r.Name,
			Role:      r.Role,
			Company:   r.Company,
			Industry:  r.Industry,
			Location:  r.Location,
			Intent:    intent,
			Score:     r.Score,
			Reasoning: r.Reasoning,
		}
	}
	return out, nil
}

// WriteCSV renders rows with every cell quoted and embedded quotes doubled.
// Lines are separated by "\n" with no trailing newline; null cells are empty.
func WriteCSV(w io.Writer, rows []transport.ResultRow) error {
	var b strings.Builder
	b.WriteString(strings.Join(CSVHeader, ","))
	for _, r := range rows {
		score, reasoning := "", ""
		if r.Score != nil {
			score = strconv.Itoa(*r.Score)
		}
		if r.Reasoning != nil {
			reasoning = *r.Reasoning
		}
		b.WriteByte('\n')
		for i, cell := range []string{r.Name, r.Role, r.Company, r.Industry, r.Location, r.Intent, score, reasoning} {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Export writes the CSV for filter to object storage and returns a
// presigned download link.
func (s *Service) Export(ctx context.Context, filter repository.Filter) (transport.ExportResponse, error) {
	if !s.ExportsEnabled() {
		return transport.ExportResponse{}, apperr.Unavailable(msgExportsOff)
	}

	rows, err := s.List(ctx, filter)
	if err != nil {
		return transport.ExportResponse{}, err
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, rows); err != nil {
		return transport.ExportResponse{}, fmt.Errorf("render export: %w", err)
	}

	key := s.exportKey(filter)
	if err := s.store.UploadFile(ctx, s.bucket, key, csvContentType, &buf, int64(buf.Len())); err != nil {
		return transport.ExportResponse{}, err
	}
	link, err := s.store.GenerateDownloadURL(ctx, s.bucket, key, s.urlTTL)
	if err != nil {
		return transport.ExportResponse{}, err
	}

	s.log.WithContext(ctx).Info("results exported", "fileKey", key, "rows", len(rows))
	return transport.ExportResponse{URL: link.URL, FileKey: key, ExpiresAt: link.ExpiresAt, Rows: len(rows)}, nil
}

// PruneExports deletes snapshots last modified before cutoff.
func (s *Service) PruneExports(ctx context.Context, cutoff time.Time) (int, error) {
	if !s.ExportsEnabled() {
		return 0, nil
	}

	objects, err := s.store.ListObjects(ctx, s.bucket, exportPrefix)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, obj := range objects {
		if !obj.LastModified.Before(cutoff) {
			continue
		}
		if err := s.store.DeleteObject(ctx, s.bucket, obj.Key); err != nil {
			return deleted, err
		}
		deleted++
	}
	return deleted, nil
}

func (s *Service) exportKey(filter repository.Filter) string {
	scope := "all"
	switch {
	case filter.BatchID != nil:
		scope = "batch-" + filter.BatchID.String()
	case filter.OfferID != nil:
		scope = "offer-" + filter.OfferID.String()
	}
	return fmt.Sprintf("%s%s/%s_%s.csv", exportPrefix, scope, s.now().UTC().Format("20060102T150405Z"), uuid.New().String()[:8])
}
