package product

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Ayoublby/full-store/internal/domain"
)

// ImageRemover deletes a stored image by its public path. Removal is
// best-effort; the repository logs failures and carries on.
type ImageRemover interface {
	Remove(publicPath string) error
}

type fileRepo struct {
	mu         sync.Mutex
	path       string
	mirrorPath string
	images     ImageRemover
	logger     zerolog.Logger
}

// NewFile opens the file-backed repository. The canonical JSON file is
// created empty when absent. The mutex serializes writers: concurrent
// requests cannot lose updates to the whole-file overwrite.
func NewFile(path, mirrorPath string, images ImageRemover, logger zerolog.Logger) (Repository, error) {
	for _, p := range []string{path, mirrorPath} {
		if dir := filepath.Dir(p); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create data dir: %w", err)
			}
		}
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := os.WriteFile(path, []byte("[]"), 0o644); err != nil {
			return nil, fmt.Errorf("init products file: %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("stat products file: %w", err)
	}

	return &fileRepo{
		path:       path,
		mirrorPath: mirrorPath,
		images:     images,
		logger:     logger.With().Str("component", "product_repo").Logger(),
	}, nil
}

func (r *fileRepo) ListAll(ctx context.Context) ([]domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

func (r *fileRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.read()
	if err != nil {
		return nil, err
	}
	for i := range products {
		if products[i].ID == id {
			p := products[i]
			return &p, nil
		}
	}
	r.logger.Debug().Str("id", id).Msg("product not found")
	return nil, domain.ErrNotFound
}

func (r *fileRepo) Create(ctx context.Context, fields domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.read()
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	fields.ID = nextID(products, now)
	fields.AddedDate = &now
	fields.UpdatedDate = nil
	if fields.Images == nil {
		fields.Images = []string{}
	}

	products = append(products, fields)
	if err := r.write(products); err != nil {
		return nil, err
	}

	r.logger.Info().Str("id", fields.ID).Str("name", fields.Name).Msg("product created")
	return &fields, nil
}

func (r *fileRepo) Update(ctx context.Context, id string, patch domain.ProductPatch) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.read()
	if err != nil {
		return nil, err
	}

	idx := -1
	for i := range products {
		if products[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		r.logger.Debug().Str("id", id).Msg("update: product not found")
		return nil, domain.ErrNotFound
	}

	patch.Apply(&products[idx])
	now := time.Now().UTC()
	products[idx].ID = id
	products[idx].UpdatedDate = &now

	if err := r.write(products); err != nil {
		return nil, err
	}

	updated := products[idx]
	r.logger.Info().Str("id", id).Msg("product updated")
	return &updated, nil
}

func (r *fileRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.read()
	if err != nil {
		return err
	}

	idx := -1
	for i := range products {
		if products[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		r.logger.Debug().Str("id", id).Msg("delete: product not found")
		return domain.ErrNotFound
	}

	r.removeImages(products[idx])
	products = append(products[:idx], products[idx+1:]...)

	if err := r.write(products); err != nil {
		return err
	}

	r.logger.Info().Str("id", id).Msg("product deleted")
	return nil
}

func (r *fileRepo) BulkUpdate(ctx context.Context, ids []string, patch domain.ProductPatch) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.read()
	if err != nil {
		return 0, err
	}

	wanted := idSet(ids)
	now := time.Now().UTC()
	updated := 0
	for i := range products {
		if _, ok := wanted[products[i].ID]; !ok {
			continue
		}
		patch.Apply(&products[i])
		products[i].UpdatedDate = &now
		updated++
	}

	if err := r.write(products); err != nil {
		return 0, err
	}

	r.logger.Info().Int("count", updated).Msg("bulk update applied")
	return updated, nil
}

func (r *fileRepo) BulkDelete(ctx context.Context, ids []string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.read()
	if err != nil {
		return 0, err
	}

	wanted := idSet(ids)
	kept := products[:0:0]
	deleted := 0
	for _, p := range products {
		if _, ok := wanted[p.ID]; ok {
			r.removeImages(p)
			deleted++
			continue
		}
		kept = append(kept, p)
	}

	if err := r.write(kept); err != nil {
		return 0, err
	}

	r.logger.Info().Int("count", deleted).Msg("bulk delete applied")
	return deleted, nil
}

func (r *fileRepo) Stats(ctx context.Context) (*domain.Stats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	products, err := r.read()
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{
		Total:      len(products),
		ByCategory: map[string]int{},
	}
	for _, p := range products {
		if p.InStock {
			stats.InStock++
		} else {
			stats.OutOfStock++
		}
		if p.Featured {
			stats.Featured++
		}
		stats.ByCategory[p.Category]++
	}
	stats.Categories = len(stats.ByCategory)

	return stats, nil
}

// read loads the canonical file. A missing file is an empty catalog;
// unreadable or corrupt data is a storage error.
func (r *fileRepo) read() ([]domain.Product, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.Product{}, nil
	}
	if err != nil {
		r.logger.Error().Err(err).Msg("read products file")
		return nil, fmt.Errorf("read products: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		r.logger.Error().Err(err).Msg("parse products file")
		return nil, fmt.Errorf("parse products: %w", err)
	}
	if products == nil {
		products = []domain.Product{}
	}
	return products, nil
}

// write persists the canonical file and regenerates the mirror from the
// same in-memory list. Both writes happen inside the same locked section so
// the two artifacts cannot diverge across operations.
func (r *fileRepo) write(products []domain.Product) error {
	data, err := json.MarshalIndent(products, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal products: %w", err)
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		r.logger.Error().Err(err).Msg("write products file")
		return fmt.Errorf("write products: %w", err)
	}
	if err := r.writeMirror(products); err != nil {
		r.logger.Error().Err(err).Msg("write mirror file")
		return err
	}
	return nil
}

// writeMirror renders the script-embedded copy consumed directly by the
// static catalog pages.
func (r *fileRepo) writeMirror(products []domain.Product) error {
	data, err := json.MarshalIndent(products, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal mirror: %w", err)
	}

	content := fmt.Sprintf(`/**
 * Product data - generated file, do not edit.
 * Last updated: %s
 */

const storeProducts = %s;

// Keep this line - required for the admin panel to load the data.
if (typeof module !== 'undefined' && module.exports) {
    module.exports = storeProducts;
}
`, time.Now().UTC().Format(time.RFC3339), data)

	if err := os.WriteFile(r.mirrorPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write mirror: %w", err)
	}
	return nil
}

// removeImages deletes the product's uploaded images. Failures are logged
// and never block record removal.
func (r *fileRepo) removeImages(p domain.Product) {
	if r.images == nil {
		return
	}
	for _, path := range p.Images {
		if err := r.images.Remove(path); err != nil {
			r.logger.Warn().Err(err).Str("image", path).Msg("delete product image")
		}
	}
}

// nextID derives a time-based id, bumping the millisecond component until
// it is unique within the list.
func nextID(products []domain.Product, now time.Time) string {
	existing := make(map[string]struct{}, len(products))
	for _, p := range products {
		existing[p.ID] = struct{}{}
	}
	ms := now.UnixMilli()
	for {
		id := fmt.Sprintf("product-%d", ms)
		if _, ok := existing[id]; !ok {
			return id
		}
		ms++
	}
}

func idSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
