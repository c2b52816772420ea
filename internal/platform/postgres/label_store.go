package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/recipe-api/internal/domain"
	"github.com/phrazzld/recipe-api/internal/platform/logger"
	"github.com/phrazzld/recipe-api/internal/store"
)

// labelCreateSavepoint names the savepoint guarding label inserts inside a transaction.
const labelCreateSavepoint = "label_create"

// labelTables holds the table names for one label kind. Names are fixed per
// kind and never come from user input.
type labelTables struct {
	labels   string // e.g. "tags"
	join     string // e.g. "recipe_tags"
	joinCol  string // e.g. "tag_id"
	notFound error
}

func tablesFor(kind domain.LabelKind) labelTables {
	return labelTables{
		labels:   kind.Plural(),
		join:     "recipe_" + kind.Plural(),
		joinCol:  string(kind) + "_id",
		notFound: store.LabelNotFoundError(kind),
	}
}

// PostgresLabelStore implements the store.LabelStore interface for a single
// label kind using a PostgreSQL database as the storage backend.
type PostgresLabelStore struct {
	db     store.DBTX
	kind   domain.LabelKind
	tables labelTables
	inTx   bool
	logger *slog.Logger
}

// NewPostgresLabelStore creates a label store for the given kind.
// It panics on a nil db or an unknown kind.
// If logger is nil, a default logger will be used.
func NewPostgresLabelStore(db store.DBTX, kind domain.LabelKind, logger *slog.Logger) *PostgresLabelStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if !kind.Valid() {
		panic(fmt.Sprintf("unknown label kind %q", kind))
	}

	if logger == nil {
		logger = slog.Default()
	}

	_, inTx := db.(*sql.Tx)

	return &PostgresLabelStore{
		db:     db,
		kind:   kind,
		tables: tablesFor(kind),
		inTx:   inTx,
		logger: logger.With(slog.String("component", string(kind)+"_store")),
	}
}

// NewPostgresTagStore creates the label store for tags.
func NewPostgresTagStore(db store.DBTX, logger *slog.Logger) *PostgresLabelStore {
	return NewPostgresLabelStore(db, domain.LabelKindTag, logger)
}

// NewPostgresIngredientStore creates the label store for ingredients.
func NewPostgresIngredientStore(db store.DBTX, logger *slog.Logger) *PostgresLabelStore {
	return NewPostgresLabelStore(db, domain.LabelKindIngredient, logger)
}

// Ensure PostgresLabelStore implements store.LabelStore interface
var _ store.LabelStore = (*PostgresLabelStore)(nil)

// Kind implements store.LabelStore.Kind
func (s *PostgresLabelStore) Kind() domain.LabelKind {
	return s.kind
}

// WithTx implements store.LabelStore.WithTx
func (s *PostgresLabelStore) WithTx(tx *sql.Tx) store.LabelStore {
	return &PostgresLabelStore{
		db:     tx,
		kind:   s.kind,
		tables: s.tables,
		inTx:   true,
		logger: s.logger,
	}
}

// Create implements store.LabelStore.Create
// Inside a transaction the insert runs under a savepoint, so a unique
// violation from a concurrent writer does not abort the caller's transaction.
func (s *PostgresLabelStore) Create(ctx context.Context, label *domain.Label) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	label.Kind = s.kind
	if err := label.Validate(); err != nil {
		log.Warn("label validation failed during create",
			slog.String("error", err.Error()))
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (user_id, name, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`, s.tables.labels)

	insert := func() error {
		return s.db.QueryRowContext(ctx, query, label.UserID, label.Name, label.CreatedAt).Scan(&label.ID)
	}

	var err error
	if s.inTx {
		err = store.RunInSavepoint(ctx, s.db, labelCreateSavepoint, insert)
	} else {
		err = insert()
	}

	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("label name already exists",
				slog.String("user_id", label.UserID.String()),
				slog.String("name", label.Name))
			return MapUniqueViolation(err, "", store.ErrLabelExists)
		}
		log.Error("failed to create label",
			slog.String("error", err.Error()),
			slog.String("user_id", label.UserID.String()))
		return MapError(err)
	}

	log.Debug("label created",
		slog.Int64("label_id", label.ID),
		slog.String("user_id", label.UserID.String()))
	return nil
}

// GetByOwner implements store.LabelStore.GetByOwner
func (s *PostgresLabelStore) GetByOwner(ctx context.Context, userID uuid.UUID, id int64) (*domain.Label, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT id, user_id, name, created_at
		FROM %s
		WHERE id = $1 AND user_id = $2
	`, s.tables.labels)

	label, err := s.scanLabel(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("label not found",
				slog.Int64("label_id", id),
				slog.String("user_id", userID.String()))
			return nil, s.tables.notFound
		}
		log.Error("failed to get label",
			slog.String("error", err.Error()),
			slog.Int64("label_id", id))
		return nil, MapError(err)
	}

	return label, nil
}

// GetByName implements store.LabelStore.GetByName
func (s *PostgresLabelStore) GetByName(ctx context.Context, userID uuid.UUID, name string) (*domain.Label, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT id, user_id, name, created_at
		FROM %s
		WHERE user_id = $1 AND name = $2
	`, s.tables.labels)

	label, err := s.scanLabel(s.db.QueryRowContext(ctx, query, userID, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.tables.notFound
		}
		log.Error("failed to get label by name",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}

	return label, nil
}

// ListByOwner implements store.LabelStore.ListByOwner
func (s *PostgresLabelStore) ListByOwner(ctx context.Context, userID uuid.UUID) ([]*domain.Label, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`
		SELECT id, user_id, name, created_at
		FROM %s
		WHERE user_id = $1
		ORDER BY name DESC, id DESC
	`, s.tables.labels)

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		log.Error("failed to list labels",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	labels := make([]*domain.Label, 0)
	for rows.Next() {
		label, err := s.scanLabel(rows)
		if err != nil {
			log.Error("failed to scan label row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		labels = append(labels, label)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating label rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return labels, nil
}

// Update implements store.LabelStore.Update
func (s *PostgresLabelStore) Update(ctx context.Context, label *domain.Label) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	label.Kind = s.kind
	if err := label.Validate(); err != nil {
		log.Warn("label validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("label_id", label.ID))
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1
		WHERE id = $2 AND user_id = $3
	`, s.tables.labels)

	result, err := s.db.ExecContext(ctx, query, label.Name, label.ID, label.UserID)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Debug("label rename collides with existing name",
				slog.Int64("label_id", label.ID))
			return MapUniqueViolation(err, "", store.ErrLabelExists)
		}
		log.Error("failed to update label",
			slog.String("error", err.Error()),
			slog.Int64("label_id", label.ID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, s.tables.notFound); err != nil {
		log.Debug("label not found for update",
			slog.Int64("label_id", label.ID),
			slog.String("user_id", label.UserID.String()))
		return err
	}

	log.Info("label updated",
		slog.Int64("label_id", label.ID),
		slog.String("user_id", label.UserID.String()))
	return nil
}

// DeleteByOwner implements store.LabelStore.DeleteByOwner
// Association rows are removed by the ON DELETE CASCADE on the join table.
func (s *PostgresLabelStore) DeleteByOwner(ctx context.Context, userID uuid.UUID, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND user_id = $2`, s.tables.labels)

	result, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		log.Error("failed to delete label",
			slog.String("error", err.Error()),
			slog.Int64("label_id", id))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, s.tables.notFound); err != nil {
		log.Debug("label not found for delete",
			slog.Int64("label_id", id),
			slog.String("user_id", userID.String()))
		return err
	}

	log.Info("label deleted",
		slog.Int64("label_id", id),
		slog.String("user_id", userID.String()))
	return nil
}

// ReplaceForRecipe implements store.LabelStore.ReplaceForRecipe
// Only labels owned by the recipe's owner are linked. If any ID does not
// resolve to such a label, store.ErrInvalidEntity is returned.
func (s *PostgresLabelStore) ReplaceForRecipe(ctx context.Context, recipeID int64, labelIDs []int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	clearQuery := fmt.Sprintf(`DELETE FROM %s WHERE recipe_id = $1`, s.tables.join)
	if _, err := s.db.ExecContext(ctx, clearQuery, recipeID); err != nil {
		log.Error("failed to clear recipe labels",
			slog.String("error", err.Error()),
			slog.Int64("recipe_id", recipeID))
		return MapError(err)
	}

	ids := uniqueIDs(labelIDs)
	if len(ids) == 0 {
		return nil
	}

	linkQuery := fmt.Sprintf(`
		INSERT INTO %s (recipe_id, %s)
		SELECT r.id, l.id
		FROM recipes r
		JOIN %s l ON l.user_id = r.user_id
		WHERE r.id = $1 AND l.id = ANY($2)
	`, s.tables.join, s.tables.joinCol, s.tables.labels)

	result, err := s.db.ExecContext(ctx, linkQuery, recipeID, ids)
	if err != nil {
		log.Error("failed to link recipe labels",
			slog.String("error", err.Error()),
			slog.Int64("recipe_id", recipeID))
		return MapError(err)
	}

	linked, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if linked != int64(len(ids)) {
		log.Warn("recipe references labels it does not own",
			slog.Int64("recipe_id", recipeID),
			slog.Int("requested", len(ids)),
			slog.Int64("linked", linked))
		return fmt.Errorf("%w: %d of %d %s could not be linked to recipe %d",
			store.ErrInvalidEntity, int64(len(ids))-linked, len(ids), s.tables.labels, recipeID)
	}

	return nil
}

// ListForRecipes implements store.LabelStore.ListForRecipes
func (s *PostgresLabelStore) ListForRecipes(
	ctx context.Context,
	recipeIDs []int64,
) (map[int64][]*domain.Label, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result := make(map[int64][]*domain.Label, len(recipeIDs))
	if len(recipeIDs) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`
		SELECT j.recipe_id, l.id, l.user_id, l.name, l.created_at
		FROM %s j
		JOIN %s l ON l.id = j.%s
		WHERE j.recipe_id = ANY($1)
		ORDER BY j.recipe_id, l.name DESC, l.id DESC
	`, s.tables.join, s.tables.labels, s.tables.joinCol)

	rows, err := s.db.QueryContext(ctx, query, recipeIDs)
	if err != nil {
		log.Error("failed to list recipe labels", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var recipeID int64
		label := domain.Label{Kind: s.kind}
		if err := rows.Scan(&recipeID, &label.ID, &label.UserID, &label.Name, &label.CreatedAt); err != nil {
			log.Error("failed to scan recipe label row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		result[recipeID] = append(result[recipeID], &label)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating recipe label rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return result, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (s *PostgresLabelStore) scanLabel(row rowScanner) (*domain.Label, error) {
	label := domain.Label{Kind: s.kind}
	if err := row.Scan(&label.ID, &label.UserID, &label.Name, &label.CreatedAt); err != nil {
		return nil, err
	}
	return &label, nil
}

// uniqueIDs returns ids without duplicates, preserving first occurrence order.
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
