package manifest

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type buildModel struct {
	bun.BaseModel `bun:"table:blog_builds,alias:bb"`

	ID           uuid.UUID `bun:",pk,type:uuid"`
	ContentRoot  string    `bun:"content_root,notnull"`
	StartedAt    time.Time `bun:"started_at,notnull"`
	CompletedAt  time.Time `bun:"completed_at,notnull"`
	EntryCount   int       `bun:"entry_count,notnull"`
	FailureCount int       `bun:"failure_count,notnull"`
}

type entryModel struct {
	bun.BaseModel `bun:"table:blog_build_entries,alias:bbe"`

	BuildID    uuid.UUID `bun:"build_id,notnull,type:uuid"`
	Slug       string    `bun:"slug,notnull"`
	SourcePath string    `bun:"source_path,notnull"`
	Checksum   string    `bun:"checksum,notnull"`
}

// BunRepository persists build manifests using a Bun-backed database.
type BunRepository struct {
	db *bun.DB
}

// NewBunRepository constructs a Bun-backed manifest repository.
func NewBunRepository(db *bun.DB) *BunRepository {
	return &BunRepository{db: db}
}

// Init creates the manifest tables when they do not exist yet.
func (r *BunRepository) Init(ctx context.Context) error {
	if r.db == nil {
		return errors.New("manifest: bun repository requires a database")
	}
	if _, err := r.db.NewCreateTable().Model((*buildModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return err
	}
	if _, err := r.db.NewCreateTable().Model((*entryModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		return err
	}
	return nil
}

// Latest returns the most recently completed build for the content root.
func (r *BunRepository) Latest(ctx context.Context, contentRoot string) (*Build, error) {
	if r.db == nil {
		return nil, errors.New("manifest: bun repository requires a database")
	}

	var model buildModel
	err := r.db.NewSelect().
		Model(&model).
		Where("content_root = ?", contentRoot).
		Order("completed_at DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBuildNotFound
		}
		return nil, err
	}

	var rows []entryModel
	if err := r.db.NewSelect().
		Model(&rows).
		Where("build_id = ?", model.ID).
		Order("slug ASC").
		Scan(ctx); err != nil {
		return nil, err
	}

	build := modelToBuild(&model)
	build.Entries = make([]EntryRecord, 0, len(rows))
	for _, row := range rows {
		build.Entries = append(build.Entries, EntryRecord{
			Slug:       row.Slug,
			SourcePath: row.SourcePath,
			Checksum:   row.Checksum,
		})
	}
	return build, nil
}

// Record stores a completed build and its entry rows in one transaction.
func (r *BunRepository) Record(ctx context.Context, build Build) error {
	if r.db == nil {
		return errors.New("manifest: bun repository requires a database")
	}
	if build.ID == uuid.Nil {
		return errors.New("manifest: build id is required")
	}

	return r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		model := buildModel{
			ID:           build.ID,
			ContentRoot:  build.ContentRoot,
			StartedAt:    build.StartedAt.UTC(),
			CompletedAt:  build.CompletedAt.UTC(),
			EntryCount:   build.EntryCount,
			FailureCount: build.FailureCount,
		}
		if _, err := tx.NewInsert().Model(&model).Exec(ctx); err != nil {
			return err
		}

		if len(build.Entries) == 0 {
			return nil
		}

		rows := make([]entryModel, 0, len(build.Entries))
		for _, record := range build.Entries {
			rows = append(rows, entryModel{
				BuildID:    build.ID,
				Slug:       record.Slug,
				SourcePath: record.SourcePath,
				Checksum:   record.Checksum,
			})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return err
		}
		return nil
	})
}

func modelToBuild(model *buildModel) *Build {
	return &Build{
		ID:           model.ID,
		ContentRoot:  model.ContentRoot,
		StartedAt:    model.StartedAt,
		CompletedAt:  model.CompletedAt,
		EntryCount:   model.EntryCount,
		FailureCount: model.FailureCount,
	}
}
