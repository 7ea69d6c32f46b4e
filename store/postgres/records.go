package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/store"
)

const recordColumns = "id, type, title, tags, category, folder, image_ref, create_time, modify_time"

func scanRecord(row pgx.Row) (*data.Asset, error) {
	var asset data.Asset
	var ref string
	var tags []byte
	var createTime, modifyTime int64

	err := row.Scan(&asset.ID, &asset.Type, &asset.Title, &tags,
		&asset.Category, &asset.Folder, &ref, &createTime, &modifyTime)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &asset.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags of '%s': %w", asset.ID, err)
	}

	asset.ImageRef = data.ImageRef(ref)
	asset.CreateTime = time.UnixMilli(createTime)
	asset.ModifyTime = time.UnixMilli(modifyTime)

	return asset.Normalize(), nil
}

func (pb *PostgresBackend) CreateRecord(ctx context.Context, asset *data.Asset) error {
	if asset.ID == "" {
		asset.ID = data.NewAssetID()
	}
	asset.Normalize()

	now := time.Now()
	if asset.CreateTime.IsZero() {
		asset.CreateTime = now
	}
	if asset.ModifyTime.IsZero() {
		asset.ModifyTime = now
	}

	tags, err := json.Marshal(asset.Tags)
	if err != nil {
		return err
	}

	_, err = pb.pool.Exec(ctx, `
		INSERT INTO assets (`+recordColumns+`)
		VALUES ($1, $2, $3, $4::jsonb, $5, $6, $7, $8, $9)
	`, asset.ID, asset.Type, asset.Title, string(tags), asset.Category, asset.Folder,
		string(asset.ImageRef), asset.CreateTime.UnixMilli(), asset.ModifyTime.UnixMilli())
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return data.ErrExist
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

func (pb *PostgresBackend) ReadRecord(ctx context.Context, id string) (*data.Asset, error) {
	row := pb.pool.QueryRow(ctx, "SELECT "+recordColumns+" FROM assets WHERE id = $1", id)
	asset, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, data.ErrNotExist
	}

	return asset, err
}

func (pb *PostgresBackend) PatchRecord(ctx context.Context, id string, patch *data.AssetPatch) (*data.Asset, error) {
	tx, err := pb.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	row := tx.QueryRow(ctx, "SELECT "+recordColumns+" FROM assets WHERE id = $1 FOR UPDATE", id)
	asset, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, data.ErrNotExist
	}
	if err != nil {
		return nil, err
	}

	if _, err := patch.Apply(asset); err != nil {
		return nil, err
	}

	tags, err := json.Marshal(asset.Tags)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE assets
		SET title = $1, tags = $2::jsonb, category = $3, folder = $4, modify_time = $5
		WHERE id = $6
	`, asset.Title, string(tags), asset.Category, asset.Folder, asset.ModifyTime.UnixMilli(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return asset, nil
}

func (pb *PostgresBackend) DeleteRecord(ctx context.Context, id string) error {
	tag, err := pb.pool.Exec(ctx, "DELETE FROM assets WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return data.ErrNotExist
	}

	return nil
}

func (pb *PostgresBackend) QueryRecords(ctx context.Context, query *store.RecordQuery) ([]*data.Asset, error) {
	var conditions []string
	var args []any
	if query != nil {
		if query.Type != "" {
			args = append(args, query.Type)
			conditions = append(conditions, fmt.Sprintf("type = $%d", len(args)))
		}
		if query.Folder != "" {
			args = append(args, query.Folder)
			conditions = append(conditions, fmt.Sprintf("folder = $%d", len(args)))
		}
		if query.Category != "" {
			args = append(args, query.Category)
			conditions = append(conditions, fmt.Sprintf("category = $%d", len(args)))
		}
	}

	stmt := "SELECT " + recordColumns + " FROM assets"
	if len(conditions) > 0 {
		stmt += " WHERE " + strings.Join(conditions, " AND ")
	}
	stmt += " ORDER BY seq ASC"
	if query != nil && query.Limit > 0 {
		stmt += fmt.Sprintf(" LIMIT %d", query.Limit)
	}

	rows, err := pb.pool.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := make([]*data.Asset, 0)
	for rows.Next() {
		asset, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, asset)
	}

	return records, rows.Err()
}
