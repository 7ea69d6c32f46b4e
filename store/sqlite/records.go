package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mwantia/assetdesk/data"
	"github.com/mwantia/assetdesk/store"
)

const recordColumns = "id, type, title, tags, category, folder, image_ref, create_time, modify_time"

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*data.Asset, error) {
	var asset data.Asset
	var tags string
	var createTime, modifyTime int64

	err := row.Scan(&asset.ID, &asset.Type, &asset.Title, &tags,
		&asset.Category, &asset.Folder, &asset.ImageRef, &createTime, &modifyTime)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(tags), &asset.Tags); err != nil {
		return nil, fmt.Errorf("failed to decode tags of '%s': %w", asset.ID, err)
	}

	asset.CreateTime = time.UnixMilli(createTime)
	asset.ModifyTime = time.UnixMilli(modifyTime)

	return asset.Normalize(), nil
}

func (sb *SQLiteBackend) CreateRecord(ctx context.Context, asset *data.Asset) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

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

	_, err = sb.db.ExecContext(ctx, `
		INSERT INTO assets (`+recordColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, asset.ID, asset.Type, asset.Title, string(tags), asset.Category, asset.Folder,
		string(asset.ImageRef), asset.CreateTime.UnixMilli(), asset.ModifyTime.UnixMilli())
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return data.ErrExist
		}
		return fmt.Errorf("failed to insert record: %w", err)
	}

	return nil
}

func (sb *SQLiteBackend) ReadRecord(ctx context.Context, id string) (*data.Asset, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	row := sb.db.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM assets WHERE id = ?", id)
	asset, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, data.ErrNotExist
	}

	return asset, err
}

func (sb *SQLiteBackend) PatchRecord(ctx context.Context, id string, patch *data.AssetPatch) (*data.Asset, error) {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	tx, err := sb.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, "SELECT "+recordColumns+" FROM assets WHERE id = ?", id)
	asset, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
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

	_, err = tx.ExecContext(ctx, `
		UPDATE assets
		SET title = ?, tags = ?, category = ?, folder = ?, modify_time = ?
		WHERE id = ?
	`, asset.Title, string(tags), asset.Category, asset.Folder, asset.ModifyTime.UnixMilli(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return asset, nil
}

func (sb *SQLiteBackend) DeleteRecord(ctx context.Context, id string) error {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	result, err := sb.db.ExecContext(ctx, "DELETE FROM assets WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return data.ErrNotExist
	}

	return nil
}

func (sb *SQLiteBackend) QueryRecords(ctx context.Context, query *store.RecordQuery) ([]*data.Asset, error) {
	sb.mu.RLock()
	defer sb.mu.RUnlock()

	var conditions []string
	var args []any
	if query != nil {
		if query.Type != "" {
			conditions = append(conditions, "type = ?")
			args = append(args, query.Type)
		}
		if query.Folder != "" {
			conditions = append(conditions, "folder = ?")
			args = append(args, query.Folder)
		}
		if query.Category != "" {
			conditions = append(conditions, "category = ?")
			args = append(args, query.Category)
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

	rows, err := sb.db.QueryContext(ctx, stmt, args...)
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
