package source

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/plotforge/plotforge/internal/model"
)

// introspect builds a normalized schema for the connected database.
func introspect(ctx context.Context, db *sqlx.DB, driver string) (*model.DataSchema, error) {
	switch driver {
	case "sqlite":
		return introspectSQLite(ctx, db)
	case "postgres":
		return introspectInformationSchema(ctx, db, pgColumnQuery, pgForeignKeyQuery)
	case "mysql":
		return introspectInformationSchema(ctx, db, myColumnQuery, myForeignKeyQuery)
	}
	return nil, fmt.Errorf("no introspection for driver %q", driver)
}

// classifyDBType maps a database column type to the coarse type the
// classifier starts from. String affinity lands on categorical; the
// sample-based pass refines it to text or id later.
func classifyDBType(dbType string) model.ColumnType {
	upper := strings.ToUpper(strings.TrimSpace(dbType))
	if idx := strings.IndexByte(upper, '('); idx >= 0 {
		upper = strings.TrimSpace(upper[:idx])
	}
	switch {
	case strings.Contains(upper, "INT"),
		strings.Contains(upper, "REAL"),
		strings.Contains(upper, "FLOA"),
		strings.Contains(upper, "DOUB"),
		strings.Contains(upper, "NUMERIC"),
		strings.Contains(upper, "DECIMAL"):
		return model.TypeNumeric
	case strings.Contains(upper, "DATE"),
		strings.Contains(upper, "TIME"):
		return model.TypeDate
	default:
		return model.TypeCategorical
	}
}

// sqliteTableInfo holds a row from PRAGMA table_info().
type sqliteTableInfo struct {
	CID     int     `db:"cid"`
	Name    string  `db:"name"`
	Type    string  `db:"type"`
	NotNull int     `db:"notnull"`
	Default *string `db:"dflt_value"`
	PK      int     `db:"pk"`
}

// sqliteForeignKey holds a row from PRAGMA foreign_key_list().
type sqliteForeignKey struct {
	ID       int    `db:"id"`
	Seq      int    `db:"seq"`
	Table    string `db:"table"`
	From     string `db:"from"`
	To       string `db:"to"`
	OnUpdate string `db:"on_update"`
	OnDelete string `db:"on_delete"`
	Match    string `db:"match"`
}

func introspectSQLite(ctx context.Context, db *sqlx.DB) (*model.DataSchema, error) {
	const query = `SELECT name FROM sqlite_master
		WHERE type IN ('table', 'view') AND name NOT LIKE 'sqlite_%'
		ORDER BY name`

	var names []string
	if err := db.SelectContext(ctx, &names, query); err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	schema := &model.DataSchema{Tables: make([]model.DataTable, 0, len(names))}
	for _, name := range names {
		quoted := `"` + strings.ReplaceAll(name, `"`, `""`) + `"`

		var info []sqliteTableInfo
		if err := db.SelectContext(ctx, &info, fmt.Sprintf("PRAGMA table_info(%s)", quoted)); err != nil {
			return nil, fmt.Errorf("table_info for %q: %w", name, err)
		}
		cols := make([]model.SchemaColumn, len(info))
		for i, c := range info {
			cols[i] = model.SchemaColumn{
				Name:     c.Name,
				Type:     classifyDBType(c.Type),
				DBType:   c.Type,
				Nullable: c.NotNull == 0 && c.PK == 0,
			}
		}

		var fks []sqliteForeignKey
		if err := db.SelectContext(ctx, &fks, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoted)); err != nil {
			return nil, fmt.Errorf("foreign_key_list for %q: %w", name, err)
		}
		foreign := make([]model.ForeignKey, len(fks))
		for i, fk := range fks {
			foreign[i] = model.ForeignKey{
				ColumnName:       fk.From,
				ReferencedTable:  fk.Table,
				ReferencedColumn: fk.To,
			}
		}

		schema.Tables = append(schema.Tables, model.DataTable{
			Name:        name,
			Columns:     cols,
			ForeignKeys: foreign,
		})
	}
	return schema, nil
}

// infoColumn holds a row from information_schema.columns, shared by the
// postgres and mysql paths.
type infoColumn struct {
	TableName  string `db:"table_name"`
	ColumnName string `db:"column_name"`
	DataType   string `db:"data_type"`
	IsNullable string `db:"is_nullable"`
}

// infoForeignKey holds one foreign key relationship.
type infoForeignKey struct {
	TableName        string `db:"table_name"`
	ColumnName       string `db:"column_name"`
	ReferencedTable  string `db:"referenced_table"`
	ReferencedColumn string `db:"referenced_column"`
}

const pgColumnQuery = `
	SELECT c.table_name, c.column_name, c.data_type, c.is_nullable
	FROM information_schema.columns c
	JOIN information_schema.tables t
	  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
	WHERE c.table_schema = current_schema()
	  AND t.table_type IN ('BASE TABLE', 'VIEW')
	ORDER BY c.table_name, c.ordinal_position`

const pgForeignKeyQuery = `
	SELECT tc.table_name, kcu.column_name,
	       ccu.table_name AS referenced_table,
	       ccu.column_name AS referenced_column
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
	  ON tc.constraint_name = kcu.constraint_name
	 AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage ccu
	  ON tc.constraint_name = ccu.constraint_name
	 AND tc.table_schema = ccu.table_schema
	WHERE tc.constraint_type = 'FOREIGN KEY'
	  AND tc.table_schema = current_schema()`

const myColumnQuery = `
	SELECT TABLE_NAME AS table_name, COLUMN_NAME AS column_name,
	       DATA_TYPE AS data_type, IS_NULLABLE AS is_nullable
	FROM information_schema.COLUMNS
	WHERE TABLE_SCHEMA = DATABASE()
	ORDER BY TABLE_NAME, ORDINAL_POSITION`

const myForeignKeyQuery = `
	SELECT TABLE_NAME AS table_name, COLUMN_NAME AS column_name,
	       REFERENCED_TABLE_NAME AS referenced_table,
	       REFERENCED_COLUMN_NAME AS referenced_column
	FROM information_schema.KEY_COLUMN_USAGE
	WHERE TABLE_SCHEMA = DATABASE()
	  AND REFERENCED_TABLE_NAME IS NOT NULL`

func introspectInformationSchema(ctx context.Context, db *sqlx.DB, columnQuery, fkQuery string) (*model.DataSchema, error) {
	var cols []infoColumn
	if err := db.SelectContext(ctx, &cols, columnQuery); err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}

	var fks []infoForeignKey
	if err := db.SelectContext(ctx, &fks, fkQuery); err != nil {
		return nil, fmt.Errorf("list foreign keys: %w", err)
	}
	fkMap := make(map[string][]model.ForeignKey)
	for _, fk := range fks {
		fkMap[fk.TableName] = append(fkMap[fk.TableName], model.ForeignKey{
			ColumnName:       fk.ColumnName,
			ReferencedTable:  fk.ReferencedTable,
			ReferencedColumn: fk.ReferencedColumn,
		})
	}

	schema := &model.DataSchema{}
	byName := make(map[string]int)
	for _, c := range cols {
		idx, ok := byName[c.TableName]
		if !ok {
			idx = len(schema.Tables)
			byName[c.TableName] = idx
			schema.Tables = append(schema.Tables, model.DataTable{
				Name:        c.TableName,
				ForeignKeys: fkMap[c.TableName],
			})
		}
		schema.Tables[idx].Columns = append(schema.Tables[idx].Columns, model.SchemaColumn{
			Name:     c.ColumnName,
			Type:     classifyDBType(c.DataType),
			DBType:   c.DataType,
			Nullable: strings.EqualFold(c.IsNullable, "YES"),
		})
	}
	return schema, nil
}
