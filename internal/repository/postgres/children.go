package postgres

import (
	"context"
	"fmt"

	"portfolio-cms-backend/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"
)

// childTable describes a replaceable child collection hanging off a parent row.
type childTable struct {
	name   string
	parent string
	value  string
}

var (
	projectTechnologies = childTable{name: "project_technologies", parent: "project_id", value: "technology_name"}
	blogTags            = childTable{name: "blog_tags", parent: "blog_post_id", value: "tag_name"}
)

// quoted returns the table, parent and value identifiers ready for SQL text.
func (t childTable) quoted() (table, parent, value string) {
	return pq.QuoteIdentifier(t.name), pq.QuoteIdentifier(t.parent), pq.QuoteIdentifier(t.value)
}

type childRow struct {
	ID       string
	ParentID string
	Value    string
}

// insertChildren adds one row per value, keeping list order in position.
// The generated ids are returned in the same order.
func insertChildren(ctx context.Context, tx pgx.Tx, t childTable, parentID string, values []string) ([]string, error) {
	table, parent, value := t.quoted()
	query := fmt.Sprintf(`INSERT INTO %s (id, %s, %s, position) VALUES ($1, $2, $3, $4)`, table, parent, value)
	ids := make([]string, 0, len(values))
	for i, v := range values {
		id := uuid.NewString()
		if _, err := tx.Exec(ctx, query, id, parentID, v, i); err != nil {
			return nil, fmt.Errorf("insert %s: %w", t.name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// replaceChildren deletes every child of parentID and inserts values in their
// place. It must run inside the transaction that updates the parent.
func replaceChildren(ctx context.Context, tx pgx.Tx, t childTable, parentID string, values []string) ([]string, error) {
	table, parent, _ := t.quoted()
	if _, err := tx.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, table, parent), parentID); err != nil {
		return nil, fmt.Errorf("clear %s: %w", t.name, err)
	}
	return insertChildren(ctx, tx, t, parentID, values)
}

// loadChildren fetches the children of every parent in one query, grouped by parent id.
func loadChildren(ctx context.Context, db database.DB, t childTable, parentIDs []string) (map[string][]childRow, error) {
	out := make(map[string][]childRow, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}

	table, parent, value := t.quoted()
	query := fmt.Sprintf(`SELECT id, %s, %s FROM %s WHERE %s = ANY($1::uuid[]) ORDER BY %s, position`,
		parent, value, table, parent, parent)
	rows, err := db.Query(ctx, query, parentIDs)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", t.name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var c childRow
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Value); err != nil {
			return nil, err
		}
		out[c.ParentID] = append(out[c.ParentID], c)
	}
	return out, rows.Err()
}
