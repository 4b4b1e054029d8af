package engine

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"
)

// namedParam matches named parameters such as `?name`.
var namedParam = regexp.MustCompile(`\?\w+`)

// rowsClause matches a RETURNING clause anywhere in a query.
var rowsClause = regexp.MustCompile(`(?i)\breturning\b`)

// Query runs a query and returns the result.
//
// Named parameters are written as `?name` and looked up in params. The query
// runs in the transaction carried by the context when there is one, else on
// the pool.
func (e *Engine) Query(ctx context.Context, query string, params map[string]interface{}) ([]map[string]interface{}, error) {

	convertedQuery, placeholders := e.convertQuery(query)

	reorderedParams, err := reorderParameters(params, placeholders)
	if err != nil {
		return nil, err
	}

	stmt, err := e.prepareStatement(ctx, convertedQuery)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	if returnsRows(convertedQuery) {

		rows, err := stmt.QueryContext(ctx, reorderedParams...)
		if err != nil {
			return nil, err
		}

		return prepareDataSet(rows)
	}

	result, err := stmt.ExecContext(ctx, reorderedParams...)
	if err != nil {
		return nil, err
	}

	return e.prepareResultSet(result)
}

// QueryBulk runs a query once for every parameter set and returns the combined result.
//
// This is intended for bulk INSERTS, UPDATES and DELETES.
func (e *Engine) QueryBulk(ctx context.Context, query string, params []map[string]interface{}) ([]map[string]interface{}, error) {

	convertedQuery, placeholders := e.convertQuery(query)

	if returnsRows(convertedQuery) {
		return nil, fmt.Errorf("engine: queries returning rows are not allowed in bulk. use Query() instead")
	}

	stmt, err := e.prepareStatement(ctx, convertedQuery)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var lastID int64
	var affRows int64

	for _, pms := range params {

		reorderedParams, err := reorderParameters(pms, placeholders)
		if err != nil {
			return nil, err
		}

		result, err := stmt.ExecContext(ctx, reorderedParams...)
		if err != nil {
			return nil, err
		}

		if e.dialect.LastInsertID {
			lastID, _ = result.LastInsertId()
		}
		ar, _ := result.RowsAffected()
		affRows += ar
	}

	return formatResultSet(lastID, affRows), nil
}

// convertQuery converts a named parameter query to the placeholder format of the dialect.
//
// It returns the converted query and the parameter names in the order they
// appear in the query.
func (e *Engine) convertQuery(query string) (string, []string) {

	query = strings.TrimSpace(query)

	var names []string
	converted := namedParam.ReplaceAllStringFunc(query, func(m string) string {
		names = append(names, strings.TrimPrefix(m, "?"))
		return e.placeholder(len(names))
	})

	return converted, names
}

func (e *Engine) placeholder(n int) string {

	if e.dialect.Placeholder == nil {
		return QuestionPlaceholder(n)
	}

	return e.dialect.Placeholder(n)
}

// prepareStatement creates a prepared statement in the context transaction, or on the pool.
func (e *Engine) prepareStatement(ctx context.Context, query string) (*sql.Stmt, error) {

	if tx := current(ctx); tx != nil {
		return tx.tx.PrepareContext(ctx, query)
	}

	return e.pool.PrepareContext(ctx, query)
}

// prepareResultSet creates a result set using the result of Exec().
func (e *Engine) prepareResultSet(result sql.Result) ([]map[string]interface{}, error) {

	var id int64
	var err error

	if e.dialect.LastInsertID {
		id, err = result.LastInsertId()
		if err != nil {
			return nil, err
		}
	}

	aff, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}

	return formatResultSet(id, aff), nil
}

// reorderParameters orders the parameter values the way the named parameters appear.
func reorderParameters(params map[string]interface{}, namedParams []string) ([]interface{}, error) {

	reordered := make([]interface{}, 0, len(namedParams))

	for _, param := range namedParams {

		value, ok := params[param]
		if !ok {
			return nil, fmt.Errorf("engine: parameter '%s' is missing", param)
		}

		reordered = append(reordered, value)
	}

	return reordered, nil
}

// returnsRows tells whether the query produces a row set.
func returnsRows(query string) bool {

	q := strings.ToLower(strings.TrimLeft(query, "( \t\r\n"))

	for _, prefix := range []string{"select", "with", "show", "pragma"} {
		if strings.HasPrefix(q, prefix) {
			return true
		}
	}

	return rowsClause.MatchString(query)
}

// prepareDataSet reads every row into a map keyed by column name.
//
// Byte slices are converted to strings.
func prepareDataSet(rows *sql.Rows) ([]map[string]interface{}, error) {

	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	data := make([]map[string]interface{}, 0)
	values := make([]interface{}, len(cols))
	pointers := make([]interface{}, len(cols))
	for i := range values {
		pointers[i] = &values[i]
	}

	for rows.Next() {

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{}, len(cols))
		for i, col := range cols {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}

		data = append(data, row)
	}

	return data, rows.Err()
}

// formatResultSet creates a result set using last insert id and affected rows.
func formatResultSet(id, aff int64) []map[string]interface{} {

	return []map[string]interface{}{
		{
			"affected_rows":  aff,
			"last_insert_id": id,
		},
	}
}
