package dataservice

import (
	"context"
	"net/http"
	"net/url"
)

// Query は 1 テーブルに対する REST クエリビルダー
type Query struct {
	c      *Client
	table  string
	params url.Values
	single bool
}

// From starts a query against table.
func (c *Client) From(table string) *Query {
	return &Query{c: c, table: table, params: url.Values{}}
}

// Select sets the column list ("*" when never called).
func (q *Query) Select(columns string) *Query {
	q.params.Set("select", columns)
	return q
}

// Eq adds a column=eq.value filter.
func (q *Query) Eq(column, value string) *Query {
	q.params.Add(column, "eq."+value)
	return q
}

// Order は並び順を追加する
func (q *Query) Order(column string, ascending bool) *Query {
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	clause := column + "." + dir
	if existing := q.params.Get("order"); existing != "" {
		clause = existing + "," + clause
	}
	q.params.Set("order", clause)
	return q
}

// Single expects exactly one row; zero rows yields an error satisfying IsNotFound.
func (q *Query) Single() *Query {
	q.single = true
	return q
}

func (q *Query) path() string {
	p := "/rest/v1/" + url.PathEscape(q.table)
	if len(q.params) > 0 {
		p += "?" + q.params.Encode()
	}
	return p
}

// Execute runs the select and decodes the rows (or the single object) into dest.
func (q *Query) Execute(ctx context.Context, dest any) error {
	if q.params.Get("select") == "" {
		q.params.Set("select", "*")
	}
	req, err := q.c.newRequest(ctx, http.MethodGet, q.path(), nil)
	if err != nil {
		return err
	}
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return q.c.do(req, dest)
}

// Insert writes row and decodes the stored representation into dest.
// With Single the representation is a single object, otherwise an array.
func (q *Query) Insert(ctx context.Context, row any, dest any) error {
	req, err := q.c.newRequest(ctx, http.MethodPost, q.path(), row)
	if err != nil {
		return err
	}
	req.Header.Set("Prefer", "return=representation")
	if q.single {
		req.Header.Set("Accept", "application/vnd.pgrst.object+json")
	}
	return q.c.do(req, dest)
}
