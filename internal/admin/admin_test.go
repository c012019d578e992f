package admin

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

// execQuerier reports a fixed number of affected rows for every Exec.
type execQuerier struct {
	rows int64
	args []any
}

func (q *execQuerier) Exec(_ context.Context, _ string, args ...any) (pgconn.CommandTag, error) {
	q.args = args
	return pgconn.NewCommandTag(fmt.Sprintf("UPDATE %d", q.rows)), nil
}

func (q *execQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (q *execQuerier) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func call(h echo.HandlerFunc, id string) *httptest.ResponseRecorder {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/", nil), rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	_ = h(c)
	return rec
}

func TestSuspendAndActivate(t *testing.T) {
	const id = "7f1b2c3d-4e5f-4a6b-8c7d-9e0f1a2b3c4d"

	q := &execQuerier{rows: 1}
	h := NewHandler(q)
	rec := call(h.SuspendUser, id)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{id, false}, q.args)

	rec = call(h.ActivateUser, id)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{id, true}, q.args)

	rec = call(NewHandler(&execQuerier{}).SuspendUser, id)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(h.SuspendUser, "nope")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
