// Package enginetest builds the small university and Foo databases the
// planner and engine tests run against.
package enginetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"tsumikidb/common"
	"tsumikidb/engine"
)

var Schema = []string{
	"create table Students (sid int, name varchar(50), age float)",
	"create table Courses (cid int, title varchar(50))",
	"create table Grades (gsid int, gcid int, points float)",
	"create table Foo (a int, b int, c int, d int, e int)",
}

var Rows = []string{
	"insert into Students values (1, 'Alice', 25.67), (2, 'Chris', 12.34), (3, 'Bob', 30.0), (4, 'Andy', 50.0), (5, 'Ron', 30.0)",
	"insert into Courses values (448, 'DB Fun'), (348, 'Less Cool'), (542, 'More Fun')",
	"insert into Grades values (2, 448, 4.0), (3, 348, 2.5), (1, 348, 3.1), (4, 542, 2.8), (5, 542, 3.0)",
	"insert into Foo values (1, 2, 8, 4, 5), (2, 2, 8, 4, 5), (1, 5, 3, 4, 5), (1, 4, 8, 5, 5), (1, 4, 3, 4, 6)",
}

var Indexes = []string{
	"create index IX_Age on Students(age) using btree",
	"create index IX_Points on Grades(points) using btree",
	"create index IX_Name on Students(name) using hash",
}

// Config is the default configuration with a small handle budget, so leaked
// cursors surface quickly.
func Config() *common.Config {
	cfg := common.DefaultConfig()
	cfg.Storage.MaxOpenHandles = 16
	cfg.Log.Level = "off"
	return cfg
}

// NewEngine opens an in-memory engine loaded with every fixture table.
func NewEngine(t testing.TB) *engine.Engine {
	t.Helper()
	return NewEngineWithConfig(t, Config())
}

// NewEngineWithConfig is NewEngine with a caller supplied configuration.
func NewEngineWithConfig(t testing.TB, cfg *common.Config) *engine.Engine {
	t.Helper()

	e, err := engine.Open(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { e.Close() })

	for _, stmts := range [][]string{Schema, Rows, Indexes} {
		for _, sql := range stmts {
			_, err := e.Execute(sql)
			require.NoError(t, err, sql)
		}
	}
	return e
}
