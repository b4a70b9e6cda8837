package planner

import (
	"tsumikidb/parser"
)

type Planner interface {
	MakePlan(stmt parser.Stmt) (Plan, error)
}

type Plan interface {
}
