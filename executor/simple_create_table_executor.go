package executor

import (
	"tsumikidb/catalog"
)

type CreateTableExecutor struct {
	ctx *ExecutorContext
}

func NewCreateTableExecutor(ctx *ExecutorContext) *CreateTableExecutor {
	return &CreateTableExecutor{
		ctx: ctx,
	}
}

func (e *CreateTableExecutor) Execute(ts *catalog.TableSchema) (*ResultSet, error) {
	if err := e.ctx.Catalog.Add(ts); err != nil {
		return nil, err
	}
	if err := e.ctx.Catalog.Save(); err != nil {
		return nil, err
	}

	return &ResultSet{
		Message: "successfully created table!",
	}, nil
}
