package executor

import (
	"go.uber.org/zap"
	"tsumikidb/catalog"
)

type DropIndexExecutor struct {
	ctx *ExecutorContext
}

func NewDropIndexExecutor(ctx *ExecutorContext) *DropIndexExecutor {
	return &DropIndexExecutor{
		ctx: ctx,
	}
}

// Execute removes the index file and its catalog entry while no cursor has
// the table open.
func (e *DropIndexExecutor) Execute(desc catalog.IndexDesc) (*ResultSet, error) {
	err := e.ctx.Storage.WithExclusive(desc.TableName, func() error {
		if err := e.ctx.Storage.DropIndex(desc.TableName, desc.IndexName); err != nil {
			return err
		}
		if err := e.ctx.Catalog.DropIndex(desc.TableName, desc.IndexName); err != nil {
			return err
		}
		return e.ctx.Catalog.Save()
	})
	if err != nil {
		return nil, err
	}

	e.ctx.Logger.Debug("index dropped",
		zap.String("index", desc.IndexName),
		zap.String("table", desc.TableName))
	return &ResultSet{
		Message: "successfully dropped index!",
	}, nil
}
