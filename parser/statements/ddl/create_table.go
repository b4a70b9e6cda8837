package ddl

import (
	"github.com/cockroachdb/errors"
	"github.com/xwb1989/sqlparser"
	"tsumikidb/catalog"
	"tsumikidb/types"
)

type CreateTableStmt struct {
	Into        string
	TableSchema *catalog.TableSchema
}

func BuildCreateTableStmt(statement *sqlparser.DDL) (*CreateTableStmt, error) {
	if len(statement.NewName.Name.String()) == 0 {
		return nil, errors.New("table name is empty")
	}
	tableName := statement.NewName.Name.String()
	if statement.TableSpec == nil || len(statement.TableSpec.Columns) == 0 {
		return nil, errors.New("columns is empty")
	}

	columns := make(catalog.ColumnSchemas, 0)
	for _, column := range statement.TableSpec.Columns {
		if _, dup := columns.Contains(column.Name.String()); dup {
			return nil, errors.Newf("duplicate column: %s", column.Name.String())
		}
		columnType, err := mapType(&column.Type)
		if err != nil {
			return nil, err
		}
		columns = append(columns, catalog.ColumnSchema{
			Name: column.Name.String(),
			Type: columnType,
		})
	}

	return &CreateTableStmt{
		Into: tableName,
		TableSchema: &catalog.TableSchema{
			Name:    tableName,
			Columns: columns,
		},
	}, nil
}

func mapType(columnType *sqlparser.ColumnType) (types.TypeID, error) {
	t, ok := types.ParseTypeID(columnType.Type)
	if !ok {
		return types.Invalid, errors.Newf("unknown type: %s", columnType.Type)
	}
	return t, nil
}
