package catalog_test

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"tsumikidb/catalog"
	"tsumikidb/common"
	"tsumikidb/storage"
	"tsumikidb/types"
)

func studentsTable() *catalog.TableSchema {
	return &catalog.TableSchema{
		Name: "Students",
		Columns: catalog.ColumnSchemas{
			{Name: "sid", Type: types.Integer},
			{Name: "name", Type: types.Varchar},
			{Name: "age", Type: types.Float},
		},
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	st := storage.NewStorage(storage.NewVirtualDiskManager(), 4, nil)
	ct, err := catalog.LoadCatalog(st, nil)
	require.NoError(t, err)
	assert.Empty(t, ct.TableNames())

	require.NoError(t, ct.Add(studentsTable()))
	require.NoError(t, ct.AddIndex(catalog.IndexDesc{TableName: "Students", ColumnName: "age", IndexName: "IX_Age", Kind: storage.BTreeIndexKind}))
	require.NoError(t, ct.AdjustRecCount("Students", 5))
	require.NoError(t, ct.Save())

	loaded, err := catalog.LoadCatalog(st, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"Students"}, loaded.TableNames())

	schema, err := loaded.GetSchema("Students")
	require.NoError(t, err)
	assert.Equal(t, []string{"sid", "name", "age"}, schema.Names())
	assert.Equal(t, types.Float, schema.Column(2).Type)

	n, err := loaded.GetRecCount("Students")
	require.NoError(t, err)
	assert.Equal(t, uint64(5), n)

	ix := loaded.GetIndexes("Students")
	require.Len(t, ix, 1)
	assert.Equal(t, "IX_Age", ix[0].IndexName)
	assert.Equal(t, storage.BTreeIndexKind, ix[0].Kind)
}

func TestCatalogErrors(t *testing.T) {
	st := storage.NewStorage(storage.NewVirtualDiskManager(), 4, nil)
	ct, err := catalog.LoadCatalog(st, nil)
	require.NoError(t, err)
	require.NoError(t, ct.Add(studentsTable()))

	assert.ErrorIs(t, ct.Add(studentsTable()), catalog.TableAlreadyExistsError)

	_, err = ct.GetSchema("Nope")
	assert.True(t, errors.Is(err, catalog.TableSchemaNotFoundError))
	assert.True(t, errors.Is(err, common.ErrSchema))
	assert.Nil(t, ct.GetIndexes("Nope"))

	err = ct.AddIndex(catalog.IndexDesc{TableName: "Students", ColumnName: "gpa", IndexName: "IX_Gpa"})
	assert.True(t, errors.Is(err, common.ErrSchema))

	desc := catalog.IndexDesc{TableName: "Students", ColumnName: "name", IndexName: "IX_Name", Kind: storage.HashIndexKind}
	require.NoError(t, ct.AddIndex(desc))
	assert.ErrorIs(t, ct.AddIndex(desc), catalog.IndexAlreadyExistsError)

	require.NoError(t, ct.AdjustRecCount("Students", -3))
	n, err := ct.GetRecCount("Students")
	require.NoError(t, err)
	assert.Equal(t, uint64(0), n)
}

func TestCatalogDropIndex(t *testing.T) {
	st := storage.NewStorage(storage.NewVirtualDiskManager(), 4, nil)
	ct, err := catalog.LoadCatalog(st, nil)
	require.NoError(t, err)
	require.NoError(t, ct.Add(studentsTable()))
	require.NoError(t, ct.AddIndex(catalog.IndexDesc{TableName: "Students", ColumnName: "age", IndexName: "IX_Age", Kind: storage.BTreeIndexKind}))
	require.NoError(t, ct.AddIndex(catalog.IndexDesc{TableName: "Students", ColumnName: "name", IndexName: "IX_Name", Kind: storage.HashIndexKind}))

	desc, err := ct.FindIndex("IX_Name")
	require.NoError(t, err)
	assert.Equal(t, "Students", desc.TableName)
	assert.Equal(t, "name", desc.ColumnName)

	require.NoError(t, ct.DropIndex("Students", "IX_Age"))
	ix := ct.GetIndexes("Students")
	require.Len(t, ix, 1)
	assert.Equal(t, "IX_Name", ix[0].IndexName)

	err = ct.DropIndex("Students", "IX_Age")
	assert.True(t, errors.Is(err, catalog.IndexNotFoundError))
	assert.True(t, errors.Is(err, common.ErrSchema))
	_, err = ct.FindIndex("IX_Age")
	assert.True(t, errors.Is(err, catalog.IndexNotFoundError))
	assert.True(t, errors.Is(ct.DropIndex("Nope", "IX_Name"), catalog.TableSchemaNotFoundError))
}
