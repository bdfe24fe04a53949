package transform_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-sif/sifread"
	"github.com/go-sif/sifread/datasource/memory"
	"github.com/go-sif/sifread/datasource/parser/dsv"
	"github.com/go-sif/sifread/execution"
	"github.com/go-sif/sifread/logging"
	"github.com/go-sif/sifread/operations/transform"
	"github.com/go-sif/sifread/schema"
	"github.com/stretchr/testify/require"
)

func createTestDataFrame(t *testing.T) sifread.DataFrame {
	s := schema.CreateSchema()
	s.CreateColumn("name", &sifread.VarStringColumnType{})
	s.CreateColumn("age", &sifread.Int32ColumnType{})
	s.CreateColumn("city", &sifread.VarStringColumnType{})
	data := [][]byte{
		[]byte("alice,34,Toronto\nbob,27,Ottawa\n"),
		[]byte("carol,,Montreal\ndave,45,Toronto\n"),
	}
	return memory.CreateDataFrame(data, dsv.CreateParser(&dsv.ParserConf{PartitionSize: 1}), s)
}

func collect(t *testing.T, df sifread.DataFrame) []sifread.Row {
	rows, err := execution.Collect(context.Background(), df, &execution.Options{
		NumWorkers: 2,
		TempDir:    t.TempDir(),
		Logger:     logging.Discard(),
	})
	require.Nil(t, err)
	return rows
}

func names(t *testing.T, rows []sifread.Row, col string) []string {
	res := make([]string, len(rows))
	for i, row := range rows {
		v, err := row.GetVarString(col)
		require.Nil(t, err)
		res[i] = v
	}
	return res
}

func TestFilter(t *testing.T) {
	df, err := createTestDataFrame(t).To(
		transform.Filter(func(row sifread.Row) (bool, error) {
			city, err := row.GetVarString("city")
			return city == "Toronto", err
		}),
	)
	require.Nil(t, err)
	require.Equal(t, []string{"alice", "dave"}, names(t, collect(t, df), "name"))
}

func TestFilterError(t *testing.T) {
	df, err := createTestDataFrame(t).To(
		transform.Filter(func(row sifread.Row) (bool, error) {
			return false, fmt.Errorf("nope")
		}),
	)
	require.Nil(t, err)
	_, err = execution.Collect(context.Background(), df, &execution.Options{TempDir: t.TempDir(), Logger: logging.Discard()})
	require.NotNil(t, err)
	require.Contains(t, err.Error(), "nope")
}

func TestMapWithAddedColumn(t *testing.T) {
	df, err := createTestDataFrame(t).To(
		transform.AddColumn("senior", &sifread.BoolColumnType{}),
		transform.Map(func(row sifread.Row) error {
			if row.IsNil("age") {
				return nil
			}
			age, err := row.GetInt32("age")
			if err != nil {
				return err
			}
			return row.SetBool("senior", age >= 40)
		}),
	)
	require.Nil(t, err)
	rows := collect(t, df)
	require.Len(t, rows, 4)
	require.True(t, rows[2].IsNil("senior"))
	senior, err := rows[3].GetBool("senior")
	require.Nil(t, err)
	require.True(t, senior)
	senior, err = rows[0].GetBool("senior")
	require.Nil(t, err)
	require.False(t, senior)
}

func TestSelectRenameRemove(t *testing.T) {
	df, err := createTestDataFrame(t).To(
		transform.Select("city", "name"),
		transform.RenameColumn("city", "town"),
	)
	require.Nil(t, err)
	require.Equal(t, []string{"town", "name"}, df.GetSchema().ColumnNames())
	rows := collect(t, df)
	require.Equal(t, []string{"Toronto", "Ottawa", "Montreal", "Toronto"}, names(t, rows, "town"))

	df, err = createTestDataFrame(t).To(transform.RemoveColumn("age", "city"))
	require.Nil(t, err)
	require.Equal(t, []string{"name"}, df.GetSchema().ColumnNames())
	require.Equal(t, []string{"alice", "bob", "carol", "dave"}, names(t, collect(t, df), "name"))

	_, err = createTestDataFrame(t).To(transform.Select("missing"))
	require.NotNil(t, err)
	_, err = createTestDataFrame(t).To(transform.RemoveColumn("missing"))
	require.NotNil(t, err)
	_, err = createTestDataFrame(t).To(transform.SelectAs([]string{"name"}, []string{"a", "b"}))
	require.NotNil(t, err)
}

func TestLimit(t *testing.T) {
	df, err := createTestDataFrame(t).To(transform.Limit(3))
	require.Nil(t, err)
	require.Equal(t, []string{"alice", "bob", "carol"}, names(t, collect(t, df), "name"))

	_, err = df.To(transform.Select("name"))
	require.NotNil(t, err)

	_, err = createTestDataFrame(t).To(transform.Limit(-1))
	require.NotNil(t, err)
}
