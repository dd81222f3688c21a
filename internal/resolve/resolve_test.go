package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crosscache-dev/crosscache/internal/lineindex"
)

func TestSchemaRefsFirstSeenOrder(t *testing.T) {
	text := `
      responses:
        '200':
          $ref: '#/components/schemas/TaskList'
      requestBody:
        $ref: '#/components/schemas/Task'
      more:
        $ref: '#/components/schemas/TaskList'
`
	assert.Equal(t, []string{"TaskList", "Task"}, SchemaRefs(text))
}

func TestSchemasDropsUnknownNames(t *testing.T) {
	schemaIdx := lineindex.NewFileIndex("taskflow.yaml", 100)
	schemaIdx.Entities["Task"] = lineindex.Entity{
		Name:  "Task",
		Kind:  lineindex.KindSchema,
		Range: lineindex.LineRange{Start: 10, End: 20},
	}

	text := "$ref: '#/components/schemas/Task'\n$ref: '#/components/schemas/External'"
	entities := Schemas(text, schemaIdx)
	require.Len(t, entities, 1)
	assert.Equal(t, "Task", entities[0].Name)

	assert.Nil(t, Schemas(text, nil))
}

func TestTableNamesClauseAnchored(t *testing.T) {
	sql := `SELECT t.id, u.name
FROM tasks t
JOIN users u ON u.id = t.owner_id
WHERE t.status = 'open'`

	assert.Equal(t, []string{"tasks", "users"}, TableNames(sql))
}

func TestTableNamesExcludesReservedWords(t *testing.T) {
	names := TableNames(`SELECT * FROM orders WHERE status = 'NEW'`)
	assert.Equal(t, []string{"orders"}, names)
	assert.NotContains(t, names, "WHERE")
	assert.NotContains(t, names, "NEW")
	assert.NotContains(t, names, "SELECT")
}

func TestTableNamesInsertAndUpdate(t *testing.T) {
	assert.Equal(t, []string{"audit_log"},
		TableNames("INSERT INTO audit_log (entry) VALUES ($1)"))
	assert.Equal(t, []string{"tasks"},
		TableNames("UPDATE tasks SET title = $1 WHERE id = $2"))
	assert.Equal(t, []string{"tasks"},
		TableNames("DELETE FROM tasks WHERE id = $1"))
}

func TestTableNamesSorted(t *testing.T) {
	sql := "SELECT * FROM zebras JOIN antelopes ON true"
	assert.Equal(t, []string{"antelopes", "zebras"}, TableNames(sql))
}

func TestTablesResolvesAgainstSchemaIndex(t *testing.T) {
	schemaIdx := lineindex.NewFileIndex("schema.sql", 50)
	schemaIdx.Entities["orders"] = lineindex.Entity{
		Name:  "orders",
		Kind:  lineindex.KindSQLTable,
		Range: lineindex.LineRange{Start: 1, End: 8},
	}

	entities := Tables("SELECT * FROM orders JOIN shipments ON true", schemaIdx)
	require.Len(t, entities, 1)
	assert.Equal(t, "orders", entities[0].Name)
}

func TestGeneratedNameAssociation(t *testing.T) {
	genIdx := lineindex.NewFileIndex("query.sql.go", 200)
	for _, name := range []string{"ListTasks", "ListTasksRow", "listTasksSQL", "CreateTask", "Unrelated"} {
		genIdx.Entities[name] = lineindex.Entity{
			Name:  name,
			Kind:  lineindex.KindGenFunction,
			Range: lineindex.LineRange{Start: 1, End: 1},
		}
	}

	entities := Generated("ListTasks", genIdx)
	var names []string
	for _, e := range entities {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"ListTasks", "ListTasksRow", "listTasksSQL"}, names)

	assert.Nil(t, Generated("ListTasks", nil))
	assert.Nil(t, Generated("", genIdx))
}
