package agent

import (
	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// Tool names offered to the model.
const (
	ToolListTables   = "sql_db_list_tables"
	ToolSchema       = "sql_db_schema"
	ToolQueryChecker = "sql_db_query_checker"
	ToolQuery        = "sql_db_query"
)

// ToolNames lists the tools in the order they are offered.
var ToolNames = []string{ToolQuery, ToolSchema, ToolListTables, ToolQueryChecker}

// Tools returns the function definitions sent with every completion.
func Tools() []openai.Tool {
	return []openai.Tool{
		functionTool(ToolQuery,
			"Input to this tool is a detailed and correct SQL query, output is a result from the database. "+
				"If the query is not correct, an error message will be returned. "+
				"If an error is returned, rewrite the query, check the query, and try again. "+
				"If you encounter an issue with Unknown column 'xxxx' in 'field list', use "+ToolSchema+" to query the correct table fields.",
			map[string]jsonschema.Definition{
				"query": {Type: jsonschema.String, Description: "A detailed and correct SQL query."},
			}, "query"),
		functionTool(ToolSchema,
			"Input to this tool is a comma-separated list of tables, output is the schema and sample rows for those tables. "+
				"Be sure that the tables actually exist by calling "+ToolListTables+" first! Example Input: table1, table2, table3",
			map[string]jsonschema.Definition{
				"table_names": {Type: jsonschema.String, Description: "A comma-separated list of the table names for which to return the schema."},
			}, "table_names"),
		functionTool(ToolListTables,
			"Input is an empty string, output is a comma-separated list of tables in the database.",
			map[string]jsonschema.Definition{
				"tool_input": {Type: jsonschema.String, Description: "An empty string"},
			}),
		functionTool(ToolQueryChecker,
			"Use this tool to double check if your query is correct before executing it. "+
				"Always use this tool before executing a query with "+ToolQuery+"!",
			map[string]jsonschema.Definition{
				"query": {Type: jsonschema.String, Description: "A detailed and SQL query to be checked."},
			}, "query"),
	}
}

func functionTool(name, description string, props map[string]jsonschema.Definition, required ...string) openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters: jsonschema.Definition{
				Type:       jsonschema.Object,
				Properties: props,
				Required:   required,
			},
		},
	}
}
