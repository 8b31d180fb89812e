// Package compiler turns CUE query definitions into YQL query trees.
//
// # Definition Format
//
// Queries are declared under the top-level "query" struct, one field per
// named query. Each query holds exactly one statement plus optional clauses:
//
//	query: quotes: {
//	    select: {
//	        from:    "yahoo.finance.quotes"
//	        columns: ["symbol", "Ask", "Bid"]
//	    }
//	    where: and: [
//	        {column: "symbol", among: ["'YHOO'", "'AAPL'"]},
//	        {column: "Ask", op: "<", value: 300},
//	    ]
//	    group_by: ["symbol"]
//	    order_by: [{column: "Ask", order: "desc"}]
//	}
//
// Statements:
//
//	select: {from: "t", columns: ["a", "b"]}
//	insert: {into: "t", columns: ["a"], values: [1]}   // columns optional
//	update: {table: "t", set: [{column: "a", value: 1}]}
//	delete: {from: "t"}
//
// Conditions:
//
//	{column: "a", op: "=", value: 1}        // =, !=, <, >, <=, >=
//	{column: "a", between: [1, 10]}
//	{column: "a", among: ["'x'", "'y'"]}
//	{and: [cond, cond, ...]}               // folded left
//	{or: [cond, cond, ...]}                // folded left
//	{not: cond}
//
// Values are CUE strings holding the YQL literal text ("'YHOO'", "3.5"),
// CUE numbers, or null. Clauses apply in the order where, group_by,
// order_by.
//
// # Errors
//
// Structural problems (a missing statement, an unknown operator, a value of
// the wrong CUE kind) are reported as *CompileError with the CUE position.
// Token-level problems (a table name with a space, a literal that is neither
// a number nor a quoted string) are not errors: they compile to an invalid
// query, which Validate reports.
package compiler
