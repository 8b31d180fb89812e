// Package yql provides a typed builder and renderer for YQL queries.
//
// YQL is a small SQL-like language: four base statements (select, insert,
// update, delete), three clauses (where, order by, group by) and conditional
// expressions built from comparisons, ranges, set membership and the
// and/or/not combinators.
//
// ARCHITECTURE:
//
// Every fragment is an immutable value implementing Node:
//
//	[Table, Column, Value] → [CompareExpr, BetweenExpr, AmongExpr]
//	                       → [AndExpr, OrExpr, NotExpr]
//	[Table, Column, Value] → [SelectStmt, InsertStmt, UpdateStmt, DeleteStmt]
//	                       → [WhereClause, OrderByClause, GroupByClause]
//
// Clauses wrap an inner query and form a linear chain ending at exactly one
// base statement. Conditional expressions form a binary tree over leaf
// comparisons.
//
// VALIDITY IS DATA:
//
// Construction never fails. Each constructor validates its inputs and
// records the outcome; an invalid fragment can still be composed further and
// poisons every node built on top of it. Callers check IsValid on the root
// (or call Build, which does it for them) before using the rendered text:
//
//	q := yql.Select(yql.NewTable("t"), yql.NewColumn("x")).
//	    Where(yql.NewColumn("y").Equal(yql.NewValue("1")))
//
//	text, err := yql.Build(q) // "select x\nfrom t\nwhere y=1\n"
//
// The rendered text of an invalid node is unspecified.
//
// SEALED INTERFACES:
//
// Node, Query and Condition use the marker method pattern so that only
// types in this package implement them. Whether a node is usable as a query
// or as a condition is ultimately decided at runtime by IsQuery and
// IsConditional, because AndExpr and OrExpr can play either role depending
// on their left-hand side.
package yql
