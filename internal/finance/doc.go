// Package finance derives the financial statement a session scores teams
// by: units sold, revenue, cost of goods, gross margin, overhead by margin
// band, net income, and net margin. Derivation is pure; the overhead rate
// table and the material unit cost come from the active content pack.
package finance
