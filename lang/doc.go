// Package lang implements the Maw scripting language: a hand-written lexer,
// a recursive-descent parser producing an AST, and a tree-walking evaluator
// over chained lexical environments.
//
// # Grammar
//
// Informal EBNF, loosest binding last:
//
//	Program     → Stmt* EOF
//	Stmt        → VarDecl | If | While | For | Return | Expr   (';' optional)
//	VarDecl     → ('var' | 'const') Identifier ('=' Expr)?
//	If          → 'if' '(' Expr ')' Block ('else' (If | Block))?
//	While       → 'while' '(' Expr ')' Block
//	For         → 'for' '(' VarDecl ';' Expr ';' Assign ')' Block
//	Return      → 'return' Stmt?
//	Expr        → 'funct' Identifier '(' Params? ')' Block | Assign
//	Assign      → Literal (('=' Expr) | '++' | '--')?
//	Literal     → Array | Object | Logical
//	Logical     → Additive (('and' | 'or') Additive)*
//	Additive    → Mult (('+' | '-' | '==' | '!=' | '>=' | '<=' | '>' | '<') Mult)*
//	Mult        → Postfix (('*' | '/' | '%') Postfix)*
//	Postfix     → Primary ('.' Identifier | '[' Expr ']' | '(' Args? ')')*
//	Primary     → Identifier | Number | String | '(' Expr ')' | '-' Postfix
//
// Comparisons share a precedence level with addition and subtraction, so
// a + 1 > b parses as (a + 1) > b but a > b + 1 parses as (a > b) + 1.
// Keywords, including and/or, match without regard to letter case.
// Numbers are unsigned integers in source; "elseif" is read as "else if".
//
// # Example
//
//	// closures capture their defining scope by reference
//	funct counter() {
//	  var n = 0
//	  funct next() {
//	    n = n + 1
//	    return n
//	  }
//	  return next
//	}
//
//	const tick = counter()
//	tick()
//	print(tick())   // 2
//
//	for (var i = 0; i < 3; i++) {
//	  print({ i, square: i * i })
//	}
//
// # Evaluation
//
// A [Runtime] holds the host context: I/O streams, logger, random source
// and the [Library] installers that populate new global environments.
// [Runtime.NewGlobalEnv] declares the constants true, false and null before
// running the libraries. Natives receive the runtime and the caller's
// environment, and may re-enter the evaluator with [Runtime.Run] (fresh
// globals) or [Runtime.RunIn] (given environment).
//
// Only function calls and for loops introduce a scope. Bodies of if and
// while run in the enclosing scope, so declarations inside them remain
// visible afterwards.
//
// Binary operators apply to two Numbers (arithmetic and comparison) or two
// Booleans (and/or). Any other combination yields null rather than an
// error. Conditions of if, while and for must be Boolean.
package lang
