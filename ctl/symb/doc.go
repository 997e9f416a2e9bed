// Package symb provides the symbolic expression layer consumed by the
// analysis engine: a closed tagged-variant AST over a complex variable,
// numeric evaluation under variable bindings, reduction of rational
// expressions to polynomial coefficient vectors, structure classification
// (pure rational vs. rational times dead time), and Pade approximation of
// the delay factor exp(-Ld*s).
//
// The variable name "s" is reserved for the Laplace variable by the
// packages building on top of this one; symb itself treats all symbols
// uniformly.
//
// Expressions are immutable: transformation passes such as
// [ExpandPadeDelay] and [Bind] return new trees and never mutate their
// input, so a tree may be shared between concurrent analysis passes.
package symb
