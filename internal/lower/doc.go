// Package lower translates a foreign syntax tree into IR.
//
// One Context serves one translation unit. It memoizes every translated
// statement, expression, type and declaration by node identity, keeps the
// stack of open scopes, resolves declaration references to symbols and
// synthesizes declarations for template instantiations. Unsupported
// constructs abort the unit with an *UnimplementedError; nodes that do not
// translate into the expected category degrade the result but do not stop it.
package lower
