// Package parser provides an error-tolerant lexer and parser for Java source
// code, built for editors that need a tree while the user is still typing.
//
// # Tokens
//
// [Tokenize] never fails. Bytes that start no token become TokenError, and
// strings, char literals, text blocks and block comments that run into a
// line end or the end of input are returned with Unterminated set. Comments
// are part of the token stream; [Parser.Tokens] filters them out.
//
// # Skeleton
//
// The parser produces a tree of [Node] values covering the whole input:
//
//	unit, tokens := parser.Parse(src, parser.WithFile("A.java"))
//
// Every node has a half-open span [Start, End) of byte offsets. A child
// always lies within its parent and siblings never overlap. When a
// construct is missing its closing token the node is marked Incomplete;
// if the input ended first, its span reaches the end of input, so a caret
// placed there is still inside it.
//
// Recovery is local. A statement that cannot be parsed becomes an Error
// node and parsing resumes at the next ';', '}' or member modifier. A
// block that was never closed ends at the first access modifier, which can
// only start the next member of the enclosing type:
//
//	class A {
//	    void f() {
//	        foo(        // f's body is Incomplete and ends here
//	    public void g() {}
//	}
//
// The parser never loops: every iteration either consumes a token or
// records it as stray input.
package parser
