// Package tokenizer provides header-value tokenization for parameterized
// headers (Content-Type, Content-Disposition) using Shape's tokenizer framework.
package tokenizer

// Token type constants for parameterized header values.
const (
	// Value tokens
	TokenAtom         = "Atom"         // form-data, text, name, utf-8
	TokenQuotedString = "QuotedString" // "report.pdf"
	TokenComment      = "Comment"      // (a comment)

	// Structural tokens
	TokenHWSP      = "HWSP"      // run of space/tab
	TokenComma     = "Comma"     // ,
	TokenSemicolon = "Semicolon" // ;
	TokenEquals    = "Equals"    // =
	TokenSolidus   = "Solidus"   // /
	TokenTSpecial  = "TSpecial"  // any other reserved separator: ( ) < > @ : \ " [ ] ?

	// Special
	TokenUnterminated = "Unterminated" // quoted string or comment cut off by end of value
	TokenEOF          = "EOF"          // end of value
)

// tspecials is the reserved separator set of RFC 2045 §5.1.
const tspecials = `()<>@,;:\"/[]?=`
