// Package jsonfix repairs almost-JSON: the output of language models,
// hand-edited config files, and JavaScript-flavored tooling that a strict
// parser rejects. It removes comments and trailing commas, converts
// single-quoted strings and unquoted keys, normalizes typographic quotes,
// rewrites Python literals, escapes stray newlines in strings, closes
// unfinished brackets, and drops truncation markers, all in a single
// forward pass over the input.
//
// Every change is recorded. Repair returns the corrected text together
// with an ordered log of Record entries, each one locating the change in
// the original input by offset, line, and column:
//
//	res, err := jsonfix.Repair(`{'model': 'gpt', // guessed
//		'temp': 0.7,}`)
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, r := range res.Repairs {
//		fmt.Println(r)
//	}
//
// Loads, Load, and Unmarshal combine repair with decoding when only the
// parsed value matters. Individual repairs can be switched off with
// options, and the policy gate decides what needing a repair means:
// PolicyIgnore fixes silently, PolicyWarn fixes and reports, PolicyError
// rejects the input outright. WithStrict bypasses the engine entirely and
// accepts only already-valid JSON.
//
// Text that cannot be made valid by the enabled repairs fails with
// *UnrepairableSyntaxError after the fact; nothing is ever partially
// applied. Inputs the engine does not touch round-trip byte for byte, and
// repairing already-repaired output is a no-op.
package jsonfix
