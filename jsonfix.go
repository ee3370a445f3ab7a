package jsonfix

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

// Result is the outcome of a successful repair: the corrected text and
// the ordered log of everything that was changed. An empty log means the
// input was already valid.
type Result struct {
	Corrected string
	Repairs   []Record
}

// Repair corrects almost-JSON into valid JSON in a single pass and
// reports every change it made. The repairs in the result are ordered by
// position in the original input.
//
// Returns *UnrepairableSyntaxError when the text still fails a strict
// parse after every enabled repair, and *RepairRejectedError when the
// policy is PolicyError and any repair was needed.
//
// Example:
//
//	res, err := jsonfix.Repair(`{'name': 'Ada', // pioneer
//		}`)
//	// res.Corrected: {"name": "Ada", }  with the comment gone and the
//	// trailing comma removed; res.Repairs lists each change.
func Repair(input string, opts ...Option) (*Result, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return repairWith(input, cfg)
}

func repairWith(input string, cfg Config) (*Result, error) {
	if cfg.Strict {
		if err := strictCheck(input); err != nil {
			return nil, err
		}
		return &Result{Corrected: input}, nil
	}

	st := newScanState(input, cfg)
	st.run()
	corrected := string(st.out)

	switch cfg.OnRepair {
	case PolicyError:
		if len(st.log) > 0 {
			return nil, &RepairRejectedError{First: st.log[0]}
		}
	case PolicyWarn:
		for _, r := range st.log {
			warn(cfg, r)
		}
	}

	if err := strictCheck(corrected); err != nil {
		return nil, err
	}
	return &Result{Corrected: corrected, Repairs: st.log}, nil
}

// warn delivers one PolicyWarn notification. Without a configured sink
// the repair goes to stderr, one line each.
func warn(cfg Config, r Record) {
	if cfg.Notify != nil {
		cfg.Notify(r)
		return
	}
	fmt.Fprintf(os.Stderr, "jsonfix: repair at line %d: %s\n", r.Line, r.Message)
}

// strictCheck is the acceptance gate: a full standard-conformant decode.
func strictCheck(text string) error {
	var v any
	if err := json.Unmarshal([]byte(text), &v); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			return &UnrepairableSyntaxError{Offset: syn.Offset, Err: err}
		}
		return &UnrepairableSyntaxError{Err: err}
	}
	return nil
}

// Loads repairs the input and decodes the corrected text into maps,
// slices, and primitives, like a relaxed json.Unmarshal into any.
func Loads(input string, opts ...Option) (any, error) {
	res, err := Repair(input, opts...)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal([]byte(res.Corrected), &v); err != nil {
		return nil, fmt.Errorf("decoding repaired JSON: %w", err)
	}
	return v, nil
}

// Load reads everything from r and repairs and decodes it, like Loads.
func Load(r io.Reader, opts ...Option) (any, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return Loads(string(data), opts...)
}

// Unmarshal repairs data and decodes the corrected text into v with the
// standard library's unmarshaling rules.
func Unmarshal(data []byte, v any, opts ...Option) error {
	res, err := Repair(string(data), opts...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(res.Corrected), v); err != nil {
		return fmt.Errorf("decoding repaired JSON: %w", err)
	}
	return nil
}

// CanParse reports whether the input parses under the default
// configuration, repairs included.
func CanParse(input string) bool {
	_, err := Repair(input)
	return err == nil
}

// Repairs returns the repair log for the input under the default
// configuration. The log is returned even when the input stays invalid
// after repair, which makes this useful for diagnosing hopeless input.
func Repairs(input string) []Record {
	st := newScanState(input, DefaultConfig())
	st.run()
	return st.log
}
