package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log/v2"

	"charm.land/jsonfix"
)

// processor applies the repair engine to one input at a time, carrying
// the settings shared by every file on the command line.
type processor struct {
	cfg     jsonfix.Config
	output  string
	verbose bool
	backup  bool
	dryRun  bool
	schema  []byte

	stdin  io.Reader
	stdout io.Writer
	logger *log.Logger
}

// Process repairs a single file or stdin ("-"). Reporting goes to the
// logger; the repaired document goes to the input file, the --output
// destination, or stdout.
func (p *processor) Process(path string) error {
	content, name, err := p.readInput(path)
	if err != nil {
		return err
	}

	res, err := jsonfix.Repair(content, jsonfix.WithConfig(p.cfg))
	if err != nil {
		return err
	}

	if p.schema != nil {
		if err := jsonfix.ValidateSchema(res.Corrected, p.schema); err != nil {
			return err
		}
	}

	fixed, err := reindent(res.Corrected)
	if err != nil {
		return err
	}

	if p.verbose {
		p.report(name, res.Repairs)
	}

	if p.dryRun {
		if len(res.Repairs) > 0 {
			p.logger.Printf("Would fix %d issue(s) in %s", len(res.Repairs), name)
		}
		return nil
	}

	return p.writeOutput(fixed, content, path)
}

func (p *processor) readInput(path string) (content, name string, err error) {
	if path == "-" {
		data, err := io.ReadAll(p.stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), "<stdin>", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(data), path, nil
}

func (p *processor) report(name string, repairs []jsonfix.Record) {
	if len(repairs) == 0 {
		p.logger.Printf("No changes needed in %s", name)
		return
	}
	p.logger.Printf("Fixed %d issue(s) in %s:", len(repairs), name)
	for _, r := range repairs {
		p.logger.Printf("  Line %d: %s", r.Line, r.Message)
	}
}

// writeOutput delivers the formatted document. Stdout gets it verbatim;
// file destinations get a trailing newline, a .bak copy first when
// overwriting with --backup, and no write at all when nothing changed.
func (p *processor) writeOutput(fixed, original, inputPath string) error {
	toStdout := p.output == "-" || (inputPath == "-" && p.output == "")
	if toStdout {
		_, err := io.WriteString(p.stdout, fixed)
		return err
	}

	dest := p.output
	if dest == "" {
		dest = inputPath
	}
	fixed += "\n"

	if dest == inputPath && fixed == original {
		return nil
	}

	if p.backup && (p.output == "" || p.output == inputPath) {
		if _, err := os.Stat(dest); err == nil {
			if err := copyFile(dest, dest+".bak"); err != nil {
				return fmt.Errorf("creating backup: %w", err)
			}
		}
	}

	if err := os.WriteFile(dest, []byte(fixed), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", dest, err)
	}
	return nil
}

// reindent renders a repaired document with two-space indentation.
// json.Indent works on the text itself, so object keys keep the order
// they had in the input. Surrounding whitespace is trimmed first since
// Indent would carry trailing whitespace through.
func reindent(corrected string) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(corrected)), "", "  "); err != nil {
		return "", fmt.Errorf("formatting output: %w", err)
	}
	return buf.String(), nil
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data, info.Mode().Perm())
}

func displayName(path string) string {
	if path == "-" {
		return "<stdin>"
	}
	return path
}
