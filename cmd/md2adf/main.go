// Command md2adf compiles markdown-dialect text into an ADF document tree.
// The JSON document goes to stdout; diagnostics go to stderr, never mixed
// with the payload.
//
//	md2adf [-target confluence|jira] [-f file] [-pretty]
//
// With no -f flag the source is read from stdin.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/docforge/docforge-mcp/pkg/mdc"
)

func main() {
	target := flag.String("target", "confluence", "Target platform: confluence or jira")
	file := flag.String("f", "", "Read markdown from a file instead of stdin")
	pretty := flag.Bool("pretty", false, "Indent the JSON output")
	issueBase := flag.String("issue-base-url", os.Getenv("ATLASSIAN_HOST"), "Base URL for issue-key autolinks")
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if err := run(*target, *file, *issueBase, *pretty, logger); err != nil {
		logger.Fatal(err)
	}
}

func run(target, file, issueBase string, pretty bool, logger *logrus.Logger) error {
	source, err := readSource(file)
	if err != nil {
		return err
	}

	style := mdc.StyleFor(target)
	style.IssueBaseURL = issueBase
	if issueBase == "" {
		style.IssueKeyLinks = false
	}

	doc := mdc.NewCompiler(style, logger).Compile(source)

	encoder := json.NewEncoder(os.Stdout)
	if pretty {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(doc); err != nil {
		return errors.Wrap(err, "failed to encode document")
	}
	return nil
}

func readSource(file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", errors.Wrapf(err, "failed to read %s", file)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.Wrap(err, "failed to read stdin")
	}
	if len(data) == 0 {
		fmt.Fprintln(os.Stderr, "md2adf: reading from empty stdin (use -f to read a file)")
	}
	return string(data), nil
}
