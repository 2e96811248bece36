// Command adflint checks an ADF document against the data-model invariants.
// The JSON result object {valid, errors[], node_count} goes to stdout, a
// human-readable summary to stderr. Exit code is 0 iff the document is
// valid.
//
//	adflint [file]
//
// With no argument the document is read from stdin.
package main

import (
	"encoding/json"
	"flag"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/docforge/docforge-mcp/pkg/adf"
)

func main() {
	flag.Parse()

	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	data, err := readDocument(flag.Arg(0))
	if err != nil {
		logger.Fatal(err)
	}

	result := adf.Validate(data)

	encoder := json.NewEncoder(os.Stdout)
	if err := encoder.Encode(result); err != nil {
		logger.Fatal(errors.Wrap(err, "failed to encode result"))
	}

	if result.Valid {
		logger.WithField("nodes", result.NodeCount).Info("document is valid")
		return
	}
	for _, violation := range result.Errors {
		logger.Error(violation)
	}
	logger.WithField("violations", len(result.Errors)).Warn("document is invalid")
	os.Exit(1)
}

func readDocument(path string) ([]byte, error) {
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %s", path)
		}
		return data, nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read stdin")
	}
	return data, nil
}
