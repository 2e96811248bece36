package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/docforge/docforge-mcp/pkg/adf"
	"github.com/docforge/docforge-mcp/services"
)

var pendingMentionPattern = regexp.MustCompile(
	regexp.QuoteMeta(adf.PendingMentionPrefix) + `([A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,})`)

// resolveMentions replaces every pending-mention placeholder in a serialized
// document with the account id from a directory lookup. The substitution is
// a literal string replacement on the JSON payload, done after compilation
// and before the write API call. A single unresolvable address aborts the
// whole publish; partially resolved content must never be sent.
func resolveMentions(ctx context.Context, serialized []byte) ([]byte, error) {
	matches := pendingMentionPattern.FindAllStringSubmatch(string(serialized), -1)
	if len(matches) == 0 {
		return serialized, nil
	}

	resolved := make(map[string]string)
	for _, m := range matches {
		email := m[1]
		if _, ok := resolved[email]; ok {
			continue
		}
		accountID, err := lookupAccountID(ctx, email)
		if err != nil {
			return nil, err
		}
		resolved[email] = accountID
	}

	out := string(serialized)
	for email, accountID := range resolved {
		out = strings.ReplaceAll(out, adf.PendingMentionPrefix+email, accountID)
	}
	return []byte(out), nil
}

// lookupAccountID is a variable so the directory can be stubbed in tests.
var lookupAccountID = func(ctx context.Context, email string) (string, error) {
	client := services.JiraClient()

	users, response, err := client.User.Search.Do(ctx, "", email, 0, 2)
	if err != nil {
		if response != nil {
			return "", fmt.Errorf("user lookup failed for %s: %s (endpoint: %s)", email, response.Bytes.String(), response.Endpoint)
		}
		return "", fmt.Errorf("user lookup failed for %s: %v", email, err)
	}
	if len(users) == 0 {
		return "", fmt.Errorf("no account found for %s, aborting publish", email)
	}
	return users[0].AccountID, nil
}
