package services

import (
	"os"
	"sync"

	confluence "github.com/ctreminiom/go-atlassian/confluence/v2"
	jira "github.com/ctreminiom/go-atlassian/jira/v3"
	"github.com/pkg/errors"
)

// AtlassianHost returns the site base URL, e.g. https://your-site.atlassian.net.
func AtlassianHost() string {
	return os.Getenv("ATLASSIAN_HOST")
}

func atlassianCredentials() (host, mail, token string, err error) {
	host = os.Getenv("ATLASSIAN_HOST")
	mail = os.Getenv("ATLASSIAN_EMAIL")
	token = os.Getenv("ATLASSIAN_TOKEN")
	if host == "" || mail == "" || token == "" {
		return "", "", "", errors.New("ATLASSIAN_HOST, ATLASSIAN_EMAIL and ATLASSIAN_TOKEN must be set in MCP Config")
	}
	return host, mail, token, nil
}

var ConfluenceClient = sync.OnceValue(func() *confluence.Client {
	host, mail, token, err := atlassianCredentials()
	if err != nil {
		panic(err)
	}

	client, err := confluence.New(nil, host)
	if err != nil {
		panic(errors.Wrap(err, "failed to create Confluence client"))
	}
	client.Auth.SetBasicAuth(mail, token)
	return client
})

var JiraClient = sync.OnceValue(func() *jira.Client {
	host, mail, token, err := atlassianCredentials()
	if err != nil {
		panic(err)
	}

	client, err := jira.New(nil, host)
	if err != nil {
		panic(errors.Wrap(err, "failed to create Jira client"))
	}
	client.Auth.SetBasicAuth(mail, token)
	return client
})
