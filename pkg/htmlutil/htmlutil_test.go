package htmlutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

func parseBody(t *testing.T, src string) *html.Node {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	// html > body
	return doc.FirstChild.LastChild
}

func TestGetText(t *testing.T) {
	body := parseBody(t, `<div>Chimie <span>101</span> groupe 2</div>`)
	require.Equal(t, "Chimie 101 groupe 2", GetText(body))
}

func TestGetOwnText(t *testing.T) {
	body := parseBody(t, `<div><span>Chimie</span>Salle B-201</div>`)
	require.Equal(t, "Salle B-201", GetOwnText(body.FirstChild))
	require.Equal(t, "", GetOwnText(nil))
}

func TestCleanText(t *testing.T) {
	testCases := []struct {
		in       string
		expected string
	}{
		{in: "  Plan de cours\r\n", expected: "Plan de cours"},
		{in: "Travail\n1", expected: "Travail 1"},
		{in: "\t\t", expected: ""},
		{in: "a\u0000b", expected: "ab"},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, CleanText(test.in), test.in)
	}

	require.Equal(t, "a b c", CollapseText(" a \n\n b    c "))
}
