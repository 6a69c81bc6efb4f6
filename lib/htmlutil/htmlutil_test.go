package htmlutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStripTags(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{input: "You have <b>already</b> enrolled", expected: "You have already enrolled"},
		{input: "  plain reason  ", expected: "plain reason"},
		{input: "<span style=\"color:red\">Class is full</span>", expected: "Class is full"},
		{input: "Fish &amp; Chips", expected: "Fish & Chips"},
		{input: "", expected: ""},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, StripTags(test.input), test.input)
	}
}

func TestIsLoginPage(t *testing.T) {
	ctx := context.Background()

	login := []byte(`<!DOCTYPE html><html><body>
		<a href="#content" class="skip">Skip to  main content</a>
		<form action="/sso"></form>
	</body></html>`)
	require.True(t, IsLoginPage(ctx, login))

	require.False(t, IsLoginPage(ctx, []byte(`[{"SECT_CODE":"A00"}]`)))
	require.False(t, IsLoginPage(ctx, []byte(`<html><body><a href="/">Home</a></body></html>`)))
	require.False(t, IsLoginPage(ctx, nil))
}
