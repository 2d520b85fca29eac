package generate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEventIDStableAcrossCalls(t *testing.T) {
	t.Parallel()

	a := Request{Topic: "onboarding", Organization: "Acme", Role: "HR Lead", DurationWeeks: 8}
	b := Request{Topic: "onboarding", Organization: "Acme", Role: "HR Lead", DurationWeeks: 8}

	require.Equal(t, a.EventID(), b.EventID())
	require.True(t, strings.HasPrefix(a.EventID(), "reqsha256:"))
}

func TestEventIDChangesWithContent(t *testing.T) {
	t.Parallel()

	a := Request{Topic: "onboarding", Organization: "Acme", Role: "HR Lead"}
	b := Request{Topic: "offboarding", Organization: "Acme", Role: "HR Lead"}
	c := Request{Topic: "onboarding", Organization: "Acme", Role: "HR Lead", Provider: "claude"}

	require.NotEqual(t, a.EventID(), b.EventID())
	require.NotEqual(t, a.EventID(), c.EventID())
}

func TestBuildPromptCarriesRequestFields(t *testing.T) {
	t.Parallel()

	p := BuildPrompt(Request{
		Topic:         "security awareness",
		Organization:  "Acme Corp",
		Role:          "CISO",
		Audience:      "engineering",
		DurationWeeks: 6,
		Goals:         []string{"reduce phishing clicks", "pass audit"},
	})

	require.Contains(t, p, "security awareness")
	require.Contains(t, p, `"Acme Corp"`)
	require.Contains(t, p, `"CISO"`)
	require.Contains(t, p, "engineering")
	require.Contains(t, p, "6 weeks")
	require.Contains(t, p, "reduce phishing clicks; pass audit")
	require.Contains(t, p, "displayType")
}

func TestBuildRepairPromptEmbedsPreviousOutput(t *testing.T) {
	t.Parallel()

	p := BuildRepairPrompt(Request{Organization: "Acme", Role: "CISO"}, `{"broken": `)
	require.Contains(t, p, `{"broken": `)
	require.Contains(t, p, `"Acme"`)

	p = BuildRepairPrompt(Request{Organization: "Acme", Role: "CISO"}, "")
	require.Contains(t, p, "<empty>")
}
