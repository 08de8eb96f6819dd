package main

import (
	"strings"

	"sdkcheck/kb"
)

// normalizeName is the canonical snake_case id form shared with the
// knowledge base.
func normalizeName(name string) string {
	return kb.NormalizeName(name)
}

// clientFragment reduces a client binding name to a comparable service
// fragment: "sqsClient" and "sqs_client" both reduce to "sqs".
func clientFragment(name string) string {
	frag := normalizeName(name)
	frag = strings.ReplaceAll(frag, "client", "")
	return strings.ReplaceAll(frag, "_", "")
}

// fragmentMatches reports whether a client-name fragment identifies the
// given service id (underscores in the id are not significant).
func fragmentMatches(fragment, service string) bool {
	return fragment != "" && fragment == strings.ReplaceAll(service, "_", "")
}
