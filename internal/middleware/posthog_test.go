package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResourceFromRoute(t *testing.T) {
	tests := map[string]string{
		"/api/v1/accounts":                          "accounts",
		"/api/v1/accounts/:accountID/ledger":        "accounts",
		"/api/v1/adjusting-entries/:entryID/status": "adjusting-entries",
		"/api/v1/reports/:reportType":               "reports",
		"/auth/login":                               "",
		"":                                          "",
	}
	for route, want := range tests {
		assert.Equal(t, want, resourceFromRoute(route), route)
	}
}
