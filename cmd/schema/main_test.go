package main

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestBuildSchemaMentionsFields(t *testing.T) {
	data, err := json.Marshal(buildSchema())
	if err != nil {
		t.Fatal(err)
	}
	for _, field := range []string{"version", "currency", "grid", "stats", "upgradeLevel", "highestTier"} {
		if !strings.Contains(string(data), `"`+field+`"`) {
			t.Fatalf("schema missing %s: %s", field, data)
		}
	}
}
