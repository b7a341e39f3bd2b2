package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStandardPermissions_NoDuplicates(t *testing.T) {
	seen := make(map[string]bool, len(StandardPermissions))
	for _, p := range StandardPermissions {
		assert.False(t, seen[p], "duplicate permission %q in standard taxonomy", p)
		seen[p] = true
	}
}

func TestRootPermissions_DisjointFromStandard(t *testing.T) {
	standard := make(map[string]bool, len(StandardPermissions))
	for _, p := range StandardPermissions {
		standard[p] = true
	}
	for _, p := range RootPermissions {
		assert.False(t, standard[p], "root-only permission %q also appears in standard taxonomy", p)
	}
}

func TestBasicPermissions_SubsetOfStandard(t *testing.T) {
	standard := make(map[string]bool, len(StandardPermissions))
	for _, p := range StandardPermissions {
		standard[p] = true
	}
	for _, p := range BasicPermissions {
		assert.True(t, standard[p], "basic permission %q missing from standard taxonomy", p)
	}
}
