package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnsureParseTime(t *testing.T) {
	for _, tc := range []struct {
		name string
		dsn  string
		want string
	}{
		{
			"bare dsn",
			"user:pass@tcp(localhost:3306)/nexus",
			"user:pass@tcp(localhost:3306)/nexus?parseTime=true",
		},
		{
			"dsn with existing params",
			"user:pass@tcp(localhost:3306)/nexus?charset=utf8mb4",
			"user:pass@tcp(localhost:3306)/nexus?charset=utf8mb4&parseTime=true",
		},
		{
			"already enabled",
			"user:pass@tcp(localhost:3306)/nexus?parseTime=true",
			"user:pass@tcp(localhost:3306)/nexus?parseTime=true",
		},
		{
			"explicit setting left alone",
			"user:pass@tcp(localhost:3306)/nexus?parseTime=false",
			"user:pass@tcp(localhost:3306)/nexus?parseTime=false",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ensureParseTime(tc.dsn))
		})
	}
}
