package game

import (
	"testing"

	"github.com/pthm-cable/blobs/field"
)

func mustSnapshotField(t *testing.T, g *Game) *field.Field {
	t.Helper()
	f, err := field.New(g.Emitters(), g.Params().Smoothing)
	if err != nil {
		t.Fatal(err)
	}
	return f
}
