package app_test

import (
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/stamp/internal/app"
	_ "go.trai.ch/stamp/internal/wiring"
)

func TestComponents_Resolve(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](t.Context())
	require.NoError(t, err)

	require.NotNil(t, components)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
}
