package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/mogaika/figure_anim/anim/character"
)

func execute(t *testing.T, args ...string) (string, error) {
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMetadataCommand(t *testing.T) {
	out, err := execute(t, "metadata")
	require.NoError(t, err)
	assert.Contains(t, out, `"idle"`)
	assert.Contains(t, out, `"character_idle"`)
}

func TestPoseCommand(t *testing.T) {
	out, err := execute(t, "pose", "--time", "1.5", "--rate", "2", "-c", "../animhost.yaml", "-p", "sample")
	require.NoError(t, err)
	assert.Contains(t, out, "Rate: (float32) 2")
	assert.Contains(t, out, "lantern")
	assert.Contains(t, out, "light")
}

func TestPoseCommandErrors(t *testing.T) {
	_, err := execute(t, "pose", "--anim", "cartwheel")
	assert.Error(t, err)

	_, err = execute(t, "pose", "--kind", "dragon")
	assert.Error(t, err)

	_, err = execute(t, "pose", "--preset", "missing")
	assert.Error(t, err)
}

func TestGLTFCommand(t *testing.T) {
	output := filepath.Join(t.TempDir(), "idle.glb")
	_, err := execute(t, "gltf", "-o", output, "-t", "0.25")
	require.NoError(t, err)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, "glTF", string(data[:4]))
}
