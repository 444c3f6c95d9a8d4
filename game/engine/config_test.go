package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeGameConfig(t *testing.T) {
	jsonData := []byte(`{"name":"tiny","description":"Tiny board","width":4,"height":3,"mines":2}`)
	yamlData := []byte("name: tiny\ndescription: Tiny board\nwidth: 4\nheight: 3\nmines: 2\nseed: 7\n")

	fromJSON, err := DecodeGameConfig(jsonData, ".json")
	require.NoError(t, err)
	assert.Equal(t, 4, fromJSON.Width)
	assert.Nil(t, fromJSON.Seed)

	fromYAML, err := DecodeGameConfig(yamlData, ".YML")
	require.NoError(t, err)
	assert.Equal(t, fromJSON.Name, fromYAML.Name)
	assert.Equal(t, 3, fromYAML.Height)
	require.NotNil(t, fromYAML.Seed)
	assert.Equal(t, uint64(7), *fromYAML.Seed)

	_, err = DecodeGameConfig([]byte("{"), ".json")
	assert.Error(t, err)
	_, err = DecodeGameConfig([]byte("width: [1"), ".yaml")
	assert.Error(t, err)
}

func TestLoadGameConfig(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("name: good\ndescription: Good board\nwidth: 5\nheight: 5\nmines: 5\n"), 0644))
	config, err := LoadGameConfig(good)
	require.NoError(t, err)
	assert.Equal(t, "good", config.Name)

	dense := filepath.Join(dir, "dense.json")
	require.NoError(t, os.WriteFile(dense, []byte(`{"name":"dense","description":"Too many","width":2,"height":2,"mines":4}`), 0644))
	_, err = LoadGameConfig(dense)
	assert.True(t, errors.Is(err, ErrInvalidConfig))

	_, err = LoadGameConfig(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestValidateDimensions(t *testing.T) {
	assert.NoError(t, ValidateDimensions(1, 1, 0))
	assert.NoError(t, ValidateDimensions(MaxBoardSize, MaxBoardSize, MaxBoardSize*MaxBoardSize-1))
	assert.Error(t, ValidateDimensions(1, 1, 1))
	assert.Error(t, ValidateDimensions(MaxBoardSize+1, 1, 0))
}

func TestMineDensity(t *testing.T) {
	assert.InDelta(t, 0.1235, MineDensity(9, 9, 10), 0.0001)
	assert.Equal(t, 0.0, MineDensity(0, 9, 10))
}
