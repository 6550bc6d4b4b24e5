package dimension

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shardwell/worldcore/pkg/biome"
)

// BiomeMapAdjustments applies an additive bias to sampled temperature
// before clamping.
type BiomeMapAdjustments struct {
	HorizontalTemperatureVariation uint8 `json:"horizontal_temperature_variation"`
	VerticalTemperatureVariation   uint8 `json:"vertical_temperature_variation"`
}

// Schema is the decoded form of dimensions/<name>/dimension.json.
type Schema struct {
	Name               string                `json:"name"`
	SizeX              uint32                `json:"size_x"`
	SizeY              uint32                `json:"size_y"`
	BiomeMapAdjustments *BiomeMapAdjustments `json:"biome_map_adjustments,omitempty"`
}

type biomeConfigJSON struct {
	Temperature uint8  `json:"temperature"`
	Humidity    uint8  `json:"humidity"`
	BiomeType   string `json:"biome_type"`
	SurfaceBlock    uint32 `json:"surface_block"`
	SubsurfaceBlock uint32 `json:"subsurface_block"`
	BaseBlock       uint32 `json:"base_block"`
}

type noiseFunctionJSON struct {
	Amplitude    float32 `json:"amplitude"`
	Weight       float32 `json:"weight"`
	BlendingMode string  `json:"blending_mode"`
}

// biomeSchemaJSON is the decoded form of one dimensions/<name>/biomes/*.json
// file.
type biomeSchemaJSON struct {
	BiomeConfig    biomeConfigJSON `json:"biome_config"`
	NoiseFunctions struct {
		Continental noiseFunctionJSON `json:"continental"`
		Mountainous noiseFunctionJSON `json:"mountainous"`
		Hilly       noiseFunctionJSON `json:"hilly"`
		Texture     noiseFunctionJSON `json:"texture"`
		Cellular    noiseFunctionJSON `json:"cellular"`
		Gridlike    noiseFunctionJSON `json:"gridlike"`
	} `json:"noise_functions"`
}

func parseBiomeType(s string) (biome.Type, error) {
	switch s {
	case "Hot":
		return biome.Hot, nil
	case "Warm":
		return biome.Warm, nil
	case "Neutral":
		return biome.Neutral, nil
	case "Cold":
		return biome.Cold, nil
	case "Freezing":
		return biome.Freezing, nil
	default:
		return 0, fmt.Errorf("dimension: unknown biome_type %q", s)
	}
}

func parseBlendingMode(s string) (biome.BlendingMode, error) {
	switch s {
	case "Mix":
		return biome.Mix, nil
	case "MixPositive":
		return biome.MixPositive, nil
	case "MixNegative":
		return biome.MixNegative, nil
	case "Add":
		return biome.Add, nil
	case "Subtract":
		return biome.Subtract, nil
	case "Multiply":
		return biome.Multiply, nil
	default:
		return 0, fmt.Errorf("dimension: unknown blending_mode %q", s)
	}
}

func (j *biomeSchemaJSON) toBiome(name string) (*biome.Biome, error) {
	bt, err := parseBiomeType(j.BiomeConfig.BiomeType)
	if err != nil {
		return nil, err
	}

	layers := [6]noiseFunctionJSON{
		j.NoiseFunctions.Continental,
		j.NoiseFunctions.Mountainous,
		j.NoiseFunctions.Hilly,
		j.NoiseFunctions.Texture,
		j.NoiseFunctions.Cellular,
		j.NoiseFunctions.Gridlike,
	}
	var cfgs [6]biome.NoiseLayerConfig
	for i, l := range layers {
		mode, err := parseBlendingMode(l.BlendingMode)
		if err != nil {
			return nil, err
		}
		cfgs[i] = biome.NoiseLayerConfig{Amplitude: float64(l.Amplitude), Weight: float64(l.Weight), Blending: mode}
	}

	return &biome.Biome{
		Name:            name,
		Temperature:     j.BiomeConfig.Temperature,
		Humidity:        j.BiomeConfig.Humidity,
		Type:            bt,
		SurfaceBlock:    j.BiomeConfig.SurfaceBlock,
		SubsurfaceBlock: j.BiomeConfig.SubsurfaceBlock,
		BaseBlock:       j.BiomeConfig.BaseBlock,
		NoiseLayers:     cfgs,
	}, nil
}

// LoadSchema reads dimensions/<name>/dimension.json and every biome file
// under dimensions/<name>/biomes/*.json, a configuration error being fatal
// at startup per the core's error handling design.
func LoadSchema(dimensionsRoot, name string) (Schema, []*biome.Biome, error) {
	dimDir := filepath.Join(dimensionsRoot, name)

	raw, err := os.ReadFile(filepath.Join(dimDir, "dimension.json"))
	if err != nil {
		return Schema{}, nil, fmt.Errorf("dimension: load %s: %w", name, err)
	}
	var schema Schema
	if err := json.Unmarshal(raw, &schema); err != nil {
		return Schema{}, nil, fmt.Errorf("dimension: parse %s/dimension.json: %w", name, err)
	}

	biomeFiles, err := filepath.Glob(filepath.Join(dimDir, "biomes", "*.json"))
	if err != nil {
		return Schema{}, nil, fmt.Errorf("dimension: glob biomes for %s: %w", name, err)
	}
	if len(biomeFiles) == 0 {
		return Schema{}, nil, fmt.Errorf("dimension: no biome schemas found for %s", name)
	}

	biomes := make([]*biome.Biome, 0, len(biomeFiles))
	for _, path := range biomeFiles {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Schema{}, nil, fmt.Errorf("dimension: read %s: %w", path, err)
		}
		var bj biomeSchemaJSON
		if err := json.Unmarshal(raw, &bj); err != nil {
			return Schema{}, nil, fmt.Errorf("dimension: parse %s: %w", path, err)
		}
		b, err := bj.toBiome(filepath.Base(path))
		if err != nil {
			return Schema{}, nil, fmt.Errorf("dimension: %s: %w", path, err)
		}
		biomes = append(biomes, b)
	}

	return schema, biomes, nil
}
