package board

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/marblecore/bluemarble-backend/platform/engine"
)

// Definitions bundles everything a game needs from disk: the validated
// raw JSON documents handed to the engine constructor, the parsed tiles
// the host navigates with, and the Lua rule-script sources.
type Definitions struct {
	BoardJSON  []byte
	CardsJSON  []byte
	ConstsJSON []byte

	Tiles   []engine.Tile
	Scripts map[string]string
}

// Load reads board.json, chance_cards.json, consts.json and scripts/*.lua
// from dir. Every document is checked against its schema first so a bad
// definition fails loudly before any game is created.
func Load(dir string) (*Definitions, error) {
	boardJSON, err := loadValidated(filepath.Join(dir, "board.json"), boardSchema)
	if err != nil {
		return nil, err
	}
	cardsJSON, err := loadValidated(filepath.Join(dir, "chance_cards.json"), cardsSchema)
	if err != nil {
		return nil, err
	}
	constsJSON, err := loadValidated(filepath.Join(dir, "consts.json"), constsSchema)
	if err != nil {
		return nil, err
	}

	var tiles []engine.Tile
	if err := json.Unmarshal(boardJSON, &tiles); err != nil {
		return nil, fmt.Errorf("parse board.json: %w", err)
	}

	scripts, err := LoadScripts(filepath.Join(dir, "scripts"))
	if err != nil {
		return nil, err
	}

	return &Definitions{
		BoardJSON:  boardJSON,
		CardsJSON:  cardsJSON,
		ConstsJSON: constsJSON,
		Tiles:      tiles,
		Scripts:    scripts,
	}, nil
}

// LoadScripts reads every .lua file in dir, keyed by base name. A tile
// looks its script up by name first, then by type, then "default".
func LoadScripts(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read scripts dir: %w", err)
	}
	scripts := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".lua") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read script %s: %w", entry.Name(), err)
		}
		scripts[strings.TrimSuffix(entry.Name(), ".lua")] = string(data)
	}
	return scripts, nil
}

// ScriptFor picks the action script for a tile: by tile name, falling
// back to the tile type, falling back to "default".
func (d *Definitions) ScriptFor(tile engine.Tile) (string, error) {
	for _, key := range []string{tile.Name, tile.Type, "default"} {
		if src, ok := d.Scripts[key]; ok {
			return src, nil
		}
	}
	return "", fmt.Errorf("no script for tile %q (type %s)", tile.Name, tile.Type)
}

// CycleScript returns the payday computation script.
func (d *Definitions) CycleScript() (string, error) {
	src, ok := d.Scripts["cycle"]
	if !ok {
		return "", fmt.Errorf("missing cycle script")
	}
	return src, nil
}

// ChanceScript returns the chance-card resolution script.
func (d *Definitions) ChanceScript() (string, error) {
	src, ok := d.Scripts["chance_card"]
	if !ok {
		return "", fmt.Errorf("missing chance_card script")
	}
	return src, nil
}

func loadValidated(path string, schema *jsonSchema) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := schema.validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return data, nil
}
