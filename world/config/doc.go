// Package config loads the map definitions sessions are built from.
//
// Maps are JSON files in a single directory; the file name without its
// .json extension is the map ID used when creating a session. Every map is
// validated with nav.ValidateMapConfig before it is cached or saved.
//
// Map Format:
//
//	{
//	  "name": "Courtyard",
//	  "layout": ["#####", "#..,#", "#.#:#", "#####"],
//	  "start": {"x": 1, "y": 1},
//	  "iteration_budget": 2000,
//	  "heuristic": "octile",
//	  "terrain_cost": true
//	}
//
// Layout rows are read top to bottom. A blank rune leaves the position off
// the grid entirely. Without a legend the default one applies: '.' floor,
// ',' grass, ':' mud, '#' wall and '~' water.
//
// Usage:
//
//	manager, err := config.NewManager("configs")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	mapConfig, err := manager.LoadConfig("maze")
//	maps, err := manager.ListConfigs()
package config
